package main

import (
	"context"
	"fmt"
	"os"

	"walk-companion/internal/config"
	"walk-companion/internal/mylogger"
	paymentservice "walk-companion/internal/payment-service"
	walkservice "walk-companion/internal/walk-service"
	walkerlocationservice "walk-companion/internal/walker-location-service"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: app <walk-service|walker-location-service|payment-service>")
		os.Exit(1)
	}

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	mylog, err := mylogger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "walk-service":
		err = walkservice.Execute(ctx, mylog.Action("walk_service"), cfg)
	case "walker-location-service":
		err = walkerlocationservice.Execute(ctx, mylog.Action("walker_location_service"), cfg)
	case "payment-service":
		err = paymentservice.Execute(ctx, mylog.Action("payment_service"), cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown service %q\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		mylog.Error("service exited with error", err)
		os.Exit(1)
	}
}
