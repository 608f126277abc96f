package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	DB       *DBconfig
	RabbitMq *RabbitMqconfig
	Redis    *Redisconfig
	Srv      *Serviceconfig
	App      *Appconfig
	Payment  *Paymentconfig
	Matching *Matchingconfig
	Log      *Loggerconfig
}

type DBconfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type RabbitMqconfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

type Redisconfig struct {
	Host     string
	Port     int
	Password string
}

type Serviceconfig struct {
	WalkServicePort           string
	WalkerLocationServicePort string
	PaymentServicePort        string
}

type Appconfig struct {
	PublicJwtSecret string
}

type Paymentconfig struct {
	GatewayBaseURL    string
	GatewayKeyID      string
	GatewayKeySecret  string
	PayoutsEnabled    bool
	PayoutAccountNo   string
	MinWithdrawAmount float64
}

type Matchingconfig struct {
	DefaultRadiusKm  float64
	NotifyTopN       int
	HeartbeatTTLSec  int
	CooldownSeconds  int
	OTPExpiryMinutes int
}

type Loggerconfig struct {
	Level string
}

func New() (*Config, error) {
	getEnv := func(key, def string) string {
		val := os.Getenv(key)
		if val == "" {
			return def
		}
		return val
	}

	getEnvInt := func(key string, def int) int {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := strconv.Atoi(valStr)
		if err != nil {
			fmt.Printf("invalid %v, using default %v\n", key, def)
			return def
		}
		return val
	}

	getEnvFloat := func(key string, def float64) float64 {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			fmt.Printf("invalid %v, using default %v\n", key, def)
			return def
		}
		return val
	}

	getEnvBool := func(key string, def bool) bool {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := strconv.ParseBool(valStr)
		if err != nil {
			return def
		}
		return val
	}

	cnf := &Config{
		DB: &DBconfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "walkmate_user"),
			Password: getEnv("DB_PASSWORD", "walkmate_pass"),
			Database: getEnv("DB_NAME", "walkmate_db"),
		},
		RabbitMq: &RabbitMqconfig{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnvInt("RABBITMQ_PORT", 5672),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			VHost:    getEnv("RABBITMQ_VHOST", ""),
		},
		Redis: &Redisconfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Srv: &Serviceconfig{
			WalkServicePort:           getEnv("WALK_SERVICE_PORT", "3000"),
			WalkerLocationServicePort: getEnv("WALKER_LOCATION_SERVICE_PORT", "3001"),
			PaymentServicePort:        getEnv("PAYMENT_SERVICE_PORT", "3002"),
		},
		App: &Appconfig{
			PublicJwtSecret: getEnv("JWT_SECRET", "walkmate-dev-secret"),
		},
		Payment: &Paymentconfig{
			GatewayBaseURL:    getEnv("GATEWAY_BASE_URL", "https://api.razorpay.com/v1"),
			GatewayKeyID:      getEnv("GATEWAY_KEY_ID", ""),
			GatewayKeySecret:  getEnv("GATEWAY_KEY_SECRET", ""),
			PayoutsEnabled:    getEnvBool("PAYOUTS_ENABLED", false),
			PayoutAccountNo:   getEnv("PAYOUT_ACCOUNT_NUMBER", ""),
			MinWithdrawAmount: getEnvFloat("MIN_WITHDRAW_AMOUNT", 100),
		},
		Matching: &Matchingconfig{
			DefaultRadiusKm:  getEnvFloat("MATCH_RADIUS_KM", 5),
			NotifyTopN:       getEnvInt("MATCH_NOTIFY_TOP_N", 5),
			HeartbeatTTLSec:  getEnvInt("MATCH_HEARTBEAT_TTL_SEC", 60),
			CooldownSeconds:  getEnvInt("MATCH_COOLDOWN_SEC", 30),
			OTPExpiryMinutes: getEnvInt("OTP_EXPIRY_MINUTES", 5),
		},
		Log: &Loggerconfig{
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
	}

	return cnf, nil
}
