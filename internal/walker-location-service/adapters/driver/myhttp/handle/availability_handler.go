package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"walk-companion/internal/mylogger"
	"walk-companion/internal/walker-location-service/core/domain/dto"
	"walk-companion/internal/walker-location-service/core/myerrors"
	"walk-companion/internal/walker-location-service/core/ports"
)

type AvailabilityHandler struct {
	availabilityService ports.IAvailabilityService
	log                 mylogger.Logger
}

func NewAvailabilityHandler(as ports.IAvailabilityService, log mylogger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityService: as,
		log:                 log,
	}
}

func (ah *AvailabilityHandler) GoOnline() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.LocationDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		if err := ah.availabilityService.GoOnline(r.Header.Get("X-UserId"), req.Latitude, req.Longitude); err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]bool{"available": true})
	}
}

func (ah *AvailabilityHandler) GoOffline() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ah.availabilityService.GoOffline(r.Header.Get("X-UserId")); err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]bool{"available": false})
	}
}

func (ah *AvailabilityHandler) Heartbeat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.LocationDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		if err := ah.availabilityService.Heartbeat(r.Header.Get("X-UserId"), req.Latitude, req.Longitude); err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, nil)
	}
}

func (ah *AvailabilityHandler) SetBusy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.SetBusyRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		if err := ah.availabilityService.SetBusy(r.Header.Get("X-UserId"), req.Busy); err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]bool{"manual_busy": req.Busy})
	}
}

func (ah *AvailabilityHandler) GetAvailability() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := ah.availabilityService.GetAvailability(r.Header.Get("X-UserId"))
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, myerrors.ErrNotFound):
		JsonError(w, http.StatusNotFound, err)
	case errors.Is(err, myerrors.ErrValidation):
		JsonError(w, http.StatusBadRequest, err)
	default:
		JsonError(w, http.StatusInternalServerError, err)
	}
}
