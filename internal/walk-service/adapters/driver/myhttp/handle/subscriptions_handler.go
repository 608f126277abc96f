package handle

import (
	"encoding/json"
	"net/http"

	"walk-companion/internal/mylogger"
	"walk-companion/internal/walk-service/core/domain/dto"
	"walk-companion/internal/walk-service/core/ports"
)

type SubscriptionsHandler struct {
	subscriptionsService ports.ISubscriptionsService
	log                  mylogger.Logger
}

func NewSubscriptionsHandler(ss ports.ISubscriptionsService, log mylogger.Logger) *SubscriptionsHandler {
	return &SubscriptionsHandler{
		subscriptionsService: ss,
		log:                  log,
	}
}

func (sh *SubscriptionsHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.SubscriptionRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := sh.subscriptionsService.Create(r.Header.Get("X-UserId"), req)
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusCreated, res)
	}
}

func (sh *SubscriptionsHandler) GetActive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := sh.subscriptionsService.GetActive(r.Header.Get("X-UserId"))
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (sh *SubscriptionsHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.SubscriptionRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := sh.subscriptionsService.Update(r.Header.Get("X-UserId"), r.PathValue("subscription_id"), req)
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (sh *SubscriptionsHandler) QuickStart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.QuickStartRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := sh.subscriptionsService.QuickStart(r.Header.Get("X-UserId"), req)
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusCreated, res)
	}
}

func (sh *SubscriptionsHandler) Pause() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sh.subscriptionsService.Pause(r.Header.Get("X-UserId"), r.PathValue("subscription_id")); err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "PAUSED"})
	}
}

func (sh *SubscriptionsHandler) Resume() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sh.subscriptionsService.Resume(r.Header.Get("X-UserId"), r.PathValue("subscription_id")); err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ACTIVE"})
	}
}

func (sh *SubscriptionsHandler) Cancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sh.subscriptionsService.Cancel(r.Header.Get("X-UserId"), r.PathValue("subscription_id")); err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "CANCELLED"})
	}
}
