package handle

import (
	"encoding/json"
	"net/http"

	"walk-companion/internal/mylogger"
	"walk-companion/internal/walk-service/core/domain/dto"
	"walk-companion/internal/walk-service/core/ports"
)

type SessionsHandler struct {
	sessionsService ports.ISessionsService
	log             mylogger.Logger
}

func NewSessionsHandler(ss ports.ISessionsService, log mylogger.Logger) *SessionsHandler {
	return &SessionsHandler{
		sessionsService: ss,
		log:             log,
	}
}

func (sh *SessionsHandler) StartWalk() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.StartWalkRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := sh.sessionsService.StartWalk(r.Header.Get("X-UserId"), r.PathValue("walk_id"), req.Otp)
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusCreated, res)
	}
}

func (sh *SessionsHandler) EndWalk() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := sh.sessionsService.EndWalk(r.Header.Get("X-UserId"), r.PathValue("session_id"))
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (sh *SessionsHandler) GetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := sh.sessionsService.GetSession(r.Header.Get("X-UserId"), r.PathValue("session_id"))
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (sh *SessionsHandler) TriggerSos() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sh.sessionsService.TriggerSos(r.Header.Get("X-UserId"), r.PathValue("session_id")); err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "SOS_TRIGGERED"})
	}
}

func (sh *SessionsHandler) ResolveSos() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.ResolveSosRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		if err := sh.sessionsService.ResolveSos(r.Header.Get("X-UserId"), r.PathValue("session_id"), req.Notes); err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "SOS_RESOLVED"})
	}
}
