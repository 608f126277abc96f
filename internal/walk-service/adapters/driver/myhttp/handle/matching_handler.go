package handle

import (
	"encoding/json"
	"net/http"

	"walk-companion/internal/mylogger"
	"walk-companion/internal/walk-service/core/domain/dto"
	"walk-companion/internal/walk-service/core/ports"
)

type MatchingHandler struct {
	matchingService ports.IMatchingService
	log             mylogger.Logger
}

func NewMatchingHandler(ms ports.IMatchingService, log mylogger.Logger) *MatchingHandler {
	return &MatchingHandler{
		matchingService: ms,
		log:             log,
	}
}

func (mh *MatchingHandler) FindWalkers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.FindWalkersRequestDto{}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		res, err := mh.matchingService.FindWalkers(r.PathValue("walk_id"), req.RadiusKm)
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (mh *MatchingHandler) Accept() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := mh.matchingService.Accept(r.PathValue("walk_id"), r.Header.Get("X-UserId"))
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (mh *MatchingHandler) Reject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := mh.matchingService.Reject(r.PathValue("walk_id"), r.Header.Get("X-UserId")); err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "REJECTED"})
	}
}

func (mh *MatchingHandler) RequestWalker() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.RequestWalkerDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		if err := mh.matchingService.RequestWalker(r.Header.Get("X-UserId"), r.PathValue("walk_id"), req.WalkerID); err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "REQUESTED"})
	}
}

func (mh *MatchingHandler) PendingRequests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := mh.matchingService.PendingRequests(r.Header.Get("X-UserId"))
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}
