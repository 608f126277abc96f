package handle

import (
	"encoding/json"
	"net/http"
	"strconv"

	"walk-companion/internal/mylogger"
	"walk-companion/internal/walk-service/core/domain/dto"
	"walk-companion/internal/walk-service/core/ports"
)

type WalksHandler struct {
	walksService ports.IWalksService
	log          mylogger.Logger
}

func NewWalksHandler(ws ports.IWalksService, log mylogger.Logger) *WalksHandler {
	return &WalksHandler{
		walksService: ws,
		log:          log,
	}
}

func (wh *WalksHandler) CreateWalk() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.WalkRequestDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := wh.walksService.CreateWalk(r.Header.Get("X-UserId"), req)
		if err != nil {
			serviceError(w, err)
			return
		}

		jsonResponse(w, http.StatusCreated, res)
	}
}

func (wh *WalksHandler) GetWalk() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := wh.walksService.GetWalk(r.Header.Get("X-UserId"), r.PathValue("walk_id"))
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (wh *WalksHandler) GetActiveWalk() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := wh.walksService.GetActiveWalk(r.Header.Get("X-UserId"))
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (wh *WalksHandler) GetHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		res, err := wh.walksService.GetHistory(r.Header.Get("X-UserId"), page, limit)
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (wh *WalksHandler) CancelWalk() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.WalkCancelRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		if err := wh.walksService.CancelWalk(r.Header.Get("X-UserId"), r.PathValue("walk_id"), req.Reason); err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"status": "CANCELLED"})
	}
}
