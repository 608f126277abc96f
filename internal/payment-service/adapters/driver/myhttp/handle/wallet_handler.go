package handle

import (
	"encoding/json"
	"net/http"
	"strconv"

	"walk-companion/internal/mylogger"
	"walk-companion/internal/payment-service/core/domain/dto"
	"walk-companion/internal/payment-service/core/ports"
)

type WalletHandler struct {
	walletService ports.IWalletService
	log           mylogger.Logger
}

func NewWalletHandler(ws ports.IWalletService, log mylogger.Logger) *WalletHandler {
	return &WalletHandler{
		walletService: ws,
		log:           log,
	}
}

func (wh *WalletHandler) Balance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := wh.walletService.Balance(r.Header.Get("X-UserId"))
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (wh *WalletHandler) Add() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.AddToWalletRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := wh.walletService.Add(r.Header.Get("X-UserId"), req.Amount)
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (wh *WalletHandler) Withdraw() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.WithdrawRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := wh.walletService.Withdraw(r.Header.Get("X-UserId"), req)
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusCreated, res)
	}
}

func (wh *WalletHandler) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		res, err := wh.walletService.History(r.Header.Get("X-UserId"), page, limit)
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}
