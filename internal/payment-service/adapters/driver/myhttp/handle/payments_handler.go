package handle

import (
	"encoding/json"
	"net/http"

	"walk-companion/internal/mylogger"
	"walk-companion/internal/payment-service/core/domain/dto"
	"walk-companion/internal/payment-service/core/ports"
)

type PaymentsHandler struct {
	paymentsService ports.IPaymentsService
	log             mylogger.Logger
}

func NewPaymentsHandler(ps ports.IPaymentsService, log mylogger.Logger) *PaymentsHandler {
	return &PaymentsHandler{
		paymentsService: ps,
		log:             log,
	}
}

func (ph *PaymentsHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.CreateOrderRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := ph.paymentsService.CreateOrder(r.Header.Get("X-UserId"), req.SessionID)
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusCreated, res)
	}
}

func (ph *PaymentsHandler) VerifyPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.VerifyPaymentRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := ph.paymentsService.VerifyPayment(req)
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (ph *PaymentsHandler) GetPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := ph.paymentsService.GetPayment(r.Header.Get("X-UserId"), r.PathValue("payment_id"))
		if err != nil {
			serviceError(w, err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}
