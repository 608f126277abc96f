package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"walk-companion/internal/config"
	"walk-companion/internal/payment-service/core/domain/dto"
	"walk-companion/internal/payment-service/core/domain/model"
	"walk-companion/internal/payment-service/core/myerrors"
)

type walletFixture struct {
	svc      *WalletService
	wallet   *fakeWalletRepo
	payouts  *fakePayoutsRepo
	provider *fakeTransferProvider
}

func newWalletFixture(t *testing.T, provider *fakeTransferProvider) *walletFixture {
	fx := &walletFixture{
		wallet:   newFakeWalletRepo(),
		provider: provider,
	}
	fx.payouts = newFakePayoutsRepo(fx.wallet)
	cfg := &config.Paymentconfig{MinWithdrawAmount: 100}
	fx.svc = NewWalletService(context.Background(), testLogger(t), cfg,
		fx.wallet, fx.payouts, fx.provider).(*WalletService)
	return fx
}

func upiWithdraw(amount float64) dto.WithdrawRequestDto {
	return dto.WithdrawRequestDto{
		Amount: amount,
		Method: model.MethodUpi,
		UpiID:  "walker@bank",
	}
}

func TestAddToWallet(t *testing.T) {
	fx := newWalletFixture(t, &fakeTransferProvider{})

	res, err := fx.svc.Add("walker-1", 250)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if res.Balance != 250 {
		t.Errorf("expected balance 250, got %v", res.Balance)
	}

	if _, err := fx.svc.Add("walker-1", 0); !errors.Is(err, myerrors.ErrValidation) {
		t.Errorf("zero top-up should fail validation, got %v", err)
	}
	if _, err := fx.svc.Add("walker-1", -10); !errors.Is(err, myerrors.ErrValidation) {
		t.Errorf("negative top-up should fail validation, got %v", err)
	}
}

func TestWithdrawValidation(t *testing.T) {
	tests := []struct {
		name string
		req  dto.WithdrawRequestDto
	}{
		{"zero amount", dto.WithdrawRequestDto{Amount: 0, Method: model.MethodUpi, UpiID: "walker@bank"}},
		{"below minimum", dto.WithdrawRequestDto{Amount: 50, Method: model.MethodUpi, UpiID: "walker@bank"}},
		{"short upi id", dto.WithdrawRequestDto{Amount: 200, Method: model.MethodUpi, UpiID: "a@b"}},
		{"bank without account", dto.WithdrawRequestDto{Amount: 200, Method: model.MethodBank, Ifsc: "HDFC0001234"}},
		{"bank without ifsc", dto.WithdrawRequestDto{Amount: 200, Method: model.MethodBank, AccountNumber: "1234567890"}},
		{"unknown method", dto.WithdrawRequestDto{Amount: 200, Method: "CHEQUE"}},
	}

	fx := newWalletFixture(t, &fakeTransferProvider{})
	fx.wallet.balances["walker-1"] = 1000

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := fx.svc.Withdraw("walker-1", tc.req); !errors.Is(err, myerrors.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	fx := newWalletFixture(t, &fakeTransferProvider{enabled: true, processed: true})
	fx.wallet.balances["walker-1"] = 50

	if _, err := fx.svc.Withdraw("walker-1", upiWithdraw(200)); !errors.Is(err, myerrors.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	if fx.provider.calls != 0 {
		t.Errorf("transfer must not run when the debit fails, got %d calls", fx.provider.calls)
	}
	if len(fx.payouts.payouts) != 0 {
		t.Errorf("no payout row should exist, got %d", len(fx.payouts.payouts))
	}
	if fx.wallet.balances["walker-1"] != 50 {
		t.Errorf("balance must be untouched, got %v", fx.wallet.balances["walker-1"])
	}
}

func TestWithdrawDebitsBeforeTransfer(t *testing.T) {
	fx := newWalletFixture(t, &fakeTransferProvider{
		enabled: true,
		err:     errors.New("provider unreachable"),
	})
	fx.wallet.balances["walker-1"] = 500

	res, err := fx.svc.Withdraw("walker-1", upiWithdraw(200))
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if fx.provider.calls != 1 {
		t.Fatalf("expected one transfer attempt, got %d", fx.provider.calls)
	}
	if fx.wallet.balances["walker-1"] != 300 {
		t.Errorf("wallet must be debited before the transfer runs, got %v", fx.wallet.balances["walker-1"])
	}

	p, ok := fx.payouts.payouts[res.PayoutID]
	if !ok {
		t.Fatalf("payout row %s should exist", res.PayoutID)
	}
	if p.Status != model.PayoutPending {
		t.Errorf("payout should stay PENDING on provider failure, got %s", p.Status)
	}
}

func TestWithdrawSimulatedWhenProviderDisabled(t *testing.T) {
	fx := newWalletFixture(t, &fakeTransferProvider{enabled: false})
	fx.wallet.balances["walker-1"] = 500

	res, err := fx.svc.Withdraw("walker-1", upiWithdraw(200))
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if res.Status != model.PayoutSuccess {
		t.Errorf("expected SUCCESS, got %s", res.Status)
	}
	if !strings.HasPrefix(res.ExternalReferenceID, "SIMULATED_") {
		t.Errorf("expected simulated reference, got %q", res.ExternalReferenceID)
	}
	if res.RemainingBalance != 300 {
		t.Errorf("expected remaining 300, got %v", res.RemainingBalance)
	}
}

func TestWithdrawProcessedByProvider(t *testing.T) {
	fx := newWalletFixture(t, &fakeTransferProvider{
		enabled:     true,
		processed:   true,
		referenceID: "pout_abc",
	})
	fx.wallet.balances["walker-1"] = 500

	res, err := fx.svc.Withdraw("walker-1", upiWithdraw(200))
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if res.Status != model.PayoutSuccess {
		t.Errorf("expected SUCCESS, got %s", res.Status)
	}
	if res.ExternalReferenceID != "pout_abc" {
		t.Errorf("expected provider reference, got %q", res.ExternalReferenceID)
	}
}

func TestWithdrawProviderFailureStaysPending(t *testing.T) {
	fx := newWalletFixture(t, &fakeTransferProvider{
		enabled: true,
		err:     errors.New("provider unreachable"),
	})
	fx.wallet.balances["walker-1"] = 500

	res, err := fx.svc.Withdraw("walker-1", upiWithdraw(200))
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if res.Status != model.PayoutPending {
		t.Errorf("payout should stay PENDING on provider failure, got %s", res.Status)
	}
	// The wallet is still debited, the payout is on record.
	if res.RemainingBalance != 300 {
		t.Errorf("expected remaining 300, got %v", res.RemainingBalance)
	}
}

func TestWithdrawDeferredByProvider(t *testing.T) {
	fx := newWalletFixture(t, &fakeTransferProvider{
		enabled:     true,
		processed:   false,
		referenceID: "pout_queued",
	})
	fx.wallet.balances["walker-1"] = 500

	res, err := fx.svc.Withdraw("walker-1", upiWithdraw(200))
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if res.Status != model.PayoutPending {
		t.Errorf("queued payout should stay PENDING, got %s", res.Status)
	}
	if res.ExternalReferenceID != "pout_queued" {
		t.Errorf("expected queued reference, got %q", res.ExternalReferenceID)
	}
}

func TestHistoryClampsPaging(t *testing.T) {
	fx := newWalletFixture(t, &fakeTransferProvider{})

	res, err := fx.svc.History("walker-1", 0, 500)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if res.Page != 1 || res.Limit != 10 {
		t.Errorf("expected clamped paging 1/10, got %d/%d", res.Page, res.Limit)
	}
}
