package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"walk-companion/internal/mylogger"
	messagebrokerdto "walk-companion/internal/payment-service/core/domain/message_broker_dto"
	"walk-companion/internal/payment-service/core/domain/model"
	"walk-companion/internal/payment-service/core/myerrors"
	"walk-companion/internal/payment-service/core/ports"
)

func testLogger(t *testing.T) mylogger.Logger {
	t.Helper()
	log, err := mylogger.New(mylogger.LevelError)
	if err != nil {
		t.Fatalf("create logger: %v", err)
	}
	return log
}

type fakeSessionsRepo struct {
	sessions map[string]model.SessionView
}

func (f *fakeSessionsRepo) FindByID(_ context.Context, sessionID string) (model.SessionView, error) {
	s, ok := f.sessions[sessionID]
	if !ok {
		return model.SessionView{}, myerrors.ErrNotFound
	}
	return s, nil
}

// fakePaymentsRepo mirrors the guarded-update reconciliation: the first
// verify settles, later ones return the stored record unapplied.
type fakePaymentsRepo struct {
	mu       sync.Mutex
	nextID   int
	payments map[string]model.Payment
}

func newFakePaymentsRepo() *fakePaymentsRepo {
	return &fakePaymentsRepo{payments: map[string]model.Payment{}}
}

func (f *fakePaymentsRepo) Create(_ context.Context, p model.Payment) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID = fmt.Sprintf("payment-%d", f.nextID)
	p.CreatedAt = time.Now()
	f.payments[p.ID] = p
	return p.ID, nil
}

func (f *fakePaymentsRepo) FindByID(_ context.Context, paymentID string) (model.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[paymentID]
	if !ok {
		return model.Payment{}, myerrors.ErrNotFound
	}
	return p, nil
}

func (f *fakePaymentsRepo) FindByOrderID(_ context.Context, orderID string) (model.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.GatewayOrderID == orderID {
			return p, nil
		}
	}
	return model.Payment{}, myerrors.ErrNotFound
}

func (f *fakePaymentsRepo) FindLiveBySession(_ context.Context, sessionID string) (model.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.WalkSessionID == sessionID &&
			(p.Status == model.PaymentPending || p.Status == model.PaymentSuccess) {
			return p, nil
		}
	}
	return model.Payment{}, myerrors.ErrNotFound
}

func (f *fakePaymentsRepo) Reconcile(_ context.Context, orderID, paymentID, signature string) (ports.ReconcileResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, p := range f.payments {
		if p.GatewayOrderID != orderID {
			continue
		}
		if p.Status != model.PaymentPending {
			return ports.ReconcileResult{Payment: p, Applied: false}, nil
		}
		p.Status = model.PaymentSuccess
		p.GatewayPaymentID = paymentID
		p.GatewaySignature = signature
		p.CompletedAt = time.Now()
		f.payments[id] = p
		return ports.ReconcileResult{Payment: p, Applied: true}, nil
	}
	return ports.ReconcileResult{}, myerrors.ErrNotFound
}

type fakeGateway struct {
	mu            sync.Mutex
	nextOrder     int
	goodSignature string
	createErr     error
}

func (f *fakeGateway) CreateOrder(_ context.Context, amountPaise int64, receipt string) (ports.GatewayOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return ports.GatewayOrder{}, f.createErr
	}
	f.nextOrder++
	return ports.GatewayOrder{
		OrderID:     fmt.Sprintf("order_%d", f.nextOrder),
		AmountPaise: amountPaise,
		Currency:    "INR",
		Receipt:     receipt,
	}, nil
}

func (f *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == f.goodSignature
}

type fakeAvailabilityControl struct {
	mu       sync.Mutex
	reopened []string
	cleared  []string
}

func (f *fakeAvailabilityControl) ReopenWithCooldown(_ context.Context, walkerID string, cooldownSeconds int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reopened = append(f.reopened, walkerID)
	return nil
}

func (f *fakeAvailabilityControl) ClearEngaged(_ context.Context, walkerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, walkerID)
	return nil
}

type fakeBroker struct {
	mu   sync.Mutex
	sent []messagebrokerdto.Notification
}

func (f *fakeBroker) PushNotification(_ context.Context, msg messagebrokerdto.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeBroker) Close() error { return nil }

type fakeWalletRepo struct {
	mu       sync.Mutex
	balances map[string]float64
	entries  []model.HistoryEntry
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{balances: map[string]float64{}}
}

func (f *fakeWalletRepo) Balance(_ context.Context, userID string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[userID], nil
}

func (f *fakeWalletRepo) Credit(_ context.Context, userID string, amount float64, description string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[userID] += amount
	return f.balances[userID], nil
}

func (f *fakeWalletRepo) History(_ context.Context, userID string, page, limit int) ([]model.HistoryEntry, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries, int64(len(f.entries)), nil
}

type fakePayoutsRepo struct {
	mu      sync.Mutex
	nextID  int
	payouts map[string]model.Payout
	wallet  *fakeWalletRepo
}

func newFakePayoutsRepo(wallet *fakeWalletRepo) *fakePayoutsRepo {
	return &fakePayoutsRepo{payouts: map[string]model.Payout{}, wallet: wallet}
}

func (f *fakePayoutsRepo) CreateWithDebit(_ context.Context, p model.Payout) (string, float64, error) {
	f.wallet.mu.Lock()
	defer f.wallet.mu.Unlock()
	if f.wallet.balances[p.UserID] < p.Amount {
		return "", 0, myerrors.ErrInsufficientBalance
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.wallet.balances[p.UserID] -= p.Amount
	f.nextID++
	p.ID = fmt.Sprintf("payout-%d", f.nextID)
	f.payouts[p.ID] = p
	return p.ID, f.wallet.balances[p.UserID], nil
}

func (f *fakePayoutsRepo) SetResult(_ context.Context, payoutID, status, externalRef string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payouts[payoutID]
	if !ok {
		return myerrors.ErrNotFound
	}
	p.Status = status
	p.ExternalReferenceID = externalRef
	f.payouts[payoutID] = p
	return nil
}

type fakeTransferProvider struct {
	enabled     bool
	processed   bool
	referenceID string
	err         error
	calls       int
}

func (f *fakeTransferProvider) Enabled() bool { return f.enabled }

func (f *fakeTransferProvider) Transfer(_ context.Context, payoutID string, amountPaise int64, method, accountNumber, ifsc, upiID string) (ports.TransferResult, error) {
	f.calls++
	if f.err != nil {
		return ports.TransferResult{}, f.err
	}
	return ports.TransferResult{ReferenceID: f.referenceID, Processed: f.processed}, nil
}
