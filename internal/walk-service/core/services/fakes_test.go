package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"walk-companion/internal/mylogger"
	messagebrokerdto "walk-companion/internal/walk-service/core/domain/message_broker_dto"
	"walk-companion/internal/walk-service/core/domain/model"
	"walk-companion/internal/walk-service/core/myerrors"

	amqp "github.com/rabbitmq/amqp091-go"
)

func testLogger(t *testing.T) mylogger.Logger {
	t.Helper()
	log, err := mylogger.New(mylogger.LevelError)
	if err != nil {
		t.Fatalf("create logger: %v", err)
	}
	return log
}

// In-memory fakes for the driven ports. They mimic the conditional
// update semantics of the real repositories, losing writers get
// myerrors.ErrConflict.

type fakeWalksRepo struct {
	mu     sync.Mutex
	nextID int
	walks  map[string]model.WalkRequest
}

func newFakeWalksRepo() *fakeWalksRepo {
	return &fakeWalksRepo{walks: map[string]model.WalkRequest{}}
}

func (f *fakeWalksRepo) put(m model.WalkRequest) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	if m.ID == "" {
		m.ID = fmt.Sprintf("walk-%d", f.nextID)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	f.walks[m.ID] = m
	return m.ID
}

func (f *fakeWalksRepo) Create(_ context.Context, m model.WalkRequest) (string, error) {
	return f.put(m), nil
}

func (f *fakeWalksRepo) FindByID(_ context.Context, walkID string) (model.WalkRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.walks[walkID]
	if !ok {
		return model.WalkRequest{}, myerrors.ErrNotFound
	}
	return m, nil
}

func (f *fakeWalksRepo) FindActiveByWanderer(_ context.Context, wandererID string) (model.WalkRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.walks {
		if m.WandererID != wandererID {
			continue
		}
		switch m.Status {
		case model.StatusPending, model.StatusMatched, model.StatusInProgress, model.StatusPaymentPending:
			return m, nil
		}
	}
	return model.WalkRequest{}, myerrors.ErrNotFound
}

func (f *fakeWalksRepo) HistoryByWanderer(_ context.Context, wandererID string, page, limit int) ([]model.WalkRequest, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.WalkRequest
	for _, m := range f.walks {
		if m.WandererID == wandererID {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeWalksRepo) PendingForWalker(_ context.Context, walkerID string, limit int) ([]model.WalkRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.WalkRequest
	for _, m := range f.walks {
		if m.Status == model.StatusPending && (m.WalkerID == "" || m.WalkerID == walkerID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeWalksRepo) AssignWalker(_ context.Context, walkID, walkerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.walks[walkID]
	if !ok || m.Status != model.StatusPending {
		return myerrors.ErrConflict
	}
	m.WalkerID = walkerID
	f.walks[walkID] = m
	return nil
}

func (f *fakeWalksRepo) ClearWalker(_ context.Context, walkID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.walks[walkID]
	if !ok || m.Status != model.StatusPending {
		return myerrors.ErrConflict
	}
	m.WalkerID = ""
	f.walks[walkID] = m
	return nil
}

func (f *fakeWalksRepo) MarkMatched(_ context.Context, walkID, walkerID, otpHash string, otpExpiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.walks[walkID]
	if !ok || m.Status != model.StatusPending {
		return myerrors.ErrConflict
	}
	if m.WalkerID != "" && m.WalkerID != walkerID {
		return myerrors.ErrConflict
	}
	m.Status = model.StatusMatched
	m.WalkerID = walkerID
	m.OtpHash = otpHash
	m.OtpExpiresAt = otpExpiresAt
	m.MatchedAt = time.Now()
	f.walks[walkID] = m
	return nil
}

func (f *fakeWalksRepo) MarkStarted(_ context.Context, walkID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.walks[walkID]
	if !ok || m.Status != model.StatusMatched || m.OtpVerified {
		return myerrors.ErrConflict
	}
	m.Status = model.StatusInProgress
	m.OtpVerified = true
	m.StartedAt = time.Now()
	f.walks[walkID] = m
	return nil
}

func (f *fakeWalksRepo) MarkCancelled(_ context.Context, walkID, fromStatus, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.walks[walkID]
	if !ok || m.Status != fromStatus {
		return myerrors.ErrConflict
	}
	m.Status = model.StatusCancelled
	m.CancellationReason = reason
	m.CancelledAt = time.Now()
	f.walks[walkID] = m
	return nil
}

func (f *fakeWalksRepo) MarkPaymentPending(_ context.Context, walkID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.walks[walkID]
	if !ok || m.Status != model.StatusInProgress {
		return myerrors.ErrConflict
	}
	m.Status = model.StatusPaymentPending
	f.walks[walkID] = m
	return nil
}

type fakeSessionsRepo struct {
	mu       sync.Mutex
	nextID   int
	sessions map[string]model.WalkSession
}

func newFakeSessionsRepo() *fakeSessionsRepo {
	return &fakeSessionsRepo{sessions: map[string]model.WalkSession{}}
}

func (f *fakeSessionsRepo) put(s model.WalkSession) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	if s.ID == "" {
		s.ID = fmt.Sprintf("session-%d", f.nextID)
	}
	f.sessions[s.ID] = s
	return s.ID
}

func (f *fakeSessionsRepo) Create(_ context.Context, s model.WalkSession) (string, error) {
	return f.put(s), nil
}

func (f *fakeSessionsRepo) FindByID(_ context.Context, sessionID string) (model.WalkSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return model.WalkSession{}, myerrors.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessionsRepo) FreezeFare(_ context.Context, sessionID string, total, commission, earnings float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok || s.Status != model.SessionActive || s.FareTotal != 0 {
		return myerrors.ErrConflict
	}
	s.Status = model.SessionPaymentPending
	s.EndTime = time.Now()
	s.FareTotal = total
	s.FareCommission = commission
	s.FareEarnings = earnings
	f.sessions[sessionID] = s
	return nil
}

func (f *fakeSessionsRepo) TriggerSos(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok || s.SosTriggered {
		return myerrors.ErrConflict
	}
	s.SosTriggered = true
	s.SosTriggeredAt = time.Now()
	f.sessions[sessionID] = s
	return nil
}

func (f *fakeSessionsRepo) ResolveSos(_ context.Context, sessionID, notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok || !s.SosTriggered || s.SosResolved {
		return myerrors.ErrConflict
	}
	s.SosResolved = true
	s.SosResolvedAt = time.Now()
	s.SosResolutionNotes = notes
	f.sessions[sessionID] = s
	return nil
}

type fakeSubscriptionsRepo struct {
	mu            sync.Mutex
	nextID        int
	subscriptions map[string]model.WalkSubscription
	recordedWalks int
}

func newFakeSubscriptionsRepo() *fakeSubscriptionsRepo {
	return &fakeSubscriptionsRepo{subscriptions: map[string]model.WalkSubscription{}}
}

func (f *fakeSubscriptionsRepo) put(m model.WalkSubscription) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	if m.ID == "" {
		m.ID = fmt.Sprintf("sub-%d", f.nextID)
	}
	f.subscriptions[m.ID] = m
	return m.ID
}

func (f *fakeSubscriptionsRepo) Create(_ context.Context, m model.WalkSubscription) (string, error) {
	return f.put(m), nil
}

func (f *fakeSubscriptionsRepo) FindByID(_ context.Context, subscriptionID string) (model.WalkSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.subscriptions[subscriptionID]
	if !ok {
		return model.WalkSubscription{}, myerrors.ErrNotFound
	}
	return m, nil
}

func (f *fakeSubscriptionsRepo) FindActiveByWanderer(_ context.Context, wandererID string) (model.WalkSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.subscriptions {
		if m.WandererID == wandererID &&
			(m.Status == model.SubscriptionActive || m.Status == model.SubscriptionPaused) {
			return m, nil
		}
	}
	return model.WalkSubscription{}, myerrors.ErrNotFound
}

func (f *fakeSubscriptionsRepo) Update(_ context.Context, m model.WalkSubscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subscriptions[m.ID]; !ok {
		return myerrors.ErrNotFound
	}
	f.subscriptions[m.ID] = m
	return nil
}

func (f *fakeSubscriptionsRepo) SetStatus(_ context.Context, subscriptionID, from, to string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.subscriptions[subscriptionID]
	if !ok || m.Status != from {
		return myerrors.ErrConflict
	}
	m.Status = to
	f.subscriptions[subscriptionID] = m
	return nil
}

func (f *fakeSubscriptionsRepo) RecordWalk(_ context.Context, subscriptionID string, walkDate, nextDate time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.subscriptions[subscriptionID]
	if !ok {
		return myerrors.ErrNotFound
	}
	m.TotalWalksCompleted++
	m.LastWalkDate = walkDate
	m.NextScheduledDate = nextDate
	f.subscriptions[subscriptionID] = m
	f.recordedWalks++
	return nil
}

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]model.WalkerProfile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: map[string]model.WalkerProfile{}}
}

func (f *fakeProfiles) put(p model.WalkerProfile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.UserID] = p
}

func (f *fakeProfiles) WalkerProfiles(_ context.Context, walkerIDs []string) (map[string]model.WalkerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]model.WalkerProfile, len(walkerIDs))
	for _, id := range walkerIDs {
		if p, ok := f.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeAvailability struct {
	mu         sync.Mutex
	candidates []model.Candidate
	eligible   map[string]bool
	engaged    map[string]bool
}

func newFakeAvailability() *fakeAvailability {
	return &fakeAvailability{
		eligible: map[string]bool{},
		engaged:  map[string]bool{},
	}
}

func (f *fakeAvailability) SearchNearby(_ context.Context, lat, lng, radiusKm float64) ([]model.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Candidate, len(f.candidates))
	copy(out, f.candidates)
	return out, nil
}

func (f *fakeAvailability) IsEligible(_ context.Context, walkerID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.eligible[walkerID], nil
}

func (f *fakeAvailability) IsEngaged(_ context.Context, walkerID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engaged[walkerID], nil
}

func (f *fakeAvailability) MarkEngaged(_ context.Context, walkerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.engaged[walkerID] = true
	return nil
}

func (f *fakeAvailability) ClearEngaged(_ context.Context, walkerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.engaged, walkerID)
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

func (f *fakeBroker) BindQueue(queue, routingKey string) error { return nil }

func (f *fakeBroker) ConsumeNotifications(ctx context.Context, queue, consumerName string) (<-chan amqp.Delivery, error) {
	return nil, nil
}
