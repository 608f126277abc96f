package services

import (
	"context"
	"errors"
	"testing"

	"walk-companion/internal/walk-service/core/domain/dto"
	"walk-companion/internal/walk-service/core/domain/model"
	"walk-companion/internal/walk-service/core/myerrors"
)

func validSubscriptionRequest() dto.SubscriptionRequestDto {
	return dto.SubscriptionRequestDto{
		SubscriptionType: model.SubscriptionWeekdays,
		DurationMinutes:  30,
		TimeStart:        "09:00",
		MobilityLevel:    model.MobilityIndependent,
		PrimaryPurpose:   model.PurposeExerciseFitness,
		Communication: dto.CommunicationNeedsDto{
			PreferredLanguages: []string{"en"},
		},
	}
}

func newSubscriptionsService(subs *fakeSubscriptionsRepo, walks *fakeWalksRepo, t *testing.T) *SubscriptionsService {
	walksService := NewWalksService(context.Background(), testLogger(t), walks, newFakeAvailability(), &fakeBroker{})
	return NewSubscriptionsService(context.Background(), testLogger(t), subs, walksService).(*SubscriptionsService)
}

func TestCreateSubscription(t *testing.T) {
	subs := newFakeSubscriptionsRepo()
	svc := newSubscriptionsService(subs, newFakeWalksRepo(), t)

	res, err := svc.Create("wanderer-1", validSubscriptionRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Status != model.SubscriptionActive {
		t.Errorf("expected ACTIVE, got %s", res.Status)
	}
	if res.WalkerPreference != model.WalkerPreferenceAny {
		t.Errorf("expected default ANY preference, got %s", res.WalkerPreference)
	}
	if res.NextScheduledDate.IsZero() {
		t.Error("expected next scheduled date to be computed")
	}
}

func TestCreateSubscriptionOnePerWanderer(t *testing.T) {
	subs := newFakeSubscriptionsRepo()
	svc := newSubscriptionsService(subs, newFakeWalksRepo(), t)

	if _, err := svc.Create("wanderer-1", validSubscriptionRequest()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create("wanderer-1", validSubscriptionRequest()); !errors.Is(err, myerrors.ErrConflict) {
		t.Fatalf("second create should conflict, got %v", err)
	}
	if _, err := svc.Create("wanderer-2", validSubscriptionRequest()); err != nil {
		t.Errorf("another wanderer should be able to subscribe: %v", err)
	}
}

func TestCreateSubscriptionValidation(t *testing.T) {
	svc := newSubscriptionsService(newFakeSubscriptionsRepo(), newFakeWalksRepo(), t)

	req := validSubscriptionRequest()
	req.DurationMinutes = 90
	if _, err := svc.Create("wanderer-1", req); !errors.Is(err, myerrors.ErrValidation) {
		t.Errorf("expected validation error for duration, got %v", err)
	}

	req = validSubscriptionRequest()
	req.MobilityLevel = "FLYING"
	if _, err := svc.Create("wanderer-1", req); !errors.Is(err, myerrors.ErrValidation) {
		t.Errorf("expected validation error for mobility, got %v", err)
	}
}

func TestUpdateSubscription(t *testing.T) {
	subs := newFakeSubscriptionsRepo()
	svc := newSubscriptionsService(subs, newFakeWalksRepo(), t)

	created, err := svc.Create("wanderer-1", validSubscriptionRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := validSubscriptionRequest()
	req.SubscriptionType = model.SubscriptionWeekends
	updated, err := svc.Update("wanderer-1", created.SubscriptionID, req)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.SubscriptionType != model.SubscriptionWeekends {
		t.Errorf("expected WEEKENDS, got %s", updated.SubscriptionType)
	}
	if wd := updated.NextScheduledDate.Weekday(); wd != 0 && wd != 6 {
		t.Errorf("schedule change should land on a weekend, got %v", wd)
	}

	if _, err := svc.Update("stranger", created.SubscriptionID, req); !errors.Is(err, myerrors.ErrForbidden) {
		t.Errorf("expected forbidden for stranger, got %v", err)
	}
}

func TestUpdateCancelledSubscription(t *testing.T) {
	subs := newFakeSubscriptionsRepo()
	id := subs.put(model.WalkSubscription{
		WandererID: "wanderer-1",
		Status:     model.SubscriptionCancelled,
	})

	svc := newSubscriptionsService(subs, newFakeWalksRepo(), t)
	if _, err := svc.Update("wanderer-1", id, validSubscriptionRequest()); !errors.Is(err, myerrors.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestQuickStart(t *testing.T) {
	subs := newFakeSubscriptionsRepo()
	walks := newFakeWalksRepo()
	subID := subs.put(model.WalkSubscription{
		WandererID:       "wanderer-1",
		SubscriptionType: model.SubscriptionDaily,
		DurationMinutes:  45,
		TimeStart:        "09:00",
		MobilityLevel:    model.MobilityWalkingAidUser,
		PrimaryPurpose:   model.PurposeMedicalRecovery,
		Communication:    model.CommunicationNeeds{PreferredLanguages: []string{"en"}},
		Status:           model.SubscriptionActive,
	})

	svc := newSubscriptionsService(subs, walks, t)
	walk, err := svc.QuickStart("wanderer-1", dto.QuickStartRequestDto{
		Latitude:  43.2,
		Longitude: 76.8,
		Address:   "12 Abay Avenue",
	})
	if err != nil {
		t.Fatalf("QuickStart: %v", err)
	}
	if walk.DurationMinutes != 45 {
		t.Errorf("walk should inherit the subscription duration, got %d", walk.DurationMinutes)
	}
	if walk.MobilityLevel != model.MobilityWalkingAidUser {
		t.Errorf("walk should inherit the mobility level, got %s", walk.MobilityLevel)
	}
	if walk.Status != model.StatusPending {
		t.Errorf("expected PENDING walk, got %s", walk.Status)
	}

	sub, _ := subs.FindByID(context.Background(), subID)
	if sub.TotalWalksCompleted != 1 {
		t.Errorf("expected schedule advanced, total=%d", sub.TotalWalksCompleted)
	}
}

func TestQuickStartWithoutSubscription(t *testing.T) {
	svc := newSubscriptionsService(newFakeSubscriptionsRepo(), newFakeWalksRepo(), t)
	_, err := svc.QuickStart("wanderer-1", dto.QuickStartRequestDto{Latitude: 43.2, Longitude: 76.8, Address: "x"})
	if !errors.Is(err, myerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPauseResumeCancel(t *testing.T) {
	subs := newFakeSubscriptionsRepo()
	id := subs.put(model.WalkSubscription{
		WandererID: "wanderer-1",
		Status:     model.SubscriptionActive,
	})
	svc := newSubscriptionsService(subs, newFakeWalksRepo(), t)

	if err := svc.Resume("wanderer-1", id); !errors.Is(err, myerrors.ErrConflict) {
		t.Errorf("resume of active subscription should conflict, got %v", err)
	}
	if err := svc.Pause("wanderer-1", id); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if err := svc.Pause("wanderer-1", id); !errors.Is(err, myerrors.ErrConflict) {
		t.Errorf("second pause should conflict, got %v", err)
	}
	if err := svc.Resume("wanderer-1", id); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if err := svc.Cancel("wanderer-1", id); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if err := svc.Cancel("wanderer-1", id); !errors.Is(err, myerrors.ErrConflict) {
		t.Errorf("second cancel should conflict, got %v", err)
	}
	if err := svc.Pause("stranger", id); !errors.Is(err, myerrors.ErrForbidden) {
		t.Errorf("stranger pause should be forbidden, got %v", err)
	}
}
