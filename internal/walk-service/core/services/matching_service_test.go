package services

import (
	"context"
	"errors"
	"testing"

	"walk-companion/internal/config"
	"walk-companion/internal/walk-service/core/domain/model"
	"walk-companion/internal/walk-service/core/myerrors"

	"golang.org/x/crypto/bcrypt"
)

func matchingConfig() *config.Matchingconfig {
	return &config.Matchingconfig{
		DefaultRadiusKm:  5,
		NotifyTopN:       2,
		HeartbeatTTLSec:  60,
		CooldownSeconds:  30,
		OTPExpiryMinutes: 5,
	}
}

func newMatchingService(repo *fakeWalksRepo, avail *fakeAvailability, broker *fakeBroker, t *testing.T) *MatchingService {
	return NewMatchingService(context.Background(), testLogger(t), matchingConfig(), repo, newFakeProfiles(), avail, broker).(*MatchingService)
}

func TestFindWalkersFiltersCandidates(t *testing.T) {
	repo := newFakeWalksRepo()
	walkID := repo.put(model.WalkRequest{
		WandererID: "wanderer-1",
		Status:     model.StatusPending,
		Latitude:   43.2,
		Longitude:  76.8,
	})

	avail := newFakeAvailability()
	avail.candidates = []model.Candidate{
		{WalkerID: "wanderer-1", DistanceKm: 0.1}, // requester walking by
		{WalkerID: "walker-offline", DistanceKm: 0.5},
		{WalkerID: "walker-busy", DistanceKm: 0.7},
		{WalkerID: "walker-near", DistanceKm: 1.2},
		{WalkerID: "walker-far", DistanceKm: 3.9},
	}
	avail.eligible["walker-busy"] = true
	avail.eligible["walker-near"] = true
	avail.eligible["walker-far"] = true
	avail.engaged["walker-busy"] = true

	svc := newMatchingService(repo, avail, &fakeBroker{}, t)
	res, err := svc.FindWalkers(walkID, 0)
	if err != nil {
		t.Fatalf("FindWalkers: %v", err)
	}

	if len(res.Candidates) != 2 {
		t.Fatalf("expected 2 eligible candidates, got %d", len(res.Candidates))
	}
	if res.Candidates[0].WalkerID != "walker-near" || res.Candidates[1].WalkerID != "walker-far" {
		t.Errorf("unexpected candidate order: %+v", res.Candidates)
	}
	if res.Notified != 2 {
		t.Errorf("expected 2 notified, got %d", res.Notified)
	}
}

func TestFindWalkersIncludesWalkerProfiles(t *testing.T) {
	repo := newFakeWalksRepo()
	walkID := repo.put(model.WalkRequest{
		WandererID: "wanderer-1",
		Status:     model.StatusPending,
		Latitude:   43.2,
		Longitude:  76.8,
	})

	avail := newFakeAvailability()
	avail.candidates = []model.Candidate{{WalkerID: "walker-1", DistanceKm: 1.25}}
	avail.eligible["walker-1"] = true

	profiles := newFakeProfiles()
	profiles.put(model.WalkerProfile{
		UserID:     "walker-1",
		Name:       "Aigerim",
		ImageURL:   "https://cdn.example.com/walker-1.jpg",
		Rating:     4.8,
		TotalWalks: 57,
	})

	svc := NewMatchingService(context.Background(), testLogger(t), matchingConfig(), repo, profiles, avail, &fakeBroker{}).(*MatchingService)
	res, err := svc.FindWalkers(walkID, 0)
	if err != nil {
		t.Fatalf("FindWalkers: %v", err)
	}
	if len(res.Candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(res.Candidates))
	}

	c := res.Candidates[0]
	if c.WalkerName != "Aigerim" {
		t.Errorf("expected walker name, got %q", c.WalkerName)
	}
	if c.WalkerImage != "https://cdn.example.com/walker-1.jpg" {
		t.Errorf("expected walker image, got %q", c.WalkerImage)
	}
	if c.WalkerRating != 4.8 {
		t.Errorf("expected rating 4.8, got %v", c.WalkerRating)
	}
	if c.TotalWalks != 57 {
		t.Errorf("expected 57 completed walks, got %d", c.TotalWalks)
	}
	if c.DistanceKm != 1.25 {
		t.Errorf("expected distance 1.25, got %v", c.DistanceKm)
	}
}

func TestFindWalkersEdgeCases(t *testing.T) {
	repo := newFakeWalksRepo()
	pendingID := repo.put(model.WalkRequest{WandererID: "wanderer-1", Status: model.StatusPending})
	matchedID := repo.put(model.WalkRequest{WandererID: "wanderer-2", Status: model.StatusMatched})

	svc := newMatchingService(repo, newFakeAvailability(), &fakeBroker{}, t)

	if _, err := svc.FindWalkers(pendingID, 5); !errors.Is(err, myerrors.ErrNoWalkers) {
		t.Errorf("empty registry should report no walkers, got %v", err)
	}
	if _, err := svc.FindWalkers(matchedID, 5); !errors.Is(err, myerrors.ErrConflict) {
		t.Errorf("non-pending walk should conflict, got %v", err)
	}
	if _, err := svc.FindWalkers("missing", 5); !errors.Is(err, myerrors.ErrNotFound) {
		t.Errorf("missing walk should be not found, got %v", err)
	}
}

func TestAcceptClaimsWalk(t *testing.T) {
	repo := newFakeWalksRepo()
	avail := newFakeAvailability()
	walkID := repo.put(model.WalkRequest{WandererID: "wanderer-1", Status: model.StatusPending})

	svc := newMatchingService(repo, avail, &fakeBroker{}, t)
	res, err := svc.Accept(walkID, "walker-1")
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if res.Status != model.StatusMatched {
		t.Errorf("expected MATCHED, got %s", res.Status)
	}

	got, _ := repo.FindByID(context.Background(), walkID)
	if got.WalkerID != "walker-1" {
		t.Errorf("expected walker-1 assigned, got %q", got.WalkerID)
	}
	if got.OtpHash == "" || got.OtpExpiresAt.IsZero() {
		t.Error("expected otp hash and expiry to be set")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(got.OtpHash), []byte("0000")); err == nil {
		t.Error("otp hash should not match an arbitrary code")
	}

	avail.mu.Lock()
	engaged := avail.engaged["walker-1"]
	avail.mu.Unlock()
	if !engaged {
		t.Error("expected walker-1 in the engaged set")
	}
}

func TestAcceptLosesToEarlierWalker(t *testing.T) {
	repo := newFakeWalksRepo()
	walkID := repo.put(model.WalkRequest{WandererID: "wanderer-1", Status: model.StatusPending})

	svc := newMatchingService(repo, newFakeAvailability(), &fakeBroker{}, t)
	if _, err := svc.Accept(walkID, "walker-1"); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	if _, err := svc.Accept(walkID, "walker-2"); !errors.Is(err, myerrors.ErrForbidden) {
		t.Fatalf("second accept should be forbidden, got %v", err)
	}
}

func TestAcceptRoutedToOtherWalker(t *testing.T) {
	repo := newFakeWalksRepo()
	walkID := repo.put(model.WalkRequest{
		WandererID: "wanderer-1",
		WalkerID:   "walker-requested",
		Status:     model.StatusPending,
	})

	svc := newMatchingService(repo, newFakeAvailability(), &fakeBroker{}, t)
	if _, err := svc.Accept(walkID, "walker-other"); !errors.Is(err, myerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for unrequested walker, got %v", err)
	}
	if _, err := svc.Accept(walkID, "walker-requested"); err != nil {
		t.Fatalf("requested walker should accept: %v", err)
	}
}

func TestReject(t *testing.T) {
	repo := newFakeWalksRepo()
	walkID := repo.put(model.WalkRequest{
		WandererID: "wanderer-1",
		WalkerID:   "walker-1",
		Status:     model.StatusPending,
	})

	svc := newMatchingService(repo, newFakeAvailability(), &fakeBroker{}, t)
	if err := svc.Reject(walkID, "walker-1"); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	got, _ := repo.FindByID(context.Background(), walkID)
	if got.WalkerID != "" {
		t.Errorf("expected walker cleared, got %q", got.WalkerID)
	}
	if got.Status != model.StatusPending {
		t.Errorf("walk should stay PENDING, got %s", got.Status)
	}
}

func TestRejectAfterMatchConflicts(t *testing.T) {
	repo := newFakeWalksRepo()
	walkID := repo.put(model.WalkRequest{
		WandererID: "wanderer-1",
		WalkerID:   "walker-1",
		Status:     model.StatusMatched,
	})

	svc := newMatchingService(repo, newFakeAvailability(), &fakeBroker{}, t)
	if err := svc.Reject(walkID, "walker-1"); !errors.Is(err, myerrors.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRequestWalker(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		caller  string
		wantErr error
	}{
		{"owner routes pending walk", model.StatusPending, "wanderer-1", nil},
		{"stranger forbidden", model.StatusPending, "stranger", myerrors.ErrForbidden},
		{"matched walk conflicts", model.StatusMatched, "wanderer-1", myerrors.ErrConflict},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeWalksRepo()
			walkID := repo.put(model.WalkRequest{WandererID: "wanderer-1", Status: tc.status})

			svc := newMatchingService(repo, newFakeAvailability(), &fakeBroker{}, t)
			err := svc.RequestWalker(tc.caller, walkID, "walker-1")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr == nil {
				got, _ := repo.FindByID(context.Background(), walkID)
				if got.WalkerID != "walker-1" {
					t.Errorf("expected walker-1 assigned, got %q", got.WalkerID)
				}
			}
		})
	}
}
