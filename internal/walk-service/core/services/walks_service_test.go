package services

import (
	"context"
	"errors"
	"testing"

	"walk-companion/internal/walk-service/core/domain/dto"
	"walk-companion/internal/walk-service/core/domain/model"
	"walk-companion/internal/walk-service/core/myerrors"
)

func validWalkRequest() dto.WalkRequestDto {
	return dto.WalkRequestDto{
		Latitude:        43.238949,
		Longitude:       76.889709,
		Address:         "12 Abay Avenue",
		DurationMinutes: 30,
		MobilityLevel:   model.MobilityIndependent,
		PrimaryPurpose:  model.PurposeFreshAirLeisure,
		Communication: dto.CommunicationNeedsDto{
			PreferredLanguages: []string{"en"},
		},
	}
}

func newWalksService(repo *fakeWalksRepo, avail *fakeAvailability, broker *fakeBroker, t *testing.T) *WalksService {
	return NewWalksService(context.Background(), testLogger(t), repo, avail, broker).(*WalksService)
}

func TestCreateWalkValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.WalkRequestDto)
	}{
		{"bad latitude", func(r *dto.WalkRequestDto) { r.Latitude = 91 }},
		{"bad longitude", func(r *dto.WalkRequestDto) { r.Longitude = -200 }},
		{"empty address", func(r *dto.WalkRequestDto) { r.Address = "" }},
		{"duration too short", func(r *dto.WalkRequestDto) { r.DurationMinutes = 10 }},
		{"duration too long", func(r *dto.WalkRequestDto) { r.DurationMinutes = 500 }},
		{"unknown mobility", func(r *dto.WalkRequestDto) { r.MobilityLevel = "SPRINTING" }},
		{"unknown purpose", func(r *dto.WalkRequestDto) { r.PrimaryPurpose = "JOYRIDE" }},
		{"no languages", func(r *dto.WalkRequestDto) { r.Communication.PreferredLanguages = nil }},
	}

	svc := newWalksService(newFakeWalksRepo(), newFakeAvailability(), &fakeBroker{}, t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validWalkRequest()
			tc.mutate(&req)
			if _, err := svc.CreateWalk("wanderer-1", req); !errors.Is(err, myerrors.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateWalkMobilityLevels(t *testing.T) {
	levels := []string{
		model.MobilityIndependent,
		model.MobilityLightSupport,
		model.MobilityWalkingAidUser,
		model.MobilityLimitedMobility,
	}

	svc := newWalksService(newFakeWalksRepo(), newFakeAvailability(), &fakeBroker{}, t)
	for _, level := range levels {
		t.Run(level, func(t *testing.T) {
			req := validWalkRequest()
			req.MobilityLevel = level
			res, err := svc.CreateWalk("wanderer-1", req)
			if err != nil {
				t.Fatalf("CreateWalk with %s: %v", level, err)
			}
			if res.MobilityLevel != level {
				t.Errorf("expected mobility level %s, got %s", level, res.MobilityLevel)
			}
		})
	}
}

func TestCreateWalk(t *testing.T) {
	repo := newFakeWalksRepo()
	svc := newWalksService(repo, newFakeAvailability(), &fakeBroker{}, t)

	res, err := svc.CreateWalk("wanderer-1", validWalkRequest())
	if err != nil {
		t.Fatalf("CreateWalk: %v", err)
	}
	if res.Status != model.StatusPending {
		t.Errorf("expected status PENDING, got %s", res.Status)
	}
	if res.WandererID != "wanderer-1" {
		t.Errorf("expected wanderer-1, got %s", res.WandererID)
	}
	if res.WalkID == "" {
		t.Error("expected walk id to be set")
	}
}

func TestGetWalkParties(t *testing.T) {
	repo := newFakeWalksRepo()
	walkID := repo.put(model.WalkRequest{
		WandererID: "wanderer-1",
		WalkerID:   "walker-1",
		Status:     model.StatusMatched,
	})
	svc := newWalksService(repo, newFakeAvailability(), &fakeBroker{}, t)

	if _, err := svc.GetWalk("wanderer-1", walkID); err != nil {
		t.Errorf("wanderer should see own walk: %v", err)
	}
	if _, err := svc.GetWalk("walker-1", walkID); err != nil {
		t.Errorf("assigned walker should see walk: %v", err)
	}
	if _, err := svc.GetWalk("stranger", walkID); !errors.Is(err, myerrors.ErrForbidden) {
		t.Errorf("expected forbidden for stranger, got %v", err)
	}
	if _, err := svc.GetWalk("wanderer-1", "missing"); !errors.Is(err, myerrors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestGetHistoryClampsPaging(t *testing.T) {
	svc := newWalksService(newFakeWalksRepo(), newFakeAvailability(), &fakeBroker{}, t)

	res, err := svc.GetHistory("wanderer-1", -3, 900)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if res.Page != 1 {
		t.Errorf("expected page clamped to 1, got %d", res.Page)
	}
	if res.Limit != 10 {
		t.Errorf("expected limit clamped to 10, got %d", res.Limit)
	}
}

func TestCancelWalk(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		caller  string
		wantErr error
	}{
		{"pending cancels", model.StatusPending, "wanderer-1", nil},
		{"matched cancels", model.StatusMatched, "wanderer-1", nil},
		{"in progress refuses", model.StatusInProgress, "wanderer-1", myerrors.ErrConflict},
		{"completed refuses", model.StatusCompleted, "wanderer-1", myerrors.ErrConflict},
		{"stranger forbidden", model.StatusPending, "stranger", myerrors.ErrForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeWalksRepo()
			avail := newFakeAvailability()
			walkID := repo.put(model.WalkRequest{
				WandererID: "wanderer-1",
				Status:     tc.status,
			})

			svc := newWalksService(repo, avail, &fakeBroker{}, t)
			err := svc.CancelWalk(tc.caller, walkID, "changed plans")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr == nil {
				got, _ := repo.FindByID(context.Background(), walkID)
				if got.Status != model.StatusCancelled {
					t.Errorf("expected CANCELLED, got %s", got.Status)
				}
			}
		})
	}
}

func TestCancelWalkReleasesWalker(t *testing.T) {
	repo := newFakeWalksRepo()
	avail := newFakeAvailability()
	avail.engaged["walker-1"] = true
	walkID := repo.put(model.WalkRequest{
		WandererID: "wanderer-1",
		WalkerID:   "walker-1",
		Status:     model.StatusMatched,
	})

	svc := newWalksService(repo, avail, &fakeBroker{}, t)
	if err := svc.CancelWalk("wanderer-1", walkID, "no longer needed"); err != nil {
		t.Fatalf("CancelWalk: %v", err)
	}

	avail.mu.Lock()
	defer avail.mu.Unlock()
	if avail.engaged["walker-1"] {
		t.Error("expected walker to be released from the engaged set")
	}
}
