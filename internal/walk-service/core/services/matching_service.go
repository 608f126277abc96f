package services

import (
	"context"
	"time"

	"walk-companion/internal/config"
	"walk-companion/internal/mylogger"
	"walk-companion/internal/observability"
	"walk-companion/internal/walk-service/core/domain/dto"
	messagebrokerdto "walk-companion/internal/walk-service/core/domain/message_broker_dto"
	"walk-companion/internal/walk-service/core/domain/model"
	"walk-companion/internal/walk-service/core/myerrors"
	"walk-companion/internal/walk-service/core/ports"

	"golang.org/x/crypto/bcrypt"
)

type MatchingService struct {
	ctx          context.Context
	mylog        mylogger.Logger
	cfg          *config.Matchingconfig
	walksRepo    ports.IWalksRepo
	profilesRepo ports.IProfilesRepo
	availability ports.IAvailabilityView
	broker       ports.INotifyBroker
}

func NewMatchingService(ctx context.Context,
	log mylogger.Logger,
	cfg *config.Matchingconfig,
	walksRepo ports.IWalksRepo,
	profilesRepo ports.IProfilesRepo,
	availability ports.IAvailabilityView,
	broker ports.INotifyBroker,
) ports.IMatchingService {
	return &MatchingService{
		ctx:          ctx,
		mylog:        log,
		cfg:          cfg,
		walksRepo:    walksRepo,
		profilesRepo: profilesRepo,
		availability: availability,
		broker:       broker,
	}
}

// FindWalkers scans the availability registry around the pickup point and
// returns eligible walkers ordered by ascending distance. The top
// candidates are notified about the request in the background.
func (ms *MatchingService) FindWalkers(walkID string, radiusKm float64) (dto.FindWalkersResponseDto, error) {
	log := ms.mylog.Action("FindWalkers")
	started := time.Now()
	observability.MatchSearchesTotal.Inc()

	if radiusKm <= 0 {
		radiusKm = ms.cfg.DefaultRadiusKm
	}

	ctx, cancel := context.WithTimeout(ms.ctx, opTimeout)
	defer cancel()

	walk, err := ms.walksRepo.FindByID(ctx, walkID)
	if err != nil {
		return dto.FindWalkersResponseDto{}, err
	}
	if walk.Status != model.StatusPending {
		return dto.FindWalkersResponseDto{}, myerrors.ErrConflict
	}

	candidates, err := ms.eligibleCandidates(ctx, walk, radiusKm)
	if err != nil {
		log.Error("availability scan failed", err, "walk_id", walkID)
		return dto.FindWalkersResponseDto{}, err
	}
	if len(candidates) == 0 {
		return dto.FindWalkersResponseDto{}, myerrors.ErrNoWalkers
	}

	notified := ms.notifyCandidates(walk, candidates)
	observability.MatchLatency.Observe(time.Since(started).Seconds())

	walkerIDs := make([]string, 0, len(candidates))
	for _, c := range candidates {
		walkerIDs = append(walkerIDs, c.WalkerID)
	}
	profiles, err := ms.profilesRepo.WalkerProfiles(ctx, walkerIDs)
	if err != nil {
		log.Error("profile lookup failed", err, "walk_id", walkID)
		return dto.FindWalkersResponseDto{}, err
	}

	res := dto.FindWalkersResponseDto{WalkID: walkID, Notified: notified}
	for _, c := range candidates {
		p := profiles[c.WalkerID]
		res.Candidates = append(res.Candidates, dto.CandidateDto{
			WalkerID:     c.WalkerID,
			WalkerName:   p.Name,
			WalkerImage:  p.ImageURL,
			WalkerRating: p.Rating,
			TotalWalks:   p.TotalWalks,
			DistanceKm:   c.DistanceKm,
		})
	}
	return res, nil
}

func (ms *MatchingService) eligibleCandidates(ctx context.Context, walk model.WalkRequest, radiusKm float64) ([]model.Candidate, error) {
	nearby, err := ms.availability.SearchNearby(ctx, walk.Latitude, walk.Longitude, radiusKm)
	if err != nil {
		return nil, err
	}

	eligible := make([]model.Candidate, 0, len(nearby))
	for _, c := range nearby {
		if c.WalkerID == walk.WandererID {
			continue
		}
		ok, err := ms.availability.IsEligible(ctx, c.WalkerID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		engaged, err := ms.availability.IsEngaged(ctx, c.WalkerID)
		if err != nil {
			return nil, err
		}
		if engaged {
			continue
		}
		eligible = append(eligible, c)
	}
	return eligible, nil
}

func (ms *MatchingService) notifyCandidates(walk model.WalkRequest, candidates []model.Candidate) int {
	n := len(candidates)
	if n > ms.cfg.NotifyTopN {
		n = ms.cfg.NotifyTopN
	}
	for _, c := range candidates[:n] {
		ms.notifyAsync(messagebrokerdto.Notification{
			UserID: c.WalkerID,
			Type:   messagebrokerdto.WalkRequestNearby,
			Payload: map[string]any{
				"walk_id":          walk.ID,
				"address":          walk.Address,
				"duration_minutes": walk.DurationMinutes,
				"mobility_level":   walk.MobilityLevel,
				"primary_purpose":  walk.PrimaryPurpose,
				"distance_km":      c.DistanceKm,
			},
		})
	}
	return n
}

// Accept claims a pending walk for a walker. The conditional update in the
// repository decides the winner when several walkers accept at once.
func (ms *MatchingService) Accept(walkID, walkerID string) (dto.AcceptResponseDto, error) {
	log := ms.mylog.Action("Accept")

	ctx, cancel := context.WithTimeout(ms.ctx, opTimeout)
	defer cancel()

	walk, err := ms.walksRepo.FindByID(ctx, walkID)
	if err != nil {
		return dto.AcceptResponseDto{}, err
	}
	if walk.WalkerID != "" && walk.WalkerID != walkerID {
		return dto.AcceptResponseDto{}, myerrors.ErrForbidden
	}

	otp := generateOtp()
	otpHash, err := bcrypt.GenerateFromPassword([]byte(otp), bcrypt.DefaultCost)
	if err != nil {
		return dto.AcceptResponseDto{}, err
	}
	otpExpiresAt := time.Now().Add(time.Duration(ms.cfg.OTPExpiryMinutes) * time.Minute)

	if err := ms.walksRepo.MarkMatched(ctx, walkID, walkerID, string(otpHash), otpExpiresAt); err != nil {
		log.Warn("accept lost", "walk_id", walkID, "walker_id", walkerID)
		return dto.AcceptResponseDto{}, err
	}

	if err := ms.availability.MarkEngaged(ctx, walkerID); err != nil {
		log.Error("cannot mark walker engaged", err, "walker_id", walkerID)
	}
	observability.MatchesTotal.Inc()

	// The wanderer gets the code once. Only the bcrypt hash is stored.
	ms.notifyAsync(messagebrokerdto.Notification{
		UserID: walk.WandererID,
		Type:   messagebrokerdto.WalkAccepted,
		Payload: map[string]any{
			"walk_id":        walkID,
			"walker_id":      walkerID,
			"otp":            otp,
			"otp_expires_at": otpExpiresAt.Format(time.RFC3339),
		},
	})

	return dto.AcceptResponseDto{
		WalkID:    walkID,
		WalkerID:  walkerID,
		Status:    model.StatusMatched,
		MatchedAt: time.Now(),
	}, nil
}

// Reject releases a pending walk that was routed to this walker and
// re-runs the search so the next nearby walkers hear about it.
func (ms *MatchingService) Reject(walkID, walkerID string) error {
	log := ms.mylog.Action("Reject")

	ctx, cancel := context.WithTimeout(ms.ctx, opTimeout)
	defer cancel()

	walk, err := ms.walksRepo.FindByID(ctx, walkID)
	if err != nil {
		return err
	}
	if walk.Status != model.StatusPending {
		return myerrors.ErrConflict
	}
	if walk.WalkerID != "" && walk.WalkerID != walkerID {
		return myerrors.ErrForbidden
	}

	if walk.WalkerID == walkerID {
		if err := ms.walksRepo.ClearWalker(ctx, walkID); err != nil {
			return err
		}
	}

	ms.notifyAsync(messagebrokerdto.Notification{
		UserID:  walk.WandererID,
		Type:    messagebrokerdto.WalkRejected,
		Payload: map[string]any{"walk_id": walkID, "walker_id": walkerID},
	})

	// Re-broadcast to whoever is currently nearby. Walkers notified in an
	// earlier round may hear about the walk again.
	go func() {
		if _, err := ms.FindWalkers(walkID, ms.cfg.DefaultRadiusKm); err != nil {
			log.Warn("re-broadcast after reject found nobody", "walk_id", walkID, "reason", err.Error())
		}
	}()
	return nil
}

// RequestWalker lets a wanderer route a pending walk at one specific walker.
func (ms *MatchingService) RequestWalker(wandererID, walkID, walkerID string) error {
	ctx, cancel := context.WithTimeout(ms.ctx, opTimeout)
	defer cancel()

	walk, err := ms.walksRepo.FindByID(ctx, walkID)
	if err != nil {
		return err
	}
	if walk.WandererID != wandererID {
		return myerrors.ErrForbidden
	}
	if walk.Status != model.StatusPending {
		return myerrors.ErrConflict
	}

	if err := ms.walksRepo.AssignWalker(ctx, walkID, walkerID); err != nil {
		return err
	}

	ms.notifyAsync(messagebrokerdto.Notification{
		UserID: walkerID,
		Type:   messagebrokerdto.WalkRequested,
		Payload: map[string]any{
			"walk_id":          walkID,
			"address":          walk.Address,
			"duration_minutes": walk.DurationMinutes,
			"mobility_level":   walk.MobilityLevel,
			"primary_purpose":  walk.PrimaryPurpose,
		},
	})
	return nil
}

func (ms *MatchingService) PendingRequests(walkerID string) ([]dto.PendingRequestDto, error) {
	ctx, cancel := context.WithTimeout(ms.ctx, opTimeout)
	defer cancel()

	walks, err := ms.walksRepo.PendingForWalker(ctx, walkerID, 10)
	if err != nil {
		return nil, err
	}

	res := make([]dto.PendingRequestDto, 0, len(walks))
	for _, w := range walks {
		res = append(res, dto.PendingRequestDto{
			WalkID:          w.ID,
			WandererID:      w.WandererID,
			Address:         w.Address,
			DurationMinutes: w.DurationMinutes,
			MobilityLevel:   w.MobilityLevel,
			PrimaryPurpose:  w.PrimaryPurpose,
			CreatedAt:       w.CreatedAt,
		})
	}
	return res, nil
}

func (ms *MatchingService) notifyAsync(msg messagebrokerdto.Notification) {
	go func() {
		ctx, cancel := context.WithTimeout(ms.ctx, time.Second*5)
		defer cancel()
		if err := ms.broker.PushNotification(ctx, msg); err != nil {
			ms.mylog.Action("notify").Error("cannot publish notification", err, "user_id", msg.UserID, "type", msg.Type)
		}
	}()
}
