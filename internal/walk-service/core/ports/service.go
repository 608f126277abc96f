package ports

import "walk-companion/internal/walk-service/core/domain/dto"

type IWalksService interface {
	CreateWalk(wandererID string, req dto.WalkRequestDto) (dto.WalkResponseDto, error)
	GetWalk(callerID, walkID string) (dto.WalkResponseDto, error)
	GetActiveWalk(wandererID string) (dto.WalkResponseDto, error)
	GetHistory(wandererID string, page, limit int) (dto.WalkHistoryDto, error)
	CancelWalk(wandererID, walkID, reason string) error
}

type IMatchingService interface {
	FindWalkers(walkID string, radiusKm float64) (dto.FindWalkersResponseDto, error)
	Accept(walkID, walkerID string) (dto.AcceptResponseDto, error)
	Reject(walkID, walkerID string) error
	RequestWalker(wandererID, walkID, walkerID string) error
	PendingRequests(walkerID string) ([]dto.PendingRequestDto, error)
}

type ISessionsService interface {
	StartWalk(callerID, walkID, otp string) (dto.SessionResponseDto, error)
	EndWalk(callerID, sessionID string) (dto.SessionResponseDto, error)
	GetSession(callerID, sessionID string) (dto.SessionResponseDto, error)
	TriggerSos(callerID, sessionID string) error
	ResolveSos(callerID, sessionID, notes string) error
}

type ISubscriptionsService interface {
	Create(wandererID string, req dto.SubscriptionRequestDto) (dto.SubscriptionResponseDto, error)
	GetActive(wandererID string) (dto.SubscriptionResponseDto, error)
	Update(wandererID, subscriptionID string, req dto.SubscriptionRequestDto) (dto.SubscriptionResponseDto, error)
	QuickStart(wandererID string, req dto.QuickStartRequestDto) (dto.WalkResponseDto, error)
	Pause(wandererID, subscriptionID string) error
	Resume(wandererID, subscriptionID string) error
	Cancel(wandererID, subscriptionID string) error
}
