package ports

import websocketdto "walk-companion/internal/walk-service/core/domain/websocket_dto"

type INotifyWebsocket interface {
	WriteToUser(userID string, msg websocketdto.Event)
}
