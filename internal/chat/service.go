// Package chat implements the real-time conversation core: canonical room
// identity, the per-room message log with live feeds, best-effort read
// tracking, and the aggregated conversation list.
package chat

import (
	"lendly/backend/internal/storage"
)

// Service bundles the chat components over one storage backend.
type Service struct {
	Rooms    *RoomStore
	Messages *MessageStore
	Reads    *ReadTracker
	RoomList *RoomListAggregator
}

func NewService(s storage.Storage) *Service {
	rooms := NewRoomStore(s)
	return &Service{
		Rooms:    rooms,
		Messages: NewMessageStore(s, rooms),
		Reads:    NewReadTracker(s),
		RoomList: NewRoomListAggregator(s),
	}
}

// Open starts a conversation session for the given pair.
func (s *Service) Open(params SessionParams, onMessages OnMessages) (*Session, error) {
	return OpenSession(s.Rooms, s.Messages, s.Reads, params, onMessages)
}
