package chat

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"lendly/backend/internal/models"
	"lendly/backend/internal/storage"
)

// OnMessages receives a room's full message list, ascending by timestamp,
// once per change. Snapshots, not deltas.
type OnMessages func([]models.Message)

// MessageStore is the append-only per-room message log with live feeds.
type MessageStore struct {
	Storage storage.Storage
	Rooms   *RoomStore
}

func NewMessageStore(s storage.Storage, rooms *RoomStore) *MessageStore {
	return &MessageStore{Storage: s, Rooms: rooms}
}

// Append validates and writes one message, then updates the room preview.
// The append comes first so a preview failure never advances the preview
// past an unrecorded message; a stale preview is tolerated and repaired by
// the next send.
func (m *MessageStore) Append(roomID, senderID, senderName, text string) (*models.Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrInvalidMessage
	}

	msg := &models.Message{
		RoomID:     roomID,
		SenderID:   senderID,
		SenderName: senderName,
		Text:       trimmed,
	}
	if err := m.Storage.SaveMessage(msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if err := m.Rooms.UpdateLastMessage(roomID, msg.Text, msg.Timestamp); err != nil {
		log.Printf("WARNING: Message %s recorded but preview update failed for room %s: %v", msg.ID, roomID, err)
	}

	if err := m.Storage.NotifyRoomChanged(roomID); err != nil {
		log.Printf("WARNING: Failed to notify room %s of new message: %v", roomID, err)
	}
	return msg, nil
}

// subscription serializes deliveries and fences them off after cancellation,
// so a consumer never sees overlapping or post-cancel callbacks.
type subscription struct {
	mu       sync.Mutex
	canceled bool
}

func (s *subscription) deliver(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.canceled {
		return
	}
	fn()
}

func (s *subscription) cancel() {
	s.mu.Lock()
	s.canceled = true
	s.mu.Unlock()
}

// Subscribe starts a live feed of the room's messages. onUpdate gets the
// current full list immediately and again after every change signal,
// at-least-once per latest state. The returned cancel func stops delivery,
// is idempotent, and guarantees no onUpdate call after it returns.
func (m *MessageStore) Subscribe(roomID string, onUpdate OnMessages) func() {
	signals, stop := m.Storage.WatchRoom(roomID)
	sub := &subscription{}

	reload := func() {
		messages, err := m.Storage.GetRoomMessages(roomID)
		if err != nil {
			log.Printf("ERROR: Failed to load snapshot for room %s: %v", roomID, err)
			return
		}
		sub.deliver(func() { onUpdate(messages) })
	}

	go func() {
		reload()
		for range signals {
			reload()
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.cancel()
			stop()
		})
	}
}
