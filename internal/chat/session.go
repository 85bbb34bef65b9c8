package chat

import (
	"strings"
	"sync"

	"lendly/backend/internal/models"
)

// SessionParams identifies one open conversation: the authenticated viewer,
// the other participant, and the optional item that prompted the contact.
type SessionParams struct {
	CurrentUserID   string
	CurrentUserName string
	OtherUserID     string
	OtherUserName   string
	ItemID          *string
	ItemName        *string
}

// Session is one open conversation. It owns the room lookup, the live
// message feed, sends, and read marking for its viewer.
type Session struct {
	messages *MessageStore
	reads    *ReadTracker

	params SessionParams
	roomID string

	unsubscribe func()
	closeOnce   sync.Once
}

// OpenSession finds or creates the room for the pair and starts the live
// message feed. Each delivered batch triggers read marking for the viewer
// as a detached side effect before the batch reaches onMessages. A storage
// failure during room setup is returned as ErrStorageUnavailable; the
// caller shows "chat unavailable" and may retry.
func OpenSession(rooms *RoomStore, messages *MessageStore, reads *ReadTracker, params SessionParams, onMessages OnMessages) (*Session, error) {
	roomID, err := rooms.CreateOrGet(
		params.CurrentUserID,
		params.OtherUserID,
		params.OtherUserName,
		params.ItemID,
		params.ItemName,
	)
	if err != nil {
		return nil, err
	}

	s := &Session{
		messages: messages,
		reads:    reads,
		params:   params,
		roomID:   roomID,
	}
	s.unsubscribe = messages.Subscribe(roomID, func(batch []models.Message) {
		// Fire and forget: read marking must never hold up display.
		go reads.MarkRead(roomID, params.CurrentUserID)
		onMessages(batch)
	})
	return s, nil
}

// RoomID returns the canonical room key of the open conversation.
func (s *Session) RoomID() string {
	return s.roomID
}

// Send validates and appends a message from the session's viewer. On error
// the caller keeps the input so the user can retry; ErrInvalidMessage and
// ErrStorageUnavailable are both transient from the caller's point of view.
func (s *Session) Send(text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidMessage
	}
	return s.messages.Append(s.roomID, s.params.CurrentUserID, s.params.CurrentUserName, text)
}

// Close cancels the live feed. Safe to call more than once; the first call
// wins and no message batch is delivered afterwards.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.unsubscribe()
	})
}
