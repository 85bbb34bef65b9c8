package chat

import (
	"fmt"
	"log"

	"lendly/backend/internal/storage"
)

// ReadTracker flips the read flag on inbound messages. Best-effort by
// policy: read state is advisory and must never block message display, so
// failures are logged and swallowed. A missed batch self-heals on the next
// invocation since unread messages are re-selected every time.
type ReadTracker struct {
	Storage storage.Storage
}

func NewReadTracker(s storage.Storage) *ReadTracker {
	return &ReadTracker{Storage: s}
}

// MarkRead marks every unread message in the room not sent by the viewer.
// Safe to call on every inbound batch; with no new messages it is a no-op.
func (t *ReadTracker) MarkRead(roomID, viewerID string) {
	changed, err := t.Storage.MarkMessagesRead(roomID, viewerID)
	if err != nil {
		log.Printf("WARNING: Failed to mark messages read in room %s for %s: %v", roomID, viewerID, err)
		return
	}
	if changed == 0 {
		// Nothing flipped. Publishing here would make every subscriber's own
		// mark-read re-trigger its subscription forever.
		return
	}
	if err := t.Storage.NotifyRoomChanged(roomID); err != nil {
		log.Printf("WARNING: Failed to notify room %s after read update: %v", roomID, err)
	}
}

// UnreadCount returns how many messages the viewer has not read in the room.
func (t *ReadTracker) UnreadCount(roomID, viewerID string) (int64, error) {
	n, err := t.Storage.CountUnread(roomID, viewerID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return n, nil
}

// UnreadTotal returns the viewer's unread count across all their rooms.
func (t *ReadTracker) UnreadTotal(viewerID string) (int64, error) {
	n, err := t.Storage.CountUnreadTotal(viewerID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return n, nil
}
