package chat

import (
	"fmt"
	"log"
	"time"

	"lendly/backend/internal/models"
	"lendly/backend/internal/storage"

	"github.com/lib/pq"
)

// RoomStore manages the chat room document lifecycle: lazy creation on first
// contact and the denormalized last-message preview.
type RoomStore struct {
	Storage storage.Storage
}

func NewRoomStore(s storage.Storage) *RoomStore {
	return &RoomStore{Storage: s}
}

// CreateOrGet returns the canonical room ID for the two users, creating the
// room document if this is their first contact. Idempotent: an existing room
// is returned untouched, even when called with a different display name or
// item association than the one stored — the creating call fixes the item
// association forever.
func (r *RoomStore) CreateOrGet(currentUserID, otherUserID, otherUserName string, itemID, itemName *string) (string, error) {
	roomID := RoomKey(currentUserID, otherUserID)

	existing, err := r.Storage.GetRoomByID(roomID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if existing != nil {
		return roomID, nil
	}

	room := &models.ChatRoom{
		RoomID:       roomID,
		Participants: pq.StringArray{currentUserID, otherUserID},
		ParticipantNames: models.NameMap{
			currentUserID: "You",
			otherUserID:   otherUserName,
		},
		ItemID:   itemID,
		ItemName: itemName,
	}

	if err := r.Storage.CreateRoom(room); err != nil {
		// Both sides may attempt first contact at once; the loser of that
		// race finds the winner's document on re-read.
		if again, getErr := r.Storage.GetRoomByID(roomID); getErr == nil && again != nil {
			return roomID, nil
		}
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	r.notifyRoomLists(room)
	return roomID, nil
}

// UpdateLastMessage overwrites the room's preview cache unconditionally.
// Last-write-wins; the message log stays authoritative (see storage layer).
func (r *RoomStore) UpdateLastMessage(roomID, text string, at time.Time) error {
	if err := r.Storage.UpdateRoomPreview(roomID, text, at); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	room, err := r.Storage.GetRoomByID(roomID)
	if err != nil || room == nil {
		log.Printf("WARNING: Preview updated but room %s could not be re-read for notification: %v", roomID, err)
		return nil
	}
	r.notifyRoomLists(room)
	return nil
}

// notifyRoomLists pokes the conversation-list feed of every participant.
// Best-effort: a lost signal only delays the list refresh.
func (r *RoomStore) notifyRoomLists(room *models.ChatRoom) {
	for _, participant := range room.Participants {
		if err := r.Storage.NotifyRoomListChanged(participant); err != nil {
			log.Printf("WARNING: Failed to notify room list of %s: %v", participant, err)
		}
	}
}
