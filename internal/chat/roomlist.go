package chat

import (
	"fmt"
	"log"
	"sync"

	"lendly/backend/internal/models"
	"lendly/backend/internal/storage"
)

// OnRooms receives a user's full conversation list, descending by
// last-message time, once per change.
type OnRooms func([]models.RoomSummary)

// RoomListAggregator produces the conversation-list view: every room the
// user participates in, summarized for display.
type RoomListAggregator struct {
	Storage storage.Storage
}

func NewRoomListAggregator(s storage.Storage) *RoomListAggregator {
	return &RoomListAggregator{Storage: s}
}

// Rooms returns a one-shot snapshot of the user's conversations.
func (a *RoomListAggregator) Rooms(userID string) ([]models.RoomSummary, error) {
	rooms, err := a.Storage.RoomsForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return summarize(rooms, userID), nil
}

// Subscribe starts a live feed of the user's conversation list with the same
// snapshot-per-change and cancellation contract as MessageStore.Subscribe.
func (a *RoomListAggregator) Subscribe(userID string, onUpdate OnRooms) func() {
	signals, stop := a.Storage.WatchRoomList(userID)
	sub := &subscription{}

	reload := func() {
		rooms, err := a.Storage.RoomsForUser(userID)
		if err != nil {
			log.Printf("ERROR: Failed to load room list for %s: %v", userID, err)
			return
		}
		summaries := summarize(rooms, userID)
		sub.deliver(func() { onUpdate(summaries) })
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

// summarize derives the other participant of each room by set-difference
// against the viewer. A name missing from the stored map (the creator-side
// naming asymmetry) degrades to "Unknown" rather than failing the list.
func summarize(rooms []models.ChatRoom, viewerID string) []models.RoomSummary {
	summaries := make([]models.RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		otherID := room.OtherParticipant(viewerID)
		name, ok := room.ParticipantNames[otherID]
		if !ok || name == "" {
			name = "Unknown"
		}
		summaries = append(summaries, models.RoomSummary{
			RoomID:          room.RoomID,
			OtherUserID:     otherID,
			OtherUserName:   name,
			LastMessage:     room.LastMessage,
			LastMessageTime: room.LastMessageTime,
			ItemID:          room.ItemID,
			ItemName:        room.ItemName,
		})
	}
	return summaries
}
