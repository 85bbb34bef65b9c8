package chat_test

import (
	"fmt"
	"sync"
	"time"

	"lendly/backend/internal/models"
	"lendly/backend/internal/storage"
)

// fakeStorage is an in-memory stand-in for the Postgres+Redis service, used
// by the end-to-end conversation tests. It reproduces the store's contract:
// server-assigned strictly increasing timestamps, participant-membership
// queries, and coalescing change signals.
type fakeStorage struct {
	storage.Storage

	mu       sync.Mutex
	rooms    map[string]*models.ChatRoom
	messages map[string][]*models.Message
	seq      int

	roomWatchers map[string][]chan struct{}
	listWatchers map[string][]chan struct{}
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		rooms:        make(map[string]*models.ChatRoom),
		messages:     make(map[string][]*models.Message),
		roomWatchers: make(map[string][]chan struct{}),
		listWatchers: make(map[string][]chan struct{}),
	}
}

func (f *fakeStorage) nextTime() time.Time {
	f.seq++
	return time.Unix(1700000000, 0).Add(time.Duration(f.seq) * time.Second)
}

func (f *fakeStorage) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[roomID]
	if !ok {
		return nil, nil
	}
	clone := *room
	return &clone, nil
}

func (f *fakeStorage) CreateRoom(room *models.ChatRoom) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.rooms[room.RoomID]; exists {
		return fmt.Errorf("duplicate room %s", room.RoomID)
	}
	now := f.nextTime()
	room.CreatedAt = now
	room.LastMessageTime = now
	clone := *room
	f.rooms[room.RoomID] = &clone
	return nil
}

func (f *fakeStorage) UpdateRoomPreview(roomID, lastMessage string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[roomID]
	if !ok {
		return fmt.Errorf("no room %s", roomID)
	}
	room.LastMessage = lastMessage
	room.LastMessageTime = at
	return nil
}

func (f *fakeStorage) RoomsForUser(userID string) ([]models.ChatRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rooms []models.ChatRoom
	for _, room := range f.rooms {
		for _, p := range room.Participants {
			if p == userID {
				rooms = append(rooms, *room)
				break
			}
		}
	}
	// Descending by last message time, the store's compound ordering.
	for i := 0; i < len(rooms); i++ {
		for j := i + 1; j < len(rooms); j++ {
			if rooms[j].LastMessageTime.After(rooms[i].LastMessageTime) {
				rooms[i], rooms[j] = rooms[j], rooms[i]
			}
		}
	}
	return rooms, nil
}

func (f *fakeStorage) SaveMessage(msg *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg.ID = fmt.Sprintf("m%d", f.seq+1)
	msg.Timestamp = f.nextTime()
	msg.Read = false
	clone := *msg
	f.messages[msg.RoomID] = append(f.messages[msg.RoomID], &clone)
	return nil
}

func (f *fakeStorage) GetRoomMessages(roomID string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Message, 0, len(f.messages[roomID]))
	for _, msg := range f.messages[roomID] {
		out = append(out, *msg)
	}
	return out, nil
}

func (f *fakeStorage) MarkMessagesRead(roomID, viewerID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var changed int64
	for _, msg := range f.messages[roomID] {
		if msg.SenderID != viewerID && !msg.Read {
			msg.Read = true
			changed++
		}
	}
	return changed, nil
}

func (f *fakeStorage) CountUnread(roomID, viewerID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, msg := range f.messages[roomID] {
		if msg.SenderID != viewerID && !msg.Read {
			n++
		}
	}
	return n, nil
}

func (f *fakeStorage) NotifyRoomChanged(roomID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.roomWatchers[roomID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

func (f *fakeStorage) NotifyRoomListChanged(userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.listWatchers[userID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

func (f *fakeStorage) WatchRoom(roomID string) (<-chan struct{}, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{}, 1)
	f.roomWatchers[roomID] = append(f.roomWatchers[roomID], ch)
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			f.roomWatchers[roomID] = removeWatcher(f.roomWatchers[roomID], ch)
			f.mu.Unlock()
			close(ch)
		})
	}
}

func (f *fakeStorage) WatchRoomList(userID string) (<-chan struct{}, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{}, 1)
	f.listWatchers[userID] = append(f.listWatchers[userID], ch)
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			f.listWatchers[userID] = removeWatcher(f.listWatchers[userID], ch)
			f.mu.Unlock()
			close(ch)
		})
	}
}

func removeWatcher(watchers []chan struct{}, ch chan struct{}) []chan struct{} {
	out := watchers[:0]
	for _, w := range watchers {
		if w != ch {
			out = append(out, w)
		}
	}
	return out
}

// readFlags reports the read flags of a room's log, in order, for assertions.
func (f *fakeStorage) readFlags(roomID string) []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	flags := make([]bool, 0, len(f.messages[roomID]))
	for _, msg := range f.messages[roomID] {
		flags = append(flags, msg.Read)
	}
	return flags
}
