package storage

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"lendly/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Storage is the persistence and change-notification boundary. Documents
// live in PostgreSQL; Redis pub/sub carries dirty signals so live
// subscriptions know when to re-read their snapshot.
type Storage interface {
	SaveUser(user *models.User) error
	GetUserByID(userID string) (*models.User, error)

	GetRoomByID(roomID string) (*models.ChatRoom, error)
	CreateRoom(room *models.ChatRoom) error
	UpdateRoomPreview(roomID, lastMessage string, at time.Time) error
	RoomsForUser(userID string) ([]models.ChatRoom, error)

	SaveMessage(msg *models.Message) error
	GetRoomMessages(roomID string) ([]models.Message, error)
	MarkMessagesRead(roomID, viewerID string) (int64, error)
	CountUnread(roomID, viewerID string) (int64, error)
	CountUnreadTotal(userID string) (int64, error)

	NotifyRoomChanged(roomID string) error
	NotifyRoomListChanged(userID string) error
	WatchRoom(roomID string) (<-chan struct{}, func())
	WatchRoomList(userID string) (<-chan struct{}, func())

	SaveItem(item *models.Item) error
	GetItemByID(itemID string) (*models.Item, error)
	ListItems(filter ItemFilter) ([]models.Item, error)
	ItemsByOwner(ownerID string) ([]models.Item, error)
	SetItemAvailability(itemID string, available bool) error

	SaveBorrowRequest(req *models.BorrowRequest) error
	GetBorrowRequestByID(requestID string) (*models.BorrowRequest, error)
	RequestsByBorrower(borrowerID string) ([]models.BorrowRequest, error)
	RequestsByOwner(ownerID string) ([]models.BorrowRequest, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// Redis channel names for change signals.
func roomChannel(roomID string) string     { return "chat:room:" + roomID }
func roomListChannel(userID string) string { return "chat:rooms:" + userID }

// SaveUser upserts the identity snapshot for a user.
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

func (s *Service) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetRoomByID returns the room, or (nil, nil) when no such room exists.
func (s *Service) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.DB.First(&room, "room_id = ?", roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to get room %s: %v", roomID, err)
		return nil, err
	}
	return &room, nil
}

// CreateRoom inserts a new room document. CreatedAt and LastMessageTime are
// assigned here so the server clock is the only timestamp authority.
func (s *Service) CreateRoom(room *models.ChatRoom) error {
	now := time.Now().UTC()
	if room.CreatedAt.IsZero() {
		room.CreatedAt = now
	}
	if room.LastMessageTime.IsZero() {
		room.LastMessageTime = now
	}
	if err := s.DB.Create(room).Error; err != nil {
		log.Printf("ERROR: Failed to create room %s: %v", room.RoomID, err)
		return err
	}
	return nil
}

// UpdateRoomPreview overwrites the denormalized last-message cache.
// Last-write-wins: no monotonicity check against the stored time, so two
// near-simultaneous sends may briefly regress the preview. The message log
// stays authoritative and the next send repairs it.
func (s *Service) UpdateRoomPreview(roomID, lastMessage string, at time.Time) error {
	return s.DB.Model(&models.ChatRoom{}).
		Where("room_id = ?", roomID).
		Updates(map[string]interface{}{
			"last_message":      lastMessage,
			"last_message_time": at,
		}).Error
}

// RoomsForUser returns every room the user participates in, most recent
// conversation first.
func (s *Service) RoomsForUser(userID string) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	err := s.DB.Where("? = ANY(participants)", userID).
		Order("last_message_time DESC").
		Find(&rooms).Error
	if err != nil {
		log.Printf("ERROR: Failed to list rooms for user %s: %v", userID, err)
		return nil, err
	}
	return rooms, nil
}

// SaveMessage appends a message to its room's log. The write timestamp is
// assigned here, immune to client clock skew.
func (s *Service) SaveMessage(msg *models.Message) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	msg.Read = false
	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message for room %s: %v", msg.RoomID, err)
		return err
	}
	return nil
}

// GetRoomMessages returns the room's full message log, ascending by the
// server-assigned timestamp.
func (s *Service) GetRoomMessages(roomID string) ([]models.Message, error) {
	var messages []models.Message
	err := s.DB.Where("room_id = ?", roomID).
		Order("timestamp asc").
		Find(&messages).Error
	if err != nil {
		log.Printf("ERROR: Failed to get messages for room %s: %v", roomID, err)
		return nil, err
	}
	return messages, nil
}

// MarkMessagesRead flips read=true on every unread message in the room not
// sent by the viewer, and reports how many rows changed.
func (s *Service) MarkMessagesRead(roomID, viewerID string) (int64, error) {
	res := s.DB.Model(&models.Message{}).
		Where("room_id = ? AND sender_id <> ? AND read = ?", roomID, viewerID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}

// CountUnread returns how many messages in the room the viewer has not read.
func (s *Service) CountUnread(roomID, viewerID string) (int64, error) {
	var n int64
	err := s.DB.Model(&models.Message{}).
		Where("room_id = ? AND sender_id <> ? AND read = ?", roomID, viewerID, false).
		Count(&n).Error
	return n, err
}

// CountUnreadTotal returns the viewer's unread count across all their rooms.
func (s *Service) CountUnreadTotal(userID string) (int64, error) {
	var n int64
	err := s.DB.Model(&models.Message{}).
		Joins("JOIN chat_rooms ON chat_rooms.room_id = messages.room_id").
		Where("? = ANY(chat_rooms.participants)", userID).
		Where("messages.sender_id <> ? AND messages.read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// NotifyRoomChanged publishes a dirty signal for one room's message log.
func (s *Service) NotifyRoomChanged(roomID string) error {
	return s.Redis.Publish(s.Ctx, roomChannel(roomID), "1").Err()
}

// NotifyRoomListChanged publishes a dirty signal for one user's room list.
func (s *Service) NotifyRoomListChanged(userID string) error {
	return s.Redis.Publish(s.Ctx, roomListChannel(userID), "1").Err()
}

// WatchRoom subscribes to the room's change signals. The returned channel
// coalesces bursts into single ticks and closes after cancellation; the
// cancel func is safe to call more than once.
func (s *Service) WatchRoom(roomID string) (<-chan struct{}, func()) {
	return s.watch(roomChannel(roomID))
}

// WatchRoomList subscribes to change signals for the user's room list.
func (s *Service) WatchRoomList(userID string) (<-chan struct{}, func()) {
	return s.watch(roomListChannel(userID))
}

func (s *Service) watch(channel string) (<-chan struct{}, func()) {
	pubsub := s.Redis.Subscribe(s.Ctx, channel)
	signals := make(chan struct{}, 1)

	go func() {
		defer close(signals)
		for range pubsub.Channel() {
			// Coalesce: a pending tick already promises a fresh snapshot read.
			select {
			case signals <- struct{}{}:
			default:
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			if err := pubsub.Close(); err != nil {
				log.Printf("WARNING: Failed to close pubsub for %s: %v", channel, err)
			}
		})
	}
	return signals, cancel
}
