package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a single chat message inside a room. Immutable after creation
// except for the Read flag, which only ever moves false -> true.
type Message struct {
	// ID is a store-assigned UUID, unique per room.
	ID string `gorm:"primaryKey" json:"id"`
	// RoomID is the chat room the message belongs to.
	RoomID string `gorm:"type:text;not null;index:idx_room_messages" json:"roomId"`
	// SenderID is the author's user ID.
	SenderID string `gorm:"type:text;not null;index:idx_room_messages" json:"senderId"`
	// SenderName is a snapshot of the author's display name at send time.
	SenderName string `gorm:"type:text;not null" json:"senderName"`
	// Text is the message content. Never empty.
	Text string `gorm:"type:text;not null" json:"text"`
	// Timestamp is assigned server-side at write time and is the single
	// ordering authority within a room.
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	// Read reports whether the non-sender participant has viewed the message.
	Read bool `gorm:"not null;default:false" json:"read"`
}

// BeforeCreate generates the message ID if the caller has not set one.
func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}
