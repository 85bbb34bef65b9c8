package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// NameMap stores a display label per participant ID as a jsonb column.
// The entry for the room's creator is the placeholder "You"; readers must
// not rely on their own entry being a real name.
type NameMap map[string]string

// Value implements driver.Valuer so GORM can write the map as jsonb.
func (n NameMap) Value() (driver.Value, error) {
	if n == nil {
		return "{}", nil
	}
	b, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for reading the jsonb column back.
func (n *NameMap) Scan(value interface{}) error {
	if value == nil {
		*n = NameMap{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into NameMap", value)
	}
	return json.Unmarshal(data, n)
}

// ChatRoom is a persistent 1-on-1 conversation between a borrower and an
// item owner. The RoomID is the canonical pair key, so the same room is
// found no matter which side starts the conversation.
type ChatRoom struct {
	// RoomID is the canonical key derived from the two participant IDs.
	RoomID string `gorm:"primaryKey" json:"id"`
	// Participants holds exactly two user IDs, unordered, fixed at creation.
	Participants pq.StringArray `gorm:"type:text[];not null" json:"participants"`
	// ParticipantNames maps each participant ID to a display label known at
	// creation time.
	ParticipantNames NameMap `gorm:"type:jsonb" json:"participantNames"`
	// CreatedAt is assigned by the server when the room is first created.
	CreatedAt time.Time `json:"createdAt"`
	// LastMessage and LastMessageTime cache the most recent message so the
	// conversation list renders without reading the message log.
	LastMessage     string    `json:"lastMessage"`
	LastMessageTime time.Time `json:"lastMessageTime"`
	// ItemID and ItemName optionally tie the room to the item that prompted
	// it. Set only at creation, never updated afterwards.
	ItemID   *string `json:"itemId,omitempty"`
	ItemName *string `json:"itemName,omitempty"`
}

// OtherParticipant returns the first participant that is not viewerID.
// Callers only pass viewers that are members of the room.
func (r *ChatRoom) OtherParticipant(viewerID string) string {
	for _, id := range r.Participants {
		if id != viewerID {
			return id
		}
	}
	return ""
}
