package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item is a lendable object listed in the community catalog.
type Item struct {
	ID string `gorm:"primaryKey" json:"id"`
	// OwnerID is the identity-provider subject of the user who listed the item.
	OwnerID   string `gorm:"type:text;not null;index" json:"ownerId"`
	OwnerName string `gorm:"type:text;not null" json:"ownerName"`

	Name        string `gorm:"type:text;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"type:text;index" json:"category"`
	ImageURL    string `gorm:"type:text" json:"imageUrl"`

	// Availability is false while the item is lent out.
	Availability bool      `gorm:"not null;default:true" json:"availability"`
	CreatedAt    time.Time `json:"createdAt"`
}

// BeforeCreate generates the item ID if the caller has not set one.
func (i *Item) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return
}
