package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Borrow request statuses.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestDeclined = "declined"
	RequestReturned = "returned"
)

// BorrowRequest tracks one user asking to borrow another user's item.
type BorrowRequest struct {
	ID string `gorm:"primaryKey" json:"id"`

	ItemID   string `gorm:"type:text;not null;index" json:"itemId"`
	ItemName string `gorm:"type:text;not null" json:"itemName"`

	BorrowerID   string `gorm:"type:text;not null;index" json:"borrowerId"`
	BorrowerName string `gorm:"type:text;not null" json:"borrowerName"`
	// OwnerID is denormalized from the item so the owner's inbox is a single
	// indexed query.
	OwnerID string `gorm:"type:text;not null;index" json:"ownerId"`

	// Status moves pending -> approved|declined, approved -> returned.
	Status string `gorm:"type:text;not null;default:pending" json:"status"`
	// Message is an optional note from the borrower.
	Message string `gorm:"type:text" json:"message"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate generates the request ID if the caller has not set one.
func (b *BorrowRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return
}
