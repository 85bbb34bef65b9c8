package models

import (
	"time"
)

// User is a local snapshot of an identity-provider account. The ID is the
// provider's stable subject; the rest is refreshed on every authenticated
// request.
type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Email     string    `gorm:"type:text;index" json:"email"`
	AvatarURL string    `gorm:"type:text" json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}
