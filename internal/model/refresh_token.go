package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RefreshToken is one row of the refresh token ledger. Token is an opaque
// random string and the row's unique lookup key; rotation replaces Token and
// ExpiresAt in place on the same row. Rows are cascade-deleted with their
// owning user.
type RefreshToken struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Token     string    `json:"-" gorm:"uniqueIndex;size:128;not null"`
	UserID    uuid.UUID `json:"userId" gorm:"type:char(36);not null;index"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Expired reports whether the token's absolute expiry has passed.
func (t *RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// BeforeCreate sets UUID before creating the record.
func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
