package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered account. Password holds the bcrypt hash, never
// the plaintext, and is excluded from JSON along with the verification and
// reset token columns.
type User struct {
	ID                uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Email             string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password          string     `json:"-" gorm:"size:255;not null"`
	FirstName         string     `json:"firstName" gorm:"size:100;not null"`
	LastName          string     `json:"lastName" gorm:"size:100;not null"`
	IsEmailVerified   bool       `json:"isEmailVerified" gorm:"default:false"`
	VerificationToken *string    `json:"-" gorm:"size:128;index"`
	ResetToken        *string    `json:"-" gorm:"size:128;index"`
	ResetTokenExpiry  *time.Time `json:"-"`
	ProfilePicture    *string    `json:"profilePicture,omitempty" gorm:"size:512"`
	ProfilePictureKey *string    `json:"-" gorm:"size:255"`
	RoleID            uuid.UUID  `json:"roleId" gorm:"type:char(36);not null;index"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`

	// Relations
	Role          Role           `json:"role,omitzero" gorm:"foreignKey:RoleID"`
	RefreshTokens []RefreshToken `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
