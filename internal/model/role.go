package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reserved role names. Both are protected at the application layer: admin can
// never be renamed, and neither can be deleted.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Role is a named bundle of permissions. Every user references exactly one
// role.
type Role struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Description *string   `json:"description,omitempty" gorm:"size:255"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relations
	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:role_permissions"`
	Users       []User       `json:"-" gorm:"foreignKey:RoleID"`
}

// IsReserved reports whether the role is one of the built-in roles.
func (r *Role) IsReserved() bool {
	return r.Name == RoleAdmin || r.Name == RoleUser
}

// BeforeCreate sets UUID before creating the record.
func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
