package model

import "github.com/google/uuid"

// RolePermission is the join table for the Role<->Permission many-to-many
// association. The composite primary key enforces that a permission may be
// bound to a role at most once; both foreign keys cascade on delete.
type RolePermission struct {
	RoleID       uuid.UUID `json:"roleId" gorm:"type:char(36);primaryKey"`
	PermissionID uuid.UUID `json:"permissionId" gorm:"type:char(36);primaryKey"`

	Role       Role       `json:"-" gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	Permission Permission `json:"-" gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
}

// TableName keeps the join table name in sync with the many2many tag on Role
// and Permission.
func (RolePermission) TableName() string {
	return "role_permissions"
}
