package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"authcore/internal/model"
)

func TestAuthzService_HasPermission(t *testing.T) {
	roleID := uuid.New()

	tests := []struct {
		name       string
		permission string
		expected   bool
	}{
		{"held permission", "user:read", true},
		{"missing permission", "user:delete", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles := new(MockRoleRepository)
			roles.On("FindByID", mock.Anything, roleID).Return(&model.Role{
				ID:   roleID,
				Name: "editor",
				Permissions: []model.Permission{
					{Name: "user:read"},
					{Name: "user:write"},
				},
			}, nil)

			service := NewAuthzService(roles)
			ok, err := service.HasPermission(context.Background(), roleID, tt.permission)

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}

// A vanished role must surface as an error so callers deny access, not as an
// empty permission set that silently denies with a misleading status.
func TestAuthzService_MissingRoleIsAnError(t *testing.T) {
	roleID := uuid.New()

	roles := new(MockRoleRepository)
	roles.On("FindByID", mock.Anything, roleID).Return(nil, gorm.ErrRecordNotFound)

	service := NewAuthzService(roles)

	_, err := service.PermissionsOf(context.Background(), roleID)
	assert.Equal(t, ErrRoleNotFound, err)

	ok, err := service.HasPermission(context.Background(), roleID, "user:read")
	assert.False(t, ok)
	assert.Equal(t, ErrRoleNotFound, err)

	admin, err := service.IsAdmin(context.Background(), roleID)
	assert.False(t, admin)
	assert.Equal(t, ErrRoleNotFound, err)
}

func TestAuthzService_IsAdmin(t *testing.T) {
	adminRoleID := uuid.New()
	userRoleID := uuid.New()

	roles := new(MockRoleRepository)
	roles.On("FindByID", mock.Anything, adminRoleID).Return(&model.Role{ID: adminRoleID, Name: model.RoleAdmin}, nil)
	roles.On("FindByID", mock.Anything, userRoleID).Return(&model.Role{ID: userRoleID, Name: model.RoleUser}, nil)

	service := NewAuthzService(roles)

	admin, err := service.IsAdmin(context.Background(), adminRoleID)
	assert.NoError(t, err)
	assert.True(t, admin)

	admin, err = service.IsAdmin(context.Background(), userRoleID)
	assert.NoError(t, err)
	assert.False(t, admin)
}
