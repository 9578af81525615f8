package service

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"authcore/internal/errors"
	"authcore/internal/model"
	"authcore/internal/repository"
)

// ErrRoleNotFound is returned when a permission query references a role that
// does not exist. A missing role is an error, never an empty permission set.
var ErrRoleNotFound = errors.Forbidden("Role not found")

// AuthzService answers permission membership questions against the RBAC
// graph. Every query hits the store fresh; permissions revoked mid-session
// take effect on the very next request.
type AuthzService interface {
	PermissionsOf(ctx context.Context, roleID uuid.UUID) ([]string, error)
	HasPermission(ctx context.Context, roleID uuid.UUID, permission string) (bool, error)
	IsAdmin(ctx context.Context, roleID uuid.UUID) (bool, error)
}

type authzService struct {
	roles repository.RoleRepository
}

// NewAuthzService creates the authorization resolver.
func NewAuthzService(roles repository.RoleRepository) AuthzService {
	return &authzService{roles: roles}
}

func (s *authzService) PermissionsOf(ctx context.Context, roleID uuid.UUID) ([]string, error) {
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}

	names := make([]string, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		names = append(names, p.Name)
	}
	return names, nil
}

func (s *authzService) HasPermission(ctx context.Context, roleID uuid.UUID, permission string) (bool, error) {
	names, err := s.PermissionsOf(ctx, roleID)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == permission {
			return true, nil
		}
	}
	return false, nil
}

// IsAdmin is true iff the role's name is the reserved admin literal.
func (s *authzService) IsAdmin(ctx context.Context, roleID uuid.UUID) (bool, error) {
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrRoleNotFound
		}
		return false, err
	}
	return role.Name == model.RoleAdmin, nil
}
