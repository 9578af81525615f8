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

var (
	ErrPermissionExists    = errors.BadRequest("Permission already exists")
	ErrPermissionNameTaken = errors.BadRequest("Permission name already taken")
	ErrPermissionBound     = errors.BadRequest("Cannot delete permission assigned to roles")
)

// PermissionWithRoleCount is the admin listing shape: the permission and how
// many roles currently bind it.
type PermissionWithRoleCount struct {
	model.Permission
	RoleCount int64 `json:"roleCount"`
}

// PermissionService implements the RBAC graph mutation rules for
// permissions.
type PermissionService interface {
	List(ctx context.Context) ([]PermissionWithRoleCount, error)
	Get(ctx context.Context, id uuid.UUID) (*PermissionWithRoleCount, error)
	Create(ctx context.Context, name string, description *string) (*model.Permission, error)
	Update(ctx context.Context, id uuid.UUID, name *string, description *string) (*model.Permission, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type permissionService struct {
	permissions repository.PermissionRepository
}

// NewPermissionService creates a permission service.
func NewPermissionService(permissions repository.PermissionRepository) PermissionService {
	return &permissionService{permissions: permissions}
}

func (s *permissionService) List(ctx context.Context) ([]PermissionWithRoleCount, error) {
	permissions, err := s.permissions.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]PermissionWithRoleCount, 0, len(permissions))
	for _, permission := range permissions {
		count, err := s.permissions.CountRoles(ctx, permission.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, PermissionWithRoleCount{Permission: permission, RoleCount: count})
	}
	return out, nil
}

func (s *permissionService) Get(ctx context.Context, id uuid.UUID) (*PermissionWithRoleCount, error) {
	permission, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.permissions.CountRoles(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PermissionWithRoleCount{Permission: *permission, RoleCount: count}, nil
}

func (s *permissionService) Create(ctx context.Context, name string, description *string) (*model.Permission, error) {
	if _, err := s.permissions.FindByName(ctx, name); err == nil {
		return nil, ErrPermissionExists
	} else if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	permission := &model.Permission{Name: name, Description: description}
	if err := s.permissions.Create(ctx, permission); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPermissionExists
		}
		return nil, err
	}
	return permission, nil
}

func (s *permissionService) Update(ctx context.Context, id uuid.UUID, name *string, description *string) (*model.Permission, error) {
	permission, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != nil && *name != permission.Name {
		if _, err := s.permissions.FindByName(ctx, *name); err == nil {
			return nil, ErrPermissionNameTaken
		} else if !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		permission.Name = *name
	}
	if description != nil {
		permission.Description = description
	}

	if err := s.permissions.Update(ctx, permission); err != nil {
		return nil, err
	}
	return permission, nil
}

// Delete is blocked while any role still binds the permission.
func (s *permissionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	count, err := s.permissions.CountRoles(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrPermissionBound
	}

	return s.permissions.Delete(ctx, id)
}

func (s *permissionService) find(ctx context.Context, id uuid.UUID) (*model.Permission, error) {
	permission, err := s.permissions.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionMissing
		}
		return nil, err
	}
	return permission, nil
}
