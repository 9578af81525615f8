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
	ErrRoleExists        = errors.BadRequest("Role already exists")
	ErrRoleNameTaken     = errors.BadRequest("Role name already taken")
	ErrAdminRoleRename   = errors.BadRequest("Cannot change admin role name")
	ErrReservedRole      = errors.BadRequest("Cannot delete a built-in role")
	ErrRoleHasUsers      = errors.BadRequest("Cannot delete role with assigned users")
	ErrPermTaken         = errors.BadRequest("Permission already assigned to role")
	ErrPermNotAssigned   = errors.BadRequest("Permission not assigned to role")
	ErrPermissionMissing = errors.NotFound("Permission not found")
)

// RoleWithUserCount is the admin listing shape: the role, its permissions,
// and how many users currently hold it.
type RoleWithUserCount struct {
	model.Role
	UserCount int64 `json:"userCount"`
}

// RoleService implements the RBAC graph mutation rules for roles and the
// role<->permission bindings.
type RoleService interface {
	List(ctx context.Context) ([]RoleWithUserCount, error)
	Get(ctx context.Context, id uuid.UUID) (*RoleWithUserCount, error)
	Create(ctx context.Context, name string, description *string) (*model.Role, error)
	Update(ctx context.Context, id uuid.UUID, name *string, description *string) (*model.Role, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AssignPermission(ctx context.Context, roleID, permissionID uuid.UUID) error
	RemovePermission(ctx context.Context, roleID, permissionID uuid.UUID) error
}

type roleService struct {
	roles       repository.RoleRepository
	permissions repository.PermissionRepository
}

// NewRoleService creates a role service.
func NewRoleService(roles repository.RoleRepository, permissions repository.PermissionRepository) RoleService {
	return &roleService{roles: roles, permissions: permissions}
}

func (s *roleService) List(ctx context.Context) ([]RoleWithUserCount, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]RoleWithUserCount, 0, len(roles))
	for _, role := range roles {
		count, err := s.roles.CountUsers(ctx, role.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, RoleWithUserCount{Role: role, UserCount: count})
	}
	return out, nil
}

func (s *roleService) Get(ctx context.Context, id uuid.UUID) (*RoleWithUserCount, error) {
	role, err := s.findRole(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.roles.CountUsers(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	return &RoleWithUserCount{Role: *role, UserCount: count}, nil
}

// Create rejects on exact (case-sensitive) name collision, matching the
// uniqueness constraint.
func (s *roleService) Create(ctx context.Context, name string, description *string) (*model.Role, error) {
	if _, err := s.roles.FindByName(ctx, name); err == nil {
		return nil, ErrRoleExists
	} else if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := &model.Role{Name: name, Description: description}
	if err := s.roles.Create(ctx, role); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRoleExists
		}
		return nil, err
	}
	return role, nil
}

// Update renames and/or re-describes a role. Renaming the admin role is
// rejected unconditionally; renaming onto a name held by a different role is
// a conflict.
func (s *roleService) Update(ctx context.Context, id uuid.UUID, name *string, description *string) (*model.Role, error) {
	role, err := s.findRole(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != nil && *name != role.Name {
		if role.Name == model.RoleAdmin {
			return nil, ErrAdminRoleRename
		}
		if _, err := s.roles.FindByName(ctx, *name); err == nil {
			return nil, ErrRoleNameTaken
		} else if !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		role.Name = *name
	}
	if description != nil {
		role.Description = description
	}

	if err := s.roles.Update(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// Delete enforces both protection rules: built-in roles are never deletable,
// and no role may be deleted while users still reference it.
func (s *roleService) Delete(ctx context.Context, id uuid.UUID) error {
	role, err := s.findRole(ctx, id)
	if err != nil {
		return err
	}

	if role.IsReserved() {
		return ErrReservedRole
	}

	count, err := s.roles.CountUsers(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrRoleHasUsers
	}

	return s.roles.Delete(ctx, id)
}

// AssignPermission binds a permission to a role. An existing binding is a
// conflict, not a no-op: role and permission both exist, the pair is what
// clashes.
func (s *roleService) AssignPermission(ctx context.Context, roleID, permissionID uuid.UUID) error {
	if _, err := s.findRole(ctx, roleID); err != nil {
		return err
	}
	if err := s.findPermission(ctx, permissionID); err != nil {
		return err
	}

	bound, err := s.roles.HasPermission(ctx, roleID, permissionID)
	if err != nil {
		return err
	}
	if bound {
		return ErrPermTaken
	}

	if err := s.roles.AssignPermission(ctx, roleID, permissionID); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrPermTaken
		}
		return err
	}
	return nil
}

// RemovePermission unbinds a permission from a role; removing a binding that
// does not exist is likewise a conflict.
func (s *roleService) RemovePermission(ctx context.Context, roleID, permissionID uuid.UUID) error {
	if _, err := s.findRole(ctx, roleID); err != nil {
		return err
	}
	if err := s.findPermission(ctx, permissionID); err != nil {
		return err
	}

	bound, err := s.roles.HasPermission(ctx, roleID, permissionID)
	if err != nil {
		return err
	}
	if !bound {
		return ErrPermNotAssigned
	}

	return s.roles.RemovePermission(ctx, roleID, permissionID)
}

func (s *roleService) findRole(ctx context.Context, id uuid.UUID) (*model.Role, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Role not found")
		}
		return nil, err
	}
	return role, nil
}

func (s *roleService) findPermission(ctx context.Context, id uuid.UUID) error {
	if _, err := s.permissions.FindByID(ctx, id); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPermissionMissing
		}
		return err
	}
	return nil
}
