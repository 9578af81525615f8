package seed

import (
	"context"
	"fmt"
	"log"

	"authcore/internal/auth"
	"authcore/internal/model"
	"authcore/internal/repository"
)

// Default admin credentials for a fresh database. Override via the seed
// command's environment before running against anything shared.
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "Admin@123"
)

var permissionSeeds = []struct {
	name        string
	description string
}{
	{"user:read", "View users"},
	{"user:write", "Create and update users"},
	{"user:delete", "Delete users"},
	{"role:read", "View roles"},
	{"role:write", "Create and update roles"},
	{"role:delete", "Delete roles"},
	{"permission:read", "View permissions"},
	{"permission:write", "Create and update permissions"},
	{"permission:delete", "Delete permissions"},
}

// Seeder provisions the built-in permissions, roles, and admin account.
// Every step is idempotent, so re-running against an existing database is
// safe.
type Seeder struct {
	users       repository.UserRepository
	roles       repository.RoleRepository
	permissions repository.PermissionRepository
}

// New creates a seeder.
func New(
	users repository.UserRepository,
	roles repository.RoleRepository,
	permissions repository.PermissionRepository,
) *Seeder {
	return &Seeder{users: users, roles: roles, permissions: permissions}
}

// Run seeds permissions, the admin and user roles, the role-permission
// bindings, and the default admin account.
func (s *Seeder) Run(ctx context.Context, adminEmail, adminPassword string) error {
	perms, err := s.seedPermissions(ctx)
	if err != nil {
		return err
	}

	adminRole, err := s.seedRole(ctx, model.RoleAdmin, "Full administrative access", perms)
	if err != nil {
		return err
	}

	if _, err := s.seedRole(ctx, model.RoleUser, "Default role for new accounts", []*model.Permission{perms[0]}); err != nil {
		return err
	}

	return s.seedAdminUser(ctx, adminRole, adminEmail, adminPassword)
}

func (s *Seeder) seedPermissions(ctx context.Context) ([]*model.Permission, error) {
	out := make([]*model.Permission, 0, len(permissionSeeds))
	for _, p := range permissionSeeds {
		existing, err := s.permissions.FindByName(ctx, p.name)
		if err == nil {
			out = append(out, existing)
			continue
		}

		description := p.description
		perm := &model.Permission{Name: p.name, Description: &description}
		if err := s.permissions.Create(ctx, perm); err != nil {
			return nil, fmt.Errorf("seed permission %s: %w", p.name, err)
		}
		log.Printf("created permission %s", p.name)
		out = append(out, perm)
	}
	return out, nil
}

func (s *Seeder) seedRole(ctx context.Context, name, description string, perms []*model.Permission) (*model.Role, error) {
	role, err := s.roles.FindByName(ctx, name)
	if err != nil {
		desc := description
		role = &model.Role{Name: name, Description: &desc}
		if err := s.roles.Create(ctx, role); err != nil {
			return nil, fmt.Errorf("seed role %s: %w", name, err)
		}
		log.Printf("created role %s", name)
	}

	for _, perm := range perms {
		bound, err := s.roles.HasPermission(ctx, role.ID, perm.ID)
		if err != nil {
			return nil, fmt.Errorf("check binding %s/%s: %w", name, perm.Name, err)
		}
		if bound {
			continue
		}
		if err := s.roles.AssignPermission(ctx, role.ID, perm.ID); err != nil {
			return nil, fmt.Errorf("bind %s to %s: %w", perm.Name, name, err)
		}
	}
	return role, nil
}

func (s *Seeder) seedAdminUser(ctx context.Context, adminRole *model.Role, email, password string) error {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &model.User{
		Email:           email,
		Password:        hash,
		FirstName:       "Admin",
		LastName:        "User",
		IsEmailVerified: true,
		RoleID:          adminRole.ID,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	log.Printf("created admin account %s", email)
	return nil
}
