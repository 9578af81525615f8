package service

import (
	"context"
	stderrors "errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"authcore/internal/auth"
	"authcore/internal/errors"
	"authcore/internal/model"
	"authcore/internal/repository"
	"authcore/internal/storage"
)

var (
	ErrUserNotFound       = errors.NotFound("User not found")
	ErrEmailTaken         = errors.BadRequest("Email already taken")
	ErrWrongCurrentPass   = errors.Unauthorized("Current password is incorrect")
	ErrTargetRoleNotFound = errors.NotFound("Role not found")
)

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users []model.User
	Page  int
	Limit int
	Total int64
}

// ProfileUpdate carries the optional fields of a profile or admin user
// update; nil means "leave unchanged".
type ProfileUpdate struct {
	FirstName         *string
	LastName          *string
	Email             *string
	ProfilePicture    *string
	ProfilePictureKey *string
}

// UserService covers user administration and self-service profile
// operations.
type UserService interface {
	List(ctx context.Context, page, limit int) (*UserPage, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	Update(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateRole(ctx context.Context, userID, roleID uuid.UUID) (*model.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

type userService struct {
	users repository.UserRepository
	roles repository.RoleRepository
	store storage.Storage
}

// NewUserService creates a user service. store may be nil when no object
// storage is configured; profile picture cleanup is skipped in that case.
func NewUserService(users repository.UserRepository, roles repository.RoleRepository, store storage.Storage) UserService {
	return &userService{users: users, roles: roles, store: store}
}

func (s *userService) List(ctx context.Context, page, limit int) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	users, err := s.users.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &UserPage{Users: users, Page: page, Limit: limit, Total: total}, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.find(ctx, id)
}

// Update applies a partial update. Changing the email onto an address held
// by another user is a conflict. When the profile picture is replaced, the
// previous storage object is deleted best effort.
func (s *userService) Update(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*model.User, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Email != nil && *update.Email != user.Email {
		if _, err := s.users.FindByEmail(ctx, *update.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = *update.Email
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.ProfilePicture != nil || update.ProfilePictureKey != nil {
		s.cleanupOldPicture(user, update.ProfilePictureKey)
		user.ProfilePicture = update.ProfilePicture
		user.ProfilePictureKey = update.ProfilePictureKey
	}

	if err := s.users.Update(ctx, user); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Delete removes the user; refresh tokens cascade with the row.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

// UpdateRole reassigns the user to another existing role.
func (s *userService) UpdateRole(ctx context.Context, userID, roleID uuid.UUID) (*model.User, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetRoleNotFound
		}
		return nil, err
	}

	user.RoleID = role.ID
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	user.Role = *role
	return user, nil
}

// ChangePassword verifies the current password before accepting a new one. A
// wrong current password is Unauthorized, not a validation failure.
func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.find(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(currentPassword, user.Password) {
		return ErrWrongCurrentPass
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.Password = hash
	return s.users.Update(ctx, user)
}

// cleanupOldPicture deletes the previously stored object when the key
// actually changes. The deletion must not block or fail the profile update.
func (s *userService) cleanupOldPicture(user *model.User, newKey *string) {
	if s.store == nil || user.ProfilePictureKey == nil {
		return
	}
	oldKey := *user.ProfilePictureKey
	if newKey != nil && *newKey == oldKey {
		return
	}
	go func() {
		if err := s.store.Delete(context.Background(), oldKey); err != nil {
			log.Printf("delete profile picture %s: %v", oldKey, err)
		}
	}()
}

func (s *userService) find(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
