package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"authcore/internal/model"
)

func TestUserService_List(t *testing.T) {
	tests := []struct {
		name           string
		page           int
		limit          int
		expectedOffset int
		expectedLimit  int
		expectedPage   int
	}{
		{"defaults applied", 0, 0, 0, 10, 1},
		{"explicit paging", 3, 20, 40, 20, 3},
		{"oversized limit clamped", 1, 500, 0, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			users.On("List", mock.Anything, tt.expectedOffset, tt.expectedLimit).Return([]model.User{{Email: "a@example.com"}}, nil)
			users.On("Count", mock.Anything).Return(int64(41), nil)

			service := NewUserService(users, new(MockRoleRepository), nil)
			page, err := service.List(context.Background(), tt.page, tt.limit)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedPage, page.Page)
			assert.Equal(t, tt.expectedLimit, page.Limit)
			assert.Equal(t, int64(41), page.Total)
			assert.Len(t, page.Users, 1)
			users.AssertExpectations(t)
		})
	}
}

func TestUserService_Update(t *testing.T) {
	userID := uuid.New()

	t.Run("partial update leaves absent fields alone", func(t *testing.T) {
		first := "Updated"
		users := new(MockUserRepository)
		users.On("FindByID", mock.Anything, userID).Return(&model.User{
			ID:        userID,
			Email:     "test@example.com",
			FirstName: "Original",
			LastName:  "Name",
		}, nil)
		users.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		service := NewUserService(users, new(MockRoleRepository), nil)
		user, err := service.Update(context.Background(), userID, ProfileUpdate{FirstName: &first})

		assert.NoError(t, err)
		assert.Equal(t, "Updated", user.FirstName)
		assert.Equal(t, "Name", user.LastName)
		assert.Equal(t, "test@example.com", user.Email)
	})

	t.Run("email held by another user is a conflict", func(t *testing.T) {
		taken := "taken@example.com"
		users := new(MockUserRepository)
		users.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, Email: "test@example.com"}, nil)
		users.On("FindByEmail", mock.Anything, taken).Return(&model.User{ID: uuid.New(), Email: taken}, nil)

		service := NewUserService(users, new(MockRoleRepository), nil)
		user, err := service.Update(context.Background(), userID, ProfileUpdate{Email: &taken})

		assert.Equal(t, ErrEmailTaken, err)
		assert.Nil(t, user)
		users.AssertNotCalled(t, "Update")
	})

	t.Run("unknown user", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		service := NewUserService(users, new(MockRoleRepository), nil)
		_, err := service.Update(context.Background(), userID, ProfileUpdate{})
		assert.Equal(t, ErrUserNotFound, err)
	})
}

func TestUserService_UpdateRole(t *testing.T) {
	userID := uuid.New()
	roleID := uuid.New()

	t.Run("reassigns to an existing role", func(t *testing.T) {
		users := new(MockUserRepository)
		roles := new(MockRoleRepository)
		users.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
		roles.On("FindByID", mock.Anything, roleID).Return(&model.Role{ID: roleID, Name: "editor"}, nil)
		users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.RoleID == roleID
		})).Return(nil)

		service := NewUserService(users, roles, nil)
		user, err := service.UpdateRole(context.Background(), userID, roleID)

		assert.NoError(t, err)
		assert.Equal(t, "editor", user.Role.Name)
		users.AssertExpectations(t)
	})

	t.Run("target role missing", func(t *testing.T) {
		users := new(MockUserRepository)
		roles := new(MockRoleRepository)
		users.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
		roles.On("FindByID", mock.Anything, roleID).Return(nil, gorm.ErrRecordNotFound)

		service := NewUserService(users, roles, nil)
		_, err := service.UpdateRole(context.Background(), userID, roleID)
		assert.Equal(t, ErrTargetRoleNotFound, err)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	userID := uuid.New()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("current-password"), 10)

	t.Run("accepts the correct current password", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, Password: string(hashed)}, nil)
		users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("new-password")) == nil
		})).Return(nil)

		service := NewUserService(users, new(MockRoleRepository), nil)
		err := service.ChangePassword(context.Background(), userID, "current-password", "new-password")

		assert.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("rejects a wrong current password", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, Password: string(hashed)}, nil)

		service := NewUserService(users, new(MockRoleRepository), nil)
		err := service.ChangePassword(context.Background(), userID, "wrong-password", "new-password")

		assert.Equal(t, ErrWrongCurrentPass, err)
		users.AssertNotCalled(t, "Update")
	})
}

func TestUserService_Delete(t *testing.T) {
	userID := uuid.New()

	users := new(MockUserRepository)
	users.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
	users.On("Delete", mock.Anything, userID).Return(nil)

	service := NewUserService(users, new(MockRoleRepository), nil)
	assert.NoError(t, service.Delete(context.Background(), userID))
	users.AssertExpectations(t)
}
