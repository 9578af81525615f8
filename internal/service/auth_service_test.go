package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"authcore/internal/auth"
	"authcore/internal/model"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret", time.Hour, 7*24*time.Hour)
}

func newTestAuthService(users *MockUserRepository, roles *MockRoleRepository, tokens *MockRefreshTokenRepository, mail *MockMailer) AuthService {
	return NewAuthService(users, roles, tokens, newTestJWTService(), mail)
}

func TestAuthService_Register(t *testing.T) {
	userRoleID := uuid.New()

	tests := []struct {
		name          string
		email         string
		setupMock     func(*MockUserRepository, *MockRoleRepository, *MockRefreshTokenRepository)
		expectedError error
	}{
		{
			name:  "successful registration",
			email: "test@example.com",
			setupMock: func(users *MockUserRepository, roles *MockRoleRepository, tokens *MockRefreshTokenRepository) {
				users.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
				roles.On("FindByName", mock.Anything, model.RoleUser).Return(&model.Role{ID: userRoleID, Name: model.RoleUser}, nil)
				users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
				tokens.On("Create", mock.Anything, mock.AnythingOfType("*model.RefreshToken")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:  "email already registered",
			email: "existing@example.com",
			setupMock: func(users *MockUserRepository, roles *MockRoleRepository, tokens *MockRefreshTokenRepository) {
				users.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: ErrUserAlreadyExists,
		},
		{
			name:  "duplicate insert race collapses to already exists",
			email: "raced@example.com",
			setupMock: func(users *MockUserRepository, roles *MockRoleRepository, tokens *MockRefreshTokenRepository) {
				users.On("FindByEmail", mock.Anything, "raced@example.com").Return(nil, gorm.ErrRecordNotFound)
				roles.On("FindByName", mock.Anything, model.RoleUser).Return(&model.Role{ID: userRoleID, Name: model.RoleUser}, nil)
				users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: ErrUserAlreadyExists,
		},
		{
			name:  "default role missing",
			email: "norole@example.com",
			setupMock: func(users *MockUserRepository, roles *MockRoleRepository, tokens *MockRefreshTokenRepository) {
				users.On("FindByEmail", mock.Anything, "norole@example.com").Return(nil, gorm.ErrRecordNotFound)
				roles.On("FindByName", mock.Anything, model.RoleUser).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: ErrDefaultRoleMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			roles := new(MockRoleRepository)
			tokens := new(MockRefreshTokenRepository)
			mail := new(MockMailer)
			mail.On("SendVerificationEmail", tt.email, mock.Anything).Return(nil).Maybe()
			tt.setupMock(users, roles, tokens)

			service := newTestAuthService(users, roles, tokens, mail)
			result, err := service.Register(context.Background(), tt.email, "password123", "Test", "User")

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.Equal(t, tt.email, result.User.Email)
				assert.Equal(t, userRoleID, result.User.RoleID)
				assert.NotNil(t, result.User.VerificationToken)
				assert.False(t, result.User.IsEmailVerified)
				assert.NotEmpty(t, result.Pair.AccessToken)
				assert.NotEmpty(t, result.Pair.RefreshToken)
				// the hash, never the plaintext, is what got stored
				assert.NotEqual(t, "password123", result.User.Password)
			}

			users.AssertExpectations(t)
			roles.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository, *MockRefreshTokenRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(users *MockUserRepository, tokens *MockRefreshTokenRepository) {
				users.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:       uuid.New(),
					Email:    "test@example.com",
					Password: string(hashed),
				}, nil)
				tokens.On("Create", mock.Anything, mock.AnythingOfType("*model.RefreshToken")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown email",
			email:    "notfound@example.com",
			password: "password123",
			setupMock: func(users *MockUserRepository, tokens *MockRefreshTokenRepository) {
				users.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrong-password",
			setupMock: func(users *MockUserRepository, tokens *MockRefreshTokenRepository) {
				users.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:       uuid.New(),
					Email:    "test@example.com",
					Password: string(hashed),
				}, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tokens := new(MockRefreshTokenRepository)
			tt.setupMock(users, tokens)

			service := newTestAuthService(users, new(MockRoleRepository), tokens, new(MockMailer))
			result, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.NotEmpty(t, result.Pair.AccessToken)
				assert.NotEmpty(t, result.Pair.RefreshToken)
			}

			users.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}

// An unknown email and a wrong password must yield the exact same error, so
// login responses cannot be used to probe which addresses are registered.
func TestAuthService_Login_ErrorShapeDoesNotLeakAccounts(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("correct"), 10)

	users := new(MockUserRepository)
	users.On("FindByEmail", mock.Anything, "missing@example.com").Return(nil, gorm.ErrRecordNotFound)
	users.On("FindByEmail", mock.Anything, "present@example.com").Return(&model.User{
		ID:       uuid.New(),
		Email:    "present@example.com",
		Password: string(hashed),
	}, nil)

	service := newTestAuthService(users, new(MockRoleRepository), new(MockRefreshTokenRepository), new(MockMailer))

	_, errMissing := service.Login(context.Background(), "missing@example.com", "whatever")
	_, errWrongPass := service.Login(context.Background(), "present@example.com", "wrong")

	assert.Equal(t, errMissing, errWrongPass)
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("deletes the ledger row", func(t *testing.T) {
		tokens := new(MockRefreshTokenRepository)
		tokens.On("DeleteByToken", mock.Anything, "some-token").Return(nil)

		service := newTestAuthService(new(MockUserRepository), new(MockRoleRepository), tokens, new(MockMailer))
		assert.NoError(t, service.Logout(context.Background(), "some-token"))
		tokens.AssertExpectations(t)
	})

	t.Run("empty token is a no-op", func(t *testing.T) {
		tokens := new(MockRefreshTokenRepository)

		service := newTestAuthService(new(MockUserRepository), new(MockRoleRepository), tokens, new(MockMailer))
		assert.NoError(t, service.Logout(context.Background(), ""))
		tokens.AssertNotCalled(t, "DeleteByToken")
	})
}

func TestAuthService_Refresh(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name          string
		token         string
		setupMock     func(*MockRefreshTokenRepository)
		expectedError error
	}{
		{
			name:  "successful rotation",
			token: "valid-token",
			setupMock: func(tokens *MockRefreshTokenRepository) {
				tokens.On("FindByToken", mock.Anything, "valid-token").Return(&model.RefreshToken{
					ID:        uuid.New(),
					Token:     "valid-token",
					UserID:    userID,
					ExpiresAt: time.Now().Add(time.Hour),
				}, nil)
				tokens.On("Rotate", mock.Anything, "valid-token", mock.Anything, mock.Anything).Return(true, nil)
			},
			expectedError: nil,
		},
		{
			name:          "missing token",
			token:         "",
			setupMock:     func(tokens *MockRefreshTokenRepository) {},
			expectedError: ErrRefreshTokenRequired,
		},
		{
			name:  "unknown token",
			token: "unknown-token",
			setupMock: func(tokens *MockRefreshTokenRepository) {
				tokens.On("FindByToken", mock.Anything, "unknown-token").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: ErrInvalidRefreshToken,
		},
		{
			name:  "lost rotation race",
			token: "raced-token",
			setupMock: func(tokens *MockRefreshTokenRepository) {
				tokens.On("FindByToken", mock.Anything, "raced-token").Return(&model.RefreshToken{
					ID:        uuid.New(),
					Token:     "raced-token",
					UserID:    userID,
					ExpiresAt: time.Now().Add(time.Hour),
				}, nil)
				tokens.On("Rotate", mock.Anything, "raced-token", mock.Anything, mock.Anything).Return(false, nil)
			},
			expectedError: ErrInvalidRefreshToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := new(MockRefreshTokenRepository)
			tt.setupMock(tokens)

			service := newTestAuthService(new(MockUserRepository), new(MockRoleRepository), tokens, new(MockMailer))
			pair, err := service.Refresh(context.Background(), tt.token)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, pair)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, pair)
				assert.NotEmpty(t, pair.AccessToken)
				assert.NotEmpty(t, pair.RefreshToken)
				assert.NotEqual(t, tt.token, pair.RefreshToken)
			}

			tokens.AssertExpectations(t)
		})
	}
}

func TestAuthService_Refresh_ExpiredTokenIsDeleted(t *testing.T) {
	recordID := uuid.New()

	tokens := new(MockRefreshTokenRepository)
	tokens.On("FindByToken", mock.Anything, "stale-token").Return(&model.RefreshToken{
		ID:        recordID,
		Token:     "stale-token",
		UserID:    uuid.New(),
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)
	tokens.On("DeleteByID", mock.Anything, recordID).Return(nil)

	service := newTestAuthService(new(MockUserRepository), new(MockRoleRepository), tokens, new(MockMailer))
	pair, err := service.Refresh(context.Background(), "stale-token")

	assert.Equal(t, ErrRefreshTokenExpired, err)
	assert.Nil(t, pair)
	tokens.AssertExpectations(t)
}

func TestAuthService_VerifyEmail(t *testing.T) {
	t.Run("marks verified and clears the token", func(t *testing.T) {
		token := "verify-token"
		user := &model.User{ID: uuid.New(), VerificationToken: &token}

		users := new(MockUserRepository)
		users.On("FindByVerificationToken", mock.Anything, token).Return(user, nil)
		users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.IsEmailVerified && u.VerificationToken == nil
		})).Return(nil)

		service := newTestAuthService(users, new(MockRoleRepository), new(MockRefreshTokenRepository), new(MockMailer))
		assert.NoError(t, service.VerifyEmail(context.Background(), token))
		users.AssertExpectations(t)
	})

	t.Run("unknown token", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByVerificationToken", mock.Anything, "bad-token").Return(nil, gorm.ErrRecordNotFound)

		service := newTestAuthService(users, new(MockRoleRepository), new(MockRefreshTokenRepository), new(MockMailer))
		err := service.VerifyEmail(context.Background(), "bad-token")
		assert.Equal(t, ErrInvalidVerifyToken, err)
	})
}

func TestAuthService_ForgotPassword(t *testing.T) {
	t.Run("sets a reset token with expiry", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
			ID:    uuid.New(),
			Email: "test@example.com",
		}, nil)
		users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.ResetToken != nil && u.ResetTokenExpiry != nil && u.ResetTokenExpiry.After(time.Now())
		})).Return(nil)

		mail := new(MockMailer)
		mail.On("SendPasswordResetEmail", "test@example.com", mock.Anything).Return(nil).Maybe()

		service := newTestAuthService(users, new(MockRoleRepository), new(MockRefreshTokenRepository), mail)
		assert.NoError(t, service.ForgotPassword(context.Background(), "test@example.com"))
		users.AssertExpectations(t)
	})

	t.Run("unknown email still succeeds", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		service := newTestAuthService(users, new(MockRoleRepository), new(MockRefreshTokenRepository), new(MockMailer))
		assert.NoError(t, service.ForgotPassword(context.Background(), "ghost@example.com"))
		users.AssertNotCalled(t, "Update")
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	t.Run("rehashes and clears the token", func(t *testing.T) {
		token := "reset-token"
		expiry := time.Now().Add(30 * time.Minute)
		oldHash, _ := bcrypt.GenerateFromPassword([]byte("old-password"), 10)
		user := &model.User{
			ID:               uuid.New(),
			Password:         string(oldHash),
			ResetToken:       &token,
			ResetTokenExpiry: &expiry,
		}

		users := new(MockUserRepository)
		users.On("FindByValidResetToken", mock.Anything, token, mock.Anything).Return(user, nil)
		users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.ResetToken == nil && u.ResetTokenExpiry == nil &&
				bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("new-password")) == nil
		})).Return(nil)

		service := newTestAuthService(users, new(MockRoleRepository), new(MockRefreshTokenRepository), new(MockMailer))
		assert.NoError(t, service.ResetPassword(context.Background(), token, "new-password"))
		users.AssertExpectations(t)
	})

	t.Run("wrong or expired token", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindByValidResetToken", mock.Anything, "stale", mock.Anything).Return(nil, gorm.ErrRecordNotFound)

		service := newTestAuthService(users, new(MockRoleRepository), new(MockRefreshTokenRepository), new(MockMailer))
		err := service.ResetPassword(context.Background(), "stale", "new-password")
		assert.Equal(t, ErrInvalidResetToken, err)
	})
}

func TestAuthService_Me(t *testing.T) {
	userID := uuid.New()

	users := new(MockUserRepository)
	users.On("FindByIDWithPermissions", mock.Anything, userID).Return(&model.User{
		ID:    userID,
		Email: "test@example.com",
		Role: model.Role{
			Name: model.RoleUser,
			Permissions: []model.Permission{
				{Name: "user:read"},
			},
		},
	}, nil)

	service := newTestAuthService(users, new(MockRoleRepository), new(MockRefreshTokenRepository), new(MockMailer))
	user, permissions, err := service.Me(context.Background(), userID)

	assert.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, []string{"user:read"}, permissions)
}
