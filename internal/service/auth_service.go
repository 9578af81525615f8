package service

import (
	"context"
	stderrors "errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"authcore/internal/auth"
	"authcore/internal/errors"
	"authcore/internal/mailer"
	"authcore/internal/model"
	"authcore/internal/repository"
)

// Typed errors surfaced by the session flows. Email lookup failures and
// password mismatches collapse into the same value so responses cannot be
// used for account enumeration.
var (
	ErrUserAlreadyExists    = errors.BadRequest("User already exists")
	ErrInvalidCredentials   = errors.Unauthorized("Invalid credentials")
	ErrRefreshTokenRequired = errors.Unauthorized("Refresh token is required")
	ErrInvalidRefreshToken  = errors.Unauthorized("Invalid refresh token")
	ErrRefreshTokenExpired  = errors.Unauthorized("Refresh token expired")
	ErrInvalidVerifyToken   = errors.BadRequest("Invalid verification token")
	ErrInvalidResetToken    = errors.BadRequest("Invalid or expired reset token")
	ErrDefaultRoleMissing   = errors.Internal("Default role not found")
)

// resetTokenTTL bounds how long a password reset link stays valid.
const resetTokenTTL = time.Hour

// tokenInsertRetries bounds duplicate-key retries when persisting a fresh
// opaque token. Collisions on 256-bit random strings are essentially
// theoretical; the retry exists so the uniqueness constraint is the only
// synchronization needed.
const tokenInsertRetries = 3

// TokenPair is an access token plus the server-persisted refresh token that
// travels back to the client in an HTTP-only cookie.
type TokenPair struct {
	AccessToken   string
	RefreshToken  string
	RefreshExpiry time.Time
}

// AuthResult is a successful register or login: the authenticated user and a
// fresh token pair.
type AuthResult struct {
	User *model.User
	Pair TokenPair
}

// AuthService coordinates credential checks, token issuance, and the refresh
// token ledger for the session flows.
type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	VerifyEmail(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Me(ctx context.Context, userID uuid.UUID) (*model.User, []string, error)
}

type authService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	refreshTok repository.RefreshTokenRepository
	jwt        *auth.JWTService
	mail       mailer.Mailer
}

// NewAuthService creates the session orchestrator.
func NewAuthService(
	users repository.UserRepository,
	roles repository.RoleRepository,
	refreshTok repository.RefreshTokenRepository,
	jwt *auth.JWTService,
	mail mailer.Mailer,
) AuthService {
	return &authService{
		users:      users,
		roles:      roles,
		refreshTok: refreshTok,
		jwt:        jwt,
		mail:       mail,
	}
}

// Register creates a user on the default role, fires the verification email,
// and issues a token pair. Email delivery is best effort: a failure there must
// not roll back the created user.
func (s *authService) Register(ctx context.Context, email, password, firstName, lastName string) (*AuthResult, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrUserAlreadyExists
	}
	if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	defaultRole, err := s.roles.FindByName(ctx, model.RoleUser)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDefaultRoleMissing
		}
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	verificationToken, err := s.jwt.NewOpaqueToken()
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:             email,
		Password:          hash,
		FirstName:         firstName,
		LastName:          lastName,
		RoleID:            defaultRole.ID,
		VerificationToken: &verificationToken,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.Role = *defaultRole

	go func() {
		if err := s.mail.SendVerificationEmail(email, verificationToken); err != nil {
			log.Printf("send verification email to %s: %v", email, err)
		}
	}()

	pair, err := s.issueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Pair: *pair}, nil
}

// Login authenticates by email and password. A missing user and a wrong
// password return the identical error.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Pair: *pair}, nil
}

// Logout revokes the given refresh token. Revoking an absent or empty token
// is a no-op; logout is idempotent.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.refreshTok.DeleteByToken(ctx, refreshToken)
}

// Refresh rotates the refresh token and mints a new access token. An unknown
// token is Unauthorized; an expired token is deleted from the ledger and also
// Unauthorized — the caller must fully re-authenticate, not retry. Two
// concurrent rotations of the same token cannot both succeed: the guarded
// update is keyed on the old token value, so the loser sees zero rows.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	record, err := s.refreshTok.FindByToken(ctx, refreshToken)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if record.Expired(time.Now()) {
		if err := s.refreshTok.DeleteByID(ctx, record.ID); err != nil {
			return nil, err
		}
		return nil, ErrRefreshTokenExpired
	}

	newToken, err := s.jwt.NewOpaqueToken()
	if err != nil {
		return nil, err
	}
	newExpiry := s.jwt.RefreshExpiryDate()

	rotated, err := s.refreshTok.Rotate(ctx, refreshToken, newToken, newExpiry)
	if err != nil {
		return nil, err
	}
	if !rotated {
		// lost the race: the old value no longer resolves
		return nil, ErrInvalidRefreshToken
	}

	accessToken, err := s.jwt.GenerateAccessToken(record.UserID.String())
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:   accessToken,
		RefreshToken:  newToken,
		RefreshExpiry: newExpiry,
	}, nil
}

// VerifyEmail consumes a verification token: sets the verified flag and
// clears the token so it is single use.
func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.users.FindByVerificationToken(ctx, token)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidVerifyToken
		}
		return err
	}

	user.IsEmailVerified = true
	user.VerificationToken = nil
	return s.users.Update(ctx, user)
}

// ForgotPassword issues a reset token valid for one hour and mails it. An
// unknown email returns success without side effects so the response shape
// never reveals whether the address is registered.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	resetToken, err := s.jwt.NewOpaqueToken()
	if err != nil {
		return err
	}
	expiry := time.Now().Add(resetTokenTTL)

	user.ResetToken = &resetToken
	user.ResetTokenExpiry = &expiry
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	go func() {
		if err := s.mail.SendPasswordResetEmail(email, resetToken); err != nil {
			log.Printf("send password reset email to %s: %v", email, err)
		}
	}()

	return nil
}

// ResetPassword matches the token and its freshness in a single query, so an
// expired token and a wrong token produce the same error. On success the new
// password is hashed and the token cleared.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.users.FindByValidResetToken(ctx, token, time.Now())
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.Password = hash
	user.ResetToken = nil
	user.ResetTokenExpiry = nil
	return s.users.Update(ctx, user)
}

// Me loads the current user with their role and flattened permission names.
func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*model.User, []string, error) {
	user, err := s.users.FindByIDWithPermissions(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.NotFound("User not found")
		}
		return nil, nil, err
	}

	permissions := make([]string, 0, len(user.Role.Permissions))
	for _, p := range user.Role.Permissions {
		permissions = append(permissions, p.Name)
	}
	return user, permissions, nil
}

// issueTokenPair mints an access token and persists a fresh refresh token.
// The insert retries with a new opaque string if the uniqueness constraint
// trips.
func (s *authService) issueTokenPair(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	accessToken, err := s.jwt.GenerateAccessToken(userID.String())
	if err != nil {
		return nil, err
	}

	var refreshToken string
	expiry := s.jwt.RefreshExpiryDate()
	for attempt := 0; attempt < tokenInsertRetries; attempt++ {
		refreshToken, err = s.jwt.NewOpaqueToken()
		if err != nil {
			return nil, err
		}
		err = s.refreshTok.Create(ctx, &model.RefreshToken{
			Token:     refreshToken,
			UserID:    userID,
			ExpiresAt: expiry,
		})
		if err == nil {
			break
		}
		if !stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		RefreshExpiry: expiry,
	}, nil
}
