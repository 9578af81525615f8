package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"authcore/internal/config"
	"authcore/internal/errors"
	"authcore/internal/middleware"
	"authcore/internal/service"
)

// refreshCookieName is the HTTP-only cookie the refresh token travels in.
// The token is never included in a JSON response body.
const refreshCookieName = "refreshToken"

// AuthHandler handles the session endpoints.
type AuthHandler struct {
	authService service.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required,min=2"`
	LastName  string `json:"lastName" validate:"required,min=2"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a body-supplied refresh token for non-browser
// clients; the cookie takes precedence when both are present.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// VerifyEmailRequest represents an email verification request.
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// ForgotPasswordRequest represents a password reset initiation request.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents a password reset completion request.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// authUserData is the register/login response payload.
type authUserData struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	IsEmailVerified bool       `json:"isEmailVerified"`
	Role            *roleBrief `json:"role,omitempty"`
	AccessToken     string     `json:"accessToken"`
}

type roleBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return errors.BadRequest(err.Error())
	}

	result, err := h.authService.Register(c.Request().Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, result.Pair.RefreshToken, result.Pair.RefreshExpiry)

	return respond(c, http.StatusCreated, "User registered successfully. Please verify your email.", authUserData{
		ID:              result.User.ID.String(),
		Email:           result.User.Email,
		FirstName:       result.User.FirstName,
		LastName:        result.User.LastName,
		IsEmailVerified: result.User.IsEmailVerified,
		AccessToken:     result.Pair.AccessToken,
	})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return errors.BadRequest(err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, result.Pair.RefreshToken, result.Pair.RefreshExpiry)

	return respond(c, http.StatusOK, "Login successful", authUserData{
		ID:              result.User.ID.String(),
		Email:           result.User.Email,
		FirstName:       result.User.FirstName,
		LastName:        result.User.LastName,
		IsEmailVerified: result.User.IsEmailVerified,
		Role: &roleBrief{
			ID:   result.User.Role.ID.String(),
			Name: result.User.Role.Name,
		},
		AccessToken: result.Pair.AccessToken,
	})
}

// Logout godoc
// @Summary Logout user
// @Tags auth
// @Produce json
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var token string
	if cookie, err := c.Cookie(refreshCookieName); err == nil {
		token = cookie.Value
	}

	if err := h.authService.Logout(c.Request().Context(), token); err != nil {
		return err
	}

	h.clearRefreshCookie(c)
	return respond(c, http.StatusOK, "Logged out successfully", nil)
}

// Refresh godoc
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest false "Refresh token (fallback when the cookie is absent)"
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /auth/refresh-token [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	_ = c.Bind(&req)

	token := req.RefreshToken
	if cookie, err := c.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		token = cookie.Value
	}

	pair, err := h.authService.Refresh(c.Request().Context(), token)
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, pair.RefreshToken, pair.RefreshExpiry)

	return respond(c, http.StatusOK, "Token refreshed successfully", echo.Map{
		"accessToken": pair.AccessToken,
	})
}

// VerifyEmail godoc
// @Summary Verify email address
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyEmailRequest true "Verification token"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req VerifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return errors.BadRequest(err.Error())
	}

	if err := h.authService.VerifyEmail(c.Request().Context(), req.Token); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Email verified successfully", nil)
}

// ForgotPassword godoc
// @Summary Initiate password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} Response
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return errors.BadRequest(err.Error())
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}

	// identical response whether or not the email is registered
	return respond(c, http.StatusOK, "If your email is registered, you will receive a password reset link", nil)
}

// ResetPassword godoc
// @Summary Complete password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return errors.BadRequest(err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Password reset successfully", nil)
}

// Me godoc
// @Summary Get current user
// @Tags auth
// @Produce json
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		return errors.Unauthorized("Not authorized")
	}

	user, permissions, err := h.authService.Me(c.Request().Context(), current.ID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "", echo.Map{
		"id":              user.ID,
		"email":           user.Email,
		"firstName":       user.FirstName,
		"lastName":        user.LastName,
		"isEmailVerified": user.IsEmailVerified,
		"profilePicture":  user.ProfilePicture,
		"role": roleBrief{
			ID:   user.Role.ID.String(),
			Name: user.Role.Name,
		},
		"permissions": permissions,
	})
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, token string, expiry time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
