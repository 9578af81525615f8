package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"authcore/internal/errors"
	"authcore/internal/middleware"
	"authcore/internal/service"
)

// UserHandler handles profile and user administration endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateProfileRequest represents a profile update request. All fields are
// optional; absent fields are left unchanged.
type UpdateProfileRequest struct {
	FirstName         *string `json:"firstName" validate:"omitempty,min=2"`
	LastName          *string `json:"lastName" validate:"omitempty,min=2"`
	Email             *string `json:"email" validate:"omitempty,email"`
	ProfilePicture    *string `json:"profilePicture" validate:"omitempty,url"`
	ProfilePictureKey *string `json:"profilePictureKey"`
}

// ChangePasswordRequest represents a password change request.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// UpdateUserRoleRequest represents a role assignment request.
type UpdateUserRoleRequest struct {
	RoleID string `json:"roleId" validate:"required,uuid"`
}

// List godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.userService.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	return respondPage(c, http.StatusOK, result.Users, &Pagination{
		Page:  result.Page,
		Limit: result.Limit,
		Total: result.Total,
		Pages: pages(result.Total, result.Limit),
	})
}

// Get godoc
// @Summary Get a user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errors.BadRequest("invalid user id")
	}

	user, err := h.userService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", user)
}

// Update godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errors.BadRequest("invalid user id")
	}
	return h.update(c, id)
}

// Delete godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errors.BadRequest("invalid user id")
	}

	if err := h.userService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User deleted successfully", nil)
}

// UpdateRole godoc
// @Summary Assign a role to a user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body UpdateUserRoleRequest true "Role to assign"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Security BearerAuth
// @Router /users/{id}/role [put]
func (h *UserHandler) UpdateRole(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errors.BadRequest("invalid user id")
	}

	var req UpdateUserRoleRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return errors.BadRequest(err.Error())
	}

	roleID, err := uuid.Parse(req.RoleID)
	if err != nil {
		return errors.BadRequest("invalid role id")
	}

	user, err := h.userService.UpdateRole(c.Request().Context(), id, roleID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User role updated successfully", user)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		return errors.Unauthorized("Not authorized")
	}
	return h.update(c, current.ID)
}

// ChangePassword godoc
// @Summary Change own password
// @Tags users
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Current and new password"
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Security BearerAuth
// @Router /users/change-password [put]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		return errors.Unauthorized("Not authorized")
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return errors.BadRequest(err.Error())
	}

	if err := h.userService.ChangePassword(c.Request().Context(), current.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Password changed successfully", nil)
}

func (h *UserHandler) update(c echo.Context, id uuid.UUID) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return errors.BadRequest(err.Error())
	}

	user, err := h.userService.Update(c.Request().Context(), id, service.ProfileUpdate{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		ProfilePicture:    req.ProfilePicture,
		ProfilePictureKey: req.ProfilePictureKey,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User updated successfully", user)
}
