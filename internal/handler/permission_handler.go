package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"authcore/internal/errors"
	"authcore/internal/service"
)

// PermissionHandler handles permission administration endpoints.
type PermissionHandler struct {
	permissionService service.PermissionService
}

// NewPermissionHandler creates a new permission handler.
func NewPermissionHandler(permissionService service.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService}
}

// CreatePermissionRequest represents a permission creation request.
type CreatePermissionRequest struct {
	Name        string  `json:"name" validate:"required,min=2"`
	Description *string `json:"description"`
}

// UpdatePermissionRequest represents a permission update request.
type UpdatePermissionRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2"`
	Description *string `json:"description"`
}

// List godoc
// @Summary List permissions
// @Tags permissions
// @Produce json
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /permissions [get]
func (h *PermissionHandler) List(c echo.Context) error {
	permissions, err := h.permissionService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", permissions)
}

// Get godoc
// @Summary Get a permission by ID
// @Tags permissions
// @Produce json
// @Param id path string true "Permission ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Security BearerAuth
// @Router /permissions/{id} [get]
func (h *PermissionHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errors.BadRequest("invalid permission id")
	}

	permission, err := h.permissionService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", permission)
}

// Create godoc
// @Summary Create a permission
// @Tags permissions
// @Accept json
// @Produce json
// @Param request body CreatePermissionRequest true "Permission data"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Security BearerAuth
// @Router /permissions [post]
func (h *PermissionHandler) Create(c echo.Context) error {
	var req CreatePermissionRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return errors.BadRequest(err.Error())
	}

	permission, err := h.permissionService.Create(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Permission created successfully", permission)
}

// Update godoc
// @Summary Update a permission
// @Tags permissions
// @Accept json
// @Produce json
// @Param id path string true "Permission ID"
// @Param request body UpdatePermissionRequest true "Fields to update"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Security BearerAuth
// @Router /permissions/{id} [put]
func (h *PermissionHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errors.BadRequest("invalid permission id")
	}

	var req UpdatePermissionRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return errors.BadRequest(err.Error())
	}

	permission, err := h.permissionService.Update(c.Request().Context(), id, req.Name, req.Description)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Permission updated successfully", permission)
}

// Delete godoc
// @Summary Delete a permission
// @Tags permissions
// @Produce json
// @Param id path string true "Permission ID"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Security BearerAuth
// @Router /permissions/{id} [delete]
func (h *PermissionHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errors.BadRequest("invalid permission id")
	}

	if err := h.permissionService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Permission deleted successfully", nil)
}
