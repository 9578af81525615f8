package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"authcore/internal/errors"
	"authcore/internal/service"
)

// RoleHandler handles role administration endpoints.
type RoleHandler struct {
	roleService service.RoleService
}

// NewRoleHandler creates a new role handler.
func NewRoleHandler(roleService service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// CreateRoleRequest represents a role creation request.
type CreateRoleRequest struct {
	Name        string  `json:"name" validate:"required,min=2"`
	Description *string `json:"description"`
}

// UpdateRoleRequest represents a role update request.
type UpdateRoleRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2"`
	Description *string `json:"description"`
}

// AssignPermissionRequest represents a permission assignment request.
type AssignPermissionRequest struct {
	PermissionID string `json:"permissionId" validate:"required,uuid"`
}

// List godoc
// @Summary List roles
// @Tags roles
// @Produce json
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.roleService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", roles)
}

// Get godoc
// @Summary Get a role by ID
// @Tags roles
// @Produce json
// @Param id path string true "Role ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Security BearerAuth
// @Router /roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errors.BadRequest("invalid role id")
	}

	role, err := h.roleService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", role)
}

// Create godoc
// @Summary Create a role
// @Tags roles
// @Accept json
// @Produce json
// @Param request body CreateRoleRequest true "Role data"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Security BearerAuth
// @Router /roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req CreateRoleRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return errors.BadRequest(err.Error())
	}

	role, err := h.roleService.Create(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Role created successfully", role)
}

// Update godoc
// @Summary Update a role
// @Tags roles
// @Accept json
// @Produce json
// @Param id path string true "Role ID"
// @Param request body UpdateRoleRequest true "Fields to update"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Security BearerAuth
// @Router /roles/{id} [put]
func (h *RoleHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errors.BadRequest("invalid role id")
	}

	var req UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return errors.BadRequest(err.Error())
	}

	role, err := h.roleService.Update(c.Request().Context(), id, req.Name, req.Description)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Role updated successfully", role)
}

// Delete godoc
// @Summary Delete a role
// @Tags roles
// @Produce json
// @Param id path string true "Role ID"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Security BearerAuth
// @Router /roles/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errors.BadRequest("invalid role id")
	}

	if err := h.roleService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Role deleted successfully", nil)
}

// AssignPermission godoc
// @Summary Assign a permission to a role
// @Tags roles
// @Accept json
// @Produce json
// @Param id path string true "Role ID"
// @Param request body AssignPermissionRequest true "Permission to assign"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Security BearerAuth
// @Router /roles/{id}/permissions [post]
func (h *RoleHandler) AssignPermission(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errors.BadRequest("invalid role id")
	}

	var req AssignPermissionRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return errors.BadRequest(err.Error())
	}

	permissionID, err := uuid.Parse(req.PermissionID)
	if err != nil {
		return errors.BadRequest("invalid permission id")
	}

	if err := h.roleService.AssignPermission(c.Request().Context(), id, permissionID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Permission assigned successfully", nil)
}

// RemovePermission godoc
// @Summary Remove a permission from a role
// @Tags roles
// @Produce json
// @Param id path string true "Role ID"
// @Param permissionId path string true "Permission ID"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Security BearerAuth
// @Router /roles/{id}/permissions/{permissionId} [delete]
func (h *RoleHandler) RemovePermission(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errors.BadRequest("invalid role id")
	}
	permissionID, err := uuid.Parse(c.Param("permissionId"))
	if err != nil {
		return errors.BadRequest("invalid permission id")
	}

	if err := h.roleService.RemovePermission(c.Request().Context(), id, permissionID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Permission removed successfully", nil)
}
