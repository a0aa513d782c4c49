package handlers

import (
	"errors"

	"carelink-backend/internal/core/domain"
	"carelink-backend/internal/core/services"
	"carelink-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// StaffHandler handles staff self-service endpoints
type StaffHandler struct {
	staffService *services.StaffService
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(staffService *services.StaffService) *StaffHandler {
	return &StaffHandler{
		staffService: staffService,
	}
}

// GetProfile returns the authenticated staff member's profile
// @Summary Get staff profile
// @Description Return the profile of the authenticated staff member
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /staff/profile [get]
func (h *StaffHandler) GetProfile(c *fiber.Ctx) error {
	staffID, _ := c.Locals("principalID").(string)

	profile, err := h.staffService.GetProfile(c.Context(), staffID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Staff member not found")
		default:
			return response.InternalServerError(c, "Failed to load profile")
		}
	}

	return response.Success(c, "", fiber.Map{
		"staff": profile,
	})
}

// UpdateProfile updates the authenticated staff member's profile
// @Summary Update staff profile
// @Description Partially update the authenticated staff member's profile
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateStaffProfileInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /staff/profile [put]
func (h *StaffHandler) UpdateProfile(c *fiber.Ctx) error {
	staffID, _ := c.Locals("principalID").(string)

	var req services.UpdateStaffProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	profile, err := h.staffService.UpdateProfile(c.Context(), staffID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, "No valid fields to update")
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Staff member not found")
		default:
			return response.InternalServerError(c, "Error updating profile")
		}
	}

	return response.Success(c, "Profile updated successfully", fiber.Map{
		"staff": profile,
	})
}

// UpdatePassword changes the authenticated staff member's password
// @Summary Update staff password
// @Description Change the authenticated staff member's password
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChangePasswordInput true "Current and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /staff/password [put]
func (h *StaffHandler) UpdatePassword(c *fiber.Ctx) error {
	staffID, _ := c.Locals("principalID").(string)

	var req services.ChangePasswordInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	err := h.staffService.ChangePassword(c.Context(), staffID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Current password is incorrect")
		case errors.Is(err, domain.ErrPasswordNotSet):
			return response.InternalServerError(c, "Account password not set. Contact admin.")
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Staff member not found")
		default:
			return response.InternalServerError(c, "Error updating password")
		}
	}

	return response.Success(c, "Password updated successfully", nil)
}
