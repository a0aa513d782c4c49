package handlers

import (
	"errors"

	"carelink-backend/internal/core/domain"
	"carelink-backend/internal/core/services"
	"carelink-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PatientHandler handles patient self-service endpoints
type PatientHandler struct {
	patientService *services.PatientService
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(patientService *services.PatientService) *PatientHandler {
	return &PatientHandler{
		patientService: patientService,
	}
}

// GetProfile returns the authenticated patient's profile
// @Summary Get patient profile
// @Description Return the profile of the authenticated patient
// @Tags Patient
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patient/profile [get]
func (h *PatientHandler) GetProfile(c *fiber.Ctx) error {
	patientID, _ := c.Locals("principalID").(string)

	profile, err := h.patientService.GetProfile(c.Context(), patientID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Patient not found")
		default:
			return response.InternalServerError(c, "Failed to load profile")
		}
	}

	return response.Success(c, "", fiber.Map{
		"patient": profile,
	})
}

// UpdateProfile updates the authenticated patient's profile
// @Summary Update patient profile
// @Description Partially update the authenticated patient's profile
// @Tags Patient
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patient/profile [put]
func (h *PatientHandler) UpdateProfile(c *fiber.Ctx) error {
	patientID, _ := c.Locals("principalID").(string)

	var req services.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	profile, err := h.patientService.UpdateProfile(c.Context(), patientID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, "No valid fields to update")
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Patient not found")
		default:
			return response.InternalServerError(c, "Error updating profile")
		}
	}

	return response.Success(c, "Profile updated successfully", fiber.Map{
		"patient": profile,
	})
}

// UpdatePassword changes the authenticated patient's password
// @Summary Update patient password
// @Description Change the authenticated patient's password
// @Tags Patient
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChangePasswordInput true "Current and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /patient/password [put]
func (h *PatientHandler) UpdatePassword(c *fiber.Ctx) error {
	patientID, _ := c.Locals("principalID").(string)

	var req services.ChangePasswordInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	err := h.patientService.ChangePassword(c.Context(), patientID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Current password is incorrect")
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Patient not found")
		default:
			return response.InternalServerError(c, "Error updating password")
		}
	}

	return response.Success(c, "Password updated successfully", nil)
}
