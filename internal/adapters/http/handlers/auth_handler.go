package handlers

import (
	"errors"
	"strings"

	"carelink-backend/internal/core/domain"
	"carelink-backend/internal/core/services"
	"carelink-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// StaffLoginRequest represents staff login request body
type StaffLoginRequest struct {
	StaffID    string `json:"staff_id"`
	Password   string `json:"password"`
	HospitalID string `json:"hospital_id"`
}

// PatientLoginRequest represents patient login request body
type PatientLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OTPRequest represents an OTP issuance request body
type OTPRequest struct {
	Email string `json:"email"`
}

// OTPVerifyRequest represents an OTP verification request body
type OTPVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// StaffLogin handles staff login
// @Summary Staff login
// @Description Authenticate a staff member and return a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body StaffLoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) StaffLogin(c *fiber.Ctx) error {
	var req StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.StaffID == "" || req.Password == "" || req.HospitalID == "" {
		return response.BadRequest(c, "staff_id, password and hospital_id are required")
	}

	input := &services.StaffLoginInput{
		StaffID:    strings.TrimSpace(req.StaffID),
		Password:   req.Password,
		HospitalID: strings.TrimSpace(req.HospitalID),
	}

	result, err := h.authService.StaffLogin(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid credentials")
		case errors.Is(err, domain.ErrPasswordNotSet):
			return response.InternalServerError(c, "Account password not set. Contact admin.")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	return response.Success(c, "Login successful", fiber.Map{
		"token": result.Token,
		"staff": result.Staff,
	})
}

// PatientRegister handles patient registration
// @Summary Register patient
// @Description Register a new patient account and return a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterPatientInput true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/patient-register [post]
func (h *AuthHandler) PatientRegister(c *fiber.Ctx) error {
	var req services.RegisterPatientInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.authService.RegisterPatient(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, domain.ErrEmailTaken):
			return response.Conflict(c, "Email already registered. Please use a different email or try signing in.")
		default:
			return response.InternalServerError(c, "Server error during registration")
		}
	}

	return response.Created(c, "Patient account created successfully", fiber.Map{
		"token":   result.Token,
		"patient": result.Patient,
	})
}

// PatientLogin handles patient login
// @Summary Patient login
// @Description Authenticate a patient and return a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body PatientLoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/patient-login [post]
func (h *AuthHandler) PatientLogin(c *fiber.Ctx) error {
	var req PatientLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	input := &services.PatientLoginInput{
		Email:    req.Email,
		Password: req.Password,
	}

	result, err := h.authService.PatientLogin(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid email or password")
		default:
			return response.InternalServerError(c, "Server error during login")
		}
	}

	return response.Success(c, "Login successful", fiber.Map{
		"token":   result.Token,
		"patient": result.Patient,
	})
}

// Verify returns the claims of a verified token
// @Summary Verify token
// @Description Verify the bearer token and return its claims
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/verify [post]
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	return response.Success(c, "Token is valid", fiber.Map{
		"principal_id": c.Locals("principalID"),
		"kind":         c.Locals("kind"),
		"name":         c.Locals("name"),
		"email":        c.Locals("email"),
		"role":         c.Locals("role"),
		"mrn":          c.Locals("mrn"),
	})
}

// RequestOTP issues a verification code for an email
// @Summary Request OTP
// @Description Issue a one-time passcode and send it by email
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body OTPRequest true "Destination email"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/otp/request [post]
func (h *AuthHandler) RequestOTP(c *fiber.Ctx) error {
	var req OTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.authService.RequestOTP(c.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to issue verification code")
		}
	}

	return response.Success(c, "Verification code sent if the address is reachable", nil)
}

// VerifyOTP verifies a one-time passcode
// @Summary Verify OTP
// @Description Verify a one-time passcode for an email
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body OTPVerifyRequest true "Email and code"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /auth/otp/verify [post]
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req OTPVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	err := h.authService.VerifyOTP(c.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, domain.ErrTooManyAttempts):
			return response.TooManyRequests(c, "Too many incorrect attempts, request a new code")
		case errors.Is(err, domain.ErrOTPExpired):
			return response.Unauthorized(c, "Code expired, request a new one")
		case errors.Is(err, domain.ErrOTPInvalid):
			return response.Unauthorized(c, "Incorrect code")
		case errors.Is(err, domain.ErrOTPNotFound):
			return response.Unauthorized(c, "No active code, request a new one")
		default:
			return response.InternalServerError(c, "Failed to verify code")
		}
	}

	return response.Success(c, "Code verified", nil)
}
