package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"carelink-backend/internal/adapters/persistence/models"
	"carelink-backend/internal/adapters/persistence/repositories"
	"carelink-backend/internal/config"
	"carelink-backend/internal/core/domain"
	"carelink-backend/internal/pkg/jwt"
	"carelink-backend/internal/pkg/password"

	"gorm.io/gorm"
)

// AuthService composes hashing, challenges and session tokens into the
// user-visible authentication flows
type AuthService struct {
	staffRepo   repositories.StaffRepository
	patientRepo repositories.PatientRepository
	otpService  *OTPService
	notifier    Notifier
	cfg         *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	staffRepo repositories.StaffRepository,
	patientRepo repositories.PatientRepository,
	otpService *OTPService,
	notifier Notifier,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		staffRepo:   staffRepo,
		patientRepo: patientRepo,
		otpService:  otpService,
		notifier:    notifier,
		cfg:         cfg,
	}
}

// StaffLoginInput represents staff login input
type StaffLoginInput struct {
	StaffID    string `json:"staff_id"`
	Password   string `json:"password"`
	HospitalID string `json:"hospital_id"`
}

// RegisterPatientInput represents patient registration input
type RegisterPatientInput struct {
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	Email           string  `json:"email"`
	Phone           *string `json:"phone"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirmPassword"`
	DateOfBirth     string  `json:"dateOfBirth"`
	Gender          string  `json:"gender"`
	BloodType       *string `json:"bloodType"`
	AddressLine1    *string `json:"address_line1"`
	City            *string `json:"city"`
	State           *string `json:"state"`
	ZipCode         *string `json:"zip_code"`
}

// PatientLoginInput represents patient login input
type PatientLoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StaffAuthResponse represents a staff authentication result
type StaffAuthResponse struct {
	Staff *models.StaffResponse `json:"staff"`
	Token string                `json:"token"`
}

// PatientAuthResponse represents a patient authentication result
type PatientAuthResponse struct {
	Patient *models.PatientResponse `json:"patient"`
	Token   string                  `json:"token"`
}

// StaffLogin authenticates a staff member. Unknown identifier, inactive
// account, wrong password and wrong hospital all yield the same
// ErrInvalidCredentials so nothing leaks about which check failed.
func (s *AuthService) StaffLogin(ctx context.Context, input *StaffLoginInput) (*StaffAuthResponse, error) {
	// 1. Find active staff by id or email
	staff, err := s.staffRepo.GetActiveByIdentifier(ctx, strings.TrimSpace(input.StaffID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: staff lookup: %v", domain.ErrUpstream, err)
	}

	// 2. Require a stored credential
	if staff.PasswordHash == nil || *staff.PasswordHash == "" {
		return nil, domain.ErrPasswordNotSet
	}

	// 3. Verify password
	ok, err := password.Verify(input.Password, *staff.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	// 4. Hospital affiliation must match
	if staff.HospitalID != input.HospitalID {
		return nil, domain.ErrInvalidCredentials
	}

	// 5. Issue session token
	token, err := jwt.GenerateStaffToken(
		staff.ID,
		staff.FullName(),
		staff.Email,
		staff.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.StaffTokenHours,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	log.Printf("✅ Staff logged in: %s", staff.EmployeeID)

	return &StaffAuthResponse{
		Staff: staff.ToResponse(),
		Token: token,
	}, nil
}

// RegisterPatient registers a new patient account
func (s *AuthService) RegisterPatient(ctx context.Context, input *RegisterPatientInput) (*PatientAuthResponse, error) {
	// 1. Validate
	if input.FirstName == "" || input.LastName == "" || input.Email == "" ||
		input.Password == "" || input.DateOfBirth == "" {
		return nil, fmt.Errorf("%w: first name, last name, email, password and date of birth are required", domain.ErrValidation)
	}
	if len(input.Password) < domain.MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, domain.MinPasswordLength)
	}
	if input.Password != input.ConfirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", domain.ErrValidation)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	// 2. Existence check. The store still enforces uniqueness; this only
	// gives the common case a clean conflict answer.
	exists, err := s.patientRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: email check: %v", domain.ErrUpstream, err)
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	// 3. Hash password
	hash, err := password.Hash(input.Password)
	if err != nil {
		if errors.Is(err, password.ErrEmptyPassword) {
			return nil, fmt.Errorf("%w: password must not be empty", domain.ErrValidation)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	gender := input.Gender
	if gender == "" {
		gender = "Unknown"
	}

	patient := &models.Patient{
		FirstName:     strings.TrimSpace(input.FirstName),
		LastName:      strings.TrimSpace(input.LastName),
		Email:         email,
		Phone:         input.Phone,
		PasswordHash:  hash,
		DateOfBirth:   input.DateOfBirth,
		Gender:        gender,
		BloodType:     input.BloodType,
		AddressLine1:  input.AddressLine1,
		City:          input.City,
		State:         input.State,
		ZipCode:       input.ZipCode,
		PatientStatus: domain.StatusActive,
	}

	// 4. Record which admin account registered the patient, best effort
	if admin, err := s.staffRepo.FirstByRole(ctx, string(domain.RoleAdmin)); err == nil {
		patient.CreatedBy = &admin.ID
	}

	// 5. Allocate MRN and insert. The count-then-insert pair is not
	// atomic, so a concurrent registration in the same year can collide;
	// the unique constraint rejects it and we re-derive once.
	if err := s.createWithMRN(ctx, patient); err != nil {
		return nil, err
	}

	// 6. Issue session token
	token, err := jwt.GeneratePatientToken(
		patient.ID,
		patient.MRN,
		patient.FullName(),
		patient.Email,
		s.cfg.JWT.Secret,
		s.cfg.JWT.PatientTokenHours,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	log.Printf("✅ Patient registered: %s (%s)", patient.MRN, patient.Email)

	return &PatientAuthResponse{
		Patient: patient.ToResponse(),
		Token:   token,
	}, nil
}

// createWithMRN derives the year-prefixed MRN sequence and inserts,
// retrying once with a fresh sequence on a duplicate-key rejection.
func (s *AuthService) createWithMRN(ctx context.Context, patient *models.Patient) error {
	for attempt := 0; attempt < 2; attempt++ {
		mrn, err := s.nextMRN(ctx)
		if err != nil {
			return err
		}
		patient.MRN = mrn

		err = s.patientRepo.Create(ctx, patient)
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: patient insert: %v", domain.ErrUpstream, err)
		}

		// Duplicate key: either the email raced in, or the MRN sequence
		// collided. Check which before retrying with a new sequence.
		exists, checkErr := s.patientRepo.ExistsByEmail(ctx, patient.Email)
		if checkErr == nil && exists {
			return domain.ErrEmailTaken
		}
		patient.ID = ""
	}
	return fmt.Errorf("%w: mrn allocation collided twice", domain.ErrUpstream)
}

func (s *AuthService) nextMRN(ctx context.Context) (string, error) {
	year := time.Now().Year()
	count, err := s.patientRepo.CountRegisteredInYear(ctx, year)
	if err != nil {
		return "", fmt.Errorf("%w: mrn sequence: %v", domain.ErrUpstream, err)
	}
	return fmt.Sprintf("MRN-%02d%04d", year%100, count+1), nil
}

// PatientLogin authenticates a patient by email
func (s *AuthService) PatientLogin(ctx context.Context, input *PatientLoginInput) (*PatientAuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// 1. Find patient, require Active status. Unknown and inactive both
	// collapse into the generic credentials error.
	patient, err := s.patientRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: patient lookup: %v", domain.ErrUpstream, err)
	}
	if patient.PatientStatus != domain.StatusActive {
		return nil, domain.ErrInvalidCredentials
	}

	// 2. Verify password
	ok, err := password.Verify(input.Password, patient.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	// 3. Issue session token
	token, err := jwt.GeneratePatientToken(
		patient.ID,
		patient.MRN,
		patient.FullName(),
		patient.Email,
		s.cfg.JWT.Secret,
		s.cfg.JWT.PatientTokenHours,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	log.Printf("✅ Patient logged in: %s", patient.MRN)

	return &PatientAuthResponse{
		Patient: patient.ToResponse(),
		Token:   token,
	}, nil
}

// ValidateAccessToken validates a session token
func (s *AuthService) ValidateAccessToken(token string) (*jwt.Claims, error) {
	return jwt.ValidateToken(token, s.cfg.JWT.Secret)
}

// RequestOTP issues a challenge for the email and hands the code to the
// notifier. The challenge is valid as soon as Issue returns; delivery
// failure is logged, never surfaced to the flow. The response never
// reveals whether the email maps to an account.
func (s *AuthService) RequestOTP(ctx context.Context, email string) error {
	key := strings.ToLower(strings.TrimSpace(email))
	if key == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	code, err := s.otpService.Issue(key)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	if !s.notifier.IsEnabled() {
		log.Printf("⚠️ Notifier disabled, code for %s issued but not delivered", key)
	} else {
		go func() {
			body := fmt.Sprintf("Your verification code is: %s\r\nIt expires in %d minutes.",
				code, int(s.cfg.OTP.TTL.Minutes()))
			if err := s.notifier.Send(key, "Your verification code", body); err != nil {
				log.Printf("⚠️ OTP delivery failed for %s: %v", key, err)
			}
		}()
	}

	log.Printf("✅ OTP issued for %s (expires in %s)", key, s.cfg.OTP.TTL)
	return nil
}

// VerifyOTP verifies a challenge code for the email
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) error {
	key := strings.ToLower(strings.TrimSpace(email))
	if key == "" || code == "" {
		return fmt.Errorf("%w: email and code are required", domain.ErrValidation)
	}

	switch s.otpService.Verify(key, code) {
	case OTPAccepted:
		log.Printf("✅ OTP verified for %s", key)
		return nil
	case OTPWrongCode:
		return domain.ErrOTPInvalid
	case OTPExpired:
		return domain.ErrOTPExpired
	case OTPAttemptsExhausted:
		return domain.ErrTooManyAttempts
	default:
		return domain.ErrOTPNotFound
	}
}
