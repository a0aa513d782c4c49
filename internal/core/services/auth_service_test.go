package services

import (
	"context"
	"fmt"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"carelink-backend/internal/adapters/persistence/models"
	"carelink-backend/internal/config"
	"carelink-backend/internal/core/domain"
	"carelink-backend/internal/pkg/jwt"
	"carelink-backend/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:            "unit-test-secret",
			StaffTokenHours:   8,
			PatientTokenHours: 24,
		},
		OTP: config.OTPConfig{
			TTL:         5 * time.Minute,
			MaxAttempts: 5,
			CodeLength:  6,
		},
	}
}

type authFixture struct {
	svc         *AuthService
	staffRepo   *fakeStaffRepo
	patientRepo *fakePatientRepo
	otp         *OTPService
	notifier    *fakeNotifier
	cfg         *config.Config
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	cfg := testConfig()
	staffRepo := newFakeStaffRepo()
	patientRepo := newFakePatientRepo()
	otp := NewOTPService(cfg.OTP.TTL, cfg.OTP.MaxAttempts, cfg.OTP.CodeLength)
	notifier := newFakeNotifier()

	return &authFixture{
		svc:         NewAuthService(staffRepo, patientRepo, otp, notifier, cfg),
		staffRepo:   staffRepo,
		patientRepo: patientRepo,
		otp:         otp,
		notifier:    notifier,
		cfg:         cfg,
	}
}

func (f *authFixture) seedStaff(t *testing.T, employeeID, email, plaintext, hospitalID, role, status string) *models.Staff {
	t.Helper()
	hash, err := password.Hash(plaintext)
	require.NoError(t, err)

	staff := &models.Staff{
		EmployeeID:       employeeID,
		FirstName:        "Dana",
		LastName:         "Reyes",
		Email:            email,
		PasswordHash:     &hash,
		HospitalID:       hospitalID,
		Role:             role,
		Department:       "Cardiology",
		EmploymentStatus: status,
	}
	require.NoError(t, f.staffRepo.Create(context.Background(), staff))
	return staff
}

func validRegistration() *RegisterPatientInput {
	return &RegisterPatientInput{
		FirstName:       "Maria",
		LastName:        "Santos",
		Email:           "maria.santos@example.com",
		Password:        "patient-pass-1",
		ConfirmPassword: "patient-pass-1",
		DateOfBirth:     "1990-04-12",
		Gender:          "Female",
	}
}

func TestStaffLogin(t *testing.T) {
	f := newAuthFixture(t)
	f.seedStaff(t, "STAFF042", "dana@carelink.health", "staff-pass-1", "HOSP1001", "Doctor", "Active")

	t.Run("success by employee id", func(t *testing.T) {
		res, err := f.svc.StaffLogin(context.Background(), &StaffLoginInput{
			StaffID:    "STAFF042",
			Password:   "staff-pass-1",
			HospitalID: "HOSP1001",
		})
		require.NoError(t, err)
		assert.Equal(t, "STAFF042", res.Staff.EmployeeID)
		assert.NotEmpty(t, res.Token)

		claims, err := jwt.ValidateToken(res.Token, f.cfg.JWT.Secret)
		require.NoError(t, err)
		assert.Equal(t, jwt.KindStaff, claims.Kind)
		assert.Equal(t, res.Staff.ID, claims.Subject)
		assert.Equal(t, "Doctor", claims.Role)
	})

	t.Run("success by email", func(t *testing.T) {
		_, err := f.svc.StaffLogin(context.Background(), &StaffLoginInput{
			StaffID:    "dana@carelink.health",
			Password:   "staff-pass-1",
			HospitalID: "HOSP1001",
		})
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.svc.StaffLogin(context.Background(), &StaffLoginInput{
			StaffID:    "STAFF042",
			Password:   "not-the-password",
			HospitalID: "HOSP1001",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("wrong hospital", func(t *testing.T) {
		_, err := f.svc.StaffLogin(context.Background(), &StaffLoginInput{
			StaffID:    "STAFF042",
			Password:   "staff-pass-1",
			HospitalID: "HOSP9999",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		_, err := f.svc.StaffLogin(context.Background(), &StaffLoginInput{
			StaffID:    "STAFF999",
			Password:   "staff-pass-1",
			HospitalID: "HOSP1001",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestStaffLoginInactive(t *testing.T) {
	f := newAuthFixture(t)
	f.seedStaff(t, "STAFF043", "gone@carelink.health", "staff-pass-1", "HOSP1001", "Nurse", "Inactive")

	_, err := f.svc.StaffLogin(context.Background(), &StaffLoginInput{
		StaffID:    "STAFF043",
		Password:   "staff-pass-1",
		HospitalID: "HOSP1001",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestStaffLoginPasswordNotSet(t *testing.T) {
	f := newAuthFixture(t)
	staff := &models.Staff{
		EmployeeID:       "STAFF044",
		FirstName:        "No",
		LastName:         "Credential",
		Email:            "nocred@carelink.health",
		HospitalID:       "HOSP1001",
		Role:             "Receptionist",
		EmploymentStatus: "Active",
	}
	require.NoError(t, f.staffRepo.Create(context.Background(), staff))

	_, err := f.svc.StaffLogin(context.Background(), &StaffLoginInput{
		StaffID:    "STAFF044",
		Password:   "anything",
		HospitalID: "HOSP1001",
	})
	assert.ErrorIs(t, err, domain.ErrPasswordNotSet)
}

func TestRegisterPatient(t *testing.T) {
	f := newAuthFixture(t)
	admin := f.seedStaff(t, "STAFF001", "admin@carelink.health", "admin-pass-1", "HOSP1001", "Admin", "Active")

	res, err := f.svc.RegisterPatient(context.Background(), validRegistration())
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("MRN-%02d0001", year%100), res.Patient.MRN)
	assert.Equal(t, "maria.santos@example.com", res.Patient.Email)
	assert.Equal(t, domain.StatusActive, res.Patient.PatientStatus)

	claims, err := jwt.ValidateToken(res.Token, f.cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, jwt.KindPatient, claims.Kind)
	assert.Equal(t, res.Patient.ID, claims.Subject)
	assert.Equal(t, res.Patient.MRN, claims.MRN)

	// Registering admin is recorded, hash never leaves the store
	stored, err := f.patientRepo.GetByID(context.Background(), res.Patient.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CreatedBy)
	assert.Equal(t, admin.ID, *stored.CreatedBy)
	assert.NotEqual(t, "patient-pass-1", stored.PasswordHash)

	ok, err := password.Verify("patient-pass-1", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegisterPatientSequence(t *testing.T) {
	f := newAuthFixture(t)
	year := time.Now().Year()

	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		input := validRegistration()
		input.Email = email
		res, err := f.svc.RegisterPatient(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("MRN-%02d%04d", year%100, i+1), res.Patient.MRN)
	}
}

func TestRegisterPatientNormalizesEmail(t *testing.T) {
	f := newAuthFixture(t)

	input := validRegistration()
	input.Email = "  Maria.SANTOS@Example.COM "
	res, err := f.svc.RegisterPatient(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "maria.santos@example.com", res.Patient.Email)
}

func TestRegisterPatientDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.RegisterPatient(context.Background(), validRegistration())
	require.NoError(t, err)

	// Same address in a different case is still taken
	input := validRegistration()
	input.Email = "MARIA.SANTOS@example.com"
	_, err = f.svc.RegisterPatient(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRegisterPatientValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterPatientInput)
	}{
		{"missing first name", func(in *RegisterPatientInput) { in.FirstName = "" }},
		{"missing email", func(in *RegisterPatientInput) { in.Email = "" }},
		{"missing date of birth", func(in *RegisterPatientInput) { in.DateOfBirth = "" }},
		{"short password", func(in *RegisterPatientInput) {
			in.Password = "short"
			in.ConfirmPassword = "short"
		}},
		{"password mismatch", func(in *RegisterPatientInput) { in.ConfirmPassword = "different-pass-1" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			input := validRegistration()
			tt.mutate(input)
			_, err := f.svc.RegisterPatient(context.Background(), input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestRegisterPatientMRNCollisionRetries(t *testing.T) {
	f := newAuthFixture(t)
	flaky := &flakyPatientRepo{fakePatientRepo: f.patientRepo, rejections: 1}
	svc := NewAuthService(f.staffRepo, flaky, f.otp, f.notifier, f.cfg)

	res, err := svc.RegisterPatient(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.NotEmpty(t, res.Patient.MRN)
}

func TestRegisterPatientMRNCollisionGivesUp(t *testing.T) {
	f := newAuthFixture(t)
	flaky := &flakyPatientRepo{fakePatientRepo: f.patientRepo, rejections: 2}
	svc := NewAuthService(f.staffRepo, flaky, f.otp, f.notifier, f.cfg)

	_, err := svc.RegisterPatient(context.Background(), validRegistration())
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestPatientLogin(t *testing.T) {
	f := newAuthFixture(t)
	reg, err := f.svc.RegisterPatient(context.Background(), validRegistration())
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		res, err := f.svc.PatientLogin(context.Background(), &PatientLoginInput{
			Email:    "maria.santos@example.com",
			Password: "patient-pass-1",
		})
		require.NoError(t, err)
		assert.Equal(t, reg.Patient.ID, res.Patient.ID)

		claims, err := jwt.ValidateToken(res.Token, f.cfg.JWT.Secret)
		require.NoError(t, err)
		assert.Equal(t, reg.Patient.ID, claims.Subject)
	})

	t.Run("case-insensitive email", func(t *testing.T) {
		_, err := f.svc.PatientLogin(context.Background(), &PatientLoginInput{
			Email:    "Maria.Santos@Example.com",
			Password: "patient-pass-1",
		})
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.svc.PatientLogin(context.Background(), &PatientLoginInput{
			Email:    "maria.santos@example.com",
			Password: "not-the-password",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.svc.PatientLogin(context.Background(), &PatientLoginInput{
			Email:    "nobody@example.com",
			Password: "patient-pass-1",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestValidateAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	reg, err := f.svc.RegisterPatient(context.Background(), validRegistration())
	require.NoError(t, err)

	claims, err := f.svc.ValidateAccessToken(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.Patient.ID, claims.Subject)

	_, err = f.svc.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)
}

var codePattern = regexp.MustCompile(`\d{6}`)

func (f *authFixture) deliveredCode(t *testing.T) string {
	t.Helper()
	select {
	case msg := <-f.notifier.sent:
		code := codePattern.FindString(msg.body)
		require.NotEmpty(t, code, "delivered message must contain the code")
		return code
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered")
		return ""
	}
}

func TestOTPRequestAndVerify(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.svc.RequestOTP(context.Background(), "Maria.Santos@Example.com"))
	code := f.deliveredCode(t)

	// Key is the normalized email, so any casing verifies
	assert.NoError(t, f.svc.VerifyOTP(context.Background(), "maria.santos@example.com", code))

	// Consumed on success
	err := f.svc.VerifyOTP(context.Background(), "maria.santos@example.com", code)
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
}

func TestOTPRequestWithDisabledNotifier(t *testing.T) {
	f := newAuthFixture(t)
	notifier := &disabledNotifier{}
	svc := NewAuthService(f.staffRepo, f.patientRepo, f.otp, notifier, f.cfg)

	require.NoError(t, svc.RequestOTP(context.Background(), "maria@example.com"))

	// Challenge is live even though nothing was delivered
	left, ok := f.otp.AttemptsLeft("maria@example.com")
	require.True(t, ok)
	assert.Equal(t, f.cfg.OTP.MaxAttempts, left)
	assert.Zero(t, atomic.LoadInt32(&notifier.sends))
}

func TestOTPRequestValidation(t *testing.T) {
	f := newAuthFixture(t)
	assert.ErrorIs(t, f.svc.RequestOTP(context.Background(), "  "), domain.ErrValidation)
	assert.ErrorIs(t, f.svc.VerifyOTP(context.Background(), "", "123456"), domain.ErrValidation)
	assert.ErrorIs(t, f.svc.VerifyOTP(context.Background(), "a@b.com", ""), domain.ErrValidation)
}

func TestOTPVerifyExhaustion(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.svc.RequestOTP(context.Background(), "maria@example.com"))
	code := f.deliveredCode(t)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	for i := 0; i < 5; i++ {
		err := f.svc.VerifyOTP(context.Background(), "maria@example.com", wrong)
		assert.ErrorIs(t, err, domain.ErrOTPInvalid)
	}

	// Locked now, even for the correct code
	err := f.svc.VerifyOTP(context.Background(), "maria@example.com", code)
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)
}

func TestOTPVerifyExpired(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.svc.RequestOTP(context.Background(), "maria@example.com"))
	code := f.deliveredCode(t)

	f.otp.now = func() time.Time { return time.Now().Add(6 * time.Minute) }

	err := f.svc.VerifyOTP(context.Background(), "maria@example.com", code)
	assert.ErrorIs(t, err, domain.ErrOTPExpired)
}

func TestOTPVerifyUnknownKey(t *testing.T) {
	f := newAuthFixture(t)
	err := f.svc.VerifyOTP(context.Background(), "nobody@example.com", "123456")
	assert.ErrorIs(t, err, domain.ErrOTPNotFound)
}
