package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"carelink-backend/internal/adapters/persistence/models"
	"carelink-backend/internal/adapters/persistence/repositories"
	"carelink-backend/internal/core/domain"
	"carelink-backend/internal/pkg/mutation"
	"carelink-backend/internal/pkg/password"

	"gorm.io/gorm"
)

// PatientService handles patient self-service profile flows
type PatientService struct {
	patientRepo repositories.PatientRepository
	builder     *mutation.Builder
}

// NewPatientService creates a new patient service
func NewPatientService(patientRepo repositories.PatientRepository) *PatientService {
	return &PatientService{
		patientRepo: patientRepo,
		builder:     mutation.NewBuilder(domain.PatientMutableFields),
	}
}

// UpdateProfileInput represents profile update input. Nil pointers mean
// "leave as is"; only proposed fields enter the mutation builder.
type UpdateProfileInput struct {
	Phone                        *string `json:"phone"`
	AddressLine1                 *string `json:"address_line1"`
	City                         *string `json:"city"`
	State                        *string `json:"state"`
	ZipCode                      *string `json:"zip_code"`
	EmergencyContactName         *string `json:"emergency_contact_name"`
	EmergencyContactPhone        *string `json:"emergency_contact_phone"`
	EmergencyContactRelationship *string `json:"emergency_contact_relationship"`
}

func (in *UpdateProfileInput) proposed() map[string]interface{} {
	m := make(map[string]interface{})
	if in.Phone != nil {
		m["phone"] = *in.Phone
	}
	if in.AddressLine1 != nil {
		m["address_line1"] = *in.AddressLine1
	}
	if in.City != nil {
		m["city"] = *in.City
	}
	if in.State != nil {
		m["state"] = *in.State
	}
	if in.ZipCode != nil {
		m["zip_code"] = *in.ZipCode
	}
	if in.EmergencyContactName != nil {
		m["emergency_contact_name"] = *in.EmergencyContactName
	}
	if in.EmergencyContactPhone != nil {
		m["emergency_contact_phone"] = *in.EmergencyContactPhone
	}
	if in.EmergencyContactRelationship != nil {
		m["emergency_contact_relationship"] = *in.EmergencyContactRelationship
	}
	return m
}

// ChangePasswordInput represents password change input
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// GetProfile returns a patient's profile
func (s *PatientService) GetProfile(ctx context.Context, patientID string) (*models.PatientResponse, error) {
	patient, err := s.patientRepo.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: patient lookup: %v", domain.ErrUpstream, err)
	}
	return patient.ToResponse(), nil
}

// UpdateProfile applies an allow-listed partial update to the profile
func (s *PatientService) UpdateProfile(ctx context.Context, patientID string, input *UpdateProfileInput) (*models.PatientResponse, error) {
	updates, err := s.builder.Build(input.proposed())
	if err != nil {
		if errors.Is(err, mutation.ErrNoFields) {
			return nil, fmt.Errorf("%w: no valid fields to update", domain.ErrValidation)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	patient, err := s.patientRepo.UpdateFields(ctx, patientID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: profile update: %v", domain.ErrUpstream, err)
	}

	log.Printf("✅ Patient profile updated: %s", patient.MRN)
	return patient.ToResponse(), nil
}

// ChangePassword re-verifies the current password, then replaces the
// stored digest. The old digest is overwritten, never merged.
func (s *PatientService) ChangePassword(ctx context.Context, patientID string, input *ChangePasswordInput) error {
	if input.CurrentPassword == "" || input.NewPassword == "" || input.ConfirmPassword == "" {
		return fmt.Errorf("%w: all password fields are required", domain.ErrValidation)
	}
	if input.NewPassword != input.ConfirmPassword {
		return fmt.Errorf("%w: new passwords do not match", domain.ErrValidation)
	}
	if len(input.NewPassword) < domain.MinPasswordLength {
		return fmt.Errorf("%w: new password must be at least %d characters", domain.ErrValidation, domain.MinPasswordLength)
	}

	patient, err := s.patientRepo.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("%w: patient lookup: %v", domain.ErrUpstream, err)
	}

	ok, err := password.Verify(input.CurrentPassword, patient.PasswordHash)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	if !ok {
		return domain.ErrInvalidCredentials
	}

	hash, err := password.Hash(input.NewPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	updates := []mutation.FieldUpdate{
		{Field: "password_hash", Value: hash},
		{Field: "updated_at", Value: time.Now()},
	}
	if _, err := s.patientRepo.UpdateFields(ctx, patientID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("%w: password update: %v", domain.ErrUpstream, err)
	}

	log.Printf("✅ Patient password changed: %s", patient.MRN)
	return nil
}
