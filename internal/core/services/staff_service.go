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

// StaffService handles staff self-service profile flows
type StaffService struct {
	staffRepo repositories.StaffRepository
	builder   *mutation.Builder
}

// NewStaffService creates a new staff service
func NewStaffService(staffRepo repositories.StaffRepository) *StaffService {
	return &StaffService{
		staffRepo: staffRepo,
		builder:   mutation.NewBuilder(domain.StaffMutableFields),
	}
}

// UpdateStaffProfileInput represents staff profile update input
type UpdateStaffProfileInput struct {
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
}

func (in *UpdateStaffProfileInput) proposed() map[string]interface{} {
	m := make(map[string]interface{})
	if in.Phone != nil {
		m["phone"] = *in.Phone
	}
	if in.Department != nil {
		m["department"] = *in.Department
	}
	return m
}

// GetProfile returns a staff member's profile
func (s *StaffService) GetProfile(ctx context.Context, staffID string) (*models.StaffResponse, error) {
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: staff lookup: %v", domain.ErrUpstream, err)
	}
	return staff.ToResponse(), nil
}

// UpdateProfile applies an allow-listed partial update to the profile
func (s *StaffService) UpdateProfile(ctx context.Context, staffID string, input *UpdateStaffProfileInput) (*models.StaffResponse, error) {
	updates, err := s.builder.Build(input.proposed())
	if err != nil {
		if errors.Is(err, mutation.ErrNoFields) {
			return nil, fmt.Errorf("%w: no valid fields to update", domain.ErrValidation)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	staff, err := s.staffRepo.UpdateFields(ctx, staffID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: profile update: %v", domain.ErrUpstream, err)
	}

	log.Printf("✅ Staff profile updated: %s", staff.EmployeeID)
	return staff.ToResponse(), nil
}

// ChangePassword re-verifies the current password, then replaces the
// stored digest
func (s *StaffService) ChangePassword(ctx context.Context, staffID string, input *ChangePasswordInput) error {
	if input.CurrentPassword == "" || input.NewPassword == "" || input.ConfirmPassword == "" {
		return fmt.Errorf("%w: all password fields are required", domain.ErrValidation)
	}
	if input.NewPassword != input.ConfirmPassword {
		return fmt.Errorf("%w: new passwords do not match", domain.ErrValidation)
	}
	if len(input.NewPassword) < domain.MinPasswordLength {
		return fmt.Errorf("%w: new password must be at least %d characters", domain.ErrValidation, domain.MinPasswordLength)
	}

	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("%w: staff lookup: %v", domain.ErrUpstream, err)
	}

	if staff.PasswordHash == nil || *staff.PasswordHash == "" {
		return domain.ErrPasswordNotSet
	}

	ok, err := password.Verify(input.CurrentPassword, *staff.PasswordHash)
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
	if _, err := s.staffRepo.UpdateFields(ctx, staffID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("%w: password update: %v", domain.ErrUpstream, err)
	}

	log.Printf("✅ Staff password changed: %s", staff.EmployeeID)
	return nil
}
