package repositories

import (
	"context"

	"carelink-backend/internal/adapters/persistence/models"
	"carelink-backend/internal/pkg/mutation"
)

// StaffRepository defines staff record-store access
type StaffRepository interface {
	Create(ctx context.Context, staff *models.Staff) error
	GetByID(ctx context.Context, id string) (*models.Staff, error)
	// GetActiveByIdentifier looks up by staff id or email, Active only.
	GetActiveByIdentifier(ctx context.Context, identifier string) (*models.Staff, error)
	FirstByRole(ctx context.Context, role string) (*models.Staff, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	UpdateFields(ctx context.Context, id string, updates []mutation.FieldUpdate) (*models.Staff, error)
}

// PatientRepository defines patient record-store access.
// Uniqueness violations must surface as gorm.ErrDuplicatedKey so callers
// can distinguish a conflict from a generic store failure.
type PatientRepository interface {
	Create(ctx context.Context, patient *models.Patient) error
	GetByID(ctx context.Context, id string) (*models.Patient, error)
	GetByEmail(ctx context.Context, email string) (*models.Patient, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountRegisteredInYear(ctx context.Context, year int) (int64, error)
	UpdateFields(ctx context.Context, id string, updates []mutation.FieldUpdate) (*models.Patient, error)
}
