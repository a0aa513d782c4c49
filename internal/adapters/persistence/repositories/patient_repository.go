package repositories

import (
	"context"

	"carelink-backend/internal/adapters/persistence/models"
	"carelink-backend/internal/pkg/mutation"

	"gorm.io/gorm"
)

// patientRepository implements PatientRepository interface
type patientRepository struct {
	db *gorm.DB
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(db *gorm.DB) PatientRepository {
	return &patientRepository{db: db}
}

// Create creates a new patient record. Unique-constraint violations come
// back as gorm.ErrDuplicatedKey (TranslateError is on).
func (r *patientRepository) Create(ctx context.Context, patient *models.Patient) error {
	return r.db.WithContext(ctx).Create(patient).Error
}

// GetByID gets a patient by ID
func (r *patientRepository) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	var patient models.Patient
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&patient).Error
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

// GetByEmail gets a patient by email (stored case-normalized)
func (r *patientRepository) GetByEmail(ctx context.Context, email string) (*models.Patient, error) {
	var patient models.Patient
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&patient).Error
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

// ExistsByEmail checks if a patient email exists
func (r *patientRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Patient{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// CountRegisteredInYear counts patients registered in the given year.
// Used to derive the MRN sequence.
func (r *patientRepository) CountRegisteredInYear(ctx context.Context, year int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Patient{}).
		Where("YEAR(registered_date) = ?", year).
		Count(&count).Error
	return count, err
}

// UpdateFields applies a built update instruction and returns the fresh record
func (r *patientRepository) UpdateFields(ctx context.Context, id string, updates []mutation.FieldUpdate) (*models.Patient, error) {
	result := r.db.WithContext(ctx).Model(&models.Patient{}).
		Where("id = ?", id).
		Updates(mutation.ToMap(updates))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}
