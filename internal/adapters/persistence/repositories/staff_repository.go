package repositories

import (
	"context"

	"carelink-backend/internal/adapters/persistence/models"
	"carelink-backend/internal/core/domain"
	"carelink-backend/internal/pkg/mutation"

	"gorm.io/gorm"
)

// staffRepository implements StaffRepository interface
type staffRepository struct {
	db *gorm.DB
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepository{db: db}
}

// Create creates a new staff record
func (r *staffRepository) Create(ctx context.Context, staff *models.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

// GetByID gets a staff member by ID
func (r *staffRepository) GetByID(ctx context.Context, id string) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// GetActiveByIdentifier gets an Active staff member by staff id or email
func (r *staffRepository) GetActiveByIdentifier(ctx context.Context, identifier string) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.WithContext(ctx).
		Where("(id = ? OR employee_id = ? OR email = ?) AND employment_status = ?",
			identifier, identifier, identifier, domain.StatusActive).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// FirstByRole gets the first staff member with the given role
func (r *staffRepository) FirstByRole(ctx context.Context, role string) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.WithContext(ctx).Where("role = ?", role).Order("created_at").First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// CountByRole counts staff with the given role
func (r *staffRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Staff{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// UpdateFields applies a built update instruction and returns the fresh record
func (r *staffRepository) UpdateFields(ctx context.Context, id string, updates []mutation.FieldUpdate) (*models.Staff, error) {
	result := r.db.WithContext(ctx).Model(&models.Staff{}).
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
