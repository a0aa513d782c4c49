package config

import (
	"context"
	"log"

	"carelink-backend/internal/adapters/persistence/models"
	"carelink-backend/internal/adapters/persistence/repositories"
	"carelink-backend/internal/core/domain"
	"carelink-backend/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	staffRepo repositories.StaffRepository
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{staffRepo: repositories.NewStaffRepository(db)}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminStaff(context.Background()); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminStaff seeds a default admin staff account when none exists.
// Development convenience only; production admins are provisioned
// through a separate process.
func (s *Seeder) seedAdminStaff(ctx context.Context) error {
	count, err := s.staffRepo.CountByRole(ctx, string(domain.RoleAdmin))
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := password.Hash(getEnv("SEED_ADMIN_PASSWORD", "admin123456"))
	if err != nil {
		return err
	}

	admin := &models.Staff{
		EmployeeID:       "STAFF001",
		FirstName:        "System",
		LastName:         "Admin",
		Email:            "admin@carelink.health",
		PasswordHash:     &hash,
		HospitalID:       getEnv("SEED_HOSPITAL_ID", "HOSP1001"),
		Role:             string(domain.RoleAdmin),
		Department:       "Administration",
		EmploymentStatus: domain.StatusActive,
	}

	if err := s.staffRepo.Create(ctx, admin); err != nil {
		return err
	}

	log.Printf("✅ Seeded default admin staff: %s", admin.EmployeeID)
	return nil
}
