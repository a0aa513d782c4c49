package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Identity tables: staff & patients
// ============================================================

// Staff represents the staff table
type Staff struct {
	ID               string    `gorm:"primaryKey;size:36" json:"staff_id"`
	EmployeeID       string    `gorm:"uniqueIndex;size:20;not null" json:"employee_id"`
	FirstName        string    `gorm:"size:50;not null" json:"first_name"`
	LastName         string    `gorm:"size:50;not null" json:"last_name"`
	Email            string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone            *string   `gorm:"size:20" json:"phone"`
	PasswordHash     *string   `gorm:"size:255" json:"-"`
	HospitalID       string    `gorm:"size:20;not null;index" json:"hospital_id"`
	Role             string    `gorm:"size:20;not null" json:"role"`
	Department       string    `gorm:"size:50" json:"department"`
	EmploymentStatus string    `gorm:"size:20;default:'Active';index" json:"employment_status"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Staff) TableName() string {
	return "staff"
}

// BeforeCreate assigns a UUID primary key
func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// FullName returns the display name used in token claims
func (s *Staff) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StaffResponse DTO - never carries the password hash
type StaffResponse struct {
	ID         string  `json:"staff_id"`
	EmployeeID string  `json:"employee_id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone,omitempty"`
	HospitalID string  `json:"hospital_id"`
	Role       string  `json:"role"`
	Department string  `json:"department"`
}

func (s *Staff) ToResponse() *StaffResponse {
	return &StaffResponse{
		ID:         s.ID,
		EmployeeID: s.EmployeeID,
		Name:       s.FullName(),
		Email:      s.Email,
		Phone:      s.Phone,
		HospitalID: s.HospitalID,
		Role:       s.Role,
		Department: s.Department,
	}
}

// Patient represents the patients table
type Patient struct {
	ID            string  `gorm:"primaryKey;size:36" json:"patient_id"`
	MRN           string  `gorm:"column:mrn;uniqueIndex;size:20;not null" json:"mrn"`
	FirstName     string  `gorm:"size:50;not null" json:"first_name"`
	LastName      string  `gorm:"size:50;not null" json:"last_name"`
	Email         string  `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone         *string `gorm:"size:20" json:"phone"`
	PasswordHash  string  `gorm:"size:255;not null" json:"-"`
	DateOfBirth   string  `gorm:"type:date;not null" json:"date_of_birth"`
	Gender        string  `gorm:"size:10;default:'Unknown'" json:"gender"`
	BloodType     *string `gorm:"size:5" json:"blood_type"`
	AddressLine1  *string `gorm:"size:100" json:"address_line1"`
	City          *string `gorm:"size:50" json:"city"`
	State         *string `gorm:"size:50" json:"state"`
	ZipCode       *string `gorm:"size:10" json:"zip_code"`
	PatientStatus string  `gorm:"size:20;default:'Active';index" json:"patient_status"`

	EmergencyContactName         *string `gorm:"size:100" json:"emergency_contact_name"`
	EmergencyContactPhone        *string `gorm:"size:20" json:"emergency_contact_phone"`
	EmergencyContactRelationship *string `gorm:"size:30" json:"emergency_contact_relationship"`

	ConsentForTreatment bool `gorm:"default:true" json:"consent_for_treatment"`
	ConsentForDataShare bool `gorm:"default:true" json:"consent_for_data_share"`

	RegisteredDate time.Time `gorm:"autoCreateTime" json:"registered_date"`
	CreatedBy      *string   `gorm:"size:36" json:"-"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

// BeforeCreate assigns a UUID primary key
func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// FullName returns the display name used in token claims
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// PatientResponse DTO - never carries the password hash
type PatientResponse struct {
	ID            string  `json:"patient_id"`
	MRN           string  `json:"mrn"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Email         string  `json:"email"`
	Phone         *string `json:"phone"`
	DateOfBirth   string  `json:"date_of_birth"`
	Gender        string  `json:"gender"`
	BloodType     *string `json:"blood_type"`
	AddressLine1  *string `json:"address_line1"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	ZipCode       *string `json:"zip_code"`
	PatientStatus string  `json:"patient_status"`

	EmergencyContactName         *string `json:"emergency_contact_name"`
	EmergencyContactPhone        *string `json:"emergency_contact_phone"`
	EmergencyContactRelationship *string `json:"emergency_contact_relationship"`

	RegisteredDate time.Time `json:"registered_date"`
}

func (p *Patient) ToResponse() *PatientResponse {
	return &PatientResponse{
		ID:                           p.ID,
		MRN:                          p.MRN,
		FirstName:                    p.FirstName,
		LastName:                     p.LastName,
		Email:                        p.Email,
		Phone:                        p.Phone,
		DateOfBirth:                  p.DateOfBirth,
		Gender:                       p.Gender,
		BloodType:                    p.BloodType,
		AddressLine1:                 p.AddressLine1,
		City:                         p.City,
		State:                        p.State,
		ZipCode:                      p.ZipCode,
		PatientStatus:                p.PatientStatus,
		EmergencyContactName:         p.EmergencyContactName,
		EmergencyContactPhone:        p.EmergencyContactPhone,
		EmergencyContactRelationship: p.EmergencyContactRelationship,
		RegisteredDate:               p.RegisteredDate,
	}
}

// AutoMigrate migrates all identity tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Staff{},
		&Patient{},
	)
}
