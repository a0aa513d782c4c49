package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"carelink-backend/internal/adapters/persistence/models"
	"carelink-backend/internal/pkg/mutation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repositories standing in for the MySQL-backed ones. They
// enforce the same uniqueness rules and return the same sentinel errors
// the GORM implementations translate to.

type fakeStaffRepo struct {
	mu    sync.Mutex
	staff []*models.Staff
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{}
}

func (r *fakeStaffRepo) Create(ctx context.Context, staff *models.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.staff {
		if s.EmployeeID == staff.EmployeeID || s.Email == staff.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if staff.ID == "" {
		staff.ID = uuid.New().String()
	}
	if staff.EmploymentStatus == "" {
		staff.EmploymentStatus = "Active"
	}
	cp := *staff
	r.staff = append(r.staff, &cp)
	return nil
}

func (r *fakeStaffRepo) GetByID(ctx context.Context, id string) (*models.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.staff {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeStaffRepo) GetActiveByIdentifier(ctx context.Context, identifier string) (*models.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.staff {
		if s.EmploymentStatus != "Active" {
			continue
		}
		if s.ID == identifier || s.EmployeeID == identifier || s.Email == identifier {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeStaffRepo) FirstByRole(ctx context.Context, role string) (*models.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.staff {
		if s.Role == role {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeStaffRepo) CountByRole(ctx context.Context, role string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, s := range r.staff {
		if s.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *fakeStaffRepo) UpdateFields(ctx context.Context, id string, updates []mutation.FieldUpdate) (*models.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.staff {
		if s.ID != id {
			continue
		}
		for _, u := range updates {
			applyStaffField(s, u)
		}
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func applyStaffField(s *models.Staff, u mutation.FieldUpdate) {
	switch u.Field {
	case "phone":
		v := u.Value.(string)
		s.Phone = &v
	case "department":
		s.Department = u.Value.(string)
	case "password_hash":
		v := u.Value.(string)
		s.PasswordHash = &v
	case "updated_at":
		s.UpdatedAt = u.Value.(time.Time)
	}
}

type fakePatientRepo struct {
	mu       sync.Mutex
	patients []*models.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{}
}

func (r *fakePatientRepo) Create(ctx context.Context, patient *models.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.patients {
		if p.Email == patient.Email || p.MRN == patient.MRN {
			return gorm.ErrDuplicatedKey
		}
	}
	if patient.ID == "" {
		patient.ID = uuid.New().String()
	}
	if patient.RegisteredDate.IsZero() {
		patient.RegisteredDate = time.Now()
	}
	cp := *patient
	r.patients = append(r.patients, &cp)
	return nil
}

func (r *fakePatientRepo) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.patients {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePatientRepo) GetByEmail(ctx context.Context, email string) (*models.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.patients {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePatientRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.patients {
		if p.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePatientRepo) CountRegisteredInYear(ctx context.Context, year int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, p := range r.patients {
		if p.RegisteredDate.Year() == year {
			n++
		}
	}
	return n, nil
}

func (r *fakePatientRepo) UpdateFields(ctx context.Context, id string, updates []mutation.FieldUpdate) (*models.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.patients {
		if p.ID != id {
			continue
		}
		for _, u := range updates {
			applyPatientField(p, u)
		}
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func applyPatientField(p *models.Patient, u mutation.FieldUpdate) {
	strPtr := func(v interface{}) *string {
		if v == nil {
			return nil
		}
		s := v.(string)
		return &s
	}
	switch u.Field {
	case "phone":
		p.Phone = strPtr(u.Value)
	case "address_line1":
		p.AddressLine1 = strPtr(u.Value)
	case "city":
		p.City = strPtr(u.Value)
	case "state":
		p.State = strPtr(u.Value)
	case "zip_code":
		p.ZipCode = strPtr(u.Value)
	case "emergency_contact_name":
		p.EmergencyContactName = strPtr(u.Value)
	case "emergency_contact_phone":
		p.EmergencyContactPhone = strPtr(u.Value)
	case "emergency_contact_relationship":
		p.EmergencyContactRelationship = strPtr(u.Value)
	case "password_hash":
		p.PasswordHash = u.Value.(string)
	case "updated_at":
		p.UpdatedAt = u.Value.(time.Time)
	}
}

// flakyPatientRepo rejects the first N Create calls with a duplicate-key
// error, simulating an MRN allocation race.
type flakyPatientRepo struct {
	*fakePatientRepo
	rejections int
}

func (r *flakyPatientRepo) Create(ctx context.Context, patient *models.Patient) error {
	if r.rejections > 0 {
		r.rejections--
		return gorm.ErrDuplicatedKey
	}
	return r.fakePatientRepo.Create(ctx, patient)
}

// fakeNotifier captures sends on a channel so tests can wait for the
// asynchronous delivery goroutine.
type fakeNotifier struct {
	sent chan sentMessage
}

type sentMessage struct {
	to      string
	subject string
	body    string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan sentMessage, 8)}
}

func (n *fakeNotifier) Send(to, subject, body string) error {
	n.sent <- sentMessage{to: to, subject: subject, body: body}
	return nil
}

func (n *fakeNotifier) IsEnabled() bool { return true }

// disabledNotifier stands in for an unconfigured SMTP notifier and
// records whether anyone tried to send through it anyway.
type disabledNotifier struct {
	sends int32
}

func (n *disabledNotifier) Send(to, subject, body string) error {
	atomic.AddInt32(&n.sends, 1)
	return nil
}

func (n *disabledNotifier) IsEnabled() bool { return false }
