package domain

// Principal kinds carried in session token claims
const (
	KindStaff   = "staff"
	KindPatient = "patient"
)

// StaffRole represents a staff member's role in the hospital
type StaffRole string

const (
	RoleAdmin        StaffRole = "Admin"
	RoleDoctor       StaffRole = "Doctor"
	RoleNurse        StaffRole = "Nurse"
	RoleReceptionist StaffRole = "Receptionist"
	RoleLabTech      StaffRole = "LabTech"
)

// Employment / patient statuses. Only Active principals may authenticate.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// MinPasswordLength is the minimum accepted password length
const MinPasswordLength = 8

// PatientMutableFields is the allow-list of patient profile columns a
// patient may change after registration. Field names outside this list are
// dropped by the mutation builder and never reach the store.
var PatientMutableFields = []string{
	"phone",
	"address_line1",
	"city",
	"state",
	"zip_code",
	"emergency_contact_name",
	"emergency_contact_phone",
	"emergency_contact_relationship",
}

// StaffMutableFields is the allow-list of staff profile columns a staff
// member may change themselves. Role, employment status and hospital
// assignment are admin-managed and deliberately absent.
var StaffMutableFields = []string{
	"phone",
	"department",
}
