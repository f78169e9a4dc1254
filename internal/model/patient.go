package model

import "time"

// Patient is a row in the patients table. The national_id column holds
// AES-GCM ciphertext, never the plain identifier.
type Patient struct {
	ID                       string           `json:"id,omitzero"`
	UserID                   *string          `json:"user_id,omitempty"`
	MRN                      string           `json:"mrn,omitzero"`
	HospitalID               string           `json:"hospital_id,omitzero"`
	FirstName                string           `json:"first_name,omitzero"`
	LastName                 string           `json:"last_name,omitzero"`
	Email                    *string          `json:"email,omitempty"`
	Phone                    *string          `json:"phone,omitempty"`
	Gender                   string           `json:"gender,omitzero"`
	DateOfBirth              *string          `json:"date_of_birth,omitempty"`
	BloodType                string           `json:"blood_type,omitzero"`
	NationalID               *string          `json:"national_id,omitempty"`
	Address                  *string          `json:"address,omitempty"`
	City                     *string          `json:"city,omitempty"`
	EmergencyContactName     *string          `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone    *string          `json:"emergency_contact_phone,omitempty"`
	EmergencyContactRelation *string          `json:"emergency_contact_relation,omitempty"`
	Allergies                []string         `json:"allergies,omitempty"`
	ChronicConditions        []string         `json:"chronic_conditions,omitempty"`
	CurrentMedications       []map[string]any `json:"current_medications,omitempty"`
	InsuranceProvider        *string          `json:"insurance_provider,omitempty"`
	InsuranceNumber          *string          `json:"insurance_number,omitempty"`
	PrimaryDoctorID          *string          `json:"primary_doctor_id,omitempty"`
	Notes                    *string          `json:"notes,omitempty"`
	IsActive                 bool             `json:"is_active"`
	CreatedAt                time.Time        `json:"created_at,omitzero"`
	UpdatedAt                time.Time        `json:"updated_at,omitzero"`

	Hospital      *HospitalRef `json:"hospitals,omitempty"`
	PrimaryDoctor *DoctorRef   `json:"doctors,omitempty"`
}

// PatientRef is the embedded patient shape returned by relational selects.
type PatientRef struct {
	ID        string `json:"id,omitzero"`
	MRN       string `json:"mrn,omitzero"`
	FirstName string `json:"first_name,omitzero"`
	LastName  string `json:"last_name,omitzero"`
}
