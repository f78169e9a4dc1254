package model

import "time"

// Doctor is a row in the doctors table.
type Doctor struct {
	ID            string       `json:"id,omitzero"`
	UserID        string       `json:"user_id,omitzero"`
	HospitalID    string       `json:"hospital_id,omitzero"`
	FirstName     string       `json:"first_name,omitzero"`
	LastName      string       `json:"last_name,omitzero"`
	Email         string       `json:"email,omitzero"`
	Phone         *string      `json:"phone,omitempty"`
	Address       *string      `json:"address,omitempty"`
	LicenseNumber string       `json:"license_number,omitzero"`
	IsActive      bool         `json:"is_active"`
	CreatedAt     time.Time    `json:"created_at,omitzero"`
	UpdatedAt     time.Time    `json:"updated_at,omitzero"`
	Hospital      *HospitalRef `json:"hospitals,omitempty"`

	Specialties []DoctorSpecialty `json:"doctor_specialties,omitempty"`
}

// Nurse is a row in the nurses table.
type Nurse struct {
	ID         string       `json:"id,omitzero"`
	UserID     string       `json:"user_id,omitzero"`
	HospitalID string       `json:"hospital_id,omitzero"`
	FirstName  string       `json:"first_name,omitzero"`
	LastName   string       `json:"last_name,omitzero"`
	Email      string       `json:"email,omitzero"`
	Phone      *string      `json:"phone,omitempty"`
	Address    *string      `json:"address,omitempty"`
	IsActive   bool         `json:"is_active"`
	CreatedAt  time.Time    `json:"created_at,omitzero"`
	UpdatedAt  time.Time    `json:"updated_at,omitzero"`
	Hospital   *HospitalRef `json:"hospitals,omitempty"`
}

// Administrator is a row in the administrators table. Super admins share it.
type Administrator struct {
	ID         string       `json:"id,omitzero"`
	UserID     string       `json:"user_id,omitzero"`
	HospitalID string       `json:"hospital_id,omitzero"`
	FirstName  string       `json:"first_name,omitzero"`
	LastName   string       `json:"last_name,omitzero"`
	Email      string       `json:"email,omitzero"`
	Phone      *string      `json:"phone,omitempty"`
	Address    *string      `json:"address,omitempty"`
	IsActive   bool         `json:"is_active"`
	CreatedAt  time.Time    `json:"created_at,omitzero"`
	UpdatedAt  time.Time    `json:"updated_at,omitzero"`
	Hospital   *HospitalRef `json:"hospitals,omitempty"`
}

// SpecialtyType is a row in the specialty_types table.
type SpecialtyType struct {
	ID                string `json:"id,omitzero"`
	SpecialtyCode     string `json:"specialty_code,omitzero"`
	SpecialtyNameEN   string `json:"specialty_name_en,omitzero"`
	SpecialtyCategory string `json:"specialty_category,omitzero"`
	IsActive          bool   `json:"is_active"`
}

// DoctorSpecialty is a row in the doctor_specialties join table.
type DoctorSpecialty struct {
	ID          string         `json:"id,omitzero"`
	DoctorID    string         `json:"doctor_id,omitzero"`
	SpecialtyID string         `json:"specialty_id,omitzero"`
	IsPrimary   bool           `json:"is_primary"`
	Specialty   *SpecialtyType `json:"specialty_types,omitempty"`
}

// DoctorRef is the embedded doctor shape returned by relational selects.
type DoctorRef struct {
	ID        string `json:"id,omitzero"`
	FirstName string `json:"first_name,omitzero"`
	LastName  string `json:"last_name,omitzero"`
}
