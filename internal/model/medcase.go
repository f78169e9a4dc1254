package model

import "time"

// Case statuses.
const (
	CaseStatusOpen          = "open"
	CaseStatusInProgress    = "in_progress"
	CaseStatusPendingReview = "pending_review"
	CaseStatusClosed        = "closed"
	CaseStatusArchived      = "archived"
)

// Case priorities.
const (
	CasePriorityLow      = "low"
	CasePriorityNormal   = "normal"
	CasePriorityHigh     = "high"
	CasePriorityCritical = "critical"
)

// MedicalCase is a row in the medical_cases table.
type MedicalCase struct {
	ID                string       `json:"id,omitzero"`
	CaseNumber        string       `json:"case_number,omitzero"`
	PatientID         string       `json:"patient_id,omitzero"`
	HospitalID        string       `json:"hospital_id,omitzero"`
	AssignedDoctorID  *string      `json:"assigned_doctor_id,omitempty"`
	CreatedByDoctorID *string      `json:"created_by_doctor_id,omitempty"`
	Status            string       `json:"status,omitzero"`
	Priority          string       `json:"priority,omitzero"`
	ChiefComplaint    *string      `json:"chief_complaint,omitempty"`
	Diagnosis         *string      `json:"diagnosis,omitempty"`
	DiagnosisICD10    *string      `json:"diagnosis_icd10,omitempty"`
	TreatmentPlan     *string      `json:"treatment_plan,omitempty"`
	Notes             *string      `json:"notes,omitempty"`
	Tags              []string     `json:"tags,omitempty"`
	FollowUpDate      *string      `json:"follow_up_date,omitempty"`
	IsArchived        bool         `json:"is_archived"`
	CreatedAt         time.Time    `json:"created_at,omitzero"`
	UpdatedAt         time.Time    `json:"updated_at,omitzero"`
	Patient           *PatientRef  `json:"patients,omitempty"`
	AssignedDoctor    *DoctorRef   `json:"doctors,omitempty"`
	Hospital          *HospitalRef `json:"hospitals,omitempty"`

	Files []MedicalFile `json:"files,omitempty"`
}
