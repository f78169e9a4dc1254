package model

import "time"

// Report statuses.
const (
	ReportStatusDraft         = "draft"
	ReportStatusPendingReview = "pending_review"
	ReportStatusApproved      = "approved"
	ReportStatusRejected      = "rejected"
)

// Report types.
const (
	ReportTypeECGAnalysis   = "ecg_analysis"
	ReportTypeMRIAnalysis   = "mri_analysis"
	ReportTypeComprehensive = "comprehensive"
)

// ReportSection is one entry of a report's content.sections list.
type ReportSection struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Findings any    `json:"findings,omitempty"`
}

// ReportContent is the structured content column of a generated report.
type ReportContent struct {
	Sections        []ReportSection `json:"sections"`
	Findings        []any           `json:"findings"`
	Conclusion      string          `json:"conclusion"`
	Recommendations []string        `json:"recommendations"`
}

// Report is a row in the generated_reports table.
type Report struct {
	ID                 string         `json:"id,omitzero"`
	ReportNumber       string         `json:"report_number,omitzero"`
	PatientID          string         `json:"patient_id,omitzero"`
	CaseID             *string        `json:"case_id,omitempty"`
	DoctorID           *string        `json:"doctor_id,omitempty"`
	ReportType         string         `json:"report_type,omitzero"`
	ECGResultID        *string        `json:"ecg_result_id,omitempty"`
	MRIResultID        *string        `json:"mri_result_id,omitempty"`
	Title              string         `json:"title,omitzero"`
	Summary            *string        `json:"summary,omitempty"`
	Content            *ReportContent `json:"content,omitempty"`
	GeneratedByModel   string         `json:"generated_by_model,omitzero"`
	ModelVersion       string         `json:"model_version,omitzero"`
	Status             string         `json:"status,omitzero"`
	ApprovedByDoctorID *string        `json:"approved_by_doctor_id,omitempty"`
	ApprovedAt         *time.Time     `json:"approved_at,omitempty"`
	ApprovalNotes      *string        `json:"approval_notes,omitempty"`
	DigitalSignature   *string        `json:"digital_signature,omitempty"`
	SignatureTimestamp *time.Time     `json:"signature_timestamp,omitempty"`
	SignedByDoctorID   *string        `json:"signed_by_doctor_id,omitempty"`
	IsFinal            bool           `json:"is_final"`
	Version            int            `json:"version,omitzero"`
	CreatedAt          time.Time      `json:"created_at,omitzero"`

	Patient *PatientRef `json:"patients,omitempty"`
	Doctor  *DoctorRef  `json:"doctors,omitempty"`
}
