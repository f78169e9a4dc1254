package model

import "time"

// Medical file types.
const (
	FileTypeECGSignal = "ecg_signal"
	FileTypeMRIScan   = "mri_scan"
	FileTypeLabReport = "lab_report"
	FileTypeXRay      = "xray"
	FileTypeCTScan    = "ct_scan"
	FileTypeOther     = "other"
)

// MedicalFile is a row in the medical_files table. The binary payload
// lives in the blob store under StoragePath; this row is metadata only.
type MedicalFile struct {
	ID            string         `json:"id,omitzero"`
	CaseID        string         `json:"case_id,omitzero"`
	PatientID     string         `json:"patient_id,omitzero"`
	UploadedBy    string         `json:"uploaded_by,omitzero"`
	FileType      string         `json:"file_type,omitzero"`
	FileName      string         `json:"file_name,omitzero"`
	FilePath      string         `json:"file_path,omitzero"`
	FileSize      int64          `json:"file_size,omitzero"`
	MimeType      string         `json:"mime_type,omitzero"`
	StorageBucket string         `json:"storage_bucket,omitzero"`
	Description   *string        `json:"description,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	IsAnalyzed    bool           `json:"is_analyzed"`
	AnalyzedAt    *time.Time     `json:"analyzed_at,omitempty"`
	IsDeleted     bool           `json:"is_deleted"`
	DeletedAt     *time.Time     `json:"deleted_at,omitempty"`
	DeletedBy     *string        `json:"deleted_by,omitempty"`
	CreatedAt     time.Time      `json:"created_at,omitzero"`
}
