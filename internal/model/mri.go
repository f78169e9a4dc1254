package model

import "time"

// MRIScan is a row in the mri_scans table.
type MRIScan struct {
	ID               string         `json:"id,omitzero"`
	FileID           string         `json:"file_id,omitzero"`
	PatientID        string         `json:"patient_id,omitzero"`
	CaseID           *string        `json:"case_id,omitempty"`
	ScanType         string         `json:"scan_type,omitzero"`
	SequenceType     string         `json:"sequence_type,omitzero"`
	BodyPart         *string        `json:"body_part,omitempty"`
	SliceCount       *int           `json:"slice_count,omitempty"`
	SliceThicknessMM *float64       `json:"slice_thickness_mm,omitempty"`
	FieldStrength    float64        `json:"field_strength,omitzero"`
	ScanDate         string         `json:"scan_date,omitzero"`
	DeviceInfo       map[string]any `json:"device_info,omitempty"`
	DicomMetadata    map[string]any `json:"dicom_metadata,omitempty"`
	CreatedAt        time.Time      `json:"created_at,omitzero"`
}

// SegmentedRegion is one entry of an MRI result's segmented_regions column.
type SegmentedRegion struct {
	Region   string  `json:"region"`
	VolumeML float64 `json:"volume_ml"`
	AreaCM2  float64 `json:"area_cm2"`
}

// MRIResult is a row in the mri_segmentation_results table.
type MRIResult struct {
	ID                   string            `json:"id,omitzero"`
	ScanID               string            `json:"scan_id,omitzero"`
	PatientID            string            `json:"patient_id,omitzero"`
	CaseID               *string           `json:"case_id,omitempty"`
	AnalyzedByModel      string            `json:"analyzed_by_model,omitzero"`
	ModelVersion         string            `json:"model_version,omitzero"`
	AnalysisStatus       string            `json:"analysis_status,omitzero"`
	SegmentationMaskPath *string           `json:"segmentation_mask_path,omitempty"`
	SegmentedRegions     []SegmentedRegion `json:"segmented_regions,omitempty"`
	DetectedAbnormalities []map[string]any `json:"detected_abnormalities,omitempty"`
	Measurements         map[string]any    `json:"measurements,omitempty"`
	AIInterpretation     *string           `json:"ai_interpretation,omitempty"`
	AIRecommendations    []string          `json:"ai_recommendations,omitempty"`
	SeverityScore        *float64          `json:"severity_score,omitempty"`
	ProcessingTimeMS     *int              `json:"processing_time_ms,omitempty"`
	IsReviewed           bool              `json:"is_reviewed"`
	ReviewedByDoctorID   *string           `json:"reviewed_by_doctor_id,omitempty"`
	ReviewedAt           *time.Time        `json:"reviewed_at,omitempty"`
	DoctorNotes          *string           `json:"doctor_notes,omitempty"`
	DoctorAgreesWithAI   *bool             `json:"doctor_agrees_with_ai,omitempty"`
	CreatedAt            time.Time         `json:"created_at,omitzero"`

	Scan    *MRIScan    `json:"mri_scans,omitempty"`
	Patient *PatientRef `json:"patients,omitempty"`
	Reviewer *DoctorRef `json:"doctors,omitempty"`
}
