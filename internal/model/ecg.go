package model

import "time"

// Analysis statuses shared by ECG and MRI results.
const (
	AnalysisStatusPending    = "pending"
	AnalysisStatusProcessing = "processing"
	AnalysisStatusCompleted  = "completed"
	AnalysisStatusFailed     = "failed"
)

// ECGSignal is a row in the ecg_signals table.
type ECGSignal struct {
	ID              string         `json:"id,omitzero"`
	FileID          string         `json:"file_id,omitzero"`
	PatientID       string         `json:"patient_id,omitzero"`
	CaseID          *string        `json:"case_id,omitempty"`
	SignalData      map[string]any `json:"signal_data,omitempty"`
	SamplingRate    int            `json:"sampling_rate,omitzero"`
	DurationSeconds float64        `json:"duration_seconds,omitzero"`
	LeadCount       int            `json:"lead_count,omitzero"`
	LeadsAvailable  []string       `json:"leads_available,omitempty"`
	RecordingDate   string         `json:"recording_date,omitzero"`
	DeviceInfo      map[string]any `json:"device_info,omitempty"`
	QualityScore    *float64       `json:"quality_score,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	CreatedAt       time.Time      `json:"created_at,omitzero"`
}

// ECGCondition is one entry of an ECG result's detected_conditions column.
type ECGCondition struct {
	Condition  string  `json:"condition"`
	Confidence float64 `json:"confidence"`
	Severity   string  `json:"severity"`
}

// ECGResult is a row in the ecg_results table.
type ECGResult struct {
	ID                   string         `json:"id,omitzero"`
	SignalID             string         `json:"signal_id,omitzero"`
	PatientID            string         `json:"patient_id,omitzero"`
	CaseID               *string        `json:"case_id,omitempty"`
	AnalyzedByModel      string         `json:"analyzed_by_model,omitzero"`
	ModelVersion         string         `json:"model_version,omitzero"`
	AnalysisStatus       string         `json:"analysis_status,omitzero"`
	HeartRate            *int           `json:"heart_rate,omitempty"`
	HeartRateVariability *float64       `json:"heart_rate_variability,omitempty"`
	RhythmClassification *string        `json:"rhythm_classification,omitempty"`
	RhythmConfidence     *float64       `json:"rhythm_confidence,omitempty"`
	DetectedConditions   []ECGCondition `json:"detected_conditions,omitempty"`
	PRInterval           *int           `json:"pr_interval,omitempty"`
	QRSDuration          *int           `json:"qrs_duration,omitempty"`
	QTInterval           *int           `json:"qt_interval,omitempty"`
	QTcInterval          *int           `json:"qtc_interval,omitempty"`
	AIInterpretation     *string        `json:"ai_interpretation,omitempty"`
	AIRecommendations    []string       `json:"ai_recommendations,omitempty"`
	RiskScore            *float64       `json:"risk_score,omitempty"`
	ProcessingTimeMS     *int           `json:"processing_time_ms,omitempty"`
	IsReviewed           bool           `json:"is_reviewed"`
	ReviewedByDoctorID   *string        `json:"reviewed_by_doctor_id,omitempty"`
	ReviewedAt           *time.Time     `json:"reviewed_at,omitempty"`
	DoctorNotes          *string        `json:"doctor_notes,omitempty"`
	DoctorAgreesWithAI   *bool          `json:"doctor_agrees_with_ai,omitempty"`
	CreatedAt            time.Time      `json:"created_at,omitzero"`

	Signal   *ECGSignal  `json:"ecg_signals,omitempty"`
	Patient  *PatientRef `json:"patients,omitempty"`
	Reviewer *DoctorRef  `json:"doctors,omitempty"`
}
