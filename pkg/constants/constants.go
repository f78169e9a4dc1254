// Package constants holds process-wide constants shared by config,
// bootstrap, and the HTTP layer.
package constants

const (
	// AppName is used for logger attribution, telemetry service name
	// defaults, and NATS client naming.
	AppName = "biointellect"

	// ConfigName / ConfigFormat locate the config file (config.yaml)
	// inside the directory passed via --config.
	ConfigName   = "config"
	ConfigFormat = "yaml"

	// EnvPrefix is the prefix for environment overrides,
	// e.g. BIOINTELLECT_SERVER_PORT overrides server.port.
	EnvPrefix = "BIOINTELLECT"

	// DefaultHospitalCode is used for identifier generation when the
	// hospital has no code of its own.
	DefaultHospitalCode = "GEN"

	// MedicalFilesBucket is the blob store bucket for uploaded files.
	MedicalFilesBucket = "medical-files"
)

// NATS subjects. Wildcarded forms are what the workers subscribe with.
const (
	SubjectUserProvisioned  = "biointellect.user.provisioned"
	SubjectAccessRequested  = "biointellect.access.requested"
	SubjectAccessResponded  = "biointellect.access.responded"
	SubjectAnalysisComplete = "biointellect.analysis.completed"
)
