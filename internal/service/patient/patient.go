package patient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/biointellect/hospital_backend/config"
	"github.com/biointellect/hospital_backend/internal/model"
	"github.com/biointellect/hospital_backend/pkg/crypto"
	"github.com/biointellect/hospital_backend/pkg/supabase"
	"github.com/biointellect/hospital_backend/pkg/util/codes"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

// listSelect keeps patient listings lean; the full row only comes back
// from GetByID.
const listSelect = "id, mrn, first_name, last_name, email, phone, gender, date_of_birth, blood_type, is_active, created_at, hospitals(hospital_name_en), doctors!patients_primary_doctor_id_fkey(first_name, last_name)"

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type ListRequest struct {
	HospitalID      string
	PrimaryDoctorID string
	IsActive        bool
	Search          string
	Limit           int
	Offset          int
}

type ListResult struct {
	Data  []model.Patient
	Count int
}

type CreateRequest struct {
	FirstName                string
	LastName                 string
	Email                    *string
	Phone                    *string
	HospitalID               string
	Gender                   string
	DateOfBirth              *string
	BloodType                string
	NationalID               *string // plain identifier, encrypted before storage
	Address                  *string
	City                     *string
	EmergencyContactName     *string
	EmergencyContactPhone    *string
	EmergencyContactRelation *string
	Allergies                []string
	ChronicConditions        []string
	InsuranceProvider        *string
	InsuranceNumber          *string
	PrimaryDoctorID          *string
	Notes                    *string
}

type UpdateRequest struct {
	FirstName                *string
	LastName                 *string
	Phone                    *string
	Gender                   *string
	DateOfBirth              *string
	BloodType                *string
	NationalID               *string
	Address                  *string
	City                     *string
	EmergencyContactName     *string
	EmergencyContactPhone    *string
	EmergencyContactRelation *string
	Allergies                []string
	ChronicConditions        []string
	CurrentMedications       []map[string]any
	InsuranceProvider        *string
	InsuranceNumber          *string
	PrimaryDoctorID          *string
	Notes                    *string
	IsActive                 *bool
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context, req ListRequest) (*ListResult, error)
	GetByID(ctx context.Context, patientID string) (*model.Patient, error)
	Create(ctx context.Context, req CreateRequest) (*model.Patient, error)
	Update(ctx context.Context, patientID string, req UpdateRequest) (*model.Patient, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type patientService struct {
	sb     *supabase.Client
	cfg    *config.Config
	encKey []byte
}

func New(sb *supabase.Client, cfg *config.Config) (Service, error) {
	encKey, err := crypto.KeyFromHex(cfg.Authentication.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("patient service: invalid encryption key: %w", err)
	}
	return &patientService{sb: sb, cfg: cfg, encKey: encKey}, nil
}

func (s *patientService) List(ctx context.Context, req ListRequest) (*ListResult, error) {
	limit := req.Limit
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}

	q := s.sb.Rest.From("patients").
		Select(listSelect).
		Eq("is_active", req.IsActive)

	if req.HospitalID != "" {
		q.Eq("hospital_id", req.HospitalID)
	}
	if req.PrimaryDoctorID != "" {
		q.Eq("primary_doctor_id", req.PrimaryDoctorID)
	}
	if req.Search != "" {
		pattern := "*" + req.Search + "*"
		q.Or(fmt.Sprintf("first_name.ilike.%s,last_name.ilike.%s,mrn.ilike.%s", pattern, pattern, pattern))
	}

	var patients []model.Patient
	if err := q.Order("created_at", true).Limit(limit).Offset(req.Offset).Get(ctx, &patients); err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return &ListResult{Data: patients, Count: len(patients)}, nil
}

func (s *patientService) GetByID(ctx context.Context, patientID string) (*model.Patient, error) {
	var p model.Patient
	err := s.sb.Rest.From("patients").
		Select("*, hospitals(hospital_name_en), doctors!patients_primary_doctor_id_fkey(id, first_name, last_name)").
		Eq("id", patientID).
		Single().
		Get(ctx, &p)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return &p, nil
}

func (s *patientService) Create(ctx context.Context, req CreateRequest) (*model.Patient, error) {
	hospitalCode, err := s.hospitalCode(ctx, req.HospitalID)
	if err != nil {
		return nil, err
	}

	row := model.Patient{
		HospitalID:               req.HospitalID,
		FirstName:                req.FirstName,
		LastName:                 req.LastName,
		Email:                    req.Email,
		Phone:                    req.Phone,
		Gender:                   orDefault(req.Gender, "male"),
		DateOfBirth:              req.DateOfBirth,
		BloodType:                orDefault(req.BloodType, "unknown"),
		Address:                  req.Address,
		City:                     req.City,
		EmergencyContactName:     req.EmergencyContactName,
		EmergencyContactPhone:    req.EmergencyContactPhone,
		EmergencyContactRelation: req.EmergencyContactRelation,
		Allergies:                req.Allergies,
		ChronicConditions:        req.ChronicConditions,
		InsuranceProvider:        req.InsuranceProvider,
		InsuranceNumber:          req.InsuranceNumber,
		PrimaryDoctorID:          req.PrimaryDoctorID,
		Notes:                    req.Notes,
		IsActive:                 true,
	}

	if req.NationalID != nil && *req.NationalID != "" {
		enc, err := crypto.Encrypt(s.encKey, *req.NationalID)
		if err != nil {
			return nil, fmt.Errorf("encrypt national id: %w", err)
		}
		row.NationalID = &enc
	}

	// The MRN is a random draw with no store-side reservation, so a
	// unique conflict gets one retry with a fresh draw before it is
	// treated as a genuine duplicate.
	var created []model.Patient
	for attempt := 0; ; attempt++ {
		mrn, err := codes.GenerateMRN(hospitalCode, s.cfg.Codes.DefaultHospitalCode, time.Now())
		if err != nil {
			return nil, fmt.Errorf("generate mrn: %w", err)
		}
		row.MRN = mrn

		err = s.sb.Rest.From("patients").Insert(ctx, row, &created)
		if err == nil {
			break
		}
		if errors.Is(err, supabase.ErrUniqueViolation) {
			if attempt == 0 {
				continue
			}
			return nil, ErrDuplicatePatient
		}
		return nil, fmt.Errorf("create patient: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("create patient: empty response")
	}
	return &created[0], nil
}

func (s *patientService) Update(ctx context.Context, patientID string, req UpdateRequest) (*model.Patient, error) {
	patch := map[string]any{}
	setIf(patch, "first_name", req.FirstName)
	setIf(patch, "last_name", req.LastName)
	setIf(patch, "phone", req.Phone)
	setIf(patch, "gender", req.Gender)
	setIf(patch, "date_of_birth", req.DateOfBirth)
	setIf(patch, "blood_type", req.BloodType)
	setIf(patch, "address", req.Address)
	setIf(patch, "city", req.City)
	setIf(patch, "emergency_contact_name", req.EmergencyContactName)
	setIf(patch, "emergency_contact_phone", req.EmergencyContactPhone)
	setIf(patch, "emergency_contact_relation", req.EmergencyContactRelation)
	setIf(patch, "insurance_provider", req.InsuranceProvider)
	setIf(patch, "insurance_number", req.InsuranceNumber)
	setIf(patch, "primary_doctor_id", req.PrimaryDoctorID)
	setIf(patch, "notes", req.Notes)
	if req.Allergies != nil {
		patch["allergies"] = req.Allergies
	}
	if req.ChronicConditions != nil {
		patch["chronic_conditions"] = req.ChronicConditions
	}
	if req.CurrentMedications != nil {
		patch["current_medications"] = req.CurrentMedications
	}
	if req.IsActive != nil {
		patch["is_active"] = *req.IsActive
	}
	if req.NationalID != nil && *req.NationalID != "" {
		enc, err := crypto.Encrypt(s.encKey, *req.NationalID)
		if err != nil {
			return nil, fmt.Errorf("encrypt national id: %w", err)
		}
		patch["national_id"] = enc
	}

	if len(patch) == 0 {
		return nil, ErrNothingToUpdate
	}

	var updated []model.Patient
	if err := s.sb.Rest.From("patients").Eq("id", patientID).Update(ctx, patch, &updated); err != nil {
		return nil, fmt.Errorf("update patient: %w", err)
	}
	if len(updated) == 0 {
		return nil, ErrPatientNotFound
	}
	return &updated[0], nil
}

func (s *patientService) hospitalCode(ctx context.Context, hospitalID string) (string, error) {
	var h struct {
		HospitalCode string `json:"hospital_code"`
	}
	err := s.sb.Rest.From("hospitals").Select("hospital_code").Eq("id", hospitalID).Single().Get(ctx, &h)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return "", ErrHospitalNotFound
		}
		return "", fmt.Errorf("load hospital: %w", err)
	}
	return h.HospitalCode, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func setIf(patch map[string]any, key string, v *string) {
	if v != nil {
		patch[key] = *v
	}
}
