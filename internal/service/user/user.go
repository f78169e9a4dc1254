// Package user serves the clinical staff directory and profile
// self-service. Identity lives in the identity store; this package
// only touches the profile tables.
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/nyaruka/phonenumbers"

	"github.com/biointellect/hospital_backend/config"
	"github.com/biointellect/hospital_backend/internal/model"
	"github.com/biointellect/hospital_backend/pkg/supabase"
	"github.com/biointellect/hospital_backend/pkg/util/roles"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type ListStaffRequest struct {
	HospitalID string
	IsActive   *bool
	Limit      int
	Offset     int
}

type ListDoctorsRequest struct {
	ListStaffRequest
	SpecialtyCode string
}

type UpdateProfileRequest struct {
	UserID    string
	Role      roles.Role
	FirstName *string
	LastName  *string
	Phone     *string
	Address   *string
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	ListDoctors(ctx context.Context, req ListDoctorsRequest) ([]model.Doctor, error)
	GetDoctor(ctx context.Context, doctorID string) (*model.Doctor, error)
	ListNurses(ctx context.Context, req ListStaffRequest) ([]model.Nurse, error)
	ListAdministrators(ctx context.Context, req ListStaffRequest) ([]model.Administrator, error)
	ListSpecialties(ctx context.Context, category string, isActive bool) ([]model.SpecialtyType, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (map[string]any, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type userService struct {
	sb          *supabase.Client
	phoneRegion string
}

func New(sb *supabase.Client, cfg *config.Config) Service {
	return &userService{
		sb:          sb,
		phoneRegion: cfg.Authentication.DefaultPhoneRegion,
	}
}

func (s *userService) ListDoctors(ctx context.Context, req ListDoctorsRequest) ([]model.Doctor, error) {
	limit, active := staffBounds(req.ListStaffRequest)

	q := s.sb.Rest.From("doctors").
		Select("*, hospitals(hospital_name_en), doctor_specialties(specialty_types(specialty_code, specialty_name_en))").
		Eq("is_active", active)
	if req.HospitalID != "" {
		q.Eq("hospital_id", req.HospitalID)
	}

	var doctors []model.Doctor
	if err := q.Limit(limit).Offset(req.Offset).Get(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}

	// The relational store cannot filter on a doubly nested column, so
	// specialty filtering happens here.
	if req.SpecialtyCode != "" {
		filtered := doctors[:0]
		for _, d := range doctors {
			for _, sp := range d.Specialties {
				if sp.Specialty != nil && sp.Specialty.SpecialtyCode == req.SpecialtyCode {
					filtered = append(filtered, d)
					break
				}
			}
		}
		doctors = filtered
	}
	return doctors, nil
}

func (s *userService) GetDoctor(ctx context.Context, doctorID string) (*model.Doctor, error) {
	var d model.Doctor
	err := s.sb.Rest.From("doctors").
		Select("*, hospitals(hospital_name_en), doctor_specialties(specialty_types(*))").
		Eq("id", doctorID).
		Single().
		Get(ctx, &d)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	return &d, nil
}

func (s *userService) ListNurses(ctx context.Context, req ListStaffRequest) ([]model.Nurse, error) {
	limit, active := staffBounds(req)

	q := s.sb.Rest.From("nurses").
		Select("*, hospitals(hospital_name_en)").
		Eq("is_active", active)
	if req.HospitalID != "" {
		q.Eq("hospital_id", req.HospitalID)
	}

	var nurses []model.Nurse
	if err := q.Limit(limit).Offset(req.Offset).Get(ctx, &nurses); err != nil {
		return nil, fmt.Errorf("list nurses: %w", err)
	}
	return nurses, nil
}

func (s *userService) ListAdministrators(ctx context.Context, req ListStaffRequest) ([]model.Administrator, error) {
	limit, active := staffBounds(req)

	q := s.sb.Rest.From("administrators").
		Select("*, hospitals(hospital_name_en)").
		Eq("is_active", active)
	if req.HospitalID != "" {
		q.Eq("hospital_id", req.HospitalID)
	}

	var admins []model.Administrator
	if err := q.Limit(limit).Offset(req.Offset).Get(ctx, &admins); err != nil {
		return nil, fmt.Errorf("list administrators: %w", err)
	}
	return admins, nil
}

func (s *userService) ListSpecialties(ctx context.Context, category string, isActive bool) ([]model.SpecialtyType, error) {
	q := s.sb.Rest.From("specialty_types").Eq("is_active", isActive)
	if category != "" {
		q.Eq("specialty_category", category)
	}

	var specialties []model.SpecialtyType
	if err := q.Get(ctx, &specialties); err != nil {
		return nil, fmt.Errorf("list specialties: %w", err)
	}
	return specialties, nil
}

// UpdateProfile patches the caller's own profile row in whichever
// table their role maps to.
func (s *userService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (map[string]any, error) {
	patch := map[string]any{}
	if req.FirstName != nil {
		patch["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		patch["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		num, err := phonenumbers.Parse(*req.Phone, s.phoneRegion)
		if err != nil || !phonenumbers.IsValidNumber(num) {
			return nil, ErrInvalidPhone
		}
		patch["phone"] = phonenumbers.Format(num, phonenumbers.E164)
	}
	if req.Address != nil {
		patch["address"] = *req.Address
	}
	if len(patch) == 0 {
		return nil, ErrNothingToUpdate
	}

	table := roles.ProfileTable(req.Role)
	if table == "" {
		table = "patients"
	}

	var updated []map[string]any
	if err := s.sb.Rest.From(table).Eq("user_id", req.UserID).Update(ctx, patch, &updated); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if len(updated) == 0 {
		return nil, ErrProfileNotFound
	}
	return updated[0], nil
}

func staffBounds(req ListStaffRequest) (limit int, active bool) {
	limit = req.Limit
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	active = true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return limit, active
}
