// Package geo serves the country, region, and hospital reference data.
// Countries and regions are read-only seed data; hospitals are managed
// by administrators.
package geo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/biointellect/hospital_backend/internal/model"
	"github.com/biointellect/hospital_backend/pkg/supabase"
	"github.com/biointellect/hospital_backend/pkg/util/codes"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type ListHospitalsRequest struct {
	RegionID string
	IsActive *bool
	Search   string
	Limit    int
	Offset   int
}

type ListHospitalsResult struct {
	Data  []model.Hospital
	Count int
}

type CreateHospitalRequest struct {
	RegionID       string
	HospitalCode   string
	HospitalNameEN string
	HospitalNameAR string
	Address        *string
	Phone          *string
	Email          *string
	LicenseNumber  *string
}

type UpdateHospitalRequest struct {
	HospitalNameEN *string
	HospitalNameAR *string
	Address        *string
	Phone          *string
	Email          *string
	LicenseNumber  *string
	IsActive       *bool
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	ListCountries(ctx context.Context, isActive bool) ([]model.Country, error)
	GetCountry(ctx context.Context, countryID string) (*model.Country, error)
	ListRegions(ctx context.Context, countryID string, isActive bool) ([]model.Region, error)
	GetRegion(ctx context.Context, regionID string) (*model.Region, error)
	ListHospitals(ctx context.Context, req ListHospitalsRequest) (*ListHospitalsResult, error)
	GetHospital(ctx context.Context, hospitalID string) (*model.Hospital, error)
	CreateHospital(ctx context.Context, req CreateHospitalRequest) (*model.Hospital, error)
	UpdateHospital(ctx context.Context, hospitalID string, req UpdateHospitalRequest) (*model.Hospital, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type geoService struct {
	sb *supabase.Client
}

func New(sb *supabase.Client) Service {
	return &geoService{sb: sb}
}

func (s *geoService) ListCountries(ctx context.Context, isActive bool) ([]model.Country, error) {
	var countries []model.Country
	err := s.sb.Rest.From("countries").
		Select("id, country_code, country_name_en, country_name_ar, phone_code, is_active").
		Eq("is_active", isActive).
		Order("country_name_en", false).
		Get(ctx, &countries)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	return countries, nil
}

func (s *geoService) GetCountry(ctx context.Context, countryID string) (*model.Country, error) {
	var c model.Country
	err := s.sb.Rest.From("countries").Eq("id", countryID).Single().Get(ctx, &c)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return nil, ErrCountryNotFound
		}
		return nil, fmt.Errorf("get country: %w", err)
	}
	return &c, nil
}

func (s *geoService) ListRegions(ctx context.Context, countryID string, isActive bool) ([]model.Region, error) {
	q := s.sb.Rest.From("regions").
		Select("id, country_id, region_code, region_name_en, region_name_ar, is_active, countries(country_name_en)").
		Eq("is_active", isActive)
	if countryID != "" {
		q.Eq("country_id", countryID)
	}

	var regions []model.Region
	if err := q.Order("region_name_en", false).Get(ctx, &regions); err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	return regions, nil
}

func (s *geoService) GetRegion(ctx context.Context, regionID string) (*model.Region, error) {
	var r model.Region
	err := s.sb.Rest.From("regions").
		Select("*, countries(*)").
		Eq("id", regionID).
		Single().
		Get(ctx, &r)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return nil, ErrRegionNotFound
		}
		return nil, fmt.Errorf("get region: %w", err)
	}
	return &r, nil
}

func (s *geoService) ListHospitals(ctx context.Context, req ListHospitalsRequest) (*ListHospitalsResult, error) {
	limit := req.Limit
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	q := s.sb.Rest.From("hospitals").
		Select("id, hospital_code, hospital_name_en, hospital_name_ar, address, phone, email, is_active, regions(region_name_en, countries(country_name_en))").
		Eq("is_active", active)

	if req.RegionID != "" {
		q.Eq("region_id", req.RegionID)
	}
	if req.Search != "" {
		q.ILike("hospital_name_en", "%"+req.Search+"%")
	}

	var hospitals []model.Hospital
	if err := q.Order("hospital_name_en", false).Limit(limit).Offset(req.Offset).Get(ctx, &hospitals); err != nil {
		return nil, fmt.Errorf("list hospitals: %w", err)
	}
	return &ListHospitalsResult{Data: hospitals, Count: len(hospitals)}, nil
}

func (s *geoService) GetHospital(ctx context.Context, hospitalID string) (*model.Hospital, error) {
	var h model.Hospital
	err := s.sb.Rest.From("hospitals").
		Select("*, regions(*, countries(*))").
		Eq("id", hospitalID).
		Single().
		Get(ctx, &h)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return nil, ErrHospitalNotFound
		}
		return nil, fmt.Errorf("get hospital: %w", err)
	}
	return &h, nil
}

func (s *geoService) CreateHospital(ctx context.Context, req CreateHospitalRequest) (*model.Hospital, error) {
	row := model.Hospital{
		RegionID:       req.RegionID,
		HospitalCode:   codes.NormalizeCode(req.HospitalCode),
		HospitalNameEN: req.HospitalNameEN,
		HospitalNameAR: req.HospitalNameAR,
		Address:        req.Address,
		Phone:          req.Phone,
		Email:          req.Email,
		LicenseNumber:  req.LicenseNumber,
		Settings:       map[string]any{},
		IsActive:       true,
	}

	var created []model.Hospital
	if err := s.sb.Rest.From("hospitals").Insert(ctx, row, &created); err != nil {
		if errors.Is(err, supabase.ErrUniqueViolation) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("create hospital: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("create hospital: empty response")
	}
	slog.Info("hospital created", "hospital_code", created[0].HospitalCode)
	return &created[0], nil
}

func (s *geoService) UpdateHospital(ctx context.Context, hospitalID string, req UpdateHospitalRequest) (*model.Hospital, error) {
	patch := map[string]any{}
	if req.HospitalNameEN != nil {
		patch["hospital_name_en"] = *req.HospitalNameEN
	}
	if req.HospitalNameAR != nil {
		patch["hospital_name_ar"] = *req.HospitalNameAR
	}
	if req.Address != nil {
		patch["address"] = *req.Address
	}
	if req.Phone != nil {
		patch["phone"] = *req.Phone
	}
	if req.Email != nil {
		patch["email"] = *req.Email
	}
	if req.LicenseNumber != nil {
		patch["license_number"] = *req.LicenseNumber
	}
	if req.IsActive != nil {
		patch["is_active"] = *req.IsActive
	}
	if len(patch) == 0 {
		return nil, ErrNothingToUpdate
	}

	var updated []model.Hospital
	if err := s.sb.Rest.From("hospitals").Eq("id", hospitalID).Update(ctx, patch, &updated); err != nil {
		return nil, fmt.Errorf("update hospital: %w", err)
	}
	if len(updated) == 0 {
		return nil, ErrHospitalNotFound
	}
	return &updated[0], nil
}
