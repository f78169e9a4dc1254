package model

import "time"

// Country is a row in the countries table.
type Country struct {
	ID            string `json:"id,omitzero"`
	CountryCode   string `json:"country_code,omitzero"`
	CountryNameEN string `json:"country_name_en,omitzero"`
	CountryNameAR string `json:"country_name_ar,omitzero"`
	PhoneCode     string `json:"phone_code,omitzero"`
	IsActive      bool   `json:"is_active"`
}

// Region is a row in the regions table.
type Region struct {
	ID           string      `json:"id,omitzero"`
	CountryID    string      `json:"country_id,omitzero"`
	RegionCode   string      `json:"region_code,omitzero"`
	RegionNameEN string      `json:"region_name_en,omitzero"`
	RegionNameAR string      `json:"region_name_ar,omitzero"`
	IsActive     bool        `json:"is_active"`
	Country      *CountryRef `json:"countries,omitempty"`
}

// Hospital is a row in the hospitals table.
type Hospital struct {
	ID             string         `json:"id,omitzero"`
	RegionID       string         `json:"region_id,omitzero"`
	HospitalCode   string         `json:"hospital_code,omitzero"`
	HospitalNameEN string         `json:"hospital_name_en,omitzero"`
	HospitalNameAR string         `json:"hospital_name_ar,omitzero"`
	Address        *string        `json:"address,omitempty"`
	Phone          *string        `json:"phone,omitempty"`
	Email          *string        `json:"email,omitempty"`
	LicenseNumber  *string        `json:"license_number,omitempty"`
	Settings       map[string]any `json:"settings,omitempty"`
	IsActive       bool           `json:"is_active"`
	CreatedAt      time.Time      `json:"created_at,omitzero"`
	UpdatedAt      time.Time      `json:"updated_at,omitzero"`
	Region         *RegionRef     `json:"regions,omitempty"`
}

// Embedded-resource shapes returned by relational selects.

type CountryRef struct {
	CountryNameEN string `json:"country_name_en,omitzero"`
}

type RegionRef struct {
	RegionNameEN string      `json:"region_name_en,omitzero"`
	Country      *CountryRef `json:"countries,omitempty"`
}

type HospitalRef struct {
	HospitalCode   string `json:"hospital_code,omitzero"`
	HospitalNameEN string `json:"hospital_name_en,omitzero"`
}
