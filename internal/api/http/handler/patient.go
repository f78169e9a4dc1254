package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/api/http/middleware"
	"github.com/biointellect/hospital_backend/internal/service/patient"
)

type PatientHandler struct {
	svc patient.Service
}

func NewPatientHandler(svc patient.Service) *PatientHandler {
	return &PatientHandler{svc: svc}
}

func mapPatientError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, patient.ErrPatientNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, patient.ErrHospitalNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, patient.ErrDuplicatePatient):
		return conflict(c, err.Error())
	case errors.Is(err, patient.ErrNothingToUpdate):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

// GET /api/v1/patients
func (h *PatientHandler) List(c fiber.Ctx) error {
	var q struct {
		HospitalID      string `query:"hospital_id"`
		PrimaryDoctorID string `query:"primary_doctor_id"`
		IsActive        *bool  `query:"is_active"`
		Search          string `query:"search"`
		Limit           int    `query:"limit"`
		Offset          int    `query:"offset"`
	}
	_ = c.Bind().Query(&q)

	// Staff see their own hospital unless scope says otherwise.
	hospitalID := middleware.HospitalIDFromFiber(c)
	if q.HospitalID != "" && hospitalID == "" {
		hospitalID = q.HospitalID
	}

	active := true
	if q.IsActive != nil {
		active = *q.IsActive
	}

	result, err := h.svc.List(c.Context(), patient.ListRequest{
		HospitalID:      hospitalID,
		PrimaryDoctorID: q.PrimaryDoctorID,
		IsActive:        active,
		Search:          q.Search,
		Limit:           q.Limit,
		Offset:          q.Offset,
	})
	if err != nil {
		return mapPatientError(c, err)
	}
	return okCount(c, result.Data, result.Count)
}

// GET /api/v1/patients/:id
func (h *PatientHandler) Get(c fiber.Ctx) error {
	p, err := h.svc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, p)
}

// POST /api/v1/patients
func (h *PatientHandler) Create(c fiber.Ctx) error {
	var body struct {
		FirstName                string   `json:"first_name"`
		LastName                 string   `json:"last_name"`
		Email                    *string  `json:"email"`
		Phone                    *string  `json:"phone"`
		HospitalID               string   `json:"hospital_id"`
		Gender                   string   `json:"gender"`
		DateOfBirth              *string  `json:"date_of_birth"`
		BloodType                string   `json:"blood_type"`
		NationalID               *string  `json:"national_id"`
		Address                  *string  `json:"address"`
		City                     *string  `json:"city"`
		EmergencyContactName     *string  `json:"emergency_contact_name"`
		EmergencyContactPhone    *string  `json:"emergency_contact_phone"`
		EmergencyContactRelation *string  `json:"emergency_contact_relation"`
		Allergies                []string `json:"allergies"`
		ChronicConditions        []string `json:"chronic_conditions"`
		InsuranceProvider        *string  `json:"insurance_provider"`
		InsuranceNumber          *string  `json:"insurance_number"`
		PrimaryDoctorID          *string  `json:"primary_doctor_id"`
		Notes                    *string  `json:"notes"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.FirstName == "" || body.LastName == "" {
		return badRequest(c, "first_name and last_name are required")
	}

	hospitalID := body.HospitalID
	if scoped := middleware.HospitalIDFromFiber(c); scoped != "" {
		hospitalID = scoped
	}
	if hospitalID == "" {
		return badRequest(c, "hospital_id is required")
	}

	p, err := h.svc.Create(c.Context(), patient.CreateRequest{
		FirstName:                body.FirstName,
		LastName:                 body.LastName,
		Email:                    body.Email,
		Phone:                    body.Phone,
		HospitalID:               hospitalID,
		Gender:                   body.Gender,
		DateOfBirth:              body.DateOfBirth,
		BloodType:                body.BloodType,
		NationalID:               body.NationalID,
		Address:                  body.Address,
		City:                     body.City,
		EmergencyContactName:     body.EmergencyContactName,
		EmergencyContactPhone:    body.EmergencyContactPhone,
		EmergencyContactRelation: body.EmergencyContactRelation,
		Allergies:                body.Allergies,
		ChronicConditions:        body.ChronicConditions,
		InsuranceProvider:        body.InsuranceProvider,
		InsuranceNumber:          body.InsuranceNumber,
		PrimaryDoctorID:          body.PrimaryDoctorID,
		Notes:                    body.Notes,
	})
	if err != nil {
		return mapPatientError(c, err)
	}
	return created(c, p)
}

// PUT /api/v1/patients/:id
func (h *PatientHandler) Update(c fiber.Ctx) error {
	var body struct {
		FirstName                *string          `json:"first_name"`
		LastName                 *string          `json:"last_name"`
		Phone                    *string          `json:"phone"`
		Gender                   *string          `json:"gender"`
		DateOfBirth              *string          `json:"date_of_birth"`
		BloodType                *string          `json:"blood_type"`
		NationalID               *string          `json:"national_id"`
		Address                  *string          `json:"address"`
		City                     *string          `json:"city"`
		EmergencyContactName     *string          `json:"emergency_contact_name"`
		EmergencyContactPhone    *string          `json:"emergency_contact_phone"`
		EmergencyContactRelation *string          `json:"emergency_contact_relation"`
		Allergies                []string         `json:"allergies"`
		ChronicConditions        []string         `json:"chronic_conditions"`
		CurrentMedications       []map[string]any `json:"current_medications"`
		InsuranceProvider        *string          `json:"insurance_provider"`
		InsuranceNumber          *string          `json:"insurance_number"`
		PrimaryDoctorID          *string          `json:"primary_doctor_id"`
		Notes                    *string          `json:"notes"`
		IsActive                 *bool            `json:"is_active"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	p, err := h.svc.Update(c.Context(), c.Params("id"), patient.UpdateRequest{
		FirstName:                body.FirstName,
		LastName:                 body.LastName,
		Phone:                    body.Phone,
		Gender:                   body.Gender,
		DateOfBirth:              body.DateOfBirth,
		BloodType:                body.BloodType,
		NationalID:               body.NationalID,
		Address:                  body.Address,
		City:                     body.City,
		EmergencyContactName:     body.EmergencyContactName,
		EmergencyContactPhone:    body.EmergencyContactPhone,
		EmergencyContactRelation: body.EmergencyContactRelation,
		Allergies:                body.Allergies,
		ChronicConditions:        body.ChronicConditions,
		CurrentMedications:       body.CurrentMedications,
		InsuranceProvider:        body.InsuranceProvider,
		InsuranceNumber:          body.InsuranceNumber,
		PrimaryDoctorID:          body.PrimaryDoctorID,
		Notes:                    body.Notes,
		IsActive:                 body.IsActive,
	})
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, p)
}
