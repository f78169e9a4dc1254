package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/api/http/middleware"
	svcfile "github.com/biointellect/hospital_backend/internal/service/file"
)

type FileHandler struct {
	svc svcfile.Service
}

func NewFileHandler(svc svcfile.Service) *FileHandler {
	return &FileHandler{svc: svc}
}

func mapFileError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, svcfile.ErrFileNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, svcfile.ErrInvalidFileType),
		errors.Is(err, svcfile.ErrEmptyUpload):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

// POST /api/v1/files/upload
func (h *FileHandler) Upload(c fiber.Ctx) error {
	p, okAuth := middleware.PrincipalFromFiber(c)
	if !okAuth {
		return unauthorized(c)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file field is required")
	}

	caseID := c.FormValue("case_id")
	patientID := c.FormValue("patient_id")
	fileType := c.FormValue("file_type")
	if caseID == "" || patientID == "" || fileType == "" {
		return badRequest(c, "case_id, patient_id and file_type are required")
	}

	req := svcfile.UploadRequest{
		CaseID:     caseID,
		PatientID:  patientID,
		UploaderID: p.UserID,
		FileType:   fileType,
	}
	if desc := c.FormValue("description"); desc != "" {
		req.Description = &desc
	}

	f, err := h.svc.Upload(c.Context(), fh, req)
	if err != nil {
		return mapFileError(c, err)
	}
	return created(c, f)
}

// GET /api/v1/files/:id
func (h *FileHandler) Get(c fiber.Ctx) error {
	f, err := h.svc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapFileError(c, err)
	}
	return ok(c, f)
}

// GET /api/v1/files/:id/download
func (h *FileHandler) Download(c fiber.Ctx) error {
	url, err := h.svc.GetDownloadURL(c.Context(), c.Params("id"))
	if err != nil {
		return mapFileError(c, err)
	}
	return ok(c, fiber.Map{"download_url": url})
}

// DELETE /api/v1/files/:id
func (h *FileHandler) Delete(c fiber.Ctx) error {
	p, okAuth := middleware.PrincipalFromFiber(c)
	if !okAuth {
		return unauthorized(c)
	}

	if err := h.svc.Delete(c.Context(), c.Params("id"), p.UserID); err != nil {
		return mapFileError(c, err)
	}
	return okMessage(c, "file deleted")
}

// GET /api/v1/cases/:id/files
func (h *FileHandler) ListCaseFiles(c fiber.Ctx) error {
	files, err := h.svc.ListCaseFiles(c.Context(), c.Params("id"))
	if err != nil {
		return mapFileError(c, err)
	}
	return okCount(c, files, len(files))
}
