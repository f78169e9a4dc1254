package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/biointellect/hospital_backend/internal/model"
	"github.com/biointellect/hospital_backend/pkg/constants"
	s3pkg "github.com/biointellect/hospital_backend/pkg/s3"
	"github.com/biointellect/hospital_backend/pkg/supabase"
)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrEmptyUpload     = errors.New("empty upload")
)

var validFileTypes = map[string]bool{
	model.FileTypeECGSignal: true,
	model.FileTypeMRIScan:   true,
	model.FileTypeLabReport: true,
	model.FileTypeXRay:      true,
	model.FileTypeCTScan:    true,
	model.FileTypeOther:     true,
}

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type UploadRequest struct {
	CaseID      string
	PatientID   string
	UploaderID  string // identity-store user ID
	FileType    string
	Description *string
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Upload(ctx context.Context, fh *multipart.FileHeader, req UploadRequest) (*model.MedicalFile, error)
	GetByID(ctx context.Context, fileID string) (*model.MedicalFile, error)
	GetDownloadURL(ctx context.Context, fileID string) (string, error)
	Delete(ctx context.Context, fileID, deletedBy string) error
	ListCaseFiles(ctx context.Context, caseID string) ([]model.MedicalFile, error)
	MarkAnalyzed(ctx context.Context, fileID string) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type fileService struct {
	sb *supabase.Client
	s3 *s3pkg.Client
}

func New(sb *supabase.Client, s3Client *s3pkg.Client) Service {
	return &fileService{sb: sb, s3: s3Client}
}

func (s *fileService) Upload(ctx context.Context, fh *multipart.FileHeader, req UploadRequest) (*model.MedicalFile, error) {
	if !validFileTypes[req.FileType] {
		return nil, ErrInvalidFileType
	}
	if fh.Size == 0 {
		return nil, ErrEmptyUpload
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	// Checksum and upload share one pass over the stream.
	hasher := sha256.New()
	reader := io.TeeReader(src, hasher)

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
	if ext == "" {
		ext = "bin"
	}
	uniqueName := fmt.Sprintf("%s_%s.%s", uuid.New().String(), time.Now().Format("20060102150405"), ext)
	storagePath := fmt.Sprintf("%s/%s/%s", req.PatientID, req.CaseID, uniqueName)

	mime := fh.Header.Get("Content-Type")
	if mime == "" {
		mime = "application/octet-stream"
	}

	if err := s.s3.Upload(ctx, storagePath, mime, reader, fh.Size); err != nil {
		return nil, fmt.Errorf("blob upload: %w", err)
	}

	row := model.MedicalFile{
		CaseID:        req.CaseID,
		PatientID:     req.PatientID,
		UploadedBy:    req.UploaderID,
		FileType:      req.FileType,
		FileName:      fh.Filename,
		FilePath:      storagePath,
		FileSize:      fh.Size,
		MimeType:      mime,
		StorageBucket: constants.MedicalFilesBucket,
		Description:   req.Description,
		Metadata:      map[string]any{"checksum": hex.EncodeToString(hasher.Sum(nil))},
		IsAnalyzed:    false,
		IsDeleted:     false,
	}

	var created []model.MedicalFile
	if err := s.sb.Rest.From("medical_files").Insert(ctx, row, &created); err != nil {
		// The blob is already stored; remove it rather than leaving an
		// orphan nobody references.
		_ = s.s3.Delete(ctx, storagePath)
		return nil, fmt.Errorf("create file record: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("create file record: empty response")
	}
	return &created[0], nil
}

func (s *fileService) GetByID(ctx context.Context, fileID string) (*model.MedicalFile, error) {
	var f model.MedicalFile
	err := s.sb.Rest.From("medical_files").
		Eq("id", fileID).
		Eq("is_deleted", false).
		Single().
		Get(ctx, &f)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("get file: %w", err)
	}
	return &f, nil
}

func (s *fileService) GetDownloadURL(ctx context.Context, fileID string) (string, error) {
	f, err := s.GetByID(ctx, fileID)
	if err != nil {
		return "", err
	}
	url, err := s.s3.PresignDownload(ctx, f.FilePath)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return url, nil
}

func (s *fileService) Delete(ctx context.Context, fileID, deletedBy string) error {
	patch := map[string]any{
		"is_deleted": true,
		"deleted_at": time.Now().UTC().Format(time.RFC3339),
		"deleted_by": deletedBy,
	}
	var updated []model.MedicalFile
	if err := s.sb.Rest.From("medical_files").Eq("id", fileID).Update(ctx, patch, &updated); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if len(updated) == 0 {
		return ErrFileNotFound
	}
	return nil
}

func (s *fileService) ListCaseFiles(ctx context.Context, caseID string) ([]model.MedicalFile, error) {
	var files []model.MedicalFile
	err := s.sb.Rest.From("medical_files").
		Eq("case_id", caseID).
		Eq("is_deleted", false).
		Order("created_at", true).
		Get(ctx, &files)
	if err != nil {
		return nil, fmt.Errorf("list case files: %w", err)
	}
	return files, nil
}

func (s *fileService) MarkAnalyzed(ctx context.Context, fileID string) error {
	patch := map[string]any{
		"is_analyzed": true,
		"analyzed_at": time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.sb.Rest.From("medical_files").Eq("id", fileID).Update(ctx, patch, nil); err != nil {
		return fmt.Errorf("mark analyzed: %w", err)
	}
	return nil
}
