// Package analytics aggregates operational statistics: dashboard
// counters, registration trends, analysis throughput, and the audit
// trail. Dashboard stats are cached in Redis since they fan out into
// many count queries.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"

	"github.com/biointellect/hospital_backend/internal/model"
	"github.com/biointellect/hospital_backend/pkg/supabase"
	"github.com/biointellect/hospital_backend/pkg/util/roles"
)

const (
	defaultLimit = 50
	maxLimit     = 100

	defaultTrendDays = 30
	maxTrendDays     = 365

	dashboardCacheTTL = 60 * time.Second
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type DashboardStats struct {
	TotalPatients    int            `json:"total_patients"`
	TotalDoctors     int            `json:"total_doctors"`
	ActiveCases      int            `json:"active_cases"`
	TotalECGAnalyses int            `json:"total_ecg_analyses"`
	TotalMRIAnalyses int            `json:"total_mri_analyses"`
	TotalReports     int            `json:"total_reports"`
	CasesByStatus    map[string]int `json:"cases_by_status"`
}

type ModalitySummary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Reviewed  int `json:"reviewed"`
}

type AnalysisSummary struct {
	ECG ModalitySummary `json:"ecg"`
	MRI ModalitySummary `json:"mri"`
}

type AuditLogsRequest struct {
	CallerRole   roles.Role
	UserID       string
	Action       string
	ResourceType string
	PatientID    string
	IsSensitive  *bool
	Limit        int
	Offset       int
}

type AuditLogsResult struct {
	Data  []model.AuditLog
	Count int
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Dashboard(ctx context.Context, hospitalID string) (*DashboardStats, error)
	PatientTrends(ctx context.Context, hospitalID string, days int) (map[string]int, error)
	AnalysisSummary(ctx context.Context, days int) (*AnalysisSummary, error)
	AuditLogs(ctx context.Context, req AuditLogsRequest) (*AuditLogsResult, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type analyticsService struct {
	sb  *supabase.Client
	rdb *redis.Client
}

func New(sb *supabase.Client, rdb *redis.Client) Service {
	return &analyticsService{sb: sb, rdb: rdb}
}

func (s *analyticsService) Dashboard(ctx context.Context, hospitalID string) (*DashboardStats, error) {
	cacheKey := "analytics:dashboard:" + hospitalID
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var stats DashboardStats
			if json.Unmarshal(cached, &stats) == nil {
				return &stats, nil
			}
		}
	}

	stats := &DashboardStats{CasesByStatus: map[string]int{}}

	patientsQ := s.sb.Rest.From("patients").Eq("is_active", true)
	doctorsQ := s.sb.Rest.From("doctors").Eq("is_active", true)
	casesQ := s.sb.Rest.From("medical_cases").Eq("is_archived", false)
	if hospitalID != "" {
		patientsQ.Eq("hospital_id", hospitalID)
		doctorsQ.Eq("hospital_id", hospitalID)
		casesQ.Eq("hospital_id", hospitalID)
	}

	var err error
	if stats.TotalPatients, err = patientsQ.Count(ctx); err != nil {
		return nil, fmt.Errorf("count patients: %w", err)
	}
	if stats.TotalDoctors, err = doctorsQ.Count(ctx); err != nil {
		return nil, fmt.Errorf("count doctors: %w", err)
	}
	if stats.ActiveCases, err = casesQ.Count(ctx); err != nil {
		return nil, fmt.Errorf("count cases: %w", err)
	}
	if stats.TotalECGAnalyses, err = s.sb.Rest.From("ecg_results").Count(ctx); err != nil {
		return nil, fmt.Errorf("count ecg results: %w", err)
	}
	if stats.TotalMRIAnalyses, err = s.sb.Rest.From("mri_segmentation_results").Count(ctx); err != nil {
		return nil, fmt.Errorf("count mri results: %w", err)
	}
	if stats.TotalReports, err = s.sb.Rest.From("generated_reports").Count(ctx); err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}

	for _, status := range []string{
		model.CaseStatusOpen,
		model.CaseStatusInProgress,
		model.CaseStatusPendingReview,
		model.CaseStatusClosed,
	} {
		q := s.sb.Rest.From("medical_cases").Eq("status", status).Eq("is_archived", false)
		if hospitalID != "" {
			q.Eq("hospital_id", hospitalID)
		}
		n, err := q.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count cases by status: %w", err)
		}
		stats.CasesByStatus[status] = n
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, payload, dashboardCacheTTL).Err(); err != nil {
				slog.Warn("analytics: dashboard cache write failed", "err", err)
			}
		}
	}
	return stats, nil
}

// PatientTrends returns registrations per day over the window,
// keyed by YYYY-MM-DD.
func (s *analyticsService) PatientTrends(ctx context.Context, hospitalID string, days int) (map[string]int, error) {
	if days < 1 || days > maxTrendDays {
		days = defaultTrendDays
	}
	start := time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)

	q := s.sb.Rest.From("patients").
		Select("id, created_at").
		Gte("created_at", start)
	if hospitalID != "" {
		q.Eq("hospital_id", hospitalID)
	}

	var rows []struct {
		CreatedAt string `json:"created_at"`
	}
	if err := q.Order("created_at", false).Get(ctx, &rows); err != nil {
		return nil, fmt.Errorf("patient trends: %w", err)
	}

	return lo.CountValuesBy(rows, func(r struct {
		CreatedAt string `json:"created_at"`
	}) string {
		if len(r.CreatedAt) >= 10 {
			return r.CreatedAt[:10]
		}
		return r.CreatedAt
	}), nil
}

func (s *analyticsService) AnalysisSummary(ctx context.Context, days int) (*AnalysisSummary, error) {
	if days < 1 || days > maxTrendDays {
		days = defaultTrendDays
	}
	start := time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)

	summary := &AnalysisSummary{}
	for _, m := range []struct {
		table string
		out   *ModalitySummary
	}{
		{"ecg_results", &summary.ECG},
		{"mri_segmentation_results", &summary.MRI},
	} {
		var err error
		if m.out.Total, err = s.sb.Rest.From(m.table).Gte("created_at", start).Count(ctx); err != nil {
			return nil, fmt.Errorf("count %s: %w", m.table, err)
		}
		if m.out.Completed, err = s.sb.Rest.From(m.table).Eq("analysis_status", model.AnalysisStatusCompleted).Gte("created_at", start).Count(ctx); err != nil {
			return nil, fmt.Errorf("count %s completed: %w", m.table, err)
		}
		if m.out.Pending, err = s.sb.Rest.From(m.table).Eq("analysis_status", model.AnalysisStatusPending).Gte("created_at", start).Count(ctx); err != nil {
			return nil, fmt.Errorf("count %s pending: %w", m.table, err)
		}
		if m.out.Reviewed, err = s.sb.Rest.From(m.table).Eq("is_reviewed", true).Gte("created_at", start).Count(ctx); err != nil {
			return nil, fmt.Errorf("count %s reviewed: %w", m.table, err)
		}
	}
	return summary, nil
}

func (s *analyticsService) AuditLogs(ctx context.Context, req AuditLogsRequest) (*AuditLogsResult, error) {
	if req.CallerRole != roles.Administrator && req.CallerRole != roles.SuperAdmin {
		return nil, ErrAdminOnly
	}

	limit := req.Limit
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}

	q := s.sb.Rest.From("audit_logs")
	if req.UserID != "" {
		q.Eq("user_id", req.UserID)
	}
	if req.Action != "" {
		q.Eq("action", req.Action)
	}
	if req.ResourceType != "" {
		q.Eq("resource_type", req.ResourceType)
	}
	if req.PatientID != "" {
		q.Eq("patient_id", req.PatientID)
	}
	if req.IsSensitive != nil {
		q.Eq("is_sensitive", *req.IsSensitive)
	}

	var logs []model.AuditLog
	if err := q.Order("created_at", true).Limit(limit).Offset(req.Offset).Get(ctx, &logs); err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return &AuditLogsResult{Data: logs, Count: len(logs)}, nil
}
