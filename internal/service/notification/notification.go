// Package notification manages the per-user notification feed. Rows
// come from API calls and from the NATS workers reacting to
// provisioning, access, and analysis events.
package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/biointellect/hospital_backend/internal/model"
	"github.com/biointellect/hospital_backend/pkg/supabase"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type ListRequest struct {
	UserID           string
	IsRead           *bool
	IsArchived       bool
	NotificationType string
	Priority         string
	Limit            int
	Offset           int
}

type ListResult struct {
	Data  []model.Notification
	Count int
}

type CreateRequest struct {
	UserID           string
	NotificationType string
	Title            string
	Message          string
	ResourceType     *string
	ResourceID       *string
	ActionURL        *string
	Priority         string
	ExpiresAt        *time.Time
}

type UpdateRequest struct {
	IsRead     *bool
	IsArchived *bool
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context, req ListRequest) (*ListResult, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	GetByID(ctx context.Context, notificationID, userID string) (*model.Notification, error)
	Create(ctx context.Context, req CreateRequest) (*model.Notification, error)
	Update(ctx context.Context, notificationID, userID string, req UpdateRequest) (*model.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
	Archive(ctx context.Context, notificationID, userID string) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type notificationService struct {
	sb *supabase.Client
}

func New(sb *supabase.Client) Service {
	return &notificationService{sb: sb}
}

func (s *notificationService) List(ctx context.Context, req ListRequest) (*ListResult, error) {
	limit := req.Limit
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}

	q := s.sb.Rest.From("notifications").
		Eq("user_id", req.UserID).
		Eq("is_archived", req.IsArchived)

	if req.IsRead != nil {
		q.Eq("is_read", *req.IsRead)
	}
	if req.NotificationType != "" {
		q.Eq("notification_type", req.NotificationType)
	}
	if req.Priority != "" {
		q.Eq("priority", req.Priority)
	}

	var notifications []model.Notification
	if err := q.Order("created_at", true).Limit(limit).Offset(req.Offset).Get(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return &ListResult{Data: notifications, Count: len(notifications)}, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	count, err := s.sb.Rest.From("notifications").
		Eq("user_id", userID).
		Eq("is_read", false).
		Eq("is_archived", false).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	return count, nil
}

func (s *notificationService) GetByID(ctx context.Context, notificationID, userID string) (*model.Notification, error) {
	var n model.Notification
	err := s.sb.Rest.From("notifications").
		Eq("id", notificationID).
		Eq("user_id", userID).
		Single().
		Get(ctx, &n)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return &n, nil
}

func (s *notificationService) Create(ctx context.Context, req CreateRequest) (*model.Notification, error) {
	row := model.Notification{
		UserID:           req.UserID,
		NotificationType: req.NotificationType,
		Title:            req.Title,
		Message:          req.Message,
		ResourceType:     req.ResourceType,
		ResourceID:       req.ResourceID,
		ActionURL:        req.ActionURL,
		Priority:         req.Priority,
		IsRead:           false,
		IsArchived:       false,
		ExpiresAt:        req.ExpiresAt,
	}
	if row.Priority == "" {
		row.Priority = model.NotificationPriorityNormal
	}

	var created []model.Notification
	if err := s.sb.Rest.From("notifications").Insert(ctx, row, &created); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("create notification: empty response")
	}
	return &created[0], nil
}

func (s *notificationService) Update(ctx context.Context, notificationID, userID string, req UpdateRequest) (*model.Notification, error) {
	patch := map[string]any{}
	now := time.Now().UTC().Format(time.RFC3339)
	if req.IsRead != nil {
		patch["is_read"] = *req.IsRead
		if *req.IsRead {
			patch["read_at"] = now
		}
	}
	if req.IsArchived != nil {
		patch["is_archived"] = *req.IsArchived
		if *req.IsArchived {
			patch["archived_at"] = now
		}
	}
	if len(patch) == 0 {
		return nil, ErrNothingToUpdate
	}

	var updated []model.Notification
	err := s.sb.Rest.From("notifications").
		Eq("id", notificationID).
		Eq("user_id", userID).
		Update(ctx, patch, &updated)
	if err != nil {
		return nil, fmt.Errorf("update notification: %w", err)
	}
	if len(updated) == 0 {
		return nil, ErrNotificationNotFound
	}
	return &updated[0], nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	patch := map[string]any{
		"is_read": true,
		"read_at": time.Now().UTC().Format(time.RFC3339),
	}
	err := s.sb.Rest.From("notifications").
		Eq("user_id", userID).
		Eq("is_read", false).
		Update(ctx, patch, nil)
	if err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}
	return nil
}

func (s *notificationService) Archive(ctx context.Context, notificationID, userID string) error {
	patch := map[string]any{
		"is_archived": true,
		"archived_at": time.Now().UTC().Format(time.RFC3339),
	}
	var updated []model.Notification
	err := s.sb.Rest.From("notifications").
		Eq("id", notificationID).
		Eq("user_id", userID).
		Update(ctx, patch, &updated)
	if err != nil {
		return fmt.Errorf("archive notification: %w", err)
	}
	if len(updated) == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
