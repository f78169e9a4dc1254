package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/biointellect/hospital_backend/internal/service/notification"
	"github.com/biointellect/hospital_backend/pkg/constants"
	"github.com/biointellect/hospital_backend/pkg/email"
	"github.com/biointellect/hospital_backend/pkg/supabase"
)

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc       fx.Lifecycle
	NC       *nats.Conn
	Supabase *supabase.Client
	NotifSvc notification.Service
	Email    *email.Client
}

func RegisterWorkers(p WorkerParams) {
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			startWelcomeWorker(p.NC, p.NotifSvc, p.Email)
			startAccessWorker(p.NC, p.Supabase, p.NotifSvc)
			startAnalysisWorker(p.NC, p.Supabase, p.NotifSvc)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Drain handled by ProvideNatsClient
			return nil
		},
	})
}

// ---------------------------------------------------------------------------
// welcome_worker
// ---------------------------------------------------------------------------

func startWelcomeWorker(nc *nats.Conn, notifSvc notification.Service, emailCli *email.Client) {
	_, err := nc.Subscribe(constants.SubjectUserProvisioned, func(msg *nats.Msg) {
		var event struct {
			UserID    string `json:"user_id"`
			Email     string `json:"email"`
			Role      string `json:"role"`
			FirstName string `json:"first_name"`
		}
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			slog.Warn("welcome_worker: bad event payload", "err", err)
			return
		}

		ctx := context.Background()

		_, err := notifSvc.Create(ctx, notification.CreateRequest{
			UserID:           event.UserID,
			NotificationType: "system",
			Title:            "Welcome to BioIntellect",
			Message:          "Your account has been created. Complete your profile to get started.",
		})
		if err != nil {
			slog.Warn("welcome_worker: create notification failed", "err", err)
		}

		name := event.FirstName
		if name == "" {
			name = "there"
		}
		err = emailCli.Send(ctx, email.Message{
			To:      []string{event.Email},
			Subject: "Welcome to BioIntellect",
			TextBody: fmt.Sprintf(
				"Hi %s,\n\nYour BioIntellect account is ready. Sign in to access your dashboard.\n",
				name,
			),
		})
		if err != nil {
			slog.Warn("welcome_worker: send welcome email failed", "user_id", event.UserID, "err", err)
		}
	})
	if err != nil {
		slog.Error("welcome_worker: subscribe failed", "err", err)
	}

	slog.Info("welcome_worker: started")
}

// ---------------------------------------------------------------------------
// access_worker
// ---------------------------------------------------------------------------

func startAccessWorker(nc *nats.Conn, sb *supabase.Client, notifSvc notification.Service) {
	// A patient asked for access to a conversation: notify the doctor.
	_, err := nc.Subscribe(constants.SubjectAccessRequested, func(msg *nats.Msg) {
		var event struct {
			RequestID      string  `json:"request_id"`
			PatientID      string  `json:"patient_id"`
			ConversationID string  `json:"conversation_id"`
			DoctorID       *string `json:"doctor_id"`
		}
		if err := json.Unmarshal(msg.Data, &event); err != nil || event.DoctorID == nil {
			return
		}

		ctx := context.Background()

		userID, err := profileUserID(ctx, sb, "doctors", *event.DoctorID)
		if err != nil {
			slog.Warn("access_worker: doctor lookup failed", "doctor_id", *event.DoctorID, "err", err)
			return
		}

		resourceType := "access_request"
		_, err = notifSvc.Create(ctx, notification.CreateRequest{
			UserID:           userID,
			NotificationType: "access_request",
			Title:            "Conversation access requested",
			Message:          "A patient has asked to share an AI conversation with you.",
			ResourceType:     &resourceType,
			ResourceID:       &event.RequestID,
			Priority:         "high",
		})
		if err != nil {
			slog.Warn("access_worker: create request notification failed", "err", err)
		}
	})
	if err != nil {
		slog.Error("access_worker: subscribe access.requested failed", "err", err)
	}

	// The doctor responded: notify the patient.
	_, err = nc.Subscribe(constants.SubjectAccessResponded, func(msg *nats.Msg) {
		var event struct {
			RequestID      string `json:"request_id"`
			PatientID      string `json:"patient_id"`
			ConversationID string `json:"conversation_id"`
			Approved       bool   `json:"approved"`
		}
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			return
		}

		ctx := context.Background()

		userID, err := profileUserID(ctx, sb, "patients", event.PatientID)
		if err != nil {
			slog.Warn("access_worker: patient lookup failed", "patient_id", event.PatientID, "err", err)
			return
		}

		title := "Access request approved"
		body := "Your doctor approved access to the shared conversation."
		if !event.Approved {
			title = "Access request declined"
			body = "Your doctor declined the conversation access request."
		}

		resourceType := "access_request"
		_, err = notifSvc.Create(ctx, notification.CreateRequest{
			UserID:           userID,
			NotificationType: "access_response",
			Title:            title,
			Message:          body,
			ResourceType:     &resourceType,
			ResourceID:       &event.RequestID,
		})
		if err != nil {
			slog.Warn("access_worker: create response notification failed", "err", err)
		}
	})
	if err != nil {
		slog.Error("access_worker: subscribe access.responded failed", "err", err)
	}

	slog.Info("access_worker: started")
}

// ---------------------------------------------------------------------------
// analysis_worker
// ---------------------------------------------------------------------------

func startAnalysisWorker(nc *nats.Conn, sb *supabase.Client, notifSvc notification.Service) {
	_, err := nc.Subscribe(constants.SubjectAnalysisComplete, func(msg *nats.Msg) {
		var event struct {
			Modality  string `json:"modality"`
			ResultID  string `json:"result_id"`
			PatientID string `json:"patient_id"`
			CaseID    string `json:"case_id"`
		}
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			return
		}

		ctx := context.Background()

		userID, err := profileUserID(ctx, sb, "patients", event.PatientID)
		if err != nil {
			// Patients without linked accounts are reached through their doctor.
			slog.Debug("analysis_worker: no linked account", "patient_id", event.PatientID)
			return
		}

		resourceType := event.Modality + "_result"
		_, err = notifSvc.Create(ctx, notification.CreateRequest{
			UserID:           userID,
			NotificationType: "analysis_complete",
			Title:            "Analysis results ready",
			Message:          fmt.Sprintf("Your %s analysis has completed and is awaiting physician review.", event.Modality),
			ResourceType:     &resourceType,
			ResourceID:       &event.ResultID,
		})
		if err != nil {
			slog.Warn("analysis_worker: create notification failed", "err", err)
		}
	})
	if err != nil {
		slog.Error("analysis_worker: subscribe analysis.completed failed", "err", err)
	}

	slog.Info("analysis_worker: started")
}

// profileUserID maps a profile row to its identity-store user, erroring
// when the profile has no linked account.
func profileUserID(ctx context.Context, sb *supabase.Client, table, profileID string) (string, error) {
	var row struct {
		UserID *string `json:"user_id"`
	}
	err := sb.Rest.From(table).
		Select("user_id").
		Eq("id", profileID).
		Single().
		Get(ctx, &row)
	if err != nil {
		return "", err
	}
	if row.UserID == nil || *row.UserID == "" {
		return "", fmt.Errorf("%s %s has no linked user", table, profileID)
	}
	return *row.UserID, nil
}
