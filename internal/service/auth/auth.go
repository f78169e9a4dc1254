package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nyaruka/phonenumbers"

	"github.com/biointellect/hospital_backend/config"
	"github.com/biointellect/hospital_backend/internal/model"
	"github.com/biointellect/hospital_backend/pkg/authorize"
	"github.com/biointellect/hospital_backend/pkg/constants"
	"github.com/biointellect/hospital_backend/pkg/supabase"
	"github.com/biointellect/hospital_backend/pkg/util/codes"
	"github.com/biointellect/hospital_backend/pkg/util/roles"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type SignUpRequest struct {
	Email         string
	Password      string
	Role          string
	FirstName     string
	LastName      string
	Phone         string
	HospitalID    string
	LicenseNumber string // required for doctors
	Specialty     string // specialty code, doctors only
}

type SignUpResult struct {
	UserID string
	Role   roles.Role
	// Warning is set when store provisioning failed but policy allowed
	// the identity to survive.
	Warning string
}

type SignInResult struct {
	UserID            string
	Email             string
	Role              roles.Role
	Profile           any
	Session           Tokens
	MustResetPassword bool
}

type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
}

type MeResult struct {
	UserID  string
	Email   string
	Role    roles.Role
	Profile any
}

// UserProvisionedEvent is published on the user.provisioned subject
// after a successful signup.
type UserProvisionedEvent struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	HospitalID string `json:"hospital_id,omitempty"`
	FirstName  string `json:"first_name"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	SignUp(ctx context.Context, req SignUpRequest) (*SignUpResult, error)
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)
	SignOut(ctx context.Context, accessToken string) error
	Refresh(ctx context.Context, refreshToken string) (*Tokens, error)
	RequestPasswordReset(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, userID, newPassword string) error
	Me(ctx context.Context, userID string, role roles.Role) (*MeResult, error)
	VerifyToken(ctx context.Context, accessToken string) (*supabase.User, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type authService struct {
	sb    *supabase.Client
	authz authorize.IAuthorization
	nc    *nats.Conn
	cfg   *config.Config
}

func New(sb *supabase.Client, authz authorize.IAuthorization, nc *nats.Conn, cfg *config.Config) Service {
	return &authService{sb: sb, authz: authz, nc: nc, cfg: cfg}
}

// ---------------------------------------------------------------------------
// SignUp (provisioning pipeline)
// ---------------------------------------------------------------------------

func (s *authService) SignUp(ctx context.Context, req SignUpRequest) (*SignUpResult, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	role, err := roles.Normalize(req.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, req.Role)
	}
	if role == roles.Doctor && strings.TrimSpace(req.LicenseNumber) == "" {
		return nil, ErrLicenseRequired
	}
	if len(req.Password) < 8 {
		return nil, ErrPasswordTooShort
	}
	if req.Phone != "" {
		normalized, err := s.normalizePhone(req.Phone)
		if err != nil {
			return nil, ErrInvalidPhone
		}
		req.Phone = normalized
	}

	metadata := map[string]any{
		"role":       string(role),
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"full_name":  strings.TrimSpace(req.FirstName + " " + req.LastName),
	}
	if req.Phone != "" {
		metadata["phone"] = req.Phone
	}
	if req.HospitalID != "" {
		metadata["hospital_id"] = req.HospitalID
	}
	if role == roles.Doctor {
		metadata["license_number"] = req.LicenseNumber
	}

	user, err := s.sb.Auth.AdminCreateUser(ctx, supabase.CreateUserRequest{
		Email:        req.Email,
		Password:     req.Password,
		EmailConfirm: true,
		Phone:        req.Phone,
		UserMetadata: metadata,
	})
	if err != nil {
		if errors.Is(err, supabase.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create identity: %w", err)
	}

	slog.Info("identity created", "user_id", user.ID, "role", role)

	if err := s.provisionStores(ctx, user.ID, role, req); err != nil {
		if s.cfg.Authentication.Provisioning.OnRoleFailure == "compensate" {
			s.compensate(ctx, user.ID, role)
			return nil, fmt.Errorf("%w: %v", ErrProvisionFailed, err)
		}
		slog.Warn("store provisioning incomplete, identity kept",
			"user_id", user.ID, "role", role, "err", err)
		return &SignUpResult{
			UserID:  user.ID,
			Role:    role,
			Warning: "profile provisioning incomplete",
		}, nil
	}

	s.publishProvisioned(user.ID, req, role)

	return &SignUpResult{UserID: user.ID, Role: role}, nil
}

// provisionStores writes the relational side of a new user: the
// user_roles mirror row, the role profile row, the doctor specialty
// link, and the RBAC grants.
func (s *authService) provisionStores(ctx context.Context, userID string, role roles.Role, req SignUpRequest) error {
	roleRow := model.UserRole{
		UserID:   userID,
		Role:     string(role),
		IsActive: true,
	}
	if req.HospitalID != "" {
		roleRow.HospitalID = &req.HospitalID
	}
	if err := s.sb.Rest.From("user_roles").Insert(ctx, roleRow, nil); err != nil {
		return fmt.Errorf("insert user role: %w", err)
	}

	table := roles.ProfileTable(role)

	// Profile rows may already exist when a database trigger created
	// them; only insert on a clean miss.
	var existing []struct {
		ID string `json:"id"`
	}
	if err := s.sb.Rest.From(table).Select("id").Eq("user_id", userID).Get(ctx, &existing); err != nil {
		return fmt.Errorf("check profile: %w", err)
	}

	if len(existing) == 0 {
		profile := map[string]any{
			"user_id":    userID,
			"first_name": req.FirstName,
			"last_name":  req.LastName,
			"email":      req.Email,
			"is_active":  true,
		}
		if req.Phone != "" {
			profile["phone"] = req.Phone
		}
		if req.HospitalID != "" {
			profile["hospital_id"] = req.HospitalID
		}
		if role == roles.Doctor {
			profile["license_number"] = req.LicenseNumber
		}
		// MRNs are random draws, so a unique conflict gets one retry
		// with a fresh draw before the insert is treated as failed.
		for attempt := 0; ; attempt++ {
			if role == roles.Patient {
				mrn, err := codes.GenerateMRN(
					s.hospitalCode(ctx, req.HospitalID),
					s.cfg.Codes.DefaultHospitalCode,
					time.Now(),
				)
				if err != nil {
					return fmt.Errorf("generate mrn: %w", err)
				}
				profile["mrn"] = mrn
			}
			err := s.sb.Rest.From(table).Insert(ctx, profile, nil)
			if err == nil {
				break
			}
			if role == roles.Patient && errors.Is(err, supabase.ErrUniqueViolation) && attempt == 0 {
				continue
			}
			return fmt.Errorf("insert profile: %w", err)
		}
	}

	if role == roles.Doctor && req.Specialty != "" {
		if err := s.linkSpecialty(ctx, userID, req.Specialty); err != nil {
			// Specialty linking is enrichment, not identity. A miss
			// must not fail the whole signup.
			slog.Warn("link specialty failed", "user_id", userID, "specialty", req.Specialty, "err", err)
		}
	}

	if err := authorize.AssignHospitalRole(ctx, s.authz, userID, req.HospitalID, role); err != nil {
		return fmt.Errorf("assign hospital role: %w", err)
	}
	if err := authorize.AssignUserSelfRole(ctx, s.authz, userID); err != nil {
		return fmt.Errorf("assign self role: %w", err)
	}
	return nil
}

func (s *authService) linkSpecialty(ctx context.Context, userID, specialtyCode string) error {
	var doc struct {
		ID string `json:"id"`
	}
	if err := s.sb.Rest.From("doctors").Select("id").Eq("user_id", userID).Single().Get(ctx, &doc); err != nil {
		return fmt.Errorf("load doctor: %w", err)
	}
	var spec struct {
		ID string `json:"id"`
	}
	if err := s.sb.Rest.From("specialty_types").Select("id").Eq("specialty_code", specialtyCode).Single().Get(ctx, &spec); err != nil {
		return fmt.Errorf("load specialty: %w", err)
	}
	link := model.DoctorSpecialty{DoctorID: doc.ID, SpecialtyID: spec.ID, IsPrimary: true}
	if err := s.sb.Rest.From("doctor_specialties").Insert(ctx, link, nil); err != nil {
		return fmt.Errorf("insert specialty link: %w", err)
	}
	return nil
}

// compensate rolls back a partially provisioned user: store rows, RBAC
// grants, then the identity itself. Every step is best effort.
func (s *authService) compensate(ctx context.Context, userID string, role roles.Role) {
	if err := s.sb.Rest.From("user_roles").Eq("user_id", userID).Delete(ctx); err != nil {
		slog.Warn("compensate: delete user role failed", "user_id", userID, "err", err)
	}
	if err := s.sb.Rest.From(roles.ProfileTable(role)).Eq("user_id", userID).Delete(ctx); err != nil {
		slog.Warn("compensate: delete profile failed", "user_id", userID, "err", err)
	}
	if err := authorize.RemoveAllGrants(ctx, s.authz, userID); err != nil {
		slog.Warn("compensate: remove rbac grants failed", "user_id", userID, "err", err)
	}
	if err := s.sb.Auth.AdminDeleteUser(ctx, userID); err != nil {
		slog.Warn("compensate: delete identity failed", "user_id", userID, "err", err)
	}
	slog.Info("provisioning compensated", "user_id", userID)
}

func (s *authService) hospitalCode(ctx context.Context, hospitalID string) string {
	if hospitalID == "" {
		return ""
	}
	var h struct {
		HospitalCode string `json:"hospital_code"`
	}
	if err := s.sb.Rest.From("hospitals").Select("hospital_code").Eq("id", hospitalID).Single().Get(ctx, &h); err != nil {
		slog.Warn("hospital code lookup failed", "hospital_id", hospitalID, "err", err)
		return ""
	}
	return h.HospitalCode
}

func (s *authService) publishProvisioned(userID string, req SignUpRequest, role roles.Role) {
	if s.nc == nil {
		return
	}
	payload, err := json.Marshal(UserProvisionedEvent{
		UserID:     userID,
		Email:      req.Email,
		Role:       string(role),
		HospitalID: req.HospitalID,
		FirstName:  req.FirstName,
	})
	if err != nil {
		return
	}
	if err := s.nc.Publish(constants.SubjectUserProvisioned, payload); err != nil {
		slog.Warn("publish user.provisioned failed", "user_id", userID, "err", err)
	}
}

func (s *authService) normalizePhone(raw string) (string, error) {
	region := s.cfg.Authentication.DefaultPhoneRegion
	if region == "" {
		region = "SA"
	}
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", err
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("not a valid number: %s", raw)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

func (s *authService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	session, err := s.sb.Auth.SignInWithPassword(ctx, strings.ToLower(strings.TrimSpace(email)), password)
	if err != nil {
		if errors.Is(err, supabase.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}

	role := roles.NormalizeLenient(session.User.MetadataString("role"))
	profile, err := s.loadProfile(ctx, session.User.ID, role)
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	mustReset, _ := session.User.UserMetadata["must_reset_password"].(bool)

	return &SignInResult{
		UserID:  session.User.ID,
		Email:   session.User.Email,
		Role:    role,
		Profile: profile,
		Session: Tokens{
			AccessToken:  session.AccessToken,
			RefreshToken: session.RefreshToken,
			ExpiresAt:    session.ExpiresAt,
		},
		MustResetPassword: mustReset,
	}, nil
}

func (s *authService) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	if err := s.sb.Auth.SignOut(ctx, accessToken); err != nil {
		// A dead token is already signed out.
		slog.Debug("sign out failed", "err", err)
	}
	return nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	session, err := s.sb.Auth.RefreshSession(ctx, refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &Tokens{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresAt:    session.ExpiresAt,
	}, nil
}

// RequestPasswordReset never reveals whether the email exists.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	if err := s.sb.Auth.RequestPasswordRecovery(ctx, strings.ToLower(strings.TrimSpace(email))); err != nil {
		slog.Warn("password recovery request failed", "err", err)
	}
	return nil
}

func (s *authService) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}
	if _, err := s.sb.Auth.AdminUpdateUser(ctx, userID, map[string]any{"password": newPassword}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if _, err := s.sb.Auth.AdminUpdateUser(ctx, userID, map[string]any{
		"user_metadata": map[string]any{"must_reset_password": false},
	}); err != nil {
		slog.Warn("clear must_reset_password failed", "user_id", userID, "err", err)
	}
	return nil
}

func (s *authService) Me(ctx context.Context, userID string, role roles.Role) (*MeResult, error) {
	profile, err := s.loadProfile(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	return &MeResult{UserID: userID, Role: role, Profile: profile}, nil
}

func (s *authService) VerifyToken(ctx context.Context, accessToken string) (*supabase.User, error) {
	user, err := s.sb.Auth.GetUser(ctx, accessToken)
	if err != nil {
		if errors.Is(err, supabase.ErrInvalidToken) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("verify token: %w", err)
	}
	return user, nil
}

// loadProfile reads the role profile row joined with its hospital name.
func (s *authService) loadProfile(ctx context.Context, userID string, role roles.Role) (any, error) {
	q := s.sb.Rest.From(roles.ProfileTable(role)).
		Select("*, hospitals(hospital_name_en)").
		Eq("user_id", userID).
		Single()

	var err error
	var profile any
	switch role {
	case roles.Patient:
		var p model.Patient
		err = q.Get(ctx, &p)
		profile = &p
	case roles.Doctor:
		var d model.Doctor
		err = q.Get(ctx, &d)
		profile = &d
	case roles.Nurse:
		var n model.Nurse
		err = q.Get(ctx, &n)
		profile = &n
	default:
		var a model.Administrator
		err = q.Get(ctx, &a)
		profile = &a
	}
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return profile, nil
}
