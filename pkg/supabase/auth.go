package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Auth is a GoTrue client. Admin operations authenticate with the
// service role key; session operations use the anon key plus, where
// relevant, the caller's own access token.
type Auth struct {
	baseURL    string
	anonKey    string
	serviceKey string
	httpClient *http.Client
}

// User is a GoTrue identity.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	UserMetadata map[string]any `json:"user_metadata"`
	AppMetadata  map[string]any `json:"app_metadata"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// MetadataString reads a string field out of user metadata, empty when
// absent or not a string.
func (u *User) MetadataString(key string) string {
	if u.UserMetadata == nil {
		return ""
	}
	s, _ := u.UserMetadata[key].(string)
	return s
}

// Session is an issued token pair.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// CreateUserRequest is the admin user creation payload.
type CreateUserRequest struct {
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	EmailConfirm bool           `json:"email_confirm"`
	Phone        string         `json:"phone,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// AdminCreateUser creates an identity via the admin API. The identity
// is usable immediately when EmailConfirm is set.
func (a *Auth) AdminCreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	var user User
	if err := a.do(ctx, http.MethodPost, "/admin/users", a.serviceKey, req, &user); err != nil {
		return nil, fmt.Errorf("admin create user: %w", err)
	}
	return &user, nil
}

// AdminUpdateUser patches an identity (password, metadata) via the admin API.
func (a *Auth) AdminUpdateUser(ctx context.Context, userID string, attrs map[string]any) (*User, error) {
	var user User
	if err := a.do(ctx, http.MethodPut, "/admin/users/"+userID, a.serviceKey, attrs, &user); err != nil {
		return nil, fmt.Errorf("admin update user: %w", err)
	}
	return &user, nil
}

// AdminDeleteUser removes an identity. Used to compensate a failed
// provisioning run.
func (a *Auth) AdminDeleteUser(ctx context.Context, userID string) error {
	if err := a.do(ctx, http.MethodDelete, "/admin/users/"+userID, a.serviceKey, nil, nil); err != nil {
		return fmt.Errorf("admin delete user: %w", err)
	}
	return nil
}

// SignInWithPassword exchanges email/password for a session.
func (a *Auth) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var session Session
	if err := a.do(ctx, http.MethodPost, "/token?grant_type=password", a.anonKey, body, &session); err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return &session, nil
}

// RefreshSession exchanges a refresh token for a fresh session.
func (a *Auth) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var session Session
	if err := a.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", a.anonKey, body, &session); err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	return &session, nil
}

// SignOut revokes the session behind the given access token.
func (a *Auth) SignOut(ctx context.Context, accessToken string) error {
	if err := a.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// GetUser resolves an access token to its identity. This is the
// per-request token verification path, so invalid tokens map to
// ErrInvalidToken rather than a generic API error.
func (a *Auth) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := a.do(ctx, http.MethodGet, "/user", accessToken, nil, &user); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Status == 401 || apiErr.Status == 403) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// RequestPasswordRecovery asks GoTrue to send a recovery email. GoTrue
// reports success regardless of whether the email exists.
func (a *Auth) RequestPasswordRecovery(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	if err := a.do(ctx, http.MethodPost, "/recover", a.anonKey, body, nil); err != nil {
		return fmt.Errorf("request password recovery: %w", err)
	}
	return nil
}

// do sends a JSON request. token goes into both the apikey header and
// the bearer slot, which is how GoTrue distinguishes admin, anon, and
// user-scoped calls.
func (a *Auth) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	apikey := a.anonKey
	if apikey == "" {
		apikey = a.serviceKey
	}
	req.Header.Set("apikey", apikey)
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return parseAuthError(res)
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// parseAuthError decodes GoTrue's error payload, which over versions
// has used several field names for the same thing.
func parseAuthError(res *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))

	var payload struct {
		Code      any    `json:"code"`
		ErrorCode string `json:"error_code"`
		Msg       string `json:"msg"`
		Message   string `json:"message"`
		ErrorDesc string `json:"error_description"`
	}
	_ = json.Unmarshal(raw, &payload)

	msg := payload.Msg
	if msg == "" {
		msg = payload.Message
	}
	if msg == "" {
		msg = payload.ErrorDesc
	}
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}

	lower := strings.ToLower(msg)
	switch {
	case res.StatusCode == 400 && strings.Contains(lower, "invalid login credentials"):
		return ErrInvalidCredentials
	case strings.Contains(lower, "already been registered") ||
		payload.ErrorCode == "email_exists" ||
		res.StatusCode == 422 && strings.Contains(lower, "email"):
		return ErrEmailExists
	}

	return &APIError{Status: res.StatusCode, Code: payload.ErrorCode, Message: msg}
}
