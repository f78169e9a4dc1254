package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestAuthAdminCreateUser(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/admin/users" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer service-key" {
			t.Errorf("authorization = %q, want service key bearer", got)
		}

		var body CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if !body.EmailConfirm {
			t.Error("email_confirm not set")
		}
		if body.UserMetadata["role"] != "patient" {
			t.Errorf("metadata role = %v", body.UserMetadata["role"])
		}

		json.NewEncoder(w).Encode(User{ID: "u1", Email: body.Email, UserMetadata: body.UserMetadata})
	}))

	user, err := c.Auth.AdminCreateUser(context.Background(), CreateUserRequest{
		Email:        "pat@example.com",
		Password:     "secret123",
		EmailConfirm: true,
		UserMetadata: map[string]any{"role": "patient"},
	})
	if err != nil {
		t.Fatalf("AdminCreateUser: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("user id = %q", user.ID)
	}
	if user.MetadataString("role") != "patient" {
		t.Errorf("role metadata = %q", user.MetadataString("role"))
	}
}

func TestAuthSignInInvalidCredentials(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("apikey"); got != "anon-key" {
			t.Errorf("apikey = %q, want anon key", got)
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_code":"invalid_credentials","msg":"Invalid login credentials"}`))
	}))

	_, err := c.Auth.SignInWithPassword(context.Background(), "pat@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthSignInSuccess(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("url = %q", r.URL.String())
		}
		json.NewEncoder(w).Encode(Session{
			AccessToken:  "at",
			RefreshToken: "rt",
			ExpiresIn:    3600,
			User:         User{ID: "u1", Email: "pat@example.com"},
		})
	}))

	session, err := c.Auth.SignInWithPassword(context.Background(), "pat@example.com", "secret123")
	if err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}
	if session.AccessToken != "at" || session.User.ID != "u1" {
		t.Errorf("session = %+v", session)
	}
}

func TestAuthGetUserInvalidToken(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"msg":"invalid JWT"}`))
	}))

	_, err := c.Auth.GetUser(context.Background(), "garbage")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("error = %v, want ErrInvalidToken", err)
	}
}

func TestAuthEmailExists(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error_code":"email_exists","msg":"A user with this email address has already been registered"}`))
	}))

	_, err := c.Auth.AdminCreateUser(context.Background(), CreateUserRequest{Email: "dup@example.com", Password: "x"})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("error = %v, want ErrEmailExists", err)
	}
}
