// Package supabase provides minimal HTTP clients for a hosted Supabase
// project: GoTrue for identities and sessions, PostgREST for rows.
// Both speak plain JSON over the project URL, no SDK involved.
package supabase

import (
	"net/http"
	"strings"
	"time"

	"github.com/biointellect/hospital_backend/config"
)

// Client bundles the auth and relational store clients for one project.
type Client struct {
	Auth *Auth
	Rest *Rest
}

// New creates a Client from config. The service role key is used for
// all server-side calls; per-user tokens are passed explicitly where an
// operation acts on behalf of a caller.
func New(cfg config.SupabaseConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hc := &http.Client{Timeout: timeout}
	base := strings.TrimRight(cfg.URL, "/")

	return &Client{
		Auth: &Auth{
			baseURL:    base + "/auth/v1",
			anonKey:    cfg.AnonKey,
			serviceKey: cfg.ServiceRoleKey,
			httpClient: hc,
		},
		Rest: &Rest{
			baseURL:    base + "/rest/v1",
			serviceKey: cfg.ServiceRoleKey,
			httpClient: hc,
		},
	}
}
