package authorize

import (
	"context"
	"testing"

	"github.com/biointellect/hospital_backend/pkg/reqctx"
	"github.com/biointellect/hospital_backend/pkg/util/roles"
)

func TestSubjectFromContext(t *testing.T) {
	userID := "550e8400-e29b-41d4-a716-446655440000"

	tests := []struct {
		name        string
		setupCtx    func() context.Context
		wantSubject GroupSubject
		wantErr     bool
	}{
		{
			name: "valid principal",
			setupCtx: func() context.Context {
				p := &reqctx.Principal{UserID: userID, Role: roles.Doctor}
				return reqctx.WithPrincipal(context.Background(), p)
			},
			wantSubject: GroupSubject(userID),
		},
		{
			name: "no principal in context",
			setupCtx: func() context.Context {
				return context.Background()
			},
			wantErr: true,
		},
		{
			name: "empty user id",
			setupCtx: func() context.Context {
				return reqctx.WithPrincipal(context.Background(), &reqctx.Principal{})
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := tt.setupCtx()
			subject, err := SubjectFromContext(ctx)

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got nil")
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				if subject != tt.wantSubject {
					t.Errorf("SubjectFromContext() = %q, want %q", subject, tt.wantSubject)
				}
			}
		})
	}
}

func TestMustSubjectFromContext(t *testing.T) {
	t.Run("panics when no principal", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic but didn't get one")
			}
		}()
		MustSubjectFromContext(context.Background())
	})

	t.Run("returns subject when principal exists", func(t *testing.T) {
		userID := "550e8400-e29b-41d4-a716-446655440000"
		ctx := reqctx.WithPrincipal(context.Background(), &reqctx.Principal{UserID: userID})

		subject := MustSubjectFromContext(ctx)
		expected := GroupSubject(userID)
		if subject != expected {
			t.Errorf("MustSubjectFromContext() = %q, want %q", subject, expected)
		}
	})
}

func TestDomainFromContext(t *testing.T) {
	userID := "550e8400-e29b-41d4-a716-446655440000"
	hospitalID := "660e8400-e29b-41d4-a716-446655440000"

	tests := []struct {
		name       string
		principal  *reqctx.Principal
		wantDomain Domain
		wantErr    bool
	}{
		{
			name:       "hospital domain when assigned",
			principal:  &reqctx.Principal{UserID: userID, HospitalID: hospitalID},
			wantDomain: HospitalDomain(hospitalID),
		},
		{
			name:       "sys domain without hospital",
			principal:  &reqctx.Principal{UserID: userID},
			wantDomain: DomainSys,
		},
		{
			name:    "error without principal",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.principal != nil {
				ctx = reqctx.WithPrincipal(ctx, tt.principal)
			}

			domain, err := DomainFromContext(ctx)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if domain != tt.wantDomain {
				t.Errorf("DomainFromContext() = %q, want %q", domain, tt.wantDomain)
			}
		})
	}
}

func TestUserSelfDomain(t *testing.T) {
	userID := "550e8400-e29b-41d4-a716-446655440000"
	expected := Domain("user:550e8400-e29b-41d4-a716-446655440000")

	result := UserSelfDomain(userID)
	if result != expected {
		t.Errorf("UserSelfDomain(%q) = %q, want %q", userID, result, expected)
	}
}
