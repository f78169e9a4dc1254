package roles

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Role
		wantErr bool
	}{
		{"admin alias", "admin", Administrator, false},
		{"administrator", "administrator", Administrator, false},
		{"super admin", "super_admin", SuperAdmin, false},
		{"doctor", "doctor", Doctor, false},
		{"nurse", "nurse", Nurse, false},
		{"patient", "patient", Patient, false},
		{"uppercase", "DOCTOR", Doctor, false},
		{"mixed case alias", "Admin", Administrator, false},
		{"surrounding whitespace", "  nurse \n", Nurse, false},
		{"unknown", "surgeon", "", true},
		{"empty", "", "", true},
		{"near miss", "doctors", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownRole) {
					t.Fatalf("Normalize(%q) error = %v, want ErrUnknownRole", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, r := range All() {
		again, err := Normalize(string(r))
		if err != nil {
			t.Fatalf("Normalize(%q) on canonical role errored: %v", r, err)
		}
		if again != r {
			t.Errorf("Normalize(%q) = %q, normalization is not idempotent", r, again)
		}
	}
}

func TestNormalizeLenientDefaultsToPatient(t *testing.T) {
	if got := NormalizeLenient("shaman"); got != Patient {
		t.Errorf("NormalizeLenient(shaman) = %q, want patient", got)
	}
	if got := NormalizeLenient("admin"); got != Administrator {
		t.Errorf("NormalizeLenient(admin) = %q, want administrator", got)
	}
}

func TestProfileTableTotal(t *testing.T) {
	want := map[Role]string{
		Administrator: "administrators",
		SuperAdmin:    "administrators",
		Doctor:        "doctors",
		Nurse:         "nurses",
		Patient:       "patients",
	}
	for _, r := range All() {
		table := ProfileTable(r)
		if table == "" {
			t.Fatalf("ProfileTable(%q) is empty, mapping must cover every canonical role", r)
		}
		if table != want[r] {
			t.Errorf("ProfileTable(%q) = %q, want %q", r, table, want[r])
		}
	}
}
