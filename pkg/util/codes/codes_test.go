package codes

import (
	"regexp"
	"testing"
	"time"
)

var fixedNow = time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)

func TestGenerateMRN(t *testing.T) {
	tests := []struct {
		name         string
		hospitalCode string
		def          string
		pattern      string
	}{
		{"with hospital code", "STJ", "GEN", `^STJ25\d{6}$`},
		{"empty falls back to default", "", "GEN", `^GEN25\d{6}$`},
		{"lowercase input is uppercased", "stj", "GEN", `^STJ25\d{6}$`},
		{"empty default falls back to GEN", "", "", `^GEN25\d{6}$`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mrn, err := GenerateMRN(tt.hospitalCode, tt.def, fixedNow)
			if err != nil {
				t.Fatalf("GenerateMRN: %v", err)
			}
			if !regexp.MustCompile(tt.pattern).MatchString(mrn) {
				t.Errorf("GenerateMRN = %q, want match for %q", mrn, tt.pattern)
			}
		})
	}
}

func TestGenerateCaseNumber(t *testing.T) {
	num, err := GenerateCaseNumber("STJ", "GEN", fixedNow)
	if err != nil {
		t.Fatalf("GenerateCaseNumber: %v", err)
	}
	if !regexp.MustCompile(`^STJ-20250314-\d{4}$`).MatchString(num) {
		t.Errorf("GenerateCaseNumber = %q, want STJ-20250314-NNNN", num)
	}
}

func TestGenerateReportNumber(t *testing.T) {
	tests := []struct {
		reportType string
		pattern    string
	}{
		{"discharge", `^DIS-20250314-\d{5}$`},
		{"progress", `^PRO-20250314-\d{5}$`},
		{"lab", `^LAB-20250314-\d{5}$`},
		{"mr", `^MR-20250314-\d{5}$`},
	}

	for _, tt := range tests {
		t.Run(tt.reportType, func(t *testing.T) {
			num, err := GenerateReportNumber(tt.reportType, fixedNow)
			if err != nil {
				t.Fatalf("GenerateReportNumber: %v", err)
			}
			if !regexp.MustCompile(tt.pattern).MatchString(num) {
				t.Errorf("GenerateReportNumber(%q) = %q, want match for %q", tt.reportType, num, tt.pattern)
			}
		})
	}
}

func TestGenerateNumericCode(t *testing.T) {
	for _, length := range []int{1, 4, 6, 10} {
		code, err := GenerateNumericCode(length)
		if err != nil {
			t.Fatalf("GenerateNumericCode(%d): %v", length, err)
		}
		if len(code) != length {
			t.Errorf("GenerateNumericCode(%d) produced %d characters: %q", length, len(code), code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Errorf("GenerateNumericCode(%d) produced non-digit %q in %q", length, c, code)
			}
		}
	}

	if _, err := GenerateNumericCode(0); err == nil {
		t.Error("GenerateNumericCode(0) should fail")
	}
}
