// Package codes generates the business identifiers handed out by the
// backend: medical record numbers, case numbers, and report numbers.
// All sequence parts come from crypto/rand; uniqueness is enforced by
// the relational store, callers retry on conflict.
package codes

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
)

var (
	ErrInvalidLength = errors.New("invalid code length")
)

const (
	// mrnSequenceLength is the random tail of a medical record number.
	mrnSequenceLength = 6

	// caseSequenceLength is the random tail of a case number.
	caseSequenceLength = 4

	// reportSequenceLength is the random tail of a report number.
	reportSequenceLength = 5
)

// GenerateMRN creates a medical record number.
// Format: {hospital code}{2-digit year}{6-digit sequence},
// e.g. "STJ25048291". An empty hospital code falls back to def.
func GenerateMRN(hospitalCode, def string, now time.Time) (string, error) {
	code := normalizeHospitalCode(hospitalCode, def)
	seq, err := GenerateNumericCode(mrnSequenceLength)
	if err != nil {
		return "", fmt.Errorf("generate mrn sequence: %w", err)
	}
	return fmt.Sprintf("%s%02d%s", code, now.Year()%100, seq), nil
}

// GenerateCaseNumber creates a case number.
// Format: {hospital code}-{YYYYMMDD}-{4-digit sequence},
// e.g. "STJ-20260830-4821".
func GenerateCaseNumber(hospitalCode, def string, now time.Time) (string, error) {
	code := normalizeHospitalCode(hospitalCode, def)
	seq, err := GenerateNumericCode(caseSequenceLength)
	if err != nil {
		return "", fmt.Errorf("generate case sequence: %w", err)
	}
	return fmt.Sprintf("%s-%s-%s", code, now.Format("20060102"), seq), nil
}

// GenerateReportNumber creates a report number.
// Format: {first 3 letters of type, upper}-{YYYYMMDD}-{5-digit sequence},
// e.g. "DIS-20260830-58201" for a discharge report.
func GenerateReportNumber(reportType string, now time.Time) (string, error) {
	prefix := reportPrefix(reportType)
	seq, err := GenerateNumericCode(reportSequenceLength)
	if err != nil {
		return "", fmt.Errorf("generate report sequence: %w", err)
	}
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), seq), nil
}

// GenerateNumericCode creates a zero-padded numeric code of the given
// length using crypto/rand.
func GenerateNumericCode(length int) (string, error) {
	if length < 1 {
		return "", ErrInvalidLength
	}

	max := new(big.Int)
	max.Exp(big.NewInt(10), big.NewInt(int64(length)), nil)

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}

	format := fmt.Sprintf("%%0%dd", length)
	return fmt.Sprintf(format, n), nil
}

// NormalizeCode normalizes a code for comparison (uppercase, trim whitespace).
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func normalizeHospitalCode(code, def string) string {
	code = NormalizeCode(code)
	if code == "" {
		code = NormalizeCode(def)
	}
	if code == "" {
		code = "GEN"
	}
	return code
}

// reportPrefix takes the first three characters of the report type,
// uppercased. Report types shorter than three characters keep their
// full length.
func reportPrefix(reportType string) string {
	t := strings.ToUpper(strings.TrimSpace(reportType))
	runes := []rune(t)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return string(runes)
}
