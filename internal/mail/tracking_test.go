package mail

import (
	"errors"
	"regexp"
	"testing"
	"time"
)

func TestGeneratedIdentifiers(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	trk := regexp.MustCompile(`^TRK-2025\d{8}$`)
	inw := regexp.MustCompile(`^INW-2025-\d{6}$`)
	out := regexp.MustCompile(`^OUT-2025-\d{6}$`)

	for i := 0; i < 50; i++ {
		if code := NewTrackingCode(now); !trk.MatchString(code) {
			t.Fatalf("tracking code %q does not match %s", code, trk)
		}
		if ref := NewReference(Inward, now); !inw.MatchString(ref) {
			t.Fatalf("inward reference %q does not match %s", ref, inw)
		}
		if ref := NewReference(Outward, now); !out.MatchString(ref) {
			t.Fatalf("outward reference %q does not match %s", ref, out)
		}
	}
}

func TestFindTrackingCode(t *testing.T) {
	tests := map[string]string{
		"where is TRK-20251234?":        "TRK-20251234",
		"status of trk-20259876 please": "TRK-20259876",
		"no code here":                  "",
		"TRK- without digits":           "",
	}
	for in, want := range tests {
		if got := FindTrackingCode(in); got != want {
			t.Errorf("FindTrackingCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2025-03-14", "2025-03-14 10:30:00", "2025-03-14T10:30:00Z"} {
		d, err := parseDate(in)
		if err != nil {
			t.Errorf("parseDate(%q): %v", in, err)
			continue
		}
		if d.Year() != 2025 || d.Month() != time.March || d.Day() != 14 {
			t.Errorf("parseDate(%q) = %v", in, d)
		}
	}
	if _, err := parseDate("14/03/2025"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("error = %v, want ErrInvalidDate", err)
	}
}
