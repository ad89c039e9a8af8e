package mail

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/gommon/random"
)

var trackingCodePattern = regexp.MustCompile(`(?i)\bTRK-\d+\b`)

const (
	trackingDigits  = 8
	referenceDigits = 6
)

// NewTrackingCode returns TRK-<year><8 digits>.
func NewTrackingCode(now time.Time) string {
	return fmt.Sprintf("TRK-%d%s", now.Year(), random.String(trackingDigits, random.Numeric))
}

// NewReference returns INW-<year>-<6 digits> or OUT-<year>-<6 digits>.
func NewReference(d Direction, now time.Time) string {
	return fmt.Sprintf("%s-%d-%s", d.Prefix(), now.Year(), random.String(referenceDigits, random.Numeric))
}

// FindTrackingCode extracts the first tracking code mentioned in text, upper-cased,
// or "" when there is none.
func FindTrackingCode(text string) string {
	return strings.ToUpper(trackingCodePattern.FindString(text))
}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04", "2006-01-02"}

var ErrInvalidDate = errors.New("dates must be YYYY-MM-DD or RFC 3339")

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%q: %w", s, ErrInvalidDate)
}
