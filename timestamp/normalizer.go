package timestamp

import (
	"fmt"
	"strings"
	"time"
)

// Layouts for rendering instants back to the user.
const (
	// NativeLayout is the application's manual-entry format (YYYY-MM-DD-HH-MM-SS).
	NativeLayout = "2006-01-02-15-04-05"
	// DisplayLayout is the canonical rendering of a parsed instant.
	DisplayLayout = "2006-01-02 15:04:05"
	// PickerLayout matches HTML datetime-local inputs with seconds.
	PickerLayout = "2006-01-02T15:04:05"
)

// formats are tried strictly in order; the first structurally valid parse
// wins. Order matters: DD/MM/YYYY is tried before MM/DD/YYYY, so an input
// where both fields are <= 12 resolves as day-first. This is a documented
// policy, not inference.
var formats = []struct {
	name   string
	layout string
}{
	{"native", "2006-1-2-15-4-5"},
	{"datetime", "2006-01-02 15:04:05"},
	{"slash-datetime", "2006/01/02 15:04:05"},
	{"day-first", "02/01/2006 15:04:05"},
	{"month-first", "01/02/2006 15:04:05"},
	{"datetime-fractional", "2006-01-02 15:04:05.999999"},
	{"iso8601", "2006-01-02T15:04:05"},
	{"iso8601-utc", "2006-01-02T15:04:05.999999Z"},
	{"datetime-local", "2006-01-02T15:04"},
	{"day-first-hyphen", "02-01-2006 15:04:05"},
}

// ParseError reports an input that matched no accepted notation or carried
// an out-of-range field (month 13, hour 25, ...). The offending input is
// preserved verbatim.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unrecognized timestamp %q", e.Input)
}

// Normalize parses a raw timestamp string into a canonical instant.
//
// Leading/trailing whitespace is ignored. Fractional seconds are truncated:
// the canonical instant always has second resolution. On failure a
// *ParseError carrying the original input is returned; out-of-range fields
// are never clamped.
func Normalize(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, &ParseError{Input: raw}
	}

	for _, f := range formats {
		t, err := time.Parse(f.layout, trimmed)
		if err == nil {
			return t.Truncate(time.Second), nil
		}
	}

	return time.Time{}, &ParseError{Input: raw}
}

// Display renders an instant in the canonical display form.
func Display(t time.Time) string {
	return t.Format(DisplayLayout)
}

// Formats carries the present instant pre-rendered for every input surface.
type Formats struct {
	DatetimeLocal string `json:"datetime_local"`
	Formatted     string `json:"formatted"`
	ISO           string `json:"iso"`
	Display       string `json:"display"`
}

// FormatsFor renders the given instant in all supported entry formats.
func FormatsFor(t time.Time) Formats {
	return Formats{
		DatetimeLocal: t.Format(PickerLayout),
		Formatted:     t.Format(NativeLayout),
		ISO:           t.Format(time.RFC3339),
		Display:       t.Format(DisplayLayout),
	}
}

// NowFormats renders the current system time in all supported entry formats.
func NowFormats() Formats {
	return FormatsFor(time.Now())
}
