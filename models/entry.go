package models

import (
	"fmt"
	"strings"
	"time"
)

// Severity classifies a log entry. The zero value is Critical; levels are
// ordered from most to least severe.
type Severity int

const (
	SeverityCritical Severity = iota
	SeverityHigh
	SeverityMedium
	SeverityLow
	SeverityInfo
)

// Severities lists all levels in display order.
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}
}

// String returns the canonical severity name.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "Critical"
	case SeverityHigh:
		return "High"
	case SeverityMedium:
		return "Medium"
	case SeverityLow:
		return "Low"
	default:
		return "Info"
	}
}

// Icon returns the marker used in plain-text timelines.
func (s Severity) Icon() string {
	switch s {
	case SeverityCritical:
		return "🔴"
	case SeverityHigh:
		return "🟠"
	case SeverityMedium:
		return "🟡"
	case SeverityLow:
		return "🔵"
	default:
		return "ℹ️"
	}
}

// ParseSeverity maps a user-supplied severity name to a level. Matching is
// case-insensitive and accepts "information" as an alias for Info. Unknown
// names fall back to Info, mirroring how imported evidence is treated.
func ParseSeverity(name string) Severity {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "critical":
		return SeverityCritical
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	case "low":
		return SeverityLow
	default:
		return SeverityInfo
	}
}

// MarshalJSON renders the severity as its canonical name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON accepts any severity name ParseSeverity understands.
func (s *Severity) UnmarshalJSON(data []byte) error {
	name := strings.Trim(string(data), `"`)
	*s = ParseSeverity(name)
	return nil
}

// LogEntry is a single timestamped observation in an investigation.
// Timestamp holds the exact string the user supplied; ParsedTime is the
// canonical instant derived from it and is recomputed whenever the raw
// string changes.
type LogEntry struct {
	ID          string    `json:"id"`
	Timestamp   string    `json:"timestamp"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	ParsedTime  time.Time `json:"parsed_time"`
	CreatedAt   time.Time `json:"created_at"`
}

// LogLine renders the entry for plain-text timelines:
// [canonical instant] <icon> SEVERITY: description
func (e *LogEntry) LogLine() string {
	return fmt.Sprintf("[%s] %s %s: %s",
		e.ParsedTime.Format("2006-01-02 15:04:05"),
		e.Severity.Icon(),
		strings.ToUpper(e.Severity.String()),
		e.Description)
}

// MinDescriptionLength is the shortest accepted description after trimming.
const MinDescriptionLength = 5

// EntryForm carries the raw field values for creating or editing an entry.
type EntryForm struct {
	Timestamp   string `json:"timestamp"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// Validate checks the form's structural requirements. Timestamp parseability
// is the normalizer's concern, not the form's.
func (f *EntryForm) Validate() ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(f.Timestamp) == "" {
		errs = append(errs, ValidationError{Field: "timestamp", Message: "Timestamp is required"})
	}

	desc := strings.TrimSpace(f.Description)
	if desc == "" {
		errs = append(errs, ValidationError{Field: "description", Message: "Description is required"})
	} else if len(desc) < MinDescriptionLength {
		errs = append(errs, ValidationError{
			Field:   "description",
			Message: fmt.Sprintf("Description must be at least %d characters long", MinDescriptionLength),
		})
	}

	return errs
}

// ImportRow is one column-mapped row of an import batch.
type ImportRow struct {
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// ImportResult reports the outcome of a partial-failure import.
type ImportResult struct {
	ImportedCount int `json:"imported_count"`
	SkippedCount  int `json:"skipped_count"`
}
