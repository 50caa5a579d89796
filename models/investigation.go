package models

import (
	"regexp"
	"strings"
	"time"
)

// SortState records the direction of the last explicit sort, if any.
type SortState string

const (
	SortUnset      SortState = ""
	SortAscending  SortState = "asc"
	SortDescending SortState = "desc"
)

// Investigation is the isolation unit for one case: a named session owning
// its entry collection. Entries are only ever mutated through the timeline
// service; each entry belongs to exactly one investigation.
type Investigation struct {
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	Entries   []LogEntry `json:"entries"`
	SortState SortState  `json:"sort_state"`
}

// NewInvestigation starts a fresh, empty investigation.
func NewInvestigation(name string) *Investigation {
	return &Investigation{
		Name:      name,
		CreatedAt: time.Now(),
		Entries:   []LogEntry{},
	}
}

// EntryIndex returns the position of the entry with the given id, or -1.
func (inv *Investigation) EntryIndex(id string) int {
	for i := range inv.Entries {
		if inv.Entries[i].ID == id {
			return i
		}
	}
	return -1
}

// IsSorted reports whether the collection holds an explicitly sorted order.
func (inv *Investigation) IsSorted() bool {
	return inv.SortState != SortUnset
}

// Summary counts entries per severity level.
type Summary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Info     int `json:"info"`
}

// Count returns the tally for one severity level.
func (s Summary) Count(sev Severity) int {
	switch sev {
	case SeverityCritical:
		return s.Critical
	case SeverityHigh:
		return s.High
	case SeverityMedium:
		return s.Medium
	case SeverityLow:
		return s.Low
	default:
		return s.Info
	}
}

// Summarize tallies the collection per severity level.
func (inv *Investigation) Summarize() Summary {
	s := Summary{Total: len(inv.Entries)}
	for i := range inv.Entries {
		switch inv.Entries[i].Severity {
		case SeverityCritical:
			s.Critical++
		case SeverityHigh:
			s.High++
		case SeverityMedium:
			s.Medium++
		case SeverityLow:
			s.Low++
		default:
			s.Info++
		}
	}
	return s
}

// InvestigationForm carries the session start input.
type InvestigationForm struct {
	Name string `json:"investigation_name"`
}

// MinInvestigationNameLength is the shortest accepted investigation name.
const MinInvestigationNameLength = 3

// Validate checks the investigation name.
func (f *InvestigationForm) Validate() ValidationErrors {
	var errs ValidationErrors

	name := strings.TrimSpace(f.Name)
	if name == "" {
		errs = append(errs, ValidationError{Field: "investigation_name", Message: "Investigation name is required"})
	} else if len(name) < MinInvestigationNameLength {
		errs = append(errs, ValidationError{
			Field:   "investigation_name",
			Message: "Investigation name must be at least 3 characters long",
		})
	}

	return errs
}

var unsafeNameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SafeName returns the investigation name with filesystem-hostile characters
// replaced, for use as a folder name under the logs directory.
func (inv *Investigation) SafeName() string {
	return unsafeNameChars.ReplaceAllString(inv.Name, "_")
}
