package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dfirlab/logsorter/models"
	"github.com/dfirlab/logsorter/timestamp"
)

// TimelineService interface defines the entry collection business logic.
// Every operation takes the investigation explicitly; the service itself is
// stateless, so independent sessions never share anything.
type TimelineService interface {
	AddEntry(inv *models.Investigation, form *models.EntryForm) (*models.LogEntry, error)
	UpdateEntry(inv *models.Investigation, id string, form *models.EntryForm) (*models.LogEntry, error)
	DeleteEntry(inv *models.Investigation, id string) error
	ClearEntries(inv *models.Investigation)
	SortEntries(inv *models.Investigation, direction models.SortState) ([]models.LogEntry, error)
	Summarize(inv *models.Investigation) models.Summary
}

// timelineService implements TimelineService interface
type timelineService struct{}

// NewTimelineService creates a new timeline service
func NewTimelineService() TimelineService {
	return &timelineService{}
}

// buildEntry validates the form and resolves its raw timestamp. Nothing is
// mutated on failure, so add and edit stay atomic per entry.
func (s *timelineService) buildEntry(form *models.EntryForm) (*models.LogEntry, error) {
	if errs := form.Validate(); errs.HasErrors() {
		return nil, errs
	}

	parsed, err := timestamp.Normalize(form.Timestamp)
	if err != nil {
		return nil, err
	}

	return &models.LogEntry{
		Timestamp:   strings.TrimSpace(form.Timestamp),
		Description: strings.TrimSpace(form.Description),
		Severity:    models.ParseSeverity(form.Severity),
		ParsedTime:  parsed,
	}, nil
}

// AddEntry appends a new entry to the investigation
func (s *timelineService) AddEntry(inv *models.Investigation, form *models.EntryForm) (*models.LogEntry, error) {
	entry, err := s.buildEntry(form)
	if err != nil {
		return nil, err
	}

	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now()

	inv.Entries = append(inv.Entries, *entry)
	inv.SortState = models.SortUnset

	return entry, nil
}

// UpdateEntry replaces an entry in place; id and position are preserved
func (s *timelineService) UpdateEntry(inv *models.Investigation, id string, form *models.EntryForm) (*models.LogEntry, error) {
	idx := inv.EntryIndex(id)
	if idx < 0 {
		return nil, &models.NotFoundError{ID: id}
	}

	entry, err := s.buildEntry(form)
	if err != nil {
		return nil, err
	}

	entry.ID = id
	entry.CreatedAt = inv.Entries[idx].CreatedAt

	inv.Entries[idx] = *entry
	inv.SortState = models.SortUnset

	return entry, nil
}

// DeleteEntry removes an entry; the survivors keep their relative order
func (s *timelineService) DeleteEntry(inv *models.Investigation, id string) error {
	idx := inv.EntryIndex(id)
	if idx < 0 {
		return &models.NotFoundError{ID: id}
	}

	inv.Entries = append(inv.Entries[:idx], inv.Entries[idx+1:]...)
	return nil
}

// ClearEntries empties the collection unconditionally
func (s *timelineService) ClearEntries(inv *models.Investigation) {
	inv.Entries = []models.LogEntry{}
	inv.SortState = models.SortUnset
}

// SortEntries orders the collection by canonical instant. The sort is
// stable: entries with identical instants keep their prior relative order,
// so coarse-resolution timelines stay reproducible.
func (s *timelineService) SortEntries(inv *models.Investigation, direction models.SortState) ([]models.LogEntry, error) {
	switch direction {
	case models.SortAscending:
		sort.SliceStable(inv.Entries, func(i, j int) bool {
			return inv.Entries[i].ParsedTime.Before(inv.Entries[j].ParsedTime)
		})
	case models.SortDescending:
		sort.SliceStable(inv.Entries, func(i, j int) bool {
			return inv.Entries[j].ParsedTime.Before(inv.Entries[i].ParsedTime)
		})
	default:
		return nil, fmt.Errorf("invalid sort direction: %q", direction)
	}

	inv.SortState = direction
	return inv.Entries, nil
}

// Summarize tallies the collection per severity level
func (s *timelineService) Summarize(inv *models.Investigation) models.Summary {
	return inv.Summarize()
}
