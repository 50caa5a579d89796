package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dfirlab/logsorter/models"
)

// ColumnMap locates the relevant columns in an import header. A value of -1
// means the column is absent.
type ColumnMap struct {
	Timestamp   int
	Severity    int
	Description int
}

// ImportService turns messy CSV evidence into timeline entries. Individual
// bad rows are skipped and counted rather than aborting the batch; only a
// header missing the required columns rejects the import outright.
type ImportService interface {
	MapColumns(header []string) (ColumnMap, error)
	ReadCSV(r io.Reader) ([]models.ImportRow, error)
	ImportRows(inv *models.Investigation, rows []models.ImportRow) models.ImportResult
}

// importService implements ImportService interface
type importService struct {
	timeline TimelineService
}

// NewImportService creates a new import service
func NewImportService(timeline TimelineService) ImportService {
	return &importService{timeline: timeline}
}

// matchColumn returns the index of the first header cell containing any of
// the given substrings, case-insensitively.
func matchColumn(header []string, substrings ...string) int {
	for i, cell := range header {
		lower := strings.ToLower(strings.TrimSpace(cell))
		for _, sub := range substrings {
			if strings.Contains(lower, sub) {
				return i
			}
		}
	}
	return -1
}

// MapColumns locates timestamp, severity and description columns in the
// header. Timestamp and description are required; severity is optional.
func (s *importService) MapColumns(header []string) (ColumnMap, error) {
	cm := ColumnMap{
		Timestamp:   matchColumn(header, "timestamp", "time"),
		Severity:    matchColumn(header, "severity", "level"),
		Description: matchColumn(header, "description", "message"),
	}

	var missing []string
	if cm.Timestamp < 0 {
		missing = append(missing, "timestamp")
	}
	if cm.Description < 0 {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return ColumnMap{}, &models.ImportError{MissingColumns: missing}
	}

	return cm, nil
}

// ReadCSV parses an uploaded CSV stream into column-mapped rows. The batch
// is rejected before any row is processed when the header lacks a required
// column.
func (s *importService) ReadCSV(r io.Reader) ([]models.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cm, err := s.MapColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []models.ImportRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		row := models.ImportRow{
			Timestamp:   cell(record, cm.Timestamp),
			Description: cell(record, cm.Description),
		}
		if cm.Severity >= 0 {
			row.Severity = cell(record, cm.Severity)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// ImportRows adds each row as a new entry. Rows with unparseable timestamps
// or invalid descriptions are skipped and counted; an unknown severity is
// not a skip, it normalizes to Info.
func (s *importService) ImportRows(inv *models.Investigation, rows []models.ImportRow) models.ImportResult {
	var result models.ImportResult

	for _, row := range rows {
		form := &models.EntryForm{
			Timestamp:   row.Timestamp,
			Severity:    row.Severity,
			Description: row.Description,
		}
		if _, err := s.timeline.AddEntry(inv, form); err != nil {
			result.SkippedCount++
			continue
		}
		result.ImportedCount++
	}

	return result
}
