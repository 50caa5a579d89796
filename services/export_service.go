package services

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/dfirlab/logsorter/models"
	"github.com/dfirlab/logsorter/timestamp"
)

// ExportService serializes an investigation's entries in their current
// order, whatever sort or insertion state holds at call time. Every format
// is valid for an empty collection.
type ExportService interface {
	ExportText(inv *models.Investigation) string
	ExportCSV(inv *models.Investigation) (string, error)
	ExportJSON(inv *models.Investigation) ([]byte, error)
	BuildReport(inv *models.Investigation) string
}

// exportService implements ExportService interface
type exportService struct{}

// NewExportService creates a new export service
func NewExportService() ExportService {
	return &exportService{}
}

const exportBanner = "================================================================================"

// ExportText renders the plain-text timeline export. Investigators script
// against this layout; the header block and line format are a contract.
func (s *exportService) ExportText(inv *models.Investigation) string {
	summary := inv.Summarize()

	var b strings.Builder
	b.WriteString("DFIR Log Sorter - Timeline Export\n")
	fmt.Fprintf(&b, "Investigation: %s\n", inv.Name)
	fmt.Fprintf(&b, "Generated: %s\n", timestamp.Display(time.Now()))
	fmt.Fprintf(&b, "Total Entries: %d\n", summary.Total)
	fmt.Fprintf(&b, "Severity Summary: Critical: %d | High: %d | Medium: %d | Low: %d | Info: %d\n",
		summary.Critical, summary.High, summary.Medium, summary.Low, summary.Info)
	b.WriteString(exportBanner + "\n\n")

	for i := range inv.Entries {
		b.WriteString(inv.Entries[i].LogLine())
		b.WriteString("\n")
	}

	return b.String()
}

// ExportCSV renders the CSV export: a fixed header row, then one row per
// entry with the raw timestamp, severity, description and parsed time.
// Fields are quoted only when they need it (embedded commas, quotes).
func (s *exportService) ExportCSV(inv *models.Investigation) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write([]string{"Timestamp", "Severity", "Description", "Parsed Time"}); err != nil {
		return "", err
	}

	for i := range inv.Entries {
		e := &inv.Entries[i]
		record := []string{e.Timestamp, e.Severity.String(), e.Description, timestamp.Display(e.ParsedTime)}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return b.String(), nil
}

// jsonExport is the JSON export document shape.
type jsonExport struct {
	ExportTime   string              `json:"export_time"`
	TotalEntries int                 `json:"total_entries"`
	IsSorted     bool                `json:"is_sorted"`
	Entries      []jsonExportedEntry `json:"entries"`
}

type jsonExportedEntry struct {
	Timestamp   string          `json:"timestamp"`
	Description string          `json:"description"`
	Severity    models.Severity `json:"severity"`
	ParsedTime  string          `json:"parsed_time"`
}

// ExportJSON renders the JSON export document
func (s *exportService) ExportJSON(inv *models.Investigation) ([]byte, error) {
	doc := jsonExport{
		ExportTime:   time.Now().Format(timestamp.PickerLayout),
		TotalEntries: len(inv.Entries),
		IsSorted:     inv.IsSorted(),
		Entries:      make([]jsonExportedEntry, 0, len(inv.Entries)),
	}

	for i := range inv.Entries {
		e := &inv.Entries[i]
		doc.Entries = append(doc.Entries, jsonExportedEntry{
			Timestamp:   e.Timestamp,
			Description: e.Description,
			Severity:    e.Severity,
			ParsedTime:  e.ParsedTime.Format(timestamp.PickerLayout),
		})
	}

	return sonic.MarshalIndent(doc, "", "  ")
}

// BuildReport renders the structured per-entry investigation report
func (s *exportService) BuildReport(inv *models.Investigation) string {
	var b strings.Builder
	b.WriteString(exportBanner + "\n")
	b.WriteString("DFIR LOG SORTER - INVESTIGATION REPORT\n")
	b.WriteString(exportBanner + "\n")
	fmt.Fprintf(&b, "Investigation: %s\n", inv.Name)
	fmt.Fprintf(&b, "Generated: %s\n", timestamp.Display(time.Now()))
	fmt.Fprintf(&b, "Total Entries: %d\n", len(inv.Entries))
	if inv.IsSorted() {
		b.WriteString("Sort Status: Sorted\n")
	} else {
		b.WriteString("Sort Status: Unsorted\n")
	}
	b.WriteString(exportBanner + "\n\n")

	for i := range inv.Entries {
		e := &inv.Entries[i]
		fmt.Fprintf(&b, "Entry #%d\n", i+1)
		fmt.Fprintf(&b, "Timestamp: %s\n", e.Timestamp)
		fmt.Fprintf(&b, "Severity: %s\n", e.Severity)
		fmt.Fprintf(&b, "Description: %s\n", e.Description)
		fmt.Fprintf(&b, "Parsed Time: %s\n", timestamp.Display(e.ParsedTime))
		b.WriteString(strings.Repeat("-", 60) + "\n\n")
	}

	b.WriteString(exportBanner + "\n")
	b.WriteString("End of Report\n")
	b.WriteString(exportBanner + "\n")

	return b.String()
}
