package repositories

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dfirlab/logsorter/models"
)

// ArchiveRepository mirrors the in-session investigation to its folder under
// the logs directory, so evidence survives the session itself.
type ArchiveRepository interface {
	// SaveTimeline rewrites the investigation's CSV snapshot, sorted
	// chronologically. An empty collection removes the snapshot.
	SaveTimeline(inv *models.Investigation) error
	// SaveAnalysis stores an AI analysis result and returns the file name.
	SaveAnalysis(inv *models.Investigation, analysis string) (string, error)
	// SaveReport stores a structured report export and returns the file name.
	SaveReport(inv *models.Investigation, content string) (string, error)
}

type fileArchiveRepository struct {
	logsDir string
}

// NewArchiveRepository creates an archive repository rooted at logsDir
func NewArchiveRepository(logsDir string) ArchiveRepository {
	return &fileArchiveRepository{logsDir: logsDir}
}

// folder returns (creating if needed) the investigation's archive folder
func (repo *fileArchiveRepository) folder(inv *models.Investigation) (string, error) {
	dir := filepath.Join(repo.logsDir, inv.SafeName())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create investigation folder: %w", err)
	}
	return dir, nil
}

const timelineFileName = "investigation_logs.csv"

// SaveTimeline rewrites investigation_logs.csv with all current entries
func (repo *fileArchiveRepository) SaveTimeline(inv *models.Investigation) error {
	dir, err := repo.folder(inv)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, timelineFileName)

	if len(inv.Entries) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove empty timeline snapshot: %w", err)
		}
		return nil
	}

	sorted := make([]models.LogEntry, len(inv.Entries))
	copy(sorted, inv.Entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ParsedTime.Before(sorted[j].ParsedTime)
	})

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create timeline snapshot: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Timestamp", "Severity", "Description"}); err != nil {
		return err
	}
	for i := range sorted {
		record := []string{sorted[i].Timestamp, sorted[i].Severity.String(), sorted[i].Description}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()

	return w.Error()
}

// SaveAnalysis writes an AI analysis file into the investigation folder
func (repo *fileArchiveRepository) SaveAnalysis(inv *models.Investigation, analysis string) (string, error) {
	dir, err := repo.folder(inv)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("ai_analysis_%s.txt", time.Now().Format("20060102_150405"))

	banner := "================================================================================"
	content := fmt.Sprintf("%s\nAI Security Analysis: %s\n%s\nGenerated: %s\n%s\n\n%s\n\n%s\nEnd of AI Analysis\n%s\n",
		banner, inv.Name, banner,
		time.Now().Format("2006-01-02 15:04:05"),
		banner, analysis, banner, banner)

	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to save analysis: %w", err)
	}

	return name, nil
}

// SaveReport writes a structured report export into the investigation folder
func (repo *fileArchiveRepository) SaveReport(inv *models.Investigation, content string) (string, error) {
	dir, err := repo.folder(inv)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("investigation_report_%s.txt", time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	return name, nil
}
