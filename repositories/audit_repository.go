package repositories

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dfirlab/logsorter/models"
)

// AuditRepository handles audit trail persistence
type AuditRepository interface {
	Create(rec *models.AuditRecord) error
}

type fileAuditRepository struct {
	logsDir string
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(logsDir string) AuditRepository {
	return &fileAuditRepository{logsDir: logsDir}
}

// Create appends a record to the shared activity log
func (repo *fileAuditRepository) Create(rec *models.AuditRecord) error {
	if err := os.MkdirAll(repo.logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(repo.logsDir, "activity.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open activity log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s | %s | %s %s | %s | %s | %s\n",
		rec.Timestamp.Format("2006-01-02 15:04:05"),
		rec.Investigation,
		rec.Method,
		rec.Path,
		rec.IPAddress,
		rec.UserAgent,
		rec.FormData)

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}

	return nil
}
