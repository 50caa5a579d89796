package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dfirlab/logsorter/models"
	"github.com/dfirlab/logsorter/repositories"
	"github.com/dfirlab/logsorter/services"
)

// ImportController handles the CSV import API
type ImportController struct {
	services *services.Services
	repos    *repositories.Repositories
}

// NewImportController creates a new import controller
func NewImportController(services *services.Services, repos *repositories.Repositories) *ImportController {
	return &ImportController{services: services, repos: repos}
}

// importRequest is the JSON form of an import batch: rows already
// column-mapped by the caller.
type importRequest struct {
	Entries []models.ImportRow `json:"entries"`
}

// CSV handles POST /api/import/csv. The batch arrives either as an uploaded
// CSV file (multipart field "file", column-mapped by header) or as a JSON
// body of pre-mapped rows. Bad rows are skipped and counted, never fatal.
func (c *ImportController) CSV(w http.ResponseWriter, r *http.Request) {
	rows, err := c.readRows(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(rows) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No entries to import"})
		return
	}

	inv, err := c.repos.Session.Load(r)
	if err != nil || inv == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No active investigation"})
		return
	}

	result := c.services.Import.ImportRows(inv, rows)

	if err := c.repos.Session.Save(r, inv); err != nil {
		writeError(w, err)
		return
	}
	archiveTimeline(c.repos, inv)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"imported_count": result.ImportedCount,
		"skipped_count":  result.SkippedCount,
		"total_entries":  len(inv.Entries),
		"message":        fmt.Sprintf("Successfully imported %d entries", result.ImportedCount),
	})
}

// readRows extracts the import batch from the request
func (c *ImportController) readRows(r *http.Request) ([]models.ImportRow, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("failed to read uploaded file: %w", err)
		}
		defer file.Close()
		return c.services.Import.ReadCSV(file)
	}

	var req importRequest
	if err := decodeJSONBody(r, &req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	return req.Entries, nil
}
