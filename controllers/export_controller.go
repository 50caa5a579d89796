package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dfirlab/logsorter/repositories"
	"github.com/dfirlab/logsorter/services"
)

// ExportController handles the export API
type ExportController struct {
	services *services.Services
	repos    *repositories.Repositories
}

// NewExportController creates a new export controller
func NewExportController(services *services.Services, repos *repositories.Repositories) *ExportController {
	return &ExportController{services: services, repos: repos}
}

func exportFileName(safeName, extension string) string {
	return fmt.Sprintf("%s_%s.%s", safeName, time.Now().Format("20060102_150405"), extension)
}

// CSV handles GET /api/export/csv
func (c *ExportController) CSV(w http.ResponseWriter, r *http.Request) {
	inv, err := c.repos.Session.Load(r)
	if err != nil || inv == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No active investigation"})
		return
	}

	content, err := c.services.Export.ExportCSV(inv)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"csv_content": content,
		"filename":    exportFileName(inv.SafeName(), "csv"),
	})
}

// Text handles GET /api/export/txt
func (c *ExportController) Text(w http.ResponseWriter, r *http.Request) {
	inv, err := c.repos.Session.Load(r)
	if err != nil || inv == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No active investigation"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"txt_content": c.services.Export.ExportText(inv),
		"filename":    exportFileName(inv.SafeName(), "txt"),
	})
}

// JSON handles GET /api/export/json — the document itself, as a download
func (c *ExportController) JSON(w http.ResponseWriter, r *http.Request) {
	inv, err := c.repos.Session.Load(r)
	if err != nil || inv == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No active investigation"})
		return
	}

	doc, err := c.services.Export.ExportJSON(inv)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", exportFileName(inv.SafeName(), "json")))
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

// File handles POST /api/export/file — writes the structured report into
// the investigation folder.
func (c *ExportController) File(w http.ResponseWriter, r *http.Request) {
	inv, err := c.repos.Session.Load(r)
	if err != nil || inv == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No active investigation"})
		return
	}

	report := c.services.Export.BuildReport(inv)
	name, err := c.repos.Archive.SaveReport(inv, report)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     fmt.Sprintf("Investigation report saved to %s", name),
		"filename":    name,
		"entry_count": len(inv.Entries),
	})
}
