package controllers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/dfirlab/logsorter/repositories"
	"github.com/dfirlab/logsorter/services"
)

// AnalysisController handles the AI analysis API
type AnalysisController struct {
	services *services.Services
	repos    *repositories.Repositories
}

// NewAnalysisController creates a new analysis controller
func NewAnalysisController(services *services.Services, repos *repositories.Repositories) *AnalysisController {
	return &AnalysisController{services: services, repos: repos}
}

// Analyze handles POST /api/ai-analysis. The result is stored verbatim in
// the investigation folder; the analysis itself is an opaque blob.
func (c *AnalysisController) Analyze(w http.ResponseWriter, r *http.Request) {
	inv, err := c.repos.Session.Load(r)
	if err != nil || inv == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No active investigation"})
		return
	}

	if len(inv.Entries) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No logs to analyze"})
		return
	}

	analysis, err := c.services.Analysis.Analyze(r.Context(), inv)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if _, err := c.repos.Archive.SaveAnalysis(inv, analysis); err != nil {
		log.Printf("Warning: failed to auto-save AI analysis: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"analysis":      analysis,
		"logs_analyzed": len(inv.Entries),
		"message":       fmt.Sprintf("Successfully analyzed %d log entries", len(inv.Entries)),
	})
}
