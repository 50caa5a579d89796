package controllers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dfirlab/logsorter/models"
	"github.com/dfirlab/logsorter/repositories"
	"github.com/dfirlab/logsorter/services"
	"github.com/dfirlab/logsorter/timestamp"
)

// EntriesController handles the log entry API
type EntriesController struct {
	services *services.Services
	repos    *repositories.Repositories
}

// NewEntriesController creates a new entries controller
func NewEntriesController(services *services.Services, repos *repositories.Repositories) *EntriesController {
	return &EntriesController{services: services, repos: repos}
}

// load fetches the session's investigation, reporting the failure itself
func (c *EntriesController) load(w http.ResponseWriter, r *http.Request) *models.Investigation {
	inv, err := c.repos.Session.Load(r)
	if err != nil {
		writeError(w, err)
		return nil
	}
	if inv == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No active investigation. Start one first."})
		return nil
	}
	return inv
}

// save persists the investigation and mirrors it to the archive folder
func (c *EntriesController) save(w http.ResponseWriter, r *http.Request, inv *models.Investigation) bool {
	if err := c.repos.Session.Save(r, inv); err != nil {
		writeError(w, err)
		return false
	}
	archiveTimeline(c.repos, inv)
	return true
}

// List handles GET /api/entries
func (c *EntriesController) List(w http.ResponseWriter, r *http.Request) {
	inv := c.load(w, r)
	if inv == nil {
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries":            inv.Entries,
		"investigation_name": inv.Name,
		"total_count":        len(inv.Entries),
		"sort_state":         inv.SortState,
		"summary":            c.services.Timeline.Summarize(inv),
	})
}

// Create handles POST /api/entries
func (c *EntriesController) Create(w http.ResponseWriter, r *http.Request) {
	var form models.EntryForm
	if err := decodeJSONBody(r, &form); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	inv := c.load(w, r)
	if inv == nil {
		return
	}

	entry, err := c.services.Timeline.AddEntry(inv, &form)
	if err != nil {
		writeError(w, err)
		return
	}

	if !c.save(w, r, inv) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"entry":       entry,
		"total_count": len(inv.Entries),
	})
}

// Update handles PUT /api/entries/{id}
func (c *EntriesController) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var form models.EntryForm
	if err := decodeJSONBody(r, &form); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	inv := c.load(w, r)
	if inv == nil {
		return
	}

	entry, err := c.services.Timeline.UpdateEntry(inv, id, &form)
	if err != nil {
		writeError(w, err)
		return
	}

	if !c.save(w, r, inv) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"entry":   entry,
	})
}

// Delete handles DELETE /api/entries/{id}
func (c *EntriesController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	inv := c.load(w, r)
	if inv == nil {
		return
	}

	if err := c.services.Timeline.DeleteEntry(inv, id); err != nil {
		writeError(w, err)
		return
	}

	if !c.save(w, r, inv) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"total_count": len(inv.Entries),
	})
}

// sortRequest carries the sort direction, defaulting to ascending
type sortRequest struct {
	Direction string `json:"direction"`
}

// Sort handles POST /api/sort
func (c *EntriesController) Sort(w http.ResponseWriter, r *http.Request) {
	req := sortRequest{Direction: string(models.SortAscending)}
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSONBody(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
			return
		}
	}

	inv := c.load(w, r)
	if inv == nil {
		return
	}

	entries, err := c.services.Timeline.SortEntries(inv, models.SortState(req.Direction))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if !c.save(w, r, inv) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"entries": entries,
		"message": fmt.Sprintf("Sorted %d entries by timestamp", len(entries)),
	})
}

// Clear handles POST /api/clear
func (c *EntriesController) Clear(w http.ResponseWriter, r *http.Request) {
	inv := c.load(w, r)
	if inv == nil {
		return
	}

	c.services.Timeline.ClearEntries(inv)

	if !c.save(w, r, inv) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "All entries cleared",
	})
}

// CurrentTime handles GET /current_time — the present instant pre-formatted
// for every input surface.
func (c *EntriesController) CurrentTime(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, timestamp.NowFormats())
}
