package controllers

import (
	"net/http"
	"strings"

	"github.com/dfirlab/logsorter/models"
	"github.com/dfirlab/logsorter/repositories"
)

// SetupController handles the investigation lifecycle: setup page, session
// start and reset.
type SetupController struct {
	repos *repositories.Repositories
}

// NewSetupController creates a new setup controller
func NewSetupController(repos *repositories.Repositories) *SetupController {
	return &SetupController{repos: repos}
}

// Index handles GET / — the dashboard, or the setup page when no
// investigation has been started yet.
func (c *SetupController) Index(w http.ResponseWriter, r *http.Request) {
	inv, err := c.repos.Session.Load(r)
	if err != nil {
		http.Error(w, "Failed to load investigation: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if inv == nil {
		http.Redirect(w, r, "/setup", http.StatusSeeOther)
		return
	}

	templateData := struct {
		Title             string
		CurrentPage       string
		InvestigationName string
		LogCount          int
		Summary           models.Summary
	}{
		Title:             "Timeline",
		CurrentPage:       "index",
		InvestigationName: inv.Name,
		LogCount:          len(inv.Entries),
		Summary:           inv.Summarize(),
	}

	renderTemplate(w, "index", "templates/index.html", templateData)
}

// Setup handles GET /setup
func (c *SetupController) Setup(w http.ResponseWriter, r *http.Request) {
	templateData := struct {
		Title       string
		CurrentPage string
		Error       string
	}{
		Title:       "Investigation Setup",
		CurrentPage: "setup",
		Error:       r.URL.Query().Get("error"),
	}

	renderTemplate(w, "setup", "templates/setup.html", templateData)
}

// Start handles POST /start_investigation
func (c *SetupController) Start(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := &models.InvestigationForm{Name: r.FormValue("investigation_name")}
	if errs := form.Validate(); errs.HasErrors() {
		templateData := struct {
			Title       string
			CurrentPage string
			Error       string
		}{
			Title:       "Investigation Setup",
			CurrentPage: "setup",
			Error:       errs.GetMessages()[0],
		}
		renderTemplateWithStatus(w, http.StatusBadRequest, "setup_error", "templates/setup.html", templateData)
		return
	}

	// Discard any previous investigation before starting the new one
	if err := c.repos.Session.Clear(r); err != nil {
		http.Error(w, "Failed to reset session: "+err.Error(), http.StatusInternalServerError)
		return
	}

	inv := models.NewInvestigation(strings.TrimSpace(form.Name))
	if err := c.repos.Session.Save(r, inv); err != nil {
		http.Error(w, "Failed to start investigation: "+err.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Reset handles POST /reset — discards the investigation and all entries
func (c *SetupController) Reset(w http.ResponseWriter, r *http.Request) {
	if err := c.repos.Session.Clear(r); err != nil {
		http.Error(w, "Failed to reset investigation: "+err.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/setup", http.StatusSeeOther)
}
