package controllers

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/dfirlab/logsorter/models"
	"github.com/dfirlab/logsorter/repositories"
	"github.com/dfirlab/logsorter/services"
	"github.com/dfirlab/logsorter/timestamp"
)

// renderTemplate creates a template set and renders it with the provided data
func renderTemplate(w http.ResponseWriter, templateName string, pageTemplate string, data interface{}) error {
	return renderTemplateWithStatus(w, http.StatusOK, templateName, pageTemplate, data)
}

// renderTemplateWithStatus creates a template set and renders it with the provided data and status code
func renderTemplateWithStatus(w http.ResponseWriter, statusCode int, templateName string, pageTemplate string, data interface{}) error {
	tmpl := template.New(templateName)

	// Parse layout and page template
	_, err := tmpl.ParseFiles("templates/layout.html", pageTemplate)
	if err != nil {
		http.Error(w, "Failed to parse template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}

	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	return nil
}

// writeJSON encodes v and writes it with the given status code
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	data, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(data)
}

// writeError reports a failure as JSON, mapping the error taxonomy to a
// status code: unknown ids are 404, bad input is 400, the rest is 500.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), map[string]string{"error": err.Error()})
}

func statusForError(err error) int {
	var notFound *models.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}

	var parseErr *timestamp.ParseError
	if errors.As(err, &parseErr) {
		return http.StatusBadRequest
	}

	var validationErrs models.ValidationErrors
	if errors.As(err, &validationErrs) {
		return http.StatusBadRequest
	}

	var importErr *models.ImportError
	if errors.As(err, &importErr) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// decodeJSONBody decodes a request body into v
func decodeJSONBody(r *http.Request, v interface{}) error {
	return sonic.ConfigDefault.NewDecoder(r.Body).Decode(v)
}

// archiveTimeline mirrors the investigation into its folder. Archive
// failures are logged and never fail the request (original behavior).
func archiveTimeline(repos *repositories.Repositories, inv *models.Investigation) {
	if err := repos.Archive.SaveTimeline(inv); err != nil {
		log.Printf("Warning: failed to auto-save logs: %v", err)
	}
}

// Controllers holds all controller instances
type Controllers struct {
	Setup    *SetupController
	Entries  *EntriesController
	Export   *ExportController
	Import   *ImportController
	Analysis *AnalysisController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services, repos *repositories.Repositories) *Controllers {
	return &Controllers{
		Setup:    NewSetupController(repos),
		Entries:  NewEntriesController(services, repos),
		Export:   NewExportController(services, repos),
		Import:   NewImportController(services, repos),
		Analysis: NewAnalysisController(services, repos),
	}
}
