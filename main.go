package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dfirlab/logsorter/controllers"
	appmiddleware "github.com/dfirlab/logsorter/middleware"
	"github.com/dfirlab/logsorter/repositories"
	"github.com/dfirlab/logsorter/services"
)

func main() {
	// Load environment variables from .env file; every key has a default,
	// so a missing file is fine.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	logsDir := envOrDefault("LOGS_DIR", "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		log.Fatalf("Failed to create logs directory: %v", err)
	}

	// Initialize repositories
	repos := repositories.NewRepositories(logsDir)

	// Initialize services
	srvs := services.NewServices(services.Config{
		OllamaURL:   envOrDefault("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel: envOrDefault("OLLAMA_MODEL", "qwen2.5:7b"),
	})

	// Initialize controllers
	ctrl := controllers.NewControllers(srvs, repos)

	// Set up router
	r, err := setupRouter(ctrl, repos)
	if err != nil {
		log.Fatalf("Failed to setup router: %v", err)
	}

	port := envOrDefault("PORT", "5000")

	fmt.Printf("🔍 DFIR Log Sorter starting on port %s\n", port)
	fmt.Printf("📂 Visit: http://localhost:%s\n", port)
	fmt.Printf("💾 Logs directory: %s\n", logsDir)

	log.Fatal(http.ListenAndServe(":"+port, r))
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// setupRouter configures all routes
func setupRouter(ctrl *controllers.Controllers, repos *repositories.Repositories) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(6 * time.Minute)) // the AI analysis call is slow
	r.Use(middleware.Compress(5))

	// Determine if we should use secure cookies (HTTPS)
	useSecureCookies := os.Getenv("USE_HTTPS") == "true"

	// Session middleware; the investigation lives for the working day
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     "dfir_session",
		Secure:         useSecureCookies,
		Gclifetime:     3600,
		Maxlifetime:    8 * 3600,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)

	// PUBLIC ROUTES (no investigation required)
	r.Get("/", ctrl.Setup.Index)
	r.Get("/setup", ctrl.Setup.Setup)
	r.Post("/start_investigation", ctrl.Setup.Start)
	r.Post("/reset", ctrl.Setup.Reset)
	r.Get("/current_time", ctrl.Entries.CurrentTime)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "service": "dfir-log-sorter"}`)
	})

	// Static files
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static/"))))

	// API ROUTES (active investigation required)
	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.RequireInvestigation)
		r.Use(appmiddleware.AuditLogger(repos.Audit))

		r.Route("/api", func(r chi.Router) {
			r.Get("/entries", ctrl.Entries.List)
			r.Post("/entries", ctrl.Entries.Create)
			r.Put("/entries/{id}", ctrl.Entries.Update)
			r.Delete("/entries/{id}", ctrl.Entries.Delete)

			r.Post("/sort", ctrl.Entries.Sort)
			r.Post("/clear", ctrl.Entries.Clear)

			r.Get("/export/csv", ctrl.Export.CSV)
			r.Get("/export/txt", ctrl.Export.Text)
			r.Get("/export/json", ctrl.Export.JSON)
			r.Post("/export/file", ctrl.Export.File)

			r.Post("/import/csv", ctrl.Import.CSV)

			r.Post("/ai-analysis", ctrl.Analysis.Analyze)
		})
	})

	return r, nil
}
