package repositories

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gitea.com/go-chi/session"
	"github.com/bytedance/sonic"

	"github.com/dfirlab/logsorter/models"
)

func testInvestigation() *models.Investigation {
	inv := models.NewInvestigation("Breach 2025-001")
	inv.Entries = []models.LogEntry{
		{
			ID:          "b",
			Timestamp:   "2025-01-15 11:00:00",
			Description: "Privilege escalation on web01",
			Severity:    models.SeverityHigh,
			ParsedTime:  time.Date(2025, 1, 15, 11, 0, 0, 0, time.UTC),
		},
		{
			ID:          "a",
			Timestamp:   "2025-01-15 10:00:00",
			Description: "Suspicious login from 203.0.113.7",
			Severity:    models.SeverityCritical,
			ParsedTime:  time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
		},
	}
	return inv
}

func TestArchiveRepository_SaveTimeline(t *testing.T) {
	logsDir := t.TempDir()
	repo := NewArchiveRepository(logsDir)
	inv := testInvestigation()

	if err := repo.SaveTimeline(inv); err != nil {
		t.Fatalf("Failed to save timeline: %v", err)
	}

	path := filepath.Join(logsDir, inv.SafeName(), "investigation_logs.csv")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read timeline snapshot: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Timestamp,Severity,Description" {
		t.Errorf("Unexpected header: %q", lines[0])
	}

	// The snapshot is always written chronologically, whatever the stored order
	if !strings.HasPrefix(lines[1], "2025-01-15 10:00:00") {
		t.Errorf("Expected earliest entry first, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "2025-01-15 11:00:00") {
		t.Errorf("Expected latest entry last, got %q", lines[2])
	}
}

func TestArchiveRepository_SaveTimelineEmptyRemovesSnapshot(t *testing.T) {
	logsDir := t.TempDir()
	repo := NewArchiveRepository(logsDir)
	inv := testInvestigation()

	if err := repo.SaveTimeline(inv); err != nil {
		t.Fatalf("Failed to save timeline: %v", err)
	}

	inv.Entries = []models.LogEntry{}
	if err := repo.SaveTimeline(inv); err != nil {
		t.Fatalf("Failed to save empty timeline: %v", err)
	}

	path := filepath.Join(logsDir, inv.SafeName(), "investigation_logs.csv")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected empty collection to remove the snapshot")
	}

	// Saving an empty collection twice must stay a no-op
	if err := repo.SaveTimeline(inv); err != nil {
		t.Fatalf("Second empty save failed: %v", err)
	}
}

func TestArchiveRepository_SaveAnalysis(t *testing.T) {
	logsDir := t.TempDir()
	repo := NewArchiveRepository(logsDir)
	inv := testInvestigation()

	name, err := repo.SaveAnalysis(inv, "Attacker pivoted from web01.")
	if err != nil {
		t.Fatalf("Failed to save analysis: %v", err)
	}

	if !strings.HasPrefix(name, "ai_analysis_") || !strings.HasSuffix(name, ".txt") {
		t.Errorf("Unexpected analysis file name: %q", name)
	}

	data, err := os.ReadFile(filepath.Join(logsDir, inv.SafeName(), name))
	if err != nil {
		t.Fatalf("Failed to read analysis file: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "AI Security Analysis: Breach 2025-001") {
		t.Error("Analysis file missing header")
	}
	if !strings.Contains(content, "Attacker pivoted from web01.") {
		t.Error("Analysis file missing analysis body")
	}
	if !strings.Contains(content, "End of AI Analysis") {
		t.Error("Analysis file missing footer")
	}
}

func TestArchiveRepository_SaveReport(t *testing.T) {
	logsDir := t.TempDir()
	repo := NewArchiveRepository(logsDir)
	inv := testInvestigation()

	name, err := repo.SaveReport(inv, "report body")
	if err != nil {
		t.Fatalf("Failed to save report: %v", err)
	}

	if !strings.HasPrefix(name, "investigation_report_") || !strings.HasSuffix(name, ".txt") {
		t.Errorf("Unexpected report file name: %q", name)
	}

	data, err := os.ReadFile(filepath.Join(logsDir, inv.SafeName(), name))
	if err != nil {
		t.Fatalf("Failed to read report file: %v", err)
	}
	if string(data) != "report body" {
		t.Errorf("Unexpected report contents: %q", data)
	}
}

func TestArchiveRepository_SanitizesFolderName(t *testing.T) {
	logsDir := t.TempDir()
	repo := NewArchiveRepository(logsDir)

	inv := models.NewInvestigation(`Case: ../escape`)
	inv.Entries = testInvestigation().Entries

	if err := repo.SaveTimeline(inv); err != nil {
		t.Fatalf("Failed to save timeline: %v", err)
	}

	// The folder must be created under logsDir, named with the sanitized form
	entries, err := os.ReadDir(logsDir)
	if err != nil {
		t.Fatalf("Failed to list logs dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != inv.SafeName() {
		t.Errorf("Expected a single folder %q, got %v", inv.SafeName(), entries)
	}
}

func TestAuditRepository(t *testing.T) {
	logsDir := t.TempDir()
	repo := NewAuditRepository(logsDir)

	rec := &models.AuditRecord{
		Timestamp:     time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
		Investigation: "Breach 2025-001",
		Method:        "POST",
		Path:          "/api/entries",
		FormData:      `{"severity":"High"}`,
		UserAgent:     "test-agent",
		IPAddress:     "203.0.113.7",
	}

	if err := repo.Create(rec); err != nil {
		t.Fatalf("Failed to create audit record: %v", err)
	}
	if err := repo.Create(rec); err != nil {
		t.Fatalf("Failed to append second audit record: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(logsDir, "activity.log"))
	if err != nil {
		t.Fatalf("Failed to read activity log: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 audit lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "Breach 2025-001") || !strings.Contains(lines[0], "POST /api/entries") {
		t.Errorf("Unexpected audit line: %q", lines[0])
	}
}

// newSessionTestServer wires the session middleware around save/load/clear
// handlers so the repository is exercised the way real requests hit it.
func newSessionTestServer(t *testing.T, repo SessionRepository, inv *models.Investigation) *httptest.Server {
	sessioner, err := session.Sessioner(session.Options{
		Provider:    "memory",
		CookieName:  "test_session",
		Gclifetime:  3600,
		Maxlifetime: 3600,
	})
	if err != nil {
		t.Fatalf("Failed to initialize session middleware: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/save", func(w http.ResponseWriter, r *http.Request) {
		if err := repo.Save(r, inv); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	mux.HandleFunc("/load", func(w http.ResponseWriter, r *http.Request) {
		loaded, err := repo.Load(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if loaded == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		data, err := sonic.Marshal(loaded)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Write(data)
	})
	mux.HandleFunc("/clear", func(w http.ResponseWriter, r *http.Request) {
		if err := repo.Clear(r); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	srv := httptest.NewServer(sessioner(mux))
	t.Cleanup(srv.Close)
	return srv
}

func TestSessionRepository(t *testing.T) {
	repo := NewSessionRepository()
	inv := testInvestigation()
	inv.SortState = models.SortDescending

	srv := newSessionTestServer(t, repo, inv)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("Failed to create cookie jar: %v", err)
	}
	client := &http.Client{Jar: jar}

	// Before anything is saved, Load reports no investigation
	resp, err := client.Get(srv.URL + "/load")
	if err != nil {
		t.Fatalf("Load request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Expected no investigation before save, got status %d", resp.StatusCode)
	}

	// Save, then load on a later request in the same session
	resp, err = client.Get(srv.URL + "/save")
	if err != nil {
		t.Fatalf("Save request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Save failed with status %d", resp.StatusCode)
	}

	resp, err = client.Get(srv.URL + "/load")
	if err != nil {
		t.Fatalf("Load request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Load failed with status %d", resp.StatusCode)
	}

	var loaded models.Investigation
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&loaded); err != nil {
		t.Fatalf("Failed to decode loaded investigation: %v", err)
	}
	resp.Body.Close()

	if loaded.Name != inv.Name {
		t.Errorf("Expected name %q, got %q", inv.Name, loaded.Name)
	}
	if loaded.SortState != models.SortDescending {
		t.Errorf("Expected sort state desc, got %q", loaded.SortState)
	}
	if len(loaded.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(loaded.Entries))
	}
	if loaded.Entries[0].ID != "b" || loaded.Entries[1].ID != "a" {
		t.Errorf("Stored order not preserved: %v, %v", loaded.Entries[0].ID, loaded.Entries[1].ID)
	}
	if loaded.Entries[0].Severity != models.SeverityHigh {
		t.Errorf("Expected High severity, got %v", loaded.Entries[0].Severity)
	}

	// Clear discards the investigation
	resp, err = client.Get(srv.URL + "/clear")
	if err != nil {
		t.Fatalf("Clear request failed: %v", err)
	}
	resp.Body.Close()

	resp, err = client.Get(srv.URL + "/load")
	if err != nil {
		t.Fatalf("Load request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected no investigation after clear, got status %d", resp.StatusCode)
	}
}

func TestSessionRepository_IsolatedSessions(t *testing.T) {
	repo := NewSessionRepository()
	inv := testInvestigation()

	srv := newSessionTestServer(t, repo, inv)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("Failed to create cookie jar: %v", err)
	}
	first := &http.Client{Jar: jar}

	resp, err := first.Get(srv.URL + "/save")
	if err != nil {
		t.Fatalf("Save request failed: %v", err)
	}
	resp.Body.Close()

	// A client without the session cookie sees nothing
	second := &http.Client{}
	resp, err = second.Get(srv.URL + "/load")
	if err != nil {
		t.Fatalf("Load request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected fresh session to hold no investigation, got status %d", resp.StatusCode)
	}
}
