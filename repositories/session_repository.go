package repositories

import (
	"fmt"
	"net/http"
	"time"

	"gitea.com/go-chi/session"
	"github.com/bytedance/sonic"

	"github.com/dfirlab/logsorter/models"
)

// Session keys. The entry collection is stored as a JSON blob so the session
// provider only ever sees plain bytes.
const (
	keyInvestigationName = "investigation_name"
	keyCreatedAt         = "created_at"
	keyLogEntries        = "log_entries"
	keySortState         = "sort_state"
)

// SessionRepository persists one investigation per browser session. Load
// returns nil (without error) when no investigation has been started yet.
type SessionRepository interface {
	Load(r *http.Request) (*models.Investigation, error)
	Save(r *http.Request, inv *models.Investigation) error
	Clear(r *http.Request) error
}

type cookieSessionRepository struct{}

// NewSessionRepository creates a session-backed investigation repository
func NewSessionRepository() SessionRepository {
	return &cookieSessionRepository{}
}

// Load reconstructs the investigation from the request's session
func (repo *cookieSessionRepository) Load(r *http.Request) (*models.Investigation, error) {
	sess := session.GetSession(r)

	name, ok := sess.Get(keyInvestigationName).(string)
	if !ok || name == "" {
		return nil, nil
	}

	inv := &models.Investigation{
		Name:    name,
		Entries: []models.LogEntry{},
	}

	if createdAt, ok := sess.Get(keyCreatedAt).(string); ok {
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			inv.CreatedAt = t
		}
	}

	if state, ok := sess.Get(keySortState).(string); ok {
		inv.SortState = models.SortState(state)
	}

	if blob, ok := sess.Get(keyLogEntries).([]byte); ok && len(blob) > 0 {
		if err := sonic.Unmarshal(blob, &inv.Entries); err != nil {
			return nil, fmt.Errorf("failed to decode session entries: %w", err)
		}
	}

	return inv, nil
}

// Save writes the investigation back to the request's session
func (repo *cookieSessionRepository) Save(r *http.Request, inv *models.Investigation) error {
	sess := session.GetSession(r)

	blob, err := sonic.Marshal(inv.Entries)
	if err != nil {
		return fmt.Errorf("failed to encode session entries: %w", err)
	}

	if err := sess.Set(keyInvestigationName, inv.Name); err != nil {
		return fmt.Errorf("failed to store investigation name: %w", err)
	}
	if err := sess.Set(keyCreatedAt, inv.CreatedAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to store creation time: %w", err)
	}
	if err := sess.Set(keySortState, string(inv.SortState)); err != nil {
		return fmt.Errorf("failed to store sort state: %w", err)
	}
	if err := sess.Set(keyLogEntries, blob); err != nil {
		return fmt.Errorf("failed to store entries: %w", err)
	}

	return nil
}

// Clear discards the investigation held by the request's session
func (repo *cookieSessionRepository) Clear(r *http.Request) error {
	sess := session.GetSession(r)

	for _, key := range []string{keyInvestigationName, keyCreatedAt, keySortState, keyLogEntries} {
		if err := sess.Delete(key); err != nil {
			return fmt.Errorf("failed to clear session key %s: %w", key, err)
		}
	}

	return nil
}
