package middleware

import (
	"net/http"
	"strings"

	"gitea.com/go-chi/session"

	"github.com/dfirlab/logsorter/sessionctx"
)

// RequireInvestigation ensures an investigation has been started.
// Page requests without one are redirected to /setup; API requests get a
// JSON 400 instead, since redirects are useless to fetch callers.
func RequireInvestigation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)
		name, ok := sess.Get("investigation_name").(string)

		if !ok || name == "" {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error": "No active investigation. Start one first."}`))
				return
			}
			http.Redirect(w, r, "/setup", http.StatusSeeOther)
			return
		}

		ctx := sessionctx.SetInvestigationName(r.Context(), name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
