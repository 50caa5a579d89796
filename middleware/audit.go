package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/dfirlab/logsorter/models"
	"github.com/dfirlab/logsorter/repositories"
	"github.com/dfirlab/logsorter/sessionctx"
)

// AuditLogger middleware records all POST/PUT/DELETE requests in the
// activity log, tagged with the active investigation.
func AuditLogger(auditRepo repositories.AuditRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Only log mutation operations
			if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodDelete {
				rec := &models.AuditRecord{
					Timestamp:     time.Now(),
					Investigation: sessionctx.GetInvestigationName(r.Context()),
					Method:        r.Method,
					Path:          r.URL.Path,
					UserAgent:     r.UserAgent(),
					IPAddress:     getIPAddress(r),
					FormData:      captureFormData(r),
				}

				if err := auditRepo.Create(rec); err != nil {
					log.Printf("Failed to create audit record: %v", err)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getIPAddress extracts IP address from request, checking X-Forwarded-For first
func getIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header (proxy/load balancer)
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		// Take first IP if multiple
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}

	// Check X-Real-IP header
	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	// Fall back to RemoteAddr
	ip := r.RemoteAddr
	// Remove port if present
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// captureFormData captures form data as JSON string
func captureFormData(r *http.Request) string {
	if err := r.ParseForm(); err != nil {
		return ""
	}

	formMap := make(map[string]interface{})
	for key, values := range r.Form {
		if len(values) == 1 {
			formMap[key] = values[0]
		} else {
			formMap[key] = values
		}
	}

	jsonData, err := sonic.Marshal(formMap)
	if err != nil {
		return ""
	}

	return string(jsonData)
}
