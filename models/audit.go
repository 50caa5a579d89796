package models

import "time"

// AuditRecord represents a single HTTP mutation event on an investigation
type AuditRecord struct {
	Timestamp     time.Time
	Investigation string
	Method        string
	Path          string
	FormData      string
	UserAgent     string
	IPAddress     string
}
