package models

import (
	"fmt"
	"strings"
)

// NotFoundError reports an operation referencing an unknown entry id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("log entry %q not found", e.ID)
}

// ImportError reports a structurally invalid import batch, one whose header
// lacks a required column. It is raised before any row is processed.
type ImportError struct {
	MissingColumns []string
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import rejected: no %s column found", strings.Join(e.MissingColumns, " or "))
}
