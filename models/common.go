package models

import "strings"

// FlashMessage represents a flash message for user feedback
type FlashMessage struct {
	Type    string `json:"type"` // "success", "error", "warning", "info"
	Message string `json:"message"`
}

// PageData represents common data passed to templates
type PageData struct {
	Title        string        `json:"title"`
	CurrentPage  string        `json:"current_page"`
	FlashMessage *FlashMessage `json:"flash_message,omitempty"`
	Data         interface{}   `json:"data,omitempty"`
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// HasErrors returns true if there are validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// GetMessages returns all error messages as a slice of strings
func (ve ValidationErrors) GetMessages() []string {
	messages := make([]string, len(ve))
	for i, err := range ve {
		messages[i] = err.Message
	}
	return messages
}

// Error joins all messages so a ValidationErrors value can travel as an error.
func (ve ValidationErrors) Error() string {
	return "validation failed: " + strings.Join(ve.GetMessages(), ", ")
}
