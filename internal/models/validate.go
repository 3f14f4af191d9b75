package models

import (
	"fmt"
	"strings"
)

// ValidationError reports a field a front-end should reject before calling
// the store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate checks the fields the customer form requires
func (d CustomerDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return invalid("name", "is required")
	}
	if d.Status != "" && !d.Status.Valid() {
		return invalid("status", "unknown status %q", d.Status)
	}
	return nil
}

// Validate checks the fields the patch sets
func (p CustomerPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return invalid("name", "cannot be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return invalid("status", "unknown status %q", *p.Status)
	}
	return nil
}

// Validate checks the fields the task form requires
func (d TaskDraft) Validate() error {
	if d.CustomerID == "" {
		return invalid("customerId", "is required")
	}
	if strings.TrimSpace(d.Title) == "" {
		return invalid("title", "is required")
	}
	if d.Deadline.IsZero() {
		return invalid("deadline", "is required")
	}
	if d.Status != "" && !d.Status.Valid() {
		return invalid("status", "unknown status %q", d.Status)
	}
	if d.Priority != "" && !d.Priority.Valid() {
		return invalid("priority", "unknown priority %q", d.Priority)
	}
	return nil
}

// Validate checks the fields the patch sets
func (p TaskPatch) Validate() error {
	if p.CustomerID != nil && *p.CustomerID == "" {
		return invalid("customerId", "cannot be empty")
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return invalid("title", "cannot be empty")
	}
	if p.Deadline != nil && p.Deadline.IsZero() {
		return invalid("deadline", "cannot be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return invalid("status", "unknown status %q", *p.Status)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return invalid("priority", "unknown priority %q", *p.Priority)
	}
	return nil
}
