package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tgienger/crm/internal/models"
)

var deadlineLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseDeadline accepts an absolute time in one of deadlineLayouts, a
// number of days such as "3d", or a Go duration such as "36h", both
// relative to now.
func parseDeadline(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil {
			return now.AddDate(0, 0, n), nil
		}
	}
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(d), nil
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid deadline %q: use YYYY-MM-DD, RFC 3339, 3d or 36h", s)
}

// parseTags splits a comma separated tag list, dropping empty entries.
func parseTags(s string) []string {
	tags := []string{}
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// parseTaskStatus accepts the stored form plus a few spellings that are
// easier to type, e.g. "in-progress".
func parseTaskStatus(s string) (models.TaskStatus, error) {
	switch strings.ToLower(strings.NewReplacer("-", " ", "_", " ").Replace(s)) {
	case "todo":
		return models.TaskTodo, nil
	case "in progress", "inprogress":
		return models.TaskInProgress, nil
	case "done":
		return models.TaskDone, nil
	}
	return "", fmt.Errorf("invalid status %q: must be one of todo, in-progress, done", s)
}

func parseCustomerStatus(s string) (models.CustomerStatus, error) {
	for _, st := range models.CustomerStatuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q: must be one of lead, active, inactive", s)
}

func parsePriority(s string) (models.Priority, error) {
	for _, p := range models.Priorities {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority %q: must be one of low, medium, high", s)
}

func usageError(err error) error {
	return WrapExitError(ExitCommandError, "invalid arguments", err)
}

func notFound(kind, id string) error {
	return NewExitError(ExitFailure, fmt.Sprintf("%s %q not found", kind, id))
}
