package store

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tgienger/crm/internal/models"
)

//go:embed seed.yaml
var demoSeed []byte

// SeedData is the demo data document.
type SeedData struct {
	Customers []models.CustomerDraft `yaml:"customers"`
	Tasks     []SeedTask             `yaml:"tasks"`
}

// SeedTask is a demo task. Customer indexes SeedData.Customers as the
// customer collection is listed at seed time, and the deadline is
// DueInDays after the seed runs.
type SeedTask struct {
	Customer    int               `yaml:"customer"`
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	DueInDays   int               `yaml:"due_in_days"`
	Status      models.TaskStatus `yaml:"status"`
	Priority    models.Priority   `yaml:"priority"`
	Assignee    string            `yaml:"assignee"`
}

// SeedResult reports what Seed created.
type SeedResult struct {
	Customers int `json:"customers"`
	Tasks     int `json:"tasks"`
}

// DemoSeed parses the embedded demo document.
func DemoSeed() (SeedData, error) {
	return ParseSeed(demoSeed)
}

// ParseSeed decodes a seed document.
func ParseSeed(data []byte) (SeedData, error) {
	var seed SeedData
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return SeedData{}, fmt.Errorf("parse seed: %w", err)
	}
	return seed, nil
}

// Seed adds the seed customers when the customer collection is empty and
// the seed tasks when the task collection is empty. Tasks reference
// customers by position in the customer list, so a task whose index is
// out of range is skipped.
func (s *Store) Seed(seed SeedData) (SeedResult, error) {
	var res SeedResult

	if len(s.customers.List()) == 0 {
		for _, draft := range seed.Customers {
			if _, err := s.customers.Add(draft); err != nil {
				return res, fmt.Errorf("seed customer %q: %w", draft.Name, err)
			}
			res.Customers++
		}
	}

	if len(s.tasks.List()) > 0 {
		return res, nil
	}
	customers := s.customers.List()
	if len(customers) == 0 {
		return res, nil
	}

	now := s.clock.Now()
	for _, st := range seed.Tasks {
		if st.Customer < 0 || st.Customer >= len(customers) {
			s.log.Warn().Str("title", st.Title).Int("customer", st.Customer).Msg("seed task references missing customer")
			continue
		}
		_, err := s.tasks.Add(models.TaskDraft{
			CustomerID:  customers[st.Customer].ID,
			Title:       st.Title,
			Description: st.Description,
			Deadline:    now.Add(time.Duration(st.DueInDays) * 24 * time.Hour),
			Status:      st.Status,
			Priority:    st.Priority,
			Assignee:    st.Assignee,
		})
		if err != nil {
			return res, fmt.Errorf("seed task %q: %w", st.Title, err)
		}
		res.Tasks++
	}

	s.log.Info().Int("customers", res.Customers).Int("tasks", res.Tasks).Msg("demo data seeded")
	return res, nil
}
