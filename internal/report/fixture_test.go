package report

import (
	"os"
	"testing"
	"time"

	"github.com/tgienger/crm/internal/models"
)

// TestMain pins the local zone so calendar boundaries do not depend on
// the machine running the tests.
func TestMain(m *testing.M) {
	time.Local = time.UTC
	os.Exit(m.Run())
}

// withLocal switches the local zone for the rest of the test.
func withLocal(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("zone %s unavailable: %v", name, err)
	}
	prev := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = prev })
	return loc
}

// now is a Wednesday; the week starts on Sunday 2024-03-10.
var now = time.Date(2024, time.March, 13, 12, 0, 0, 0, time.UTC)

func at(day, hour int) time.Time {
	return time.Date(2024, time.March, day, hour, 0, 0, 0, time.UTC)
}

func fixture() models.Snapshot {
	return models.Snapshot{
		Customers: []models.Customer{
			{
				ID: "c1", Name: "Ada Lovelace", Email: "ada@engines.io", Company: "Analytical Engines",
				Tags: []string{"vip", "math"}, Status: models.CustomerLead,
				CreatedAt: at(2, 10), UpdatedAt: at(2, 10),
			},
			{
				ID: "c2", Name: "Bob Stone", Email: "bob@quarry.com", Company: "Stone Quarry",
				Tags: []string{"construction"}, Status: models.CustomerActive,
				CreatedAt: time.Date(2024, time.February, 20, 10, 0, 0, 0, time.UTC),
				UpdatedAt: time.Date(2024, time.February, 20, 10, 0, 0, 0, time.UTC),
			},
		},
		Tasks: []models.Task{
			{
				ID: "t1", CustomerID: "c1", Title: "Call Ada", Description: "Discuss the engine",
				Deadline: at(15, 9), Status: models.TaskTodo, Priority: models.PriorityHigh,
				CreatedAt: at(11, 8), UpdatedAt: at(11, 8), Assignee: "John Smith",
			},
			{
				ID: "t2", CustomerID: "c2", Title: "Send invoice", Description: "March invoice",
				Deadline: at(12, 9), Status: models.TaskInProgress, Priority: models.PriorityMedium,
				CreatedAt: at(1, 8), UpdatedAt: at(1, 8),
			},
			{
				ID: "t3", CustomerID: "c2", Title: "Archive quote", Description: "",
				Deadline: at(14, 9), Status: models.TaskDone, Priority: models.PriorityLow,
				CreatedAt: at(9, 8), UpdatedAt: at(12, 8),
			},
		},
		Activities: []models.Activity{
			{
				ID: "a2", Type: models.ActivityTaskCreated, Title: "New Task Created",
				Description: `Task "Call Ada" has been created`, Timestamp: at(11, 8),
				CustomerID: "c1", TaskID: "t1",
			},
			{
				ID: "a1", Type: models.ActivityCustomerCreated, Title: "New Customer Added",
				Description: "Ada Lovelace has been added to the system", Timestamp: at(2, 10),
				CustomerID: "c1",
			},
		},
	}
}

func taskIDs(tasks []models.Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

func customerIDs(customers []models.Customer) []string {
	ids := make([]string, 0, len(customers))
	for _, c := range customers {
		ids = append(ids, c.ID)
	}
	return ids
}
