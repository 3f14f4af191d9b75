package store

import (
	"fmt"

	"github.com/tgienger/crm/internal/models"
)

// MaxActivities is the capacity of the activity log.
const MaxActivities = 100

// ActivityRecorder keeps the newest-first, bounded activity log.
type ActivityRecorder struct {
	s *Store
}

// List returns the activity log, newest first.
func (r *ActivityRecorder) List() []models.Activity {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list()
}

func (r *ActivityRecorder) list() []models.Activity {
	return load[models.Activity](r.s, ActivitiesKey)
}

// Record stamps draft with an id and the current time, inserts it at the
// head of the log and persists the log truncated to MaxActivities.
func (r *ActivityRecorder) Record(draft models.ActivityDraft) (models.Activity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b := newBatch()
	entry, err := r.stage(b, draft)
	if err != nil {
		return models.Activity{}, err
	}
	if err := r.s.commit(b); err != nil {
		return models.Activity{}, fmt.Errorf("save activities: %w", err)
	}
	return entry, nil
}

// stage adds the updated log to b without committing it.
func (r *ActivityRecorder) stage(b *batch, draft models.ActivityDraft) (models.Activity, error) {
	log := r.list()

	entry := models.Activity{
		ID: r.s.uniqueID(func(id string) bool {
			for _, a := range log {
				if a.ID == id {
					return true
				}
			}
			return false
		}),
		Type:        draft.Type,
		Title:       draft.Title,
		Description: draft.Description,
		Timestamp:   r.s.clock.Now(),
		CustomerID:  draft.CustomerID,
		TaskID:      draft.TaskID,
	}

	if err := b.put(ActivitiesKey, prepend(log, entry, MaxActivities)); err != nil {
		return models.Activity{}, err
	}
	return entry, nil
}

// prepend returns a new log with entry first, holding at most limit entries.
func prepend(log []models.Activity, entry models.Activity, limit int) []models.Activity {
	n := min(len(log)+1, limit)
	out := make([]models.Activity, 0, n)
	out = append(out, entry)
	out = append(out, log[:n-1]...)
	return out
}
