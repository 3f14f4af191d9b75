package store

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/crm/internal/kv"
	"github.com/tgienger/crm/internal/models"
)

var base = time.Date(2024, time.March, 13, 9, 0, 0, 0, time.UTC)

// newTestStore creates a store over an in-memory backend with a clock that
// ticks one second per call and ids id-1, id-2, ...
func newTestStore(t *testing.T) (*Store, *kv.Memory, *StepClock) {
	t.Helper()
	mem := kv.NewMemory()
	clock := NewStepClock(base, time.Second)
	s := New(mem, Options{Clock: clock, IDs: NewSequenceGenerator("id-")})
	return s, mem, clock
}

func addCustomer(t *testing.T, s *Store, name string, status models.CustomerStatus) models.Customer {
	t.Helper()
	c, err := s.Customers().Add(models.CustomerDraft{
		Name:    name,
		Email:   name + "@example.com",
		Company: name + " Inc",
		Status:  status,
	})
	require.NoError(t, err)
	return c
}

func addTask(t *testing.T, s *Store, customerID, title string, deadline time.Time) models.Task {
	t.Helper()
	task, err := s.Tasks().Add(models.TaskDraft{
		CustomerID: customerID,
		Title:      title,
		Deadline:   deadline,
	})
	require.NoError(t, err)
	return task
}

// plainStore hides Memory's WriteBatch so writes go key by key.
type plainStore struct {
	m *kv.Memory
}

func (p plainStore) Read(key string) ([]byte, bool, error) { return p.m.Read(key) }
func (p plainStore) Write(key string, value []byte) error  { return p.m.Write(key, value) }
func (p plainStore) Delete(key string) error               { return p.m.Delete(key) }

// scriptedIDs hands out ids in a fixed order and repeats the last one.
type scriptedIDs struct {
	ids []string
	i   int
}

func (g *scriptedIDs) NewID() string {
	id := g.ids[min(g.i, len(g.ids)-1)]
	g.i++
	return id
}

func TestNew_Defaults(t *testing.T) {
	s := New(kv.NewMemory(), Options{})

	assert.IsType(t, SystemClock{}, s.clock)
	assert.IsType(t, UUIDv7Generator{}, s.ids)

	c, err := s.Customers().Add(models.CustomerDraft{Name: "Ada"})
	require.NoError(t, err)
	assert.Len(t, c.ID, 36)
	assert.Equal(t, time.UTC, c.CreatedAt.Location())
}

func TestSnapshot(t *testing.T) {
	s, _, _ := newTestStore(t)
	c := addCustomer(t, s, "ada", models.CustomerLead)
	addTask(t, s, c.ID, "call", base.Add(time.Hour))

	snap := s.Snapshot()
	assert.Len(t, snap.Customers, 1)
	assert.Len(t, snap.Tasks, 1)
	assert.Len(t, snap.Activities, 2)
}

func TestRead_UnavailableDegradesToEmpty(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	mem := kv.NewMemory()
	s := New(mem, Options{Logger: &log})

	addCustomer(t, s, "ada", models.CustomerLead)
	mem.FailReads = true

	assert.Empty(t, s.Customers().List())
	assert.Empty(t, s.Tasks().List())
	assert.Empty(t, s.Activities().List())
	assert.NotNil(t, s.Customers().List())
	assert.Contains(t, buf.String(), "storage unavailable")
	assert.Contains(t, buf.String(), `"component":"store"`)
}

func TestRead_CorruptDegradesToEmpty(t *testing.T) {
	s, mem, _ := newTestStore(t)
	require.NoError(t, mem.Write(CustomersKey, []byte(`{not json`)))
	require.NoError(t, mem.Write(TasksKey, []byte(`null`)))

	customers := s.Customers().List()
	assert.NotNil(t, customers)
	assert.Empty(t, customers)
	assert.Empty(t, s.Tasks().List())

	_, ok := s.Customers().Get("anything")
	assert.False(t, ok)
}

func TestRead_ToleratesMissingOptionalFields(t *testing.T) {
	s, mem, _ := newTestStore(t)
	blob := `[{"id":"legacy","name":"Old","email":"old@example.com","phone":"","company":"",` +
		`"tags":["vip"],"status":"Active","createdAt":"2023-01-02T03:04:05Z","updatedAt":"2023-01-02T03:04:05Z"}]`
	require.NoError(t, mem.Write(CustomersKey, []byte(blob)))

	c, ok := s.Customers().Get("legacy")
	require.True(t, ok)
	assert.Equal(t, "Old", c.Name)
	assert.Equal(t, []string{"vip"}, c.Tags)
	assert.Empty(t, c.Notes)
	assert.Empty(t, c.Avatar)
}

func TestWriteFailure_LeavesStateUntouched(t *testing.T) {
	s, mem, _ := newTestStore(t)
	c := addCustomer(t, s, "ada", models.CustomerLead)
	task := addTask(t, s, c.ID, "call", base.Add(time.Hour))
	before := s.Snapshot()

	mem.FailWrites = true

	_, err := s.Customers().Add(models.CustomerDraft{Name: "bob"})
	assert.ErrorIs(t, err, kv.ErrUnavailable)
	assert.ErrorContains(t, err, "save customers")

	_, _, err = s.Customers().Update(c.ID, models.CustomerPatch{Name: models.Ptr("ada 2")})
	assert.ErrorIs(t, err, kv.ErrUnavailable)

	_, err = s.Customers().Delete(c.ID)
	assert.ErrorIs(t, err, kv.ErrUnavailable)

	_, _, err = s.Tasks().Update(task.ID, models.TaskPatch{Status: models.Ptr(models.TaskDone)})
	assert.ErrorIs(t, err, kv.ErrUnavailable)

	_, err = s.Tasks().Delete(task.ID)
	assert.ErrorIs(t, err, kv.ErrUnavailable)

	assert.Equal(t, before, s.Snapshot())
}

func TestBatch_OneWritePerMutation(t *testing.T) {
	s, mem, _ := newTestStore(t)

	addCustomer(t, s, "ada", models.CustomerLead)
	assert.Equal(t, 1, mem.Writes(), "customer and activity commit together")
}

func TestPlainBackend_WritesEachCollection(t *testing.T) {
	mem := kv.NewMemory()
	s := New(plainStore{m: mem}, Options{IDs: NewSequenceGenerator("id-")})

	c, err := s.Customers().Add(models.CustomerDraft{Name: "ada"})
	require.NoError(t, err)

	assert.Equal(t, 2, mem.Writes())
	assert.Len(t, s.Customers().List(), 1)
	assert.Equal(t, c.ID, s.Activities().List()[0].CustomerID)
}

func TestUniqueID_RegeneratesOnCollision(t *testing.T) {
	ids := &scriptedIDs{ids: []string{"c1", "a1", "c1", "c2", "a2"}}
	s := New(kv.NewMemory(), Options{IDs: ids})

	first, err := s.Customers().Add(models.CustomerDraft{Name: "ada"})
	require.NoError(t, err)
	second, err := s.Customers().Add(models.CustomerDraft{Name: "bob"})
	require.NoError(t, err)

	assert.Equal(t, "c1", first.ID)
	assert.Equal(t, "c2", second.ID)
}

func TestUniqueID_PanicsWhenGeneratorIsStuck(t *testing.T) {
	ids := &scriptedIDs{ids: []string{"same"}}
	s := New(kv.NewMemory(), Options{IDs: ids})

	_, err := s.Customers().Add(models.CustomerDraft{Name: "ada"})
	require.NoError(t, err)

	assert.Panics(t, func() {
		s.Customers().Add(models.CustomerDraft{Name: "bob"})
	})
}
