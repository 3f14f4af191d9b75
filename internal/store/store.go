// Package store owns the customer, task and activity collections.
//
// Each collection is persisted as one JSON array under a fixed key of a
// kv.Store and is always read and written wholesale. A mutation and the
// activity it produces are committed together in one batch when the
// backend supports atomic batches.
//
// Not-found conditions are reported through comma-ok results, never
// errors. Errors are reserved for persistence write failures; reads of an
// unavailable or corrupt collection degrade to an empty collection.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tgienger/crm/internal/kv"
	"github.com/tgienger/crm/internal/models"
)

// Storage keys, one per collection.
const (
	CustomersKey  = "crm_customers"
	TasksKey      = "crm_tasks"
	ActivitiesKey = "crm_activities"
)

// ErrUnknownCustomer is returned when a task is created for a customer id
// that does not exist.
var ErrUnknownCustomer = errors.New("store: unknown customer")

// Options configures a Store. Zero values select the production defaults.
type Options struct {
	Clock  Clock
	IDs    IDGenerator
	Logger *zerolog.Logger
}

// Store is the entry point to the repositories.
//
// All operations are serialized by a single mutex, so front-ends that run
// work on several goroutines never interleave a read-modify-write cycle.
type Store struct {
	mu    sync.Mutex
	kv    kv.Store
	clock Clock
	ids   IDGenerator
	log   zerolog.Logger

	customers  *CustomerRepository
	tasks      *TaskRepository
	activities *ActivityRecorder
}

// New creates a Store on top of backend.
func New(backend kv.Store, opts Options) *Store {
	s := &Store{
		kv:    backend,
		clock: opts.Clock,
		ids:   opts.IDs,
		log:   zerolog.Nop(),
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	if s.ids == nil {
		s.ids = UUIDv7Generator{}
	}
	if opts.Logger != nil {
		s.log = opts.Logger.With().Str("component", "store").Logger()
	}

	s.activities = &ActivityRecorder{s: s}
	s.tasks = &TaskRepository{s: s}
	s.customers = &CustomerRepository{s: s, tasks: s.tasks}
	return s
}

// Customers returns the customer repository.
func (s *Store) Customers() *CustomerRepository { return s.customers }

// Tasks returns the task repository.
func (s *Store) Tasks() *TaskRepository { return s.tasks }

// Activities returns the activity recorder.
func (s *Store) Activities() *ActivityRecorder { return s.activities }

// Now returns the current time according to the store's clock.
func (s *Store) Now() time.Time { return s.clock.Now() }

// Snapshot reads all three collections in one critical section.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.Snapshot{
		Customers:  s.customers.list(),
		Tasks:      s.tasks.list(),
		Activities: s.activities.list(),
	}
}

// maxIDAttempts bounds how often a colliding id is regenerated.
const maxIDAttempts = 16

// uniqueID draws ids until one is not taken. A generator that keeps
// colliding is a programming error.
func (s *Store) uniqueID(taken func(id string) bool) string {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.ids.NewID()
		if !taken(id) {
			return id
		}
	}
	panic("store: id generator keeps returning ids that are already in use")
}
