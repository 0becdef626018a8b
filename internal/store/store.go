// Package store holds the board's records and notifies subscribers after every creation.
//
// One Store lives for the whole process: Instance creates it on first use and it is never
// torn down. Components receive it by reference; tests build their own with New.
package store

import (
	"fmt"
	"sync"

	"projectboard/internal/domain"
)

// Listener receives a private copy of every record after each creation.
type Listener func(records []domain.Record) error

// Handle names one registration. Registering the same listener twice yields two handles.
type Handle uint64

// NotifyError reports the listener that interrupted a notification pass.
// Listeners after Index did not receive that pass.
type NotifyError struct {
	Index int
	Err   error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("notify subscriber %d: %v", e.Index, e.Err)
}

func (e *NotifyError) Unwrap() error { return e.Err }

type subscription struct {
	handle Handle
	fn     Listener
}

// Store is safe to share. Create calls are serialized so that a record append and its
// notification pass never interleave with another Create. A listener may read the store
// or change subscriptions, but must not call Create.
type Store struct {
	notifyMu sync.Mutex

	mu      sync.Mutex
	records []domain.Record
	subs    []subscription
	next    Handle
}

var (
	instance     *Store
	instanceOnce sync.Once
)

// Instance returns the process-wide store, creating it on the first call.
func Instance() *Store {
	instanceOnce.Do(func() {
		instance = New()
	})
	return instance
}

// New returns an empty store independent of Instance.
func New() *Store {
	return &Store{}
}

// Subscribe appends fn to the subscriber list. Duplicates are kept and notified separately.
// A subscription made while a pass is running takes effect from the next Create.
func (s *Store) Subscribe(fn Listener) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.subs = append(s.subs, subscription{handle: s.next, fn: fn})
	return s.next
}

// Unsubscribe removes the registration named by h. It reports whether h was registered.
func (s *Store) Unsubscribe(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.handle == h {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Create appends a new active record and then calls every subscriber in registration order,
// each with its own copy of all records. The first listener error stops the pass and is
// returned as *NotifyError; the record stays in the store either way. Panics propagate.
func (s *Store) Create(title, description string, headcount int) (domain.Record, error) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	rec := domain.NewRecord(title, description, headcount)
	s.mu.Lock()
	s.records = append(s.records, rec)
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for i, sub := range subs {
		if err := sub.fn(s.Records()); err != nil {
			return rec, &NotifyError{Index: i, Err: err}
		}
	}
	return rec, nil
}

// Records returns a copy of all records in insertion order.
func (s *Store) Records() []domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Subscribers returns the number of registrations.
func (s *Store) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
