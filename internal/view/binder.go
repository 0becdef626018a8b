package view

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"projectboard/internal/domain"
	"projectboard/internal/store"
)

// ErrUnknownList is returned by a Surface when no list is mounted under an id.
var ErrUnknownList = errors.New("unknown list")

// List is an append-only line list that can be cleared and redrawn.
type List interface {
	SetHeading(text string)
	Reset()
	AppendItem(text string)
}

// Surface finds the list a group renders into.
type Surface interface {
	Lookup(id string) (List, error)
}

// Formatter turns a record into its display line.
type Formatter func(domain.Record) string

// TitleOnly displays the record title.
func TitleOnly(r domain.Record) string { return r.Title }

// Detailed displays title, description and headcount.
func Detailed(r domain.Record) string {
	unit := "people"
	if r.Headcount == 1 {
		unit = "person"
	}
	return fmt.Sprintf("%s: %s (%d %s)", r.Title, r.Description, r.Headcount, unit)
}

// Option configures a Binder.
type Option func(*Binder)

// WithFormatter replaces the line formatter.
func WithFormatter(f Formatter) Option {
	return func(b *Binder) {
		if f != nil {
			b.format = f
		}
	}
}

// WithDetails renders description and headcount next to the title.
func WithDetails() Option { return WithFormatter(Detailed) }

// WithHeading overrides the default "<GROUP> PROJECTS" heading.
func WithHeading(h string) Option {
	return func(b *Binder) {
		if strings.TrimSpace(h) != "" {
			b.heading = h
		}
	}
}

// Binder keeps one group's list in sync with the store.
type Binder struct {
	group   domain.Status
	store   *store.Store
	list    List
	format  Formatter
	heading string
	handle  store.Handle

	mu       sync.Mutex
	assigned []domain.Record
}

// NewBinder looks up the list for group on surface, draws its heading and subscribes to s.
// Nothing is rendered until the next notification.
func NewBinder(s *store.Store, group domain.Status, surface Surface, opts ...Option) (*Binder, error) {
	if s == nil {
		return nil, errors.New("store is required")
	}
	group, err := domain.ParseStatus(string(group))
	if err != nil {
		return nil, err
	}
	list, err := surface.Lookup(group.ListID())
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", group.ListID(), err)
	}
	b := &Binder{
		group:   group,
		store:   s,
		list:    list,
		format:  TitleOnly,
		heading: strings.ToUpper(string(group)) + " PROJECTS",
	}
	for _, opt := range opts {
		opt(b)
	}
	b.list.SetHeading(b.heading)
	b.handle = s.Subscribe(b.onChange)
	return b, nil
}

// Group returns the status the binder filters on.
func (b *Binder) Group() domain.Status { return b.group }

// Assigned returns a copy of the records rendered by the last notification.
func (b *Binder) Assigned() []domain.Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Record, len(b.assigned))
	copy(out, b.assigned)
	return out
}

// Close stops the binder from receiving notifications. The list keeps its last contents.
func (b *Binder) Close() {
	b.store.Unsubscribe(b.handle)
}

func (b *Binder) onChange(records []domain.Record) error {
	var matched []domain.Record
	for _, r := range records {
		if r.Status == b.group {
			matched = append(matched, r)
		}
	}
	b.mu.Lock()
	b.assigned = matched
	b.mu.Unlock()
	b.render(matched)
	return nil
}

func (b *Binder) render(records []domain.Record) {
	b.list.Reset()
	for _, r := range records {
		b.list.AppendItem(b.format(r))
	}
}
