// Package render draws board lists and tables on a terminal with go-pretty.
package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"

	"projectboard/internal/domain"
	"projectboard/internal/view"
)

// Section is one mounted list.
type Section struct {
	id string

	mu      sync.Mutex
	heading string
	items   []string
}

func (s *Section) SetHeading(text string) {
	s.mu.Lock()
	s.heading = text
	s.mu.Unlock()
}

func (s *Section) Reset() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

func (s *Section) AppendItem(text string) {
	s.mu.Lock()
	s.items = append(s.items, text)
	s.mu.Unlock()
}

// ID returns the identifier the section was mounted under.
func (s *Section) ID() string { return s.id }

// Heading returns the current heading.
func (s *Section) Heading() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heading
}

// Items returns a copy of the current lines.
func (s *Section) Items() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Render writes the heading followed by the items as a bulleted list.
func (s *Section) Render() string {
	heading, items := s.Heading(), s.Items()
	var sb strings.Builder
	sb.WriteString(heading)
	sb.WriteString("\n")
	if len(items) == 0 {
		sb.WriteString("  (empty)\n")
		return sb.String()
	}
	lw := list.NewWriter()
	lw.SetStyle(list.StyleBulletCircle)
	lw.Indent()
	for _, it := range items {
		lw.AppendItem(it)
	}
	sb.WriteString(lw.Render())
	sb.WriteString("\n")
	return sb.String()
}

// Board is a view.Surface holding sections in mount order.
type Board struct {
	mu       sync.Mutex
	order    []string
	sections map[string]*Section
}

var _ view.Surface = (*Board)(nil)

func NewBoard() *Board {
	return &Board{sections: make(map[string]*Section)}
}

// Mount adds a section under id, or returns the existing one.
func (b *Board) Mount(id string) *Section {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.sections[id]; ok {
		return s
	}
	s := &Section{id: id}
	b.sections[id] = s
	b.order = append(b.order, id)
	return s
}

// Lookup returns the section mounted under id.
func (b *Board) Lookup(id string) (view.List, error) {
	s, ok := b.Section(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", view.ErrUnknownList, id)
	}
	return s, nil
}

// Section returns the concrete section mounted under id.
func (b *Board) Section(id string) (*Section, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sections[id]
	return s, ok
}

// Render writes every section in mount order.
func (b *Board) Render(w io.Writer) error {
	b.mu.Lock()
	sections := make([]*Section, 0, len(b.order))
	for _, id := range b.order {
		sections = append(sections, b.sections[id])
	}
	b.mu.Unlock()
	for i, s := range sections {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, s.Render()); err != nil {
			return err
		}
	}
	return nil
}

// RecordsTable writes records as a table.
func RecordsTable(w io.Writer, records []domain.Record) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"ID", "Title", "Description", "People", "Status"})
	for _, r := range records {
		tw.AppendRow(table.Row{r.ID, r.Title, r.Description, r.Headcount, r.Status})
	}
	tw.Render()
}

// EventsTable writes journal events as a table.
func EventsTable(w io.Writer, events []domain.Event) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"ID", "TS", "Type", "Entity", "Payload"})
	for _, e := range events {
		tw.AppendRow(table.Row{e.ID, e.TS, e.Type, e.EntityKind + ":" + e.EntityID, e.Payload})
	}
	tw.Render()
}
