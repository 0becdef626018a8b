package view_test

import (
	"errors"
	"reflect"
	"testing"

	"projectboard/internal/domain"
	"projectboard/internal/store"
	"projectboard/internal/view"
)

type fakeList struct {
	heading string
	items   []string
	resets  int
}

func (l *fakeList) SetHeading(text string) { l.heading = text }
func (l *fakeList) Reset()                 { l.items = nil; l.resets++ }
func (l *fakeList) AppendItem(text string) { l.items = append(l.items, text) }

type fakeSurface map[string]*fakeList

func (s fakeSurface) Lookup(id string) (view.List, error) {
	l, ok := s[id]
	if !ok {
		return nil, view.ErrUnknownList
	}
	return l, nil
}

func newSurface() fakeSurface {
	return fakeSurface{
		domain.StatusActive.ListID():   &fakeList{},
		domain.StatusFinished.ListID(): &fakeList{},
	}
}

func TestBinderRendersMatchingGroup(t *testing.T) {
	s := store.New()
	surface := newSurface()
	active, err := view.NewBinder(s, domain.StatusActive, surface)
	if err != nil {
		t.Fatal(err)
	}
	finished, err := view.NewBinder(s, domain.StatusFinished, surface)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create("Build API", "Design and implement", 3); err != nil {
		t.Fatal(err)
	}
	activeList := surface[domain.StatusActive.ListID()]
	if !reflect.DeepEqual(activeList.items, []string{"Build API"}) {
		t.Fatalf("active items = %v", activeList.items)
	}
	if activeList.heading != "ACTIVE PROJECTS" {
		t.Fatalf("heading = %q", activeList.heading)
	}
	if items := surface[domain.StatusFinished.ListID()].items; len(items) != 0 {
		t.Fatalf("finished items = %v", items)
	}
	if len(active.Assigned()) != 1 || len(finished.Assigned()) != 0 {
		t.Fatalf("assigned active=%d finished=%d", len(active.Assigned()), len(finished.Assigned()))
	}
}

func TestBinderRedrawsWholeList(t *testing.T) {
	s := store.New()
	surface := newSurface()
	if _, err := view.NewBinder(s, domain.StatusActive, surface); err != nil {
		t.Fatal(err)
	}
	for _, title := range []string{"one", "two", "three"} {
		if _, err := s.Create(title, "description", 1); err != nil {
			t.Fatal(err)
		}
	}
	l := surface[domain.StatusActive.ListID()]
	if !reflect.DeepEqual(l.items, []string{"one", "two", "three"}) {
		t.Fatalf("items = %v", l.items)
	}
	if l.resets != 3 {
		t.Fatalf("resets = %d, want one per notification", l.resets)
	}
}

func TestBinderFiltersByStatus(t *testing.T) {
	s := store.New()
	surface := newSurface()
	finished, err := view.NewBinder(s, domain.StatusFinished, surface)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create("active only", "description", 2); err != nil {
		t.Fatal(err)
	}
	for _, r := range finished.Assigned() {
		if r.Status != domain.StatusFinished {
			t.Fatalf("finished binder holds %s record", r.Status)
		}
	}
	if items := surface[domain.StatusFinished.ListID()].items; len(items) != 0 {
		t.Fatalf("finished binder rendered %v", items)
	}
}

func TestBinderDetailsAndHeading(t *testing.T) {
	s := store.New()
	surface := newSurface()
	if _, err := view.NewBinder(s, domain.StatusActive, surface, view.WithDetails(), view.WithHeading("Now")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create("Build API", "Design and implement", 1); err != nil {
		t.Fatal(err)
	}
	l := surface[domain.StatusActive.ListID()]
	if l.heading != "Now" {
		t.Fatalf("heading = %q", l.heading)
	}
	want := "Build API: Design and implement (1 person)"
	if len(l.items) != 1 || l.items[0] != want {
		t.Fatalf("items = %v, want %q", l.items, want)
	}
}

func TestBinderAssignedIsCopy(t *testing.T) {
	s := store.New()
	b, err := view.NewBinder(s, domain.StatusActive, newSurface())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create("t", "description", 1); err != nil {
		t.Fatal(err)
	}
	got := b.Assigned()
	got[0].Title = "changed"
	if b.Assigned()[0].Title != "t" {
		t.Fatalf("Assigned must return a copy")
	}
}

func TestBinderClose(t *testing.T) {
	s := store.New()
	surface := newSurface()
	b, err := view.NewBinder(s, domain.StatusActive, surface)
	if err != nil {
		t.Fatal(err)
	}
	b.Close()
	if _, err := s.Create("t", "description", 1); err != nil {
		t.Fatal(err)
	}
	if items := surface[domain.StatusActive.ListID()].items; len(items) != 0 {
		t.Fatalf("closed binder rendered %v", items)
	}
	if s.Subscribers() != 0 {
		t.Fatalf("subscribers = %d", s.Subscribers())
	}
}

func TestNewBinderErrors(t *testing.T) {
	s := store.New()
	if _, err := view.NewBinder(s, domain.StatusActive, fakeSurface{}); !errors.Is(err, view.ErrUnknownList) {
		t.Fatalf("expected ErrUnknownList, got %v", err)
	}
	if _, err := view.NewBinder(s, domain.Status("archived"), newSurface()); err == nil {
		t.Fatalf("expected invalid group error")
	}
	if _, err := view.NewBinder(nil, domain.StatusActive, newSurface()); err == nil {
		t.Fatalf("expected store required error")
	}
	if s.Subscribers() != 0 {
		t.Fatalf("failed binders must not subscribe")
	}
}
