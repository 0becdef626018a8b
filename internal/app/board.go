package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"

	"projectboard/internal/config"
	"projectboard/internal/db"
	"projectboard/internal/domain"
	"projectboard/internal/events"
	"projectboard/internal/migrate"
	"projectboard/internal/render"
	"projectboard/internal/repo"
	"projectboard/internal/store"
	"projectboard/internal/view"
)

// BoardOptions configures NewBoard.
type BoardOptions struct {
	Config  *config.Config
	Logger  *log.Logger
	Details bool
	// NoJournal skips the event journal database.
	NoJournal bool
}

// Board wires a collector, one binder per group and the journal to a single store.
type Board struct {
	Store     *store.Store
	Surface   *render.Board
	Collector *Collector
	Binders   map[domain.Status]*view.Binder
	Journal   *events.Journal
	Repo      repo.Repo

	conn          *sql.DB
	journalHandle store.Handle
}

// NewBoard mounts a list per group, binds it to s and attaches the journal last so a
// journal failure never hides a render.
func NewBoard(ctx context.Context, s *store.Store, opts BoardOptions) (*Board, error) {
	if s == nil {
		return nil, errors.New("store is required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	b := &Board{
		Store:     s,
		Surface:   render.NewBoard(),
		Collector: &Collector{Store: s, Config: cfg, Logger: opts.Logger},
		Binders:   make(map[domain.Status]*view.Binder, len(domain.Statuses)),
	}
	for _, group := range domain.Statuses {
		b.Surface.Mount(group.ListID())
		bopts := []view.Option{view.WithHeading(cfg.Heading(group))}
		if opts.Details {
			bopts = append(bopts, view.WithDetails())
		}
		binder, err := view.NewBinder(s, group, b.Surface, bopts...)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("bind %s: %w", group, err)
		}
		b.Binders[group] = binder
	}
	if opts.NoJournal {
		return b, nil
	}
	conn, err := db.Open(db.Config{})
	if err != nil {
		b.Close()
		return nil, err
	}
	b.conn = conn
	if _, err := migrate.Migrate(ctx, conn); err != nil {
		b.Close()
		return nil, err
	}
	b.Repo = repo.Repo{DB: conn}
	b.Journal = events.NewJournal(conn, opts.Logger)
	b.journalHandle = b.Journal.Attach(s)
	return b, nil
}

// Binder returns the binder for group.
func (b *Board) Binder(group domain.Status) *view.Binder {
	return b.Binders[group]
}

// Render writes every group list.
func (b *Board) Render(w io.Writer) error {
	return b.Surface.Render(w)
}

// Events returns the latest journal entries, newest first.
func (b *Board) Events(ctx context.Context, n int) ([]domain.Event, error) {
	if b.conn == nil {
		return nil, errors.New("journal disabled")
	}
	return b.Repo.LatestEvents(ctx, n, "", "", "")
}

// Close detaches the binders and drops the journal database.
func (b *Board) Close() error {
	for _, binder := range b.Binders {
		binder.Close()
	}
	if b.Journal != nil {
		b.Store.Unsubscribe(b.journalHandle)
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
