package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"projectboard/internal/domain"
	"projectboard/internal/repo"
	"projectboard/internal/store"
)

const TypeRecordCreated = "record.created"

type EventPayload map[string]any

// Writer appends events to the journal.
type Writer struct {
	DB  *sql.DB
	Now func() time.Time
}

func (w Writer) Append(ctx context.Context, tx *sql.Tx, evtType, entityKind, entityID string, payload EventPayload) (int64, error) {
	if w.Now == nil {
		w.Now = time.Now
	}
	if payload == nil {
		payload = EventPayload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal event payload: %w", err)
	}
	return repo.Repo{DB: w.DB}.InsertEventTx(ctx, tx, domain.Event{
		TS:         w.Now().UTC().Format(time.RFC3339),
		Type:       evtType,
		EntityKind: entityKind,
		EntityID:   entityID,
		Payload:    string(data),
	})
}

// Journal is a store subscriber that records one event per new record.
// It remembers how many records it has journaled and only writes the tail of each snapshot.
type Journal struct {
	Writer Writer
	Logger *log.Logger

	mu     sync.Mutex
	cursor int
}

func NewJournal(db *sql.DB, logger *log.Logger) *Journal {
	return &Journal{Writer: Writer{DB: db, Now: time.Now}, Logger: logger}
}

func (j *Journal) logger() *log.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return log.Default()
}

// Attach subscribes the journal to s.
func (j *Journal) Attach(s *store.Store) store.Handle {
	return s.Subscribe(j.Record)
}

// Record journals the records beyond the cursor. It is a store.Listener.
func (j *Journal) Record(records []domain.Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cursor >= len(records) {
		return nil
	}
	ctx := context.Background()
	tx, err := j.Writer.DB.BeginTx(ctx, nil)
	if err != nil {
		j.logger().Printf("journal: begin failed: %v", err)
		return err
	}
	defer tx.Rollback()
	for _, r := range records[j.cursor:] {
		if _, err := j.Writer.Append(ctx, tx, TypeRecordCreated, "record", r.ID, EventPayload{
			"title":     r.Title,
			"headcount": r.Headcount,
			"status":    r.Status,
		}); err != nil {
			j.logger().Printf("journal: append %s failed: %v", r.ID, err)
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		j.logger().Printf("journal: commit failed: %v", err)
		return err
	}
	j.cursor = len(records)
	return nil
}

// Seen returns how many records have been journaled.
func (j *Journal) Seen() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cursor
}
