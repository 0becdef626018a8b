package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Status groups records on the board.
type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Statuses lists every group in display order.
var Statuses = []Status{StatusActive, StatusFinished}

// ParseStatus accepts a group name in any case.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, nil
	case StatusFinished:
		return StatusFinished, nil
	}
	return "", fmt.Errorf("invalid status %q (want active or finished)", s)
}

// ListID is the surface identifier the group renders into.
func (s Status) ListID() string {
	return string(s) + "-projects-list"
}

// Record is one task entry. Values are never modified after NewRecord.
type Record struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Headcount   int    `json:"headcount"`
	Status      Status `json:"status"`
}

// NewRecord structures already validated input into an active record with a fresh id.
func NewRecord(title, description string, headcount int) Record {
	return Record{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Headcount:   headcount,
		Status:      StatusActive,
	}
}

// Event is one journal entry.
type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts"`
	Type       string `json:"type"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	Payload    string `json:"payload_json"`
}
