package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"projectboard/internal/config"
	"projectboard/internal/domain"
	"projectboard/internal/store"
	"projectboard/internal/validate"
)

// ErrInvalidInput is matched by every rejected submission.
var ErrInvalidInput = errors.New("invalid input, please try again")

// Headcount violations reported beyond the configured rule.
const (
	// ViolationInteger marks a headcount with a fractional part.
	ViolationInteger = "integer"
	// ViolationRange marks a headcount that is not a finite 32-bit integer.
	ViolationRange = "range"
)

// RawInput is what the user typed.
type RawInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	People      string `json:"people"`
}

// Input is validated and ready for the store.
type Input struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	People      int    `json:"people"`
}

// FieldError lists the constraints one field failed.
type FieldError struct {
	Field      string   `json:"field"`
	Violations []string `json:"violations"`
}

// InputError reports every failing field of a submission.
type InputError struct {
	Fields []FieldError `json:"fields"`
}

func (e *InputError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s (%s)", f.Field, strings.Join(f.Violations, ", ")))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput.Error(), strings.Join(parts, "; "))
}

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

// Collector validates raw input against the configured rules and admits it into the store.
type Collector struct {
	Store  *store.Store
	Config *config.Config
	Logger *log.Logger
}

func (c *Collector) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}

func (c *Collector) rules() *config.Config {
	if c.Config != nil {
		return c.Config
	}
	return config.Default()
}

// ParsePeople converts the headcount text the way a numeric form field does:
// blank is zero and anything unparsable is NaN.
func ParsePeople(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// Gather validates raw and returns the typed input, or an *InputError.
func (c *Collector) Gather(raw RawInput) (Input, error) {
	cfg := c.rules()
	var failed []FieldError
	check := func(field string, v validate.Value) {
		if vs := validate.Violations(cfg.Rule(field).Spec(v)); len(vs) > 0 {
			failed = append(failed, FieldError{Field: field, Violations: vs})
		}
	}
	check(config.FieldTitle, validate.Text(raw.Title))
	check(config.FieldDescription, validate.Text(raw.Description))
	people := ParsePeople(raw.People)
	check(config.FieldPeople, validate.Number(people))
	if len(failed) == 0 {
		switch {
		case math.IsNaN(people) || math.IsInf(people, 0) || people < math.MinInt32 || people > math.MaxInt32:
			failed = append(failed, FieldError{Field: config.FieldPeople, Violations: []string{ViolationRange}})
		case people != math.Trunc(people):
			failed = append(failed, FieldError{Field: config.FieldPeople, Violations: []string{ViolationInteger}})
		}
	}
	if len(failed) > 0 {
		return Input{}, &InputError{Fields: failed}
	}
	return Input{Title: raw.Title, Description: raw.Description, People: int(people)}, nil
}

// Submit validates raw and, when it passes, creates the record. Rejected input never
// reaches the store. A subscriber failure is returned after the record was stored.
func (c *Collector) Submit(ctx context.Context, raw RawInput) (domain.Record, error) {
	if c.Store == nil {
		return domain.Record{}, errors.New("store is required")
	}
	tr := otel.Tracer("app/collector")
	ctx, span := tr.Start(ctx, "Collector.Submit")
	defer span.End()

	_, vspan := tr.Start(ctx, "Collector.Gather")
	in, err := c.Gather(raw)
	vspan.End()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid input")
		c.logger().Printf("collector: rejected input: %v", err)
		return domain.Record{}, err
	}

	_, cspan := tr.Start(ctx, "Store.Create", trace.WithAttributes(
		attribute.Int("store.records", c.Store.Len()),
		attribute.Int("store.subscribers", c.Store.Subscribers()),
	))
	rec, err := c.Store.Create(in.Title, in.Description, in.People)
	cspan.SetAttributes(attribute.String("record.id", rec.ID))
	if err != nil {
		cspan.RecordError(err)
		cspan.SetStatus(codes.Error, "notify failed")
	}
	cspan.End()
	span.SetAttributes(attribute.String("record.id", rec.ID))
	if err != nil {
		c.logger().Printf("collector: record %s stored but notification interrupted: %v", rec.ID, err)
		return rec, fmt.Errorf("create record: %w", err)
	}
	return rec, nil
}
