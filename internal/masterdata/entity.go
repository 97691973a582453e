package masterdata

import (
	"context"
	"time"
)

// ResponseEnvelope carries the mapped records of a successful retrieval,
// in the order the store returned them.
type ResponseEnvelope[V any] struct {
	Records []V
}

// Len returns the number of records in the envelope.
func (e *ResponseEnvelope[V]) Len() int {
	if e == nil {
		return 0
	}
	return len(e.Records)
}

// IdentifierEnvelope carries the identifier of a just-created record.
type IdentifierEnvelope struct {
	ID string `json:"id"`
}

// Entity describes one master-data entity kind: its error codes, how to
// read its deletion flag and how to project a stored row into its
// transport view.
//
// R is the stored record type and V the transport view.
type Entity[R, V any] struct {
	// Name identifies the entity in logs, metrics and events (e.g. "machine").
	Name string

	// Codes are the entity's stable error codes.
	Codes Codes

	// Deleted returns the row's raw is_deleted flag.
	Deleted func(R) *bool

	// View projects a stored row into its transport shape.
	View func(R) V
}

// Fetch runs one store query and turns its outcome into an envelope or a
// typed error.
//
// A query error becomes a FetchFailure carrying the cause. Rows that are
// not active are dropped. If nothing remains the result is NotFound;
// otherwise every row is mapped in order. Partial results are never
// returned.
func (e Entity[R, V]) Fetch(ctx context.Context, find func(ctx context.Context) ([]R, error)) (*ResponseEnvelope[V], error) {
	rows, err := find(ctx)
	if err != nil {
		return nil, NewFetchFailure(e.Codes.Fetch, err)
	}

	active := ActiveOnly(rows, e.Deleted)
	if len(active) == 0 {
		return nil, NewNotFound(e.Codes.NotFound)
	}

	views := make([]V, 0, len(active))
	for _, row := range active {
		views = append(views, e.View(row))
	}

	return &ResponseEnvelope[V]{Records: views}, nil
}

// WriteBoth persists a primary record and then its history counterpart.
//
// The history write is skipped when the primary write fails. A failure of
// either write becomes an InsertFailure; the stored primary record is
// returned only when both writes succeeded. No rollback is attempted, so a
// failed history write can leave a primary row without its history row.
func WriteBoth[R, H any](
	ctx context.Context,
	codes Codes,
	record R,
	history H,
	insertRecord func(context.Context, R) (R, error),
	insertHistory func(context.Context, H) (H, error),
) (R, error) {
	var zero R

	created, err := insertRecord(ctx, record)
	if err != nil {
		return zero, NewInsertFailure(codes.Insert, err)
	}

	if _, err := insertHistory(ctx, history); err != nil {
		return zero, &HistoryWriteError{Err: NewInsertFailure(codes.Insert, err)}
	}

	return created, nil
}

// HistoryWriteError reports that the primary row was written but its
// history row was not. It unwraps to the InsertFailure, so callers that
// only care about the kind can ignore it.
type HistoryWriteError struct {
	Err *Error
}

// Error implements the error interface.
func (e *HistoryWriteError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying InsertFailure.
func (e *HistoryWriteError) Unwrap() error {
	return e.Err
}

// Observer receives one call per completed service operation.
//
// Outcome is the value of Outcome(err). Implementations must not block.
type Observer interface {
	ObserveOperation(entity, operation, outcome string, elapsed time.Duration)
}

// Observers fans one observation out to several observers.
type Observers []Observer

// ObserveOperation implements Observer.
func (o Observers) ObserveOperation(entity, operation, outcome string, elapsed time.Duration) {
	for _, obs := range o {
		if obs != nil {
			obs.ObserveOperation(entity, operation, outcome, elapsed)
		}
	}
}

// CreatedEvent describes a master record that was just created.
type CreatedEvent struct {
	Entity    string    `json:"entity"`
	ID        string    `json:"id"`
	LangCode  string    `json:"lang_code"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// EventPublisher announces created records to other services.
type EventPublisher interface {
	PublishCreated(ctx context.Context, event CreatedEvent) error
}
