// Package store defines persistence interfaces for the service.
package store

import (
	"context"
	"errors"

	"github.com/xpress-inn/feedback-api/types"
)

// ErrNotFound is returned when no record matches the given identifier.
var ErrNotFound = errors.New("record not found")

// FeedbackStore is the persistence contract for feedback records.
// Callers are expected to have syntax-checked identifiers before calling
// GetByID, UpdateStatus, or Delete.
type FeedbackStore interface {
	// Insert validates the record's field constraints and persists it,
	// returning the stored record with generated id and timestamps.
	Insert(ctx context.Context, fb *types.Feedback) (*types.Feedback, error)
	// List returns all records, newest-created first. Records created in
	// the same instant order by id descending.
	List(ctx context.Context) ([]*types.Feedback, error)
	// GetByID returns one record, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*types.Feedback, error)
	// UpdateStatus sets the record's status and refreshes updated_at,
	// returning the updated record, or ErrNotFound.
	UpdateStatus(ctx context.Context, id string, status types.FeedbackStatus) (*types.Feedback, error)
	// Delete removes the record, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}
