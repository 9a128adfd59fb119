// Package postgres implements the feedback store over pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xpress-inn/feedback-api/store"
	"github.com/xpress-inn/feedback-api/types"
)

// PgxIface is the subset of pgxpool.Pool the store needs. pgxmock
// satisfies it for tests.
type PgxIface interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Ensure pgFeedbackStore implements store.FeedbackStore.
var _ store.FeedbackStore = (*pgFeedbackStore)(nil)

type pgFeedbackStore struct {
	db PgxIface
}

// NewFeedbackStore creates a PostgreSQL-backed feedback store.
func NewFeedbackStore(pool *pgxpool.Pool) store.FeedbackStore {
	return &pgFeedbackStore{db: pool}
}

// NewFeedbackStoreWithDB creates a feedback store over any PgxIface.
// Used by tests to inject a mock connection.
func NewFeedbackStoreWithDB(db PgxIface) store.FeedbackStore {
	return &pgFeedbackStore{db: db}
}

const feedbackColumns = `id, name, email, contact, message, rating, feedback_type, status, created_at, updated_at`

func scanFeedback(row pgx.Row) (*types.Feedback, error) {
	fb := &types.Feedback{}
	err := row.Scan(
		&fb.ID,
		&fb.Name,
		&fb.Email,
		&fb.Contact,
		&fb.Message,
		&fb.Rating,
		&fb.FeedbackType,
		&fb.Status,
		&fb.CreatedAt,
		&fb.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return fb, nil
}

// Insert re-validates all field constraints before writing, so the store
// rejects bad records even when a caller skipped validation.
func (s *pgFeedbackStore) Insert(ctx context.Context, fb *types.Feedback) (*types.Feedback, error) {
	fb.Normalize()
	if err := fb.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO feedback (name, email, contact, message, rating, feedback_type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + feedbackColumns

	stored, err := scanFeedback(s.db.QueryRow(ctx, query,
		fb.Name,
		fb.Email,
		fb.Contact,
		fb.Message,
		fb.Rating,
		fb.FeedbackType,
		fb.Status,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert feedback: %w", err)
	}

	return stored, nil
}

// List returns all feedback newest-created first; ties on created_at
// order by id descending for determinism.
func (s *pgFeedbackStore) List(ctx context.Context) ([]*types.Feedback, error) {
	query := `
		SELECT ` + feedbackColumns + `
		FROM feedback
		ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	feedbacks := []*types.Feedback{}
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		feedbacks = append(feedbacks, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read feedback rows: %w", err)
	}

	return feedbacks, nil
}

func (s *pgFeedbackStore) GetByID(ctx context.Context, id string) (*types.Feedback, error) {
	query := `
		SELECT ` + feedbackColumns + `
		FROM feedback
		WHERE id = $1`

	fb, err := scanFeedback(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	return fb, nil
}

func (s *pgFeedbackStore) UpdateStatus(ctx context.Context, id string, status types.FeedbackStatus) (*types.Feedback, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status value: %q", status)
	}

	query := `
		UPDATE feedback
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + feedbackColumns

	fb, err := scanFeedback(s.db.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update feedback status: %w", err)
	}

	return fb, nil
}

func (s *pgFeedbackStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM feedback WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
