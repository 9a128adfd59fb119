package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xpress-inn/feedback-api/errors"
	"github.com/xpress-inn/feedback-api/store"
	"github.com/xpress-inn/feedback-api/types"
)

var feedbackColumnNames = []string{
	"id", "name", "email", "contact", "message",
	"rating", "feedback_type", "status", "created_at", "updated_at",
}

func setupMockStore(t *testing.T) (store.FeedbackStore, pgxmock.PgxPoolIface) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewFeedbackStoreWithDB(mock), mock
}

func testFeedback() *types.Feedback {
	return &types.Feedback{
		Name:         "Jo Smith",
		Email:        "jo@example.com",
		Contact:      "1234567",
		Message:      "Great stay",
		Rating:       0,
		FeedbackType: types.FeedbackTypeNeutral,
		Status:       types.FeedbackStatusPending,
	}
}

func feedbackRow(id string, createdAt time.Time) *pgxmock.Rows {
	return pgxmock.NewRows(feedbackColumnNames).AddRow(
		id, "Jo Smith", "jo@example.com", "1234567", "Great stay",
		0, types.FeedbackTypeNeutral, types.FeedbackStatusPending,
		createdAt, createdAt,
	)
}

func TestFeedbackStore_Insert(t *testing.T) {
	s, mock := setupMockStore(t)
	ctx := context.Background()

	id := uuid.NewString()
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO feedback").
		WithArgs("Jo Smith", "jo@example.com", "1234567", "Great stay",
			0, types.FeedbackTypeNeutral, types.FeedbackStatusPending).
		WillReturnRows(feedbackRow(id, now))

	stored, err := s.Insert(ctx, testFeedback())
	require.NoError(t, err)

	assert.Equal(t, id, stored.ID)
	assert.Equal(t, types.FeedbackStatusPending, stored.Status)
	assert.Equal(t, now, stored.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackStore_Insert_RejectsInvalidWithoutQuery(t *testing.T) {
	s, mock := setupMockStore(t)

	fb := testFeedback()
	fb.Message = "hey" // below minimum length

	_, err := s.Insert(context.Background(), fb)

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ValidationError, appErr.Type)
	// No query expectations were set: the insert must not reach the db.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackStore_Insert_NormalizesBeforeWrite(t *testing.T) {
	s, mock := setupMockStore(t)

	fb := testFeedback()
	fb.Email = " JO@Example.COM "

	mock.ExpectQuery("INSERT INTO feedback").
		WithArgs("Jo Smith", "jo@example.com", "1234567", "Great stay",
			0, types.FeedbackTypeNeutral, types.FeedbackStatusPending).
		WillReturnRows(feedbackRow(uuid.NewString(), time.Now()))

	_, err := s.Insert(context.Background(), fb)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackStore_List_NewestFirst(t *testing.T) {
	s, mock := setupMockStore(t)

	older := time.Now().Add(-time.Hour)
	newer := time.Now()
	idOld := uuid.NewString()
	idNew := uuid.NewString()

	rows := pgxmock.NewRows(feedbackColumnNames).
		AddRow(idNew, "Jo Smith", "jo@example.com", "1234567", "Great stay",
			0, types.FeedbackTypeNeutral, types.FeedbackStatusPending, newer, newer).
		AddRow(idOld, "Jo Smith", "jo@example.com", "1234567", "Great stay",
			0, types.FeedbackTypeNeutral, types.FeedbackStatusPending, older, older)

	mock.ExpectQuery("ORDER BY created_at DESC, id DESC").
		WillReturnRows(rows)

	feedbacks, err := s.List(context.Background())
	require.NoError(t, err)

	require.Len(t, feedbacks, 2)
	assert.Equal(t, idNew, feedbacks[0].ID)
	assert.Equal(t, idOld, feedbacks[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackStore_List_Empty(t *testing.T) {
	s, mock := setupMockStore(t)

	mock.ExpectQuery("FROM feedback").
		WillReturnRows(pgxmock.NewRows(feedbackColumnNames))

	feedbacks, err := s.List(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, feedbacks)
	assert.Empty(t, feedbacks)
}

func TestFeedbackStore_GetByID(t *testing.T) {
	s, mock := setupMockStore(t)
	id := uuid.NewString()

	mock.ExpectQuery("FROM feedback").
		WithArgs(id).
		WillReturnRows(feedbackRow(id, time.Now()))

	fb, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, fb.ID)
}

func TestFeedbackStore_GetByID_NotFound(t *testing.T) {
	s, mock := setupMockStore(t)
	id := uuid.NewString()

	mock.ExpectQuery("FROM feedback").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFeedbackStore_UpdateStatus(t *testing.T) {
	s, mock := setupMockStore(t)
	id := uuid.NewString()
	now := time.Now()

	rows := pgxmock.NewRows(feedbackColumnNames).AddRow(
		id, "Jo Smith", "jo@example.com", "1234567", "Great stay",
		0, types.FeedbackTypeNeutral, types.FeedbackStatusResolved,
		now.Add(-time.Hour), now,
	)

	mock.ExpectQuery("UPDATE feedback").
		WithArgs(id, types.FeedbackStatusResolved).
		WillReturnRows(rows)

	fb, err := s.UpdateStatus(context.Background(), id, types.FeedbackStatusResolved)
	require.NoError(t, err)

	assert.Equal(t, types.FeedbackStatusResolved, fb.Status)
	assert.True(t, fb.UpdatedAt.After(fb.CreatedAt))
}

func TestFeedbackStore_UpdateStatus_NotFound(t *testing.T) {
	s, mock := setupMockStore(t)
	id := uuid.NewString()

	mock.ExpectQuery("UPDATE feedback").
		WithArgs(id, types.FeedbackStatusReviewed).
		WillReturnError(pgx.ErrNoRows)

	_, err := s.UpdateStatus(context.Background(), id, types.FeedbackStatusReviewed)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFeedbackStore_UpdateStatus_RejectsInvalidStatus(t *testing.T) {
	s, mock := setupMockStore(t)

	_, err := s.UpdateStatus(context.Background(), uuid.NewString(), types.FeedbackStatus("archived"))

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackStore_Delete(t *testing.T) {
	s, mock := setupMockStore(t)
	id := uuid.NewString()

	mock.ExpectExec("DELETE FROM feedback").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, s.Delete(context.Background(), id))
}

func TestFeedbackStore_Delete_NotFound(t *testing.T) {
	s, mock := setupMockStore(t)
	id := uuid.NewString()

	mock.ExpectExec("DELETE FROM feedback").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, s.Delete(context.Background(), id), store.ErrNotFound)
}

func TestFeedbackStore_Delete_QueryError(t *testing.T) {
	s, mock := setupMockStore(t)
	id := uuid.NewString()

	mock.ExpectExec("DELETE FROM feedback").
		WithArgs(id).
		WillReturnError(errors.New("connection reset"))

	err := s.Delete(context.Background(), id)
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)
}
