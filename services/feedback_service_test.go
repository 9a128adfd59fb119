package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xpress-inn/feedback-api/config"
	apperrors "github.com/xpress-inn/feedback-api/errors"
	"github.com/xpress-inn/feedback-api/store"
	"github.com/xpress-inn/feedback-api/types"
)

// MockFeedbackStore implements store.FeedbackStore for service tests.
type MockFeedbackStore struct {
	mock.Mock
}

func (m *MockFeedbackStore) Insert(ctx context.Context, fb *types.Feedback) (*types.Feedback, error) {
	args := m.Called(ctx, fb)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Feedback), args.Error(1)
}

func (m *MockFeedbackStore) List(ctx context.Context) ([]*types.Feedback, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Feedback), args.Error(1)
}

func (m *MockFeedbackStore) GetByID(ctx context.Context, id string) (*types.Feedback, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Feedback), args.Error(1)
}

func (m *MockFeedbackStore) UpdateStatus(ctx context.Context, id string, status types.FeedbackStatus) (*types.Feedback, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Feedback), args.Error(1)
}

func (m *MockFeedbackStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ store.FeedbackStore = (*MockFeedbackStore)(nil)

// recordingSender captures sends and signals through a channel so tests
// can wait for the asynchronous dispatch.
type recordingSender struct {
	sends chan sentEmail
	err   error
}

type sentEmail struct {
	To      string
	Subject string
}

func newRecordingSender(err error) *recordingSender {
	return &recordingSender{sends: make(chan sentEmail, 8), err: err}
}

func (r *recordingSender) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	r.sends <- sentEmail{To: to, Subject: subject}
	return r.err
}

func setupFeedbackService(t *testing.T, sender EmailSender) (*FeedbackService, *MockFeedbackStore, *WorkerPool) {
	resetWorkerPoolMetricsForTesting()

	mockStore := new(MockFeedbackStore)
	pool := NewWorkerPool(config.WorkerPoolConfig{
		MaxWorkers:             2,
		QueueSize:              16,
		ShutdownTimeoutSeconds: 5,
	})
	pool.Start()
	t.Cleanup(func() {
		_ = pool.Shutdown(context.Background())
	})

	svc := NewFeedbackService(mockStore, sender, pool, "owner@example.com", 5*time.Second)
	return svc, mockStore, pool
}

func validSubmission() *types.FeedbackCreate {
	return &types.FeedbackCreate{
		Name:    "Jo",
		Email:   "jo@x.com",
		Contact: "1234567",
		Message: "Great stay",
	}
}

func storedFromCreate(req *types.FeedbackCreate) *types.Feedback {
	fb := req.ToFeedback()
	fb.ID = uuid.NewString()
	fb.CreatedAt = time.Now().UTC()
	fb.UpdatedAt = fb.CreatedAt
	return fb
}

func waitForSends(t *testing.T, sender *recordingSender, n int) []sentEmail {
	t.Helper()
	sends := make([]sentEmail, 0, n)
	for i := 0; i < n; i++ {
		select {
		case s := <-sender.sends:
			sends = append(sends, s)
		case <-time.After(2 * time.Second):
			t.Fatalf("expected %d email sends, got %d", n, len(sends))
		}
	}
	return sends
}

func TestSubmit_PersistsAndReturnsRecord(t *testing.T) {
	sender := newRecordingSender(nil)
	svc, mockStore, _ := setupFeedbackService(t, sender)

	req := validSubmission()
	stored := storedFromCreate(req)
	mockStore.On("Insert", mock.Anything, mock.Anything).Return(stored, nil)

	got, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, stored.ID, got.ID)
	assert.Equal(t, types.FeedbackStatusPending, got.Status)
	assert.Equal(t, 0, got.Rating)
	assert.Equal(t, types.FeedbackTypeNeutral, got.FeedbackType)
	mockStore.AssertExpectations(t)
}

func TestSubmit_SendsConfirmationAndAlert(t *testing.T) {
	sender := newRecordingSender(nil)
	svc, mockStore, _ := setupFeedbackService(t, sender)

	req := validSubmission()
	stored := storedFromCreate(req)
	mockStore.On("Insert", mock.Anything, mock.Anything).Return(stored, nil)

	_, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	sends := waitForSends(t, sender, 2)

	recipients := map[string]string{}
	for _, s := range sends {
		recipients[s.To] = s.Subject
	}
	assert.Contains(t, recipients, "jo@x.com")
	assert.Contains(t, recipients, "owner@example.com")
	assert.Contains(t, recipients["owner@example.com"], "New Feedback from Jo")
}

func TestSubmit_SendFailureDoesNotAffectResult(t *testing.T) {
	sender := newRecordingSender(errors.New("smtp unavailable"))
	svc, mockStore, _ := setupFeedbackService(t, sender)

	req := validSubmission()
	stored := storedFromCreate(req)
	mockStore.On("Insert", mock.Anything, mock.Anything).Return(stored, nil)

	got, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)

	// Both sends still happen and fail quietly.
	waitForSends(t, sender, 2)
}

func TestSubmit_ValidationFailureSkipsStore(t *testing.T) {
	sender := newRecordingSender(nil)
	svc, mockStore, _ := setupFeedbackService(t, sender)

	req := validSubmission()
	req.Email = ""

	_, err := svc.Submit(context.Background(), req)

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ValidationError, appErr.Type)
	assert.Equal(t, "Email is required", appErr.Message)
	mockStore.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSubmit_StoreFailure(t *testing.T) {
	sender := newRecordingSender(nil)
	svc, mockStore, _ := setupFeedbackService(t, sender)

	mockStore.On("Insert", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	_, err := svc.Submit(context.Background(), validSubmission())

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.DatabaseError, appErr.Type)

	// No record persisted means no notifications.
	select {
	case s := <-sender.sends:
		t.Fatalf("unexpected send to %s", s.To)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestGet_InvalidIDShortCircuits(t *testing.T) {
	sender := newRecordingSender(nil)
	svc, mockStore, _ := setupFeedbackService(t, sender)

	_, err := svc.Get(context.Background(), "not-a-real-id")

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.InvalidIDError, appErr.Type)
	mockStore.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGet_NotFound(t *testing.T) {
	sender := newRecordingSender(nil)
	svc, mockStore, _ := setupFeedbackService(t, sender)

	id := uuid.NewString()
	mockStore.On("GetByID", mock.Anything, id).Return(nil, store.ErrNotFound)

	_, err := svc.Get(context.Background(), id)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.NotFoundError, appErr.Type)
}

func TestGet_ReturnsRecord(t *testing.T) {
	sender := newRecordingSender(nil)
	svc, mockStore, _ := setupFeedbackService(t, sender)

	stored := storedFromCreate(validSubmission())
	mockStore.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)

	got, err := svc.Get(context.Background(), stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestList(t *testing.T) {
	sender := newRecordingSender(nil)
	svc, mockStore, _ := setupFeedbackService(t, sender)

	stored := storedFromCreate(validSubmission())
	mockStore.On("List", mock.Anything).Return([]*types.Feedback{stored}, nil)

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestUpdateStatus_RejectsUnknownStatusBeforeStore(t *testing.T) {
	sender := newRecordingSender(nil)
	svc, mockStore, _ := setupFeedbackService(t, sender)

	_, err := svc.UpdateStatus(context.Background(), uuid.NewString(), "archived")

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ValidationError, appErr.Type)
	assert.Equal(t, "Invalid status value", appErr.Message)
	mockStore.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_UpdatesRecord(t *testing.T) {
	sender := newRecordingSender(nil)
	svc, mockStore, _ := setupFeedbackService(t, sender)

	stored := storedFromCreate(validSubmission())
	stored.Status = types.FeedbackStatusResolved
	mockStore.On("UpdateStatus", mock.Anything, stored.ID, types.FeedbackStatusResolved).
		Return(stored, nil)

	got, err := svc.UpdateStatus(context.Background(), stored.ID, "resolved")
	require.NoError(t, err)
	assert.Equal(t, types.FeedbackStatusResolved, got.Status)
}

func TestDelete_NotFound(t *testing.T) {
	sender := newRecordingSender(nil)
	svc, mockStore, _ := setupFeedbackService(t, sender)

	id := uuid.NewString()
	mockStore.On("Delete", mock.Anything, id).Return(store.ErrNotFound)

	err := svc.Delete(context.Background(), id)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.NotFoundError, appErr.Type)
}

func TestDelete_InvalidID(t *testing.T) {
	sender := newRecordingSender(nil)
	svc, mockStore, _ := setupFeedbackService(t, sender)

	err := svc.Delete(context.Background(), "nope")

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.InvalidIDError, appErr.Type)
	mockStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDelete_Success(t *testing.T) {
	sender := newRecordingSender(nil)
	svc, mockStore, _ := setupFeedbackService(t, sender)

	id := uuid.NewString()
	mockStore.On("Delete", mock.Anything, id).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), id))
}
