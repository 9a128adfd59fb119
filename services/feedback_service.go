package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/xpress-inn/feedback-api/errors"
	"github.com/xpress-inn/feedback-api/logger"
	"github.com/xpress-inn/feedback-api/store"
	"github.com/xpress-inn/feedback-api/types"
)

// FeedbackService orchestrates validation, persistence, and notification
// dispatch for feedback operations.
type FeedbackService struct {
	store           store.FeedbackStore
	emails          EmailSender
	pool            *WorkerPool
	businessAddress string
	queryTimeout    time.Duration
	log             *zap.SugaredLogger
}

// NewFeedbackService creates a FeedbackService. The worker pool must be
// started by the caller; the service only submits jobs to it.
func NewFeedbackService(
	feedbackStore store.FeedbackStore,
	emails EmailSender,
	pool *WorkerPool,
	businessAddress string,
	queryTimeout time.Duration,
) *FeedbackService {
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}
	return &FeedbackService{
		store:           feedbackStore,
		emails:          emails,
		pool:            pool,
		businessAddress: businessAddress,
		queryTimeout:    queryTimeout,
		log:             logger.GetLogger().Named("feedback-service"),
	}
}

// Submit validates the payload, persists the record, and queues the two
// notification emails. The record is returned as soon as persistence
// succeeds; notification outcome never affects the result.
func (s *FeedbackService) Submit(ctx context.Context, req *types.FeedbackCreate) (*types.Feedback, error) {
	fb := req.ToFeedback()
	if err := fb.Validate(); err != nil {
		return nil, err
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	stored, err := s.store.Insert(storeCtx, fb)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	s.dispatchNotifications(stored)

	return stored, nil
}

// dispatchNotifications queues the submitter confirmation and the business
// alert as two independent fire-and-forget jobs. Render failures, queue
// drops, and send errors are logged and swallowed.
func (s *FeedbackService) dispatchNotifications(fb *types.Feedback) {
	confirmation, err := renderConfirmationEmail(fb)
	if err != nil {
		s.log.Errorw("Failed to render confirmation email", "error", err, "feedbackId", fb.ID)
	} else {
		s.submitEmailJob("feedback-confirmation", fb.Email, confirmation)
	}

	if s.businessAddress == "" {
		s.log.Warnw("No business address configured, skipping alert email", "feedbackId", fb.ID)
		return
	}

	alert, err := renderAlertEmail(fb)
	if err != nil {
		s.log.Errorw("Failed to render alert email", "error", err, "feedbackId", fb.ID)
		return
	}
	s.submitEmailJob("feedback-alert", s.businessAddress, alert)
}

func (s *FeedbackService) submitEmailJob(name, to string, email *renderedEmail) {
	submitted := s.pool.Submit(Job{
		Name: name,
		Execute: func(ctx context.Context) error {
			return s.emails.Send(ctx, to, email.Subject, email.Text, email.HTML)
		},
	})
	if !submitted {
		s.log.Warnw("Notification dropped", "job", name, "to", to)
	}
}

// List returns all feedback records, newest first.
func (s *FeedbackService) List(ctx context.Context) ([]*types.Feedback, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	feedbacks, err := s.store.List(storeCtx)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return feedbacks, nil
}

// Get returns one record. Malformed ids short-circuit before any store
// access.
func (s *FeedbackService) Get(ctx context.Context, id string) (*types.Feedback, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.InvalidID(id)
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	fb, err := s.store.GetByID(storeCtx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.FeedbackNotFound(id)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return fb, nil
}

// UpdateStatus sets a record's status. The status value is checked before
// the store is touched.
func (s *FeedbackService) UpdateStatus(ctx context.Context, id string, status string) (*types.Feedback, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.InvalidID(id)
	}

	newStatus := types.FeedbackStatus(status)
	if !newStatus.IsValid() {
		return nil, apperrors.ValidationFailed("Invalid status value", "status: "+status)
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	fb, err := s.store.UpdateStatus(storeCtx, id, newStatus)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.FeedbackNotFound(id)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return fb, nil
}

// Delete removes a record permanently.
func (s *FeedbackService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.InvalidID(id)
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.store.Delete(storeCtx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.FeedbackNotFound(id)
		}
		return apperrors.NewDatabaseError(err)
	}
	return nil
}
