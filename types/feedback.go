package types

import "time"

// FeedbackType classifies the sentiment of a submission.
type FeedbackType string

const (
	FeedbackTypeHappy   FeedbackType = "happy"
	FeedbackTypeSad     FeedbackType = "sad"
	FeedbackTypeNeutral FeedbackType = "neutral"
)

// IsValid reports whether the feedback type is a member of the allowed set.
func (t FeedbackType) IsValid() bool {
	switch t {
	case FeedbackTypeHappy, FeedbackTypeSad, FeedbackTypeNeutral:
		return true
	}
	return false
}

// FeedbackStatus tracks the review state of a submission. Transitions are
// unconstrained: any status may move to any other.
type FeedbackStatus string

const (
	FeedbackStatusPending  FeedbackStatus = "pending"
	FeedbackStatusReviewed FeedbackStatus = "reviewed"
	FeedbackStatusResolved FeedbackStatus = "resolved"
)

// IsValid reports whether the status is a member of the allowed set.
func (s FeedbackStatus) IsValid() bool {
	switch s {
	case FeedbackStatusPending, FeedbackStatusReviewed, FeedbackStatusResolved:
		return true
	}
	return false
}

// Feedback represents one customer submission stored in the database.
type Feedback struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Contact      string         `json:"contact"`
	Message      string         `json:"message"`
	Rating       int            `json:"rating"`
	FeedbackType FeedbackType   `json:"feedbackType"`
	Status       FeedbackStatus `json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// FeedbackCreate is the request body for submitting feedback. Rating is a
// pointer so an absent value can default to 0 while an explicit
// out-of-range value is rejected.
type FeedbackCreate struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Contact      string `json:"contact"`
	Message      string `json:"message"`
	Rating       *int   `json:"rating,omitempty"`
	FeedbackType string `json:"feedbackType,omitempty"`
}

// FeedbackStatusUpdate is the request body for the status update endpoint.
type FeedbackStatusUpdate struct {
	Status string `json:"status"`
}
