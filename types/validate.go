package types

import (
	"regexp"
	"strings"
	"unicode/utf8"

	apperrors "github.com/xpress-inn/feedback-api/errors"
)

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	contactPattern = regexp.MustCompile(`^[0-9+\-() ]{7,20}$`)
)

// Normalize trims whitespace on all text fields and lowercases the email.
func (f *Feedback) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Contact = strings.TrimSpace(f.Contact)
	f.Message = strings.TrimSpace(f.Message)
}

// Validate checks every field constraint and returns a validation error
// naming the first failing one. Callers should Normalize first. Length
// limits count characters, not bytes, matching the char_length checks in
// the database schema.
func (f *Feedback) Validate() error {
	if f.Name == "" {
		return apperrors.ValidationFailed("Name is required", "")
	}
	if utf8.RuneCountInString(f.Name) < 2 {
		return apperrors.ValidationFailed("Name must be at least 2 characters", "")
	}
	if utf8.RuneCountInString(f.Name) > 100 {
		return apperrors.ValidationFailed("Name cannot exceed 100 characters", "")
	}

	if f.Email == "" {
		return apperrors.ValidationFailed("Email is required", "")
	}
	if !emailPattern.MatchString(f.Email) {
		return apperrors.ValidationFailed("Please enter a valid email address", "email: "+f.Email)
	}

	if f.Contact == "" {
		return apperrors.ValidationFailed("Contact number is required", "")
	}
	if !contactPattern.MatchString(f.Contact) {
		return apperrors.ValidationFailed("Please enter a valid contact number", "contact: "+f.Contact)
	}

	if f.Message == "" {
		return apperrors.ValidationFailed("Message is required", "")
	}
	if utf8.RuneCountInString(f.Message) < 5 {
		return apperrors.ValidationFailed("Message must be at least 5 characters", "")
	}
	if utf8.RuneCountInString(f.Message) > 2000 {
		return apperrors.ValidationFailed("Message cannot exceed 2000 characters", "")
	}

	if f.Rating < 0 {
		return apperrors.ValidationFailed("Rating cannot be below 0", "")
	}
	if f.Rating > 5 {
		return apperrors.ValidationFailed("Rating cannot exceed 5", "")
	}

	if !f.FeedbackType.IsValid() {
		return apperrors.ValidationFailed("Feedback type must be happy, sad, or neutral", "feedbackType: "+string(f.FeedbackType))
	}
	if !f.Status.IsValid() {
		return apperrors.ValidationFailed("Invalid status value", "status: "+string(f.Status))
	}

	return nil
}

// ToFeedback converts a create payload into a normalized Feedback with
// defaults applied: rating 0 when absent, feedback type neutral when
// absent, status always pending.
func (c *FeedbackCreate) ToFeedback() *Feedback {
	rating := 0
	if c.Rating != nil {
		rating = *c.Rating
	}

	feedbackType := FeedbackType(strings.TrimSpace(c.FeedbackType))
	if feedbackType == "" {
		feedbackType = FeedbackTypeNeutral
	}

	f := &Feedback{
		Name:         c.Name,
		Email:        c.Email,
		Contact:      c.Contact,
		Message:      c.Message,
		Rating:       rating,
		FeedbackType: feedbackType,
		Status:       FeedbackStatusPending,
	}
	f.Normalize()
	return f
}
