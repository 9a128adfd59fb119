// Package services provides business logic implementations.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/resend/resend-go/v2"

	"github.com/xpress-inn/feedback-api/config"
	"github.com/xpress-inn/feedback-api/logger"
)

// EmailSender is the transport contract for outbound email. The caller
// supplies fully rendered content; implementations only deliver it.
type EmailSender interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}

type emailMetrics struct {
	sendLatency prometheus.Histogram
	errorCount  prometheus.Counter
	sentCount   prometheus.Counter
}

// EmailService delivers email through Resend. The client is constructed
// once and is safe for concurrent use by multiple in-flight sends.
type EmailService struct {
	config  *config.EmailConfig
	client  *resend.Client
	metrics *emailMetrics
}

var _ EmailSender = (*EmailService)(nil)

// NewEmailService creates an EmailService registered against the default
// Prometheus registry.
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return NewEmailServiceWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewEmailServiceWithRegistry creates an EmailService with an explicit
// metrics registry, which tests use to avoid duplicate registration.
func NewEmailServiceWithRegistry(cfg *config.EmailConfig, reg prometheus.Registerer) *EmailService {
	logger.GetLogger().Infow("Initializing email service",
		"from", cfg.FromAddress, "business", cfg.BusinessAddress)

	client := resend.NewClient(cfg.ResendAPIKey)
	metrics := &emailMetrics{
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "feedback_email_send_duration_seconds",
			Help:    "Time taken to send emails",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}),
		errorCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedback_email_errors_total",
			Help: "Total number of email sending errors",
		}),
		sentCount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedback_emails_sent_total",
			Help: "Total number of emails sent",
		}),
	}

	reg.MustRegister(metrics.sendLatency)
	reg.MustRegister(metrics.errorCount)
	reg.MustRegister(metrics.sentCount)

	return &EmailService{
		config:  cfg,
		client:  client,
		metrics: metrics,
	}
}

// Send delivers one email. Each call is independent; a failure here never
// affects other sends or the operation that triggered it.
func (s *EmailService) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	startTime := time.Now()
	log := logger.GetLogger()
	defer func() {
		s.metrics.sendLatency.Observe(time.Since(startTime).Seconds())
	}()

	if to == "" {
		s.metrics.errorCount.Inc()
		return fmt.Errorf("recipient email is required")
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress),
		To:      []string{to},
		Subject: subject,
		Text:    textBody,
		Html:    htmlBody,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		s.metrics.errorCount.Inc()
		log.Errorw("Failed to send email",
			"error", err,
			"to", to,
			"subject", subject)
		return fmt.Errorf("email send failed: %w", err)
	}

	s.metrics.sentCount.Inc()
	log.Infow("Email sent", "to", to, "subject", subject)

	return nil
}
