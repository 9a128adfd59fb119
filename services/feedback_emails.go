package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/xpress-inn/feedback-api/types"
)

// Email content for the two notifications triggered by a submission. The
// dispatcher only transports; rendering happens here.

const confirmationEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Thank You for Your Feedback</title>
    <style>
        body {
            font-family: 'sans-serif';
            background-color: #f7f7f7;
            color: #333333;
            margin: 0;
            padding: 20px;
        }
        .container {
            max-width: 600px;
            margin: 20px auto;
            background-color: #ffffff;
            padding: 30px;
            border-radius: 12px;
            box-shadow: 0 4px 8px rgba(0, 0, 0, 0.05);
        }
        h1 {
            color: #1A73E8;
            font-size: 24px;
            margin-bottom: 20px;
        }
        p {
            font-size: 16px;
            line-height: 1.6;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>Thank You for Your Feedback</h1>
        <p>Hello {{.Name}},</p>
        <p>Thank you for contacting us. We have received your feedback and our team will review it shortly.</p>
    </div>
</body>
</html>`

const alertEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Feedback</title>
</head>
<body>
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Contact:</strong> {{.Contact}}</p>
    <p><strong>Type:</strong> {{.FeedbackType}}</p>
    <p><strong>Rating:</strong> {{.Rating}}</p>
    <p><strong>Message:</strong> {{.Message}}</p>
</body>
</html>`

var (
	confirmationTmpl = template.Must(template.New("confirmation").Parse(confirmationEmailTemplate))
	alertTmpl        = template.Must(template.New("alert").Parse(alertEmailTemplate))
)

type renderedEmail struct {
	Subject string
	Text    string
	HTML    string
}

// renderConfirmationEmail builds the thank-you message for the submitter.
func renderConfirmationEmail(fb *types.Feedback) (*renderedEmail, error) {
	var html bytes.Buffer
	if err := confirmationTmpl.Execute(&html, fb); err != nil {
		return nil, fmt.Errorf("failed to render confirmation email: %w", err)
	}
	return &renderedEmail{
		Subject: "Thank You for Your Feedback - Xpress Inn Marshall",
		Text:    fmt.Sprintf("Hello %s, thank you for contacting us!", fb.Name),
		HTML:    html.String(),
	}, nil
}

// renderAlertEmail builds the new-feedback notice for the business address.
func renderAlertEmail(fb *types.Feedback) (*renderedEmail, error) {
	var html bytes.Buffer
	if err := alertTmpl.Execute(&html, fb); err != nil {
		return nil, fmt.Errorf("failed to render alert email: %w", err)
	}
	return &renderedEmail{
		Subject: fmt.Sprintf("New Feedback from %s", fb.Name),
		Text:    fmt.Sprintf("New feedback from %s (%s)", fb.Name, fb.Email),
		HTML:    html.String(),
	}, nil
}
