package notify

import (
	"context"
	"fmt"

	"github.com/mbolis/quick-forms/log"
)

// Notifier delivers the link to a newly approved survey.
// A delivery failure is always returned, never swallowed.
type Notifier interface {
	Send(ctx context.Context, recipient, title, formURL string) error
}

func Subject(title string) string {
	return "New Survey: " + title
}

func Body(formURL string) string {
	return fmt.Sprintf("Please complete the survey: %s", formURL)
}

// LogNotifier only logs the message. It is used when no SMTP server is configured.
type LogNotifier struct{}

func (LogNotifier) Send(ctx context.Context, recipient, title, formURL string) error {
	log.WithFields(log.Fields{
		"to":      recipient,
		"subject": Subject(title),
	}).Info("notify.log: ", Body(formURL))
	return nil
}
