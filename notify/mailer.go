package notify

import (
	"context"
	"errors"
	"time"

	"github.com/lestrrat-go/backoff/v2"
	"github.com/wneessen/go-mail"

	"github.com/mbolis/quick-forms/config"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
)

type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Mailer sends notifications over SMTP with STARTTLS, retrying failed deliveries
// with exponential backoff.
type Mailer struct {
	client  sender
	from    string
	retries int
	policy  backoff.Policy
}

func NewMailer(cfg config.Config) (*Mailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(30 * time.Second),
	}
	if cfg.SMTPUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUsername),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}
	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, err
	}
	return newMailer(client, cfg.SMTPFrom, cfg.NotifyRetries, cfg.NotifyMinInterval), nil
}

func newMailer(client sender, from string, retries int, minInterval time.Duration) *Mailer {
	if minInterval <= 0 {
		minInterval = time.Second
	}
	if retries < 0 {
		retries = 0
	}
	return &Mailer{
		client:  client,
		from:    from,
		retries: retries,
		policy: backoff.Exponential(
			backoff.WithMinInterval(minInterval),
			backoff.WithMaxInterval(30*minInterval),
			backoff.WithMaxRetries(retries+1),
			backoff.WithJitterFactor(0.05),
		),
	}
}

func (m *Mailer) Send(ctx context.Context, recipient, title, formURL string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return &model.NotificationError{Recipient: recipient, Err: err}
	}
	if err := msg.To(recipient); err != nil {
		return &model.NotificationError{Recipient: recipient, Err: err}
	}
	msg.Subject(Subject(title))
	msg.SetBodyString(mail.TypeTextPlain, Body(formURL))

	var err error
	attempt := 0
	b := m.policy.Start(ctx)
	for backoff.Continue(b) {
		attempt++
		err = m.client.DialAndSendWithContext(ctx, msg)
		if err == nil {
			log.Infof("notify.mail: sent %q to %s", title, recipient)
			return nil
		}
		log.Warnf("notify.mail: attempt %d to %s failed: %s", attempt, recipient, err)
		if attempt > m.retries {
			break
		}
	}
	if err == nil {
		err = ctx.Err()
	}
	if err == nil {
		err = errors.New("no delivery attempt made")
	}
	return &model.NotificationError{Recipient: recipient, Err: err}
}
