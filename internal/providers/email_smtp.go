package providers

import (
	"context"
	"fmt"
	netmail "net/mail"
	"net/smtp"
	"strings"
	"time"

	"email-relay-service/internal/domain"
	"email-relay-service/internal/metrics"

	"github.com/rs/zerolog/log"
	mail "gopkg.in/mail.v2"
)

// Dialer opens an authenticated SMTP session.
type Dialer interface {
	Dial() (mail.SendCloser, error)
}

// DialerFunc builds a Dialer for the given endpoint and credentials.
type DialerFunc func(host string, port int, user, pass string) Dialer

// NewSTARTTLSDialer connects in plaintext and refuses to continue unless the
// server accepts STARTTLS before AUTH PLAIN. A session that drops mid-batch
// is never redialed.
func NewSTARTTLSDialer(host string, port int, user, pass string) Dialer {
	d := mail.NewDialer(host, port, user, pass)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.Auth = smtp.PlainAuth("", user, pass, host)
	d.RetryFailure = false
	return d
}

// SMTPRelay implements domain.Relay over a single SMTP session per batch.
type SMTPRelay struct {
	Host    string
	Port    int
	User    string
	Pass    string
	Policy  domain.FailurePolicy
	Dial    DialerFunc
	Metrics *metrics.Collector
}

// Send opens one session, authenticates once and transmits every entry in order.
// The session is closed on every path once it has been opened.
func (p SMTPRelay) Send(ctx context.Context, batch []domain.SendRequest) (domain.BatchResult, error) {
	result := domain.NewBatchResult(batch)
	logger := log.With().Str("component", "smtp").Int("batch_size", len(batch)).Logger()

	if p.User == "" || p.Pass == "" {
		p.Metrics.ObserveBatch(ctx, "config_error")
		return result, domain.ErrMissingCredentials
	}

	dial := p.Dial
	if dial == nil {
		dial = NewSTARTTLSDialer
	}

	session, err := dial(p.Host, p.Port, p.User, p.Pass).Dial()
	if err != nil {
		p.Metrics.ObserveBatch(ctx, "session_error")
		logger.Error().Err(err).Str("host", p.Host).Int("port", p.Port).Msg("smtp session failed")
		return result, fmt.Errorf("smtp session: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("smtp session close failed")
		}
	}()

	var firstErr error
	for i, req := range batch {
		start := time.Now()
		sendErr := p.transmit(session, req)
		took := time.Since(start)

		if sendErr != nil {
			sendErr = &domain.SendError{Index: i, Recipients: req.Recipients, Err: sendErr}
			result.Outcomes[i].Status = domain.StatusFailed
			result.Outcomes[i].Error = sendErr.Error()
			p.Metrics.ObserveSend(ctx, domain.StatusFailed, took)
			logger.Error().Err(sendErr).Int("index", i).Msg("email send failed")

			if firstErr == nil {
				firstErr = sendErr
			}
			if p.Policy != domain.ContinueOnFailure {
				break
			}
			continue
		}

		result.Outcomes[i].Status = domain.StatusSent
		p.Metrics.ObserveSend(ctx, domain.StatusSent, took)
		logger.Info().Str("to", strings.Join(req.Recipients, ", ")).Msg("email sent")
	}

	if firstErr != nil {
		p.Metrics.ObserveBatch(ctx, "failed")
		logger.Warn().
			Int("sent", result.Sent()).
			Ints("failed", result.FailedIndices()).
			Int("skipped", result.Skipped()).
			Msg("batch incomplete")
		return result, firstErr
	}

	p.Metrics.ObserveBatch(ctx, "success")
	return result, nil
}

func (p SMTPRelay) buildMessage(req domain.SendRequest) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", p.User)
	m.SetHeader("To", req.Recipients...)
	m.SetHeader("Subject", req.Subject)
	m.SetBody("text/plain", req.Body)
	return m
}

// transmit sends one message. Envelope recipients are parsed from the To
// values so display names and comma-separated lists resolve to bare addresses.
func (p SMTPRelay) transmit(session mail.SendCloser, req domain.SendRequest) error {
	rcpt, err := envelopeRecipients(req.Recipients)
	if err != nil {
		return err
	}
	return session.Send(p.User, rcpt, p.buildMessage(req))
}

func envelopeRecipients(recipients []string) ([]string, error) {
	addrs, err := netmail.ParseAddressList(strings.Join(recipients, ", "))
	if err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.Address)
	}
	return out, nil
}
