package notifier

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"campusportal/internal/dto"
	"campusportal/internal/mailer"
	"campusportal/internal/repo"
)

// Consumer is the queue side the worker reads notices from.
type Consumer interface {
	Consume(handler func([]byte) error) error
}

// Worker consumes registration lifecycle notices and emails the registrant.
type Worker struct {
	rmq    Consumer
	events repo.EventStore
	regs   repo.RegistrationStore
	mail   *mailer.Mailer
	log    *zerolog.Logger
	done   chan struct{}
	cancel context.CancelFunc
}

func NewWorker(rmq Consumer, events repo.EventStore, regs repo.RegistrationStore, mail *mailer.Mailer, log *zerolog.Logger) *Worker {
	return &Worker{
		rmq:    rmq,
		events: events,
		regs:   regs,
		mail:   mail,
		log:    log,
		done:   make(chan struct{}),
	}
}

func (w *Worker) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.log.Info().Msg("notification worker started")

	go func() {
		defer close(w.done)

		if err := w.rmq.Consume(w.handle); err != nil {
			w.log.Error().Err(err).Msg("failed to start consuming notices")
			return
		}

		<-cctx.Done()
		w.log.Info().Msg("notification worker stopped")
	}()
}

func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
}

// handle resolves a notice back to its registration and event and sends the
// status mail. Records that disappeared in the meantime are skipped, not
// retried: the queue only carries best-effort notifications.
func (w *Worker) handle(body []byte) error {
	var msg dto.RegistrationNoticeMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		w.log.Error().Err(err).Msgf("failed to unmarshal notice: %s", string(body))
		return err
	}

	w.log.Info().
		Int64("registration_id", msg.RegistrationID).
		Int("event_id", msg.EventID).
		Str("status", msg.Status).
		Msg("received registration notice")

	reg, err := w.regs.Get(msg.RegistrationID)
	if err != nil {
		w.log.Warn().Int64("registration_id", msg.RegistrationID).Msg("registration gone, skipping notice")
		return nil
	}

	event, err := w.events.Get(reg.EventID)
	if err != nil {
		// The event can be deleted while its registrations remain.
		w.log.Warn().Int("event_id", reg.EventID).Msg("event gone, skipping notice")
		return nil
	}

	if !w.mail.Enabled() {
		w.log.Debug().Msg("mailer not configured, dropping notice")
		return nil
	}
	if err := w.mail.SendStatusEmail(event.Title, msg.Status, reg.Email); err != nil {
		w.log.Warn().Err(err).Msg("failed to send notification email")
	}
	return nil
}
