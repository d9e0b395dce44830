package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Adjunto string `json:"adjunto,omitempty"`
}

// Sender is satisfied by infra.Mailer.
type Sender interface {
	Enviar(to, subject, body, adjunto string) error
}

// EmailWorker processes email jobs from QueueEmail.
type EmailWorker struct {
	sender Sender
}

func NewEmailWorker(sender Sender) *EmailWorker {
	return &EmailWorker{sender: sender}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("email_worker: invalid payload: %w", err)
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}

	if err := w.sender.Enviar(payload.ToEmail, payload.Subject, payload.Body, payload.Adjunto); err != nil {
		return fmt.Errorf("email_worker: send to %s: %w", payload.ToEmail, err)
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: sent")
	return nil
}
