package worker

// alerta_worker.go
// Checks the source of each committed operation against the alert
// thresholds. New notifications are mailed to ALERT_EMAIL when configured.

import (
	"context"
	"encoding/json"
	"fmt"

	"flota/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AlertaJobPayload is the job envelope sent to QueueAlerta.
type AlertaJobPayload struct {
	OperacionID string `json:"operacion_id"`
}

type AlertaWorker struct {
	notificaciones service.NotificacionService
	dispatcher     *Dispatcher
	alertEmail     string
}

func NewAlertaWorker(notificaciones service.NotificacionService, dispatcher *Dispatcher, alertEmail string) *AlertaWorker {
	return &AlertaWorker{notificaciones: notificaciones, dispatcher: dispatcher, alertEmail: alertEmail}
}

func (w *AlertaWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload AlertaJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("alerta_worker: invalid payload: %w", err)
	}
	id, err := uuid.Parse(payload.OperacionID)
	if err != nil {
		return fmt.Errorf("alerta_worker: operacion_id: %w", err)
	}

	creadas, err := w.notificaciones.EvaluarAlertas(ctx, id)
	if err != nil {
		return err
	}
	for _, n := range creadas {
		log.Info().Str("tipo", n.Tipo).Str("operacion_id", payload.OperacionID).Msg("alerta_worker: notificacion creada")
		if w.alertEmail == "" || w.dispatcher == nil {
			continue
		}
		if err := w.dispatcher.EnqueueEmail(ctx, EmailJobPayload{
			ToEmail: w.alertEmail,
			Subject: "Alerta de combustible",
			Body:    n.Mensaje,
		}); err != nil {
			log.Error().Err(err).Msg("alerta_worker: no se pudo encolar email")
		}
	}
	return nil
}
