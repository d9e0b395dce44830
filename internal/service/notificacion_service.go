package service

import (
	"context"
	"errors"
	"fmt"

	"flota/internal/dto"
	"flota/internal/model"
	"flota/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	NotifSaldoBajo      = "saldo_bajo"
	NotifReservorioBajo = "reservorio_bajo"
)

type NotificacionService interface {
	Listar(ctx context.Context, filter dto.NotificacionFilter) (*dto.NotificacionListResponse, error)
	MarcarLeida(ctx context.Context, id uuid.UUID) error
	// EvaluarAlertas checks the source of a committed operation against the
	// configured thresholds and records a notification for each breach.
	// A breach that already has an unread notification is not repeated.
	EvaluarAlertas(ctx context.Context, operacionID uuid.UUID) ([]model.Notificacion, error)
}

// Umbrales are the alert thresholds: a card balance and a reservoir fill
// percentage.
type Umbrales struct {
	SaldoMinimo      decimal.Decimal
	PorcentajeMinimo decimal.Decimal
}

type notificacionService struct {
	repo        repository.NotificacionRepository
	operaciones repository.OperacionRepository
	tarjetas    repository.TarjetaRepository
	reservorios repository.ReservorioRepository
	umbrales    Umbrales
}

func NewNotificacionService(
	repo repository.NotificacionRepository,
	operaciones repository.OperacionRepository,
	tarjetas repository.TarjetaRepository,
	reservorios repository.ReservorioRepository,
	umbrales Umbrales,
) NotificacionService {
	return &notificacionService{
		repo:        repo,
		operaciones: operaciones,
		tarjetas:    tarjetas,
		reservorios: reservorios,
		umbrales:    umbrales,
	}
}

func (s *notificacionService) Listar(ctx context.Context, filter dto.NotificacionFilter) (*dto.NotificacionListResponse, error) {
	var leida *bool
	switch filter.Leida {
	case "true":
		v := true
		leida = &v
	case "false":
		v := false
		leida = &v
	}
	notifs, total, err := s.repo.List(ctx, leida, filter.Page, filter.Limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.NotificacionResponse, len(notifs))
	for i, n := range notifs {
		data[i] = dto.NotificacionResponse{
			ID:           n.ID.String(),
			Tipo:         n.Tipo,
			Mensaje:      n.Mensaje,
			ReferenciaID: uuidPtrString(n.ReferenciaID),
			Leida:        n.Leida,
			CreatedAt:    n.CreatedAt,
		}
	}
	return &dto.NotificacionListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *notificacionService) MarcarLeida(ctx context.Context, id uuid.UUID) error {
	err := s.repo.MarcarLeida(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNoEncontrado
	}
	return err
}

func (s *notificacionService) EvaluarAlertas(ctx context.Context, operacionID uuid.UUID) ([]model.Notificacion, error) {
	op, err := s.operaciones.FindByID(ctx, operacionID)
	if err != nil {
		return nil, fmt.Errorf("operacion %s: %w", operacionID, err)
	}

	var candidatas []model.Notificacion
	switch {
	case op.FuelCardID != nil:
		t, err := s.tarjetas.FindByID(ctx, *op.FuelCardID)
		if err != nil {
			return nil, fmt.Errorf("tarjeta %s: %w", *op.FuelCardID, err)
		}
		if t.Saldo.LessThan(s.umbrales.SaldoMinimo) {
			candidatas = append(candidatas, model.Notificacion{
				Tipo: NotifSaldoBajo,
				Mensaje: fmt.Sprintf("La tarjeta %s tiene saldo %s, por debajo del mínimo %s",
					t.Numero, t.Saldo.StringFixed(2), s.umbrales.SaldoMinimo.StringFixed(2)),
				ReferenciaID: &t.ID,
			})
		}
	case op.ReservorioID != nil:
		r, err := s.reservorios.FindByID(ctx, *op.ReservorioID)
		if err != nil {
			return nil, fmt.Errorf("reservorio %s: %w", *op.ReservorioID, err)
		}
		if pct, ok := porcentajeLlenado(r); ok && pct.LessThan(s.umbrales.PorcentajeMinimo) {
			candidatas = append(candidatas, model.Notificacion{
				Tipo:         NotifReservorioBajo,
				Mensaje:      fmt.Sprintf("El reservorio %s está al %s%% de su capacidad", r.Nombre, pct.StringFixed(1)),
				ReferenciaID: &r.ID,
			})
		}
	}

	var creadas []model.Notificacion
	for i := range candidatas {
		n := candidatas[i]
		existe, err := s.repo.ExisteNoLeida(ctx, n.Tipo, *n.ReferenciaID)
		if err != nil {
			return creadas, err
		}
		if existe {
			continue
		}
		if err := s.repo.Create(ctx, &n); err != nil {
			return creadas, err
		}
		creadas = append(creadas, n)
	}
	return creadas, nil
}

func porcentajeLlenado(r *model.Reservorio) (decimal.Decimal, bool) {
	if !r.CapacidadTotal.IsPositive() {
		return decimal.Zero, false
	}
	return r.CapacidadActual.Mul(decimal.NewFromInt(100)).Div(r.CapacidadTotal), true
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
