package handler_test

import (
	"context"
	"errors"

	"flota/internal/dto"
	"flota/internal/model"
	"flota/internal/repository"
	"flota/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Service stubs ─────────────────────────────────────────────────────────────

type stubOperacionSvc struct {
	recibido    *dto.OperacionCombustibleRequest
	filtro      dto.OperacionFilter
	err         error
	respuesta   *dto.OperacionCombustibleResponse
	comprobante string
}

var _ service.OperacionCombustibleService = (*stubOperacionSvc)(nil)

func (s *stubOperacionSvc) Registrar(_ context.Context, _ *uuid.UUID, req dto.OperacionCombustibleRequest) (*dto.OperacionCombustibleResponse, error) {
	s.recibido = &req
	if s.err != nil {
		return nil, s.err
	}
	return s.respuesta, nil
}

func (s *stubOperacionSvc) Calcular(_ context.Context, req dto.OperacionCombustibleRequest) (*dto.CalculoResponse, error) {
	s.recibido = &req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.CalculoResponse{Valido: true, Errores: map[string]string{}}, nil
}

func (s *stubOperacionSvc) ObtenerPorID(_ context.Context, id uuid.UUID) (*dto.OperacionCombustibleResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.OperacionCombustibleResponse{ID: id.String()}, nil
}

func (s *stubOperacionSvc) Listar(_ context.Context, filter dto.OperacionFilter) (*dto.OperacionListResponse, error) {
	s.filtro = filter
	if s.err != nil {
		return nil, s.err
	}
	return &dto.OperacionListResponse{Data: []dto.OperacionCombustibleResponse{}, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *stubOperacionSvc) Comprobante(context.Context, uuid.UUID) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.comprobante, nil
}

type stubTarjetaSvc struct{ creadas []dto.CrearTarjetaRequest }

var _ service.TarjetaService = (*stubTarjetaSvc)(nil)

func (s *stubTarjetaSvc) Crear(_ context.Context, req dto.CrearTarjetaRequest) (*dto.TarjetaResponse, error) {
	s.creadas = append(s.creadas, req)
	return &dto.TarjetaResponse{ID: uuid.NewString(), Numero: req.Numero, Saldo: req.Saldo, Activo: true, Version: 1}, nil
}

func (s *stubTarjetaSvc) ObtenerPorID(context.Context, uuid.UUID) (*dto.TarjetaResponse, error) {
	return nil, service.ErrNoEncontrado
}

func (s *stubTarjetaSvc) Listar(_ context.Context, page, limit int) (*dto.ListaPaginada[dto.TarjetaResponse], error) {
	return &dto.ListaPaginada[dto.TarjetaResponse]{Data: []dto.TarjetaResponse{}, Page: page, Limit: limit}, nil
}

type stubNotificacionSvc struct {
	leidas map[uuid.UUID]bool
	filtro dto.NotificacionFilter
}

var _ service.NotificacionService = (*stubNotificacionSvc)(nil)

func (s *stubNotificacionSvc) Listar(_ context.Context, filter dto.NotificacionFilter) (*dto.NotificacionListResponse, error) {
	s.filtro = filter
	return &dto.NotificacionListResponse{Data: []dto.NotificacionResponse{}, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *stubNotificacionSvc) MarcarLeida(_ context.Context, id uuid.UUID) error {
	if _, ok := s.leidas[id]; !ok {
		return service.ErrNoEncontrado
	}
	s.leidas[id] = true
	return nil
}

func (s *stubNotificacionSvc) EvaluarAlertas(context.Context, uuid.UUID) ([]model.Notificacion, error) {
	return nil, nil
}

// ── Repository stubs ──────────────────────────────────────────────────────────

type stubVehiculoRepo struct {
	vehiculos []model.Vehiculo
	err       error
}

var _ repository.VehiculoRepository = (*stubVehiculoRepo)(nil)

func (r *stubVehiculoRepo) List(context.Context) ([]model.Vehiculo, error) {
	return r.vehiculos, r.err
}

func (r *stubVehiculoRepo) CountActivosTx(*gorm.DB, []uuid.UUID) (int64, error) {
	return 0, errors.New("no usado")
}
