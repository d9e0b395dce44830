package service

import (
	"context"
	"errors"

	"flota/internal/combustible"
	"flota/internal/dto"
	"flota/internal/model"
	"flota/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservorioService interface {
	Crear(ctx context.Context, req dto.CrearReservorioRequest) (*dto.ReservorioResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ReservorioResponse, error)
	Listar(ctx context.Context, page, limit int) (*dto.ListaPaginada[dto.ReservorioResponse], error)
}

type reservorioService struct {
	repo  repository.ReservorioRepository
	tipos repository.TipoCombustibleRepository
}

func NewReservorioService(repo repository.ReservorioRepository, tipos repository.TipoCombustibleRepository) ReservorioService {
	return &reservorioService{repo: repo, tipos: tipos}
}

func (s *reservorioService) Crear(ctx context.Context, req dto.CrearReservorioRequest) (*dto.ReservorioResponse, error) {
	if combustible.ExcedeDecimales(req.CapacidadActual, combustible.DecimalesLitros) {
		return nil, errorCampo("capacidad_actual", "La capacidad admite como máximo 4 decimales")
	}
	if combustible.ExcedeDecimales(req.CapacidadTotal, combustible.DecimalesLitros) {
		return nil, errorCampo("capacidad_total", "La capacidad admite como máximo 4 decimales")
	}
	if req.CapacidadActual.GreaterThan(req.CapacidadTotal) {
		return nil, errorCampo("capacidad_actual", "La capacidad actual no puede superar la capacidad total")
	}
	tipo, err := tipoExistente(ctx, s.tipos, req.TipoCombustibleID, "tipoCombustible_id")
	if err != nil {
		return nil, err
	}
	r := &model.Reservorio{
		Nombre:            req.Nombre,
		CapacidadActual:   req.CapacidadActual,
		CapacidadTotal:    req.CapacidadTotal,
		TipoCombustibleID: tipo.ID,
		Version:           1,
		TipoCombustible:   tipo,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return reservorioToResponse(r), nil
}

func (s *reservorioService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ReservorioResponse, error) {
	r, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return reservorioToResponse(r), nil
}

func (s *reservorioService) Listar(ctx context.Context, page, limit int) (*dto.ListaPaginada[dto.ReservorioResponse], error) {
	reservorios, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ReservorioResponse, len(reservorios))
	for i := range reservorios {
		data[i] = *reservorioToResponse(&reservorios[i])
	}
	return &dto.ListaPaginada[dto.ReservorioResponse]{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func reservorioToResponse(r *model.Reservorio) *dto.ReservorioResponse {
	return &dto.ReservorioResponse{
		ID:              r.ID.String(),
		Nombre:          r.Nombre,
		CapacidadActual: r.CapacidadActual,
		CapacidadTotal:  r.CapacidadTotal,
		TipoCombustible: tipoToResponse(r.TipoCombustible),
		Version:         r.Version,
	}
}
