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

type TarjetaService interface {
	Crear(ctx context.Context, req dto.CrearTarjetaRequest) (*dto.TarjetaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.TarjetaResponse, error)
	Listar(ctx context.Context, page, limit int) (*dto.ListaPaginada[dto.TarjetaResponse], error)
}

type tarjetaService struct {
	repo  repository.TarjetaRepository
	tipos repository.TipoCombustibleRepository
}

func NewTarjetaService(repo repository.TarjetaRepository, tipos repository.TipoCombustibleRepository) TarjetaService {
	return &tarjetaService{repo: repo, tipos: tipos}
}

func (s *tarjetaService) Crear(ctx context.Context, req dto.CrearTarjetaRequest) (*dto.TarjetaResponse, error) {
	if combustible.ExcedeDecimales(req.Saldo, combustible.DecimalesDinero) {
		return nil, errorCampo("saldo", "El saldo admite como máximo 2 decimales")
	}
	tipo, err := tipoExistente(ctx, s.tipos, req.TipoCombustibleID, "tipoCombustible_id")
	if err != nil {
		return nil, err
	}
	t := &model.TarjetaCombustible{
		Numero:            req.Numero,
		Saldo:             req.Saldo,
		TipoCombustibleID: tipo.ID,
		EsReservorio:      req.EsReservorio,
		Activo:            true,
		Version:           1,
		TipoCombustible:   tipo,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return tarjetaToResponse(t), nil
}

func (s *tarjetaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.TarjetaResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return tarjetaToResponse(t), nil
}

func (s *tarjetaService) Listar(ctx context.Context, page, limit int) (*dto.ListaPaginada[dto.TarjetaResponse], error) {
	tarjetas, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.TarjetaResponse, len(tarjetas))
	for i := range tarjetas {
		data[i] = *tarjetaToResponse(&tarjetas[i])
	}
	return &dto.ListaPaginada[dto.TarjetaResponse]{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func tarjetaToResponse(t *model.TarjetaCombustible) *dto.TarjetaResponse {
	return &dto.TarjetaResponse{
		ID:                t.ID.String(),
		Numero:            t.Numero,
		Saldo:             t.Saldo,
		PrecioCombustible: t.Precio(),
		EsReservorio:      t.EsReservorio,
		TipoCombustibleID: t.TipoCombustibleID.String(),
		Activo:            t.Activo,
		Version:           t.Version,
	}
}
