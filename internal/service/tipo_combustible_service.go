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

type TipoCombustibleService interface {
	Crear(ctx context.Context, req dto.CrearTipoCombustibleRequest) (*dto.TipoCombustibleResponse, error)
	Listar(ctx context.Context) ([]dto.TipoCombustibleResponse, error)
}

type tipoCombustibleService struct {
	repo repository.TipoCombustibleRepository
}

func NewTipoCombustibleService(repo repository.TipoCombustibleRepository) TipoCombustibleService {
	return &tipoCombustibleService{repo: repo}
}

func (s *tipoCombustibleService) Crear(ctx context.Context, req dto.CrearTipoCombustibleRequest) (*dto.TipoCombustibleResponse, error) {
	if combustible.ExcedeDecimales(req.Precio, combustible.DecimalesLitros) {
		return nil, errorCampo("precio", "El precio admite como máximo 4 decimales")
	}
	t := &model.TipoCombustible{Nombre: req.Nombre, Precio: req.Precio}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return tipoToResponse(t), nil
}

func (s *tipoCombustibleService) Listar(ctx context.Context) ([]dto.TipoCombustibleResponse, error) {
	tipos, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TipoCombustibleResponse, len(tipos))
	for i := range tipos {
		resp[i] = *tipoToResponse(&tipos[i])
	}
	return resp, nil
}

func tipoToResponse(t *model.TipoCombustible) *dto.TipoCombustibleResponse {
	if t == nil {
		return nil
	}
	return &dto.TipoCombustibleResponse{ID: t.ID.String(), Nombre: t.Nombre, Precio: t.Precio}
}

// tipoExistente resolves a fuel type id sent as a string, reporting problems
// under campo.
func tipoExistente(ctx context.Context, repo repository.TipoCombustibleRepository, raw, campo string) (*model.TipoCombustible, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errorCampo(campo, "tipoCombustible_id inválido")
	}
	t, err := repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errorCampo(campo, "El tipo de combustible no existe")
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}
