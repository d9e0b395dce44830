package repository

import (
	"context"

	"flota/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TipoCombustibleRepository interface {
	Create(ctx context.Context, t *model.TipoCombustible) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TipoCombustible, error)
	List(ctx context.Context) ([]model.TipoCombustible, error)
}

type tipoCombustibleRepo struct{ db *gorm.DB }

func NewTipoCombustibleRepository(db *gorm.DB) TipoCombustibleRepository {
	return &tipoCombustibleRepo{db: db}
}

func (r *tipoCombustibleRepo) Create(ctx context.Context, t *model.TipoCombustible) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tipoCombustibleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TipoCombustible, error) {
	var t model.TipoCombustible
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *tipoCombustibleRepo) List(ctx context.Context) ([]model.TipoCombustible, error) {
	var tipos []model.TipoCombustible
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&tipos).Error
	return tipos, err
}
