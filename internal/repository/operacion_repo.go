package repository

import (
	"context"

	"flota/internal/dto"
	"flota/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OperacionRepository interface {
	// CreateTx inserts the operation together with its distributions.
	CreateTx(tx *gorm.DB, op *model.OperacionCombustible) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.OperacionCombustible, error)
	List(ctx context.Context, filter dto.OperacionFilter) ([]model.OperacionCombustible, int64, error)
	DB() *gorm.DB
}

type operacionRepo struct{ db *gorm.DB }

func NewOperacionRepository(db *gorm.DB) OperacionRepository { return &operacionRepo{db: db} }

func (r *operacionRepo) DB() *gorm.DB { return r.db }

func (r *operacionRepo) CreateTx(tx *gorm.DB, op *model.OperacionCombustible) error {
	return tx.Create(op).Error
}

func (r *operacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.OperacionCombustible, error) {
	var op model.OperacionCombustible
	err := r.db.WithContext(ctx).Preload("Distribuciones").First(&op, "id = ?", id).Error
	return &op, err
}

func (r *operacionRepo) List(ctx context.Context, filter dto.OperacionFilter) ([]model.OperacionCombustible, int64, error) {
	var ops []model.OperacionCombustible
	var total int64

	q := r.db.WithContext(ctx).Model(&model.OperacionCombustible{})
	if filter.FuelCardID != "" {
		q = q.Where("fuel_card_id = ?", filter.FuelCardID)
	}
	if filter.ReservorioID != "" {
		q = q.Where("reservorio_id = ?", filter.ReservorioID)
	}
	if filter.TipoOperacion != "" {
		q = q.Where("tipo_operacion = ?", filter.TipoOperacion)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Distribuciones").
		Order("fecha DESC, created_at DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&ops).Error
	return ops, total, err
}
