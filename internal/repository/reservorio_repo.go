package repository

import (
	"context"

	"flota/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReservorioRepository interface {
	Create(ctx context.Context, r *model.Reservorio) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Reservorio, error)
	List(ctx context.Context, page, limit int) ([]model.Reservorio, int64, error)

	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Reservorio, error)
	// UpdateCapacidadTx sets capacidad_actual on a source reservoir, guarded by version.
	UpdateCapacidadTx(tx *gorm.DB, id uuid.UUID, version int, capacidad decimal.Decimal) error
	// SumarCapacidadTx adds liters to a destination reservoir.
	SumarCapacidadTx(tx *gorm.DB, id uuid.UUID, litros decimal.Decimal) error
	CountByIDsTx(tx *gorm.DB, ids []uuid.UUID) (int64, error)

	DB() *gorm.DB
}

type reservorioRepo struct{ db *gorm.DB }

func NewReservorioRepository(db *gorm.DB) ReservorioRepository { return &reservorioRepo{db: db} }

func (r *reservorioRepo) DB() *gorm.DB { return r.db }

func (r *reservorioRepo) Create(ctx context.Context, res *model.Reservorio) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *reservorioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Reservorio, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *reservorioRepo) List(ctx context.Context, page, limit int) ([]model.Reservorio, int64, error) {
	var reservorios []model.Reservorio
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Reservorio{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("TipoCombustible").
		Order("nombre ASC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&reservorios).Error
	return reservorios, total, err
}

func (r *reservorioRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Reservorio, error) {
	var res model.Reservorio
	err := tx.Preload("TipoCombustible").First(&res, "id = ?", id).Error
	return &res, err
}

func (r *reservorioRepo) UpdateCapacidadTx(tx *gorm.DB, id uuid.UUID, version int, capacidad decimal.Decimal) error {
	res := tx.Model(&model.Reservorio{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"capacidad_actual": capacidad,
			"version":          gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflictoVersion
	}
	return nil
}

func (r *reservorioRepo) SumarCapacidadTx(tx *gorm.DB, id uuid.UUID, litros decimal.Decimal) error {
	res := tx.Model(&model.Reservorio{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"capacidad_actual": gorm.Expr("capacidad_actual + ?", litros),
			"version":          gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reservorioRepo) CountByIDsTx(tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	var n int64
	err := tx.Model(&model.Reservorio{}).Where("id IN ?", ids).Count(&n).Error
	return n, err
}
