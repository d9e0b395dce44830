package repository

import (
	"context"

	"flota/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TarjetaRepository defines the data access contract for fuel cards.
type TarjetaRepository interface {
	Create(ctx context.Context, t *model.TarjetaCombustible) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TarjetaCombustible, error)
	List(ctx context.Context, page, limit int) ([]model.TarjetaCombustible, int64, error)

	// Used inside transactions; callers pass the tx instance
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.TarjetaCombustible, error)
	// UpdateSaldoTx writes saldo only when the row is still at version and
	// bumps the version. Returns ErrConflictoVersion otherwise.
	UpdateSaldoTx(tx *gorm.DB, id uuid.UUID, version int, saldo decimal.Decimal) error

	DB() *gorm.DB
}

type tarjetaRepo struct{ db *gorm.DB }

func NewTarjetaRepository(db *gorm.DB) TarjetaRepository { return &tarjetaRepo{db: db} }

func (r *tarjetaRepo) DB() *gorm.DB { return r.db }

func (r *tarjetaRepo) Create(ctx context.Context, t *model.TarjetaCombustible) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tarjetaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TarjetaCombustible, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *tarjetaRepo) List(ctx context.Context, page, limit int) ([]model.TarjetaCombustible, int64, error) {
	var tarjetas []model.TarjetaCombustible
	var total int64

	q := r.db.WithContext(ctx).Model(&model.TarjetaCombustible{}).Where("activo = ?", true)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("TipoCombustible").
		Order("numero ASC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&tarjetas).Error
	return tarjetas, total, err
}

func (r *tarjetaRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.TarjetaCombustible, error) {
	var t model.TarjetaCombustible
	err := tx.Preload("TipoCombustible").First(&t, "id = ?", id).Error
	return &t, err
}

func (r *tarjetaRepo) UpdateSaldoTx(tx *gorm.DB, id uuid.UUID, version int, saldo decimal.Decimal) error {
	res := tx.Model(&model.TarjetaCombustible{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"saldo":   saldo,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflictoVersion
	}
	return nil
}
