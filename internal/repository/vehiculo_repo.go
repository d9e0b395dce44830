package repository

import (
	"context"

	"flota/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VehiculoRepository is read-only: vehicles are managed by the fleet registry.
type VehiculoRepository interface {
	List(ctx context.Context) ([]model.Vehiculo, error)
	CountActivosTx(tx *gorm.DB, ids []uuid.UUID) (int64, error)
}

type vehiculoRepo struct{ db *gorm.DB }

func NewVehiculoRepository(db *gorm.DB) VehiculoRepository { return &vehiculoRepo{db: db} }

func (r *vehiculoRepo) List(ctx context.Context) ([]model.Vehiculo, error) {
	var vehiculos []model.Vehiculo
	err := r.db.WithContext(ctx).Where("activo = ?", true).Order("matricula ASC").Find(&vehiculos).Error
	return vehiculos, err
}

func (r *vehiculoRepo) CountActivosTx(tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	var n int64
	err := tx.Model(&model.Vehiculo{}).Where("id IN ? AND activo = ?", ids, true).Count(&n).Error
	return n, err
}
