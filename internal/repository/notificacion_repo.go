package repository

import (
	"context"

	"flota/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificacionRepository interface {
	Create(ctx context.Context, n *model.Notificacion) error
	// List filters by read state when leida is non-nil.
	List(ctx context.Context, leida *bool, page, limit int) ([]model.Notificacion, int64, error)
	MarcarLeida(ctx context.Context, id uuid.UUID) error
	ExisteNoLeida(ctx context.Context, tipo string, referenciaID uuid.UUID) (bool, error)
}

type notificacionRepo struct{ db *gorm.DB }

func NewNotificacionRepository(db *gorm.DB) NotificacionRepository {
	return &notificacionRepo{db: db}
}

func (r *notificacionRepo) Create(ctx context.Context, n *model.Notificacion) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificacionRepo) List(ctx context.Context, leida *bool, page, limit int) ([]model.Notificacion, int64, error) {
	var notifs []model.Notificacion
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Notificacion{})
	if leida != nil {
		q = q.Where("leida = ?", *leida)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&notifs).Error
	return notifs, total, err
}

func (r *notificacionRepo) MarcarLeida(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Notificacion{}).Where("id = ?", id).Update("leida", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificacionRepo) ExisteNoLeida(ctx context.Context, tipo string, referenciaID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Notificacion{}).
		Where("tipo = ? AND referencia_id = ? AND leida = ?", tipo, referenciaID, false).
		Count(&n).Error
	return n > 0, err
}
