package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TipoCombustible is a fuel grade. Precio is the money-per-liter factor used
// to convert card consumption into liters.
type TipoCombustible struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Nombre    string          `gorm:"uniqueIndex;not null"`
	Precio    decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TipoCombustible) TableName() string { return "tipos_combustible" }

func (t *TipoCombustible) BeforeCreate(*gorm.DB) error {
	asignarID(&t.ID)
	return nil
}
