package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Reservorio is a bulk fuel tank tracked in liters.
type Reservorio struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Nombre            string          `gorm:"not null"`
	CapacidadActual   decimal.Decimal `gorm:"type:decimal(16,4);not null"`
	CapacidadTotal    decimal.Decimal `gorm:"type:decimal(16,4);not null"`
	TipoCombustibleID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Version           int             `gorm:"not null;default:1"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	TipoCombustible *TipoCombustible `gorm:"foreignKey:TipoCombustibleID"`
}

func (Reservorio) TableName() string { return "reservorios" }

func (r *Reservorio) BeforeCreate(*gorm.DB) error {
	asignarID(&r.ID)
	return nil
}
