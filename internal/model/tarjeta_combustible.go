package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TarjetaCombustible is a money-denominated fuel card.
// EsReservorio marks cards that only refill one reservoir per consumption.
type TarjetaCombustible struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Numero            string          `gorm:"uniqueIndex;not null"`
	Saldo             decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TipoCombustibleID uuid.UUID       `gorm:"type:uuid;not null;index"`
	EsReservorio      bool            `gorm:"not null;default:false"`
	Activo            bool            `gorm:"not null;default:true"`
	// Version increases on every balance write; commits update WHERE version = read version
	Version   int `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time

	TipoCombustible *TipoCombustible `gorm:"foreignKey:TipoCombustibleID"`
}

func (TarjetaCombustible) TableName() string { return "tarjetas_combustible" }

func (t *TarjetaCombustible) BeforeCreate(*gorm.DB) error {
	asignarID(&t.ID)
	return nil
}

// Precio returns the price of the card's fuel type, zero when not loaded.
func (t *TarjetaCombustible) Precio() decimal.Decimal {
	if t.TipoCombustible == nil {
		return decimal.Zero
	}
	return t.TipoCombustible.Precio
}
