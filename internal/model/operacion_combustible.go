package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OperacionCombustible is an immutable record of a fuel movement.
// TipoOperacion: "Carga" | "Consumo"
// Exactly one of FuelCardID / ReservorioID is set. For reservoir sources
// ValorOperacionDinero holds liters. Balances are snapshots taken at commit.
type OperacionCombustible struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TipoOperacion        string          `gorm:"type:varchar(10);not null"`
	Fecha                time.Time       `gorm:"not null;index"`
	FuelCardID           *uuid.UUID      `gorm:"type:uuid;index"`
	ReservorioID         *uuid.UUID      `gorm:"type:uuid;index"`
	ValorOperacionDinero decimal.Decimal `gorm:"type:decimal(16,4);not null"`
	SaldoInicio          decimal.Decimal `gorm:"type:decimal(16,4);not null"`
	ValorOperacionLitros decimal.Decimal `gorm:"type:decimal(16,4);not null"`
	SaldoFinal           decimal.Decimal `gorm:"type:decimal(16,4);not null"`
	SaldoFinalLitros     decimal.Decimal `gorm:"type:decimal(16,4);not null"`
	TipoCombustibleID    *uuid.UUID      `gorm:"type:uuid"`
	Descripcion          *string
	UbicacionCupet       *string
	UsuarioID            *uuid.UUID `gorm:"type:uuid"`
	CreatedAt            time.Time

	Distribuciones []DistribucionCombustible `gorm:"foreignKey:OperacionID"`
}

func (OperacionCombustible) TableName() string { return "operaciones_combustible" }

func (o *OperacionCombustible) BeforeCreate(*gorm.DB) error {
	asignarID(&o.ID)
	return nil
}

// DistribucionCombustible allocates part of a Consumo to one destination.
// Exactly one of VehiculoID / ReservorioID is set.
type DistribucionCombustible struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OperacionID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	VehiculoID   *uuid.UUID      `gorm:"type:uuid;index"`
	ReservorioID *uuid.UUID      `gorm:"type:uuid;index"`
	Litros       decimal.Decimal `gorm:"type:decimal(16,4);not null"`
	CreatedAt    time.Time
}

func (DistribucionCombustible) TableName() string { return "distribuciones_combustible" }

func (d *DistribucionCombustible) BeforeCreate(*gorm.DB) error {
	asignarID(&d.ID)
	return nil
}
