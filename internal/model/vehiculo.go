package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vehiculo is a fleet vehicle. Only read here, as a distribution target.
type Vehiculo struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Matricula         string     `gorm:"uniqueIndex;not null"`
	Marca             string     `gorm:"not null"`
	Modelo            string     `gorm:"not null"`
	TipoCombustibleID *uuid.UUID `gorm:"type:uuid"`
	Activo            bool       `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (v *Vehiculo) BeforeCreate(*gorm.DB) error {
	asignarID(&v.ID)
	return nil
}
