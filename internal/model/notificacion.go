package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notificacion is an entry of the back-office notification feed.
// Tipo: "saldo_bajo" | "reservorio_bajo"
type Notificacion struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Tipo         string     `gorm:"type:varchar(30);not null"`
	Mensaje      string     `gorm:"not null"`
	ReferenciaID *uuid.UUID `gorm:"type:uuid;index"`
	Leida        bool       `gorm:"not null;default:false"`
	CreatedAt    time.Time
}

func (Notificacion) TableName() string { return "notificaciones" }

func (n *Notificacion) BeforeCreate(*gorm.DB) error {
	asignarID(&n.ID)
	return nil
}
