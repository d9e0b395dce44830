package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Tipos de combustible ────────────────────────────────────────────────────

type CrearTipoCombustibleRequest struct {
	Nombre string          `json:"nombre" validate:"required,min=2,max=60"`
	Precio decimal.Decimal `json:"precio" validate:"gt=0"`
}

type TipoCombustibleResponse struct {
	ID     string          `json:"id"`
	Nombre string          `json:"nombre"`
	Precio decimal.Decimal `json:"precio"`
}

// ─── Tarjetas ────────────────────────────────────────────────────────────────

type CrearTarjetaRequest struct {
	Numero            string          `json:"numero"             validate:"required,min=4,max=32"`
	Saldo             decimal.Decimal `json:"saldo"              validate:"min=0"`
	TipoCombustibleID string          `json:"tipoCombustible_id" validate:"required,uuid"`
	EsReservorio      bool            `json:"esReservorio"`
}

type TarjetaResponse struct {
	ID                string          `json:"id"`
	Numero            string          `json:"numero"`
	Saldo             decimal.Decimal `json:"saldo"`
	PrecioCombustible decimal.Decimal `json:"precioCombustible"`
	EsReservorio      bool            `json:"esReservorio"`
	TipoCombustibleID string          `json:"tipoCombustible_id"`
	Activo            bool            `json:"activo"`
	Version           int             `json:"version"`
}

// ─── Reservorios ─────────────────────────────────────────────────────────────

type CrearReservorioRequest struct {
	Nombre            string          `json:"nombre"             validate:"required,min=2,max=100"`
	CapacidadActual   decimal.Decimal `json:"capacidad_actual"   validate:"min=0"`
	CapacidadTotal    decimal.Decimal `json:"capacidad_total"    validate:"gt=0"`
	TipoCombustibleID string          `json:"tipoCombustible_id" validate:"required,uuid"`
}

type ReservorioResponse struct {
	ID              string                   `json:"id"`
	Nombre          string                   `json:"nombre"`
	CapacidadActual decimal.Decimal          `json:"capacidad_actual"`
	CapacidadTotal  decimal.Decimal          `json:"capacidad_total"`
	TipoCombustible *TipoCombustibleResponse `json:"tipoCombustible"`
	Version         int                      `json:"version"`
}

// ─── Vehículos ───────────────────────────────────────────────────────────────

type VehiculoResponse struct {
	ID        string `json:"id"`
	Matricula string `json:"matricula"`
	Marca     string `json:"marca"`
	Modelo    string `json:"modelo"`
	Activo    bool   `json:"activo"`
}

// ─── Notificaciones ──────────────────────────────────────────────────────────

type NotificacionFilter struct {
	// Leida: "true" | "false" | "" (all)
	Leida string `form:"leida" validate:"omitempty,oneof=true false"`
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type NotificacionResponse struct {
	ID           string    `json:"id"`
	Tipo         string    `json:"tipo"`
	Mensaje      string    `json:"mensaje"`
	ReferenciaID *string   `json:"referencia_id"`
	Leida        bool      `json:"leida"`
	CreatedAt    time.Time `json:"created_at"`
}

type NotificacionListResponse struct {
	Data  []NotificacionResponse `json:"data"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}

// ListaPaginada is the envelope used for simple paginated catalogs.
type ListaPaginada[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Paginacion is the query string of paginated catalog listings.
type Paginacion struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=20" validate:"min=1,max=100"`
}
