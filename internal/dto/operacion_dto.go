package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// DistribucionRequest is one destination of a Consumo: a vehicle or a reservoir.
type DistribucionRequest struct {
	VehicleID    *uuid.UUID      `json:"vehicleId"     validate:"excluded_with=ReservorioID"`
	ReservorioID *uuid.UUID      `json:"reservorio_id"`
	Liters       decimal.Decimal `json:"liters"`
}

// OperacionCombustibleRequest carries the form as entered. Required fields are
// checked by the fuel engine, not by tags, so every missing field is reported
// at once. Derived balances sent by the client are ignored.
type OperacionCombustibleRequest struct {
	TipoOperacion        string                `json:"tipoOperacion"        validate:"omitempty,oneof=Carga Consumo"`
	Fecha                *time.Time            `json:"fecha"`
	FuelCardID           *uuid.UUID            `json:"fuelCardId"           validate:"excluded_with=ReservorioID"`
	ReservorioID         *uuid.UUID            `json:"reservorioId"`
	ValorOperacionDinero *decimal.Decimal      `json:"valorOperacionDinero"`
	TipoCombustibleID    *uuid.UUID            `json:"tipoCombustible_id"`
	Descripcion          *string               `json:"descripcion"          validate:"omitempty,max=500"`
	UbicacionCupet       *string               `json:"ubicacion_cupet"      validate:"omitempty,max=200"`
	FuelDistributions    []DistribucionRequest `json:"fuelDistributions"    validate:"dive"`
	// Version of the source the client based its projection on. When present
	// and stale, the commit is rejected with 409.
	Version *int `json:"version"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type OperacionFilter struct {
	FuelCardID    string `form:"fuelCardId"    validate:"omitempty,uuid"`
	ReservorioID  string `form:"reservorioId"  validate:"omitempty,uuid"`
	TipoOperacion string `form:"tipoOperacion" validate:"omitempty,oneof=Carga Consumo"`
	Page          int    `form:"page,default=1"   validate:"min=1"`
	Limit         int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DistribucionResponse struct {
	ID           string          `json:"id"`
	VehicleID    *string         `json:"vehicleId"`
	ReservorioID *string         `json:"reservorio_id"`
	Liters       decimal.Decimal `json:"liters"`
}

type OperacionCombustibleResponse struct {
	ID                   string                 `json:"id"`
	TipoOperacion        string                 `json:"tipoOperacion"`
	Fecha                time.Time              `json:"fecha"`
	FuelCardID           *string                `json:"fuelCardId"`
	ReservorioID         *string                `json:"reservorioId"`
	ValorOperacionDinero decimal.Decimal        `json:"valorOperacionDinero"`
	SaldoInicio          decimal.Decimal        `json:"saldoInicio"`
	ValorOperacionLitros decimal.Decimal        `json:"valorOperacionLitros"`
	SaldoFinal           decimal.Decimal        `json:"saldoFinal"`
	SaldoFinalLitros     decimal.Decimal        `json:"saldoFinalLitros"`
	TipoCombustibleID    *string                `json:"tipoCombustible_id"`
	Descripcion          *string                `json:"descripcion"`
	UbicacionCupet       *string                `json:"ubicacion_cupet"`
	UsuarioID            *string                `json:"usuario_id"`
	FuelDistributions    []DistribucionResponse `json:"fuelDistributions"`
	CreatedAt            time.Time              `json:"created_at"`
}

type OperacionListResponse struct {
	Data       []OperacionCombustibleResponse `json:"data"`
	Total      int64                          `json:"total"`
	Page       int                            `json:"page"`
	Limit      int                            `json:"limit"`
	TotalPages int                            `json:"total_pages"`
}

// CalculoResponse is the preview of an operation: derived balances plus the
// field errors that would block the commit.
type CalculoResponse struct {
	SaldoInicio          decimal.Decimal   `json:"saldoInicio"`
	ValorOperacionLitros decimal.Decimal   `json:"valorOperacionLitros"`
	SaldoFinal           decimal.Decimal   `json:"saldoFinal"`
	SaldoFinalLitros     decimal.Decimal   `json:"saldoFinalLitros"`
	LitrosDistribuidos   decimal.Decimal   `json:"litrosDistribuidos"`
	Valido               bool              `json:"valido"`
	Errores              map[string]string `json:"errores"`
}
