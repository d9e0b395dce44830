// Package combustible holds the fuel balance and distribution rules shared by
// the operation form and the endpoint that commits operations.
//
// Nothing in this package performs I/O. Quantities are decimals: money for
// cards, liters for reservoirs.
package combustible

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TipoOperacion: "Carga" | "Consumo"
type TipoOperacion string

const (
	Carga   TipoOperacion = "Carga"
	Consumo TipoOperacion = "Consumo"
)

func (t TipoOperacion) Valido() bool {
	return t == Carga || t == Consumo
}

// Fuente is the source of an operation: a Tarjeta or a Reservorio.
// A nil Fuente means no source has been selected yet.
type Fuente interface {
	FuenteID() uuid.UUID
	esFuente()
}

// Tarjeta is a money-denominated fuel card. Precio converts money to liters.
// EsReservorio marks cards that feed a single reservoir and therefore accept
// only one destination per consumption.
type Tarjeta struct {
	ID           uuid.UUID
	Saldo        decimal.Decimal
	Precio       decimal.Decimal
	EsReservorio bool
}

// Reservorio is a bulk tank tracked by volume.
type Reservorio struct {
	ID              uuid.UUID
	CapacidadActual decimal.Decimal
}

func (t Tarjeta) FuenteID() uuid.UUID    { return t.ID }
func (r Reservorio) FuenteID() uuid.UUID { return r.ID }

func (Tarjeta) esFuente()    {}
func (Reservorio) esFuente() {}

// TipoDestino: "vehiculo" | "reservorio"
type TipoDestino string

const (
	DestinoTipoVehiculo   TipoDestino = "vehiculo"
	DestinoTipoReservorio TipoDestino = "reservorio"
)

// Destino is the target of one distribution row.
type Destino interface {
	Tipo() TipoDestino
	ObjetivoID() uuid.UUID
	// Seleccionado reports whether a concrete vehicle or reservoir was chosen.
	Seleccionado() bool
	esDestino()
}

type DestinoVehiculo struct{ VehiculoID uuid.UUID }

type DestinoReservorio struct{ ReservorioID uuid.UUID }

func (DestinoVehiculo) Tipo() TipoDestino   { return DestinoTipoVehiculo }
func (DestinoReservorio) Tipo() TipoDestino { return DestinoTipoReservorio }

func (d DestinoVehiculo) ObjetivoID() uuid.UUID   { return d.VehiculoID }
func (d DestinoReservorio) ObjetivoID() uuid.UUID { return d.ReservorioID }

func (d DestinoVehiculo) Seleccionado() bool   { return d.VehiculoID != uuid.Nil }
func (d DestinoReservorio) Seleccionado() bool { return d.ReservorioID != uuid.Nil }

func (DestinoVehiculo) esDestino()   {}
func (DestinoReservorio) esDestino() {}

// NuevoDestino returns an unselected destination of the given kind.
func NuevoDestino(tipo TipoDestino) (Destino, bool) {
	switch tipo {
	case DestinoTipoVehiculo:
		return DestinoVehiculo{}, true
	case DestinoTipoReservorio:
		return DestinoReservorio{}, true
	}
	return nil, false
}

// FilaDestino is one row of a consumption's distribution list.
// ID is assigned by the owning Formulario and never reused.
type FilaDestino struct {
	ID      int
	Destino Destino
	Litros  decimal.Decimal
}

// Saldos are the four derived balance fields of an operation.
type Saldos struct {
	SaldoInicio      decimal.Decimal
	ValorLitros      decimal.Decimal
	SaldoFinal       decimal.Decimal
	SaldoFinalLitros decimal.Decimal
}
