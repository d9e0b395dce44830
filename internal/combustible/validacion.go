package combustible

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Field keys of the error map. They match the JSON names of the operation.
const (
	CampoTipoOperacion     = "tipoOperacion"
	CampoFecha             = "fecha"
	CampoTarjeta           = "fuelCardId"
	CampoReservorio        = "reservorioId"
	CampoValorDinero       = "valorOperacionDinero"
	CampoTipoCombustible   = "tipoCombustible_id"
	CampoDestinos          = "destinationVehicles"
	CampoReservorioDestino = "reservorioDestination"
)

// ErroresCampo maps a field name to its error message.
type ErroresCampo map[string]string

// Valido reports whether no field has an error.
func (e ErroresCampo) Valido() bool { return len(e) == 0 }

// EntradaOperacion is everything the user entered for one operation.
// OrigenReservorio is the card/reservoir toggle; it decides which field
// carries the "required" error while no source is selected.
type EntradaOperacion struct {
	Tipo              TipoOperacion
	Fecha             time.Time
	OrigenReservorio  bool
	Fuente            Fuente
	ValorDinero       decimal.NullDecimal
	TipoCombustibleID uuid.NullUUID
	Descripcion       string
	UbicacionCupet    string
	Destinos          []FilaDestino
}

// CampoFuente returns the field key that identifies the source.
func (in EntradaOperacion) CampoFuente() string {
	if in.OrigenReservorio {
		return CampoReservorio
	}
	return CampoTarjeta
}

// ValidarOperacion runs every field and cross-field rule and collects the
// failures. Distribution rules apply only to Consumo.
func ValidarOperacion(in EntradaOperacion, saldos Saldos, estricto bool) ErroresCampo {
	errs := ErroresCampo{}

	if !in.Tipo.Valido() {
		errs[CampoTipoOperacion] = "El tipo de operación es requerido"
	}
	if in.Fecha.IsZero() {
		errs[CampoFecha] = "La fecha es requerida"
	}
	if in.Fuente == nil {
		if in.OrigenReservorio {
			errs[CampoReservorio] = "El reservorio es requerido"
		} else {
			errs[CampoTarjeta] = "La tarjeta de combustible es requerida"
		}
	}

	switch {
	case !in.ValorDinero.Valid:
		errs[CampoValorDinero] = "El valor de la operación es requerido"
	case in.ValorDinero.Decimal.Sign() <= 0:
		errs[CampoValorDinero] = "El valor de la operación debe ser mayor a 0"
	case ExcedeDecimales(in.ValorDinero.Decimal, in.decimalesValor()):
		errs[CampoValorDinero] = fmt.Sprintf("El valor de la operación admite como máximo %d decimales", in.decimalesValor())
	}

	if in.Tipo != Consumo {
		return errs
	}

	if !in.TipoCombustibleID.Valid || in.TipoCombustibleID.UUID == uuid.Nil {
		errs[CampoTipoCombustible] = "El tipo de combustible es requerido"
	}
	if err := ValidarDestinos(in.Destinos, saldos.ValorLitros, estricto); err != nil {
		errs[CampoDestinos] = err.Error()
	} else if litrosFueraDeEscala(in.Destinos) {
		errs[CampoDestinos] = fmt.Sprintf("Los litros de cada destino admiten como máximo %d decimales", DecimalesLitros)
	}
	if msg := validarEstructura(in); msg != "" {
		errs[CampoReservorioDestino] = msg
	}
	return errs
}

// decimalesValor is the scale of valorOperacionDinero: money for cards,
// liters for reservoirs.
func (in EntradaOperacion) decimalesValor() int32 {
	switch in.Fuente.(type) {
	case Tarjeta:
		return DecimalesDinero
	case Reservorio:
		return DecimalesLitros
	}
	if in.OrigenReservorio {
		return DecimalesLitros
	}
	return DecimalesDinero
}

func litrosFueraDeEscala(filas []FilaDestino) bool {
	for _, f := range filas {
		if ExcedeDecimales(f.Litros, DecimalesLitros) {
			return true
		}
	}
	return false
}

func validarEstructura(in EntradaOperacion) string {
	switch f := in.Fuente.(type) {
	case Tarjeta:
		if f.EsReservorio && len(in.Destinos) > 1 {
			return ErrDestinoUnico.Error()
		}
	case Reservorio:
		for _, d := range in.Destinos {
			if dr, ok := d.Destino.(DestinoReservorio); ok && dr.ReservorioID == f.ID {
				return "El reservorio destino no puede ser el mismo que el de origen"
			}
		}
	}
	return ""
}
