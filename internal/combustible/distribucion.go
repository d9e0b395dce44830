package combustible

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Tolerancia is the absolute difference allowed between the distributed
// liters and the operation's liters. A difference of exactly Tolerancia is
// already a mismatch.
var Tolerancia = decimal.New(1, -2)

var (
	ErrSinDestinos        = errors.New("Debe agregar al menos un destino")
	ErrDestinoSinObjetivo = errors.New("Todos los destinos deben tener un vehículo o reservorio seleccionado")
	ErrLitrosNoPositivos  = errors.New("Todos los destinos deben tener una cantidad de litros mayor a 0")
)

// ErrorReconciliacion reports a distribution whose liters do not add up to
// the operation's liters.
type ErrorReconciliacion struct {
	Suma     decimal.Decimal
	Objetivo decimal.Decimal
}

func (e *ErrorReconciliacion) Error() string {
	return fmt.Sprintf("La suma de litros distribuidos (%s) no coincide con el total de la operación (%s)",
		e.Suma.StringFixed(2), e.Objetivo.StringFixed(2))
}

// SumarLitros adds the liters of every row.
func SumarLitros(filas []FilaDestino) decimal.Decimal {
	total := decimal.Zero
	for _, f := range filas {
		total = total.Add(f.Litros)
	}
	return total
}

// ValidarDestinos checks a distribution list against the operation's liters.
// Checks run in order: empty list, rows without a target, reconciliation and,
// when estricto is set, rows with non-positive liters.
func ValidarDestinos(filas []FilaDestino, objetivo decimal.Decimal, estricto bool) error {
	if len(filas) == 0 {
		return ErrSinDestinos
	}
	for _, f := range filas {
		if f.Destino == nil || !f.Destino.Seleccionado() {
			return ErrDestinoSinObjetivo
		}
	}

	suma := SumarLitros(filas)
	if !suma.Sub(objetivo).Abs().LessThan(Tolerancia) {
		return &ErrorReconciliacion{Suma: suma, Objetivo: objetivo}
	}

	if estricto {
		for _, f := range filas {
			if f.Litros.Sign() <= 0 {
				return ErrLitrosNoPositivos
			}
		}
	}
	return nil
}
