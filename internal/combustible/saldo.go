package combustible

import "github.com/shopspring/decimal"

// Storage scales. Card money keeps 2 decimals; liters, reservoir balances and
// every operation snapshot keep 4.
const (
	DecimalesDinero int32 = 2
	DecimalesLitros int32 = 4
)

var uno = decimal.NewFromInt(1)

// ExcedeDecimales reports whether d has significant digits beyond n decimals.
func ExcedeDecimales(d decimal.Decimal, n int32) bool {
	return !d.Equal(d.Round(n))
}

// CalcularSaldos derives the balance fields of an operation from the source's
// current balance. It is pure: callers invoke it again after every change to
// the source, the operation type or the money value.
//
// Reservoirs take valorDinero directly as liters. Cards convert with their
// unit price, which falls back to 1 when it is not positive, and round the
// liters to DecimalesLitros. With no source
// every field is zero; with an unknown type only SaldoInicio is set.
func CalcularSaldos(fuente Fuente, tipo TipoOperacion, valorDinero decimal.Decimal) Saldos {
	switch f := fuente.(type) {
	case Reservorio:
		return saldosReservorio(f, tipo, valorDinero)
	case Tarjeta:
		return saldosTarjeta(f, tipo, valorDinero)
	}
	return Saldos{}
}

func saldosReservorio(r Reservorio, tipo TipoOperacion, litros decimal.Decimal) Saldos {
	s := Saldos{SaldoInicio: r.CapacidadActual}
	switch tipo {
	case Carga:
		s.SaldoFinal = r.CapacidadActual.Add(litros)
	case Consumo:
		s.SaldoFinal = r.CapacidadActual.Sub(litros)
	default:
		return s
	}
	s.ValorLitros = litros
	s.SaldoFinalLitros = s.SaldoFinal
	return s
}

func saldosTarjeta(t Tarjeta, tipo TipoOperacion, dinero decimal.Decimal) Saldos {
	s := Saldos{SaldoInicio: t.Saldo}
	switch tipo {
	case Carga:
		s.SaldoFinal = t.Saldo.Add(dinero)
	case Consumo:
		precio := PrecioEfectivo(t.Precio)
		s.ValorLitros = dinero.Div(precio).Round(DecimalesLitros)
		s.SaldoFinal = t.Saldo.Sub(dinero)
		s.SaldoFinalLitros = s.SaldoFinal.Div(precio).Round(DecimalesLitros)
	}
	return s
}

// PrecioEfectivo returns the price used for money to liters conversion.
func PrecioEfectivo(precio decimal.Decimal) decimal.Decimal {
	if precio.Sign() <= 0 {
		return uno
	}
	return precio
}
