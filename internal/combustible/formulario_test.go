package combustible_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"flota/internal/combustible"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formularioConsumo(t *testing.T, fuente combustible.Fuente, dinero string) *combustible.Formulario {
	t.Helper()
	f := combustible.NuevoFormulario(true)
	f.SeleccionarFuente(fuente)
	f.CambiarTipo(combustible.Consumo)
	f.CambiarFecha(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	f.CambiarValorDinero(valor(dinero))
	f.CambiarTipoCombustible(uuid.NullUUID{UUID: uuid.New(), Valid: true})
	return f
}

func agregarVehiculo(t *testing.T, f *combustible.Formulario, litros string) int {
	t.Helper()
	id, err := f.AgregarDestino(combustible.DestinoTipoVehiculo)
	require.NoError(t, err)
	require.NoError(t, f.SeleccionarObjetivo(id, uuid.New()))
	require.NoError(t, f.AsignarLitros(id, dec(litros)))
	return id
}

// ── Recálculo ─────────────────────────────────────────────────────────────────

func TestFormulario_RecalculaEnCadaCambio(t *testing.T) {
	f := combustible.NuevoFormulario(true)
	assert.True(t, f.Saldos().SaldoFinal.IsZero())

	f.SeleccionarFuente(tarjeta("100", "2"))
	f.CambiarTipo(combustible.Consumo)
	f.CambiarValorDinero(valor("20"))
	s := f.Saldos()
	assertDec(t, "10", s.ValorLitros)
	assertDec(t, "80", s.SaldoFinal)
	assertDec(t, "40", s.SaldoFinalLitros)

	f.CambiarTipo(combustible.Carga)
	s = f.Saldos()
	assertDec(t, "0", s.ValorLitros)
	assertDec(t, "120", s.SaldoFinal)

	f.SeleccionarFuente(nil)
	assert.True(t, f.Saldos().SaldoInicio.IsZero())
}

func TestFormulario_CambiarOrigenLimpiaFuente(t *testing.T) {
	f := combustible.NuevoFormulario(true)
	f.SeleccionarFuente(tarjeta("100", "2"))
	f.UsarReservorio(true)

	in := f.Entrada()
	assert.Nil(t, in.Fuente)
	assert.True(t, in.OrigenReservorio)

	f.SeleccionarFuente(reservorio("10"))
	assert.True(t, f.Entrada().OrigenReservorio)
	f.SeleccionarFuente(tarjeta("1", "1"))
	assert.False(t, f.Entrada().OrigenReservorio)
}

// ── Filas ─────────────────────────────────────────────────────────────────────

func TestFormulario_IDsEstables(t *testing.T) {
	f := formularioConsumo(t, reservorio("500"), "120")

	a, _ := f.AgregarDestino(combustible.DestinoTipoVehiculo)
	b, _ := f.AgregarDestino(combustible.DestinoTipoReservorio)
	c, _ := f.AgregarDestino(combustible.DestinoTipoVehiculo)
	assert.Equal(t, []int{1, 2, 3}, []int{a, b, c})

	require.NoError(t, f.QuitarDestino(b))
	d, err := f.AgregarDestino(combustible.DestinoTipoVehiculo)
	require.NoError(t, err)
	assert.Equal(t, 4, d)

	filas := f.Destinos()
	require.Len(t, filas, 3)
	assert.Equal(t, 1, filas[0].ID)
	assert.Equal(t, 3, filas[1].ID)
	assert.Equal(t, 4, filas[2].ID)
	for _, fila := range filas {
		assert.True(t, fila.Litros.IsZero())
		assert.False(t, fila.Destino.Seleccionado())
	}
}

func TestFormulario_ActualizarDestinoDesdeTexto(t *testing.T) {
	f := formularioConsumo(t, reservorio("500"), "120")
	id, err := f.AgregarDestino(combustible.DestinoTipoVehiculo)
	require.NoError(t, err)

	vehiculo := uuid.New()
	require.NoError(t, f.ActualizarDestino(id, "vehicleId", vehiculo.String()))
	require.NoError(t, f.ActualizarDestino(id, "litros", " 12.5 "))
	fila := f.Destinos()[0]
	assert.Equal(t, combustible.DestinoVehiculo{VehiculoID: vehiculo}, fila.Destino)
	assertDec(t, "12.5", fila.Litros)

	require.NoError(t, f.ActualizarDestino(id, "litros", "doce"))
	assert.True(t, f.Destinos()[0].Litros.IsZero())

	for texto, want := range map[string]string{"12.5L": "12.5", "40 litros": "40", ".75": "0.75", "8.": "8", "-3x": "-3"} {
		require.NoError(t, f.ActualizarDestino(id, "litros", texto))
		assertDec(t, want, f.Destinos()[0].Litros)
	}
	require.NoError(t, f.ActualizarDestino(id, "litros", "L12"))
	assert.True(t, f.Destinos()[0].Litros.IsZero())

	require.NoError(t, f.ActualizarDestino(id, "reservorio_id", "no-es-un-id"))
	fila = f.Destinos()[0]
	assert.Equal(t, combustible.DestinoTipoReservorio, fila.Destino.Tipo())
	assert.False(t, fila.Destino.Seleccionado())

	assert.ErrorIs(t, f.ActualizarDestino(id, "color", "rojo"), combustible.ErrCampoDesconocido)
	assert.ErrorIs(t, f.ActualizarDestino(99, "litros", "1"), combustible.ErrFilaNoEncontrada)
	assert.ErrorIs(t, f.QuitarDestino(99), combustible.ErrFilaNoEncontrada)
	_, err = f.AgregarDestino("camion")
	assert.ErrorIs(t, err, combustible.ErrTipoDestinoInvalido)
}

func TestFormulario_TarjetaReservorioRechazaSegundoDestino(t *testing.T) {
	card := tarjeta("100", "1")
	card.EsReservorio = true
	f := formularioConsumo(t, card, "20")

	_, err := f.AgregarDestino(combustible.DestinoTipoReservorio)
	require.NoError(t, err)
	_, err = f.AgregarDestino(combustible.DestinoTipoVehiculo)
	assert.ErrorIs(t, err, combustible.ErrDestinoUnico)
	assert.Len(t, f.Destinos(), 1)
}

func TestFormulario_RevalidaAlQuitar(t *testing.T) {
	f := formularioConsumo(t, reservorio("500"), "120")
	agregarVehiculo(t, f, "70")
	assert.Error(t, f.ErrorDestinos())

	b := agregarVehiculo(t, f, "50")
	assert.NoError(t, f.ErrorDestinos())

	require.NoError(t, f.QuitarDestino(b))
	var rec *combustible.ErrorReconciliacion
	assert.True(t, errors.As(f.ErrorDestinos(), &rec))
}

// ── Envío ─────────────────────────────────────────────────────────────────────

func TestFormulario_EnvioInvalidoNoLlamaCommit(t *testing.T) {
	f := combustible.NuevoFormulario(true)
	llamado := false

	err := f.Enviar(context.Background(), func(context.Context, combustible.EntradaOperacion, combustible.Saldos) error {
		llamado = true
		return nil
	})

	var verr *combustible.ErrorValidacion
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Campos, combustible.CampoTipoOperacion)
	assert.False(t, llamado)
	assert.Equal(t, combustible.EstadoInvalido, f.Estado())
}

func TestFormulario_EnvioValido(t *testing.T) {
	f := formularioConsumo(t, reservorio("500"), "120")
	agregarVehiculo(t, f, "70")
	agregarVehiculo(t, f, "50")

	assert.True(t, f.Validar().Valido())
	assert.Equal(t, combustible.EstadoValido, f.Estado())

	var recibido combustible.EntradaOperacion
	var saldos combustible.Saldos
	err := f.Enviar(context.Background(), func(_ context.Context, in combustible.EntradaOperacion, s combustible.Saldos) error {
		recibido, saldos = in, s
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, combustible.EstadoConfirmado, f.Estado())
	assert.Len(t, recibido.Destinos, 2)
	assertDec(t, "380", saldos.SaldoFinal)
}

func TestFormulario_FalloPermiteReenviar(t *testing.T) {
	f := formularioConsumo(t, reservorio("500"), "120")
	agregarVehiculo(t, f, "120")

	errStore := errors.New("store caido")
	err := f.Enviar(context.Background(), func(context.Context, combustible.EntradaOperacion, combustible.Saldos) error {
		return errStore
	})
	assert.ErrorIs(t, err, errStore)
	assert.Equal(t, combustible.EstadoFallido, f.Estado())
	assert.ErrorIs(t, f.ErrorEnvio(), errStore)
	assert.Len(t, f.Destinos(), 1)

	err = f.Enviar(context.Background(), func(context.Context, combustible.EntradaOperacion, combustible.Saldos) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, combustible.EstadoConfirmado, f.Estado())
	assert.NoError(t, f.ErrorEnvio())
}

func TestFormulario_BloqueaReenvioConcurrente(t *testing.T) {
	f := formularioConsumo(t, reservorio("500"), "120")
	agregarVehiculo(t, f, "120")

	iniciado := make(chan struct{})
	liberar := make(chan struct{})
	resultado := make(chan error, 1)
	go func() {
		resultado <- f.Enviar(context.Background(), func(context.Context, combustible.EntradaOperacion, combustible.Saldos) error {
			close(iniciado)
			<-liberar
			return nil
		})
	}()
	<-iniciado

	assert.Equal(t, combustible.EstadoEnviando, f.Estado())
	err := f.Enviar(context.Background(), func(context.Context, combustible.EntradaOperacion, combustible.Saldos) error {
		t.Error("commit no debe ejecutarse dos veces")
		return nil
	})
	assert.ErrorIs(t, err, combustible.ErrEnvioEnCurso)

	close(liberar)
	require.NoError(t, <-resultado)
	assert.Equal(t, combustible.EstadoConfirmado, f.Estado())
}

func TestFormulario_IgnoraEdicionesDuranteEnvio(t *testing.T) {
	f := formularioConsumo(t, reservorio("500"), "120")
	fila := agregarVehiculo(t, f, "120")

	iniciado := make(chan struct{})
	liberar := make(chan struct{})
	resultado := make(chan error, 1)
	var enviada combustible.EntradaOperacion
	go func() {
		resultado <- f.Enviar(context.Background(), func(_ context.Context, in combustible.EntradaOperacion, _ combustible.Saldos) error {
			enviada = in
			close(iniciado)
			<-liberar
			return nil
		})
	}()
	<-iniciado

	f.CambiarValorDinero(valor("999"))
	f.CambiarDescripcion("cambio tardío")
	f.CambiarTipo(combustible.Carga)
	f.SeleccionarFuente(nil)
	_, err := f.AgregarDestino(combustible.DestinoTipoVehiculo)
	assert.ErrorIs(t, err, combustible.ErrEnvioEnCurso)
	assert.ErrorIs(t, f.AsignarLitros(fila, dec("1")), combustible.ErrEnvioEnCurso)
	assert.ErrorIs(t, f.ActualizarDestino(fila, "litros", "5"), combustible.ErrEnvioEnCurso)
	assert.ErrorIs(t, f.SeleccionarObjetivo(fila, uuid.New()), combustible.ErrEnvioEnCurso)
	assert.ErrorIs(t, f.QuitarDestino(fila), combustible.ErrEnvioEnCurso)
	assert.Equal(t, combustible.EstadoEnviando, f.Estado())

	close(liberar)
	require.NoError(t, <-resultado)
	assert.Equal(t, combustible.EstadoConfirmado, f.Estado())

	actual := f.Entrada()
	assert.Equal(t, combustible.Consumo, actual.Tipo)
	assert.NotNil(t, actual.Fuente)
	assertDec(t, "120", actual.ValorDinero.Decimal)
	assert.Empty(t, actual.Descripcion)
	require.Len(t, actual.Destinos, 1)
	assertDec(t, "120", actual.Destinos[0].Litros)
	assert.Equal(t, enviada.Destinos, actual.Destinos)
	assertDec(t, "380", f.Saldos().SaldoFinal)
}

func TestFormulario_EdicionVuelveAInactivo(t *testing.T) {
	f := formularioConsumo(t, reservorio("500"), "120")
	agregarVehiculo(t, f, "120")
	require.NoError(t, f.Enviar(context.Background(), func(context.Context, combustible.EntradaOperacion, combustible.Saldos) error { return nil }))

	f.CambiarDescripcion("segunda carga")
	assert.Equal(t, combustible.EstadoInactivo, f.Estado())
	assert.Equal(t, "inactivo", f.Estado().String())
	assert.Equal(t, "desconocido", combustible.Estado(42).String())
}
