package combustible

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estado is the lifecycle of an operation form:
//
//	Inactivo → Validando → Invalido
//	                     → Valido → Enviando → Confirmado | Fallido
//
// Any edit outside Enviando returns the form to Inactivo.
type Estado int

const (
	EstadoInactivo Estado = iota
	EstadoValidando
	EstadoInvalido
	EstadoValido
	EstadoEnviando
	EstadoConfirmado
	EstadoFallido
)

var nombresEstado = [...]string{"inactivo", "validando", "invalido", "valido", "enviando", "confirmado", "fallido"}

func (e Estado) String() string {
	if e < 0 || int(e) >= len(nombresEstado) {
		return "desconocido"
	}
	return nombresEstado[e]
}

var (
	ErrDestinoUnico        = errors.New("Una tarjeta de reservorio solo admite un destino")
	ErrEnvioEnCurso        = errors.New("La operación ya se está enviando")
	ErrFilaNoEncontrada    = errors.New("Destino no encontrado")
	ErrCampoDesconocido    = errors.New("Campo de destino desconocido")
	ErrTipoDestinoInvalido = errors.New("Tipo de destino inválido")
)

// ErrorValidacion is returned by Enviar when the form has field errors.
type ErrorValidacion struct {
	Campos ErroresCampo
}

func (e *ErrorValidacion) Error() string { return "Error de validacion" }

// Commit persists a validated operation. It runs outside the form's lock.
type Commit func(ctx context.Context, in EntradaOperacion, saldos Saldos) error

// Formulario holds the state of one operation being entered. Every setter
// recomputes the derived balances explicitly. While a submission is in flight
// the input is frozen: setters are no-ops and row operations return
// ErrEnvioEnCurso. Safe for concurrent use.
type Formulario struct {
	mu          sync.Mutex
	estricto    bool
	estado      Estado
	entrada     EntradaOperacion
	siguienteID int
	saldos      Saldos
	errores     ErroresCampo
	errDestinos error
	errEnvio    error
}

// NuevoFormulario returns an empty form. estricto enables the positive-liters
// rule for distribution rows.
func NuevoFormulario(estricto bool) *Formulario {
	return &Formulario{estricto: estricto, siguienteID: 1}
}

// ── Campos ────────────────────────────────────────────────────────────────────

// UsarReservorio flips the source toggle. Flipping clears the selected source.
func (f *Formulario) UsarReservorio(reservorio bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.estado == EstadoEnviando {
		return
	}
	if f.entrada.OrigenReservorio != reservorio {
		f.entrada.Fuente = nil
	}
	f.entrada.OrigenReservorio = reservorio
	f.editado()
}

// SeleccionarFuente sets the source and aligns the toggle with its kind.
// A nil fuente clears the selection.
func (f *Formulario) SeleccionarFuente(fuente Fuente) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.estado == EstadoEnviando {
		return
	}
	f.entrada.Fuente = fuente
	switch fuente.(type) {
	case Reservorio:
		f.entrada.OrigenReservorio = true
	case Tarjeta:
		f.entrada.OrigenReservorio = false
	}
	f.editado()
}

func (f *Formulario) CambiarTipo(tipo TipoOperacion) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.estado == EstadoEnviando {
		return
	}
	f.entrada.Tipo = tipo
	f.editado()
}

func (f *Formulario) CambiarFecha(fecha time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.estado == EstadoEnviando {
		return
	}
	f.entrada.Fecha = fecha
	f.editado()
}

func (f *Formulario) CambiarValorDinero(valor decimal.NullDecimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.estado == EstadoEnviando {
		return
	}
	f.entrada.ValorDinero = valor
	f.editado()
}

func (f *Formulario) CambiarTipoCombustible(id uuid.NullUUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.estado == EstadoEnviando {
		return
	}
	f.entrada.TipoCombustibleID = id
	f.editado()
}

func (f *Formulario) CambiarDescripcion(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.estado == EstadoEnviando {
		return
	}
	f.entrada.Descripcion = s
	f.editado()
}

func (f *Formulario) CambiarUbicacionCupet(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.estado == EstadoEnviando {
		return
	}
	f.entrada.UbicacionCupet = s
	f.editado()
}

// ── Destinos ──────────────────────────────────────────────────────────────────

// AgregarDestino appends an unselected row with zero liters and returns its ID.
// A reservoir-flagged card accepts a single row.
func (f *Formulario) AgregarDestino(tipo TipoDestino) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.estado == EstadoEnviando {
		return 0, ErrEnvioEnCurso
	}

	destino, ok := NuevoDestino(tipo)
	if !ok {
		return 0, ErrTipoDestinoInvalido
	}
	if t, ok := f.entrada.Fuente.(Tarjeta); ok && t.EsReservorio && len(f.entrada.Destinos) > 0 {
		return 0, ErrDestinoUnico
	}

	id := f.siguienteID
	f.siguienteID++
	f.entrada.Destinos = append(f.entrada.Destinos, FilaDestino{ID: id, Destino: destino, Litros: decimal.Zero})
	f.editado()
	return id, nil
}

func (f *Formulario) QuitarDestino(id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.estado == EstadoEnviando {
		return ErrEnvioEnCurso
	}

	i := f.indiceFila(id)
	if i < 0 {
		return ErrFilaNoEncontrada
	}
	f.entrada.Destinos = append(f.entrada.Destinos[:i], f.entrada.Destinos[i+1:]...)
	f.editado()
	return nil
}

// ActualizarDestino applies raw form input to a row. campo is "vehicleId",
// "reservorio_id" or "litros". Unparseable ids clear the selection. Liters
// take the leading number of the text ("12.5L" is 12.5) and become 0 when
// there is none.
func (f *Formulario) ActualizarDestino(id int, campo, valor string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.estado == EstadoEnviando {
		return ErrEnvioEnCurso
	}

	i := f.indiceFila(id)
	if i < 0 {
		return ErrFilaNoEncontrada
	}
	fila := &f.entrada.Destinos[i]
	valor = strings.TrimSpace(valor)

	switch campo {
	case "vehicleId":
		fila.Destino = DestinoVehiculo{VehiculoID: parsearID(valor)}
	case "reservorio_id":
		fila.Destino = DestinoReservorio{ReservorioID: parsearID(valor)}
	case "litros":
		fila.Litros = parsearLitros(valor)
	default:
		return ErrCampoDesconocido
	}
	f.editado()
	return nil
}

// SeleccionarObjetivo sets the target of a row, keeping its kind.
func (f *Formulario) SeleccionarObjetivo(id int, objetivo uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.estado == EstadoEnviando {
		return ErrEnvioEnCurso
	}

	i := f.indiceFila(id)
	if i < 0 {
		return ErrFilaNoEncontrada
	}
	fila := &f.entrada.Destinos[i]
	if _, ok := fila.Destino.(DestinoReservorio); ok {
		fila.Destino = DestinoReservorio{ReservorioID: objetivo}
	} else {
		fila.Destino = DestinoVehiculo{VehiculoID: objetivo}
	}
	f.editado()
	return nil
}

func (f *Formulario) AsignarLitros(id int, litros decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.estado == EstadoEnviando {
		return ErrEnvioEnCurso
	}

	i := f.indiceFila(id)
	if i < 0 {
		return ErrFilaNoEncontrada
	}
	f.entrada.Destinos[i].Litros = litros
	f.editado()
	return nil
}

// ── Validación y envío ────────────────────────────────────────────────────────

// Validar runs the operation validator and moves the form to Valido or
// Invalido. It returns a copy of the error map.
func (f *Formulario) Validar() ErroresCampo {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.estado == EstadoEnviando {
		return copiarErrores(f.errores)
	}
	f.validar()
	return copiarErrores(f.errores)
}

// Enviar validates the form and, when valid, hands a snapshot of the input to
// commit. Only one submission may be in flight; a second call gets
// ErrEnvioEnCurso. Validation failures return *ErrorValidacion and never
// reach commit.
func (f *Formulario) Enviar(ctx context.Context, commit Commit) error {
	f.mu.Lock()
	if f.estado == EstadoEnviando {
		f.mu.Unlock()
		return ErrEnvioEnCurso
	}
	if !f.validar() {
		campos := copiarErrores(f.errores)
		f.mu.Unlock()
		return &ErrorValidacion{Campos: campos}
	}
	f.estado = EstadoEnviando
	f.errEnvio = nil
	entrada := f.copiarEntrada()
	saldos := f.saldos
	f.mu.Unlock()

	err := commit(ctx, entrada, saldos)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.estado = EstadoFallido
		f.errEnvio = err
		return err
	}
	f.estado = EstadoConfirmado
	return nil
}

// ── Lectura ───────────────────────────────────────────────────────────────────

func (f *Formulario) Estado() Estado {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.estado
}

func (f *Formulario) Saldos() Saldos {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saldos
}

func (f *Formulario) Entrada() EntradaOperacion {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.copiarEntrada()
}

func (f *Formulario) Destinos() []FilaDestino {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FilaDestino(nil), f.entrada.Destinos...)
}

// ErrorDestinos is the result of the last row validation. Always nil unless
// the operation is a Consumo.
func (f *Formulario) ErrorDestinos() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errDestinos
}

// ErrorEnvio is the error returned by the last failed commit.
func (f *Formulario) ErrorEnvio() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errEnvio
}

// ── internos (mu held) ────────────────────────────────────────────────────────

func (f *Formulario) editado() {
	f.saldos = CalcularSaldos(f.entrada.Fuente, f.entrada.Tipo, f.entrada.ValorDinero.Decimal)
	f.errDestinos = nil
	if f.entrada.Tipo == Consumo {
		f.errDestinos = ValidarDestinos(f.entrada.Destinos, f.saldos.ValorLitros, f.estricto)
	}
	f.estado = EstadoInactivo
}

func (f *Formulario) validar() bool {
	f.estado = EstadoValidando
	f.errores = ValidarOperacion(f.entrada, f.saldos, f.estricto)
	if !f.errores.Valido() {
		f.estado = EstadoInvalido
		return false
	}
	f.estado = EstadoValido
	return true
}

func (f *Formulario) indiceFila(id int) int {
	for i, fila := range f.entrada.Destinos {
		if fila.ID == id {
			return i
		}
	}
	return -1
}

func (f *Formulario) copiarEntrada() EntradaOperacion {
	in := f.entrada
	in.Destinos = append([]FilaDestino(nil), f.entrada.Destinos...)
	return in
}

func copiarErrores(e ErroresCampo) ErroresCampo {
	out := make(ErroresCampo, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

var numeroInicial = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)`)

func parsearLitros(s string) decimal.Decimal {
	n, err := decimal.NewFromString(numeroInicial.FindString(s))
	if err != nil {
		return decimal.Zero
	}
	return n
}

func parsearID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
