package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"flota/internal/combustible"
	"flota/internal/dto"
	"flota/internal/infra"
	"flota/internal/model"
	"flota/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Notificador receives committed operations for asynchronous alert checks.
type Notificador interface {
	EncolarAlerta(ctx context.Context, operacionID uuid.UUID) error
}

type OperacionCombustibleService interface {
	Registrar(ctx context.Context, usuarioID *uuid.UUID, req dto.OperacionCombustibleRequest) (*dto.OperacionCombustibleResponse, error)
	Calcular(ctx context.Context, req dto.OperacionCombustibleRequest) (*dto.CalculoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.OperacionCombustibleResponse, error)
	Listar(ctx context.Context, filter dto.OperacionFilter) (*dto.OperacionListResponse, error)
	// Comprobante renders the PDF receipt and returns its path.
	Comprobante(ctx context.Context, id uuid.UUID) (string, error)
}

type operacionService struct {
	repo        repository.OperacionRepository
	tarjetas    repository.TarjetaRepository
	reservorios repository.ReservorioRepository
	vehiculos   repository.VehiculoRepository
	notificador Notificador
	pdfPath     string
	generarPDF  func(op *model.OperacionCombustible, fuente, storagePath string) (string, error)
}

func NewOperacionCombustibleService(
	repo repository.OperacionRepository,
	tarjetas repository.TarjetaRepository,
	reservorios repository.ReservorioRepository,
	vehiculos repository.VehiculoRepository,
	notificador Notificador,
	pdfPath string,
) OperacionCombustibleService {
	return &operacionService{
		repo:        repo,
		tarjetas:    tarjetas,
		reservorios: reservorios,
		vehiculos:   vehiculos,
		notificador: notificador,
		pdfPath:     pdfPath,
		generarPDF:  infra.GenerarComprobantePDF,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Registrar ─────────────────────────────────────────────────────────────────
//   1. Load the source and replay the request into a strict Formulario
//   2. Enviar: field validation, then the commit callback
//   3. BEGIN TX: re-read source, recompute, insert operation + distributions,
//      versioned write of the source, credit destination reservoirs
//   4. COMMIT
//   5. (async) alert job, best effort

func (s *operacionService) Registrar(ctx context.Context, usuarioID *uuid.UUID, req dto.OperacionCombustibleRequest) (*dto.OperacionCombustibleResponse, error) {
	f, extra, err := s.armarFormulario(ctx, req)
	if err != nil {
		return nil, err
	}
	if !extra.Valido() {
		return nil, &ValidacionError{Campos: combinar(f.Validar(), extra)}
	}

	var op model.OperacionCombustible
	err = f.Enviar(ctx, func(ctx context.Context, in combustible.EntradaOperacion, _ combustible.Saldos) error {
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			return s.confirmar(tx, usuarioID, req.Version, in, &op)
		})
	})

	var verr *combustible.ErrorValidacion
	switch {
	case errors.As(err, &verr):
		return nil, &ValidacionError{Campos: verr.Campos}
	case errors.Is(err, repository.ErrConflictoVersion):
		log.Warn().Str("fuente", f.Entrada().Fuente.FuenteID().String()).Msg("operacion: conflicto de version")
		return nil, ErrConflicto
	case err != nil:
		return nil, err
	}

	if s.notificador != nil {
		if err := s.notificador.EncolarAlerta(ctx, op.ID); err != nil {
			log.Error().Err(err).Str("operacion_id", op.ID.String()).Msg("operacion: no se pudo encolar alerta")
		}
	}
	return operacionToResponse(&op), nil
}

// confirmar runs inside the transaction. The balances projected by the form
// are discarded: the source is read again and the saldos recomputed so the
// stored snapshot matches what is written.
func (s *operacionService) confirmar(tx *gorm.DB, usuarioID *uuid.UUID, version *int, in combustible.EntradaOperacion, op *model.OperacionCombustible) error {
	var (
		fresca      combustible.Fuente
		leida       int
		actualizar  func(saldoFinal decimal.Decimal) error
		tarjetaID   *uuid.UUID
		reservorio  *uuid.UUID
		tipoCombust *uuid.UUID
	)

	switch fuente := in.Fuente.(type) {
	case combustible.Tarjeta:
		t, err := s.tarjetas.FindByIDTx(tx, fuente.ID)
		if err != nil {
			return fmt.Errorf("tarjeta %s: %w", fuente.ID, err)
		}
		leida = t.Version
		fresca = combustible.Tarjeta{ID: t.ID, Saldo: t.Saldo, Precio: t.Precio(), EsReservorio: t.EsReservorio}
		tarjetaID = &t.ID
		actualizar = func(saldo decimal.Decimal) error { return s.tarjetas.UpdateSaldoTx(tx, t.ID, leida, saldo) }
	case combustible.Reservorio:
		r, err := s.reservorios.FindByIDTx(tx, fuente.ID)
		if err != nil {
			return fmt.Errorf("reservorio %s: %w", fuente.ID, err)
		}
		leida = r.Version
		fresca = combustible.Reservorio{ID: r.ID, CapacidadActual: r.CapacidadActual}
		reservorio = &r.ID
		actualizar = func(c decimal.Decimal) error { return s.reservorios.UpdateCapacidadTx(tx, r.ID, leida, c) }
	default:
		return errors.New("fuente de operación no soportada")
	}

	if version != nil && *version != leida {
		return repository.ErrConflictoVersion
	}

	saldos := combustible.CalcularSaldos(fresca, in.Tipo, in.ValorDinero.Decimal)
	if in.TipoCombustibleID.Valid {
		id := in.TipoCombustibleID.UUID
		tipoCombust = &id
	}

	*op = model.OperacionCombustible{
		TipoOperacion:        string(in.Tipo),
		Fecha:                in.Fecha,
		FuelCardID:           tarjetaID,
		ReservorioID:         reservorio,
		ValorOperacionDinero: in.ValorDinero.Decimal,
		SaldoInicio:          saldos.SaldoInicio,
		ValorOperacionLitros: saldos.ValorLitros,
		SaldoFinal:           saldos.SaldoFinal,
		SaldoFinalLitros:     saldos.SaldoFinalLitros,
		TipoCombustibleID:    tipoCombust,
		Descripcion:          textoOpcional(in.Descripcion),
		UbicacionCupet:       textoOpcional(in.UbicacionCupet),
		UsuarioID:            usuarioID,
	}

	var destinosReservorio []combustible.FilaDestino
	if in.Tipo == combustible.Consumo {
		if err := combustible.ValidarDestinos(in.Destinos, saldos.ValorLitros, true); err != nil {
			return &combustible.ErrorValidacion{Campos: combustible.ErroresCampo{combustible.CampoDestinos: err.Error()}}
		}
		if err := s.verificarObjetivos(tx, in.Destinos); err != nil {
			return err
		}
		for _, fila := range in.Destinos {
			d := model.DistribucionCombustible{Litros: fila.Litros}
			id := fila.Destino.ObjetivoID()
			switch fila.Destino.Tipo() {
			case combustible.DestinoTipoVehiculo:
				d.VehiculoID = &id
			case combustible.DestinoTipoReservorio:
				d.ReservorioID = &id
				destinosReservorio = append(destinosReservorio, fila)
			}
			op.Distribuciones = append(op.Distribuciones, d)
		}
	}

	if err := s.repo.CreateTx(tx, op); err != nil {
		return fmt.Errorf("crear operacion: %w", err)
	}
	if err := actualizar(saldos.SaldoFinal); err != nil {
		return err
	}
	for _, fila := range destinosReservorio {
		if err := s.reservorios.SumarCapacidadTx(tx, fila.Destino.ObjetivoID(), fila.Litros); err != nil {
			return fmt.Errorf("acreditar reservorio %s: %w", fila.Destino.ObjetivoID(), err)
		}
	}
	return nil
}

// verificarObjetivos checks that every destination exists (vehicles must also
// be active).
func (s *operacionService) verificarObjetivos(tx *gorm.DB, filas []combustible.FilaDestino) error {
	vehiculos := map[uuid.UUID]struct{}{}
	reservorios := map[uuid.UUID]struct{}{}
	for _, fila := range filas {
		switch fila.Destino.Tipo() {
		case combustible.DestinoTipoVehiculo:
			vehiculos[fila.Destino.ObjetivoID()] = struct{}{}
		case combustible.DestinoTipoReservorio:
			reservorios[fila.Destino.ObjetivoID()] = struct{}{}
		}
	}

	if len(vehiculos) > 0 {
		n, err := s.vehiculos.CountActivosTx(tx, claves(vehiculos))
		if err != nil {
			return err
		}
		if n != int64(len(vehiculos)) {
			return &combustible.ErrorValidacion{Campos: combustible.ErroresCampo{
				combustible.CampoDestinos: "Uno o más vehículos de destino no existen o están inactivos",
			}}
		}
	}
	if len(reservorios) > 0 {
		n, err := s.reservorios.CountByIDsTx(tx, claves(reservorios))
		if err != nil {
			return err
		}
		if n != int64(len(reservorios)) {
			return &combustible.ErrorValidacion{Campos: combustible.ErroresCampo{
				combustible.CampoReservorioDestino: "El reservorio destino no existe",
			}}
		}
	}
	return nil
}

// ── Calcular ──────────────────────────────────────────────────────────────────

func (s *operacionService) Calcular(ctx context.Context, req dto.OperacionCombustibleRequest) (*dto.CalculoResponse, error) {
	f, extra, err := s.armarFormulario(ctx, req)
	if err != nil {
		return nil, err
	}
	errs := combinar(f.Validar(), extra)
	saldos := f.Saldos()
	return &dto.CalculoResponse{
		SaldoInicio:          saldos.SaldoInicio,
		ValorOperacionLitros: saldos.ValorLitros,
		SaldoFinal:           saldos.SaldoFinal,
		SaldoFinalLitros:     saldos.SaldoFinalLitros,
		LitrosDistribuidos:   combustible.SumarLitros(f.Destinos()),
		Valido:               errs.Valido(),
		Errores:              errs,
	}, nil
}

// armarFormulario loads the source and replays req into a strict form. Errors
// the form cannot express (unknown source, rejected rows) come back in extra.
func (s *operacionService) armarFormulario(ctx context.Context, req dto.OperacionCombustibleRequest) (*combustible.Formulario, combustible.ErroresCampo, error) {
	f := combustible.NuevoFormulario(true)
	extra := combustible.ErroresCampo{}

	f.UsarReservorio(req.ReservorioID != nil)
	switch {
	case req.ReservorioID != nil:
		r, err := s.reservorios.FindByID(ctx, *req.ReservorioID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			extra[combustible.CampoReservorio] = "El reservorio no existe"
		case err != nil:
			return nil, nil, err
		default:
			f.SeleccionarFuente(combustible.Reservorio{ID: r.ID, CapacidadActual: r.CapacidadActual})
		}
	case req.FuelCardID != nil:
		t, err := s.tarjetas.FindByID(ctx, *req.FuelCardID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			extra[combustible.CampoTarjeta] = "La tarjeta de combustible no existe"
		case err != nil:
			return nil, nil, err
		case !t.Activo:
			extra[combustible.CampoTarjeta] = "La tarjeta de combustible está inactiva"
		default:
			f.SeleccionarFuente(combustible.Tarjeta{ID: t.ID, Saldo: t.Saldo, Precio: t.Precio(), EsReservorio: t.EsReservorio})
		}
	}

	f.CambiarTipo(combustible.TipoOperacion(req.TipoOperacion))
	if req.Fecha != nil {
		f.CambiarFecha(*req.Fecha)
	}
	if req.ValorOperacionDinero != nil {
		f.CambiarValorDinero(decimal.NewNullDecimal(*req.ValorOperacionDinero))
	}
	if req.TipoCombustibleID != nil {
		f.CambiarTipoCombustible(uuid.NullUUID{UUID: *req.TipoCombustibleID, Valid: true})
	}
	if req.Descripcion != nil {
		f.CambiarDescripcion(*req.Descripcion)
	}
	if req.UbicacionCupet != nil {
		f.CambiarUbicacionCupet(*req.UbicacionCupet)
	}

	if req.TipoOperacion != string(combustible.Consumo) {
		return f, extra, nil
	}
	for _, d := range req.FuelDistributions {
		tipo, objetivo := combustible.DestinoTipoVehiculo, d.VehicleID
		if d.ReservorioID != nil {
			tipo, objetivo = combustible.DestinoTipoReservorio, d.ReservorioID
		}
		id, err := f.AgregarDestino(tipo)
		if errors.Is(err, combustible.ErrDestinoUnico) {
			extra[combustible.CampoReservorioDestino] = err.Error()
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if objetivo != nil {
			if err := f.SeleccionarObjetivo(id, *objetivo); err != nil {
				return nil, nil, err
			}
		}
		if err := f.AsignarLitros(id, d.Liters); err != nil {
			return nil, nil, err
		}
	}
	return f, extra, nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *operacionService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.OperacionCombustibleResponse, error) {
	op, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return operacionToResponse(op), nil
}

func (s *operacionService) Listar(ctx context.Context, filter dto.OperacionFilter) (*dto.OperacionListResponse, error) {
	ops, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.OperacionCombustibleResponse, len(ops))
	for i := range ops {
		data[i] = *operacionToResponse(&ops[i])
	}
	return &dto.OperacionListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *operacionService) Comprobante(ctx context.Context, id uuid.UUID) (string, error) {
	op, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNoEncontrado
	}
	if err != nil {
		return "", err
	}

	fuente := "-"
	switch {
	case op.FuelCardID != nil:
		if t, err := s.tarjetas.FindByID(ctx, *op.FuelCardID); err == nil {
			fuente = "Tarjeta " + t.Numero
		}
	case op.ReservorioID != nil:
		if r, err := s.reservorios.FindByID(ctx, *op.ReservorioID); err == nil {
			fuente = "Reservorio " + r.Nombre
		}
	}
	return s.generarPDF(op, fuente, s.pdfPath)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func operacionToResponse(op *model.OperacionCombustible) *dto.OperacionCombustibleResponse {
	resp := &dto.OperacionCombustibleResponse{
		ID:                   op.ID.String(),
		TipoOperacion:        op.TipoOperacion,
		Fecha:                op.Fecha,
		FuelCardID:           uuidPtrString(op.FuelCardID),
		ReservorioID:         uuidPtrString(op.ReservorioID),
		ValorOperacionDinero: op.ValorOperacionDinero,
		SaldoInicio:          op.SaldoInicio,
		ValorOperacionLitros: op.ValorOperacionLitros,
		SaldoFinal:           op.SaldoFinal,
		SaldoFinalLitros:     op.SaldoFinalLitros,
		TipoCombustibleID:    uuidPtrString(op.TipoCombustibleID),
		Descripcion:          op.Descripcion,
		UbicacionCupet:       op.UbicacionCupet,
		UsuarioID:            uuidPtrString(op.UsuarioID),
		FuelDistributions:    make([]dto.DistribucionResponse, len(op.Distribuciones)),
		CreatedAt:            op.CreatedAt,
	}
	for i, d := range op.Distribuciones {
		resp.FuelDistributions[i] = dto.DistribucionResponse{
			ID:           d.ID.String(),
			VehicleID:    uuidPtrString(d.VehiculoID),
			ReservorioID: uuidPtrString(d.ReservorioID),
			Liters:       d.Litros,
		}
	}
	return resp
}

func combinar(base, extra combustible.ErroresCampo) combustible.ErroresCampo {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

func textoOpcional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func claves(m map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
