package service_test

import (
	"context"
	"sync"

	"flota/internal/dto"
	"flota/internal/model"
	"flota/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory Repository Stubs ────────────────────────────────────────────────
// Tx methods ignore the handle: with DB() == nil runTx passes nil.

type stubTarjetaRepo struct {
	tarjetas map[uuid.UUID]*model.TarjetaCombustible
	// antesDeEscribir simulates a concurrent writer between read and update.
	antesDeEscribir func()
}

func newStubTarjetaRepo() *stubTarjetaRepo {
	return &stubTarjetaRepo{tarjetas: make(map[uuid.UUID]*model.TarjetaCombustible)}
}

func (r *stubTarjetaRepo) Create(_ context.Context, t *model.TarjetaCombustible) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tarjetas[t.ID] = t
	return nil
}

func (r *stubTarjetaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.TarjetaCombustible, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubTarjetaRepo) List(_ context.Context, page, limit int) ([]model.TarjetaCombustible, int64, error) {
	var out []model.TarjetaCombustible
	for _, t := range r.tarjetas {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *stubTarjetaRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.TarjetaCombustible, error) {
	t, ok := r.tarjetas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *stubTarjetaRepo) UpdateSaldoTx(_ *gorm.DB, id uuid.UUID, version int, saldo decimal.Decimal) error {
	if r.antesDeEscribir != nil {
		r.antesDeEscribir()
	}
	t, ok := r.tarjetas[id]
	if !ok || t.Version != version {
		return repository.ErrConflictoVersion
	}
	t.Saldo = saldo
	t.Version++
	return nil
}

func (r *stubTarjetaRepo) DB() *gorm.DB { return nil }

var _ repository.TarjetaRepository = (*stubTarjetaRepo)(nil)

type stubReservorioRepo struct {
	reservorios map[uuid.UUID]*model.Reservorio
}

func newStubReservorioRepo() *stubReservorioRepo {
	return &stubReservorioRepo{reservorios: make(map[uuid.UUID]*model.Reservorio)}
}

func (r *stubReservorioRepo) Create(_ context.Context, res *model.Reservorio) error {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	r.reservorios[res.ID] = res
	return nil
}

func (r *stubReservorioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Reservorio, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubReservorioRepo) List(_ context.Context, page, limit int) ([]model.Reservorio, int64, error) {
	var out []model.Reservorio
	for _, res := range r.reservorios {
		out = append(out, *res)
	}
	return out, int64(len(out)), nil
}

func (r *stubReservorioRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Reservorio, error) {
	res, ok := r.reservorios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *res
	return &cp, nil
}

func (r *stubReservorioRepo) UpdateCapacidadTx(_ *gorm.DB, id uuid.UUID, version int, capacidad decimal.Decimal) error {
	res, ok := r.reservorios[id]
	if !ok || res.Version != version {
		return repository.ErrConflictoVersion
	}
	res.CapacidadActual = capacidad
	res.Version++
	return nil
}

func (r *stubReservorioRepo) SumarCapacidadTx(_ *gorm.DB, id uuid.UUID, litros decimal.Decimal) error {
	res, ok := r.reservorios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	res.CapacidadActual = res.CapacidadActual.Add(litros)
	res.Version++
	return nil
}

func (r *stubReservorioRepo) CountByIDsTx(_ *gorm.DB, ids []uuid.UUID) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := r.reservorios[id]; ok {
			n++
		}
	}
	return n, nil
}

func (r *stubReservorioRepo) DB() *gorm.DB { return nil }

var _ repository.ReservorioRepository = (*stubReservorioRepo)(nil)

type stubVehiculoRepo struct {
	activos map[uuid.UUID]bool
}

func (r *stubVehiculoRepo) List(_ context.Context) ([]model.Vehiculo, error) { return nil, nil }

func (r *stubVehiculoRepo) CountActivosTx(_ *gorm.DB, ids []uuid.UUID) (int64, error) {
	var n int64
	for _, id := range ids {
		if r.activos[id] {
			n++
		}
	}
	return n, nil
}

var _ repository.VehiculoRepository = (*stubVehiculoRepo)(nil)

type stubOperacionRepo struct {
	ops map[uuid.UUID]*model.OperacionCombustible
}

func newStubOperacionRepo() *stubOperacionRepo {
	return &stubOperacionRepo{ops: make(map[uuid.UUID]*model.OperacionCombustible)}
}

func (r *stubOperacionRepo) CreateTx(_ *gorm.DB, op *model.OperacionCombustible) error {
	if op.ID == uuid.Nil {
		op.ID = uuid.New()
	}
	r.ops[op.ID] = op
	return nil
}

func (r *stubOperacionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.OperacionCombustible, error) {
	op, ok := r.ops[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return op, nil
}

func (r *stubOperacionRepo) List(_ context.Context, filter dto.OperacionFilter) ([]model.OperacionCombustible, int64, error) {
	var out []model.OperacionCombustible
	for _, op := range r.ops {
		out = append(out, *op)
	}
	return out, int64(len(out)), nil
}

func (r *stubOperacionRepo) DB() *gorm.DB { return nil }

var _ repository.OperacionRepository = (*stubOperacionRepo)(nil)

type stubNotificacionRepo struct {
	notifs []*model.Notificacion
}

func (r *stubNotificacionRepo) Create(_ context.Context, n *model.Notificacion) error {
	n.ID = uuid.New()
	r.notifs = append(r.notifs, n)
	return nil
}

func (r *stubNotificacionRepo) List(_ context.Context, leida *bool, page, limit int) ([]model.Notificacion, int64, error) {
	var out []model.Notificacion
	for _, n := range r.notifs {
		if leida == nil || n.Leida == *leida {
			out = append(out, *n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubNotificacionRepo) MarcarLeida(_ context.Context, id uuid.UUID) error {
	for _, n := range r.notifs {
		if n.ID == id {
			n.Leida = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubNotificacionRepo) ExisteNoLeida(_ context.Context, tipo string, ref uuid.UUID) (bool, error) {
	for _, n := range r.notifs {
		if n.Tipo == tipo && n.ReferenciaID != nil && *n.ReferenciaID == ref && !n.Leida {
			return true, nil
		}
	}
	return false, nil
}

var _ repository.NotificacionRepository = (*stubNotificacionRepo)(nil)

type stubTipoRepo struct {
	tipos map[uuid.UUID]*model.TipoCombustible
}

func (r *stubTipoRepo) Create(_ context.Context, t *model.TipoCombustible) error {
	t.ID = uuid.New()
	r.tipos[t.ID] = t
	return nil
}

func (r *stubTipoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.TipoCombustible, error) {
	t, ok := r.tipos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *stubTipoRepo) List(_ context.Context) ([]model.TipoCombustible, error) {
	var out []model.TipoCombustible
	for _, t := range r.tipos {
		out = append(out, *t)
	}
	return out, nil
}

var _ repository.TipoCombustibleRepository = (*stubTipoRepo)(nil)

type stubNotificador struct {
	mu  sync.Mutex
	ids []uuid.UUID
	err error
}

func (n *stubNotificador) EncolarAlerta(_ context.Context, id uuid.UUID) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ids = append(n.ids, id)
	return n.err
}
