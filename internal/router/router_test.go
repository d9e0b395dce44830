package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"flota/internal/config"
	"flota/internal/infra"
	"flota/internal/model"
	"flota/internal/router"
	"flota/internal/worker"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// expect asserts the status and decodes the body into dest (when non-nil).
func expect(t *testing.T, resp *http.Response, status int, dest any) {
	t.Helper()
	if resp.StatusCode != status {
		var body map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		require.Failf(t, "status inesperado", "want %d, got %d: %v", status, resp.StatusCode, body)
	}
	if dest == nil {
		resp.Body.Close()
		return
	}
	decodeJSON(t, resp, dest)
}

func crearUsuario(t *testing.T, db *gorm.DB, username, password, rol string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Usuario{
		Username: username, Nombre: username, PasswordHash: string(hash), Rol: rol, Activo: true,
	}).Error)
}

func login(t *testing.T, srv *httptest.Server, username, password string) string {
	t.Helper()
	var body struct {
		AccessToken string `json:"access_token"`
	}
	resp := do(t, srv, http.MethodPost, "/v1/auth/login",
		jsonBody(t, map[string]string{"username": username, "password": password}), "")
	expect(t, resp, http.StatusOK, &body)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

type idResp struct {
	ID string `json:"id"`
}

type tarjetaResp struct {
	ID      string          `json:"id"`
	Saldo   decimal.Decimal `json:"saldo"`
	Version int             `json:"version"`
}

type reservorioResp struct {
	ID              string          `json:"id"`
	CapacidadActual decimal.Decimal `json:"capacidad_actual"`
	Version         int             `json:"version"`
}

type operacionResp struct {
	ID                   string          `json:"id"`
	SaldoInicio          decimal.Decimal `json:"saldoInicio"`
	ValorOperacionLitros decimal.Decimal `json:"valorOperacionLitros"`
	SaldoFinal           decimal.Decimal `json:"saldoFinal"`
	FuelDistributions    []struct {
		Liters decimal.Decimal `json:"liters"`
	} `json:"fuelDistributions"`
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

// catalogo creates a fuel type, a card and two reservoirs through the API,
// plus one active vehicle directly in the store.
type catalogo struct {
	tipo        string
	tarjeta     string
	reservorio  string
	reservorio2 string
	vehiculo    uuid.UUID
}

func crearCatalogo(t *testing.T, srv *httptest.Server, db *gorm.DB, token string) catalogo {
	t.Helper()
	var c catalogo

	var tipo idResp
	expect(t, do(t, srv, http.MethodPost, "/v1/tipos-combustible",
		jsonBody(t, map[string]any{"nombre": "Diésel", "precio": "2"}), token), http.StatusCreated, &tipo)
	c.tipo = tipo.ID

	var card tarjetaResp
	expect(t, do(t, srv, http.MethodPost, "/v1/tarjetas",
		jsonBody(t, map[string]any{"numero": "4000-0001", "saldo": "100", "tipoCombustible_id": c.tipo}), token),
		http.StatusCreated, &card)
	c.tarjeta = card.ID

	for i, capacidad := range []string{"500", "100"} {
		var r reservorioResp
		expect(t, do(t, srv, http.MethodPost, "/v1/reservorios", jsonBody(t, map[string]any{
			"nombre":             fmt.Sprintf("Tanque %d", i+1),
			"capacidad_actual":   capacidad,
			"capacidad_total":    "1000",
			"tipoCombustible_id": c.tipo,
		}), token), http.StatusCreated, &r)
		if i == 0 {
			c.reservorio = r.ID
		} else {
			c.reservorio2 = r.ID
		}
	}

	v := model.Vehiculo{Matricula: "B123456", Marca: "Toyota", Modelo: "Hilux", Activo: true}
	require.NoError(t, db.Create(&v).Error)
	c.vehiculo = v.ID
	return c
}

// ── Setup ────────────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
	token  string // administrador
}

func nuevoEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, infra.RunMigrations(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		RateLimitPerMinute: 1000,
		CORSOrigins:        "*",
		PDFStoragePath:     t.TempDir(),
	}

	srv := httptest.NewServer(router.New(cfg, db, rdb, worker.NewDispatcher(rdb)))
	t.Cleanup(srv.Close)

	crearUsuario(t, db, "admin", "flota2026", "administrador")
	return &testEnv{server: srv, db: db, token: login(t, srv, "admin", "flota2026")}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestRouter_Health(t *testing.T) {
	env := nuevoEnv(t)
	var body map[string]any
	expect(t, do(t, env.server, http.MethodGet, "/health", nil, ""), http.StatusOK, &body)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, map[string]any{"alerta": float64(0), "email": float64(0)}, body["dlq"])
}

func TestRouter_ReencolarDLQ(t *testing.T) {
	env := nuevoEnv(t)

	var body map[string]int
	expect(t, do(t, env.server, http.MethodPost, "/v1/admin/dlq/email/reencolar", nil, env.token), http.StatusOK, &body)
	assert.Equal(t, 0, body["reencolados"])

	expect(t, do(t, env.server, http.MethodPost, "/v1/admin/dlq/sms/reencolar", nil, env.token), http.StatusNotFound, nil)
	expect(t, do(t, env.server, http.MethodPost, "/v1/admin/dlq/email/reencolar?max=0", nil, env.token), http.StatusBadRequest, nil)
}

func TestRouter_AutenticacionYRoles(t *testing.T) {
	env := nuevoEnv(t)

	expect(t, do(t, env.server, http.MethodGet, "/v1/tarjetas", nil, ""), http.StatusUnauthorized, nil)

	crearUsuario(t, env.db, "operador1", "clave-operador", "operador")
	op := login(t, env.server, "operador1", "clave-operador")

	expect(t, do(t, env.server, http.MethodGet, "/v1/tarjetas", nil, op), http.StatusOK, nil)
	expect(t, do(t, env.server, http.MethodPost, "/v1/tarjetas",
		jsonBody(t, map[string]any{"numero": "4000-0002", "saldo": "1", "tipoCombustible_id": uuid.NewString()}), op),
		http.StatusForbidden, nil)
	expect(t, do(t, env.server, http.MethodGet, "/v1/notificaciones", nil, op), http.StatusForbidden, nil)
	expect(t, do(t, env.server, http.MethodGet, "/v1/notificaciones", nil, env.token), http.StatusOK, nil)
}

// Escenario B: consumo de tarjeta con distribución a un vehículo.
func TestRouter_ConsumoTarjeta(t *testing.T) {
	env := nuevoEnv(t)
	cat := crearCatalogo(t, env.server, env.db, env.token)

	var op operacionResp
	expect(t, do(t, env.server, http.MethodPost, "/v1/operaciones-combustible", jsonBody(t, map[string]any{
		"tipoOperacion":        "Consumo",
		"fecha":                "2026-03-01T10:00:00Z",
		"fuelCardId":           cat.tarjeta,
		"valorOperacionDinero": "20",
		"tipoCombustible_id":   cat.tipo,
		"fuelDistributions": []map[string]any{
			{"vehicleId": cat.vehiculo.String(), "liters": "6"},
			{"vehicleId": cat.vehiculo.String(), "liters": "4"},
		},
	}), env.token), http.StatusCreated, &op)

	assertDec(t, "100", op.SaldoInicio)
	assertDec(t, "10", op.ValorOperacionLitros)
	assertDec(t, "80", op.SaldoFinal)
	assert.Len(t, op.FuelDistributions, 2)

	var card tarjetaResp
	expect(t, do(t, env.server, http.MethodGet, "/v1/tarjetas/"+cat.tarjeta, nil, env.token), http.StatusOK, &card)
	assertDec(t, "80", card.Saldo)
	assert.Equal(t, 2, card.Version)

	var guardada operacionResp
	expect(t, do(t, env.server, http.MethodGet, "/v1/operaciones-combustible/"+op.ID, nil, env.token), http.StatusOK, &guardada)
	assertDec(t, "80", guardada.SaldoFinal)

	// A client that projected from version 1 is stale now.
	expect(t, do(t, env.server, http.MethodPost, "/v1/operaciones-combustible", jsonBody(t, map[string]any{
		"tipoOperacion":        "Carga",
		"fecha":                "2026-03-02T10:00:00Z",
		"fuelCardId":           cat.tarjeta,
		"valorOperacionDinero": "50",
		"version":              1,
	}), env.token), http.StatusConflict, nil)

	resp := do(t, env.server, http.MethodGet, "/v1/operaciones-combustible/"+op.ID+"/comprobante", nil, env.token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
}

// Escenario C con un reservorio como destino.
func TestRouter_ConsumoReservorioAcreditaDestino(t *testing.T) {
	env := nuevoEnv(t)
	cat := crearCatalogo(t, env.server, env.db, env.token)

	expect(t, do(t, env.server, http.MethodPost, "/v1/operaciones-combustible", jsonBody(t, map[string]any{
		"tipoOperacion":        "Consumo",
		"fecha":                "2026-03-01T10:00:00Z",
		"reservorioId":         cat.reservorio,
		"valorOperacionDinero": "120",
		"tipoCombustible_id":   cat.tipo,
		"fuelDistributions": []map[string]any{
			{"vehicleId": cat.vehiculo.String(), "liters": "70"},
			{"reservorio_id": cat.reservorio2, "liters": "50"},
		},
	}), env.token), http.StatusCreated, nil)

	var origen, destino reservorioResp
	expect(t, do(t, env.server, http.MethodGet, "/v1/reservorios/"+cat.reservorio, nil, env.token), http.StatusOK, &origen)
	expect(t, do(t, env.server, http.MethodGet, "/v1/reservorios/"+cat.reservorio2, nil, env.token), http.StatusOK, &destino)
	assertDec(t, "380", origen.CapacidadActual)
	assertDec(t, "150", destino.CapacidadActual)
	assert.Equal(t, 2, destino.Version)
}

func TestRouter_DistribucionDescuadradaNoPersiste(t *testing.T) {
	env := nuevoEnv(t)
	cat := crearCatalogo(t, env.server, env.db, env.token)

	req := map[string]any{
		"tipoOperacion":        "Consumo",
		"fecha":                "2026-03-01T10:00:00Z",
		"reservorioId":         cat.reservorio,
		"valorOperacionDinero": "120",
		"tipoCombustible_id":   cat.tipo,
		"fuelDistributions": []map[string]any{
			{"vehicleId": cat.vehiculo.String(), "liters": "70"},
			{"vehicleId": cat.vehiculo.String(), "liters": "40"},
		},
	}

	var preview struct {
		Valido  bool              `json:"valido"`
		Errores map[string]string `json:"errores"`
	}
	expect(t, do(t, env.server, http.MethodPost, "/v1/operaciones-combustible/calcular", jsonBody(t, req), env.token), http.StatusOK, &preview)
	assert.False(t, preview.Valido)
	assert.Contains(t, preview.Errores, "destinationVehicles")

	var fallo struct {
		Fields map[string]string `json:"fields"`
	}
	expect(t, do(t, env.server, http.MethodPost, "/v1/operaciones-combustible", jsonBody(t, req), env.token), http.StatusUnprocessableEntity, &fallo)
	assert.Contains(t, fallo.Fields, "destinationVehicles")

	var lista struct {
		Total int64 `json:"total"`
	}
	expect(t, do(t, env.server, http.MethodGet, "/v1/operaciones-combustible", nil, env.token), http.StatusOK, &lista)
	assert.Zero(t, lista.Total)

	var r reservorioResp
	expect(t, do(t, env.server, http.MethodGet, "/v1/reservorios/"+cat.reservorio, nil, env.token), http.StatusOK, &r)
	assertDec(t, "500", r.CapacidadActual)
}

func decimalString(n int) string { return decimal.NewFromInt(int64(n)).String() }
