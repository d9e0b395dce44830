package router

import (
	"time"

	"flota/internal/config"
	"flota/internal/handler"
	"flota/internal/middleware"
	"flota/internal/repository"
	"flota/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	rolOperador      = "operador"
	rolSupervisor    = "supervisor"
	rolAdministrador = "administrador"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// notificador receives an alert job after every committed operation.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, notificador service.Notificador) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.RateLimiter(rdb, "global", cfg.RateLimitPerMinute, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	tipoRepo := repository.NewTipoCombustibleRepository(db)
	tarjetaRepo := repository.NewTarjetaRepository(db)
	reservorioRepo := repository.NewReservorioRepository(db)
	vehiculoRepo := repository.NewVehiculoRepository(db)
	operacionRepo := repository.NewOperacionRepository(db)
	notificacionRepo := repository.NewNotificacionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	tipoSvc := service.NewTipoCombustibleService(tipoRepo)
	tarjetaSvc := service.NewTarjetaService(tarjetaRepo, tipoRepo)
	reservorioSvc := service.NewReservorioService(reservorioRepo, tipoRepo)
	operacionSvc := service.NewOperacionCombustibleService(
		operacionRepo, tarjetaRepo, reservorioRepo, vehiculoRepo, notificador, cfg.PDFStoragePath,
	)
	notificacionSvc := service.NewNotificacionService(
		notificacionRepo, operacionRepo, tarjetaRepo, reservorioRepo,
		service.Umbrales{SaldoMinimo: cfg.UmbralSaldo(), PorcentajeMinimo: cfg.UmbralReservorioPct()},
	)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	operacionesH := handler.NewOperacionesHandler(operacionSvc)
	tarjetasH := handler.NewTarjetasHandler(tarjetaSvc)
	reservoriosH := handler.NewReservoriosHandler(reservorioSvc)
	tiposH := handler.NewTiposCombustibleHandler(tipoSvc)
	vehiculosH := handler.NewVehiculosHandler(vehiculoRepo)
	notificacionesH := handler.NewNotificacionesHandler(notificacionSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(rdb), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		todos := middleware.RequireRole(rolOperador, rolSupervisor, rolAdministrador)
		admin := middleware.RequireRole(rolAdministrador)

		ops := v1.Group("/operaciones-combustible", todos)
		{
			ops.POST("", operacionesH.Registrar)
			ops.POST("/calcular", operacionesH.Calcular)
			ops.GET("", operacionesH.Listar)
			ops.GET("/:id", operacionesH.ObtenerPorID)
			ops.GET("/:id/comprobante", operacionesH.Comprobante)
		}

		v1.GET("/tarjetas", todos, tarjetasH.Listar)
		v1.GET("/tarjetas/:id", todos, tarjetasH.ObtenerPorID)
		v1.POST("/tarjetas", admin, tarjetasH.Crear)

		v1.GET("/reservorios", todos, reservoriosH.Listar)
		v1.GET("/reservorios/:id", todos, reservoriosH.ObtenerPorID)
		v1.POST("/reservorios", admin, reservoriosH.Crear)

		v1.GET("/tipos-combustible", todos, tiposH.Listar)
		v1.POST("/tipos-combustible", admin, tiposH.Crear)

		v1.GET("/vehiculos", todos, vehiculosH.Listar)

		v1.POST("/admin/dlq/:cola/reencolar", admin, handler.ReencolarDLQ(rdb))

		notif := v1.Group("/notificaciones", middleware.RequireRole(rolSupervisor, rolAdministrador))
		{
			notif.GET("", notificacionesH.Listar)
			notif.PATCH("/:id/leida", notificacionesH.MarcarLeida)
		}
	}

	// Swagger UI, only outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
