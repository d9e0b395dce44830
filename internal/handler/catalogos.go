package handler

import (
	"net/http"

	"flota/internal/apierror"
	"flota/internal/dto"
	"flota/internal/repository"
	"flota/internal/service"

	"github.com/gin-gonic/gin"
)

// ── Tarjetas ──────────────────────────────────────────────────────────────────

type TarjetasHandler struct{ svc service.TarjetaService }

func NewTarjetasHandler(svc service.TarjetaService) *TarjetasHandler {
	return &TarjetasHandler{svc: svc}
}

// Crear godoc
// @Summary Crear tarjeta de combustible
// @Tags tarjetas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearTarjetaRequest true "Tarjeta"
// @Success 201 {object} dto.TarjetaResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/tarjetas [post]
func (h *TarjetasHandler) Crear(c *gin.Context) {
	var req dto.CrearTarjetaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TarjetasHandler) Listar(c *gin.Context) {
	var p dto.Paginacion
	if !bindQuery(c, &p) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TarjetasHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Reservorios ───────────────────────────────────────────────────────────────

type ReservoriosHandler struct{ svc service.ReservorioService }

func NewReservoriosHandler(svc service.ReservorioService) *ReservoriosHandler {
	return &ReservoriosHandler{svc: svc}
}

// Crear godoc
// @Summary Crear reservorio
// @Tags reservorios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearReservorioRequest true "Reservorio"
// @Success 201 {object} dto.ReservorioResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/reservorios [post]
func (h *ReservoriosHandler) Crear(c *gin.Context) {
	var req dto.CrearReservorioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ReservoriosHandler) Listar(c *gin.Context) {
	var p dto.Paginacion
	if !bindQuery(c, &p) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReservoriosHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Tipos de combustible ──────────────────────────────────────────────────────

type TiposCombustibleHandler struct{ svc service.TipoCombustibleService }

func NewTiposCombustibleHandler(svc service.TipoCombustibleService) *TiposCombustibleHandler {
	return &TiposCombustibleHandler{svc: svc}
}

func (h *TiposCombustibleHandler) Crear(c *gin.Context) {
	var req dto.CrearTipoCombustibleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TiposCombustibleHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Vehículos ─────────────────────────────────────────────────────────────────
// Read-only listing straight from the repository.

type VehiculosHandler struct{ repo repository.VehiculoRepository }

func NewVehiculosHandler(repo repository.VehiculoRepository) *VehiculosHandler {
	return &VehiculosHandler{repo: repo}
}

func (h *VehiculosHandler) Listar(c *gin.Context) {
	vehiculos, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar vehículos"))
		return
	}
	resp := make([]dto.VehiculoResponse, len(vehiculos))
	for i, v := range vehiculos {
		resp[i] = dto.VehiculoResponse{
			ID: v.ID.String(), Matricula: v.Matricula, Marca: v.Marca, Modelo: v.Modelo, Activo: v.Activo,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// ── Notificaciones ────────────────────────────────────────────────────────────

type NotificacionesHandler struct{ svc service.NotificacionService }

func NewNotificacionesHandler(svc service.NotificacionService) *NotificacionesHandler {
	return &NotificacionesHandler{svc: svc}
}

// Listar godoc
// @Summary Listar notificaciones
// @Tags notificaciones
// @Produce json
// @Security BearerAuth
// @Param leida query string false "true | false"
// @Success 200 {object} dto.NotificacionListResponse
// @Router /v1/notificaciones [get]
func (h *NotificacionesHandler) Listar(c *gin.Context) {
	var filter dto.NotificacionFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NotificacionesHandler) MarcarLeida(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.MarcarLeida(c.Request.Context(), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
