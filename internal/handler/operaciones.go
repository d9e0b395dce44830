package handler

import (
	"fmt"
	"net/http"

	"flota/internal/dto"
	"flota/internal/middleware"
	"flota/internal/service"

	"github.com/gin-gonic/gin"
)

type OperacionesHandler struct {
	svc service.OperacionCombustibleService
}

func NewOperacionesHandler(svc service.OperacionCombustibleService) *OperacionesHandler {
	return &OperacionesHandler{svc: svc}
}

// Registrar godoc
// @Summary Registrar operación de combustible
// @Description Valida, recalcula los saldos contra la fuente y confirma la operación en una transacción.
// @Tags operaciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OperacionCombustibleRequest true "Operación"
// @Success 201 {object} dto.OperacionCombustibleResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/operaciones-combustible [post]
func (h *OperacionesHandler) Registrar(c *gin.Context) {
	var req dto.OperacionCombustibleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Calcular godoc
// @Summary Previsualizar saldos de una operación
// @Tags operaciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OperacionCombustibleRequest true "Operación"
// @Success 200 {object} dto.CalculoResponse
// @Router /v1/operaciones-combustible/calcular [post]
func (h *OperacionesHandler) Calcular(c *gin.Context) {
	var req dto.OperacionCombustibleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Calcular(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Listar operaciones
// @Tags operaciones
// @Produce json
// @Security BearerAuth
// @Param fuelCardId query string false "Tarjeta"
// @Param reservorioId query string false "Reservorio"
// @Param tipoOperacion query string false "Carga | Consumo"
// @Param page query int false "Página"
// @Param limit query int false "Tamaño de página"
// @Success 200 {object} dto.OperacionListResponse
// @Router /v1/operaciones-combustible [get]
func (h *OperacionesHandler) Listar(c *gin.Context) {
	var filter dto.OperacionFilter
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

func (h *OperacionesHandler) ObtenerPorID(c *gin.Context) {
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

// Comprobante godoc
// @Summary Comprobante PDF de una operación
// @Tags operaciones
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "ID de la operación"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/operaciones-combustible/{id}/comprobante [get]
func (h *OperacionesHandler) Comprobante(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	path, err := h.svc.Comprobante(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.FileAttachment(path, fmt.Sprintf("operacion_%s.pdf", id))
}
