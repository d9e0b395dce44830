package handler

import (
	"errors"
	"net/http"

	"flota/internal/apierror"
	"flota/internal/dto"
	"flota/internal/middleware"
	"flota/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AuthHandler issues the tokens used by operadores, supervisores and
// administradores of the fleet back office.
type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Inicio de sesión del personal de flota
// @Description Acepta el nombre de usuario o el email (sin distinguir mayúsculas). Las cuentas dadas de baja no pueden iniciar sesión.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Usuario o email y contraseña"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError "Usuario o contraseña incorrectos"
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if errors.Is(err, service.ErrCredenciales) {
		log.Warn().
			Str("login", req.Username).
			Str("ip", c.ClientIP()).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Msg("auth: inicio de sesión rechazado")
		noAutorizado(c, err)
		return
	}
	if err != nil {
		responderError(c, err)
		return
	}
	log.Info().Str("usuario", resp.User.Username).Str("rol", resp.User.Rol).Msg("auth: sesión iniciada")
	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary Renovar la sesión
// @Description Emite un nuevo par de tokens mientras la cuenta siga activa.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError "Sesión expirada"
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if errors.Is(err, service.ErrSesion) {
		noAutorizado(c, err)
		return
	}
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func noAutorizado(c *gin.Context, err error) {
	c.JSON(http.StatusUnauthorized, apierror.New(err.Error()).WithCode(apierror.CodigoNoAutorizado))
}
