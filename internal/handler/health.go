package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"flota/internal/apierror"
	"flota/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var colasPorNombre = map[string]string{
	"alerta": worker.QueueAlerta,
	"email":  worker.QueueEmail,
}

// Health pings the Balance Store and Redis and reports dead-letter backlog.
// Any dependency down answers 503; a DLQ backlog alone does not.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		dlq := gin.H{}
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		} else {
			for nombre, cola := range colasPorNombre {
				if n, err := worker.DLQLength(ctx, rdb, cola); err == nil {
					dlq[nombre] = n
				}
			}
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
			"dlq":   dlq,
		})
	}
}

// ReencolarDLQ godoc
// @Summary Reencolar jobs muertos
// @Description Devuelve a su cola hasta `max` jobs de la DLQ (alerta | email).
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param cola path string true "alerta | email"
// @Param max query int false "Máximo de jobs (default 100)"
// @Success 200 {object} map[string]int
// @Router /v1/admin/dlq/{cola}/reencolar [post]
func ReencolarDLQ(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		cola, ok := colasPorNombre[c.Param("cola")]
		if !ok {
			c.JSON(http.StatusNotFound, apierror.New("Cola desconocida").WithCode(apierror.CodigoNoEncontrado))
			return
		}
		max := 100
		if raw := c.Query("max"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, apierror.New("max debe ser un entero positivo"))
				return
			}
			max = n
		}

		movidos, err := worker.Reencolar(c.Request.Context(), rdb, cola, max)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reencolados": movidos})
	}
}
