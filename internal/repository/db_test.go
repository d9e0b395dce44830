package repository_test

import (
	"fmt"
	"testing"

	"flota/internal/infra"
	"flota/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// nuevaDB opens an isolated in-memory sqlite database with the full schema.
func nuevaDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, infra.RunMigrations(db))
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func crearTipo(t *testing.T, db *gorm.DB, nombre, precio string) *model.TipoCombustible {
	t.Helper()
	tipo := &model.TipoCombustible{Nombre: nombre, Precio: dec(precio)}
	require.NoError(t, db.Create(tipo).Error)
	return tipo
}
