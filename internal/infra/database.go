package infra

import (
	"fmt"

	"flota/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the postgres Balance Store and brings its schema up to
// date.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates every table, then applies the postgres-only
// patches. Also used by tests against sqlite, where patches are skipped.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.TipoCombustible{},
		&model.TarjetaCombustible{},
		&model.Reservorio{},
		&model.Vehiculo{},
		&model.OperacionCombustible{},
		&model.DistribucionCombustible{},
		&model.Notificacion{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement checks for existence first, so re-running is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"operacion: exactly one source", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_operaciones_una_fuente') THEN
    ALTER TABLE operaciones_combustible
      ADD CONSTRAINT chk_operaciones_una_fuente
      CHECK (num_nonnulls(fuel_card_id, reservorio_id) = 1);
  END IF;
END $$`},
		{"distribucion: exactly one target", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_distribuciones_un_destino') THEN
    ALTER TABLE distribuciones_combustible
      ADD CONSTRAINT chk_distribuciones_un_destino
      CHECK (num_nonnulls(vehiculo_id, reservorio_id) = 1);
  END IF;
END $$`},
		{"distribucion: positive liters", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_distribuciones_litros') THEN
    ALTER TABLE distribuciones_combustible
      ADD CONSTRAINT chk_distribuciones_litros CHECK (litros > 0);
  END IF;
END $$`},
		{"operaciones: recent-first listing index",
			`CREATE INDEX IF NOT EXISTS idx_operaciones_fecha_desc ON operaciones_combustible (fecha DESC)`},
		{"notificaciones: unread partial index",
			`CREATE INDEX IF NOT EXISTS idx_notificaciones_no_leidas ON notificaciones (created_at) WHERE leida = false`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
