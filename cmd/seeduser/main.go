// cmd/seeduser/main.go: crea/actualiza el usuario administrador de demo y
// carga los catálogos mínimos (tipos de combustible, vehículos).
// Uso: go run ./cmd/seeduser
package main

import (
	"context"

	"flota/internal/config"
	"flota/internal/infra"
	"flota/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	adminUsername = "admin"
	adminPassword = "flota2026"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	db = db.WithContext(context.Background())

	if err := seedAdmin(db); err != nil {
		log.Fatal().Err(err).Msg("usuario admin")
	}
	if err := seedCatalogos(db); err != nil {
		log.Fatal().Err(err).Msg("catálogos")
	}
	log.Info().Str("username", adminUsername).Msg("usuario admin creado/actualizado")
}

func seedAdmin(db *gorm.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), 12)
	if err != nil {
		return err
	}
	email := "admin@flota.local"
	u := model.Usuario{
		Username:     adminUsername,
		Nombre:       "Administrador",
		Email:        &email,
		PasswordHash: string(hash),
		Rol:          "administrador",
		Activo:       true,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "nombre", "email", "rol", "activo"}),
	}).Create(&u).Error
}

func seedCatalogos(db *gorm.DB) error {
	tipos := []model.TipoCombustible{
		{Nombre: "Gasolina Especial", Precio: decimal.RequireFromString("1.30")},
		{Nombre: "Gasolina Regular", Precio: decimal.RequireFromString("1.10")},
		{Nombre: "Diésel", Precio: decimal.RequireFromString("1.10")},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tipos).Error; err != nil {
		return err
	}

	vehiculos := []model.Vehiculo{
		{Matricula: "B123456", Marca: "Toyota", Modelo: "Hilux", Activo: true},
		{Matricula: "B654321", Marca: "Hyundai", Modelo: "H100", Activo: true},
		{Matricula: "P100200", Marca: "Kamaz", Modelo: "5320", Activo: true},
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&vehiculos).Error
}
