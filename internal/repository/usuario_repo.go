package repository

import (
	"context"
	"errors"
	"strings"

	"flota/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrUsuarioDuplicado is returned by Create when the username is taken.
var ErrUsuarioDuplicado = errors.New("el nombre de usuario ya existe")

// UsuarioRepository stores the fleet back-office accounts (operadores,
// supervisores and administradores).
type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	// FindActivoPorLogin resolves what was typed in the login form: an exact
	// username or an email in any case. Inactive accounts never match.
	FindActivoPorLogin(ctx context.Context, login string) (*model.Usuario, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Usuario{}).Where("username = ?", u.Username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrUsuarioDuplicado
		}
		return tx.Create(u).Error
	})
}

func (r *usuarioRepo) FindActivoPorLogin(ctx context.Context, login string) (*model.Usuario, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var u model.Usuario
	err := r.db.WithContext(ctx).
		Where("(username = ? OR LOWER(email) = LOWER(?)) AND activo = ?", login, login, true).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
