// Package auth_repo implements the credential lookup over p_list_usuario.
package auth_repo

import (
	"context"

	"yahveh/internal/core/abm"
	"yahveh/internal/domain/auth"
	"yahveh/internal/infrastructure/storage/postgres"
)

// UserRepository reads credential rows. User administration is out of
// scope for this service; only the login lookup is exposed.
type UserRepository struct {
	db *postgres.Gateway
}

var _ auth.Repository = (*UserRepository)(nil)

// NewUserRepository creates the credential repository.
func NewUserRepository(db *postgres.Gateway) *UserRepository {
	return &UserRepository{db: db}
}

type userRow struct {
	UserID       int64   `db:"cod_usuario"`
	EmployeeID   int64   `db:"cod_empleado"`
	EmployeeName *string `db:"nombre_empleado"`
	Login        string  `db:"login"`
	PasswordHash *string `db:"password"`
	UserType     string  `db:"tipo_usuario"`
	Status       string  `db:"estado"`
}

// FindByLogin fetches the account row, bcrypt hash included, via the
// lookup action of p_list_usuario.
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*auth.User, bool, error) {
	sql := `SELECT cod_usuario, cod_empleado, nombre_empleado, login, password, tipo_usuario, estado
	  FROM p_list_usuario(p_login := $1, p_accion := $2)`

	var row userRow
	found, err := r.db.QueryOne(ctx, &row, sql, login, abm.Lookup.Flag())
	if err != nil || !found {
		return nil, false, err
	}

	user := &auth.User{
		UserID:     row.UserID,
		EmployeeID: row.EmployeeID,
		Login:      row.Login,
		UserType:   row.UserType,
		Status:     row.Status,
	}
	if row.EmployeeName != nil {
		user.EmployeeName = *row.EmployeeName
	}
	if row.PasswordHash != nil {
		user.PasswordHash = *row.PasswordHash
	}
	return user, true, nil
}
