// Package catalog_repo implements the catalog repositories over the
// stored-procedure layer.
package catalog_repo

import (
	"context"
	"fmt"

	"yahveh/internal/core/abm"
	"yahveh/internal/core/apperror"
	"yahveh/internal/domain/catalogs/client"
	"yahveh/internal/infrastructure/storage/postgres"
)

// ClientRepository reads via p_list_cliente and writes via p_abm_cliente.
type ClientRepository struct {
	db *postgres.Gateway
}

var _ client.Repository = (*ClientRepository)(nil)

// NewClientRepository creates the client catalog repository.
func NewClientRepository(db *postgres.Gateway) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `cod_cliente, cod_zona, zona, nit, razon_social, nombre_cliente,
	       direccion, referencia, obs, total_notas, aud_usuario`

type clientRow struct {
	ClientID     int64   `db:"cod_cliente"`
	ZoneID       int64   `db:"cod_zona"`
	ZoneLabel    *string `db:"zona"`
	TaxID        *string `db:"nit"`
	BusinessName *string `db:"razon_social"`
	Name         *string `db:"nombre_cliente"`
	Address      *string `db:"direccion"`
	Reference    *string `db:"referencia"`
	Notes        *string `db:"obs"`
	TotalNotes   int32   `db:"total_notas"`
	CreatedBy    int64   `db:"aud_usuario"`
}

func (r clientRow) toDomain(ctx context.Context) client.Client {
	return client.Client{
		ClientID:     postgres.NarrowID(ctx, "cod_cliente", r.ClientID),
		ZoneID:       postgres.NarrowID(ctx, "cod_zona", r.ZoneID),
		ZoneLabel:    deref(r.ZoneLabel),
		TaxID:        deref(r.TaxID),
		BusinessName: deref(r.BusinessName),
		Name:         deref(r.Name),
		Address:      deref(r.Address),
		Reference:    deref(r.Reference),
		Notes:        deref(r.Notes),
		TotalNotes:   r.TotalNotes,
		CreatedBy:    postgres.NarrowID(ctx, "aud_usuario", r.CreatedBy),
	}
}

func (r *ClientRepository) list(ctx context.Context, sql string, args ...any) ([]client.Client, error) {
	var rows []clientRow
	if err := r.db.QueryList(ctx, &rows, sql, args...); err != nil {
		return nil, err
	}
	clients := make([]client.Client, 0, len(rows))
	for _, row := range rows {
		clients = append(clients, row.toDomain(ctx))
	}
	return clients, nil
}

// List returns all clients.
func (r *ClientRepository) List(ctx context.Context) ([]client.Client, error) {
	sql := `SELECT ` + clientColumns + ` FROM p_list_cliente(p_accion := $1)`
	return r.list(ctx, sql, abm.List.Flag())
}

// FindByID looks one client up.
func (r *ClientRepository) FindByID(ctx context.Context, clientID int32) (*client.Client, bool, error) {
	sql := `SELECT ` + clientColumns + ` FROM p_list_cliente(p_codcliente := $1, p_accion := $2)`

	var row clientRow
	found, err := r.db.QueryOne(ctx, &row, sql, clientID, abm.List.Flag())
	if err != nil || !found {
		return nil, false, err
	}
	c := row.toDomain(ctx)
	return &c, true, nil
}

// ListByZone returns the clients of one zone.
func (r *ClientRepository) ListByZone(ctx context.Context, zoneID int32) ([]client.Client, error) {
	sql := `SELECT ` + clientColumns + ` FROM p_list_cliente(p_codzona := $1, p_accion := $2)`
	return r.list(ctx, sql, zoneID, abm.List.Flag())
}

// SearchByTaxID returns clients matching a tax id.
func (r *ClientRepository) SearchByTaxID(ctx context.Context, taxID string) ([]client.Client, error) {
	sql := `SELECT ` + clientColumns + ` FROM p_list_cliente(p_nit := $1, p_accion := $2)`
	return r.list(ctx, sql, taxID, abm.List.Flag())
}

// SearchByName returns clients whose name matches the pattern.
func (r *ClientRepository) SearchByName(ctx context.Context, name string) ([]client.Client, error) {
	sql := `SELECT ` + clientColumns + ` FROM p_list_cliente(p_nombre := $1, p_accion := $2)`
	return r.list(ctx, sql, name, abm.List.Flag())
}

// Create inserts a client and returns the generated id.
func (r *ClientRepository) Create(ctx context.Context, in client.Input, userID int64) (int32, error) {
	sql := `SELECT p_error, p_errormsg, p_result
	  FROM p_abm_cliente(
	       p_codzona := $1,
	       p_nit := $2,
	       p_razonsocial := $3,
	       p_nombrecliente := $4,
	       p_direccion := $5,
	       p_referencia := $6,
	       p_obs := $7,
	       p_audusuario := $8,
	       p_accion := $9)`

	result, err := r.db.ExecABM(ctx, sql,
		in.ZoneID, in.TaxID, in.BusinessName, in.Name, in.Address, in.Reference, in.Notes,
		userID, abm.Insert.Flag())
	if err != nil {
		return 0, err
	}
	if result == nil {
		return 0, apperror.NewDatabase(fmt.Errorf("p_abm_cliente returned no identity on insert"))
	}
	return postgres.NarrowID(ctx, "cod_cliente", *result), nil
}

// Update changes a client.
func (r *ClientRepository) Update(ctx context.Context, clientID int32, in client.Input, userID int64) error {
	sql := `SELECT p_error, p_errormsg, p_result
	  FROM p_abm_cliente(
	       p_codcliente := $1,
	       p_codzona := $2,
	       p_nit := $3,
	       p_razonsocial := $4,
	       p_nombrecliente := $5,
	       p_direccion := $6,
	       p_referencia := $7,
	       p_obs := $8,
	       p_audusuario := $9,
	       p_accion := $10)`

	_, err := r.db.ExecABM(ctx, sql,
		clientID, in.ZoneID, in.TaxID, in.BusinessName, in.Name, in.Address, in.Reference, in.Notes,
		userID, abm.Update.Flag())
	return err
}

// Delete removes a client.
func (r *ClientRepository) Delete(ctx context.Context, clientID int32, userID int64) error {
	sql := `SELECT p_error, p_errormsg, p_result
	  FROM p_abm_cliente(
	       p_codcliente := $1,
	       p_audusuario := $2,
	       p_accion := $3)`

	_, err := r.db.ExecABM(ctx, sql, clientID, userID, abm.Delete.Flag())
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
