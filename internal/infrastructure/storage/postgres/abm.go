package postgres

import (
	"context"

	"yahveh/internal/core/apperror"
	"yahveh/pkg/logger"
)

// AbmResult is the uniform result row of every ABM stored procedure:
// (p_error, p_errormsg, p_result). p_result carries the new identity on
// insert, or a status code on update/delete; it may be NULL.
type AbmResult struct {
	Error    int32  `db:"p_error"`
	ErrorMsg string `db:"p_errormsg"`
	Result   *int64 `db:"p_result"`
}

// IsSuccess reports whether the procedure considered the operation successful.
func (r AbmResult) IsSuccess() bool {
	return r.Error == 0
}

// Outcome maps the result row to the error taxonomy: a nonzero p_error is
// a business rule violation carrying the procedure's own message verbatim.
func (r AbmResult) Outcome() (*int64, error) {
	if !r.IsSuccess() {
		return nil, apperror.NewBusinessRule(r.ErrorMsg).
			WithDetail("procedure_error", r.Error)
	}
	return r.Result, nil
}

// ExecABM invokes an ABM stored procedure and checks its result row.
// An empty rowset is a contract violation (the procedures always return
// exactly one row) and surfaces as a data-access error, never success.
func (g *Gateway) ExecABM(ctx context.Context, sql string, args ...any) (*int64, error) {
	var result AbmResult
	found, err := g.QueryOne(ctx, &result, sql, args...)
	if err != nil {
		return nil, err
	}
	if !found {
		logger.Error(ctx, "abm procedure returned no result row", "sql", sql)
		return nil, apperror.NewDatabase(errNoAbmRow)
	}

	value, err := result.Outcome()
	if err != nil {
		logger.Warn(ctx, "abm procedure rejected operation",
			"sql", sql,
			"procedure_error", result.Error,
			"message", result.ErrorMsg,
		)
		return nil, err
	}
	return value, nil
}

type abmContractError string

func (e abmContractError) Error() string { return string(e) }

const errNoAbmRow = abmContractError("abm procedure returned no result row")
