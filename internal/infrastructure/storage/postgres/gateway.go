package postgres

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"yahveh/internal/core/apperror"
	"yahveh/pkg/logger"
)

// QuerierSource yields the querier for one round trip: the context
// transaction when present, a pooled connection otherwise. *TxManager is
// the production implementation.
type QuerierSource interface {
	GetQuerier(ctx context.Context) Querier
}

// Gateway executes parameterized statements against the stored-procedure
// layer and maps result rows to structs by their "db" tags.
//
// Every call is a self-contained round trip: the connection comes from the
// pool (or the context transaction inside RunInTransaction) and is released
// on all exit paths. Any driver failure is wrapped as an opaque data-access
// error; callers never receive partial results.
type Gateway struct {
	src QuerierSource
}

// NewGateway creates a gateway over a querier source.
func NewGateway(src QuerierSource) *Gateway {
	return &Gateway{src: src}
}

// QueryOne executes a query and maps the first row into dst.
// Returns false when the rowset is empty.
func (g *Gateway) QueryOne(ctx context.Context, dst any, sql string, args ...any) (bool, error) {
	ctx, span := g.startSpan(ctx, "postgres.query_one", sql)
	defer span.End()

	querier := g.src.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, dst, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return false, nil
		}
		return false, g.wrap(ctx, sql, err)
	}
	return true, nil
}

// QueryList executes a query and maps every row into dst (a *[]T).
// dst is left holding an empty, non-nil slice when there are no rows.
func (g *Gateway) QueryList(ctx context.Context, dst any, sql string, args ...any) error {
	ctx, span := g.startSpan(ctx, "postgres.query_list", sql)
	defer span.End()

	querier := g.src.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, dst, sql, args...); err != nil {
		return g.wrap(ctx, sql, err)
	}
	return nil
}

// Exec executes a statement and returns the affected row count.
func (g *Gateway) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	ctx, span := g.startSpan(ctx, "postgres.exec", sql)
	defer span.End()

	querier := g.src.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return 0, g.wrap(ctx, sql, err)
	}
	return tag.RowsAffected(), nil
}

// BatchQuery represents one query in a batch round trip.
type BatchQuery struct {
	SQL  string
	Args []any
}

// QueryBatch sends all queries in a single round trip and hands each
// result rowset to scan in queue order. scan owns closing-by-consuming the
// rows (pgxscan.ScanAll does).
func (g *Gateway) QueryBatch(ctx context.Context, queries []BatchQuery, scan func(i int, rows pgx.Rows) error) error {
	if len(queries) == 0 {
		return nil
	}

	ctx, span := g.startSpan(ctx, "postgres.query_batch", queries[0].SQL)
	span.SetAttributes(attribute.Int("db.batch_size", len(queries)))
	defer span.End()

	batch := &pgx.Batch{}
	for _, q := range queries {
		batch.Queue(q.SQL, q.Args...)
	}

	querier := g.src.GetQuerier(ctx)
	results := querier.SendBatch(ctx, batch)
	defer results.Close()

	for i := range queries {
		rows, err := results.Query()
		if err != nil {
			return g.wrap(ctx, queries[i].SQL, err)
		}
		if err := scan(i, rows); err != nil {
			return g.wrap(ctx, queries[i].SQL, err)
		}
	}

	return nil
}

func (g *Gateway) startSpan(ctx context.Context, name, sql string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("db.statement", sql)),
	)
}

// wrap logs the failing statement with full detail and returns an opaque
// data-access error for the caller.
func (g *Gateway) wrap(ctx context.Context, sql string, err error) error {
	logger.Error(ctx, "database call failed", "sql", sql, "error", err)
	return apperror.NewDatabase(err)
}
