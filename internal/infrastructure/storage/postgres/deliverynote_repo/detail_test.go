package deliverynote_repo

import (
	"context"
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yahveh/internal/infrastructure/storage/postgres"
)

var detailColumnNames = []string{
	"cod_detalle", "cod_nota_entrega", "cod_articulo", "descripcion_articulo",
	"descripcion2_articulo", "linea_articulo", "cod_linea", "cantidad",
	"precio_unitario", "precio_total", "precio_sin_factura", "aud_usuario",
}

// fakeQuerier serves detail rowsets keyed by the note id argument of the
// listing procedure. It counts round trips so tests can pin the transport
// contract: one plain query for a single note, one batch for many.
type fakeQuerier struct {
	rowsByNote map[int32][][]any
	queryCalls int
	batchCalls int
	batchSizes []int
}

func (f *fakeQuerier) GetQuerier(context.Context) postgres.Querier { return f }

func (f *fakeQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (f *fakeQuerier) Query(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
	f.queryCalls++
	return f.rowsFor(args[0]), nil
}

func (f *fakeQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("unexpected QueryRow")
}

func (f *fakeQuerier) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	f.batchCalls++
	f.batchSizes = append(f.batchSizes, b.Len())
	return &fakeBatchResults{querier: f, queued: b.QueuedQueries}
}

func (f *fakeQuerier) rowsFor(arg any) *fakeRows {
	noteID, _ := arg.(int32)
	return &fakeRows{columns: detailColumnNames, values: f.rowsByNote[noteID], cursor: -1}
}

type fakeBatchResults struct {
	querier *fakeQuerier
	queued  []*pgx.QueuedQuery
	next    int
}

func (r *fakeBatchResults) Exec() (pgconn.CommandTag, error) { return pgconn.CommandTag{}, nil }

func (r *fakeBatchResults) Query() (pgx.Rows, error) {
	q := r.queued[r.next]
	r.next++
	return r.querier.rowsFor(q.Arguments[0]), nil
}

func (r *fakeBatchResults) QueryRow() pgx.Row { panic("unexpected QueryRow") }

func (r *fakeBatchResults) Close() error { return nil }

type fakeRows struct {
	columns []string
	values  [][]any
	cursor  int
}

func (r *fakeRows) Close()                        {}
func (r *fakeRows) Err() error                    { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *fakeRows) Conn() *pgx.Conn               { return nil }
func (r *fakeRows) RawValues() [][]byte           { return nil }
func (r *fakeRows) Values() ([]any, error)        { return r.values[r.cursor], nil }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.columns))
	for i, name := range r.columns {
		fds[i] = pgconn.FieldDescription{Name: name}
	}
	return fds
}

func (r *fakeRows) Next() bool {
	r.cursor++
	return r.cursor < len(r.values)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.values[r.cursor]
	for i, d := range dest {
		dv := reflect.ValueOf(d).Elem()
		if row[i] == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		dv.Set(reflect.ValueOf(row[i]))
	}
	return nil
}

// detailValues builds one rowset row in detailColumns order.
func detailValues(detailID, noteID int64, articleID string, qty int32, unitPrice string) []any {
	desc := "Articulo " + articleID
	line := "LINEA A"
	unit := decimal.RequireFromString(unitPrice)
	total := unit.Mul(decimal.NewFromInt32(qty))
	return []any{
		detailID, noteID, articleID, &desc,
		(*string)(nil), &line, int64(3), qty,
		unit, total, (*decimal.Decimal)(nil), int64(7),
	}
}

func newDetailFixture(rowsByNote map[int32][][]any) (*DetailRepository, *fakeQuerier) {
	fq := &fakeQuerier{rowsByNote: rowsByNote}
	return NewDetailRepository(postgres.NewGateway(fq)), fq
}

func TestListByNotesBatchEmptyInput(t *testing.T) {
	repo, fq := newDetailFixture(nil)

	result, err := repo.ListByNotesBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
	assert.Zero(t, fq.queryCalls)
	assert.Zero(t, fq.batchCalls)
}

func TestListByNotesBatchSingleIDMatchesListByNote(t *testing.T) {
	rows := map[int32][][]any{
		7: {
			detailValues(1, 7, "A1", 3, "10.00"),
			detailValues(2, 7, "A2", 1, "25.00"),
		},
	}
	ctx := context.Background()

	repo, fq := newDetailFixture(rows)
	batched, err := repo.ListByNotesBatch(ctx, []int32{7})
	require.NoError(t, err)
	assert.Equal(t, 1, fq.queryCalls)
	assert.Zero(t, fq.batchCalls)

	plainRepo, _ := newDetailFixture(rows)
	plain, err := plainRepo.ListByNote(ctx, 7)
	require.NoError(t, err)

	require.Contains(t, batched, int32(7))
	assert.Equal(t, plain, batched[7])
}

func TestListByNotesBatchMapShape(t *testing.T) {
	repo, fq := newDetailFixture(map[int32][][]any{
		1: {detailValues(10, 1, "A1", 3, "10.00")},
		3: {
			detailValues(11, 3, "A2", 1, "25.00"),
			detailValues(12, 3, "A3", 2, "4.50"),
		},
	})

	result, err := repo.ListByNotesBatch(context.Background(), []int32{1, 2, 3})

	require.NoError(t, err)
	assert.Equal(t, 1, fq.batchCalls)
	assert.Equal(t, []int{3}, fq.batchSizes)
	require.Len(t, result, 3)

	// Detail-less note is still a key with an empty, non-nil slice.
	require.Contains(t, result, int32(2))
	assert.NotNil(t, result[2])
	assert.Empty(t, result[2])

	// Each rowset lands under the note id that queued it.
	require.Len(t, result[1], 1)
	assert.Equal(t, "A1", result[1][0].ArticleID)
	assert.Equal(t, int32(1), result[1][0].NoteID)
	require.Len(t, result[3], 2)
	assert.Equal(t, "A2", result[3][0].ArticleID)
	assert.Equal(t, "A3", result[3][1].ArticleID)
	assert.Equal(t, int32(3), result[3][1].NoteID)
}

func TestListByNotesBatchDeduplicatesIDs(t *testing.T) {
	repo, fq := newDetailFixture(map[int32][][]any{
		5: {detailValues(20, 5, "A1", 2, "8.00")},
		9: {detailValues(21, 9, "A2", 1, "12.00")},
	})

	result, err := repo.ListByNotesBatch(context.Background(), []int32{5, 9, 5})

	require.NoError(t, err)
	assert.Equal(t, []int{2}, fq.batchSizes)
	require.Len(t, result, 2)
	assert.Len(t, result[5], 1)
	assert.Len(t, result[9], 1)
}

func TestListByNotesBatchDuplicateOfOneIDDelegates(t *testing.T) {
	repo, fq := newDetailFixture(map[int32][][]any{
		5: {detailValues(20, 5, "A1", 2, "8.00")},
	})

	result, err := repo.ListByNotesBatch(context.Background(), []int32{5, 5})

	require.NoError(t, err)
	assert.Equal(t, 1, fq.queryCalls)
	assert.Zero(t, fq.batchCalls)
	require.Len(t, result, 1)
	assert.Len(t, result[5], 1)
}
