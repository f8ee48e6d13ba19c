package deliverynote

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yahveh/internal/core/apperror"
	appctx "yahveh/internal/core/context"
)

// fixture simulates the stored-procedure layer in memory: aggregates are
// recomputed from the details on every read and the void rule is enforced
// the way the procedure does it.
type fixture struct {
	notes      map[int32]DeliveryNote
	details    map[int32]Detail
	nextNote   int32
	nextDetail int32

	sales []SalesReportRow

	// failArticle makes detail creation for that article fail with a
	// business rejection, simulating an out-of-stock verdict.
	failArticle string

	batchCalls      int
	listByNoteCalls int
}

const alreadyVoidedMsg = "La nota de entrega ya se encuentra anulada"

func newFixture() (*fixture, *Service) {
	f := &fixture{
		notes:      make(map[int32]DeliveryNote),
		details:    make(map[int32]Detail),
		nextNote:   1,
		nextDetail: 1,
	}
	svc := NewService(&fakeNotes{f}, &fakeDetails{f}, f)
	return f, svc
}

func authedCtx() context.Context {
	return appctx.WithActor(context.Background(), &appctx.Actor{
		UserID: 7,
		Login:  "ana",
		Role:   "ADMIN",
	})
}

// RunInTransaction implements tx.Manager with snapshot-rollback, so the
// all-or-nothing create contract is observable in tests.
func (f *fixture) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	notesBefore := make(map[int32]DeliveryNote, len(f.notes))
	for k, v := range f.notes {
		notesBefore[k] = v
	}
	detailsBefore := make(map[int32]Detail, len(f.details))
	for k, v := range f.details {
		detailsBefore[k] = v
	}

	if err := fn(ctx); err != nil {
		f.notes = notesBefore
		f.details = detailsBefore
		return err
	}
	return nil
}

// view returns the note with procedure-computed aggregates.
func (f *fixture) view(noteID int32) (DeliveryNote, bool) {
	note, ok := f.notes[noteID]
	if !ok {
		return DeliveryNote{}, false
	}

	total := decimal.Zero
	var count int32
	for _, d := range f.details {
		if d.NoteID == noteID {
			total = total.Add(d.LineTotal)
			count += d.Quantity
		}
	}
	note.TotalAmount = total
	note.TotalArticleCount = count
	note.Details = nil
	return note, true
}

func (f *fixture) detailsOf(noteID int32) []Detail {
	out := make([]Detail, 0)
	for _, d := range f.details {
		if d.NoteID == noteID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DetailID < out[j].DetailID })
	return out
}

type fakeNotes struct{ f *fixture }

func (r *fakeNotes) listWhere(keep func(DeliveryNote) bool) []DeliveryNote {
	out := make([]DeliveryNote, 0)
	for id := range r.f.notes {
		note, _ := r.f.view(id)
		if keep(note) {
			out = append(out, note)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NoteID < out[j].NoteID })
	return out
}

func (r *fakeNotes) ListValid(ctx context.Context) ([]DeliveryNote, error) {
	return r.listWhere(func(n DeliveryNote) bool { return n.Status == StatusValid }), nil
}

func (r *fakeNotes) ListAll(ctx context.Context) ([]DeliveryNote, error) {
	return r.listWhere(func(n DeliveryNote) bool { return true }), nil
}

func (r *fakeNotes) ListVoided(ctx context.Context) ([]DeliveryNote, error) {
	return r.listWhere(func(n DeliveryNote) bool { return n.Status == StatusVoided }), nil
}

func (r *fakeNotes) FindByID(ctx context.Context, noteID int32) (*DeliveryNote, bool, error) {
	note, ok := r.f.view(noteID)
	if !ok {
		return nil, false, nil
	}
	return &note, true, nil
}

func (r *fakeNotes) ListByClient(ctx context.Context, clientID int32) ([]DeliveryNote, error) {
	return r.listWhere(func(n DeliveryNote) bool {
		return n.ClientID == clientID && n.Status == StatusValid
	}), nil
}

func (r *fakeNotes) ListByDateRange(ctx context.Context, from, to *time.Time) ([]DeliveryNote, error) {
	return r.listWhere(func(n DeliveryNote) bool {
		if n.Status != StatusValid {
			return false
		}
		if from != nil && n.Date.Before(*from) {
			return false
		}
		if to != nil && n.Date.After(*to) {
			return false
		}
		return true
	}), nil
}

func (r *fakeNotes) Create(ctx context.Context, clientID int32, date time.Time, address, zoneLabel string, userID int64) (int32, error) {
	id := r.f.nextNote
	r.f.nextNote++
	r.f.notes[id] = DeliveryNote{
		NoteID:     id,
		ClientID:   clientID,
		Date:       date,
		Address:    address,
		ZoneLabel:  zoneLabel,
		CreatedBy:  int32(userID),
		CreatedAt:  time.Now(),
		Status:     StatusValid,
		StatusText: "VALIDA",
	}
	return id, nil
}

func (r *fakeNotes) Update(ctx context.Context, noteID int32, date time.Time, address, zoneLabel string, userID int64) error {
	note, ok := r.f.notes[noteID]
	if !ok {
		return apperror.NewBusinessRule("La nota de entrega no existe")
	}
	note.Date = date
	note.Address = address
	note.ZoneLabel = zoneLabel
	r.f.notes[noteID] = note
	return nil
}

func (r *fakeNotes) Void(ctx context.Context, noteID int32, userID int64) error {
	note, ok := r.f.notes[noteID]
	if !ok {
		return apperror.NewBusinessRule("La nota de entrega no existe")
	}
	if note.Status == StatusVoided {
		return apperror.NewBusinessRule(alreadyVoidedMsg)
	}
	note.Status = StatusVoided
	note.StatusText = "ANULADA"
	r.f.notes[noteID] = note
	return nil
}

func (r *fakeNotes) Delete(ctx context.Context, noteID int32, userID int64) error {
	delete(r.f.notes, noteID)
	for id, d := range r.f.details {
		if d.NoteID == noteID {
			delete(r.f.details, id)
		}
	}
	return nil
}

func (r *fakeNotes) FetchReportData(ctx context.Context, noteID int32) (*ReportAggregate, error) {
	note, ok := r.f.view(noteID)
	if !ok {
		return nil, apperror.NewNotFound("delivery note", noteID)
	}
	agg := &ReportAggregate{
		NoteID:            note.NoteID,
		Date:              note.Date,
		ClientID:          note.ClientID,
		ClientName:        note.ClientName,
		Address:           note.Address,
		ZoneLabel:         note.ZoneLabel,
		Status:            note.Status,
		StatusText:        note.StatusText,
		TotalAmount:       note.TotalAmount,
		TotalArticleCount: note.TotalArticleCount,
		Lines:             make([]ReportLine, 0),
	}
	for _, d := range r.f.detailsOf(noteID) {
		agg.Lines = append(agg.Lines, ReportLine{
			ArticleID:          d.ArticleID,
			ArticleLine:        d.ArticleLine,
			ArticleDescription: d.ArticleDescription,
			Quantity:           d.Quantity,
			UnitPrice:          d.UnitPrice,
			LineTotal:          d.LineTotal,
			NoInvoicePrice:     d.NoInvoicePrice,
		})
	}
	return agg, nil
}

func (r *fakeNotes) SalesReport(ctx context.Context, from, to time.Time) ([]SalesReportRow, error) {
	return r.f.sales, nil
}

type fakeDetails struct{ f *fixture }

func (r *fakeDetails) ListByNote(ctx context.Context, noteID int32) ([]Detail, error) {
	r.f.listByNoteCalls++
	return r.f.detailsOf(noteID), nil
}

func (r *fakeDetails) ListByNotesBatch(ctx context.Context, noteIDs []int32) (map[int32][]Detail, error) {
	r.f.batchCalls++
	result := make(map[int32][]Detail, len(noteIDs))
	for _, id := range noteIDs {
		result[id] = make([]Detail, 0)
	}
	for _, id := range noteIDs {
		result[id] = r.f.detailsOf(id)
	}
	return result, nil
}

func (r *fakeDetails) FindByID(ctx context.Context, detailID int32) (*Detail, bool, error) {
	d, ok := r.f.details[detailID]
	if !ok {
		return nil, false, nil
	}
	return &d, true, nil
}

func (r *fakeDetails) Create(ctx context.Context, noteID int32, line LineInput, userID int64) (int32, error) {
	if line.ArticleID == r.f.failArticle {
		return 0, apperror.NewBusinessRule("Stock insuficiente para el articulo " + line.ArticleID)
	}
	id := r.f.nextDetail
	r.f.nextDetail++
	r.f.details[id] = Detail{
		DetailID:       id,
		NoteID:         noteID,
		ArticleID:      line.ArticleID,
		Quantity:       line.Quantity,
		UnitPrice:      line.UnitPrice,
		LineTotal:      line.UnitPrice.Mul(decimal.NewFromInt32(line.Quantity)),
		NoInvoicePrice: line.NoInvoicePrice,
		CreatedBy:      int32(userID),
	}
	return id, nil
}

func (r *fakeDetails) Update(ctx context.Context, detailID int32, in DetailInput, userID int64) error {
	d, ok := r.f.details[detailID]
	if !ok {
		return apperror.NewBusinessRule("El detalle no existe")
	}
	d.Quantity = in.Quantity
	d.UnitPrice = in.UnitPrice
	d.NoInvoicePrice = in.NoInvoicePrice
	d.LineTotal = in.UnitPrice.Mul(decimal.NewFromInt32(in.Quantity))
	r.f.details[detailID] = d
	return nil
}

func (r *fakeDetails) Delete(ctx context.Context, detailID int32, userID int64) error {
	delete(r.f.details, detailID)
	return nil
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleCreate() CreateInput {
	return CreateInput{
		ClientID:  42,
		Date:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Address:   "Av. Siempre Viva 123",
		ZoneLabel: "Zona Norte",
		Lines: []LineInput{
			{ArticleID: "A1", Quantity: 3, UnitPrice: price("10.00")},
			{ArticleID: "A2", Quantity: 1, UnitPrice: price("25.00")},
		},
	}
}

func TestCreateComputesAggregates(t *testing.T) {
	_, svc := newFixture()
	ctx := authedCtx()

	note, err := svc.Create(ctx, sampleCreate())
	require.NoError(t, err)

	assert.Equal(t, int32(42), note.ClientID)
	assert.Equal(t, StatusValid, note.Status)
	assert.Len(t, note.Details, 2)
	assert.Equal(t, int32(4), note.TotalArticleCount)
	assert.True(t, note.TotalAmount.Equal(price("55.00")),
		"total amount %s", note.TotalAmount)
}

func TestCreateRollsBackWhenLineFails(t *testing.T) {
	f, svc := newFixture()
	f.failArticle = "A2"
	ctx := authedCtx()

	in := sampleCreate()
	in.Lines = append(in.Lines, LineInput{ArticleID: "A3", Quantity: 2, UnitPrice: price("5.00")})

	_, err := svc.Create(ctx, in)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
	assert.Equal(t, "Stock insuficiente para el articulo A2", appErr.Message)

	// No partial note is observable afterwards.
	assert.Empty(t, f.notes)
	assert.Empty(t, f.details)
}

func TestCreateRequiresAuthenticatedActor(t *testing.T) {
	_, svc := newFixture()

	_, err := svc.Create(context.Background(), sampleCreate())
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestListHydratesWithSingleBatchCall(t *testing.T) {
	f, svc := newFixture()
	ctx := authedCtx()

	for i := 0; i < 3; i++ {
		in := sampleCreate()
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}
	// One note with no lines at all, straight through the repo fake.
	noDetails, err := (&fakeNotes{f}).Create(ctx, 99, time.Now(), "", "", 7)
	require.NoError(t, err)

	f.batchCalls = 0
	f.listByNoteCalls = 0

	notes, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 4)

	assert.Equal(t, 1, f.batchCalls, "listing must hydrate in one batch")
	assert.Zero(t, f.listByNoteCalls, "listing must not fall back to per-note calls")

	for _, n := range notes {
		require.NotNil(t, n.Details, "every note gets a details slice")
		if n.NoteID == noDetails {
			assert.Empty(t, n.Details)
		} else {
			assert.Len(t, n.Details, 2)
		}
	}
}

func TestVoidIsTerminal(t *testing.T) {
	_, svc := newFixture()
	ctx := authedCtx()

	note, err := svc.Create(ctx, sampleCreate())
	require.NoError(t, err)

	voided, err := svc.Void(ctx, note.NoteID)
	require.NoError(t, err)
	assert.Equal(t, StatusVoided, voided.Status)
	assert.True(t, voided.IsVoided())

	valid, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, valid)

	voidedList, err := svc.ListVoided(ctx)
	require.NoError(t, err)
	require.Len(t, voidedList, 1)
	assert.Equal(t, note.NoteID, voidedList[0].NoteID)
}

func TestVoidTwiceSurfacesProcedureVerdict(t *testing.T) {
	_, svc := newFixture()
	ctx := authedCtx()

	note, err := svc.Create(ctx, sampleCreate())
	require.NoError(t, err)

	_, err = svc.Void(ctx, note.NoteID)
	require.NoError(t, err)

	_, err = svc.Void(ctx, note.NoteID)
	require.Error(t, err)
	require.True(t, apperror.IsBusinessRule(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, alreadyVoidedMsg, appErr.Message)
}

func TestUpdateLeavesClientAndDetailsUntouched(t *testing.T) {
	_, svc := newFixture()
	ctx := authedCtx()

	note, err := svc.Create(ctx, sampleCreate())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, note.NoteID, UpdateInput{
		Date:      time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Address:   "Calle Nueva 456",
		ZoneLabel: "Zona Sur",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(42), updated.ClientID)
	assert.Equal(t, "Calle Nueva 456", updated.Address)
	assert.Len(t, updated.Details, 2)
	assert.True(t, updated.TotalAmount.Equal(price("55.00")))
}

func TestGetByIDNotFound(t *testing.T) {
	_, svc := newFixture()

	_, err := svc.GetByID(authedCtx(), 9999)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRemoveDetailRecomputesAggregates(t *testing.T) {
	_, svc := newFixture()
	ctx := authedCtx()

	note, err := svc.Create(ctx, sampleCreate())
	require.NoError(t, err)

	require.NoError(t, svc.RemoveDetail(ctx, note.Details[0].DetailID))

	after, err := svc.GetByID(ctx, note.NoteID)
	require.NoError(t, err)
	assert.Len(t, after.Details, 1)
	assert.Equal(t, int32(1), after.TotalArticleCount)
	assert.True(t, after.TotalAmount.Equal(price("25.00")))
}

func TestSalesReportValidatesRange(t *testing.T) {
	_, svc := newFixture()
	ctx := authedCtx()

	from := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.SalesReport(ctx, from, to)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestListByDateRangeRejectsInvertedBounds(t *testing.T) {
	_, svc := newFixture()
	ctx := authedCtx()

	from := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.ListByDateRange(ctx, &from, &to)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreateValidation(t *testing.T) {
	_, svc := newFixture()
	ctx := authedCtx()

	tests := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"missing client", func(in *CreateInput) { in.ClientID = 0 }},
		{"missing date", func(in *CreateInput) { in.Date = time.Time{} }},
		{"no lines", func(in *CreateInput) { in.Lines = nil }},
		{"zero quantity", func(in *CreateInput) { in.Lines[0].Quantity = 0 }},
		{"negative price", func(in *CreateInput) { in.Lines[0].UnitPrice = price("-1") }},
		{"missing article", func(in *CreateInput) { in.Lines[0].ArticleID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleCreate()
			tt.mutate(&in)

			_, err := svc.Create(ctx, in)
			require.Error(t, err)

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
		})
	}
}
