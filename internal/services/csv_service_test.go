package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmhub/internal/apperrors"
	"crmhub/internal/listing"
	"crmhub/internal/models"
)

func newCSV(deals *mockDealRepo, cols *mockColumnRepo, audit *recordingAudit) *CSVService {
	return NewCSVService(
		NewDealService(deals, nil),
		NewLeadService(&mockLeadRepo{}, deals),
		NewContactService(&mockContactRepo{}),
		NewColumnService(cols),
		NewAuditService(audit),
	)
}

func exportFixture() (*mockDealRepo, *mockColumnRepo) {
	d1 := newDeal("d1", sales.UserID, models.StageLead)
	d1.CustomerName = `Acme "Big" Corp`
	v := decimal.NewFromInt(1250)
	d1.TotalContractValue = &v
	d2 := newDeal("d2", sales.UserID, models.StageWon)
	d2.CustomerName = "Globex"

	cols := &mockColumnRepo{saved: map[models.View][]models.Column{
		models.ViewDeals: {
			{Field: "customer_name", Label: "Customer", Visible: true, Order: 0},
			{Field: "stage", Label: "Stage", Visible: true, Order: 1},
			{Field: "total_contract_value", Label: "Value", Visible: true, Order: 2},
		},
	}}
	return dealsByID(d1, d2), cols
}

func TestExport_AllRecords(t *testing.T) {
	deals, cols := exportFixture()
	audit := &recordingAudit{}
	svc := newCSV(deals, cols, audit)

	file, err := svc.Export(context.Background(), sales, models.ViewDeals, nil, listing.Query{})
	require.NoError(t, err)
	assert.Equal(t, "deals.csv", file.Name)
	assert.Equal(t, 2, file.Rows)
	want := `"ID","Customer","Stage","Value"` + "\r\n" +
		`"d1","Acme ""Big"" Corp","Lead","1250"` + "\r\n" +
		`"d2","Globex","Won",""` + "\r\n"
	assert.Equal(t, want, string(file.Data))
	assert.Equal(t, models.AuditRecordsExported, audit.last().Action)
}

func TestExport_Selected(t *testing.T) {
	deals, cols := exportFixture()
	svc := newCSV(deals, cols, &recordingAudit{})

	file, err := svc.Export(context.Background(), sales, models.ViewDeals, []string{"d2", "missing"}, listing.Query{})
	require.NoError(t, err)
	assert.Equal(t, "selected_deals.csv", file.Name)
	assert.Equal(t, 1, file.Rows)
	assert.Contains(t, string(file.Data), `"d2","Globex"`)
	assert.NotContains(t, string(file.Data), `"d1"`)
}

func TestExport_EmptySelection(t *testing.T) {
	deals, cols := exportFixture()
	svc := newCSV(deals, cols, &recordingAudit{})

	_, err := svc.Export(context.Background(), sales, models.ViewDeals, []string{}, listing.Query{})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.TypeValidation, appErr.Type)
	assert.Equal(t, "No records selected for export", appErr.Message)
}

func TestImport_ReportsBadRows(t *testing.T) {
	var created []*models.Deal
	deals := &mockDealRepo{createFn: func(_ context.Context, d *models.Deal) error {
		created = append(created, d)
		return nil
	}}
	audit := &recordingAudit{}
	svc := newCSV(deals, &mockColumnRepo{}, audit)

	in := "\ufeffDeal Name,Stage,Value\n" +
		"Apollo,Lead,1000\n" +
		",,\n" +
		"Zeus,Negotiation,5\n" +
		"Hera,Won,abc\n" +
		`Athena,Won,"2,000"` + "\n"
	res, err := svc.Import(context.Background(), sales, models.ViewDeals, strings.NewReader(in), ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, 4, res.Errors[0].Row)
	assert.Contains(t, res.Errors[0].Error, "Invalid stage")
	assert.Equal(t, 5, res.Errors[1].Row)

	require.Len(t, created, 2)
	assert.Equal(t, "Apollo", created[0].DealName)
	assert.Equal(t, "2000", created[1].TotalContractValue.String())
	assert.Equal(t, sales.UserID, created[1].OwnerID)
	assert.Equal(t, 2, audit.last().Details["failed"])
}

func TestImport_UpdatesExisting(t *testing.T) {
	deals := dealsByID(newDeal("d1", sales.UserID, models.StageLead))
	var updated *models.Deal
	deals.updateFn = func(_ context.Context, d *models.Deal) error {
		updated = d
		return nil
	}
	svc := newCSV(deals, &mockColumnRepo{}, &recordingAudit{})

	in := "ID,deal_name,stage\nd1,Renamed,Qualified\n"
	res, err := svc.Import(context.Background(), sales, models.ViewDeals, strings.NewReader(in), ImportOptions{UpdateExisting: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Zero(t, res.Created)
	require.NotNil(t, updated)
	assert.Equal(t, "Renamed", updated.DealName)
	assert.Equal(t, models.StageQualified, updated.Stage)
}

func TestImport_MissingNameColumn(t *testing.T) {
	svc := newCSV(&mockDealRepo{}, &mockColumnRepo{}, &recordingAudit{})

	_, err := svc.Import(context.Background(), sales, models.ViewDeals, strings.NewReader("Stage,Value\nLead,1\n"), ImportOptions{})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "Missing required column", appErr.Message)

	_, err = svc.Import(context.Background(), sales, models.ViewDeals, strings.NewReader(""), ImportOptions{})
	assert.True(t, apperrors.Is(err, apperrors.TypeValidation))
}

func roundTripDeals() []*models.Deal {
	closing := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	v := decimal.RequireFromString("1250.50")
	p := 40

	d1 := newDeal("d1", sales.UserID, models.StageQualified)
	d1.ProjectName = "Rollout"
	d1.CustomerName = "Acme"
	d1.Priority = 2
	d1.Probability = &p
	d1.TotalContractValue = &v
	d1.ExpectedClosingDate = &closing
	d1.CreatedAt, d1.ModifiedAt = created, created

	d2 := newDeal("d2", sales.UserID, models.StageLead)
	d2.CustomerName = "Globex"
	d2.CreatedAt, d2.ModifiedAt = created, created
	return []*models.Deal{d1, d2}
}

func reimport(t *testing.T, cols *mockColumnRepo) (map[string]*models.Deal, *ImportResult) {
	t.Helper()
	deals := dealsByID(roundTripDeals()...)
	updated := map[string]*models.Deal{}
	deals.updateFn = func(_ context.Context, d *models.Deal) error {
		updated[d.ID] = d
		return nil
	}
	deals.createFn = func(context.Context, *models.Deal) error {
		t.Error("round trip must not create records")
		return nil
	}
	svc := newCSV(deals, cols, &recordingAudit{})
	ctx := context.Background()

	file, err := svc.Export(ctx, sales, models.ViewDeals, nil, listing.Query{})
	require.NoError(t, err)
	res, err := svc.Import(ctx, sales, models.ViewDeals, bytes.NewReader(file.Data), ImportOptions{UpdateExisting: true})
	require.NoError(t, err)
	return updated, res
}

func TestExportImportRoundTrip_DefaultLayout(t *testing.T) {
	updated, res := reimport(t, &mockColumnRepo{})

	assert.Empty(t, res.Errors)
	assert.Equal(t, 2, res.Updated)
	assert.Zero(t, res.Created)

	orig := roundTripDeals()[0]
	got := updated["d1"]
	require.NotNil(t, got)
	assert.Equal(t, orig.DealName, got.DealName, "hidden deal_name is kept")
	assert.Equal(t, orig.ProjectName, got.ProjectName)
	assert.Equal(t, orig.Stage, got.Stage)
	assert.Equal(t, orig.Priority, got.Priority)
	assert.Equal(t, *orig.Probability, *got.Probability)
	assert.True(t, orig.TotalContractValue.Equal(*got.TotalContractValue))
	assert.True(t, orig.ExpectedClosingDate.Equal(*got.ExpectedClosingDate))

	assert.Nil(t, updated["d2"].Probability)
	assert.Nil(t, updated["d2"].TotalContractValue)
}

func TestExportImportRoundTrip_ReadOnlyColumnsVisible(t *testing.T) {
	cols := &mockColumnRepo{saved: map[models.View][]models.Column{
		models.ViewDeals: {
			{Field: "deal_name", Label: "Deal Name", Visible: true, Order: 0},
			{Field: "stage", Label: "Stage", Visible: true, Order: 1},
			{Field: "created_at", Label: "Created", Visible: true, Order: 2},
			{Field: "modified_at", Label: "Modified", Visible: true, Order: 3},
		},
	}}
	updated, res := reimport(t, cols)

	assert.Empty(t, res.Errors)
	assert.Equal(t, 2, res.Updated)
	assert.True(t, updated["d1"].CreatedAt.Equal(roundTripDeals()[0].CreatedAt), "created_at is read-only")
}

func TestImport_NewRowWithoutNameColumn(t *testing.T) {
	deals := dealsByID(newDeal("d1", sales.UserID, models.StageLead))
	svc := newCSV(deals, &mockColumnRepo{}, &recordingAudit{})

	in := "ID,Stage\nd1,Won\n,Lead\n"
	res, err := svc.Import(context.Background(), sales, models.ViewDeals, strings.NewReader(in), ImportOptions{UpdateExisting: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Zero(t, res.Created)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Contains(t, res.Errors[0].Error, "Missing required column")
}
