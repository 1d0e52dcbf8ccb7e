package repositories

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmhub/internal/models"
)

func dealRow(id string, stage models.Stage) []driver.Value {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, "Deal " + id, "", "Acme", "", "ann", string(stage),
		"1200.50", nil, "USD", int64(40), int64(2), "EMEA",
		nil, nil, nil, nil, nil,
		"owner-1", now, now,
	}
}

var dealColumnNames = []string{
	"id", "deal_name", "project_name", "customer_name", "lead_name", "lead_owner", "stage",
	"total_contract_value", "total_revenue", "currency", "probability", "priority", "region",
	"expected_closing_date", "start_date", "end_date", "proposal_due_date", "project_duration",
	"owner_id", "created_at", "modified_at",
}

func TestDealRepository_GetByIDScansNullables(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM deals WHERE id = $1`)).
		WithArgs("d1").
		WillReturnRows(sqlmock.NewRows(dealColumnNames).AddRow(dealRow("d1", models.StageOffered)...))

	d, err := NewDealRepository(db).GetByID(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, models.StageOffered, d.Stage)
	require.NotNil(t, d.TotalContractValue)
	assert.True(t, d.TotalContractValue.Equal(decimal.RequireFromString("1200.5")))
	assert.Nil(t, d.TotalRevenue)
	require.NotNil(t, d.Probability)
	assert.Equal(t, 40, *d.Probability)
	assert.Nil(t, d.ExpectedClosingDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDealRepository_GetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM deals WHERE id = $1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(dealColumnNames))

	_, err = NewDealRepository(db).GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDealRepository_ListScopesByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM deals WHERE owner_id = $1 ORDER BY modified_at DESC`)).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows(dealColumnNames).
			AddRow(dealRow("d1", models.StageLead)...).
			AddRow(dealRow("d2", models.StageWon)...))

	deals, err := NewDealRepository(db).List(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, deals, 2)
	assert.Equal(t, "d2", deals[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDealRepository_UpdateStageIssuesSingleStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE deals SET stage=$1, modified_at=now() WHERE id=$2`)).
		WithArgs(models.StageWon, "d1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewDealRepository(db).UpdateStage(context.Background(), "d1", models.StageWon))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDealRepository_DeleteMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM deals WHERE id=$1`)).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewDealRepository(db).Delete(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRepository_RevokeOthersReturnsCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE sessions SET revoked_at=$1 WHERE user_id=$2 AND id<>$3 AND revoked_at IS NULL`)).
		WithArgs(at, "u1", "s1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := NewSessionRepository(db).RevokeOthers(context.Background(), "u1", "s1", at)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_RevokeAlreadyRevoked(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE sessions SET revoked_at=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewSessionRepository(db).Revoke(context.Background(), "s9", "u1", time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRepository_RotateRequiresCurrentToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	exp := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	q := regexp.QuoteMeta(`UPDATE sessions SET token=$1, expires_at=$2 WHERE id=$3 AND token=$4 AND revoked_at IS NULL`)
	mock.ExpectExec(q).WithArgs("new-1", exp, "s1", "old").WillReturnResult(sqlmock.NewResult(0, 1))
	// второй refresh со старым токеном уже ничего не находит
	mock.ExpectExec(q).WithArgs("new-2", exp, "s1", "old").WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewSessionRepository(db)
	require.NoError(t, repo.Rotate(context.Background(), "s1", "old", "new-1", exp))
	assert.ErrorIs(t, repo.Rotate(context.Background(), "s1", "old", "new-2", exp), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepository_InsertMarshalsDetails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO security_audit_log`)).
		WithArgs("a1", "u1", models.AuditSessionTerminated, "session", "s2",
			[]byte(`{"session_id":"s2","terminated_by":"user"}`), at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewAuditRepository(db).Insert(context.Background(), &models.AuditEntry{
		ID:           "a1",
		UserID:       "u1",
		Action:       models.AuditSessionTerminated,
		ResourceType: "session",
		ResourceID:   "s2",
		Details:      map[string]any{"terminated_by": "user", "session_id": "s2"},
		CreatedAt:    at,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepository_ListFiltersByActions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	actions := pq.Array([]string{"SIGN_OUT", "PASSWORD_CHANGE"})
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM security_audit_log WHERE 1=1 AND user_id = $1 AND action = ANY($2)`)).
		WithArgs("u1", actions).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at DESC LIMIT $3 OFFSET $4`)).
		WithArgs("u1", actions, 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "action", "resource_type", "resource_id", "details", "created_at"}).
			AddRow("a1", "u1", "PASSWORD_CHANGE", "user", "u1", []byte(`{"changed_at":"2024-05-01T10:00:00Z"}`), at))

	entries, total, err := NewAuditRepository(db).List(context.Background(), models.AuditFilter{
		UserID:  "u1",
		Actions: []models.AuditAction{models.AuditSignOut, models.AuditPasswordChange},
		Limit:   20,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, "2024-05-01T10:00:00Z", entries[0].Details["changed_at"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnRepository_GetDefaultsWhenNothingSaved(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT columns FROM column_preferences`)).
		WithArgs("u1", models.ViewLeads).
		WillReturnRows(sqlmock.NewRows([]string{"columns"}))

	cols, err := NewColumnRepository(db).Get(context.Background(), "u1", models.ViewLeads)
	require.NoError(t, err)
	assert.Nil(t, cols)
}

func TestColumnRepository_SaveUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (user_id, view) DO UPDATE`)).
		WithArgs("u1", models.ViewDeals, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewColumnRepository(db).Save(context.Background(), "u1", models.ViewDeals,
		[]models.Column{{Field: "stage", Label: "Stage", Visible: true}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
