package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPostgres(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewPostgresFromPool(mock), mock
}

func TestPostgres_Migrate(t *testing.T) {
	t.Parallel()

	store, mock := newTestPostgres(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS processed_emails").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ProcessedEmails(t *testing.T) {
	t.Parallel()

	store, mock := newTestPostgres(t)
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT email, recorded_at FROM processed_emails").
		WillReturnRows(pgxmock.NewRows([]string{"email", "recorded_at"}).
			AddRow("alice@acme.com", now).
			AddRow("bob@x.com", now))

	emails, err := store.ProcessedEmails(context.Background())
	require.NoError(t, err)
	require.Len(t, emails, 2)
	assert.Equal(t, "alice@acme.com", emails[0].Email)
	assert.Equal(t, now, emails[0].RecordedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CompanyCampaigns(t *testing.T) {
	t.Parallel()

	store, mock := newTestPostgres(t)
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT company, campaign_id, recorded_at FROM company_campaigns").
		WillReturnRows(pgxmock.NewRows([]string{"company", "campaign_id", "recorded_at"}).
			AddRow("Acme", "cam-1", now))

	pairs, err := store.CompanyCampaigns(context.Background())
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "Acme", pairs[0].Company)
	assert.Equal(t, "cam-1", pairs[0].CampaignID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_AppendEmail(t *testing.T) {
	t.Parallel()

	store, mock := newTestPostgres(t)
	at := time.Now().UTC()
	mock.ExpectExec("INSERT INTO processed_emails").
		WithArgs(pgxmock.AnyArg(), "alice@acme.com", at).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.AppendEmail(context.Background(), "alice@acme.com", at))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_AppendCompanyCampaign(t *testing.T) {
	t.Parallel()

	store, mock := newTestPostgres(t)
	at := time.Now().UTC()
	mock.ExpectExec("INSERT INTO company_campaigns").
		WithArgs(pgxmock.AnyArg(), "Acme", "cam-1", at).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.AppendCompanyCampaign(context.Background(), "Acme", "cam-1", at))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_QueryError(t *testing.T) {
	t.Parallel()

	store, mock := newTestPostgres(t)
	mock.ExpectQuery("SELECT email, recorded_at FROM processed_emails").
		WillReturnError(assert.AnError)

	_, err := store.ProcessedEmails(context.Background())
	require.Error(t, err)
}
