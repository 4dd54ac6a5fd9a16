package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS processed_emails (
	id          TEXT PRIMARY KEY,
	email       TEXT NOT NULL,
	recorded_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS company_campaigns (
	id          TEXT PRIMARY KEY,
	company     TEXT NOT NULL,
	campaign_id TEXT NOT NULL,
	recorded_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_processed_emails_email ON processed_emails(email);
CREATE INDEX IF NOT EXISTS idx_company_campaigns_pair ON company_campaigns(company, campaign_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ProcessedEmails(ctx context.Context) ([]ProcessedEmail, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT email, recorded_at FROM processed_emails ORDER BY recorded_at`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: select processed emails")
	}
	defer rows.Close() //nolint:errcheck

	var records []ProcessedEmail
	for rows.Next() {
		var r ProcessedEmail
		if err := rows.Scan(&r.Email, &r.RecordedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan processed email")
		}
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: iterate processed emails")
}

func (s *SQLiteStore) CompanyCampaigns(ctx context.Context) ([]CompanyCampaignRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT company, campaign_id, recorded_at FROM company_campaigns ORDER BY recorded_at`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: select company campaigns")
	}
	defer rows.Close() //nolint:errcheck

	var records []CompanyCampaignRecord
	for rows.Next() {
		var r CompanyCampaignRecord
		if err := rows.Scan(&r.Company, &r.CampaignID, &r.RecordedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan company campaign")
		}
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: iterate company campaigns")
}

func (s *SQLiteStore) AppendEmail(ctx context.Context, email string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO processed_emails (id, email, recorded_at) VALUES (?, ?, ?)`,
		uuid.New().String(), email, at,
	)
	return eris.Wrapf(err, "sqlite: append email %s", email)
}

func (s *SQLiteStore) AppendCompanyCampaign(ctx context.Context, company, campaignID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO company_campaigns (id, company, campaign_id, recorded_at) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), company, campaignID, at,
	)
	return eris.Wrapf(err, "sqlite: append company campaign %s", company)
}
