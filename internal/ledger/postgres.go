package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool used by the postgres store.
// pgxmock satisfies it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool creates a PostgresStore over an existing pool.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS processed_emails (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	email       TEXT NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS company_campaigns (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	company     TEXT NOT NULL,
	campaign_id TEXT NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_processed_emails_email ON processed_emails(email);
CREATE INDEX IF NOT EXISTS idx_company_campaigns_pair ON company_campaigns(company, campaign_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) ProcessedEmails(ctx context.Context) ([]ProcessedEmail, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT email, recorded_at FROM processed_emails ORDER BY recorded_at`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: select processed emails")
	}
	defer rows.Close()

	var records []ProcessedEmail
	for rows.Next() {
		var r ProcessedEmail
		if err := rows.Scan(&r.Email, &r.RecordedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan processed email")
		}
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "postgres: iterate processed emails")
}

func (s *PostgresStore) CompanyCampaigns(ctx context.Context) ([]CompanyCampaignRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT company, campaign_id, recorded_at FROM company_campaigns ORDER BY recorded_at`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: select company campaigns")
	}
	defer rows.Close()

	var records []CompanyCampaignRecord
	for rows.Next() {
		var r CompanyCampaignRecord
		if err := rows.Scan(&r.Company, &r.CampaignID, &r.RecordedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan company campaign")
		}
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "postgres: iterate company campaigns")
}

func (s *PostgresStore) AppendEmail(ctx context.Context, email string, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO processed_emails (id, email, recorded_at) VALUES ($1, $2, $3)`,
		uuid.New().String(), email, at,
	)
	return eris.Wrapf(err, "postgres: append email %s", email)
}

func (s *PostgresStore) AppendCompanyCampaign(ctx context.Context, company, campaignID string, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO company_campaigns (id, company, campaign_id, recorded_at) VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), company, campaignID, at,
	)
	return eris.Wrapf(err, "postgres: append company campaign %s", company)
}
