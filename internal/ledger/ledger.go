// Package ledger tracks already-contacted people and already-claimed
// company×campaign pairs across sync runs.
package ledger

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-sync/internal/model"
)

// CompanyCampaign is the composite key claimed by an accepted main
// lead. Using a struct key instead of a delimited string keeps company
// names containing the delimiter from colliding.
type CompanyCampaign struct {
	Company    string
	CampaignID string
}

// ProcessedEmail is one append-only row of the processed-person set.
type ProcessedEmail struct {
	Email      string
	RecordedAt time.Time
}

// CompanyCampaignRecord is one append-only row of the company×campaign set.
type CompanyCampaignRecord struct {
	Company    string
	CampaignID string
	RecordedAt time.Time
}

// Store is the persisted side of the ledger: two append-only tabular
// stores supporting full read for bootstrap and single-row append.
type Store interface {
	ProcessedEmails(ctx context.Context) ([]ProcessedEmail, error)
	CompanyCampaigns(ctx context.Context) ([]CompanyCampaignRecord, error)
	AppendEmail(ctx context.Context, email string, at time.Time) error
	AppendCompanyCampaign(ctx context.Context, company, campaignID string, at time.Time) error

	Migrate(ctx context.Context) error
	Close() error
}

// Stats reports the size of the two loaded sets.
type Stats struct {
	Emails           int
	CompanyCampaigns int
}

// Ledger is the in-memory projection of the persisted sets for the
// duration of one run. It is single-writer, single-reader within one
// process; no locking.
type Ledger struct {
	store  Store
	emails map[string]struct{}
	pairs  map[CompanyCampaign]struct{}
	now    func() time.Time
}

// New creates a Ledger over the given store. Load must be called
// before any membership test.
func New(store Store) *Ledger {
	return &Ledger{
		store:  store,
		emails: make(map[string]struct{}),
		pairs:  make(map[CompanyCampaign]struct{}),
		now:    time.Now,
	}
}

// Load reads both persisted sets into memory.
func (l *Ledger) Load(ctx context.Context) error {
	emails, err := l.store.ProcessedEmails(ctx)
	if err != nil {
		return eris.Wrap(err, "ledger: load processed emails")
	}
	pairs, err := l.store.CompanyCampaigns(ctx)
	if err != nil {
		return eris.Wrap(err, "ledger: load company campaigns")
	}

	l.emails = make(map[string]struct{}, len(emails))
	for _, e := range emails {
		l.emails[model.NormalizeEmail(e.Email)] = struct{}{}
	}
	l.pairs = make(map[CompanyCampaign]struct{}, len(pairs))
	for _, p := range pairs {
		l.pairs[CompanyCampaign{Company: p.Company, CampaignID: p.CampaignID}] = struct{}{}
	}
	return nil
}

// IsProcessed reports whether the email was accepted in this run or
// any earlier one.
func (l *Ledger) IsProcessed(email string) bool {
	_, ok := l.emails[model.NormalizeEmail(email)]
	return ok
}

// IsCompanyCampaignSeen reports whether the company already has a lead
// in the campaign.
func (l *Ledger) IsCompanyCampaignSeen(company, campaignID string) bool {
	_, ok := l.pairs[CompanyCampaign{Company: company, CampaignID: campaignID}]
	return ok
}

// RecordEmail marks an email as processed. The in-memory set is
// updated first so the rest of the run can never double-submit; a
// persisted append failure is returned for the caller to log, and
// only means the mark is lost to future runs.
func (l *Ledger) RecordEmail(ctx context.Context, email string) error {
	norm := model.NormalizeEmail(email)
	l.emails[norm] = struct{}{}
	if err := l.store.AppendEmail(ctx, norm, l.now().UTC()); err != nil {
		return eris.Wrap(err, "ledger: append email")
	}
	return nil
}

// RecordCompanyCampaign claims a company×campaign pair. Same failure
// contract as RecordEmail.
func (l *Ledger) RecordCompanyCampaign(ctx context.Context, company, campaignID string) error {
	l.pairs[CompanyCampaign{Company: company, CampaignID: campaignID}] = struct{}{}
	if err := l.store.AppendCompanyCampaign(ctx, company, campaignID, l.now().UTC()); err != nil {
		return eris.Wrap(err, "ledger: append company campaign")
	}
	return nil
}

// Stats returns the size of the loaded sets.
func (l *Ledger) Stats() Stats {
	return Stats{Emails: len(l.emails), CompanyCampaigns: len(l.pairs)}
}
