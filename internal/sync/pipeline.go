// Package sync implements the deduplicated enrichment pipeline that
// moves new Salesforce leads into Instantly campaigns.
package sync

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-sync/internal/campaign"
	"github.com/sells-group/lead-sync/internal/config"
	"github.com/sells-group/lead-sync/internal/ledger"
	"github.com/sells-group/lead-sync/internal/model"
	"github.com/sells-group/lead-sync/pkg/debounce"
	"github.com/sells-group/lead-sync/pkg/instantly"
	"github.com/sells-group/lead-sync/pkg/salesforce"
)

// Stats summarizes the decisions made during one run.
type Stats struct {
	Leads                  int `json:"leads"`
	Submitted              int `json:"submitted"`
	Colleagues             int `json:"colleagues"`
	SkippedProcessed       int `json:"skipped_processed"`
	SkippedCompanyCampaign int `json:"skipped_company_campaign"`
	Rejected               int `json:"rejected"`
	Failed                 int `json:"failed"`
}

// CRM is the read surface of the Salesforce collaborator used by the
// pipeline.
type CRM interface {
	RecentLeads(ctx context.Context, filter salesforce.LeadFilter) ([]model.Lead, error)
	ContactsByCompany(ctx context.Context, company string) ([]model.Contact, error)
}

// sfCRM adapts a salesforce.Client to the CRM interface.
type sfCRM struct {
	client salesforce.Client
}

// NewSalesforceCRM wraps a salesforce.Client as the pipeline's CRM.
func NewSalesforceCRM(client salesforce.Client) CRM {
	return sfCRM{client: client}
}

func (s sfCRM) RecentLeads(ctx context.Context, filter salesforce.LeadFilter) ([]model.Lead, error) {
	return salesforce.RecentLeads(ctx, s.client, filter)
}

func (s sfCRM) ContactsByCompany(ctx context.Context, company string) ([]model.Contact, error) {
	return salesforce.ContactsByCompany(ctx, s.client, company)
}

// Pipeline orchestrates one sync run: fetch, gate, validate, submit,
// record, colleague expansion. Execution is fully sequential.
type Pipeline struct {
	cfg       *config.Config
	crm       CRM
	validator debounce.Client
	outreach  instantly.Client
	ledger    *ledger.Ledger
	now       func() time.Time
}

// New creates a Pipeline with all collaborators.
func New(
	cfg *config.Config,
	crm CRM,
	validator debounce.Client,
	outreach instantly.Client,
	led *ledger.Ledger,
) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		crm:       crm,
		validator: validator,
		outreach:  outreach,
		ledger:    led,
		now:       time.Now,
	}
}

// Run executes one sync pass. Only the ledger bootstrap and the lead
// query are fatal; every per-contact failure is logged and skipped.
func (p *Pipeline) Run(ctx context.Context) (*Stats, error) {
	log := zap.L().With(zap.String("component", "sync"))

	if err := p.ledger.Load(ctx); err != nil {
		return nil, eris.Wrap(err, "sync: load ledger")
	}

	since := p.now().UTC().AddDate(0, 0, -p.cfg.Sync.WindowDays)
	leads, err := p.crm.RecentLeads(ctx, salesforce.LeadFilter{
		CreatedAfter: since,
		SubChannel:   p.cfg.Sync.SubChannel,
		Owners:       p.cfg.Sync.Owners,
	})
	if err != nil {
		return nil, eris.Wrap(err, "sync: query leads")
	}
	log.Info("scanning leads", zap.Time("since", since), zap.Int("count", len(leads)))

	stats := &Stats{Leads: len(leads)}
	for _, lead := range leads {
		p.processLead(ctx, log, lead, stats)
	}

	log.Info("sync complete",
		zap.Int("leads", stats.Leads),
		zap.Int("submitted", stats.Submitted),
		zap.Int("colleagues", stats.Colleagues),
		zap.Int("skipped_processed", stats.SkippedProcessed),
		zap.Int("skipped_company_campaign", stats.SkippedCompanyCampaign),
		zap.Int("rejected", stats.Rejected),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

func (p *Pipeline) processLead(ctx context.Context, log *zap.Logger, lead model.Lead, stats *Stats) {
	email := model.NormalizeEmail(lead.Email)
	if email == "" {
		return
	}
	company := strings.TrimSpace(lead.Company)
	target := campaign.Resolve(p.cfg.Campaigns, lead.LastPageSeen)

	if p.ledger.IsProcessed(email) {
		log.Info("skipping lead: person already processed", zap.String("email", email))
		stats.SkippedProcessed++
		return
	}
	if p.ledger.IsCompanyCampaignSeen(company, target.ID) {
		log.Info("skipping lead: company already represented in campaign",
			zap.String("email", email),
			zap.String("company", company),
			zap.String("campaign", target.Name),
		)
		stats.SkippedCompanyCampaign++
		return
	}

	log.Info("processing lead",
		zap.String("email", email),
		zap.String("company", company),
		zap.String("campaign", target.Name),
	)

	if !p.deliverable(ctx, log, email) {
		stats.Rejected++
		return
	}

	err := p.outreach.CreateLead(ctx, instantly.LeadRequest{
		CampaignID: target.ID,
		Email:      email,
		FirstName:  lead.FirstName,
		LastName:   lead.LastName,
		PersonType: instantly.PersonTypeMainLead,
	})
	if err != nil {
		// The lead stays unrecorded and eligible for the next run.
		log.Warn("submission failed", zap.String("email", email), zap.Error(err))
		stats.Failed++
		return
	}
	stats.Submitted++
	log.Info("added main lead", zap.String("email", email), zap.String("campaign", target.Name))

	// Record immediately so later leads in this run observe the
	// acceptance.
	if err := p.ledger.RecordEmail(ctx, email); err != nil {
		log.Error("ledger append failed", zap.String("email", email), zap.Error(err))
	}
	if err := p.ledger.RecordCompanyCampaign(ctx, company, target.ID); err != nil {
		log.Error("ledger append failed", zap.String("company", company), zap.Error(err))
	}

	if company != "" {
		p.expandColleagues(ctx, log, company, target, stats)
	}
}

// expandColleagues submits same-company contacts to the campaign the
// main lead was accepted into. Colleagues claim only a person-dedup
// entry; the company×campaign pair was already claimed by the main lead.
func (p *Pipeline) expandColleagues(ctx context.Context, log *zap.Logger, company string, target model.Campaign, stats *Stats) {
	contacts, err := p.crm.ContactsByCompany(ctx, company)
	if err != nil {
		log.Warn("colleague query failed, treating as no colleagues",
			zap.String("company", company), zap.Error(err))
		return
	}

	for _, contact := range contacts {
		email := model.NormalizeEmail(contact.Email)
		if email == "" || p.ledger.IsProcessed(email) || !contact.Active() {
			continue
		}

		if !p.deliverable(ctx, log, email) {
			stats.Rejected++
			continue
		}

		err := p.outreach.CreateLead(ctx, instantly.LeadRequest{
			CampaignID: target.ID,
			Email:      email,
			FirstName:  contact.FirstName,
			LastName:   contact.LastName,
			PersonType: instantly.PersonTypeColleague,
		})
		if err != nil {
			log.Warn("colleague submission failed", zap.String("email", email), zap.Error(err))
			stats.Failed++
			continue
		}
		stats.Colleagues++
		log.Info("added colleague", zap.String("email", email), zap.String("company", company))

		if err := p.ledger.RecordEmail(ctx, email); err != nil {
			log.Error("ledger append failed", zap.String("email", email), zap.Error(err))
		}
	}
}

// deliverable validates one email against the closed verdict
// allow-list. An unreachable validation service counts as rejection.
func (p *Pipeline) deliverable(ctx context.Context, log *zap.Logger, email string) bool {
	verdict, err := p.validator.Validate(ctx, email)
	if err != nil {
		log.Warn("validation unavailable", zap.String("email", email), zap.Error(err))
		return false
	}
	if !verdict.Deliverable() {
		log.Info("failed validation", zap.String("email", email), zap.String("verdict", string(verdict)))
		return false
	}
	return true
}
