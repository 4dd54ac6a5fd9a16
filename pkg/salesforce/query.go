package salesforce

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-sync/internal/model"
)

// LeadFilter specifies the CRM-side filter for the lead query.
type LeadFilter struct {
	CreatedAfter time.Time
	SubChannel   string
	Owners       []string
}

// soqlTime is the datetime literal layout accepted in SOQL WHERE clauses.
const soqlTime = "2006-01-02T15:04:05Z"

// leadRecord mirrors the SOQL field selection for Lead.
type leadRecord struct {
	ID           string      `json:"Id" salesforce:"Id"`
	Email        string      `json:"Email" salesforce:"Email"`
	FirstName    string      `json:"FirstName" salesforce:"FirstName"`
	LastName     string      `json:"LastName" salesforce:"LastName"`
	Company      string      `json:"Company" salesforce:"Company"`
	LastPageSeen string      `json:"Last_Page_Seen__c" salesforce:"Last_Page_Seen__c"`
	Owner        ownerRecord `json:"Owner" salesforce:"Owner"`
	CreatedDate  string      `json:"CreatedDate" salesforce:"CreatedDate"`
}

type ownerRecord struct {
	Name string `json:"Name" salesforce:"Name"`
}

// contactRecord mirrors the SOQL field selection for Contact.
type contactRecord struct {
	Email     string `json:"Email" salesforce:"Email"`
	FirstName string `json:"FirstName" salesforce:"FirstName"`
	LastName  string `json:"LastName" salesforce:"LastName"`
	Status    string `json:"Status__c" salesforce:"Status__c"`
}

// RecentLeads queries Salesforce for leads created after the filter's
// lower bound, restricted to the configured sub-channel and owner
// allow-list. Leads are returned in CRM order.
func RecentLeads(ctx context.Context, c Client, filter LeadFilter) ([]model.Lead, error) {
	var conds []string
	conds = append(conds, fmt.Sprintf("CreatedDate > %s", filter.CreatedAfter.UTC().Format(soqlTime)))
	if filter.SubChannel != "" {
		conds = append(conds, fmt.Sprintf("Sub_Channel__c = '%s'", escapeSoql(filter.SubChannel)))
	}
	if len(filter.Owners) > 0 {
		quoted := make([]string, len(filter.Owners))
		for i, o := range filter.Owners {
			quoted[i] = "'" + escapeSoql(o) + "'"
		}
		conds = append(conds, fmt.Sprintf("Owner.Name IN (%s)", strings.Join(quoted, ", ")))
	}

	soql := fmt.Sprintf(
		"SELECT Id, Email, FirstName, LastName, Company, Last_Page_Seen__c, Owner.Name, CreatedDate FROM Lead WHERE %s",
		strings.Join(conds, " AND "),
	)

	var records []leadRecord
	if err := c.Query(ctx, soql, &records); err != nil {
		return nil, eris.Wrap(err, "sf: query leads")
	}

	leads := make([]model.Lead, len(records))
	for i, r := range records {
		leads[i] = model.Lead{
			ID:           r.ID,
			Email:        r.Email,
			FirstName:    r.FirstName,
			LastName:     r.LastName,
			Company:      r.Company,
			LastPageSeen: r.LastPageSeen,
			OwnerName:    r.Owner.Name,
			CreatedDate:  parseSFTime(r.CreatedDate),
		}
	}
	return leads, nil
}

// ContactsByCompany queries Salesforce for contacts whose account name
// exactly matches the given company. Company names shorter than two
// characters return no contacts without a query.
func ContactsByCompany(ctx context.Context, c Client, company string) ([]model.Contact, error) {
	if len(company) < 2 {
		return nil, nil
	}

	soql := fmt.Sprintf(
		"SELECT Email, FirstName, LastName, Status__c FROM Contact WHERE Account.Name = '%s'",
		escapeSoql(company),
	)

	var records []contactRecord
	if err := c.Query(ctx, soql, &records); err != nil {
		return nil, eris.Wrapf(err, "sf: query contacts for %s", company)
	}

	contacts := make([]model.Contact, len(records))
	for i, r := range records {
		contacts[i] = model.Contact{
			Email:     r.Email,
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Status:    r.Status,
		}
	}
	return contacts, nil
}

// parseSFTime parses a Salesforce datetime value. Returns the zero
// time when the field is absent or unparseable.
func parseSFTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02T15:04:05.000-0700", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// escapeSoql escapes single quotes in SOQL string literals to prevent injection.
func escapeSoql(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
