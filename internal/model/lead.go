package model

import (
	"strings"
	"time"
)

// Lead is a Salesforce lead considered for outreach. Read-only; the
// sync never writes back to the CRM.
type Lead struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Company      string    `json:"company"`
	LastPageSeen string    `json:"last_page_seen"`
	OwnerName    string    `json:"owner_name"`
	CreatedDate  time.Time `json:"created_date"`
}

// ContactStatusLeft is the employment status that excludes a contact
// from colleague outreach.
const ContactStatusLeft = "Left the Company"

// Contact is a CRM contact sharing a company with an accepted lead.
type Contact struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Status    string `json:"status"`
}

// Active reports whether the contact is still employed at the company.
func (c Contact) Active() bool {
	return c.Status != ContactStatusLeft
}

// Campaign identifies an Instantly campaign.
type Campaign struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NormalizeEmail lowercases and trims an email address. Emails are
// compared and stored only in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
