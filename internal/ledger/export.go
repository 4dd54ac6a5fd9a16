package ledger

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ExportXLSX writes a snapshot of the two tracker tables to an .xlsx
// workbook with sheets "Emails" and "CompanyCampaigns", matching the
// tracker-spreadsheet layout operators already know.
func ExportXLSX(path string, emails []ProcessedEmail, pairs []CompanyCampaignRecord) error {
	f := xlsx.NewFile()

	emailSheet, err := f.AddSheet("Emails")
	if err != nil {
		return eris.Wrap(err, "xlsx: add Emails sheet")
	}
	for _, e := range emails {
		row := emailSheet.AddRow()
		row.AddCell().Value = e.Email
		row.AddCell().Value = formatTimestamp(e.RecordedAt)
	}

	pairSheet, err := f.AddSheet("CompanyCampaigns")
	if err != nil {
		return eris.Wrap(err, "xlsx: add CompanyCampaigns sheet")
	}
	for _, p := range pairs {
		row := pairSheet.AddRow()
		row.AddCell().Value = p.Company
		row.AddCell().Value = p.CampaignID
		row.AddCell().Value = formatTimestamp(p.RecordedAt)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
