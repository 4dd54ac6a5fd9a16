// Package campaign maps the page a lead last viewed to an Instantly
// campaign.
package campaign

import (
	"strings"

	"github.com/sells-group/lead-sync/internal/model"
)

// IDs holds the four configured Instantly campaign identifiers.
type IDs struct {
	Pricing string `yaml:"pricing" mapstructure:"pricing"`
	Blogs   string `yaml:"blogs" mapstructure:"blogs"`
	Compare string `yaml:"compare" mapstructure:"compare"`
	Home    string `yaml:"home" mapstructure:"home"`
}

// rule routes URLs containing a substring to a campaign name. First
// match wins; matching is case-insensitive containment, not path
// parsing.
type rule struct {
	substr string
	name   string
	id     func(IDs) string
}

var rules = []rule{
	{"/pricing", "Pricing", func(ids IDs) string { return ids.Pricing }},
	{"/customer-stories/", "Blogs/Stories", func(ids IDs) string { return ids.Blogs }},
	{"/compare/", "Compare", func(ids IDs) string { return ids.Compare }},
}

// Resolve returns the campaign for a lead's last-seen page URL. An
// empty or unmatched URL falls back to the Home/General campaign.
func Resolve(ids IDs, url string) model.Campaign {
	lower := strings.ToLower(url)
	for _, r := range rules {
		if url != "" && strings.Contains(lower, r.substr) {
			return model.Campaign{ID: r.id(ids), Name: r.name}
		}
	}
	return model.Campaign{ID: ids.Home, Name: "Home/General"}
}
