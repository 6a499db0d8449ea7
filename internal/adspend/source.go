// Package adspend reads daily ad-performance records and aggregates
// spend per tracking code. It is the reconciliation core's only view of
// what money each ad actually spent.
package adspend

import (
	"context"
	"regexp"
)

// Spend holds aggregated metrics for one tracking code over a window.
type Spend struct {
	Spend         float64 `json:"spend"`
	Impressions   int64   `json:"impressions"`
	Clicks        int64   `json:"clicks"`
	LastSpendDate string  `json:"last_spend_date,omitempty"`
}

// Alive reports whether the code spent money in the queried window.
func (s Spend) Alive() bool {
	return s.Spend > 0
}

// Source defines the interface contract for spend lookups. Dates are
// civil "YYYY-MM-DD" strings. Codes with no matching rows are omitted
// from the result; callers treat missing as zero.
type Source interface {
	// SpendRange aggregates over the half-open window [from, to).
	SpendRange(ctx context.Context, codes []string, from, to string) (map[string]Spend, error)
	// SpendOn aggregates over a single calendar day.
	SpendOn(ctx context.Context, codes []string, date string) (map[string]Spend, error)
	// SpendAll aggregates over every recorded date.
	SpendAll(ctx context.Context, codes []string) (map[string]Spend, error)
}

// Stored ad identifiers may carry a bracketed campaign tag, e.g.
// "[summer-promo]AD100". The tag is not part of the tracking code.
var campaignTagPattern = regexp.MustCompile(`^\[[^\]]*\]`)

// StripCampaignTag removes a leading bracketed prefix from an ad
// identifier, leaving the bare tracking code.
func StripCampaignTag(adCode string) string {
	return campaignTagPattern.ReplaceAllString(adCode, "")
}
