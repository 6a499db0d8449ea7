package adspend

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// SQLiteSource aggregates spend from the ad_daily_performance table.
// Campaign-tag stripping happens here in Go; sqlite has no
// regexp_replace, and the match-after-prefix-removal contract belongs
// to the reporting source, not its callers.
type SQLiteSource struct {
	db *sql.DB
}

// Compile-time interface check
var _ Source = (*SQLiteSource)(nil)

// NewSQLiteSource creates a spend source over an existing database handle.
func NewSQLiteSource(db *sql.DB) *SQLiteSource {
	return &SQLiteSource{db: db}
}

// SpendRange aggregates spend per tracking code over [from, to).
func (s *SQLiteSource) SpendRange(ctx context.Context, codes []string, from, to string) (map[string]Spend, error) {
	return s.aggregate(ctx, codes, "date >= ? AND date < ?", from, to)
}

// SpendOn aggregates spend per tracking code for a single calendar day.
func (s *SQLiteSource) SpendOn(ctx context.Context, codes []string, date string) (map[string]Spend, error) {
	return s.aggregate(ctx, codes, "date = ?", date)
}

// SpendAll aggregates spend per tracking code over all recorded dates.
func (s *SQLiteSource) SpendAll(ctx context.Context, codes []string) (map[string]Spend, error) {
	return s.aggregate(ctx, codes, "1=1")
}

func (s *SQLiteSource) aggregate(ctx context.Context, codes []string, dateClause string, dateArgs ...any) (map[string]Spend, error) {
	result := make(map[string]Spend)
	if len(codes) == 0 {
		return result, nil
	}

	wanted := make(map[string]bool, len(codes))
	for _, code := range codes {
		wanted[code] = true
	}

	// Narrow in SQL: a stored ad_code matches a tracking code either
	// exactly or with a bracketed campaign tag in front. LIKE can
	// overmatch (wildcards inside codes, ASCII case folding), so the
	// stripped-code check below stays authoritative.
	conds := make([]string, len(codes))
	args := make([]any, 0, len(dateArgs)+len(codes)*2)
	args = append(args, dateArgs...)
	for i, code := range codes {
		conds[i] = "ad_code = ? OR ad_code LIKE '[%]' || ?"
		args = append(args, code, code)
	}
	query := `SELECT ad_code, date, spend, impressions, clicks
	 FROM ad_daily_performance
	 WHERE (` + dateClause + `) AND (` + strings.Join(conds, " OR ") + `)`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ad performance: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var adCode, date string
		var spend float64
		var impressions, clicks int64
		if err := rows.Scan(&adCode, &date, &spend, &impressions, &clicks); err != nil {
			return nil, fmt.Errorf("scan ad performance: %w", err)
		}

		code := StripCampaignTag(adCode)
		if !wanted[code] {
			continue
		}

		agg := result[code]
		agg.Spend += spend
		agg.Impressions += impressions
		agg.Clicks += clicks
		if spend > 0 && date > agg.LastSpendDate {
			agg.LastSpendDate = date
		}
		result[code] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ad performance: %w", err)
	}

	return result, nil
}
