// Package report aggregates ad performance over checklist tracking
// codes for dashboard and weekly reporting.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/hyperengineering/copydesk/internal/adspend"
	"github.com/hyperengineering/copydesk/internal/checklist"
	"github.com/hyperengineering/copydesk/internal/types"
)

// Store is the storage surface weekly reporting reads from.
type Store interface {
	ChecklistsByWeek(ctx context.Context, week string) ([]types.Checklist, error)
}

// Weekly computes per-team ad performance across a range of weeks,
// using each week's checklist tracking codes as the join key into the
// spend source.
type Weekly struct {
	store  Store
	spend  adspend.Source
	logger *slog.Logger
}

// NewWeekly creates a Weekly reporter.
func NewWeekly(store Store, spend adspend.Source, logger *slog.Logger) *Weekly {
	return &Weekly{store: store, spend: spend, logger: logger}
}

// TeamPerformance returns, for every requested team and every week in
// [startWeek, endWeek], the aggregated spend, impressions, clicks and
// CTR over the tracking codes that team's checklist rows carried in
// that week. Teams and weeks without data get zero entries.
func (w *Weekly) TeamPerformance(ctx context.Context, startWeek, endWeek string, teamIDs []string) (map[string]map[string]types.WeeklyPerformance, error) {
	weeks, err := checklist.WeeksBetween(startWeek, endWeek)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		wanted[id] = struct{}{}
	}

	result := make(map[string]map[string]types.WeeklyPerformance, len(teamIDs))
	for _, id := range teamIDs {
		result[id] = make(map[string]types.WeeklyPerformance, len(weeks))
	}

	for _, week := range weeks {
		rows, err := w.store.ChecklistsByWeek(ctx, week)
		if err != nil {
			return nil, fmt.Errorf("load checklists for %s: %w", week, err)
		}

		// team -> codes carried that week
		teamCodes := make(map[string][]string)
		union := make(map[string]struct{})
		for _, row := range rows {
			if _, ok := wanted[row.TeamID]; !ok {
				continue
			}
			for _, code := range checklist.NormalizeCodes(row.UTMCode) {
				teamCodes[row.TeamID] = append(teamCodes[row.TeamID], code)
				union[code] = struct{}{}
			}
		}

		perf := map[string]adspend.Spend{}
		if len(union) > 0 {
			codes := make([]string, 0, len(union))
			for c := range union {
				codes = append(codes, c)
			}
			sort.Strings(codes)

			from, to, err := checklist.WeekDateRange(week)
			if err != nil {
				return nil, err
			}
			perf, err = w.spend.SpendRange(ctx, codes, from, to)
			if err != nil {
				return nil, fmt.Errorf("spend lookup for %s: %w", week, err)
			}
		}

		for _, id := range teamIDs {
			var totals types.WeeklyPerformance
			for _, code := range teamCodes[id] {
				s := perf[code]
				totals.Spend += s.Spend
				totals.Impressions += s.Impressions
				totals.Clicks += s.Clicks
			}
			if totals.Impressions > 0 {
				totals.CTR = math.Round(float64(totals.Clicks)/float64(totals.Impressions)*100*100) / 100
			}
			result[id][week] = totals
		}
	}

	w.logger.Debug("weekly report computed",
		"start_week", startWeek,
		"end_week", endWeek,
		"teams", len(teamIDs),
		"weeks", len(weeks))
	return result, nil
}
