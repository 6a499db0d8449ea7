package report

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/hyperengineering/copydesk/internal/adspend"
	"github.com/hyperengineering/copydesk/internal/checklist"
	"github.com/hyperengineering/copydesk/internal/types"
)

// PerformanceStore is the storage surface the monthly analytics read
// from. Rows come back with their copy type attached.
type PerformanceStore interface {
	ListChecklists(ctx context.Context, week string) ([]types.Checklist, error)
}

// Monthly computes per-code and per-copy-type ad performance over one
// calendar month, or over all recorded dates when no month is given.
type Monthly struct {
	store  PerformanceStore
	spend  adspend.Source
	logger *slog.Logger
}

// NewMonthly creates a Monthly reporter.
func NewMonthly(store PerformanceStore, spend adspend.Source, logger *slog.Logger) *Monthly {
	return &Monthly{store: store, spend: spend, logger: logger}
}

// monthRange converts "2026-01" into the half-open civil window
// [2026-01-01, 2026-02-01).
func monthRange(month string) (string, string, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return "", "", fmt.Errorf("invalid month %q: %w", month, err)
	}
	return t.Format(checklist.DateLayout), t.AddDate(0, 1, 0).Format(checklist.DateLayout), nil
}

// UTMPerformance aggregates spend, impressions, clicks, CTR and CPC
// per tracking code. Codes with no recorded rows are omitted; an empty
// month means all time.
func (m *Monthly) UTMPerformance(ctx context.Context, codes []string, month string) (map[string]types.UTMPerformance, error) {
	result := make(map[string]types.UTMPerformance, len(codes))
	if len(codes) == 0 {
		return result, nil
	}

	var perf map[string]adspend.Spend
	var err error
	if month == "" {
		perf, err = m.spend.SpendAll(ctx, codes)
	} else {
		from, to, rerr := monthRange(month)
		if rerr != nil {
			return nil, rerr
		}
		perf, err = m.spend.SpendRange(ctx, codes, from, to)
	}
	if err != nil {
		return nil, fmt.Errorf("spend lookup for month %q: %w", month, err)
	}

	for code, s := range perf {
		p := types.UTMPerformance{
			Spend:       s.Spend,
			Impressions: s.Impressions,
			Clicks:      s.Clicks,
		}
		if s.Impressions > 0 {
			p.CTR = math.Round(float64(s.Clicks)/float64(s.Impressions)*100*100) / 100
		}
		if s.Clicks > 0 {
			p.CPC = math.Round(s.Spend / float64(s.Clicks))
		}
		result[code] = p
	}
	return result, nil
}

// CopyTypePerformance rolls per-code metrics up to the copy type whose
// checklist rows carried the code, across all weeks. A code attached
// to rows of two copy types counts toward both; within one copy type
// it counts once. teamID narrows to one team's rows; results come back
// sorted by total spend, highest first.
func (m *Monthly) CopyTypePerformance(ctx context.Context, month, teamID string) ([]types.CopyTypePerformance, error) {
	rows, err := m.store.ListChecklists(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("load checklists: %w", err)
	}

	type pair struct{ code, typeCode string }
	type assoc struct{ code, typeCode, typeName string }
	seen := make(map[pair]struct{})
	var assocs []assoc
	union := make(map[string]struct{})
	for _, row := range rows {
		if teamID != "" && row.TeamID != teamID {
			continue
		}
		if row.CopyType == nil {
			continue
		}
		for _, code := range checklist.NormalizeCodes(row.UTMCode) {
			key := pair{code, row.CopyType.Code}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			assocs = append(assocs, assoc{code, row.CopyType.Code, row.CopyType.Name})
			union[code] = struct{}{}
		}
	}
	if len(assocs) == 0 {
		return []types.CopyTypePerformance{}, nil
	}

	codes := make([]string, 0, len(union))
	for c := range union {
		codes = append(codes, c)
	}
	sort.Strings(codes)

	perf, err := m.UTMPerformance(ctx, codes, month)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*types.CopyTypePerformance)
	var order []string
	for _, a := range assocs {
		p, ok := perf[a.code]
		if !ok {
			continue
		}
		g, ok := groups[a.typeCode]
		if !ok {
			g = &types.CopyTypePerformance{CopyTypeCode: a.typeCode, CopyTypeName: a.typeName}
			groups[a.typeCode] = g
			order = append(order, a.typeCode)
		}
		g.TotalSpend += p.Spend
		g.TotalImpressions += p.Impressions
		g.TotalClicks += p.Clicks
		g.UTMCount++
	}

	result := make([]types.CopyTypePerformance, 0, len(order))
	for _, code := range order {
		g := groups[code]
		if g.TotalImpressions > 0 {
			g.AvgCTR = math.Round(float64(g.TotalClicks)/float64(g.TotalImpressions)*100*100) / 100
		}
		result = append(result, *g)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalSpend > result[j].TotalSpend
	})

	m.logger.Debug("copy type performance computed",
		"month", month,
		"team_id", teamID,
		"copy_types", len(result))
	return result, nil
}
