package report

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hyperengineering/copydesk/internal/adspend"
	"github.com/hyperengineering/copydesk/internal/types"
)

type fakeStore struct {
	byWeek map[string][]types.Checklist
	err    error
}

func (f *fakeStore) ChecklistsByWeek(ctx context.Context, week string) ([]types.Checklist, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byWeek[week], nil
}

type fakeSpend struct {
	byCode   map[string]adspend.Spend
	windows  [][2]string
	allCalls int
}

func (f *fakeSpend) SpendRange(ctx context.Context, codes []string, from, to string) (map[string]adspend.Spend, error) {
	f.windows = append(f.windows, [2]string{from, to})
	out := make(map[string]adspend.Spend)
	for _, c := range codes {
		if s, ok := f.byCode[c]; ok {
			out[c] = s
		}
	}
	return out, nil
}

func (f *fakeSpend) SpendOn(ctx context.Context, codes []string, date string) (map[string]adspend.Spend, error) {
	return f.SpendRange(ctx, codes, date, date)
}

func (f *fakeSpend) SpendAll(ctx context.Context, codes []string) (map[string]adspend.Spend, error) {
	f.allCalls++
	out := make(map[string]adspend.Spend)
	for _, c := range codes {
		if s, ok := f.byCode[c]; ok {
			out[c] = s
		}
	}
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTeamPerformanceAggregates(t *testing.T) {
	store := &fakeStore{byWeek: map[string][]types.Checklist{
		"2026-W05": {
			{TeamID: "team-a", UTMCode: `["AD100","AD200"]`},
			{TeamID: "team-a", UTMCode: "AD300"},
			{TeamID: "team-b", UTMCode: `["AD400"]`},
			{TeamID: "team-ignored", UTMCode: `["AD500"]`},
		},
	}}
	spend := &fakeSpend{byCode: map[string]adspend.Spend{
		"AD100": {Spend: 10, Impressions: 1000, Clicks: 10},
		"AD200": {Spend: 5, Impressions: 500, Clicks: 5},
		"AD300": {Spend: 2.5, Impressions: 100, Clicks: 3},
		"AD400": {Spend: 1, Impressions: 200, Clicks: 1},
		"AD500": {Spend: 99, Impressions: 9999, Clicks: 999},
	}}

	weekly := NewWeekly(store, spend, testLogger())
	result, err := weekly.TeamPerformance(context.Background(), "2026-W05", "2026-W05", []string{"team-a", "team-b"})
	if err != nil {
		t.Fatalf("TeamPerformance: %v", err)
	}

	a := result["team-a"]["2026-W05"]
	if a.Spend != 17.5 || a.Impressions != 1600 || a.Clicks != 18 {
		t.Errorf("team-a = %+v", a)
	}
	if a.CTR != 1.13 { // 18/1600*100 rounded to 2 places
		t.Errorf("team-a CTR = %v, want 1.13", a.CTR)
	}

	b := result["team-b"]["2026-W05"]
	if b.Spend != 1 || b.Clicks != 1 {
		t.Errorf("team-b = %+v", b)
	}

	if _, ok := result["team-ignored"]; ok {
		t.Error("unrequested team present in result")
	}
	if len(spend.windows) != 1 || spend.windows[0] != [2]string{"2026-01-26", "2026-02-02"} {
		t.Errorf("spend windows = %v", spend.windows)
	}
}

func TestTeamPerformanceZeroFills(t *testing.T) {
	store := &fakeStore{byWeek: map[string][]types.Checklist{}}
	spend := &fakeSpend{}

	weekly := NewWeekly(store, spend, testLogger())
	result, err := weekly.TeamPerformance(context.Background(), "2026-W04", "2026-W05", []string{"team-a"})
	if err != nil {
		t.Fatalf("TeamPerformance: %v", err)
	}

	for _, week := range []string{"2026-W04", "2026-W05"} {
		perf, ok := result["team-a"][week]
		if !ok {
			t.Fatalf("missing entry for %s", week)
		}
		if perf.Spend != 0 || perf.Impressions != 0 || perf.Clicks != 0 || perf.CTR != 0 {
			t.Errorf("%s = %+v, want zeroes", week, perf)
		}
	}
	if len(spend.windows) != 0 {
		t.Error("spend source queried with no codes")
	}
}

func TestTeamPerformanceInvalidWeek(t *testing.T) {
	weekly := NewWeekly(&fakeStore{}, &fakeSpend{}, testLogger())
	if _, err := weekly.TeamPerformance(context.Background(), "bogus", "2026-W05", nil); err == nil {
		t.Fatal("expected error for malformed week")
	}
}

func TestTeamPerformanceReadFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("db gone")}
	weekly := NewWeekly(store, &fakeSpend{}, testLogger())
	if _, err := weekly.TeamPerformance(context.Background(), "2026-W05", "2026-W05", []string{"t"}); err == nil {
		t.Fatal("expected error when store read fails")
	}
}
