package checklist

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/hyperengineering/copydesk/internal/adspend"
	"github.com/hyperengineering/copydesk/internal/types"
)

// Reconciler keeps the current week's tracking codes in sync with
// observed ad spend. Each run checks yesterday's spend for every code
// referenced by the current or previous week, drops dead codes from
// current rows, and re-attaches codes that came back to life.
type Reconciler struct {
	store  Store
	spend  adspend.Source
	logger *slog.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewReconciler creates a Reconciler. loc determines which civil date
// counts as "yesterday".
func NewReconciler(store Store, spend adspend.Source, logger *slog.Logger, loc *time.Location) *Reconciler {
	return &Reconciler{
		store:  store,
		spend:  spend,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

// RunDailyCheck performs one reconciliation pass. Individual row
// updates that fail are logged and skipped; the run itself only fails
// on read errors. The returned summary lists every change in
// processing order, removals first.
func (r *Reconciler) RunDailyCheck(ctx context.Context) (*types.DailyCheckSummary, error) {
	now := r.now().In(r.loc)
	yesterday := now.AddDate(0, 0, -1).Format(DateLayout)
	currentWeek := WeekOf(now)
	previousWeek, err := PreviousWeek(currentWeek)
	if err != nil {
		return nil, err
	}

	summary := &types.DailyCheckSummary{
		Date:         yesterday,
		CurrentWeek:  currentWeek,
		PreviousWeek: previousWeek,
		Details:      []types.DailyCheckDetail{},
	}

	current, err := r.store.ChecklistsByWeek(ctx, currentWeek)
	if err != nil {
		return nil, fmt.Errorf("load checklists for %s: %w", currentWeek, err)
	}
	previous, err := r.store.ChecklistsByWeek(ctx, previousWeek)
	if err != nil {
		return nil, fmt.Errorf("load checklists for %s: %w", previousWeek, err)
	}

	union := make(map[string]struct{})
	for _, row := range current {
		for _, c := range NormalizeCodes(row.UTMCode) {
			union[c] = struct{}{}
		}
	}
	for _, row := range previous {
		for _, c := range NormalizeCodes(row.UTMCode) {
			union[c] = struct{}{}
		}
	}
	if len(union) == 0 {
		r.logger.Info("daily alive check found no tracked codes", "date", yesterday)
		return summary, nil
	}

	all := make([]string, 0, len(union))
	for c := range union {
		all = append(all, c)
	}
	sort.Strings(all)

	spend, err := r.spend.SpendOn(ctx, all, yesterday)
	if err != nil {
		return nil, fmt.Errorf("spend lookup for %s: %w", yesterday, err)
	}
	alive := make(map[string]bool, len(all))
	for _, c := range all {
		if spend[c].Alive() {
			alive[c] = true
		}
	}

	summary.Checked = len(all)
	summary.Alive = len(alive)
	summary.Dead = summary.Checked - summary.Alive

	r.removeDead(ctx, current, alive, summary)

	// Removals changed current rows; re-read before reactivating so
	// membership checks see the post-removal state.
	current, err = r.store.ChecklistsByWeek(ctx, currentWeek)
	if err != nil {
		return nil, fmt.Errorf("reload checklists for %s: %w", currentWeek, err)
	}
	r.reactivate(ctx, current, previous, alive, summary)

	r.logger.Info("daily alive check complete",
		"date", yesterday,
		"checked", summary.Checked,
		"alive", summary.Alive,
		"removed", summary.Removed,
		"reactivated", summary.Reactivated)
	return summary, nil
}

// removeDead strips codes without spend from current-week rows.
func (r *Reconciler) removeDead(ctx context.Context, current []types.Checklist, alive map[string]bool, summary *types.DailyCheckSummary) {
	for _, row := range current {
		if row.Excluded {
			continue
		}
		codes := NormalizeCodes(row.UTMCode)
		if len(codes) == 0 {
			continue
		}
		var kept, removed []string
		for _, c := range codes {
			if alive[c] {
				kept = append(kept, c)
			} else {
				removed = append(removed, c)
			}
		}
		if len(removed) == 0 {
			continue
		}

		encoded := EncodeCodes(kept)
		if _, err := r.store.UpdateChecklist(ctx, row.ID, types.ChecklistUpdate{UTMCode: &encoded}); err != nil {
			r.logger.Error("failed to remove dead codes", "checklist_id", row.ID, "error", err)
			continue
		}
		summary.Removed += len(removed)
		summary.Details = append(summary.Details, types.DailyCheckDetail{
			ChecklistID: row.ID,
			Action:      types.ActionRemoveDead,
			Removed:     removed,
			Remaining:   kept,
		})
	}
}

// reactivate re-attaches previous-week codes that show spend again but
// are no longer present anywhere in the current week. A code lands on
// the current-week row with the same (product, copy type, team)
// identity; codes whose identity has no current row are dropped.
func (r *Reconciler) reactivate(ctx context.Context, current, previous []types.Checklist, alive map[string]bool, summary *types.DailyCheckSummary) {
	currentCodes := make(map[string]struct{})
	byKey := make(map[types.ChecklistKey]*types.Checklist, len(current))
	for idx := range current {
		row := &current[idx]
		// Excluded rows never receive codes, but the codes they hold
		// still count as present so nothing gets attached twice.
		if !row.Excluded {
			byKey[row.Key()] = row
		}
		for _, c := range NormalizeCodes(row.UTMCode) {
			currentCodes[c] = struct{}{}
		}
	}

	for _, prev := range previous {
		for _, code := range NormalizeCodes(prev.UTMCode) {
			if !alive[code] {
				continue
			}
			if _, ok := currentCodes[code]; ok {
				continue
			}
			target, ok := byKey[prev.Key()]
			if !ok {
				continue
			}

			codes := append(NormalizeCodes(target.UTMCode), code)
			encoded := EncodeCodes(codes)
			status := types.StatusCompleted
			notes := types.NotesAutoCarry
			update := types.ChecklistUpdate{UTMCode: &encoded, Status: &status, Notes: &notes}
			if _, err := r.store.UpdateChecklist(ctx, target.ID, update); err != nil {
				r.logger.Error("failed to reactivate code", "checklist_id", target.ID, "code", code, "error", err)
				continue
			}

			target.UTMCode = encoded
			currentCodes[code] = struct{}{}
			summary.Reactivated++
			key := prev.Key()
			summary.Details = append(summary.Details, types.DailyCheckDetail{
				ChecklistID: target.ID,
				Action:      types.ActionReactivate,
				UTMCode:     code,
				Identity:    &key,
			})
		}
	}
}
