package service

import (
	"math"
	"sort"

	"github.com/gridwatch/geninspect/internal/inspect/entity"
	"github.com/gridwatch/geninspect/internal/inspect/repository"
)

// In-memory grouping and windowing over materialized inspection rows. The
// repositories fetch flat rows; every aggregation rule lives here so the
// algorithms stay portable across storage backends.

// monthOrdinal linearizes (year, month) for before/after comparisons.
func monthOrdinal(month, year int) int {
	return year*12 + month
}

// ComputeKPIPercent applies the fleet formula: of the non-disposed machines,
// the share not under repair, as a rounded percentage. Zero denominator gives 0.
func ComputeKPIPercent(total, repair, disposal int) int {
	denom := total - disposal
	if denom <= 0 {
		return 0
	}
	return int(math.Round(float64(denom-repair) / float64(denom) * 100))
}

// ScoreFromPercent buckets a KPI percentage into the 1-5 score.
func ScoreFromPercent(pct int) int {
	switch {
	case pct >= 100:
		return 5
	case pct >= 80:
		return 4
	case pct >= 70:
		return 3
	case pct >= 60:
		return 2
	default:
		return 1
	}
}

// StatusBreakdown latest-per-generator machine status counts.
type StatusBreakdown struct {
	Working   int
	Repair    int
	Disposal  int
	Inspected int
}

// LatestStatusBreakdown keeps, per generator, the most recent observation by
// (year, month, created_at, id) and partitions the survivors by machine status.
// The id tiebreak only matters for equal timestamps and keeps the pass stable.
func LatestStatusBreakdown(rows []repository.StatusRow) StatusBreakdown {
	latest := make(map[string]repository.StatusRow)
	for _, row := range rows {
		cur, ok := latest[row.GeneratorID]
		if !ok || statusRowAfter(row, cur) {
			latest[row.GeneratorID] = row
		}
	}

	var b StatusBreakdown
	for _, row := range latest {
		b.Inspected++
		switch row.MachineStatus {
		case entity.MachineStatusOperational:
			b.Working++
		case entity.MachineStatusRepair:
			b.Repair++
		case entity.MachineStatusPendingDisposal:
			b.Disposal++
		}
	}
	return b
}

func statusRowAfter(a, b repository.StatusRow) bool {
	if a.Year != b.Year {
		return a.Year > b.Year
	}
	if a.Month != b.Month {
		return a.Month > b.Month
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.InspectionID > b.InspectionID
}

// InspectedPerMonth counts distinct inspected generators per month.
func InspectedPerMonth(rows []repository.PeriodRow) map[int]int {
	seen := make(map[int]map[string]struct{})
	for _, row := range rows {
		if seen[row.Month] == nil {
			seen[row.Month] = make(map[string]struct{})
		}
		seen[row.Month][row.GeneratorID] = struct{}{}
	}
	counts := make(map[int]int, len(seen))
	for m, gens := range seen {
		counts[m] = len(gens)
	}
	return counts
}

// IncompleteMonths lists the months in [1, throughMonth] where fewer than
// total distinct generators were inspected. total == 0 is vacuously complete.
func IncompleteMonths(inspectedPerMonth map[int]int, total, throughMonth int) []int {
	if total == 0 {
		return nil
	}
	var months []int
	for m := 1; m <= throughMonth; m++ {
		if inspectedPerMonth[m] < total {
			months = append(months, m)
		}
	}
	return months
}

// DisposalCutoffs maps each generator to the ordinal of its earliest
// pending-disposal inspection. Generators never marked for disposal are absent.
func DisposalCutoffs(rows []repository.StatusRow) map[string]int {
	cutoffs := make(map[string]int)
	for _, row := range rows {
		if row.MachineStatus != entity.MachineStatusPendingDisposal {
			continue
		}
		ord := monthOrdinal(row.Month, row.Year)
		if cur, ok := cutoffs[row.GeneratorID]; !ok || ord < cur {
			cutoffs[row.GeneratorID] = ord
		}
	}
	return cutoffs
}

// CountObligedForMonth counts generators still obliged to be inspected in
// (month, year): a machine marked pending-disposal in any strictly earlier
// month drops out of the denominator from then on, even if its active flag
// was later flipped back. This keeps past months' figures stable.
func CountObligedForMonth(generatorIDs []string, cutoffs map[string]int, month, year int) int {
	ord := monthOrdinal(month, year)
	n := 0
	for _, id := range generatorIDs {
		if cutoff, ok := cutoffs[id]; ok && cutoff < ord {
			continue
		}
		n++
	}
	return n
}

// AbnormalItemCount a ranked checklist item.
type AbnormalItemCount struct {
	ItemCode string `json:"item_code"`
	Count    int    `json:"count"`
}

// TopAbnormalItems ranks item codes by abnormal-observation count per
// template, descending, ties broken by item code for a stable order, keeping
// the top limit entries per template.
func TopAbnormalItems(rows []repository.AbnormalItemRow, limit int) map[string][]AbnormalItemCount {
	counts := make(map[string]map[string]int)
	for _, row := range rows {
		if counts[row.FormTemplateID] == nil {
			counts[row.FormTemplateID] = make(map[string]int)
		}
		counts[row.FormTemplateID][row.ItemCode]++
	}

	out := make(map[string][]AbnormalItemCount, len(counts))
	for tpl, byCode := range counts {
		ranked := make([]AbnormalItemCount, 0, len(byCode))
		for code, n := range byCode {
			ranked = append(ranked, AbnormalItemCount{ItemCode: code, Count: n})
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].Count != ranked[j].Count {
				return ranked[i].Count > ranked[j].Count
			}
			return ranked[i].ItemCode < ranked[j].ItemCode
		})
		if len(ranked) > limit {
			ranked = ranked[:limit]
		}
		out[tpl] = ranked
	}
	return out
}

// RepeatRepair a generator seen under repair in two or more months this year.
type RepeatRepair struct {
	GeneratorID string `json:"generator_id"`
	AssetID     string `json:"asset_id"`
	Count       int    `json:"count"`
	Months      []int  `json:"months"`
}

// DetectRepeatRepairs finds generators with at least minMonths distinct repair
// months in the given year, ordered by repair-month count then asset id,
// keeping the top limit entries.
func DetectRepeatRepairs(rows []repository.StatusRow, year, minMonths, limit int) []RepeatRepair {
	type key struct{ generatorID, assetID string }
	months := make(map[key]map[int]struct{})
	for _, row := range rows {
		if row.Year != year || row.MachineStatus != entity.MachineStatusRepair {
			continue
		}
		k := key{row.GeneratorID, row.AssetID}
		if months[k] == nil {
			months[k] = make(map[int]struct{})
		}
		months[k][row.Month] = struct{}{}
	}

	var out []RepeatRepair
	for k, set := range months {
		if len(set) < minMonths {
			continue
		}
		list := make([]int, 0, len(set))
		for m := range set {
			list = append(list, m)
		}
		sort.Ints(list)
		out = append(out, RepeatRepair{
			GeneratorID: k.generatorID,
			AssetID:     k.assetID,
			Count:       len(list),
			Months:      list,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].AssetID < out[j].AssetID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
