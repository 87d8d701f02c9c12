package analysis

import (
	"normatlas/internal/domain/staffing"
)

// Engine computes deterministic aggregates over the two source tables.
// All methods are pure table scans over immutable data and safe for
// concurrent use.
type Engine struct {
	tables *staffing.Tables
}

// NewEngine creates an aggregation engine over the loaded tables.
func NewEngine(tables *staffing.Tables) *Engine {
	return &Engine{tables: tables}
}

// Tables returns the underlying source tables.
func (e *Engine) Tables() *staffing.Tables {
	return e.tables
}

// NeedSum sums the need counts of rows matching both filters.
// An empty match set yields 0, never an error.
func (e *Engine) NeedSum(districts, branches staffing.Selection) int {
	sum := 0
	for _, r := range e.tables.Needs() {
		if districts.Matches(r.District) && branches.Matches(r.Branch) {
			sum += r.Need
		}
	}
	return sum
}

// SurplusCount is the justified/unjustified split of surplus teachers.
// Surplus is always a row count: one row is one teacher.
type SurplusCount struct {
	Justified   int `json:"justified"`
	Unjustified int `json:"unjustified"`
}

// Total returns the combined surplus count.
func (c SurplusCount) Total() int {
	return c.Justified + c.Unjustified
}

// SurplusCounts counts surplus rows matching both filters, split by the
// presence of a justification.
func (e *Engine) SurplusCounts(districts, branches staffing.Selection) SurplusCount {
	var count SurplusCount
	for _, r := range e.tables.Surpluses() {
		if !districts.Matches(r.District) || !branches.Matches(r.Branch) {
			continue
		}
		if r.Justified() {
			count.Justified++
		} else {
			count.Unjustified++
		}
	}
	return count
}

// CrossRow is one cell of the district×branch breakdown.
type CrossRow struct {
	District    string `json:"district"`
	Branch      string `json:"branch"`
	Need        int    `json:"need"`
	Justified   int    `json:"justified"`
	Unjustified int    `json:"unjustified"`
}

// CrossTable materializes the full Cartesian product of the given districts
// and branches, one row per combination. Combinations absent from the source
// tables appear with all counts at zero, so downstream views always render
// the structurally expected cells. An empty selector resolves to the sorted
// observed union of that dimension; the AllDistricts sentinel is treated as
// an empty district selector.
func (e *Engine) CrossTable(districts, branches []string) []CrossRow {
	districts = resolveSelector(districts, e.tables.Districts())
	branches = resolveSelector(branches, e.tables.Branches())

	rows := make([]CrossRow, 0, len(districts)*len(branches))
	for _, district := range districts {
		districtSel := staffing.Selection{district: {}}
		for _, branch := range branches {
			branchSel := staffing.Selection{branch: {}}
			counts := e.SurplusCounts(districtSel, branchSel)
			rows = append(rows, CrossRow{
				District:    district,
				Branch:      branch,
				Need:        e.NeedSum(districtSel, branchSel),
				Justified:   counts.Justified,
				Unjustified: counts.Unjustified,
			})
		}
	}
	return rows
}

func resolveSelector(selection, fallback []string) []string {
	var resolved []string
	for _, v := range selection {
		if v == "" || v == staffing.AllDistricts {
			continue
		}
		resolved = append(resolved, v)
	}
	if len(resolved) == 0 {
		return fallback
	}
	return resolved
}
