package analysis

import (
	"sort"

	"normatlas/internal/domain/staffing"
)

// CategoryKind selects the comparison dimension.
type CategoryKind string

const (
	// CategoryBranch compares branches, summing across all districts.
	CategoryBranch CategoryKind = "branch"
	// CategoryDistrict compares districts, summing across all branches.
	CategoryDistrict CategoryKind = "district"
)

// ComparisonRow aggregates one category value across the other dimension.
type ComparisonRow struct {
	Category    string         `json:"category"`
	Need        int            `json:"need"`
	Justified   int            `json:"justified"`
	Unjustified int            `json:"unjustified"`
	Ratio       staffing.Ratio `json:"ratio"`
}

// TotalSurplus returns the combined surplus count of the row.
func (r ComparisonRow) TotalSurplus() int {
	return r.Justified + r.Unjustified
}

// RankedComparison is the comparison table for a set of categories.
// Rows follow the resolved selection order; callers sort explicitly when a
// ranking by magnitude is wanted.
type RankedComparison struct {
	Kind CategoryKind    `json:"kind"`
	Rows []ComparisonRow `json:"rows"`
}

// SortByNeed reorders rows by need, descending. Ties keep their relative order.
func (c *RankedComparison) SortByNeed() {
	sort.SliceStable(c.Rows, func(i, j int) bool {
		return c.Rows[i].Need > c.Rows[j].Need
	})
}

// SortBySurplus reorders rows by total surplus, descending.
func (c *RankedComparison) SortBySurplus() {
	sort.SliceStable(c.Rows, func(i, j int) bool {
		return c.Rows[i].TotalSurplus() > c.Rows[j].TotalSurplus()
	})
}

// Comparator builds ranked comparison tables on top of the Engine.
type Comparator struct {
	engine *Engine
}

// NewComparator creates a comparator over the given engine.
func NewComparator(engine *Engine) *Comparator {
	return &Comparator{engine: engine}
}

// Compare aggregates need and surplus per category value. An empty selection
// resolves to the sorted union of values observed in either table. A selected
// category absent from both tables still yields a row, with zero counts and an
// undefined ratio; the output row count always equals the resolved selection
// length.
func (c *Comparator) Compare(kind CategoryKind, selection []string) RankedComparison {
	resolved := selection
	if len(resolved) == 0 {
		resolved = c.domain(kind)
	}

	rows := make([]ComparisonRow, 0, len(resolved))
	for _, category := range resolved {
		sel := staffing.Selection{category: {}}

		var need int
		var counts SurplusCount
		switch kind {
		case CategoryDistrict:
			need = c.engine.NeedSum(sel, nil)
			counts = c.engine.SurplusCounts(sel, nil)
		default:
			need = c.engine.NeedSum(nil, sel)
			counts = c.engine.SurplusCounts(nil, sel)
		}

		rows = append(rows, ComparisonRow{
			Category:    category,
			Need:        need,
			Justified:   counts.Justified,
			Unjustified: counts.Unjustified,
			Ratio:       staffing.NewRatio(counts.Total(), need),
		})
	}

	return RankedComparison{Kind: kind, Rows: rows}
}

func (c *Comparator) domain(kind CategoryKind) []string {
	if kind == CategoryDistrict {
		return c.engine.Tables().Districts()
	}
	return c.engine.Tables().Branches()
}
