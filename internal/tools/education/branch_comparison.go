package education

import (
	"context"

	"normatlas/internal/analysis"
	"normatlas/internal/tools/shared"
)

// NewBranchComparisonTool compares need and surplus counts per branch,
// across all districts, over the union of branches observed in either table.
func NewBranchComparisonTool(deps shared.Deps) shared.Tool {
	return shared.New(
		"brans_karsilastirma",
		"Bu tool branşlara göre karşılaştırmalı analiz yapar. "+
			"Her branş için ihtiyaç ve norm fazlası sayılarını karşılaştırır. "+
			"Kullanım: Branşları karşılaştırmak istediğinizde kullanın.",
		func(ctx context.Context, query string) (string, error) {
			deps.Log.Debugw("Tool: brans_karsilastirma called", "query", query)

			comparison := deps.Comparator.Compare(analysis.CategoryBranch, nil)
			comparison.SortByNeed()

			return formatComparison("Branşlara Göre Karşılaştırmalı Analiz:", comparison), nil
		},
	)
}
