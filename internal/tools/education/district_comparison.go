package education

import (
	"context"

	"normatlas/internal/analysis"
	"normatlas/internal/tools/shared"
)

// NewDistrictComparisonTool compares need and surplus counts per district,
// across all branches, over the union of districts observed in either table.
func NewDistrictComparisonTool(deps shared.Deps) shared.Tool {
	return shared.New(
		"ilce_karsilastirma",
		"Bu tool ilçelere göre karşılaştırmalı analiz yapar. "+
			"Her ilçe için ihtiyaç ve norm fazlası sayılarını karşılaştırır. "+
			"Kullanım: İlçeleri karşılaştırmak istediğinizde kullanın.",
		func(ctx context.Context, query string) (string, error) {
			deps.Log.Debugw("Tool: ilce_karsilastirma called", "query", query)

			comparison := deps.Comparator.Compare(analysis.CategoryDistrict, nil)
			comparison.SortByNeed()

			return formatComparison("İlçelere Göre Karşılaştırmalı Analiz:", comparison), nil
		},
	)
}
