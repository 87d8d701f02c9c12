package education

import (
	"context"
	"fmt"
	"strings"

	"normatlas/internal/analysis"
	"normatlas/internal/tools/shared"
)

// NewSurplusRankingTool ranks districts by total surplus teacher count,
// highlighting the district with the largest surplus and closing with a
// grand-total summary.
func NewSurplusRankingTool(deps shared.Deps) shared.Tool {
	return shared.New(
		"ilce_norm_fazlasi_siralama",
		"Bu tool ilçelerdeki norm fazlası öğretmen sayılarını sıralar. "+
			"En çok norm fazlası olan ilçeleri ve sayılarını listeler. "+
			"Kullanım: Hangi ilçede en fazla norm fazlası öğretmen olduğunu öğrenmek istediğinizde kullanın.",
		func(ctx context.Context, query string) (string, error) {
			deps.Log.Debugw("Tool: ilce_norm_fazlasi_siralama called", "query", query)

			// Only districts that actually appear in the surplus table are
			// ranked; a district with zero surplus rows has no rank here.
			comparison := deps.Comparator.Compare(analysis.CategoryDistrict, deps.Tables.SurplusDistricts())
			comparison.SortBySurplus()

			if len(comparison.Rows) == 0 {
				return "İlçelere Göre Norm Fazlası Öğretmen Sayıları:\n\nNorm fazlası kaydı bulunmuyor.", nil
			}

			var b strings.Builder
			b.WriteString("İlçelere Göre Norm Fazlası Öğretmen Sayıları:\n\n")

			top := comparison.Rows[0]
			fmt.Fprintf(&b, "🔴 En fazla norm fazlası %s ilçesinde:\n", top.Category)
			fmt.Fprintf(&b, "   * Toplam: %d öğretmen\n", top.TotalSurplus())
			fmt.Fprintf(&b, "   * Mazaretli: %d öğretmen\n", top.Justified)
			fmt.Fprintf(&b, "   * Mazaretsiz: %d öğretmen\n\n", top.Unjustified)

			b.WriteString("Diğer İlçelerin Durumu:\n")
			for _, row := range comparison.Rows[1:] {
				fmt.Fprintf(&b, "- %s: %d öğretmen (%d mazaretli, %d mazaretsiz)\n",
					row.Category, row.TotalSurplus(), row.Justified, row.Unjustified)
			}

			var total, justified, unjustified int
			for _, row := range comparison.Rows {
				total += row.TotalSurplus()
				justified += row.Justified
				unjustified += row.Unjustified
			}

			b.WriteString("\nGenel Durum:\n")
			fmt.Fprintf(&b, "* Toplam Norm Fazlası: %d öğretmen\n", total)
			fmt.Fprintf(&b, "* Toplam Mazaretli: %d öğretmen\n", justified)
			fmt.Fprintf(&b, "* Toplam Mazaretsiz: %d öğretmen", unjustified)

			return b.String(), nil
		},
	)
}
