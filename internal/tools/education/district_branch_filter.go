package education

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"normatlas/internal/domain/staffing"
	"normatlas/internal/tools/shared"
)

// DistrictNotFound is the fixed response when no known district name occurs
// in the query text.
const DistrictNotFound = "İlçe adı bulunamadı. Lütfen geçerli bir ilçe adı belirtin."

// NewDistrictBranchFilterTool breaks down need and surplus per branch inside
// a single district. The district is resolved by a best-effort lowercase
// substring match of every known district name against the query, taking the
// first match in the surplus table's first-observed order. Ambiguous queries
// therefore resolve to a single arbitrary district.
func NewDistrictBranchFilterTool(deps shared.Deps) shared.Tool {
	return shared.New(
		"ilce_brans_filtreleme",
		"Bu tool belirli bir ilçedeki branşlara göre norm fazlası ve ihtiyaç analizini yapar. "+
			"İlçe adı verilerek o ilçedeki branş bazlı durumu analiz eder. "+
			"Kullanım: Bir ilçedeki branşlara göre durumu öğrenmek istediğinizde kullanın. "+
			"Örnek: \"Muratpaşa'da hangi branşlarda norm fazlası var?\" gibi sorular için.",
		func(ctx context.Context, query string) (string, error) {
			district := extractDistrict(deps.Tables, query)
			if district == "" {
				deps.Log.Debugw("Tool: ilce_brans_filtreleme found no district", "query", query)
				return DistrictNotFound, nil
			}

			deps.Log.Debugw("Tool: ilce_brans_filtreleme called", "district", district)
			return formatDistrictBreakdown(deps, district), nil
		},
	)
}

// extractDistrict returns the first known district name contained in the
// lowercased query, or "" when none matches.
func extractDistrict(tables *staffing.Tables, query string) string {
	lowered := strings.ToLower(query)
	for _, district := range tables.SurplusDistricts() {
		if strings.Contains(lowered, strings.ToLower(district)) {
			return district
		}
	}
	return ""
}

type branchBreakdown struct {
	branch      string
	need        int
	justified   int
	unjustified int
}

func (b branchBreakdown) totalSurplus() int {
	return b.justified + b.unjustified
}

func formatDistrictBreakdown(deps shared.Deps, district string) string {
	districtSel := staffing.Selection{district: {}}

	// Branches observed in either table within this district.
	seen := make(map[string]struct{})
	var branches []string
	for _, r := range deps.Tables.Needs() {
		if r.District == district {
			if _, ok := seen[r.Branch]; !ok {
				seen[r.Branch] = struct{}{}
				branches = append(branches, r.Branch)
			}
		}
	}
	for _, r := range deps.Tables.Surpluses() {
		if r.District == district {
			if _, ok := seen[r.Branch]; !ok {
				seen[r.Branch] = struct{}{}
				branches = append(branches, r.Branch)
			}
		}
	}

	var rows []branchBreakdown
	for _, branch := range branches {
		branchSel := staffing.Selection{branch: {}}
		counts := deps.Engine.SurplusCounts(districtSel, branchSel)
		row := branchBreakdown{
			branch:      branch,
			need:        deps.Engine.NeedSum(districtSel, branchSel),
			justified:   counts.Justified,
			unjustified: counts.Unjustified,
		}
		if row.need > 0 || row.totalSurplus() > 0 {
			rows = append(rows, row)
		}
	}

	// Surplus-heavy branches first.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].totalSurplus() > rows[j].totalSurplus()
	})

	var b strings.Builder
	fmt.Fprintf(&b, "%s İlçesi Branş Analizi:\n\n", district)

	wroteSurplus := false
	for _, row := range rows {
		if row.totalSurplus() == 0 {
			continue
		}
		if !wroteSurplus {
			b.WriteString("Norm Fazlası Olan Branşlar:\n")
			wroteSurplus = true
		}
		fmt.Fprintf(&b, "- %s:\n", row.branch)
		fmt.Fprintf(&b, "  * Toplam: %d öğretmen (%d mazaretli, %d mazaretsiz)\n",
			row.totalSurplus(), row.justified, row.unjustified)
		if row.need > 0 {
			fmt.Fprintf(&b, "  * Aynı zamanda %d öğretmen ihtiyaç var\n", row.need)
		}
	}

	wroteNeed := false
	for _, row := range rows {
		if row.need == 0 || row.totalSurplus() > 0 {
			continue
		}
		if !wroteNeed {
			if wroteSurplus {
				b.WriteString("\n")
			}
			b.WriteString("İhtiyaç Olan Branşlar:\n")
			wroteNeed = true
		}
		fmt.Fprintf(&b, "- %s: %d öğretmen ihtiyaç var\n", row.branch, row.need)
	}

	if !wroteSurplus && !wroteNeed {
		b.WriteString("Bu ilçede norm fazlası veya ihtiyaç kaydı bulunmuyor.\n")
	}

	return b.String()
}
