package education

import (
	"fmt"
	"strings"

	"normatlas/internal/analysis"
)

// Tools return pre-formatted multi-line Turkish text. The layout (header
// line, one bullet per category, optional trailing summary) is part of the
// tool contract: the agent surfaces it to end users without transformation.

func formatComparison(header string, comparison analysis.RankedComparison) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")

	for _, row := range comparison.Rows {
		fmt.Fprintf(&b, "- %s:\n", row.Category)
		fmt.Fprintf(&b, "  * İhtiyaç: %d öğretmen\n", row.Need)
		fmt.Fprintf(&b, "  * Norm Fazlası: %d öğretmen (%d mazaretli, %d mazaretsiz)\n",
			row.TotalSurplus(), row.Justified, row.Unjustified)
	}

	return b.String()
}
