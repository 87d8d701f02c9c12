package tools

import (
	"normatlas/internal/tools/education"
	"normatlas/internal/tools/shared"
)

// RegisterAllTools registers all available tools in the registry.
// Tool names are a stable external contract: the router uses them as
// dispatch keys and the agent planner selects tools by name.
func RegisterAllTools(registry *Registry, deps shared.Deps) {
	log := deps.Log.With("component", "tool_registration")

	registry.Register("brans_karsilastirma", education.NewBranchComparisonTool(deps))
	registry.Register("ilce_karsilastirma", education.NewDistrictComparisonTool(deps))
	registry.Register("ilce_brans_filtreleme", education.NewDistrictBranchFilterTool(deps))
	registry.Register("ilce_norm_fazlasi_siralama", education.NewSurplusRankingTool(deps))

	log.Infof("Tool registration complete: %d tools available", len(registry.List()))
}
