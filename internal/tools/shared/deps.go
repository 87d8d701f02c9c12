package shared

import (
	"normatlas/internal/analysis"
	"normatlas/internal/domain/staffing"
	"normatlas/pkg/logger"
)

// Deps bundles dependencies required by concrete tool implementations.
// The tables are immutable after load, so the bundle is safe to share
// across concurrent tool invocations.
type Deps struct {
	Tables     *staffing.Tables
	Engine     *analysis.Engine
	Comparator *analysis.Comparator
	Log        *logger.Logger
}
