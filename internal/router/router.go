package router

import (
	"context"
	"strings"

	"normatlas/internal/tools"
	"normatlas/pkg/logger"
)

// Route identifies which analysis path a query belongs to.
type Route string

const (
	// RouteNeed dispatches to need-scoped tools only.
	RouteNeed Route = "need"
	// RouteSurplus dispatches to surplus-scoped tools only.
	RouteSurplus Route = "surplus"
	// RouteBoth dispatches to both paths and concatenates the results.
	RouteBoth Route = "both"
)

// Default keyword sets. Matching is lowercase substring containment; this is
// an intentionally crude, hand-maintained classifier, extended by adding
// keywords rather than by any learned model.
var (
	defaultNeedKeywords    = []string{"ihtiyaç", "ihtiyac"}
	defaultSurplusKeywords = []string{"norm fazlası", "norm fazlasi", "fazla"}
)

// Section headers used when both paths run and results are concatenated.
const (
	needSectionHeader    = "## İhtiyaç Analizi"
	surplusSectionHeader = "## Norm Fazlası Analizi"
)

// Router is a stateless keyword classifier over free-text queries.
type Router struct {
	needKeywords    []string
	surplusKeywords []string

	needTools    []string
	surplusTools []string

	registry *tools.Registry
	log      *logger.Logger
}

// Option customizes a Router.
type Option func(*Router)

// WithNeedKeywords adds keywords to the need set.
func WithNeedKeywords(keywords ...string) Option {
	return func(r *Router) {
		r.needKeywords = append(r.needKeywords, keywords...)
	}
}

// WithSurplusKeywords adds keywords to the surplus set.
func WithSurplusKeywords(keywords ...string) Option {
	return func(r *Router) {
		r.surplusKeywords = append(r.surplusKeywords, keywords...)
	}
}

// New creates a router dispatching over the given tool registry.
func New(registry *tools.Registry, log *logger.Logger, opts ...Option) *Router {
	r := &Router{
		needKeywords:    append([]string(nil), defaultNeedKeywords...),
		surplusKeywords: append([]string(nil), defaultSurplusKeywords...),

		// The branch comparison leads with need numbers; the ranking tool is
		// purely a surplus view.
		needTools:    []string{"brans_karsilastirma"},
		surplusTools: []string{"ilce_norm_fazlasi_siralama"},

		registry: registry,
		log:      log.With("component", "query_router"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Classify decides the route for a query. A need keyword wins over a surplus
// keyword when both occur, because "fazla" is a substring of everyday phrasing
// while need keywords are explicit.
func (r *Router) Classify(query string) Route {
	lowered := strings.ToLower(query)

	if containsAny(lowered, r.needKeywords) {
		return RouteNeed
	}
	if containsAny(lowered, r.surplusKeywords) {
		return RouteSurplus
	}
	return RouteBoth
}

// Dispatch classifies the query and runs the tools of the selected path.
// When neither keyword set matches, both paths run and their results are
// concatenated under labeled section headers. Dispatch never returns an
// error: tool failures surface as diagnostic strings inside the answer.
func (r *Router) Dispatch(ctx context.Context, query string) string {
	route := r.Classify(query)
	r.log.Debugw("query classified", "route", route)

	switch route {
	case RouteNeed:
		return r.runTools(ctx, query, r.needTools)
	case RouteSurplus:
		return r.runTools(ctx, query, r.surplusTools)
	default:
		var b strings.Builder
		b.WriteString(needSectionHeader)
		b.WriteString("\n\n")
		b.WriteString(r.runTools(ctx, query, r.needTools))
		b.WriteString("\n\n")
		b.WriteString(surplusSectionHeader)
		b.WriteString("\n\n")
		b.WriteString(r.runTools(ctx, query, r.surplusTools))
		return b.String()
	}
}

func (r *Router) runTools(ctx context.Context, query string, names []string) string {
	var parts []string
	for _, name := range names {
		tool, ok := r.registry.Get(name)
		if !ok {
			r.log.Warnf("routed to unregistered tool %q", name)
			continue
		}
		parts = append(parts, tool.Invoke(ctx, query))
	}
	if len(parts) == 0 {
		return "Yanıt üretilemedi."
	}
	return strings.Join(parts, "\n\n")
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
