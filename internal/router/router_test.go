package router

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"normatlas/internal/tools"
	"normatlas/internal/tools/shared"
	"normatlas/pkg/logger"
)

func testRouter(t *testing.T, opts ...Option) *Router {
	t.Helper()

	registry := tools.NewRegistry()
	registry.Register("brans_karsilastirma", staticTool("brans_karsilastirma", "NEED-ANSWER"))
	registry.Register("ilce_norm_fazlasi_siralama", staticTool("ilce_norm_fazlasi_siralama", "SURPLUS-ANSWER"))

	return New(registry, logger.Get(), opts...)
}

func staticTool(name, answer string) shared.Tool {
	return shared.New(name, "static test tool", func(ctx context.Context, query string) (string, error) {
		return answer, nil
	})
}

func TestRouter_Classify(t *testing.T) {
	r := testRouter(t)

	tests := []struct {
		query string
		want  Route
	}{
		{"Matematik öğretmeni ihtiyacı ne kadar?", RouteNeed},
		{"ihtiyac olan branşlar", RouteNeed},
		{"Hangi ilçede norm fazlası var?", RouteSurplus},
		{"en fazla öğretmen nerede", RouteSurplus},
		{"Genel durumu özetle", RouteBoth},
		{"", RouteBoth},
		// Both keyword families present: need wins.
		{"ihtiyaç mı fazla mı?", RouteNeed},
		// Keyword matching is substring-based inside longer words.
		{"İHTİYAÇLAR neler", RouteBoth}, // uppercase İ lowers to i̇, not plain i
		{"ihtiyaçlar neler", RouteNeed},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Classify(tt.query), "query %q", tt.query)
	}
}

func TestRouter_Dispatch(t *testing.T) {
	r := testRouter(t)
	ctx := context.Background()

	t.Run("need route runs need tools only", func(t *testing.T) {
		out := r.Dispatch(ctx, "Branşlara göre ihtiyaç durumu")
		assert.Equal(t, "NEED-ANSWER", out)
	})

	t.Run("surplus route runs surplus tools only", func(t *testing.T) {
		out := r.Dispatch(ctx, "norm fazlası sıralaması")
		assert.Equal(t, "SURPLUS-ANSWER", out)
	})

	t.Run("unmatched query runs both paths under section headers", func(t *testing.T) {
		out := r.Dispatch(ctx, "Genel durumu özetle")

		assert.Contains(t, out, needSectionHeader)
		assert.Contains(t, out, surplusSectionHeader)
		assert.Contains(t, out, "NEED-ANSWER")
		assert.Contains(t, out, "SURPLUS-ANSWER")
		assert.Less(t, strings.Index(out, needSectionHeader), strings.Index(out, surplusSectionHeader))
	})
}

func TestRouter_CustomKeywords(t *testing.T) {
	r := testRouter(t, WithNeedKeywords("eksik"), WithSurplusKeywords("artan"))

	assert.Equal(t, RouteNeed, r.Classify("eksik öğretmenler"))
	assert.Equal(t, RouteSurplus, r.Classify("artan öğretmenler"))
	// Defaults stay active alongside custom keywords.
	assert.Equal(t, RouteNeed, r.Classify("ihtiyaç var mı"))
}

func TestRouter_UnregisteredToolFallback(t *testing.T) {
	r := New(tools.NewRegistry(), logger.Get())

	out := r.Dispatch(context.Background(), "ihtiyaç")
	assert.Equal(t, "Yanıt üretilemedi.", out)
}
