package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"normatlas/internal/analysis"
	"normatlas/internal/domain/staffing"
	"normatlas/internal/tools/shared"
	"normatlas/pkg/logger"
)

func echoTool(name string) Tool {
	return shared.New(name, "echoes the query", func(ctx context.Context, query string) (string, error) {
		return query, nil
	})
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	t.Run("lookup on empty registry misses", func(t *testing.T) {
		_, ok := registry.Get("missing")
		assert.False(t, ok)
	})

	registry.Register("b_tool", echoTool("b_tool"))
	registry.Register("a_tool", echoTool("a_tool"))

	t.Run("registered tools are retrievable", func(t *testing.T) {
		tool, ok := registry.Get("a_tool")
		require.True(t, ok)
		assert.Equal(t, "a_tool", tool.Name())
	})

	t.Run("List keeps registration order", func(t *testing.T) {
		assert.Equal(t, []string{"b_tool", "a_tool"}, registry.List())
	})

	t.Run("All sorts by name", func(t *testing.T) {
		all := registry.All()
		require.Len(t, all, 2)
		assert.Equal(t, "a_tool", all[0].Name())
		assert.Equal(t, "b_tool", all[1].Name())
	})

	t.Run("re-registering replaces without duplicating", func(t *testing.T) {
		registry.Register("a_tool", echoTool("a_tool"))
		assert.Len(t, registry.List(), 2)
	})
}

func TestRegisterAllTools(t *testing.T) {
	tables := staffing.NewTables(
		[]staffing.NeedRecord{{District: "Kepez", Branch: "Matematik", Need: 5}},
		[]staffing.SurplusRecord{{District: "Kepez", Branch: "Fizik"}},
	)
	engine := analysis.NewEngine(tables)

	registry := NewRegistry()
	RegisterAllTools(registry, shared.Deps{
		Tables:     tables,
		Engine:     engine,
		Comparator: analysis.NewComparator(engine),
		Log:        logger.Get(),
	})

	expected := []string{
		"brans_karsilastirma",
		"ilce_karsilastirma",
		"ilce_brans_filtreleme",
		"ilce_norm_fazlasi_siralama",
	}
	assert.Equal(t, expected, registry.List())

	for _, name := range expected {
		tool, ok := registry.Get(name)
		require.True(t, ok, "tool %s must be registered", name)
		assert.NotEmpty(t, tool.Description(), "tool %s needs a planner hint", name)
	}
}
