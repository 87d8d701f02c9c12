package agents

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"normatlas/internal/adapters/ai"
	"normatlas/internal/adapters/config"
	"normatlas/internal/tools"
	"normatlas/internal/tools/shared"
	"normatlas/pkg/errors"
)

// scriptedProvider returns canned responses in order, then errors.
type scriptedProvider struct {
	responses []*ai.ChatResponse
	err       error
	calls     int
	requests  []ai.ChatRequest
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Chat(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	p.requests = append(p.requests, req)
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	if len(p.responses) == 0 {
		return nil, errors.Wrap(errors.ErrNoResponse, "script exhausted")
	}
	resp := p.responses[0]
	p.responses = p.responses[1:]
	return resp, nil
}

func testAgentConfig() (config.AIConfig, config.AgentConfig) {
	return config.AIConfig{Model: "test-model"},
		config.AgentConfig{
			MaxTurns:     3,
			MaxRetries:   2,
			RetryBackoff: time.Millisecond,
			MinInterval:  time.Millisecond,
		}
}

func testToolRegistry() *tools.Registry {
	registry := tools.NewRegistry()
	registry.Register("analiz", shared.New("analiz", "test analysis tool",
		func(ctx context.Context, query string) (string, error) {
			return "ARAÇ SONUCU: " + query, nil
		}))
	return registry
}

func TestAgent_ProcessQuery(t *testing.T) {
	aiCfg, agentCfg := testAgentConfig()

	t.Run("direct answer without tool calls", func(t *testing.T) {
		provider := &scriptedProvider{responses: []*ai.ChatResponse{
			{Content: "Doğrudan cevap"},
		}}
		agent := New(provider, testToolRegistry(), aiCfg, agentCfg)

		result, err := agent.ProcessQuery(context.Background(), "soru")
		require.NoError(t, err)
		assert.Equal(t, "Doğrudan cevap", result.Answer)
		assert.Empty(t, result.Steps)
	})

	t.Run("tool call loop produces numbered steps", func(t *testing.T) {
		provider := &scriptedProvider{responses: []*ai.ChatResponse{
			{
				Content: "Aracı çağırıyorum",
				ToolCalls: []ai.ToolCall{
					{ID: "call-1", Name: "analiz", Arguments: `{"query":"ihtiyaç durumu"}`},
				},
			},
			{Content: "Özet cevap"},
		}}
		agent := New(provider, testToolRegistry(), aiCfg, agentCfg)

		result, err := agent.ProcessQuery(context.Background(), "soru")
		require.NoError(t, err)
		assert.Equal(t, "Özet cevap", result.Answer)

		require.Len(t, result.Steps, 1)
		step := result.Steps[0]
		assert.Equal(t, "Adım 1", step.Label)
		assert.Equal(t, "analiz", step.Action)
		assert.Equal(t, "ARAÇ SONUCU: ihtiyaç durumu", step.Observation)

		// Second request must replay the tool observation to the model.
		require.Len(t, provider.requests, 2)
		last := provider.requests[1].Messages[len(provider.requests[1].Messages)-1]
		assert.Equal(t, ai.RoleTool, last.Role)
		assert.Equal(t, "call-1", last.ToolCallID)
	})

	t.Run("unknown tool becomes an observation, not a failure", func(t *testing.T) {
		provider := &scriptedProvider{responses: []*ai.ChatResponse{
			{ToolCalls: []ai.ToolCall{{ID: "call-1", Name: "yok_boyle_arac", Arguments: `{}`}}},
			{Content: "Toparladım"},
		}}
		agent := New(provider, testToolRegistry(), aiCfg, agentCfg)

		result, err := agent.ProcessQuery(context.Background(), "soru")
		require.NoError(t, err)
		assert.Equal(t, "Toparladım", result.Answer)
		require.Len(t, result.Steps, 1)
		assert.Contains(t, result.Steps[0].Observation, "Bilinmeyen araç")
	})

	t.Run("turn budget exhaustion degrades to last content", func(t *testing.T) {
		call := ai.ToolCall{ID: "c", Name: "analiz", Arguments: `{"query":"x"}`}
		provider := &scriptedProvider{responses: []*ai.ChatResponse{
			{Content: "birinci", ToolCalls: []ai.ToolCall{call}},
			{Content: "ikinci", ToolCalls: []ai.ToolCall{call}},
			{Content: "üçüncü", ToolCalls: []ai.ToolCall{call}},
		}}
		agent := New(provider, testToolRegistry(), aiCfg, agentCfg)

		result, err := agent.ProcessQuery(context.Background(), "soru")
		require.NoError(t, err)
		assert.Equal(t, "üçüncü", result.Answer)
		assert.Len(t, result.Steps, 3)
		assert.Equal(t, 3, provider.calls, "loop must stop at the turn budget")
	})

	t.Run("empty model content falls back to the fixed answer", func(t *testing.T) {
		provider := &scriptedProvider{responses: []*ai.ChatResponse{{Content: ""}}}
		agent := New(provider, testToolRegistry(), aiCfg, agentCfg)

		result, err := agent.ProcessQuery(context.Background(), "soru")
		require.NoError(t, err)
		assert.Equal(t, NoAnswer, result.Answer)
	})

	t.Run("provider failures are retried then surfaced", func(t *testing.T) {
		provider := &scriptedProvider{err: errors.Wrap(errors.ErrExternal, "upstream down")}
		agent := New(provider, testToolRegistry(), aiCfg, agentCfg)

		_, err := agent.ProcessQuery(context.Background(), "soru")
		require.Error(t, err)
		assert.Equal(t, agentCfg.MaxRetries, provider.calls)
	})
}

func TestExtractQueryArg(t *testing.T) {
	assert.Equal(t, "ihtiyaç", extractQueryArg(`{"query":"ihtiyaç"}`))
	assert.Equal(t, "düz metin", extractQueryArg("düz metin"), "malformed JSON falls back to raw text")
	assert.Equal(t, `{"other":"x"}`, extractQueryArg(`{"other":"x"}`), "missing query field falls back to raw text")
}

func TestAgent_ToolDefinitions(t *testing.T) {
	aiCfg, agentCfg := testAgentConfig()
	agent := New(&scriptedProvider{}, testToolRegistry(), aiCfg, agentCfg)

	defs := agent.toolDefinitions()
	require.Len(t, defs, 1)
	assert.Equal(t, "analiz", defs[0].Name)
	assert.NotEmpty(t, defs[0].Description)
	assert.Equal(t, "object", defs[0].Parameters["type"])
}
