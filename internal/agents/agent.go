package agents

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/time/rate"

	"normatlas/internal/adapters/ai"
	"normatlas/internal/adapters/config"
	"normatlas/internal/metrics"
	"normatlas/internal/tools"
	"normatlas/pkg/errors"
	"normatlas/pkg/logger"
)

// NoAnswer is the well-formed fallback returned whenever the upstream model
// fails or produces nothing usable. Callers never see a raw provider error.
const NoAnswer = "Yanıt üretilemedi."

const systemPrompt = "Sen bir eğitim verisi analiz asistanısın. " +
	"İlçelere ve branşlara göre öğretmen ihtiyacı ve norm fazlası verileri üzerinde çalışıyorsun. " +
	"Soruları yanıtlamak için sana verilen analiz araçlarını kullan ve aracın döndürdüğü sayılara sadık kal. " +
	"Araç çıktısında olmayan sayılar uydurma."

// Agent answers free-text questions by driving a chat model through the
// registered analysis tools. The model plans which tool to call; the tools
// compute; the model summarizes.
type Agent struct {
	provider ai.ChatProvider
	registry *tools.Registry
	model    string

	maxTurns     int
	maxRetries   int
	retryBackoff time.Duration
	temperature  float64

	// Enforces the minimum interval between provider requests.
	limiter *rate.Limiter

	log *logger.Logger
}

// Result is the agent's answer together with its visible thought process.
type Result struct {
	Answer string
	Steps  []Step
}

// New creates an agent over the given provider and tool registry.
func New(provider ai.ChatProvider, registry *tools.Registry, aiCfg config.AIConfig, agentCfg config.AgentConfig) *Agent {
	minInterval := agentCfg.MinInterval
	if minInterval <= 0 {
		minInterval = time.Second
	}

	return &Agent{
		provider:     provider,
		registry:     registry,
		model:        aiCfg.Model,
		maxTurns:     agentCfg.MaxTurns,
		maxRetries:   agentCfg.MaxRetries,
		retryBackoff: agentCfg.RetryBackoff,
		temperature:  agentCfg.Temperature,
		limiter:      rate.NewLimiter(rate.Every(minInterval), 1),
		log:          logger.Get().With("component", "data_agent", "provider", provider.Name()),
	}
}

// ProcessQuery answers a user query, retrying transient provider failures
// with exponential backoff. On exhausted retries it returns the error; the
// service layer above converts that into the NoAnswer sentinel.
func (a *Agent) ProcessQuery(ctx context.Context, query string) (*Result, error) {
	attempts := a.maxRetries
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	backoff := a.retryBackoff
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := a.run(ctx, query)
		if err == nil {
			return result, nil
		}
		lastErr = err
		a.log.Warnf("Retry attempt %d after error: %v", attempt, err)

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "agent cancelled")
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, errors.Wrap(lastErr, "agent exhausted retries")
}

func (a *Agent) run(ctx context.Context, query string) (*Result, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "agent rate limit wait")
	}

	messages := []ai.Message{
		{Role: ai.RoleSystem, Content: systemPrompt},
		{Role: ai.RoleUser, Content: query},
	}

	var steps []Step
	stepNo := 0
	lastContent := ""

	maxTurns := a.maxTurns
	if maxTurns <= 0 {
		maxTurns = 3
	}

	for turn := 0; turn < maxTurns; turn++ {
		resp, err := a.provider.Chat(ctx, ai.ChatRequest{
			Model:       a.model,
			Messages:    messages,
			Tools:       a.toolDefinitions(),
			Temperature: a.temperature,
		})
		if err != nil {
			return nil, err
		}
		metrics.AgentTurns.Inc()

		if len(resp.ToolCalls) == 0 {
			answer := resp.Content
			if answer == "" {
				answer = NoAnswer
			}
			return &Result{Answer: answer, Steps: steps}, nil
		}

		if resp.Content != "" {
			lastContent = resp.Content
		}

		messages = append(messages, ai.Message{
			Role:      ai.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, call := range resp.ToolCalls {
			observation := a.invokeTool(ctx, call)
			stepNo++
			steps = append(steps, newStep(stepNo, resp.Content, call.Name, observation))

			messages = append(messages, ai.Message{
				Role:       ai.RoleTool,
				Content:    observation,
				ToolCallID: call.ID,
				Name:       call.Name,
			})
		}
	}

	// Turn budget exhausted: surface what we have instead of failing the query.
	answer := lastContent
	if answer == "" {
		answer = NoAnswer
	}
	return &Result{Answer: answer, Steps: steps}, nil
}

// invokeTool resolves and runs a single tool call. Unknown tools become an
// observation the model can react to, never an error.
func (a *Agent) invokeTool(ctx context.Context, call ai.ToolCall) string {
	tool, ok := a.registry.Get(call.Name)
	if !ok {
		a.log.Warnf("model requested unknown tool %q", call.Name)
		return "Bilinmeyen araç: " + call.Name
	}

	started := time.Now()
	observation := tool.Invoke(ctx, extractQueryArg(call.Arguments))
	metrics.ObserveToolInvocation(call.Name, time.Since(started))

	return observation
}

// extractQueryArg pulls the free-text "query" argument out of the JSON
// argument object. Malformed arguments fall back to the raw string so the
// tool still receives something to match against.
func extractQueryArg(arguments string) string {
	var parsed struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(arguments), &parsed); err == nil && parsed.Query != "" {
		return parsed.Query
	}
	return arguments
}

// toolDefinitions exposes every registered tool with a single free-text
// "query" parameter. The host-side planner decides which tool to call; tools
// do their own best-effort category extraction from the text.
func (a *Agent) toolDefinitions() []ai.ToolDefinition {
	var defs []ai.ToolDefinition
	for _, tool := range a.registry.All() {
		defs = append(defs, ai.ToolDefinition{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Kullanıcının sorusu",
					},
				},
				"required": []string{"query"},
			},
		})
	}
	return defs
}
