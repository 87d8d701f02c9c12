package chat

import (
	"context"
	"time"

	"normatlas/internal/agents"
	"normatlas/internal/domain/chat"
	"normatlas/internal/metrics"
	"normatlas/internal/router"
	"normatlas/pkg/errors"
	"normatlas/pkg/logger"
)

// Cooldowner gates how often a single user may submit queries.
type Cooldowner interface {
	AcquireCooldown(ctx context.Context, userID string, ttl time.Duration) (bool, error)
}

// ErrCooldown is returned when a user queries again inside the cooldown window.
var ErrCooldown = errors.Wrap(errors.ErrRateLimitExceeded, "user query cooldown active")

// Answer is a completed query with the tool invocations that produced it.
type Answer struct {
	Text  string
	Steps []agents.Step
}

// Service orchestrates query answering. The agent path is preferred when an
// AI provider is configured; the keyword router is the deterministic
// fallback and the sole path when no provider is available. History and
// cooldown are optional collaborators; nil disables them.
type Service struct {
	agent   *agents.Agent
	router  *router.Router
	history chat.Repository

	cooldown    Cooldowner
	cooldownTTL time.Duration

	log *logger.Logger
}

// NewService creates the chat service. agent, history and cooldown may be nil.
func NewService(agent *agents.Agent, rtr *router.Router, history chat.Repository, cooldown Cooldowner, cooldownTTL time.Duration) *Service {
	return &Service{
		agent:       agent,
		router:      rtr,
		history:     history,
		cooldown:    cooldown,
		cooldownTTL: cooldownTTL,
		log:         logger.Get().With("component", "chat_service"),
	}
}

// Answer resolves a user query into Turkish analysis text. It never returns
// a provider error to the caller: agent failures degrade to the fallback
// answer with an empty step trace.
func (s *Service) Answer(ctx context.Context, query, userID string) (*Answer, error) {
	if err := s.acquire(ctx, userID); err != nil {
		return nil, err
	}

	answer := s.resolve(ctx, query)

	s.record(ctx, userID, query, answer.Text)
	return answer, nil
}

func (s *Service) resolve(ctx context.Context, query string) *Answer {
	if s.agent != nil {
		metrics.QueriesTotal.WithLabelValues("agent").Inc()
		result, err := s.agent.ProcessQuery(ctx, query)
		if err == nil {
			return &Answer{Text: result.Answer, Steps: result.Steps}
		}
		s.log.Errorf("agent failed, returning fallback answer: %v", err)
		return &Answer{Text: agents.NoAnswer, Steps: []agents.Step{}}
	}

	metrics.QueriesTotal.WithLabelValues("router").Inc()
	return &Answer{
		Text:  s.router.Dispatch(ctx, query),
		Steps: []agents.Step{},
	}
}

func (s *Service) acquire(ctx context.Context, userID string) error {
	if s.cooldown == nil || userID == "" {
		return nil
	}

	ok, err := s.cooldown.AcquireCooldown(ctx, userID, s.cooldownTTL)
	if err != nil {
		// Cooldown storage being down must not take queries down with it.
		s.log.Warnf("cooldown check failed, allowing query: %v", err)
		return nil
	}
	if !ok {
		return ErrCooldown
	}
	return nil
}

// record persists the exchange best-effort. History is an audit trail, not
// part of the answer contract, so storage failures are logged and swallowed.
func (s *Service) record(ctx context.Context, userID, query, answer string) {
	if s.history == nil || userID == "" {
		return
	}

	if err := s.history.Append(ctx, chat.NewMessage(userID, chat.RoleUser, query)); err != nil {
		s.log.Warnf("failed to store user message: %v", err)
		return
	}
	if err := s.history.Append(ctx, chat.NewMessage(userID, chat.RoleAssistant, answer)); err != nil {
		s.log.Warnf("failed to store assistant message: %v", err)
	}
}

// History returns the most recent messages for a user, oldest first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]*chat.Message, error) {
	if s.history == nil {
		return nil, errors.Wrap(errors.ErrUnavailable, "chat history storage not configured")
	}
	return s.history.History(ctx, userID, limit)
}
