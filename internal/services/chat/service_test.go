package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "normatlas/internal/domain/chat"
	"normatlas/internal/router"
	"normatlas/internal/tools"
	"normatlas/internal/tools/shared"
	"normatlas/pkg/errors"
	"normatlas/pkg/logger"
)

type memoryHistory struct {
	messages  []*domain.Message
	appendErr error
}

func (m *memoryHistory) Append(ctx context.Context, msg *domain.Message) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.messages = append(m.messages, msg)
	return nil
}

func (m *memoryHistory) History(ctx context.Context, userID string, limit int) ([]*domain.Message, error) {
	var out []*domain.Message
	for _, msg := range m.messages {
		if msg.UserID == userID {
			out = append(out, msg)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type fakeCooldown struct {
	allow bool
	err   error
}

func (c *fakeCooldown) AcquireCooldown(ctx context.Context, userID string, ttl time.Duration) (bool, error) {
	return c.allow, c.err
}

func testRouter() *router.Router {
	registry := tools.NewRegistry()
	registry.Register("brans_karsilastirma", shared.New("brans_karsilastirma", "test",
		func(ctx context.Context, query string) (string, error) { return "NEED-ANSWER", nil }))
	registry.Register("ilce_norm_fazlasi_siralama", shared.New("ilce_norm_fazlasi_siralama", "test",
		func(ctx context.Context, query string) (string, error) { return "SURPLUS-ANSWER", nil }))
	return router.New(registry, logger.Get())
}

func TestService_Answer_RouterPath(t *testing.T) {
	history := &memoryHistory{}
	service := NewService(nil, testRouter(), history, nil, time.Second)
	ctx := context.Background()

	answer, err := service.Answer(ctx, "Branşlara göre ihtiyaç durumu nedir?", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "NEED-ANSWER", answer.Text)
	assert.Empty(t, answer.Steps)
	assert.NotNil(t, answer.Steps, "trace must encode as [] rather than null")

	t.Run("exchange is recorded in order", func(t *testing.T) {
		require.Len(t, history.messages, 2)
		assert.Equal(t, domain.RoleUser, history.messages[0].Role)
		assert.Equal(t, "Branşlara göre ihtiyaç durumu nedir?", history.messages[0].Content)
		assert.Equal(t, domain.RoleAssistant, history.messages[1].Role)
		assert.Equal(t, "NEED-ANSWER", history.messages[1].Content)
	})
}

func TestService_Answer_Cooldown(t *testing.T) {
	ctx := context.Background()

	t.Run("active cooldown rejects the query", func(t *testing.T) {
		service := NewService(nil, testRouter(), nil, &fakeCooldown{allow: false}, time.Second)

		_, err := service.Answer(ctx, "soru", "user-1")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrRateLimitExceeded))
	})

	t.Run("cooldown storage failure does not block queries", func(t *testing.T) {
		service := NewService(nil, testRouter(), nil,
			&fakeCooldown{err: errors.Wrap(errors.ErrUnavailable, "redis down")}, time.Second)

		answer, err := service.Answer(ctx, "norm fazlası", "user-1")
		require.NoError(t, err)
		assert.Equal(t, "SURPLUS-ANSWER", answer.Text)
	})

	t.Run("anonymous queries bypass the cooldown", func(t *testing.T) {
		service := NewService(nil, testRouter(), nil, &fakeCooldown{allow: false}, time.Second)

		_, err := service.Answer(ctx, "soru", "")
		assert.NoError(t, err)
	})
}

func TestService_Answer_HistoryIsBestEffort(t *testing.T) {
	history := &memoryHistory{appendErr: errors.Wrap(errors.ErrInternal, "db down")}
	service := NewService(nil, testRouter(), history, nil, time.Second)

	answer, err := service.Answer(context.Background(), "ihtiyaç", "user-1")
	require.NoError(t, err, "storage failure must not fail the query")
	assert.Equal(t, "NEED-ANSWER", answer.Text)
}

func TestService_History(t *testing.T) {
	t.Run("without storage history is unavailable", func(t *testing.T) {
		service := NewService(nil, testRouter(), nil, nil, time.Second)

		_, err := service.History(context.Background(), "user-1", 10)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrUnavailable))
	})

	t.Run("returns stored messages for the user", func(t *testing.T) {
		history := &memoryHistory{}
		service := NewService(nil, testRouter(), history, nil, time.Second)
		ctx := context.Background()

		_, err := service.Answer(ctx, "ihtiyaç", "user-1")
		require.NoError(t, err)
		_, err = service.Answer(ctx, "ihtiyaç", "user-2")
		require.NoError(t, err)

		messages, err := service.History(ctx, "user-1", 0)
		require.NoError(t, err)
		require.Len(t, messages, 2)
		assert.Equal(t, "user-1", messages[0].UserID)
	})
}
