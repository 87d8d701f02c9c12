package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"normatlas/internal/router"
	chatservice "normatlas/internal/services/chat"
	"normatlas/internal/tools"
	"normatlas/internal/tools/shared"
	"normatlas/pkg/logger"
)

func testHandler() *Handler {
	registry := tools.NewRegistry()
	registry.Register("brans_karsilastirma", shared.New("brans_karsilastirma", "test",
		func(ctx context.Context, query string) (string, error) { return "NEED-ANSWER", nil }))
	registry.Register("ilce_norm_fazlasi_siralama", shared.New("ilce_norm_fazlasi_siralama", "test",
		func(ctx context.Context, query string) (string, error) { return "SURPLUS-ANSWER", nil }))

	service := chatservice.NewService(nil, router.New(registry, logger.Get()), nil, nil, time.Second)
	return New(service, logger.Get())
}

func TestHandleCompletions(t *testing.T) {
	handler := testHandler()

	t.Run("answers a query", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/llm/completions",
			strings.NewReader(`{"input":"Branşlara göre ihtiyaç durumu"}`))
		handler.HandleCompletions(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body CompletionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "NEED-ANSWER", body.Output)

		// intermediate_steps is always present, empty on the router path.
		assert.Contains(t, rec.Body.String(), `"intermediate_steps":[]`)
	})

	t.Run("empty input is a 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/llm/completions", strings.NewReader(`{"input":""}`))
		handler.HandleCompletions(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed JSON is a 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/llm/completions", strings.NewReader(`{`))
		handler.HandleCompletions(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects non-POST", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.HandleCompletions(rec, httptest.NewRequest(http.MethodGet, "/llm/completions", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHandleHistory(t *testing.T) {
	handler := testHandler()

	t.Run("requires user_id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.HandleHistory(rec, httptest.NewRequest(http.MethodGet, "/chat/history", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid limit is a 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/chat/history?user_id=u1&limit=abc", nil)
		handler.HandleHistory(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unconfigured storage is a 501", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/chat/history?user_id=u1", nil)
		handler.HandleHistory(rec, req)
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})
}
