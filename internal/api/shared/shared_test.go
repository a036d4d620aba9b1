package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/taskmanagement-api/internal/domain"
	"github.com/phrazzld/taskmanagement-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	ctx := SetTraceID(context.Background())
	traceID := GetTraceID(ctx)

	assert.Len(t, traceID, 32)
	assert.NotEqual(t, traceID, GetTraceID(SetTraceID(context.Background())))
	assert.Empty(t, GetTraceID(context.Background()))
	assert.Equal(t, "abc", GetTraceID(WithTraceID(context.Background(), "abc")))
	assert.Len(t, generateFallbackTraceID(), 32)
}

func TestRespondWithJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusCreated, map[string]int{"id": 1})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":1}`, w.Body.String())
}

func TestRespondWithError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(WithTraceID(req.Context(), "trace-123"))
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusNotFound, "Task not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Task not found", body.Error)
	assert.Equal(t, "trace-123", body.TraceID)
}

func TestRespondWithErrorAndLog(t *testing.T) {
	buf, log := logger.SetupTestLogger(t)

	req := httptest.NewRequest(http.MethodDelete, "/Tasks/1", nil)
	ctx := logger.WithLogger(WithTraceID(req.Context(), "trace-500"), log)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	cause := errors.New(`exec "DELETE FROM tasks WHERE id = ?" on /var/lib/tasks/tasks.db failed`)
	RespondWithErrorAndLog(w, req, http.StatusInternalServerError, "An unexpected error occurred", cause)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "DELETE")
	assert.NotContains(t, w.Body.String(), "/var/lib")

	output := buf.String()
	assert.Contains(t, output, "API error response")
	assert.Contains(t, output, "trace-500")
	assert.Contains(t, output, `"level":"ERROR"`)
	assert.NotContains(t, output, "DELETE FROM tasks", "SQL should be redacted from logs")
	assert.NotContains(t, output, "/var/lib/tasks", "paths should be redacted from logs")
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Title string `json:"title"`
	}

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"a"}`))
		var p payload
		require.NoError(t, DecodeJSON(req, &p))
		assert.Equal(t, "a", p.Title)
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		var p payload
		assert.ErrorIs(t, DecodeJSON(req, &p), domain.ErrEmptyPayload)
	})

	t.Run("malformed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))
		var p payload
		assert.ErrorIs(t, DecodeJSON(req, &p), domain.ErrValidation)
	})

	t.Run("null leaves pointer nil", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`null`))
		var p *payload
		require.NoError(t, DecodeJSON(req, &p))
		assert.Nil(t, p)
	})
}
