package llm_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threelok/news-relay/internal/domain"
	"github.com/threelok/news-relay/internal/llm"
)

func groqServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func writeGroqChunk(w http.ResponseWriter, content string) {
	chunk := map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion.chunk",
		"created": 0,
		"model":   "llama-3.3-70b-versatile",
		"choices": []map[string]any{{"index": 0, "delta": map[string]string{"content": content}}},
	}
	data, _ := json.Marshal(chunk)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
	flush(w)
}

func TestGroq_StreamsFragmentsInOrder(t *testing.T) {
	t.Parallel()

	bodies := make(chan map[string]any, 1)
	srv := groqServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		var captured map[string]any
		_ = json.Unmarshal(body, &captured)
		bodies <- captured

		for _, part := range []string{"Hel", "lo ", "world"} {
			writeGroqChunk(w, part)
		}
		_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	})

	s := llm.NewGroq("secret", srv.URL, srv.Client())
	ch, err := s.Stream(context.Background(), llm.Request{
		Prompt:        "body " + "instruction",
		SystemPersona: "persona",
		Model:         "llama-3.3-70b-versatile",
		Temperature:   f64(0.5),
		TopP:          f64(0.5),
		MaxTokens:     8000,
	})
	require.NoError(t, err)

	texts, err := collect(t, ch)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo ", "world"}, texts)

	captured := <-bodies
	require.NotNil(t, captured)
	assert.Equal(t, "llama-3.3-70b-versatile", captured["model"])
	assert.InDelta(t, 0.5, captured["temperature"], 1e-6)
	assert.InDelta(t, 0.5, captured["top_p"], 1e-6)
	assert.InDelta(t, 8000, captured["max_tokens"], 0)
	assert.Equal(t, true, captured["stream"])
	assert.NotContains(t, captured, "stop")

	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "persona", messages[0].(map[string]any)["content"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
}

func TestGroq_EmptyDeltaYieldsEmptyFragment(t *testing.T) {
	t.Parallel()

	srv := groqServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeGroqChunk(w, "")
		writeGroqChunk(w, "x")
		_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	})

	s := llm.NewGroq("k", srv.URL, srv.Client())
	ch, err := s.Stream(context.Background(), llm.Request{Prompt: "p", Model: "m"})
	require.NoError(t, err)

	texts, err := collect(t, ch)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "x"}, texts)
}

func TestGroq_ExplicitZeroTemperatureIsSent(t *testing.T) {
	t.Parallel()

	bodies := make(chan map[string]any, 1)
	srv := groqServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var captured map[string]any
		_ = json.Unmarshal(body, &captured)
		bodies <- captured

		_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	})

	s := llm.NewGroq("k", srv.URL, srv.Client())
	ch, err := s.Stream(context.Background(), llm.Request{Prompt: "p", Model: "m", Temperature: f64(0)})
	require.NoError(t, err)
	_, err = collect(t, ch)
	require.NoError(t, err)

	captured := <-bodies
	assert.Contains(t, captured, "temperature")
	assert.InDelta(t, 0, captured["temperature"], 1e-6)
	assert.NotContains(t, captured, "top_p")
}

func TestGroq_OpenFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(w, `{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`)
	}))
	t.Cleanup(srv.Close)

	s := llm.NewGroq("bad", srv.URL, srv.Client())
	ch, err := s.Stream(context.Background(), llm.Request{Prompt: "p", Model: "m"})
	require.Error(t, err)
	assert.Nil(t, ch)
	assert.Equal(t, domain.KindStream, domain.KindOf(err))
}

func TestGroq_MidStreamFailure(t *testing.T) {
	t.Parallel()

	srv := groqServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeGroqChunk(w, "Hel")
		_, _ = fmt.Fprint(w, "data: {not json\n\n")
	})

	s := llm.NewGroq("k", srv.URL, srv.Client())
	ch, err := s.Stream(context.Background(), llm.Request{Prompt: "p", Model: "m"})
	require.NoError(t, err)

	texts, err := collect(t, ch)
	require.Error(t, err)
	assert.Equal(t, domain.KindStream, domain.KindOf(err))
	assert.Equal(t, []string{"Hel"}, texts)
}
