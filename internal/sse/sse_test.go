package sse_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threelok/news-relay/internal/sse"
)

func TestEncode_DataOnly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, sse.Encode(&buf, sse.Event{Data: map[string]string{"content": "Hel"}}))

	assert.Equal(t, "data: {\"content\":\"Hel\"}\n\n", buf.String())
}

func TestEncode_TypedWithID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, sse.Encode(&buf, sse.Event{Type: "error", ID: "7", Data: map[string]string{"error": "x"}}))

	assert.Equal(t, "event: error\nid: 7\ndata: {\"error\":\"x\"}\n\n", buf.String())
}

func TestEncode_MultilineTextStaysOnOneDataLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, sse.Encode(&buf, sse.Event{Data: map[string]string{"content": "a\n\nb"}}))

	assert.Equal(t, "data: {\"content\":\"a\\n\\nb\"}\n\n", buf.String())
}

func TestEncode_UnmarshalableData(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := sse.Encode(&buf, sse.Event{Data: make(chan int)})
	require.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestWriter_SendSetsHeadersOnce(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w := sse.NewWriter(rec)
	assert.Empty(t, rec.Header().Get("Content-Type"), "headers wait for the first event")

	require.NoError(t, w.SendData(map[string]string{"title": "T"}))
	require.NoError(t, w.SendData(map[string]string{"content": "x"}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sse.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", rec.Header().Get("Connection"))
	assert.True(t, rec.Flushed)
	assert.Equal(t, "data: {\"title\":\"T\"}\n\ndata: {\"content\":\"x\"}\n\n", rec.Body.String())
}

func TestEncode_NoHTMLEscaping(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, sse.Encode(&buf, sse.Event{Data: map[string]string{"image": "http://i/a.png?w=1&h=2"}}))

	assert.Equal(t, "data: {\"image\":\"http://i/a.png?w=1&h=2\"}\n\n", buf.String())
}
