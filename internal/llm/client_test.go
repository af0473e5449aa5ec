package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/projectziio/ziio-ai/internal/llm"
	"github.com/projectziio/ziio-ai/internal/llm/llmtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete_SendsHeadersAndParsesReply(t *testing.T) {
	gw := llmtest.New(t)
	gw.On("m/primary", llmtest.Reply{Content: "hello there"})

	resp, err := gw.Client().Complete(context.Background(), llm.Request{
		Model:       "m/primary",
		Temperature: 0.7,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "sys"},
			{Role: llm.RoleUser, Parts: []llm.ContentPart{llm.TextPart("look"), llm.ImagePart("https://img/1.png")}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", resp.Text())

	h := gw.Header(0)
	assert.Equal(t, "Bearer test-key", h.Get("Authorization"))
	assert.Equal(t, "http://localhost:3000", h.Get("HTTP-Referer"))
	assert.Equal(t, "Project Ziio", h.Get("X-Title"))

	reqs := gw.Requests()
	require.Len(t, reqs, 1)
	require.Len(t, reqs[0].Messages, 2)
	assert.Equal(t, "sys", reqs[0].Messages[0].Content)
	require.Len(t, reqs[0].Messages[1].Parts, 2)
	assert.Equal(t, "https://img/1.png", reqs[0].Messages[1].Parts[1].ImageURL.URL)
	assert.False(t, reqs[0].Stream)
}

func TestComplete_MapsStatusToAPIError(t *testing.T) {
	gw := llmtest.New(t)
	gw.On("m/primary", llmtest.Reply{Status: http.StatusTooManyRequests, Message: "Rate limit exceeded: free-models-per-day"})

	_, err := gw.Client().Complete(context.Background(), llm.Request{Model: "m/primary", Messages: []llm.Message{{Role: "user", Content: "x"}}})
	require.Error(t, err)

	var ae *llm.APIError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, http.StatusTooManyRequests, ae.StatusCode)
	assert.Equal(t, "Rate limit exceeded: free-models-per-day", ae.Message)
	assert.Equal(t, "429", ae.Code)
	assert.True(t, llm.IsRetryable(err))
	assert.Equal(t, 429, llm.StatusCode(err))
}

func TestComplete_ErrorPayloadWithOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"error":{"message":"Provider returned error","code":503}}`)
	}))
	defer srv.Close()

	c := llm.NewClient(llm.Config{APIKey: "k", BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), llm.Request{Model: "m", Messages: []llm.Message{{Role: "user", Content: "x"}}})
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, llm.StatusCode(err))
	assert.Equal(t, "Provider returned error", llm.ErrorMessage(err))
}

func TestComplete_KeepsStringErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"message":"model not found","code":"invalid_model"}}`)
	}))
	defer srv.Close()

	c := llm.NewClient(llm.Config{APIKey: "k", BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), llm.Request{Model: "m", Messages: []llm.Message{{Role: "user", Content: "x"}}})
	var ae *llm.APIError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, http.StatusBadRequest, ae.StatusCode)
	assert.Equal(t, "invalid_model", ae.Code)
	assert.Equal(t, "model not found", ae.Message)
}

func TestComplete_EmptyCompletion(t *testing.T) {
	gw := llmtest.New(t)
	gw.On("m", llmtest.Reply{Content: "   "})

	_, err := gw.Client().Complete(context.Background(), llm.Request{Model: "m", Messages: []llm.Message{{Role: "user", Content: "x"}}})
	require.ErrorIs(t, err, llm.ErrEmptyCompletion)
}

func TestComplete_MissingAPIKey(t *testing.T) {
	c := llm.NewClient(llm.Config{BaseURL: "http://127.0.0.1:1"})
	_, err := c.Complete(context.Background(), llm.Request{Model: "m"})
	require.ErrorIs(t, err, llm.ErrMissingAPIKey)
}

func TestStream_YieldsDeltasUntilDone(t *testing.T) {
	gw := llmtest.New(t)
	gw.On("m/chat", llmtest.Reply{Chunks: []string{"Hel", "lo", " world"}})

	s, err := gw.Client().Stream(context.Background(), llm.Request{Model: "m/chat", Messages: []llm.Message{{Role: "user", Content: "hi"}}})
	require.NoError(t, err)
	assert.Equal(t, "m/chat", s.Model())

	text, err := llm.Collect(s)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
	assert.True(t, gw.Requests()[0].Stream)
}

func TestStream_RejectionBeforeFirstDelta(t *testing.T) {
	gw := llmtest.New(t)
	gw.On("m/chat", llmtest.Reply{Status: http.StatusServiceUnavailable})

	_, err := gw.Client().Stream(context.Background(), llm.Request{Model: "m/chat"})
	require.Error(t, err)
	assert.True(t, llm.IsRetryable(err))
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	gw := llmtest.New(t)
	gw.On("m/flaky", llmtest.Reply{Status: http.StatusBadGateway})
	c := gw.Client()

	for i := 0; i < 4; i++ {
		_, err := c.Complete(context.Background(), llm.Request{Model: "m/flaky"})
		require.Equal(t, http.StatusBadGateway, llm.StatusCode(err))
	}
	// breaker is open now: no request reaches the gateway and the call reports 503
	_, err := c.Complete(context.Background(), llm.Request{Model: "m/flaky"})
	require.Equal(t, http.StatusServiceUnavailable, llm.StatusCode(err))
	assert.Len(t, gw.Requests(), 4)
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	gw := llmtest.New(t)
	gw.On("m/strict", llmtest.Reply{Status: http.StatusBadRequest})
	c := gw.Client()

	for i := 0; i < 6; i++ {
		_, err := c.Complete(context.Background(), llm.Request{Model: "m/strict"})
		require.Equal(t, http.StatusBadRequest, llm.StatusCode(err))
	}
	assert.Len(t, gw.Requests(), 6)
}

func TestMessageJSONRoundTrip(t *testing.T) {
	var m llm.Message
	require.NoError(t, json.Unmarshal([]byte(`{"role":"user","content":"plain"}`), &m))
	assert.Equal(t, "plain", m.Content)

	b, err := json.Marshal(llm.Message{Role: "user", Parts: []llm.ContentPart{llm.TextPart("t")}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"user","content":[{"type":"text","text":"t"}]}`, string(b))

	err = json.Unmarshal([]byte(`{"role":"user","content":42}`), &m)
	require.Error(t, err)
}
