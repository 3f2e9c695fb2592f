package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryConfig {
	return RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestClient_CreateChatCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		assert.Len(t, req.Messages, 2)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ChatResponse{
			Model:   "gpt-4o",
			Choices: []Choice{{Message: Message{Role: "assistant", Content: " hello "}}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", time.Second, logrus.New())
	service := NewService(client, "gpt-4o", 0.2, 100, logrus.New())

	out, err := service.Complete(context.Background(), []Message{SystemMessage("sys"), UserMessage("hi")})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestClient_MissingKeyFailsFast(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	for _, key := range []string{"", "  \t"} {
		client := NewClient(server.URL, key, time.Second, logrus.New()).WithRetry(fastRetry())
		assert.False(t, client.Configured())

		_, err := client.CreateChatCompletionWithRetry(context.Background(), ChatRequest{Model: "gpt-4o"})
		require.ErrorIs(t, err, ErrMissingAPIKey)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestClient_ErrorHandling(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key", time.Second, logrus.New()).WithRetry(fastRetry())

	_, err := client.CreateChatCompletionWithRetry(context.Background(), ChatRequest{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "Incorrect API key")
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(ChatResponse{Choices: []Choice{{Message: Message{Content: "ok"}}}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", time.Second, logrus.New()).WithRetry(fastRetry())

	resp, err := client.CreateChatCompletionWithRetry(context.Background(), ChatRequest{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Choices[0].Message.Content)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", time.Second, logrus.New()).WithRetry(fastRetry())

	_, err := client.CreateChatCompletionWithRetry(context.Background(), ChatRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 retries")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestService_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	service := NewService(NewClient(server.URL, "k", time.Second, logrus.New()), "m", 0, 0, logrus.New())
	assert.Equal(t, "m", service.Model())
	assert.True(t, service.Configured())

	_, err := service.Complete(context.Background(), nil)
	assert.EqualError(t, err, "no choices in response")
}
