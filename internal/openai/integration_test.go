//go:build integration

package openai

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestIntegration_RealAPI(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY required for integration tests")
	}

	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	client := NewClient(baseURL, apiKey, 60*time.Second, logrus.New())
	service := NewService(client, "gpt-4o-mini", 0, 32, logrus.New())

	out, err := service.Complete(context.Background(), []Message{UserMessage("Reply with the single word: pong")})
	require.NoError(t, err)
	require.NotEmpty(t, out)
}
