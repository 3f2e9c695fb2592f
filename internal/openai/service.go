package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

type Service struct {
	client      *Client
	model       string
	temperature float64
	maxTokens   int
	logger      *logrus.Logger
}

func NewService(client *Client, model string, temperature float64, maxTokens int, logger *logrus.Logger) *Service {
	return &Service{
		client:      client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		logger:      logger,
	}
}

func (s *Service) Configured() bool {
	return s.client.Configured()
}

func (s *Service) Model() string {
	return s.model
}

// Complete sends one chat exchange and returns the assistant text.
func (s *Service) Complete(ctx context.Context, messages []Message) (string, error) {
	req := ChatRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	}

	response, err := s.client.CreateChatCompletionWithRetry(ctx, req)
	if err != nil {
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	s.logger.WithFields(logrus.Fields{
		"model":             response.Model,
		"prompt_tokens":     response.Usage.PromptTokens,
		"completion_tokens": response.Usage.CompletionTokens,
		"finish_reason":     response.Choices[0].FinishReason,
	}).Debug("Chat completion finished")

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
