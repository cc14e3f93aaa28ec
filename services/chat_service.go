package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/finquest/finquest/config"
)

const chatSystemPrompt = "You are a friendly financial literacy tutor for teenagers. " +
	"Explain budgeting, saving, and investing concepts in simple terms with short, " +
	"practical answers. Refuse to give personalized investment advice."

// ChatService proxies tutoring questions to an OpenAI-compatible chat
// completion API.
type ChatService struct {
	client *http.Client
	apiKey string
	apiURL string
	model  string
}

func NewChatService(cfg config.ChatConfig) *ChatService {
	return &ChatService{
		client: &http.Client{Timeout: 30 * time.Second},
		apiKey: cfg.APIKey,
		apiURL: cfg.APIURL,
		model:  cfg.Model,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Ask sends the user's message with the tutoring system prompt and returns
// the model's reply.
func (s *ChatService) Ask(ctx context.Context, message string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("%w: chat api key not configured", ErrUnavailable)
	}

	payload, err := json.Marshal(chatCompletionRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: chatSystemPrompt},
			{Role: "user", Content: message},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read chat response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: chat api returned %d", ErrUnavailable, resp.StatusCode)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("%w: decode chat response: %v", ErrUnavailable, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: chat api returned no choices", ErrUnavailable)
	}
	return completion.Choices[0].Message.Content, nil
}
