package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.openai.com"
	chatModel      = "gpt-3.5-turbo"
)

// Classifier asks a chat model for a sentiment judgment on a short text.
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

type OpenAIClassifier struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewOpenAIClassifier(apiKey string) *OpenAIClassifier {
	return &OpenAIClassifier{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewOpenAIClassifierWithBaseURL is used by tests to target a fake server.
func NewOpenAIClassifierWithBaseURL(apiKey, baseURL string) *OpenAIClassifier {
	c := NewOpenAIClassifier(apiKey)
	c.baseURL = baseURL
	return c
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Classify returns the model's free-text sentiment judgment for text.
func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (string, error) {
	reqBody := chatRequest{
		Model: chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a helpful assistant that analyzes sentiment."},
			{Role: "user", Content: "Analyze the sentiment of this text: " + text},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("OpenAI API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// Sign maps a free-text sentiment judgment to +1, -1 or 0 by substring
// matching. Anything that is neither positive nor negative counts as neutral.
func Sign(judgment string) float64 {
	lower := strings.ToLower(judgment)
	switch {
	case strings.Contains(lower, "positive"):
		return 1
	case strings.Contains(lower, "negative"):
		return -1
	default:
		return 0
	}
}
