package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/reelcut/reelcut/internal/models"
)

const (
	defaultBaseURL = "https://api.openai.com"
	whisperModel   = "whisper-1"
)

// Client calls the OpenAI speech-to-text endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a fake server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

// Transcribe uploads the audio file and returns the full text plus the
// timestamped segments. The call blocks until the model finishes; any
// failure aborts the whole operation.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (*models.Transcript, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to copy audio: %w", err)
	}

	writer.WriteField("model", whisperModel)
	writer.WriteField("response_format", "verbose_json")

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/audio/transcriptions", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("transcription API status %d: %s", resp.StatusCode, string(respBody))
	}

	var transcript models.Transcript
	if err := json.NewDecoder(resp.Body).Decode(&transcript); err != nil {
		return nil, fmt.Errorf("failed to decode transcription response: %w", err)
	}

	return &transcript, nil
}

// SaveText persists the full transcript text next to the rest of the run
// artifacts so it can be inspected after the fact.
func SaveText(transcript *models.Transcript, path string) error {
	if err := os.WriteFile(path, []byte(transcript.Text), 0o644); err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}
	return nil
}
