package transcribe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reelcut/reelcut/internal/models"
)

func TestTranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("expected model whisper-1, got %q", got)
		}
		if got := r.FormValue("response_format"); got != "verbose_json" {
			t.Errorf("expected verbose_json, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"text": "Hello world. Goodbye.",
			"segments": [
				{"text": " Hello world.", "start": 0.0, "end": 2.4},
				{"text": " Goodbye.", "start": 2.4, "end": 3.1}
			]
		}`))
	}))
	defer server.Close()

	audioPath := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(audioPath, []byte("fake wav data"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	client := NewClientWithBaseURL("test-key", server.URL)
	transcript, err := client.Transcribe(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	if transcript.Text != "Hello world. Goodbye." {
		t.Errorf("unexpected text %q", transcript.Text)
	}
	if len(transcript.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(transcript.Segments))
	}
	if transcript.Segments[1].Start != 2.4 {
		t.Errorf("expected second segment start 2.4, got %v", transcript.Segments[1].Start)
	}
}

func TestTranscribe_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "invalid api key"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	audioPath := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(audioPath, []byte("fake"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	client := NewClientWithBaseURL("bad-key", server.URL)
	_, err := client.Transcribe(context.Background(), audioPath)
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "status 401") {
		t.Errorf("error should carry status code, got %v", err)
	}
}

func TestSaveText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.txt")
	transcript := &models.Transcript{Text: "some spoken words"}

	if err := SaveText(transcript, path); err != nil {
		t.Fatalf("SaveText failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "some spoken words" {
		t.Errorf("unexpected content %q", data)
	}
}
