package reels

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reelcut/reelcut/internal/models"
)

type fakeVideo struct {
	cutErr    func(start, end float64) error
	burnErr   error
	concatErr error
}

func (f *fakeVideo) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	return os.WriteFile(audioPath, []byte("wav"), 0o644)
}

func (f *fakeVideo) CutClip(ctx context.Context, videoPath string, start, end float64, outPath string) error {
	if f.cutErr != nil {
		if err := f.cutErr(start, end); err != nil {
			return err
		}
	}
	return os.WriteFile(outPath, []byte(fmt.Sprintf("clip %f-%f", start, end)), 0o644)
}

func (f *fakeVideo) BurnSubtitles(ctx context.Context, clipPath, subtitlePath, outPath string) error {
	if f.burnErr != nil {
		return f.burnErr
	}
	if _, err := os.Stat(subtitlePath); err != nil {
		return fmt.Errorf("missing subtitle file: %w", err)
	}
	data, err := os.ReadFile(clipPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, append(data, []byte(" captioned")...), 0o644)
}

func (f *fakeVideo) Concat(ctx context.Context, clipPaths []string, outPath string) error {
	if f.concatErr != nil {
		return f.concatErr
	}
	for _, p := range clipPaths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("missing clip %s: %w", p, err)
		}
	}
	return os.WriteFile(outPath, []byte(fmt.Sprintf("reel of %d clips", len(clipPaths))), 0o644)
}

type fakeTranscriber struct {
	transcript *models.Transcript
	err        error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (*models.Transcript, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.transcript, nil
}

// makeTranscript builds n qualifying segments with strictly increasing word
// counts so every segment has a distinct importance score.
func makeTranscript(n int) *models.Transcript {
	tr := &models.Transcript{Text: "full transcript"}
	for i := 0; i < n; i++ {
		words := make([]string, i+2)
		for w := range words {
			words[w] = "word"
		}
		text := " " + strings.Join(words, " ") + "."
		tr.Segments = append(tr.Segments, models.TranscriptSegment{
			Text:  text,
			Start: float64(i * 10),
			End:   float64(i*10 + 5),
		})
	}
	return tr
}

func newTestGenerator(t *testing.T, video VideoTool, tr *fakeTranscriber) (*Generator, string) {
	t.Helper()
	workDir := t.TempDir()
	gen := NewGenerator(video, tr, positiveClassifier(), 5, workDir)
	return gen, workDir
}

func TestGenerate_AllBands(t *testing.T) {
	gen, workDir := newTestGenerator(t, &fakeVideo{}, &fakeTranscriber{transcript: makeTranscript(12)})
	outDir := filepath.Join(t.TempDir(), "reels")

	result, err := gen.Generate(context.Background(), "input.mp4", outDir)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(result.Reels) != ReelCount {
		t.Fatalf("expected %d reel results, got %d", ReelCount, len(result.Reels))
	}
	for i, r := range result.Reels {
		if !r.OK() {
			t.Errorf("reel %d should have succeeded: err=%v path=%q", i+1, r.Err, r.Path)
			continue
		}
		if _, err := os.Stat(r.Path); err != nil {
			t.Errorf("reel %d file missing: %v", i+1, err)
		}
	}

	if len(result.Reels[0].Segments) != 5 || len(result.Reels[2].Segments) != 2 {
		t.Errorf("unexpected band sizes: %d/%d/%d",
			len(result.Reels[0].Segments), len(result.Reels[1].Segments), len(result.Reels[2].Segments))
	}

	// The per-run workspace must not outlive the run.
	entries, err := os.ReadDir(filepath.Join(workDir, "runs"))
	if err != nil {
		t.Fatalf("read runs dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("run workspace was not cleaned up: %v", entries)
	}
}

func TestGenerate_EmptyBandsProduceNoFile(t *testing.T) {
	gen, _ := newTestGenerator(t, &fakeVideo{}, &fakeTranscriber{transcript: makeTranscript(3)})
	outDir := t.TempDir()

	result, err := gen.Generate(context.Background(), "input.mp4", outDir)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !result.Reels[0].OK() {
		t.Errorf("first band should succeed: %v", result.Reels[0].Err)
	}
	for _, i := range []int{1, 2} {
		r := result.Reels[i]
		if r.Err != nil {
			t.Errorf("empty band %d should not be an error: %v", i, r.Err)
		}
		if r.Path != "" {
			t.Errorf("empty band %d should produce no file, got %q", i, r.Path)
		}
	}

	files, _ := os.ReadDir(outDir)
	if len(files) != 1 {
		t.Errorf("expected exactly 1 reel file, got %d", len(files))
	}
}

func TestGenerate_CutFailureFailsOnlyItsBand(t *testing.T) {
	// Segment at raw start 110 (buffered 109.5) lands in the top band; its
	// cut failure must fail band 1 and leave the others intact.
	video := &fakeVideo{
		cutErr: func(start, end float64) error {
			if start == 109.5 {
				return errors.New("encoder crashed")
			}
			return nil
		},
	}
	gen, _ := newTestGenerator(t, video, &fakeTranscriber{transcript: makeTranscript(12)})
	outDir := t.TempDir()

	result, err := gen.Generate(context.Background(), "input.mp4", outDir)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	first := result.Reels[0]
	if first.Err == nil {
		t.Fatal("expected first band to fail")
	}
	if first.Path != "" {
		t.Errorf("failed band must not report a reel file, got %q", first.Path)
	}
	if !strings.Contains(first.Err.Error(), "cut") {
		t.Errorf("band error should name the failed step, got %v", first.Err)
	}

	for _, i := range []int{1, 2} {
		if !result.Reels[i].OK() {
			t.Errorf("band %d should still succeed: %v", i, result.Reels[i].Err)
		}
	}
}

func TestGenerate_ConcatFailure(t *testing.T) {
	video := &fakeVideo{concatErr: errors.New("demuxer error")}
	gen, _ := newTestGenerator(t, video, &fakeTranscriber{transcript: makeTranscript(4)})
	outDir := t.TempDir()

	result, err := gen.Generate(context.Background(), "input.mp4", outDir)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if result.Reels[0].Err == nil {
		t.Fatal("expected concat failure to fail the band")
	}
	files, _ := os.ReadDir(outDir)
	if len(files) != 0 {
		t.Errorf("no reel file should exist after concat failure, got %d", len(files))
	}
}

func TestGenerate_TranscriptionFailureAborts(t *testing.T) {
	gen, workDir := newTestGenerator(t, &fakeVideo{}, &fakeTranscriber{err: errors.New("model offline")})

	_, err := gen.Generate(context.Background(), "input.mp4", t.TempDir())
	if err == nil {
		t.Fatal("expected transcription failure to abort the run")
	}

	entries, _ := os.ReadDir(filepath.Join(workDir, "runs"))
	if len(entries) != 0 {
		t.Errorf("run workspace should be removed on the error path: %v", entries)
	}
}
