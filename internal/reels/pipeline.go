package reels

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/reelcut/reelcut/internal/logging"
	"github.com/reelcut/reelcut/internal/models"
	"github.com/reelcut/reelcut/internal/sentiment"
	"github.com/reelcut/reelcut/internal/transcribe"
	"github.com/rs/zerolog"
)

// VideoTool is the subset of media operations the pipeline needs.
type VideoTool interface {
	ExtractAudio(ctx context.Context, videoPath, audioPath string) error
	CutClip(ctx context.Context, videoPath string, start, end float64, outPath string) error
	BurnSubtitles(ctx context.Context, clipPath, subtitlePath, outPath string) error
	Concat(ctx context.Context, clipPaths []string, outPath string) error
}

// Transcriber converts an audio file to a timestamped transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*models.Transcript, error)
}

// Generator runs the full reel-generation sequence: audio extraction,
// transcription, sentiment scoring, selection, clip cutting, captioning and
// concatenation. One run is fully sequential and blocks the caller.
type Generator struct {
	Video       VideoTool
	Transcriber Transcriber
	Classifier  sentiment.Classifier
	TopN        int
	WorkDir     string

	logger zerolog.Logger
}

func NewGenerator(video VideoTool, transcriber Transcriber, classifier sentiment.Classifier, topN int, workDir string) *Generator {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Generator{
		Video:       video,
		Transcriber: transcriber,
		Classifier:  classifier,
		TopN:        topN,
		WorkDir:     workDir,
		logger:      logging.WithComponent("reels"),
	}
}

// ReelResult is the typed outcome for one reel band. Path is set only when
// every segment in the band was cut, captioned and concatenated successfully.
// A band with no qualifying segments has an empty Path and a nil Err.
type ReelResult struct {
	Index    int
	Segments []ScoredSegment
	Path     string
	Err      error
}

// OK reports whether the band produced a complete reel file.
func (r ReelResult) OK() bool {
	return r.Err == nil && r.Path != ""
}

// Result describes one generation run.
type Result struct {
	RunID          string
	TranscriptText string
	Scored         []ScoredSegment
	Reels          []ReelResult
}

// Generate processes videoPath and writes the finished reel files into
// outDir. All intermediate artifacts live in a per-run workspace that is
// removed on every exit path; only the reel files survive. Transcription and
// scoring failures abort the run; a per-band failure is recorded on its
// ReelResult and does not stop the other bands.
func (g *Generator) Generate(ctx context.Context, videoPath, outDir string) (*Result, error) {
	runID := uuid.New().String()
	runDir := filepath.Join(g.WorkDir, "runs", runID)
	clipsDir := filepath.Join(runDir, "clips")
	if err := os.MkdirAll(clipsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run workspace: %w", err)
	}
	defer os.RemoveAll(runDir)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	g.logger.Info().Str("run_id", runID).Str("video", videoPath).Msg("starting reel generation")

	audioPath := filepath.Join(runDir, "audio.wav")
	if err := g.Video.ExtractAudio(ctx, videoPath, audioPath); err != nil {
		// Extraction failure is logged and the run proceeds; transcription
		// fails loudly when no audio was produced.
		g.logger.Error().Err(err).Msg("audio extraction failed")
	}

	transcript, err := g.Transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}
	if err := transcribe.SaveText(transcript, filepath.Join(runDir, "transcript.txt")); err != nil {
		return nil, err
	}
	g.logger.Info().Int("segments", len(transcript.Segments)).Msg("transcription complete")

	scored, err := ScoreSegments(ctx, g.Classifier, transcript.Segments)
	if err != nil {
		return nil, err
	}
	if err := WriteReport(scored, filepath.Join(runDir, "segments.txt")); err != nil {
		return nil, err
	}
	g.logger.Info().Int("qualifying", len(scored)).Msg("segment scoring complete")

	groups := SelectGroups(scored, g.TopN)

	result := &Result{
		RunID:          runID,
		TranscriptText: transcript.Text,
		Scored:         scored,
	}

	for i, group := range groups {
		res := ReelResult{Index: i + 1, Segments: group}
		if len(group) == 0 {
			g.logger.Info().Int("reel", res.Index).Msg("no qualifying segments for reel band")
			result.Reels = append(result.Reels, res)
			continue
		}

		reelPath, err := g.assembleReel(ctx, videoPath, runDir, clipsDir, runID, res.Index, group, outDir)
		if err != nil {
			g.logger.Error().Err(err).Int("reel", res.Index).Msg("reel assembly failed")
			res.Err = err
		} else {
			res.Path = reelPath
			g.logger.Info().Int("reel", res.Index).Str("path", reelPath).Msg("reel compiled")
		}
		result.Reels = append(result.Reels, res)
	}

	return result, nil
}

// assembleReel cuts, captions and concatenates one band. Any step failing
// fails the whole band with a diagnostic naming the segment.
func (g *Generator) assembleReel(ctx context.Context, videoPath, runDir, clipsDir, runID string, reelIndex int, group []ScoredSegment, outDir string) (string, error) {
	clipPaths := make([]string, 0, len(group))

	for j, seg := range group {
		clipPath := filepath.Join(clipsDir, fmt.Sprintf("reel_%d_segment_%d.mp4", reelIndex, j+1))

		if err := g.Video.CutClip(ctx, videoPath, seg.Start, seg.End, clipPath); err != nil {
			return "", fmt.Errorf("segment %d [%0.2fs-%0.2fs]: cut: %w", j+1, seg.Start, seg.End, err)
		}

		captionPath := clipPath + ".srt"
		if err := WriteCaption(seg.Text, captionPath); err != nil {
			return "", fmt.Errorf("segment %d: %w", j+1, err)
		}

		captionedPath := clipPath + ".captioned.mp4"
		if err := g.Video.BurnSubtitles(ctx, clipPath, captionPath, captionedPath); err != nil {
			os.Remove(captionPath)
			return "", fmt.Errorf("segment %d: burn subtitles: %w", j+1, err)
		}

		// Replace the raw clip with the captioned version and drop the
		// temporaries.
		if err := os.Remove(clipPath); err != nil {
			return "", fmt.Errorf("segment %d: remove intermediate: %w", j+1, err)
		}
		if err := os.Rename(captionedPath, clipPath); err != nil {
			return "", fmt.Errorf("segment %d: replace clip: %w", j+1, err)
		}
		os.Remove(captionPath)

		clipPaths = append(clipPaths, clipPath)
	}

	reelPath := filepath.Join(runDir, fmt.Sprintf("reel_%d.mp4", reelIndex))
	if err := g.Video.Concat(ctx, clipPaths, reelPath); err != nil {
		return "", fmt.Errorf("concat: %w", err)
	}

	// Per-segment clips must not outlive the compiled reel.
	for _, p := range clipPaths {
		os.Remove(p)
	}

	finalPath := filepath.Join(outDir, fmt.Sprintf("reel_%s_%d.mp4", runID[:8], reelIndex))
	if err := moveFile(reelPath, finalPath); err != nil {
		return "", fmt.Errorf("move reel: %w", err)
	}

	return finalPath, nil
}

func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	// Rename fails across filesystems; fall back to copy+remove.
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
