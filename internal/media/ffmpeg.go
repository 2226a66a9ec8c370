package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/reelcut/reelcut/internal/logging"
	"github.com/rs/zerolog"
)

// Tool wraps the ffmpeg and ffprobe binaries. Every operation returns an
// error carrying the captured tool output; callers must not infer success
// from output files existing.
type Tool struct {
	ffmpegPath  string
	ffprobePath string
	logger      zerolog.Logger
}

func NewTool() (*Tool, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	return &Tool{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		logger:      logging.WithComponent("media"),
	}, nil
}

// ExtractAudio demuxes the audio track of videoPath into a mono 16 kHz WAV.
func (t *Tool) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	args := []string{
		"-y",
		"-i", videoPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		audioPath,
	}
	return t.run(ctx, args, "extract audio")
}

// CutClip re-encodes the interval [start, end) of videoPath into outPath.
func (t *Tool) CutClip(ctx context.Context, videoPath string, start, end float64, outPath string) error {
	args := []string{
		"-y",
		"-ss", fmtSeconds(start),
		"-to", fmtSeconds(end),
		"-i", videoPath,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-c:a", "aac",
		"-b:a", "192k",
		outPath,
	}
	return t.run(ctx, args, "cut clip")
}

// BurnSubtitles renders the subtitle file onto clipPath, writing outPath.
func (t *Tool) BurnSubtitles(ctx context.Context, clipPath, subtitlePath, outPath string) error {
	args := []string{
		"-y",
		"-i", clipPath,
		"-vf", "subtitles=" + escapeFilterPath(subtitlePath),
		"-c:a", "copy",
		outPath,
	}
	return t.run(ctx, args, "burn subtitles")
}

// Concat stream-copies the listed clips into outPath using the concat
// demuxer. The manifest file is written next to outPath and removed after
// the tool returns.
func (t *Tool) Concat(ctx context.Context, clipPaths []string, outPath string) error {
	if len(clipPaths) == 0 {
		return fmt.Errorf("concat: no input clips")
	}

	listPath := outPath + ".txt"
	var b strings.Builder
	for _, p := range clipPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("concat: resolve %s: %w", p, err)
		}
		fmt.Fprintf(&b, "file '%s'\n", abs)
	}
	if err := os.WriteFile(listPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("concat: write list file: %w", err)
	}
	defer os.Remove(listPath)

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outPath,
	}
	return t.run(ctx, args, "concat clips")
}

// ProbeDuration returns the container duration of videoPath in seconds.
func (t *Tool) ProbeDuration(ctx context.Context, videoPath string) (float64, error) {
	cmd := exec.CommandContext(ctx, t.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(out))
	}
	s := strings.TrimSpace(string(out))
	dur, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return dur, nil
}

func (t *Tool) run(ctx context.Context, args []string, op string) error {
	t.logger.Debug().Strs("args", args).Msg(op)

	cmd := exec.CommandContext(ctx, t.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg %s: %w\n%s", op, err, stderr.String())
	}
	return nil
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

// escapeFilterPath escapes a path for use inside an ffmpeg filter argument.
func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "\\\\")
	p = strings.ReplaceAll(p, ":", "\\:")
	return p
}
