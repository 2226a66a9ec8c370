package reels

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/reelcut/reelcut/internal/models"
	"github.com/reelcut/reelcut/internal/sentiment"
)

const (
	// bufferSeconds widens each segment on both sides for smoother cuts.
	bufferSeconds = 0.5

	// minScore is the promotion threshold; a segment scoring exactly this
	// value is discarded.
	minScore = 1.0
)

// ScoredSegment is a transcript segment that qualified for reel assembly,
// with buffered timestamps and an importance score.
type ScoredSegment struct {
	Text  string
	Start float64
	End   float64
	Score float64
}

// ScoreSegments classifies every transcript segment and keeps the ones whose
// importance score exceeds the threshold and whose text ends in terminal
// punctuation. A classifier failure aborts the whole run; non-qualifying
// segments are discarded without retry.
func ScoreSegments(ctx context.Context, classifier sentiment.Classifier, segments []models.TranscriptSegment) ([]ScoredSegment, error) {
	var kept []ScoredSegment

	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)

		start := seg.Start - bufferSeconds
		if start < 0 {
			start = 0
		}
		end := seg.End + bufferSeconds

		judgment, err := classifier.Classify(ctx, seg.Text)
		if err != nil {
			return nil, fmt.Errorf("sentiment classification failed: %w", err)
		}

		score := sentiment.Sign(judgment) * float64(len(strings.Fields(text)))

		if score > minScore && endsWithTerminalPunctuation(text) {
			kept = append(kept, ScoredSegment{
				Text:  text,
				Start: start,
				End:   end,
				Score: score,
			})
		}
	}

	return kept, nil
}

func endsWithTerminalPunctuation(text string) bool {
	if text == "" {
		return false
	}
	switch text[len(text)-1] {
	case '.', '!', '?':
		return true
	default:
		return false
	}
}

// WriteReport writes the full set of kept segments to path in one pass,
// once scoring has completed.
func WriteReport(segments []ScoredSegment, path string) error {
	var b strings.Builder
	for _, seg := range segments {
		fmt.Fprintf(&b, "Text: %s\n", seg.Text)
		fmt.Fprintf(&b, "Start Time: %.2fs\n", seg.Start)
		fmt.Fprintf(&b, "End Time: %.2fs\n", seg.End)
		fmt.Fprintf(&b, "Importance Score: %.1f\n", seg.Score)
		b.WriteString(strings.Repeat("=", 40) + "\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write segment report: %w", err)
	}
	return nil
}
