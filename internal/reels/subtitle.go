package reels

import (
	"fmt"
	"os"
)

// Caption display window. The window is a fixed placeholder rather than the
// segment's own duration; clips shorter than 7s show the caption throughout.
const (
	captionStart = "00:00:00,000"
	captionEnd   = "00:00:07,000"
)

// WriteCaption writes a single-cue SRT file whose text is the segment's
// transcript text.
func WriteCaption(text, path string) error {
	content := fmt.Sprintf("1\n%s --> %s\n%s\n", captionStart, captionEnd, text)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write caption file: %w", err)
	}
	return nil
}
