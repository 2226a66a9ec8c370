package models

// Transcript is the output of speech-to-text: the full text plus the
// timestamped segments covering the audio in chronological order.
type Transcript struct {
	Text     string              `json:"text"`
	Segments []TranscriptSegment `json:"segments"`
}

// TranscriptSegment is a contiguous span of spoken text with start/end
// offsets in seconds from the beginning of the audio.
type TranscriptSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}
