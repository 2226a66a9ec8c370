package models

import (
	"time"

	"github.com/google/uuid"
)

// Reel is the persisted record of one compiled highlight reel.
type Reel struct {
	ID           string
	UserEmail    string
	SourceName   string
	ReelIndex    int
	Filename     string
	SegmentCount int
	CreatedAt    time.Time
}

func NewReel(userEmail, sourceName string, reelIndex int, filename string, segmentCount int) *Reel {
	return &Reel{
		ID:           uuid.New().String(),
		UserEmail:    userEmail,
		SourceName:   sourceName,
		ReelIndex:    reelIndex,
		Filename:     filename,
		SegmentCount: segmentCount,
		CreatedAt:    time.Now(),
	}
}
