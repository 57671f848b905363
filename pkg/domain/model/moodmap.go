package model

import (
	"time"

	"github.com/memora-app/memora/pkg/domain/types"
)

// Position is a 2-D coordinate on the mood map, normalized to [0, 1].
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MoodPoint places one memory on the mood map
type MoodPoint struct {
	ID       types.MemoryID `json:"id"`
	Position Position       `json:"position"`
	Text     string         `json:"text"`
	Date     time.Time      `json:"date"`
	MediaURL string         `json:"mediaUrl,omitempty"`
}
