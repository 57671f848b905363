package model

import (
	"time"

	"github.com/memora-app/memora/pkg/domain/types"
)

// VectorRecord is the representation of a memory inside the vector index:
// the searchable embedding plus the metadata the index carries alongside it.
type VectorRecord struct {
	ID        types.MemoryID
	UserID    types.UserID
	Text      string
	Date      time.Time
	MediaURL  string
	Embedding []float32
}

// VectorMatch is one nearest-neighbor result of a vector query
type VectorMatch struct {
	Record VectorRecord
	Score  float32
}

// ToMemory converts a vector match to the common Memory shape. The tag set
// is not stored in the vector index and stays empty.
func (m *VectorMatch) ToMemory() *Memory {
	return &Memory{
		ID:        m.Record.ID,
		UserID:    m.Record.UserID,
		Text:      m.Record.Text,
		Date:      m.Record.Date,
		MediaURL:  m.Record.MediaURL,
		Tags:      []Tag{},
		Embedding: m.Record.Embedding,
		Score:     m.Score,
	}
}
