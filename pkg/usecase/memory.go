package usecase

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/memora-app/memora/pkg/domain/model"
	"github.com/memora-app/memora/pkg/domain/types"
	"github.com/memora-app/memora/pkg/utils/errutil"
)

// MediaUpload is a media attachment held in memory during the request
type MediaUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AddMemoryInput is the input of AddMemory. A zero Date means "now".
type AddMemoryInput struct {
	Text  string
	Date  time.Time
	Tags  []model.Tag
	Media *MediaUpload
}

// AddMemory persists a new memory across the three backing stores.
//
// The writes have no shared transaction, so they run as a compensated
// sequence: embed, upload media, upsert the vector record, then merge the
// graph node. If a later step fails, the earlier writes are rolled back
// (best effort, logged) and the whole operation reports failure. The
// vector upsert and blob upload are keyed by fresh unique IDs, so a
// client retry after a reported failure cannot collide with leftovers.
func (uc *UseCases) AddMemory(ctx context.Context, userID types.UserID, input AddMemoryInput) (*model.Memory, error) {
	memory := &model.Memory{
		ID:     types.NewMemoryID(),
		UserID: userID,
		Text:   input.Text,
		Date:   input.Date.UTC(),
		Tags:   model.NormalizeTags(input.Tags),
	}
	if input.Date.IsZero() {
		memory.Date = time.Now().UTC()
	}
	if memory.Tags == nil {
		memory.Tags = []model.Tag{}
	}
	if err := memory.Validate(); err != nil {
		return nil, err
	}

	// A failed embedding fails the whole operation: persisting a memory
	// with a garbage vector would silently corrupt future searches.
	embedding, err := uc.embedder.Embed(ctx, memory.Text)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed memory text")
	}
	memory.Embedding = embedding

	var mediaKey string
	if input.Media != nil {
		mediaKey = mediaObjectKey(userID, input.Media.Filename)
		contentType := input.Media.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		url, err := uc.blobs.Put(ctx, mediaKey, contentType, input.Media.Data)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to upload media")
		}
		memory.MediaURL = url
	}

	if err := uc.vector.Upsert(ctx, &model.VectorRecord{
		ID:        memory.ID,
		UserID:    memory.UserID,
		Text:      memory.Text,
		Date:      memory.Date,
		MediaURL:  memory.MediaURL,
		Embedding: memory.Embedding,
	}); err != nil {
		uc.discardMedia(ctx, mediaKey)
		return nil, goerr.Wrap(err, "failed to index memory", goerr.V("id", memory.ID))
	}

	if err := uc.graph.SaveMemory(ctx, memory); err != nil {
		// Compensate: remove the vector record and media so no
		// half-visible memory survives the failure.
		if delErr := uc.vector.Delete(ctx, memory.ID); delErr != nil {
			_ = errutil.Handle(ctx, delErr, "failed to roll back vector record")
		}
		uc.discardMedia(ctx, mediaKey)
		return nil, goerr.Wrap(err, "failed to save memory to graph", goerr.V("id", memory.ID))
	}

	return memory, nil
}

func (uc *UseCases) discardMedia(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := uc.blobs.Delete(ctx, key); err != nil {
		_ = errutil.Handle(ctx, err, "failed to roll back media upload")
	}
}

// mediaObjectKey namespaces media under the owner with a uniqueness token
func mediaObjectKey(userID types.UserID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." {
		name = "media"
	}
	return userID.String() + "/" + uuid.NewString() + "-" + name
}
