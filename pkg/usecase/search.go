package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/memora-app/memora/pkg/domain/interfaces"
	"github.com/memora-app/memora/pkg/domain/model"
	"github.com/memora-app/memora/pkg/domain/types"
)

// SearchInput is the input of Search. Type defaults to hybrid.
type SearchInput struct {
	Query    string
	Type     types.SearchType
	TagNames []string
	Range    model.DateRange
}

// Search retrieves memories by vector similarity, graph filters, or both.
//
// Hybrid ordering contract: vector matches in descending score order
// first, then graph results not already present (deduplicated by ID) in
// their date-descending order. Scores are never blended.
func (uc *UseCases) Search(ctx context.Context, userID types.UserID, input SearchInput) ([]*model.Memory, error) {
	searchType := input.Type.Normalize()
	if !searchType.IsValid() {
		return nil, goerr.New("invalid search type",
			goerr.T(types.ErrTagValidation),
			goerr.V("type", input.Type),
		)
	}

	hasQuery := strings.TrimSpace(input.Query) != ""
	if searchType == types.SearchTypeVector && !hasQuery {
		// Embedding of empty text is undefined; an unranked "nearest
		// neighbor" result would be meaningless.
		return nil, goerr.New("query is required for vector search", goerr.T(types.ErrTagValidation))
	}

	runVector := searchType == types.SearchTypeVector ||
		(searchType == types.SearchTypeHybrid && hasQuery)
	runGraph := searchType == types.SearchTypeGraph || searchType == types.SearchTypeHybrid

	var vectorResults, graphResults []*model.Memory
	eg, egCtx := errgroup.WithContext(ctx)

	if runVector {
		eg.Go(func() error {
			results, err := uc.vectorSearch(egCtx, userID, input.Query)
			if err != nil {
				return err
			}
			vectorResults = results
			return nil
		})
	}
	if runGraph {
		eg.Go(func() error {
			results, err := uc.graph.SearchMemories(egCtx, interfaces.GraphQuery{
				UserID:   userID,
				TagNames: input.TagNames,
				Range:    input.Range,
			})
			if err != nil {
				return err
			}
			graphResults = results
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	switch searchType {
	case types.SearchTypeVector:
		return vectorResults, nil
	case types.SearchTypeGraph:
		return graphResults, nil
	default:
		return mergeHybrid(vectorResults, graphResults), nil
	}
}

func (uc *UseCases) vectorSearch(ctx context.Context, userID types.UserID, query string) ([]*model.Memory, error) {
	embedding, err := uc.embedder.Embed(ctx, query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed search query")
	}

	matches, err := uc.vector.Query(ctx, userID, embedding, uc.searchTopK, false)
	if err != nil {
		return nil, err
	}

	memories := make([]*model.Memory, len(matches))
	for i, m := range matches {
		memories[i] = m.ToMemory()
	}
	return memories, nil
}

// mergeHybrid concatenates vector results with not-yet-seen graph results
func mergeHybrid(vectorResults, graphResults []*model.Memory) []*model.Memory {
	merged := make([]*model.Memory, 0, len(vectorResults)+len(graphResults))
	seen := make(map[types.MemoryID]bool, len(vectorResults))

	for _, m := range vectorResults {
		merged = append(merged, m)
		seen[m.ID] = true
	}
	for _, m := range graphResults {
		if seen[m.ID] {
			continue
		}
		merged = append(merged, m)
		seen[m.ID] = true
	}
	return merged
}
