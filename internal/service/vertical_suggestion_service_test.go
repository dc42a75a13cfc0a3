package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lamngoc/ascent/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(n int) []model.Vertical {
	catalog := make([]model.Vertical, 0, n)
	for i := 1; i <= n; i++ {
		catalog = append(catalog, model.Vertical{
			ID:           uint(i),
			Name:         fmt.Sprintf("Vertical %d", i),
			Active:       true,
			DisplayOrder: i,
		})
	}
	return catalog
}

func TestSuggestHappyPath(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"[4, 2, 9, 1]"}}
	svc := NewVerticalSuggestionService(gen)

	result := svc.Suggest(context.Background(), "a long problem description", testCatalog(10))

	require.NotNil(t, result)
	assert.False(t, result.Generic)
	assert.Equal(t, []uint{4, 2, 9, 1}, result.VerticalIDs)
}

func TestSuggestBackfillsToMinimum(t *testing.T) {
	// Only two IDs are valid for a catalog of ten; the step must backfill
	// from unused catalog entries, in catalog order, up to the minimum.
	gen := &fakeGenerator{responses: []string{"[7, 2, 99, 1000]"}}
	svc := NewVerticalSuggestionService(gen)

	result := svc.Suggest(context.Background(), "problem text", testCatalog(10))

	require.NotNil(t, result)
	assert.False(t, result.Generic)
	assert.Equal(t, []uint{7, 2, 1}, result.VerticalIDs)
}

func TestSuggestDiscardsHallucinatedIDs(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"[42, 43, 44, 45, 46]"}}
	svc := NewVerticalSuggestionService(gen)

	result := svc.Suggest(context.Background(), "problem text", testCatalog(5))

	require.NotNil(t, result)
	assert.Equal(t, []uint{1, 2, 3}, result.VerticalIDs, "all-invalid response backfills from catalog order")
}

func TestSuggestTruncatesToMaximum(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"[1, 2, 3, 4, 5, 6, 7]"}}
	svc := NewVerticalSuggestionService(gen)

	result := svc.Suggest(context.Background(), "problem text", testCatalog(10))

	require.NotNil(t, result)
	assert.Len(t, result.VerticalIDs, 5)
}

func TestSuggestFallsBackOnGatewayError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("gateway down")}
	svc := NewVerticalSuggestionService(gen)

	result := svc.Suggest(context.Background(), "problem text", testCatalog(10))

	require.NotNil(t, result)
	assert.True(t, result.Generic)
	assert.Equal(t, []uint{1, 2, 3, 4, 5}, result.VerticalIDs, "fallback is the first five catalog entries")
}

func TestSuggestFallsBackOnUnparsableResponse(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"I think Community Safety fits best."}}
	svc := NewVerticalSuggestionService(gen)

	result := svc.Suggest(context.Background(), "problem text", testCatalog(4))

	require.NotNil(t, result)
	assert.True(t, result.Generic)
	assert.Equal(t, []uint{1, 2, 3, 4}, result.VerticalIDs)
}

func TestSuggestToleratesCodeFences(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"```json\n[2, 3, 1]\n```"}}
	svc := NewVerticalSuggestionService(gen)

	result := svc.Suggest(context.Background(), "problem text", testCatalog(5))

	require.NotNil(t, result)
	assert.False(t, result.Generic)
	assert.Equal(t, []uint{2, 3, 1}, result.VerticalIDs)
}

func TestSuggestUsesExtractionTemperature(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"[1, 2, 3]"}}
	svc := NewVerticalSuggestionService(gen)

	svc.Suggest(context.Background(), "problem text", testCatalog(5))

	require.Len(t, gen.requests, 1)
	assert.Equal(t, ExtractionTemperature, gen.requests[0].Temperature)
}
