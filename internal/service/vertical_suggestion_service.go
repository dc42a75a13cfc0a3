package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lamngoc/ascent/internal/model"
	"github.com/rs/zerolog/log"
)

const (
	minSuggestions = 3
	maxSuggestions = 5
)

// SuggestionResult is the outcome of the vertical-suggestion step. Generic
// is set when the fallback list was used so the UI can tell the candidate
// the suggestions are not tailored to their text.
type SuggestionResult struct {
	VerticalIDs []uint `json:"vertical_ids"` // ordered, 3 to 5 entries
	Generic     bool   `json:"generic"`
}

// VerticalSuggestionService maps a candidate's problem description onto the
// vertical catalog. It never fails: any transport or parse error degrades to
// the first catalog entries.
type VerticalSuggestionService interface {
	Suggest(ctx context.Context, problemText string, catalog []model.Vertical) *SuggestionResult
}

type verticalSuggestionService struct {
	generator TextGenerator
}

func NewVerticalSuggestionService(generator TextGenerator) VerticalSuggestionService {
	return &verticalSuggestionService{generator: generator}
}

func (s *verticalSuggestionService) Suggest(ctx context.Context, problemText string, catalog []model.Vertical) *SuggestionResult {
	if len(catalog) == 0 {
		return &SuggestionResult{Generic: true}
	}

	raw, err := s.generator.Generate(ctx, GenerationRequest{
		Temperature: ExtractionTemperature,
		Messages: []Message{
			{Role: RoleSystem, Content: "You match a problem description to focus areas from a fixed catalog. " +
				"Respond with ONLY a JSON array of catalog IDs, best match first, between 3 and 5 entries. " +
				"Example: [4, 1, 7]"},
			{Role: RoleUser, Content: buildSuggestionPrompt(problemText, catalog)},
		},
	})
	if err != nil {
		log.Warn().Err(err).Msg("Vertical suggestion failed, using generic fallback")
		return fallbackSuggestions(catalog)
	}

	ids, err := parseSuggestedIDs(raw)
	if err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("Could not parse vertical suggestions, using generic fallback")
		return fallbackSuggestions(catalog)
	}

	valid := make(map[uint]bool, len(catalog))
	for _, v := range catalog {
		valid[v.ID] = true
	}

	// Drop hallucinated or duplicated IDs, keep model order.
	chosen := make([]uint, 0, maxSuggestions)
	seen := make(map[uint]bool)
	for _, id := range ids {
		if !valid[id] || seen[id] {
			continue
		}
		chosen = append(chosen, id)
		seen[id] = true
		if len(chosen) == maxSuggestions {
			break
		}
	}

	// Backfill from unused catalog entries, in catalog order, until we have
	// at least the minimum.
	for _, v := range catalog {
		if len(chosen) >= minSuggestions {
			break
		}
		if seen[v.ID] {
			continue
		}
		chosen = append(chosen, v.ID)
		seen[v.ID] = true
	}

	if len(chosen) == 0 {
		return fallbackSuggestions(catalog)
	}
	return &SuggestionResult{VerticalIDs: chosen}
}

func buildSuggestionPrompt(problemText string, catalog []model.Vertical) string {
	var b strings.Builder
	b.WriteString("Catalog:\n")
	for _, v := range catalog {
		b.WriteString(fmt.Sprintf("- id=%d name=%q", v.ID, v.Name))
		if v.Description != "" {
			b.WriteString(fmt.Sprintf(" description=%q", v.Description))
		}
		b.WriteString("\n")
	}
	b.WriteString("\nProblem description:\n")
	b.WriteString(problemText)
	return b.String()
}

// parseSuggestedIDs tolerates markdown code fences and surrounding prose by
// extracting the first JSON array in the text.
func parseSuggestedIDs(raw string) ([]uint, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array found in response")
	}
	var ids []uint
	if err := json.Unmarshal([]byte(raw[start:end+1]), &ids); err != nil {
		return nil, fmt.Errorf("failed to parse suggestion IDs: %w", err)
	}
	return ids, nil
}

func fallbackSuggestions(catalog []model.Vertical) *SuggestionResult {
	n := len(catalog)
	if n > maxSuggestions {
		n = maxSuggestions
	}
	ids := make([]uint, 0, n)
	for _, v := range catalog[:n] {
		ids = append(ids, v.ID)
	}
	return &SuggestionResult{VerticalIDs: ids, Generic: true}
}
