package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// DraftService produces the optional AI pre-fill for Part B from the
// candidate's Part A answer, guarded by the relevance check before it is
// ever shown.
type DraftService interface {
	DraftInitiative(ctx context.Context, assessmentID uint, problemText string, verticalNames []string) (string, error)
}

type draftService struct {
	generator TextGenerator
	guard     *RelevanceGuard
	analytics AnalyticsService
}

func NewDraftService(generator TextGenerator, guard *RelevanceGuard, analytics AnalyticsService) DraftService {
	return &draftService{generator: generator, guard: guard, analytics: analytics}
}

func (s *draftService) DraftInitiative(ctx context.Context, assessmentID uint, problemText string, verticalNames []string) (string, error) {
	var b strings.Builder
	b.WriteString("The candidate described this problem:\n")
	b.WriteString(problemText)
	if len(verticalNames) > 0 {
		b.WriteString("\n\nTheir chosen focus areas: ")
		b.WriteString(strings.Join(verticalNames, ", "))
	}
	b.WriteString("\n\nDraft a first-person initiative description the candidate could edit: ")
	b.WriteString("what they would lead, the first three months, who they would involve, and one measurable outcome. ")
	b.WriteString("Stay concrete and specific to their problem. 120 words at most.")

	draft, err := s.generator.Generate(ctx, GenerationRequest{
		Temperature: GenerationTemperature,
		Messages: []Message{
			{Role: RoleSystem, Content: "You draft initiative descriptions for leadership-assessment candidates. " +
				"Respond with the draft text only."},
			{Role: RoleUser, Content: b.String()},
		},
	})
	if err != nil {
		s.analytics.RecordHelp(assessmentID, 2, true, false)
		return "", fmt.Errorf("failed to generate initiative draft: %w", err)
	}
	draft = strings.TrimSpace(draft)

	if err := s.guard.Check(problemText, draft); err != nil {
		log.Info().Uint("assessmentID", assessmentID).Msg("Draft rejected by relevance guard")
		s.analytics.RecordHelp(assessmentID, 2, true, false)
		return "", err
	}

	s.analytics.RecordHelp(assessmentID, 2, true, false) // acceptance recorded at answer time
	return draft, nil
}
