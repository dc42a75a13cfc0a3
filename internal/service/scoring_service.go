package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lamngoc/ascent/internal/model"
	"github.com/lamngoc/ascent/internal/question"
	"github.com/lamngoc/ascent/internal/repository"
	"github.com/rs/zerolog/log"
)

const maxOverallScore = 100.0

// ScoringService runs the whole-assessment scoring pass after submission.
// It is only ever invoked from the outbound queue; a failure here is logged
// and the completed assessment is never rolled back.
type ScoringService interface {
	Score(ctx context.Context, assessmentID uint) error
}

type scoringService struct {
	assessmentRepo repository.AssessmentRepository
	responseRepo   repository.ResponseRepository
	generator      TextGenerator
}

func NewScoringService(
	assessmentRepo repository.AssessmentRepository,
	responseRepo repository.ResponseRepository,
	generator TextGenerator,
) ScoringService {
	return &scoringService{
		assessmentRepo: assessmentRepo,
		responseRepo:   responseRepo,
		generator:      generator,
	}
}

func (s *scoringService) Score(ctx context.Context, assessmentID uint) error {
	assessment, err := s.assessmentRepo.FindByID(assessmentID)
	if err != nil {
		return fmt.Errorf("scoring: assessment %d not found: %w", assessmentID, err)
	}
	responses, err := s.responseRepo.FindAllByAssessment(assessmentID)
	if err != nil {
		return fmt.Errorf("scoring: failed to load responses for assessment %d: %w", assessmentID, err)
	}
	if len(responses) == 0 {
		return fmt.Errorf("scoring: assessment %d has no responses", assessmentID)
	}

	prompt, err := buildScoringPrompt(responses)
	if err != nil {
		return err
	}

	raw, err := s.generator.Generate(ctx, GenerationRequest{
		Temperature: ExtractionTemperature,
		Messages: []Message{
			{Role: RoleSystem, Content: "You are an experienced reviewer of leadership-potential assessments. " +
				"Evaluate initiative, realism, resourcefulness and commitment across the answers.\n" +
				"Format your response strictly as:\n" +
				"Score: [a number from 0 to 100]\n" +
				"Summary:\n[3-5 sentences for the reviewing admin]"},
			{Role: RoleUser, Content: prompt},
		},
	})
	if err != nil {
		return fmt.Errorf("scoring: generation failed for assessment %d: %w", assessmentID, err)
	}

	score, summary, err := parseScoreAndSummary(raw)
	if err != nil {
		return fmt.Errorf("scoring: could not parse response for assessment %d: %w", assessmentID, err)
	}

	assessment.OverallScore = &score
	assessment.ScoreSummary = summary
	if err := s.assessmentRepo.Update(assessment); err != nil {
		return fmt.Errorf("scoring: failed to save score for assessment %d: %w", assessmentID, err)
	}

	log.Info().Uint("assessmentID", assessmentID).Float64("score", score).Msg("Assessment scored")
	return nil
}

func buildScoringPrompt(responses []model.Response) (string, error) {
	var b strings.Builder
	b.WriteString("Candidate answers:\n\n")
	for _, resp := range responses {
		q, ok := question.ForNumber(resp.QuestionNumber)
		if !ok {
			continue
		}
		answer, err := resp.Answer()
		if err != nil {
			return "", fmt.Errorf("failed to decode answer for question %d: %w", resp.QuestionNumber, err)
		}
		b.WriteString(q.Label + " (" + q.Title + "):\n")
		switch a := answer.(type) {
		case model.TextAnswer:
			b.WriteString(a.Text)
		case model.RankedVerticalAnswer:
			b.WriteString(a.Text)
			b.WriteString(fmt.Sprintf("\n(ranked focus area IDs: %v)", a.VerticalIDs))
		case model.SingleChoiceAnswer:
			b.WriteString("Selected: " + a.Choice)
		default:
			return "", fmt.Errorf("unknown answer variant %T for question %d", answer, resp.QuestionNumber)
		}
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

// parseScoreAndSummary extracts the "Score:" line and the trailing summary
// from the model's response.
func parseScoreAndSummary(raw string) (float64, string, error) {
	scoreIdx := strings.Index(raw, "Score:")
	if scoreIdx == -1 {
		return 0, "", fmt.Errorf("response does not contain 'Score:' prefix")
	}
	rest := raw[scoreIdx+len("Score:"):]

	var scoreStr string
	if nl := strings.Index(rest, "\n"); nl == -1 {
		scoreStr = strings.TrimSpace(rest)
		rest = ""
	} else {
		scoreStr = strings.TrimSpace(rest[:nl])
		rest = rest[nl+1:]
	}
	if fields := strings.Fields(scoreStr); len(fields) > 0 {
		scoreStr = fields[0]
	}

	score, err := strconv.ParseFloat(scoreStr, 64)
	if err != nil {
		return 0, "", fmt.Errorf("could not parse score value %q: %w", scoreStr, err)
	}
	if score > maxOverallScore {
		score = maxOverallScore
	}
	if score < 0 {
		score = 0
	}

	summary := rest
	if sumIdx := strings.Index(rest, "Summary:"); sumIdx != -1 {
		summary = rest[sumIdx+len("Summary:"):]
	}
	return score, strings.TrimSpace(summary), nil
}
