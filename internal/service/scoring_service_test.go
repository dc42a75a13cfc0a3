package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lamngoc/ascent/internal/model"
	"github.com/lamngoc/ascent/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScoreAndSummary(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		score   float64
		summary string
		wantErr bool
	}{
		{
			name:    "well formed",
			raw:     "Score: 82\nSummary:\nStrong initiative with a realistic pilot plan.",
			score:   82,
			summary: "Strong initiative with a realistic pilot plan.",
		},
		{
			name:    "decimal score with trailing words",
			raw:     "Score: 73.5 out of 100\nSummary:\nSolid but vague on delegation.",
			score:   73.5,
			summary: "Solid but vague on delegation.",
		},
		{
			name:    "score above cap is clamped",
			raw:     "Score: 140\nSummary:\nOverenthusiastic model.",
			score:   100,
			summary: "Overenthusiastic model.",
		},
		{
			name:    "negative score is clamped",
			raw:     "Score: -10\nSummary:\nHarsh.",
			score:   0,
			summary: "Harsh.",
		},
		{
			name:    "no summary marker keeps remainder",
			raw:     "Score: 60\nGood answers overall.",
			score:   60,
			summary: "Good answers overall.",
		},
		{
			name:    "missing score prefix",
			raw:     "The candidate did well.",
			wantErr: true,
		},
		{
			name:    "unparsable score value",
			raw:     "Score: excellent\nSummary:\nGreat.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, summary, err := parseScoreAndSummary(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.score, score)
			assert.Equal(t, tt.summary, summary)
		})
	}
}

func TestScorePersistsScoreAndSummary(t *testing.T) {
	db := newTestDB(t)
	assessmentRepo := repository.NewAssessmentRepository(db)
	responseRepo := repository.NewResponseRepository(db)

	assessment := &model.Assessment{Token: "tok-scoring", ChapterID: 1, CurrentQuestion: 5, Status: model.AssessmentStatusCompleted}
	require.NoError(t, assessmentRepo.Create(assessment))

	answers := []model.Answer{
		model.RankedVerticalAnswer{Text: "The park is falling apart.", VerticalIDs: []uint{1, 2, 3}},
		model.TextAnswer{Text: "Monthly volunteer cleanups."},
		model.SingleChoiceAnswer{Choice: "5_to_10_hours"},
	}
	for i, answer := range answers {
		resp := model.Response{AssessmentID: assessment.ID, QuestionNumber: i + 1}
		require.NoError(t, resp.SetAnswer(answer))
		require.NoError(t, responseRepo.Upsert(&resp))
	}

	gen := &fakeGenerator{responses: []string{"Score: 77\nSummary:\nCommitted and concrete, light on delegation."}}
	svc := NewScoringService(assessmentRepo, responseRepo, gen)

	require.NoError(t, svc.Score(context.Background(), assessment.ID))

	scored, err := assessmentRepo.FindByID(assessment.ID)
	require.NoError(t, err)
	require.NotNil(t, scored.OverallScore)
	assert.Equal(t, 77.0, *scored.OverallScore)
	assert.Equal(t, "Committed and concrete, light on delegation.", scored.ScoreSummary)

	// Scoring uses the low-variance extraction temperature.
	require.Len(t, gen.requests, 1)
	assert.Equal(t, ExtractionTemperature, gen.requests[0].Temperature)
}

func TestScoreFailsWithoutResponses(t *testing.T) {
	db := newTestDB(t)
	assessmentRepo := repository.NewAssessmentRepository(db)

	assessment := &model.Assessment{Token: "tok-empty", ChapterID: 1}
	require.NoError(t, assessmentRepo.Create(assessment))

	svc := NewScoringService(assessmentRepo, repository.NewResponseRepository(db), &fakeGenerator{})
	err := svc.Score(context.Background(), assessment.ID)
	require.Error(t, err)
}

func TestScoreGenerationFailureLeavesAssessmentUnscored(t *testing.T) {
	db := newTestDB(t)
	assessmentRepo := repository.NewAssessmentRepository(db)
	responseRepo := repository.NewResponseRepository(db)

	assessment := &model.Assessment{Token: "tok-genfail", ChapterID: 1}
	require.NoError(t, assessmentRepo.Create(assessment))
	resp := model.Response{AssessmentID: assessment.ID, QuestionNumber: 2}
	require.NoError(t, resp.SetAnswer(model.TextAnswer{Text: "An initiative."}))
	require.NoError(t, responseRepo.Upsert(&resp))

	gen := &fakeGenerator{err: errors.New("gateway down")}
	svc := NewScoringService(assessmentRepo, responseRepo, gen)

	require.Error(t, svc.Score(context.Background(), assessment.ID))

	unscored, err := assessmentRepo.FindByID(assessment.ID)
	require.NoError(t, err)
	assert.Nil(t, unscored.OverallScore)
}
