package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lamngoc/ascent/internal/events"
	"github.com/lamngoc/ascent/internal/model"
	"github.com/lamngoc/ascent/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AdaptationOutcome describes one adaptation attempt for the analytics side
// channel.
type AdaptationOutcome struct {
	AssessmentID   uint
	QuestionNumber int
	Attempted      bool
	Succeeded      bool
	FallbackUsed   bool
	Duration       time.Duration
	FailureReason  string
}

// AnalyticsService records pipeline outcomes best-effort. Every method
// returns immediately; writes happen on the outbound queue and failures are
// logged, never surfaced or retried.
type AnalyticsService interface {
	RecordAdaptation(outcome AdaptationOutcome)
	RecordHelp(assessmentID uint, questionNumber int, used, accepted bool)
	RecordSubmissionFailure(assessmentID uint, questionNumber int, reason string)
}

type analyticsService struct {
	repo       repository.AdaptationRecordRepository
	dispatcher *events.Dispatcher
}

func NewAnalyticsService(repo repository.AdaptationRecordRepository, dispatcher *events.Dispatcher) AnalyticsService {
	return &analyticsService{repo: repo, dispatcher: dispatcher}
}

func (s *analyticsService) RecordAdaptation(outcome AdaptationOutcome) {
	s.enqueue("analytics.adaptation", outcome.AssessmentID, outcome.QuestionNumber, func(rec *model.AdaptationRecord) {
		rec.Attempted = outcome.Attempted
		rec.Succeeded = outcome.Succeeded
		rec.FallbackUsed = outcome.FallbackUsed
		rec.DurationMs = outcome.Duration.Milliseconds()
		rec.FailureReason = outcome.FailureReason
	})
}

func (s *analyticsService) RecordHelp(assessmentID uint, questionNumber int, used, accepted bool) {
	s.enqueue("analytics.help", assessmentID, questionNumber, func(rec *model.AdaptationRecord) {
		rec.AIHelpUsed = used
		rec.AIHelpAccepted = accepted
	})
}

func (s *analyticsService) RecordSubmissionFailure(assessmentID uint, questionNumber int, reason string) {
	s.enqueue("analytics.submission_failure", assessmentID, questionNumber, func(rec *model.AdaptationRecord) {
		rec.FailureReason = reason
	})
}

// enqueue merges the mutation into the existing row (if any) and upserts.
// Both writes per question land on the same (assessment, question) row.
func (s *analyticsService) enqueue(name string, assessmentID uint, questionNumber int, mutate func(*model.AdaptationRecord)) {
	s.dispatcher.Enqueue(events.Job{
		Name: name,
		Run: func(ctx context.Context) error {
			rec, err := s.repo.FindByAssessmentAndQuestion(assessmentID, questionNumber)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					log.Warn().Err(err).Uint("assessmentID", assessmentID).Int("question", questionNumber).
						Msg("Analytics read failed, writing fresh record")
				}
				rec = &model.AdaptationRecord{AssessmentID: assessmentID, QuestionNumber: questionNumber}
			}
			mutate(rec)
			if err := s.repo.Upsert(rec); err != nil {
				// Best-effort: log and swallow. The job is not retried.
				log.Warn().Err(err).Uint("assessmentID", assessmentID).Int("question", questionNumber).
					Msg(fmt.Sprintf("Analytics write failed (%s)", name))
			}
			return nil
		},
	})
}
