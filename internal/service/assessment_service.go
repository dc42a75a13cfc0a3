package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/lamngoc/ascent/internal/dto"
	"github.com/lamngoc/ascent/internal/events"
	"github.com/lamngoc/ascent/internal/model"
	"github.com/lamngoc/ascent/internal/question"
	"github.com/lamngoc/ascent/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ValidationError blocks progression until the candidate fixes their input.
// The message is specific to the rule that failed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	// ErrRateLimited means the analyze/draft budget for this assessment is
	// exhausted for the current window.
	ErrRateLimited = errors.New("too many requests, try again later")
	// ErrAssessmentCompleted rejects writes against a completed assessment.
	ErrAssessmentCompleted = errors.New("assessment is already completed")
)

// AssessmentService is the state machine driving a candidate through the
// five questions: validation gates each forward transition, responses are
// upserted per question, and questions 2-5 are adapted (or defaulted)
// before they are shown.
type AssessmentService interface {
	Start(cc model.ChapterContext, req dto.StartAssessmentRequest) (*dto.AssessmentDTO, error)
	GetQuestion(ctx context.Context, cc model.ChapterContext, token string, number int) (*dto.QuestionViewDTO, error)
	AnalyzeProblem(ctx context.Context, cc model.ChapterContext, token string, req dto.AnalyzeRequest) (*dto.SuggestionDTO, error)
	RequestDraft(ctx context.Context, cc model.ChapterContext, token string, req dto.DraftRequest) (*dto.DraftDTO, error)
	Next(ctx context.Context, cc model.ChapterContext, token string, req dto.AnswerRequest) (*dto.QuestionViewDTO, error)
	Previous(ctx context.Context, cc model.ChapterContext, token string, req dto.AnswerRequest) (*dto.QuestionViewDTO, error)
	Submit(ctx context.Context, cc model.ChapterContext, token string, req dto.AnswerRequest) (*dto.AssessmentDTO, error)
	ActiveVerticals() ([]dto.VerticalDTO, error)
}

type assessmentService struct {
	assessmentRepo repository.AssessmentRepository
	responseRepo   repository.ResponseRepository
	verticalRepo   repository.VerticalRepository
	suggestions    VerticalSuggestionService
	adapter        QuestionAdapterService
	drafts         DraftService
	analytics      AnalyticsService
	rateLimiter    RateLimitService
	scoring        ScoringService
	dispatcher     *events.Dispatcher

	// Session state: Part A suggestion results per assessment, restored on
	// re-entry without recomputation.
	mu             sync.Mutex
	suggestedCache map[uint]*SuggestionResult
}

func NewAssessmentService(
	assessmentRepo repository.AssessmentRepository,
	responseRepo repository.ResponseRepository,
	verticalRepo repository.VerticalRepository,
	suggestions VerticalSuggestionService,
	adapter QuestionAdapterService,
	drafts DraftService,
	analytics AnalyticsService,
	rateLimiter RateLimitService,
	scoring ScoringService,
	dispatcher *events.Dispatcher,
) AssessmentService {
	return &assessmentService{
		assessmentRepo: assessmentRepo,
		responseRepo:   responseRepo,
		verticalRepo:   verticalRepo,
		suggestions:    suggestions,
		adapter:        adapter,
		drafts:         drafts,
		analytics:      analytics,
		rateLimiter:    rateLimiter,
		scoring:        scoring,
		dispatcher:     dispatcher,
		suggestedCache: make(map[uint]*SuggestionResult),
	}
}

func (s *assessmentService) Start(cc model.ChapterContext, req dto.StartAssessmentRequest) (*dto.AssessmentDTO, error) {
	assessment := model.Assessment{
		Token:           uuid.NewString(),
		CandidateName:   req.CandidateName,
		CandidateEmail:  req.CandidateEmail,
		ChapterID:       cc.ChapterID,
		CurrentQuestion: 1,
		Status:          model.AssessmentStatusInProgress,
	}
	if err := s.assessmentRepo.Create(&assessment); err != nil {
		log.Error().Err(err).Uint("chapterID", cc.ChapterID).Msg("Failed to create assessment")
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}

	var resp dto.AssessmentDTO
	if err := copier.Copy(&resp, &assessment); err != nil {
		return nil, fmt.Errorf("failed to map assessment: %w", err)
	}
	return &resp, nil
}

// ActiveVerticals returns the catalog candidates rank in Part A.
func (s *assessmentService) ActiveVerticals() ([]dto.VerticalDTO, error) {
	verticals, err := s.verticalRepo.FindAllActive()
	if err != nil {
		return nil, fmt.Errorf("failed to load verticals: %w", err)
	}
	out := make([]dto.VerticalDTO, 0, len(verticals))
	for i := range verticals {
		var d dto.VerticalDTO
		if err := copier.Copy(&d, &verticals[i]); err != nil {
			return nil, fmt.Errorf("failed to map vertical: %w", err)
		}
		out = append(out, d)
	}
	return out, nil
}

// load fetches the assessment and enforces chapter scoping: a token from
// another chapter behaves as not found.
func (s *assessmentService) load(cc model.ChapterContext, token string) (*model.Assessment, error) {
	assessment, err := s.assessmentRepo.FindByToken(token)
	if err != nil {
		return nil, err
	}
	if assessment.ChapterID != cc.ChapterID {
		return nil, gorm.ErrRecordNotFound
	}
	return assessment, nil
}

func (s *assessmentService) GetQuestion(ctx context.Context, cc model.ChapterContext, token string, number int) (*dto.QuestionViewDTO, error) {
	assessment, err := s.load(cc, token)
	if err != nil {
		return nil, err
	}
	if number == 0 {
		number = assessment.CurrentQuestion
	}
	if number < 1 || number > assessment.CurrentQuestion || number > question.Count {
		return nil, &ValidationError{Message: fmt.Sprintf("question %d is not available yet", number)}
	}
	return s.buildView(ctx, assessment, number)
}

func (s *assessmentService) AnalyzeProblem(ctx context.Context, cc model.ChapterContext, token string, req dto.AnalyzeRequest) (*dto.SuggestionDTO, error) {
	assessment, err := s.load(cc, token)
	if err != nil {
		return nil, err
	}
	if assessment.Status == model.AssessmentStatusCompleted {
		return nil, ErrAssessmentCompleted
	}
	if q, _ := question.ForNumber(1); len(req.Text) < q.MinLength {
		return nil, &ValidationError{Message: fmt.Sprintf("%s requires at least %d characters.", q.Label, q.MinLength)}
	}

	decision := s.rateLimiter.Check("analyze:" + token)
	if !decision.Allowed {
		return nil, ErrRateLimited
	}

	catalog, err := s.verticalRepo.FindAllActive()
	if err != nil {
		return nil, fmt.Errorf("failed to load vertical catalog: %w", err)
	}

	result := s.suggestions.Suggest(ctx, req.Text, catalog)

	s.mu.Lock()
	s.suggestedCache[assessment.ID] = result
	s.mu.Unlock()

	verticals, err := s.resolveVerticals(result.VerticalIDs)
	if err != nil {
		return nil, err
	}
	return &dto.SuggestionDTO{
		Verticals: verticals,
		Generic:   result.Generic,
		Remaining: decision.Remaining,
	}, nil
}

func (s *assessmentService) RequestDraft(ctx context.Context, cc model.ChapterContext, token string, req dto.DraftRequest) (*dto.DraftDTO, error) {
	assessment, err := s.load(cc, token)
	if err != nil {
		return nil, err
	}
	if assessment.Status == model.AssessmentStatusCompleted {
		return nil, ErrAssessmentCompleted
	}

	decision := s.rateLimiter.Check("draft:" + token)
	if !decision.Allowed {
		return nil, ErrRateLimited
	}

	prior := s.gatherPrior(assessment.ID)
	problemText := prior.ProblemText
	if problemText == "" {
		problemText = req.ProblemText
	}
	if problemText == "" {
		return nil, &ValidationError{Message: "Part A must be answered before requesting a draft."}
	}

	draft, err := s.drafts.DraftInitiative(ctx, assessment.ID, problemText, prior.VerticalNames)
	if err != nil {
		return nil, err
	}
	return &dto.DraftDTO{Draft: draft}, nil
}

func (s *assessmentService) Next(ctx context.Context, cc model.ChapterContext, token string, req dto.AnswerRequest) (*dto.QuestionViewDTO, error) {
	assessment, err := s.load(cc, token)
	if err != nil {
		return nil, err
	}
	if assessment.Status == model.AssessmentStatusCompleted {
		return nil, ErrAssessmentCompleted
	}
	if req.Number > assessment.CurrentQuestion {
		return nil, &ValidationError{Message: fmt.Sprintf("question %d has not been reached yet", req.Number)}
	}
	if req.Number >= question.Count {
		return nil, &ValidationError{Message: "Part E is submitted, not advanced."}
	}

	if err := s.validate(assessment.ID, req); err != nil {
		return nil, err
	}
	if err := s.persistResponse(assessment, req); err != nil {
		return nil, err
	}

	next := req.Number + 1

	// Adapt the next question before the transition completes. Cached
	// results are reused; analytics records only actual attempts.
	if _, ok := s.adapter.Cached(assessment.ID, next); !ok {
		prior := s.gatherPrior(assessment.ID)
		res := s.adapter.Adapt(ctx, assessment.ID, next, prior)
		s.analytics.RecordAdaptation(AdaptationOutcome{
			AssessmentID:   assessment.ID,
			QuestionNumber: next,
			Attempted:      true,
			Succeeded:      res.Adapted != nil,
			FallbackUsed:   res.FallbackUsed,
			Duration:       res.Duration,
		})
	}

	// CurrentQuestion is the furthest unlocked question; it never decreases
	// while the assessment is in progress.
	if next > assessment.CurrentQuestion {
		assessment.CurrentQuestion = next
		if err := s.assessmentRepo.Update(assessment); err != nil {
			return nil, fmt.Errorf("failed to advance assessment: %w", err)
		}
	}

	return s.buildView(ctx, assessment, next)
}

func (s *assessmentService) Previous(ctx context.Context, cc model.ChapterContext, token string, req dto.AnswerRequest) (*dto.QuestionViewDTO, error) {
	assessment, err := s.load(cc, token)
	if err != nil {
		return nil, err
	}
	if assessment.Status == model.AssessmentStatusCompleted {
		return nil, ErrAssessmentCompleted
	}
	if req.Number <= 1 {
		return nil, &ValidationError{Message: "Already at the first question."}
	}
	if req.Number > assessment.CurrentQuestion {
		return nil, &ValidationError{Message: fmt.Sprintf("question %d has not been reached yet", req.Number)}
	}

	// Going backward persists whatever is there, without validation.
	if err := s.persistResponse(assessment, req); err != nil {
		return nil, err
	}
	return s.buildView(ctx, assessment, req.Number-1)
}

func (s *assessmentService) Submit(ctx context.Context, cc model.ChapterContext, token string, req dto.AnswerRequest) (*dto.AssessmentDTO, error) {
	assessment, err := s.load(cc, token)
	if err != nil {
		return nil, err
	}
	if assessment.Status == model.AssessmentStatusCompleted {
		return nil, ErrAssessmentCompleted
	}
	if req.Number != question.Count || assessment.CurrentQuestion != question.Count {
		return nil, &ValidationError{Message: "All five parts must be reached before submitting."}
	}

	if err := s.validate(assessment.ID, req); err != nil {
		return nil, err
	}
	if err := s.persistResponse(assessment, req); err != nil {
		return nil, err
	}

	completedAt := time.Now()
	if err := s.assessmentRepo.MarkCompleted(assessment.ID, completedAt); err != nil {
		// The candidate stays on Part E; scoring is not triggered.
		log.Error().Err(err).Uint("assessmentID", assessment.ID).Msg("Failed to mark assessment completed")
		s.analytics.RecordSubmissionFailure(assessment.ID, question.Count, err.Error())
		return nil, fmt.Errorf("failed to complete assessment: %w", err)
	}
	assessment.Status = model.AssessmentStatusCompleted
	assessment.CompletedAt = &completedAt

	// Scoring runs off the request path. A permanent failure there is
	// recorded to analytics; the completed transition is never rolled back.
	assessmentID := assessment.ID
	s.dispatcher.Enqueue(events.Job{
		Name:    "scoring.assessment",
		Retries: 2,
		Run: func(ctx context.Context) error {
			return s.scoring.Score(ctx, assessmentID)
		},
		OnFail: func(err error) {
			s.analytics.RecordSubmissionFailure(assessmentID, question.Count, err.Error())
		},
	})

	var resp dto.AssessmentDTO
	if err := copier.Copy(&resp, assessment); err != nil {
		return nil, fmt.Errorf("failed to map assessment: %w", err)
	}
	return &resp, nil
}

// validate applies the per-question rule for the answered question. Messages
// are rule-specific so the UI can show exactly what to fix.
func (s *assessmentService) validate(assessmentID uint, req dto.AnswerRequest) error {
	q, ok := question.ForNumber(req.Number)
	if !ok {
		return &ValidationError{Message: fmt.Sprintf("unknown question %d", req.Number)}
	}
	if req.Kind != string(q.AnswerKind) {
		return &ValidationError{Message: fmt.Sprintf("%s expects a %s answer.", q.Label, q.AnswerKind)}
	}

	switch q.AnswerKind {
	case model.AnswerKindRankedVerticals:
		if len(req.Text) < q.MinLength {
			return &ValidationError{Message: fmt.Sprintf("%s requires at least %d characters.", q.Label, q.MinLength)}
		}
		s.mu.Lock()
		_, analyzed := s.suggestedCache[assessmentID]
		s.mu.Unlock()
		if !analyzed {
			return &ValidationError{Message: fmt.Sprintf("Run the analysis for %s before continuing.", q.Label)}
		}
		distinct := make(map[uint]bool)
		for _, id := range req.VerticalIDs {
			distinct[id] = true
		}
		if len(req.VerticalIDs) != question.RequiredRankedVerticals || len(distinct) != question.RequiredRankedVerticals {
			return &ValidationError{Message: fmt.Sprintf("%s requires exactly %d distinct ranked focus areas.", q.Label, question.RequiredRankedVerticals)}
		}
	case model.AnswerKindText:
		if len(req.Text) < q.MinLength {
			return &ValidationError{Message: fmt.Sprintf("%s requires at least %d characters.", q.Label, q.MinLength)}
		}
	case model.AnswerKindSingleChoice:
		valid := false
		for _, c := range q.Choices {
			if req.Choice == c {
				valid = true
				break
			}
		}
		if !valid {
			return &ValidationError{Message: fmt.Sprintf("%s requires selecting one of the listed options.", q.Label)}
		}
	}
	return nil
}

// persistResponse upserts the answer for (assessment, question), carrying
// the adaptation metadata from the session cache into the stored row.
func (s *assessmentService) persistResponse(assessment *model.Assessment, req dto.AnswerRequest) error {
	q, ok := question.ForNumber(req.Number)
	if !ok {
		return &ValidationError{Message: fmt.Sprintf("unknown question %d", req.Number)}
	}
	if req.Kind != string(q.AnswerKind) {
		return &ValidationError{Message: fmt.Sprintf("%s expects a %s answer.", q.Label, q.AnswerKind)}
	}

	var answer model.Answer
	switch model.AnswerKind(req.Kind) {
	case model.AnswerKindText:
		answer = model.TextAnswer{Text: req.Text}
	case model.AnswerKindRankedVerticals:
		answer = model.RankedVerticalAnswer{Text: req.Text, VerticalIDs: req.VerticalIDs}
	case model.AnswerKindSingleChoice:
		answer = model.SingleChoiceAnswer{Choice: req.Choice}
	default:
		return &ValidationError{Message: fmt.Sprintf("unknown answer kind %q", req.Kind)}
	}

	response := model.Response{
		AssessmentID:   assessment.ID,
		QuestionNumber: req.Number,
	}
	if err := response.SetAnswer(answer); err != nil {
		return fmt.Errorf("failed to encode answer: %w", err)
	}

	if res, ok := s.adapter.Cached(assessment.ID, req.Number); ok && res.Adapted != nil {
		response.AdaptedScenario = &res.Adapted.Scenario
		response.ContextSummary = &res.Adapted.ContextSummary
	}

	if err := s.responseRepo.Upsert(&response); err != nil {
		return fmt.Errorf("failed to save response for question %d: %w", req.Number, err)
	}

	if req.Number == 2 && req.UsedDraft {
		s.analytics.RecordHelp(assessment.ID, 2, true, true)
	}
	return nil
}

// gatherPrior loads the persisted answers the adapter's preconditions refer
// to. Missing or undecodable answers leave their fields empty, which the
// adapter treats as unmet preconditions.
func (s *assessmentService) gatherPrior(assessmentID uint) PriorAnswers {
	var prior PriorAnswers

	if resp, err := s.responseRepo.FindByAssessmentAndQuestion(assessmentID, 1); err == nil {
		if answer, err := resp.Answer(); err == nil {
			if ranked, ok := answer.(model.RankedVerticalAnswer); ok {
				prior.ProblemText = ranked.Text
				if names, err := s.verticalNames(ranked.VerticalIDs); err == nil {
					prior.VerticalNames = names
				}
			}
		}
	}

	if resp, err := s.responseRepo.FindByAssessmentAndQuestion(assessmentID, 2); err == nil {
		if answer, err := resp.Answer(); err == nil {
			if text, ok := answer.(model.TextAnswer); ok {
				prior.InitiativeText = text.Text
			}
		}
	}

	return prior
}

func (s *assessmentService) verticalNames(ids []uint) ([]string, error) {
	all, err := s.verticalRepo.FindAll()
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]string, len(all))
	for _, v := range all {
		byID[v.ID] = v.Name
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names, nil
}

func (s *assessmentService) resolveVerticals(ids []uint) ([]dto.VerticalDTO, error) {
	all, err := s.verticalRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load verticals: %w", err)
	}
	byID := make(map[uint]model.Vertical, len(all))
	for _, v := range all {
		byID[v.ID] = v
	}
	out := make([]dto.VerticalDTO, 0, len(ids))
	for _, id := range ids {
		v, ok := byID[id]
		if !ok {
			continue
		}
		var d dto.VerticalDTO
		if err := copier.Copy(&d, &v); err != nil {
			return nil, fmt.Errorf("failed to map vertical: %w", err)
		}
		out = append(out, d)
	}
	return out, nil
}

// buildView assembles the candidate-facing view of question n: the adapted
// prompt when adaptation succeeded (computed lazily on first visit), the
// static template otherwise, plus any saved state for re-entry.
func (s *assessmentService) buildView(ctx context.Context, assessment *model.Assessment, number int) (*dto.QuestionViewDTO, error) {
	q, ok := question.ForNumber(number)
	if !ok {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown question %d", number)}
	}

	view := &dto.QuestionViewDTO{
		Number:    q.Number,
		Label:     q.Label,
		Title:     q.Title,
		Type:      q.Type,
		Prompt:    q.Template,
		MinLength: q.MinLength,
		Choices:   q.Choices,
	}

	if number >= 2 {
		res, cached := s.adapter.Cached(assessment.ID, number)
		if !cached {
			prior := s.gatherPrior(assessment.ID)
			res = s.adapter.Adapt(ctx, assessment.ID, number, prior)
			s.analytics.RecordAdaptation(AdaptationOutcome{
				AssessmentID:   assessment.ID,
				QuestionNumber: number,
				Attempted:      true,
				Succeeded:      res.Adapted != nil,
				FallbackUsed:   res.FallbackUsed,
				Duration:       res.Duration,
			})
		}
		if res.Adapted != nil {
			view.Prompt = res.Adapted.Scenario
			view.Adapted = true
			view.ContextSummary = res.Adapted.ContextSummary
		}
	}

	if resp, err := s.responseRepo.FindByAssessmentAndQuestion(assessment.ID, number); err == nil {
		answer, decodeErr := resp.Answer()
		if decodeErr != nil {
			log.Warn().Err(decodeErr).Uint("assessmentID", assessment.ID).Int("question", number).
				Msg("Stored answer could not be decoded")
		} else {
			saved := &dto.SavedAnswerDTO{Kind: string(answer.Kind())}
			switch a := answer.(type) {
			case model.TextAnswer:
				saved.Text = a.Text
			case model.RankedVerticalAnswer:
				saved.Text = a.Text
				saved.VerticalIDs = a.VerticalIDs
			case model.SingleChoiceAnswer:
				saved.Choice = a.Choice
			}
			view.SavedAnswer = saved
		}
	}

	if number == 1 {
		s.mu.Lock()
		result := s.suggestedCache[assessment.ID]
		s.mu.Unlock()
		if result != nil {
			verticals, err := s.resolveVerticals(result.VerticalIDs)
			if err != nil {
				return nil, err
			}
			view.Suggestions = verticals
			view.GenericSuggestions = result.Generic
		}
	}

	return view, nil
}
