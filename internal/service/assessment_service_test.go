package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lamngoc/ascent/config"
	"github.com/lamngoc/ascent/internal/dto"
	"github.com/lamngoc/ascent/internal/events"
	"github.com/lamngoc/ascent/internal/model"
	"github.com/lamngoc/ascent/internal/question"
	"github.com/lamngoc/ascent/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var partAText = strings.Repeat("The neighborhood park has fallen into disrepair and none of the local groups maintain it anymore. ", 3)

const (
	partBText = "I would organize a monthly volunteer cleanup crew, recruit ten neighbors in the first month, and partner with the parks department for tools and waste pickup."
	partCText = "Spend the budget on gloves, bags and a rented trailer; run two weekend cleanups."
	partDText = "Recruit a treasurer and someone with permit experience."
)

type fakeScorer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeScorer) Score(context.Context, uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeScorer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeScorer) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type failingCompletionRepo struct {
	repository.AssessmentRepository
}

func (failingCompletionRepo) MarkCompleted(uint, time.Time) error {
	return errors.New("connection reset by peer")
}

type assessmentHarness struct {
	svc            AssessmentService
	gen            *fakeGenerator
	scorer         *fakeScorer
	db             *gorm.DB
	assessmentRepo repository.AssessmentRepository
	records        repository.AdaptationRecordRepository
}

// newAssessmentHarness wires the full service against in-memory sqlite and a
// scripted generator. wrapRepo, when non-nil, decorates the assessment
// repository before injection.
func newAssessmentHarness(t *testing.T, wrapRepo func(repository.AssessmentRepository) repository.AssessmentRepository) *assessmentHarness {
	t.Helper()
	db := newTestDB(t)
	for i, name := range []string{"Community Safety", "Education", "Environment", "Health", "Civic Engagement"} {
		require.NoError(t, db.Create(&model.Vertical{Name: name, Active: true, DisplayOrder: i + 1}).Error)
	}

	cfg := &config.Config{}
	cfg.Adapter.Timeout = 5 * time.Second
	cfg.RateLimit.Limit = 3
	cfg.RateLimit.WindowSeconds = 60
	cfg.Guard.Triggers = []string{"stray dog"}

	gen := &fakeGenerator{responses: []string{
		"[1, 2, 3]",
		"restoring the neighborhood park",
		"Your volunteer cleanup initiative for the neighborhood park will need steady hands. What would the first three months look like?",
	}}

	assessmentRepo := repository.NewAssessmentRepository(db)
	if wrapRepo != nil {
		assessmentRepo = wrapRepo(assessmentRepo)
	}
	responseRepo := repository.NewResponseRepository(db)
	verticalRepo := repository.NewVerticalRepository(db)

	dispatcher := events.NewDispatcher()
	dispatcher.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = dispatcher.Stop(ctx)
	})

	records := repository.NewAdaptationRecordRepository(db)
	analytics := NewAnalyticsService(records, dispatcher)
	scorer := &fakeScorer{}

	svc := NewAssessmentService(
		assessmentRepo,
		responseRepo,
		verticalRepo,
		NewVerticalSuggestionService(gen),
		NewQuestionAdapterService(gen, cfg),
		NewDraftService(gen, NewRelevanceGuard(cfg), analytics),
		analytics,
		NewRateLimitService(repository.NewRateCounterRepository(db), cfg),
		scorer,
		dispatcher,
	)

	return &assessmentHarness{
		svc:            svc,
		gen:            gen,
		scorer:         scorer,
		db:             db,
		assessmentRepo: assessmentRepo,
		records:        records,
	}
}

func chapter(id uint) model.ChapterContext {
	return model.ChapterContext{ChapterID: id, Role: "candidate"}
}

func (h *assessmentHarness) start(t *testing.T) string {
	t.Helper()
	resp, err := h.svc.Start(chapter(1), dto.StartAssessmentRequest{
		CandidateName:  "Ada Tran",
		CandidateEmail: "ada@example.org",
	})
	require.NoError(t, err)
	return resp.Token
}

func partAAnswer() dto.AnswerRequest {
	return dto.AnswerRequest{Number: 1, Kind: "ranked_verticals", Text: partAText, VerticalIDs: []uint{1, 2, 3}}
}

// walkToPartE drives the assessment through questions 1-4 with valid answers.
func (h *assessmentHarness) walkToPartE(t *testing.T, token string) {
	t.Helper()
	ctx := context.Background()
	cc := chapter(1)

	_, err := h.svc.AnalyzeProblem(ctx, cc, token, dto.AnalyzeRequest{Text: partAText})
	require.NoError(t, err)

	steps := []dto.AnswerRequest{
		partAAnswer(),
		{Number: 2, Kind: "text", Text: partBText},
		{Number: 3, Kind: "text", Text: partCText},
		{Number: 4, Kind: "text", Text: partDText},
	}
	for _, step := range steps {
		view, err := h.svc.Next(ctx, cc, token, step)
		require.NoError(t, err)
		require.Equal(t, step.Number+1, view.Number)
	}
}

func TestStartAssessment(t *testing.T) {
	h := newAssessmentHarness(t, nil)

	resp, err := h.svc.Start(chapter(7), dto.StartAssessmentRequest{
		CandidateName:  "Binh Le",
		CandidateEmail: "binh@example.org",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, uint(7), resp.ChapterID)
	assert.Equal(t, 1, resp.CurrentQuestion)
	assert.Equal(t, model.AssessmentStatusInProgress, resp.Status)
}

func TestNextRejectsShortPartAText(t *testing.T) {
	h := newAssessmentHarness(t, nil)
	token := h.start(t)

	req := partAAnswer()
	req.Text = strings.Repeat("x", 150)
	_, err := h.svc.Next(context.Background(), chapter(1), token, req)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Part A requires at least 200 characters.", ve.Message)
}

func TestNextRequiresAnalysisBeforeRanking(t *testing.T) {
	h := newAssessmentHarness(t, nil)
	token := h.start(t)

	_, err := h.svc.Next(context.Background(), chapter(1), token, partAAnswer())

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Run the analysis for Part A before continuing.", ve.Message)
}

func TestNextRejectsWrongRankingCount(t *testing.T) {
	h := newAssessmentHarness(t, nil)
	token := h.start(t)
	ctx := context.Background()

	_, err := h.svc.AnalyzeProblem(ctx, chapter(1), token, dto.AnalyzeRequest{Text: partAText})
	require.NoError(t, err)

	for _, ids := range [][]uint{{1, 2}, {1, 2, 3, 4}, {1, 1, 2}} {
		req := partAAnswer()
		req.VerticalIDs = ids
		_, err := h.svc.Next(ctx, chapter(1), token, req)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "Part A requires exactly 3 distinct ranked focus areas.", ve.Message)
	}
}

func TestAnswerUpsertKeepsOneRowPerQuestion(t *testing.T) {
	h := newAssessmentHarness(t, nil)
	token := h.start(t)
	ctx := context.Background()

	_, err := h.svc.AnalyzeProblem(ctx, chapter(1), token, dto.AnalyzeRequest{Text: partAText})
	require.NoError(t, err)

	_, err = h.svc.Next(ctx, chapter(1), token, partAAnswer())
	require.NoError(t, err)

	// Re-answer the same question with different text.
	revised := partAAnswer()
	revised.Text = partAText + " The swings are broken too."
	_, err = h.svc.Next(ctx, chapter(1), token, revised)
	require.NoError(t, err)

	var count int64
	require.NoError(t, h.db.Model(&model.Response{}).
		Where("question_number = ?", 1).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	view, err := h.svc.GetQuestion(ctx, chapter(1), token, 1)
	require.NoError(t, err)
	require.NotNil(t, view.SavedAnswer)
	assert.Equal(t, revised.Text, view.SavedAnswer.Text)
}

func TestNextAdaptsOnceAndReentryReusesIt(t *testing.T) {
	h := newAssessmentHarness(t, nil)
	token := h.start(t)
	ctx := context.Background()

	_, err := h.svc.AnalyzeProblem(ctx, chapter(1), token, dto.AnalyzeRequest{Text: partAText})
	require.NoError(t, err)

	view, err := h.svc.Next(ctx, chapter(1), token, partAAnswer())
	require.NoError(t, err)
	require.Equal(t, 2, view.Number)
	assert.True(t, view.Adapted)
	assert.Equal(t, "restoring the neighborhood park", view.ContextSummary)
	assert.Contains(t, view.Prompt, "volunteer cleanup initiative")

	// One suggestion call plus the two-step adaptation chain for Part B.
	require.Equal(t, 3, h.gen.callCount())

	again, err := h.svc.GetQuestion(ctx, chapter(1), token, 0)
	require.NoError(t, err)
	assert.Equal(t, view.Prompt, again.Prompt)
	assert.Equal(t, 3, h.gen.callCount())
}

func TestGetQuestionAheadOfCurrentRejected(t *testing.T) {
	h := newAssessmentHarness(t, nil)
	token := h.start(t)

	_, err := h.svc.GetQuestion(context.Background(), chapter(1), token, 3)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestPreviousShowsEarlierQuestionAndKeepsProgress(t *testing.T) {
	h := newAssessmentHarness(t, nil)
	token := h.start(t)
	ctx := context.Background()

	_, err := h.svc.AnalyzeProblem(ctx, chapter(1), token, dto.AnalyzeRequest{Text: partAText})
	require.NoError(t, err)
	_, err = h.svc.Next(ctx, chapter(1), token, partAAnswer())
	require.NoError(t, err)

	// Go back from Part B with a half-written answer; no validation applies.
	view, err := h.svc.Previous(ctx, chapter(1), token, dto.AnswerRequest{Number: 2, Kind: "text", Text: "I would"})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Number)
	require.NotNil(t, view.SavedAnswer)
	assert.Equal(t, partAText, view.SavedAnswer.Text)

	assessment, err := h.assessmentRepo.FindByToken(token)
	require.NoError(t, err)
	assert.Equal(t, 2, assessment.CurrentQuestion)
}

func TestSubmitCompletesAndQueuesScoring(t *testing.T) {
	h := newAssessmentHarness(t, nil)
	token := h.start(t)
	h.walkToPartE(t, token)

	resp, err := h.svc.Submit(context.Background(), chapter(1), token, dto.AnswerRequest{
		Number: 5, Kind: "single_choice", Choice: question.CommitmentChoices[1],
	})
	require.NoError(t, err)
	assert.Equal(t, model.AssessmentStatusCompleted, resp.Status)
	require.NotNil(t, resp.CompletedAt)

	require.Eventually(t, func() bool { return h.scorer.count() == 1 },
		2*time.Second, 10*time.Millisecond)
}

func TestScoringFailureAfterCompletionIsRecordedToAnalytics(t *testing.T) {
	h := newAssessmentHarness(t, nil)
	token := h.start(t)
	h.walkToPartE(t, token)
	h.scorer.fail(errors.New("scoring gateway unreachable"))

	resp, err := h.svc.Submit(context.Background(), chapter(1), token, dto.AnswerRequest{
		Number: 5, Kind: "single_choice", Choice: question.CommitmentChoices[1],
	})
	require.NoError(t, err)
	assert.Equal(t, model.AssessmentStatusCompleted, resp.Status)

	// The retry budget is exhausted off the request path; the permanent
	// failure lands in the analytics side channel and the completed
	// transition is never rolled back.
	require.Eventually(t, func() bool {
		rec, err := h.records.FindByAssessmentAndQuestion(resp.ID, question.Count)
		return err == nil && rec.FailureReason != ""
	}, 10*time.Second, 50*time.Millisecond)

	assert.Equal(t, 3, h.scorer.count(), "one attempt plus two retries")

	assessment, err := h.assessmentRepo.FindByToken(token)
	require.NoError(t, err)
	assert.Equal(t, model.AssessmentStatusCompleted, assessment.Status)
}

func TestSubmitRejectsInvalidChoice(t *testing.T) {
	h := newAssessmentHarness(t, nil)
	token := h.start(t)
	h.walkToPartE(t, token)

	_, err := h.svc.Submit(context.Background(), chapter(1), token, dto.AnswerRequest{
		Number: 5, Kind: "single_choice", Choice: "whenever_i_can",
	})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Part E requires selecting one of the listed options.", ve.Message)
	assert.Equal(t, 0, h.scorer.count())
}

func TestSubmitFailureLeavesAssessmentInProgress(t *testing.T) {
	h := newAssessmentHarness(t, func(repo repository.AssessmentRepository) repository.AssessmentRepository {
		return failingCompletionRepo{AssessmentRepository: repo}
	})
	token := h.start(t)
	h.walkToPartE(t, token)

	_, err := h.svc.Submit(context.Background(), chapter(1), token, dto.AnswerRequest{
		Number: 5, Kind: "single_choice", Choice: question.CommitmentChoices[0],
	})
	require.Error(t, err)

	assessment, err := h.assessmentRepo.FindByToken(token)
	require.NoError(t, err)
	assert.Equal(t, model.AssessmentStatusInProgress, assessment.Status)
	assert.Nil(t, assessment.CompletedAt)

	// Scoring never runs for a failed submission.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, h.scorer.count())
}

func TestCompletedAssessmentRejectsWrites(t *testing.T) {
	h := newAssessmentHarness(t, nil)
	token := h.start(t)
	h.walkToPartE(t, token)
	ctx := context.Background()

	_, err := h.svc.Submit(ctx, chapter(1), token, dto.AnswerRequest{
		Number: 5, Kind: "single_choice", Choice: question.CommitmentChoices[2],
	})
	require.NoError(t, err)

	_, err = h.svc.Next(ctx, chapter(1), token, dto.AnswerRequest{Number: 2, Kind: "text", Text: partBText})
	assert.ErrorIs(t, err, ErrAssessmentCompleted)

	_, err = h.svc.AnalyzeProblem(ctx, chapter(1), token, dto.AnalyzeRequest{Text: partAText})
	assert.ErrorIs(t, err, ErrAssessmentCompleted)
}

func TestChapterScopingHidesForeignTokens(t *testing.T) {
	h := newAssessmentHarness(t, nil)
	token := h.start(t)

	_, err := h.svc.GetQuestion(context.Background(), chapter(2), token, 0)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAnalyzeIsRateLimitedPerAssessment(t *testing.T) {
	h := newAssessmentHarness(t, nil)
	token := h.start(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := h.svc.AnalyzeProblem(ctx, chapter(1), token, dto.AnalyzeRequest{Text: partAText})
		require.NoError(t, err)
	}

	_, err := h.svc.AnalyzeProblem(ctx, chapter(1), token, dto.AnalyzeRequest{Text: partAText})
	assert.ErrorIs(t, err, ErrRateLimited)

	// A different assessment has its own budget.
	other := h.start(t)
	_, err = h.svc.AnalyzeProblem(ctx, chapter(1), other, dto.AnalyzeRequest{Text: partAText})
	assert.NoError(t, err)
}

func TestRequestDraftUsesSavedProblem(t *testing.T) {
	h := newAssessmentHarness(t, nil)
	token := h.start(t)
	ctx := context.Background()

	_, err := h.svc.AnalyzeProblem(ctx, chapter(1), token, dto.AnalyzeRequest{Text: partAText})
	require.NoError(t, err)
	_, err = h.svc.Next(ctx, chapter(1), token, partAAnswer())
	require.NoError(t, err)

	resp, err := h.svc.RequestDraft(ctx, chapter(1), token, dto.DraftRequest{ProblemText: partAText})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Draft)
}

func TestRequestDraftRequiresPartA(t *testing.T) {
	h := newAssessmentHarness(t, nil)
	token := h.start(t)

	_, err := h.svc.RequestDraft(context.Background(), chapter(1), token, dto.DraftRequest{})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}
