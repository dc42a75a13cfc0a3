package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lamngoc/ascent/config"
	"github.com/lamngoc/ascent/internal/question"
	"github.com/rs/zerolog/log"
)

// PriorAnswers carries the earlier responses an adaptation may need. Empty
// fields mean the answer is absent.
type PriorAnswers struct {
	ProblemText    string   // Part A free text
	VerticalNames  []string // Part A ranked verticals, resolved to names
	InitiativeText string   // Part B free text
}

// AdaptedQuestion is the personalized replacement for a static template.
type AdaptedQuestion struct {
	Scenario       string
	ContextSummary string
	Domains        []string // Part D only
}

// AdaptationResult signals either an adapted question or "use the default".
// No partial adaptation is ever surfaced: any failed step yields a fallback.
type AdaptationResult struct {
	Adapted      *AdaptedQuestion // nil means show the static template
	FallbackUsed bool
	Duration     time.Duration
}

// QuestionAdapterService personalizes questions 2 through 5 from prior
// answers via a short chain of sequential model calls. Results are cached
// per (assessment, question) for the life of the process; a question is
// never re-adapted once a result exists.
type QuestionAdapterService interface {
	Adapt(ctx context.Context, assessmentID uint, target int, prior PriorAnswers) *AdaptationResult
	Cached(assessmentID uint, target int) (*AdaptationResult, bool)
}

type questionAdapterService struct {
	generator TextGenerator
	timeout   time.Duration

	mu    sync.Mutex
	cache map[adapterKey]*AdaptationResult
}

type adapterKey struct {
	assessmentID uint
	target       int
}

func NewQuestionAdapterService(generator TextGenerator, cfg *config.Config) QuestionAdapterService {
	return &questionAdapterService{
		generator: generator,
		timeout:   cfg.Adapter.Timeout,
		cache:     make(map[adapterKey]*AdaptationResult),
	}
}

func (s *questionAdapterService) Cached(assessmentID uint, target int) (*AdaptationResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.cache[adapterKey{assessmentID, target}]
	return res, ok
}

func (s *questionAdapterService) Adapt(ctx context.Context, assessmentID uint, target int, prior PriorAnswers) *AdaptationResult {
	key := adapterKey{assessmentID, target}
	s.mu.Lock()
	if res, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return res
	}
	s.mu.Unlock()

	start := time.Now()
	res := s.adapt(ctx, target, prior)
	res.Duration = time.Since(start)

	s.mu.Lock()
	s.cache[key] = res
	s.mu.Unlock()
	return res
}

func (s *questionAdapterService) adapt(ctx context.Context, target int, prior PriorAnswers) *AdaptationResult {
	q, ok := question.ForNumber(target)
	if !ok || target < 2 {
		return &AdaptationResult{FallbackUsed: true}
	}

	// Precondition check. Missing prior answers mean the static template is
	// shown; no network call is made.
	switch target {
	case 2:
		if prior.ProblemText == "" || len(prior.VerticalNames) == 0 {
			return &AdaptationResult{FallbackUsed: true}
		}
	case 3, 4:
		if prior.ProblemText == "" || prior.InitiativeText == "" {
			return &AdaptationResult{FallbackUsed: true}
		}
	case 5:
		if prior.InitiativeText == "" {
			return &AdaptationResult{FallbackUsed: true}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sourceText := prior.ProblemText
	if target == 5 {
		sourceText = prior.InitiativeText
	}

	summary, err := s.extractSummary(ctx, sourceText, q.SummaryWords)
	if err != nil {
		log.Warn().Err(err).Int("target", target).Msg("Summary extraction failed, falling back to static question")
		return &AdaptationResult{FallbackUsed: true}
	}

	var domains []string
	if target == 4 {
		domains, err = s.extractDomains(ctx, prior.ProblemText, prior.InitiativeText)
		if err != nil {
			log.Warn().Err(err).Int("target", target).Msg("Domain extraction failed, falling back to static question")
			return &AdaptationResult{FallbackUsed: true}
		}
	}

	scenario, err := s.generateScenario(ctx, q, summary, prior, domains)
	if err != nil {
		log.Warn().Err(err).Int("target", target).Msg("Scenario generation failed, falling back to static question")
		return &AdaptationResult{FallbackUsed: true}
	}

	return &AdaptationResult{
		Adapted: &AdaptedQuestion{
			Scenario:       scenario,
			ContextSummary: summary,
			Domains:        domains,
		},
	}
}

// extractSummary condenses a prior free-text answer into a few words so the
// generation prompt stays small and focused.
func (s *questionAdapterService) extractSummary(ctx context.Context, text string, words int) (string, error) {
	if words <= 0 {
		words = 5
	}
	out, err := s.generator.Generate(ctx, GenerationRequest{
		Temperature: ExtractionTemperature,
		Messages: []Message{
			{Role: RoleSystem, Content: fmt.Sprintf("Summarize the user's text in at most %d words. "+
				"Respond with the summary only, no punctuation around it.", words)},
			{Role: RoleUser, Content: text},
		},
	})
	if err != nil {
		return "", err
	}
	summary := strings.TrimSpace(out)
	if summary == "" {
		return "", fmt.Errorf("empty summary returned")
	}
	return summary, nil
}

// extractDomains pulls 2-4 skill or domain keywords from the combined
// problem and initiative text (Part D only).
func (s *questionAdapterService) extractDomains(ctx context.Context, problemText, initiativeText string) ([]string, error) {
	out, err := s.generator.Generate(ctx, GenerationRequest{
		Temperature: ExtractionTemperature,
		Messages: []Message{
			{Role: RoleSystem, Content: "Extract 2 to 4 skill or domain keywords relevant to the described " +
				"problem and initiative. Respond with a comma-separated list only."},
			{Role: RoleUser, Content: "Problem:\n" + problemText + "\n\nInitiative:\n" + initiativeText},
		},
	})
	if err != nil {
		return nil, err
	}
	var domains []string
	for _, d := range strings.Split(out, ",") {
		if trimmed := strings.TrimSpace(d); trimmed != "" {
			domains = append(domains, trimmed)
		}
	}
	if len(domains) == 0 {
		return nil, fmt.Errorf("no domains extracted")
	}
	if len(domains) > 4 {
		domains = domains[:4]
	}
	return domains, nil
}

// generateScenario produces the adapted question text from the static
// template plus the extracted context.
func (s *questionAdapterService) generateScenario(ctx context.Context, q question.Static, summary string, prior PriorAnswers, domains []string) (string, error) {
	var b strings.Builder
	b.WriteString("Original question template:\n")
	b.WriteString(q.Template)
	b.WriteString("\n\nCandidate context summary: ")
	b.WriteString(summary)
	if len(prior.VerticalNames) > 0 {
		b.WriteString("\nChosen focus areas: ")
		b.WriteString(strings.Join(prior.VerticalNames, ", "))
	}
	if len(domains) > 0 {
		b.WriteString("\nRelevant skills: ")
		b.WriteString(strings.Join(domains, ", "))
	}
	b.WriteString("\n\nRewrite the question so it speaks directly to this candidate's situation.")
	if q.WordBudget > 0 {
		b.WriteString(fmt.Sprintf(" Use at most %d words.", q.WordBudget))
	}
	b.WriteString(" Keep the same intent and end with a direct question.")
	for _, keep := range q.Preserve {
		b.WriteString(fmt.Sprintf(" The constant %q must appear unchanged.", keep))
	}

	out, err := s.generator.Generate(ctx, GenerationRequest{
		Temperature: GenerationTemperature,
		Messages: []Message{
			{Role: RoleSystem, Content: "You personalize leadership-assessment questions. Respond with the " +
				"rewritten question text only."},
			{Role: RoleUser, Content: b.String()},
		},
	})
	if err != nil {
		return "", err
	}
	scenario := strings.TrimSpace(out)
	if scenario == "" {
		return "", fmt.Errorf("empty scenario returned")
	}
	return scenario, nil
}
