// Package question holds the fixed five-part assessment catalog. Parts B
// through E carry static templates that the adapter may personalize; the
// static text is always the fallback when adaptation cannot run.
package question

import "github.com/lamngoc/ascent/internal/model"

// Question types.
const (
	TypeTextWithRanking = "text_with_ranking" // Part A: free text plus ranked verticals
	TypeText            = "text"              // Parts B, C, D
	TypeSingleChoice    = "single_choice"     // Part E
)

// RequiredRankedVerticals is how many verticals Part A must rank.
const RequiredRankedVerticals = 3

// Static is one entry of the question catalog.
type Static struct {
	Number     int
	Label      string // "Part A" .. "Part E"
	Title      string
	Type       string
	Template   string
	MinLength  int        // minimum answer length for text questions
	Choices    []string   // options for single-choice questions
	AnswerKind model.AnswerKind

	// Adapter parameters. SummaryWords is the word budget for the extracted
	// summary of the prior answer feeding this part's generation prompt.
	// Preserve lists numeric constants the adapted text must keep verbatim.
	WordBudget   int
	SummaryWords int
	Preserve     []string
}

// Part E commitment options.
var CommitmentChoices = []string{
	"under_5_hours",
	"5_to_10_hours",
	"10_to_20_hours",
	"over_20_hours",
}

var catalog = []Static{
	{
		Number:     1,
		Label:      "Part A",
		Title:      "The problem you want to solve",
		Type:       TypeTextWithRanking,
		AnswerKind: model.AnswerKindRankedVerticals,
		MinLength:  200,
		Template: "Describe a problem in your community or organization that you feel " +
			"strongly about solving. Be specific: who is affected, what have you " +
			"observed first-hand, and why does it matter to you? After writing, run " +
			"the analysis to see which focus areas match your problem, then rank " +
			"your top three.",
	},
	{
		Number:     2,
		Label:      "Part B",
		Title:      "Your initiative",
		Type:       TypeText,
		AnswerKind: model.AnswerKindText,
		MinLength:  100,
		Template: "Describe an initiative you would personally lead to address the " +
			"problem you identified. What would the first three months look like, " +
			"and who would you bring on board? Close with the single outcome that " +
			"would tell you the initiative is working.",
		WordBudget:   120,
		SummaryWords: 5,
	},
	{
		Number:     3,
		Label:      "Part C",
		Title:      "Working within constraints",
		Type:       TypeText,
		AnswerKind: model.AnswerKindText,
		MinLength:  50,
		Template: "You are given a budget of $500 and a window of 2 weeks to run a " +
			"pilot of your initiative. Walk through how you would spend the money " +
			"and the time. What would you cut first if the budget were halved?",
		WordBudget:   110,
		SummaryWords: 7,
		Preserve:     []string{"$500", "2 weeks"},
	},
	{
		Number:     4,
		Label:      "Part D",
		Title:      "Building the team",
		Type:       TypeText,
		AnswerKind: model.AnswerKindText,
		MinLength:  30,
		Template: "Think about the skills your initiative needs that you do not have " +
			"yourself. How would you find the people who do, and how would you keep " +
			"them engaged as volunteers? What would you delegate first?",
		WordBudget:   100,
		SummaryWords: 4,
	},
	{
		Number:     5,
		Label:      "Part E",
		Title:      "Your commitment",
		Type:       TypeSingleChoice,
		AnswerKind: model.AnswerKindSingleChoice,
		Choices:    CommitmentChoices,
		Template: "Realistically, how many hours per week could you commit to " +
			"leading this work over the next six months?",
		SummaryWords: 4,
	},
}

// Count is the number of questions in an assessment.
const Count = 5

// ForNumber returns the static catalog entry for question n (1..5).
func ForNumber(n int) (Static, bool) {
	if n < 1 || n > Count {
		return Static{}, false
	}
	return catalog[n-1], true
}

// All returns the catalog in order.
func All() []Static {
	out := make([]Static, len(catalog))
	copy(out, catalog)
	return out
}
