package dto

// StartAssessmentRequest creates a new assessment for a candidate.
type StartAssessmentRequest struct {
	CandidateName  string `json:"candidate_name" binding:"required"`
	CandidateEmail string `json:"candidate_email" binding:"required,email"`
}

// AnalyzeRequest runs the vertical-suggestion step over the Part A text.
type AnalyzeRequest struct {
	Text string `json:"text" binding:"required"`
}

// DraftRequest asks for the AI pre-fill for Part B. ProblemText is only a
// fallback for when the Part A answer has not been saved yet; the saved
// answer wins when both exist.
type DraftRequest struct {
	ProblemText string `json:"problem_text,omitempty"`
}

// AnswerRequest carries the candidate's answer for question Number.
// Exactly one variant is populated, matching the question's type.
type AnswerRequest struct {
	Number      int    `json:"number" binding:"required,min=1,max=5"`
	Kind        string `json:"kind" binding:"required,oneof=text ranked_verticals single_choice"`
	Text        string `json:"text,omitempty"`
	VerticalIDs []uint `json:"vertical_ids,omitempty"`
	Choice      string `json:"choice,omitempty"`

	// UsedDraft marks that the submitted text kept the AI pre-fill (Part B).
	UsedDraft bool `json:"used_draft,omitempty"`
}
