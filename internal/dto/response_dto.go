package dto

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

// AssessmentDTO is the candidate-facing view of an assessment.
type AssessmentDTO struct {
	ID              uint       `json:"id"`
	Token           string     `json:"token"`
	CandidateName   string     `json:"candidate_name"`
	CandidateEmail  string     `json:"candidate_email"`
	ChapterID       uint       `json:"chapter_id"`
	CurrentQuestion int        `json:"current_question"`
	Status          string     `json:"status"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// SavedAnswerDTO echoes a previously persisted answer when a question is
// revisited.
type SavedAnswerDTO struct {
	Kind        string `json:"kind"`
	Text        string `json:"text,omitempty"`
	VerticalIDs []uint `json:"vertical_ids,omitempty"`
	Choice      string `json:"choice,omitempty"`
}

// QuestionViewDTO is everything the UI needs to render the current question:
// the adapted or static prompt, validation bounds and any saved state.
type QuestionViewDTO struct {
	Number         int      `json:"number"`
	Label          string   `json:"label"`
	Title          string   `json:"title"`
	Type           string   `json:"type"`
	Prompt         string   `json:"prompt"`
	Adapted        bool     `json:"adapted"`
	ContextSummary string   `json:"context_summary,omitempty"`
	MinLength      int      `json:"min_length,omitempty"`
	Choices        []string `json:"choices,omitempty"`

	SavedAnswer *SavedAnswerDTO `json:"saved_answer,omitempty"`

	// Part A only: suggestions from a previously run analysis.
	Suggestions        []VerticalDTO `json:"suggestions,omitempty"`
	GenericSuggestions bool          `json:"generic_suggestions,omitempty"`
}

// SuggestionDTO is the analyze-step result.
type SuggestionDTO struct {
	Verticals []VerticalDTO `json:"verticals"`
	Generic   bool          `json:"generic"`
	Remaining int           `json:"remaining"`
}

type DraftDTO struct {
	Draft string `json:"draft"`
}

type VerticalDTO struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Active       bool   `json:"active"`
	DisplayOrder int    `json:"display_order"`
}
