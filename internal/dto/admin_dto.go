package dto

import "time"

// VerticalRequest creates or updates a catalog entry.
type VerticalRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	Active       *bool  `json:"active"`
	DisplayOrder int    `json:"display_order"`
}

// ReviewUpdateRequest updates the admin review metadata on an assessment.
type ReviewUpdateRequest struct {
	ReviewStatus string `json:"review_status" binding:"omitempty,oneof=pending reviewed rejected"`
	Shortlisted  *bool  `json:"shortlisted"`
	ReviewNotes  string `json:"review_notes"`
}

// AssessmentReviewDTO is the admin listing view, including scoring output.
type AssessmentReviewDTO struct {
	ID              uint       `json:"id"`
	CandidateName   string     `json:"candidate_name"`
	CandidateEmail  string     `json:"candidate_email"`
	ChapterID       uint       `json:"chapter_id"`
	CurrentQuestion int        `json:"current_question"`
	Status          string     `json:"status"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	ReviewStatus    string     `json:"review_status"`
	Shortlisted     bool       `json:"shortlisted"`
	ReviewNotes     string     `json:"review_notes,omitempty"`
	OverallScore    *float64   `json:"overall_score,omitempty"`
	ScoreSummary    string     `json:"score_summary,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
