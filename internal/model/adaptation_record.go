package model

import "time"

// AdaptationRecord is the best-effort analytics row written per
// (assessment, question). It is a side channel: write failures are logged
// and swallowed, and nothing in the pipeline reads it back.
type AdaptationRecord struct {
	ID             uint  `gorm:"primarykey" json:"id"`
	AssessmentID   uint  `json:"assessment_id" gorm:"not null;uniqueIndex:idx_adaptation_assessment_question"`
	QuestionNumber int   `json:"question_number" gorm:"not null;uniqueIndex:idx_adaptation_assessment_question"`
	Attempted      bool  `json:"attempted"`
	Succeeded      bool  `json:"succeeded"`
	FallbackUsed   bool  `json:"fallback_used"`
	DurationMs     int64 `json:"duration_ms"`

	// AI-assisted drafting outcome for Part B.
	AIHelpUsed     bool   `json:"ai_help_used"`
	AIHelpAccepted bool   `json:"ai_help_accepted"`
	FailureReason  string `json:"failure_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
