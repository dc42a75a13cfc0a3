package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	AssessmentStatusInProgress = "in_progress"
	AssessmentStatusCompleted  = "completed"
)

// Assessment is one candidate attempt at the five-part leadership assessment.
// CurrentQuestion is monotonically non-decreasing while in progress and
// frozen once the assessment is completed.
type Assessment struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	Token           string     `json:"token" gorm:"not null;uniqueIndex"` // access token for the candidate link
	CandidateName   string     `json:"candidate_name" gorm:"not null"`
	CandidateEmail  string     `json:"candidate_email" gorm:"not null;index"`
	ChapterID       uint       `json:"chapter_id" gorm:"not null;index"`
	CurrentQuestion int        `json:"current_question" gorm:"not null;default:1"` // 1..5
	Status          string     `json:"status" gorm:"not null;default:'in_progress'"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`

	// Review metadata, owned by the admin surface.
	ReviewStatus string   `json:"review_status,omitempty" gorm:"default:'pending'"` // "pending", "reviewed", "rejected"
	Shortlisted  bool     `json:"shortlisted"`
	ReviewNotes  string   `json:"review_notes,omitempty" gorm:"type:text"`
	OverallScore *float64 `json:"overall_score,omitempty"` // written by the scoring pass after submission
	ScoreSummary string   `json:"score_summary,omitempty" gorm:"type:text"`

	Responses []Response     `json:"responses,omitempty" gorm:"foreignKey:AssessmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ChapterContext carries the resolved tenant scope for a request. It is
// passed explicitly into services instead of being read from ambient state.
type ChapterContext struct {
	ChapterID uint
	Role      string // "candidate", "admin"
}
