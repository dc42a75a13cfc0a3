package model

import (
	"time"

	"gorm.io/gorm"
)

// Response holds the candidate's answer for one question of one assessment.
// There is at most one row per (assessment, question); writes are upserts
// with last-write-wins semantics.
type Response struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	AssessmentID   uint   `json:"assessment_id" gorm:"not null;uniqueIndex:idx_assessment_question"`
	QuestionNumber int    `json:"question_number" gorm:"not null;uniqueIndex:idx_assessment_question"` // 1..5
	Payload        []byte `json:"-" gorm:"type:jsonb;not null"`                                        // answer envelope, see MarshalAnswer

	// Adaptation metadata, denormalized from the session cache at write time.
	AdaptedScenario *string `json:"adapted_scenario,omitempty" gorm:"type:text"`
	ContextSummary  *string `json:"context_summary,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Answer decodes the stored payload into its concrete variant.
func (r *Response) Answer() (Answer, error) {
	return UnmarshalAnswer(r.Payload)
}

// SetAnswer encodes the given answer into the stored payload.
func (r *Response) SetAnswer(a Answer) error {
	data, err := MarshalAnswer(a)
	if err != nil {
		return err
	}
	r.Payload = data
	return nil
}
