package repository

import (
	"github.com/lamngoc/ascent/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdaptationRecordRepository interface {
	Upsert(record *model.AdaptationRecord) error
	FindByAssessmentAndQuestion(assessmentID uint, questionNumber int) (*model.AdaptationRecord, error)
}

type adaptationRecordRepository struct {
	db *gorm.DB
}

func NewAdaptationRecordRepository(db *gorm.DB) AdaptationRecordRepository {
	return &adaptationRecordRepository{db: db}
}

func (r *adaptationRecordRepository) Upsert(record *model.AdaptationRecord) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "assessment_id"}, {Name: "question_number"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"attempted", "succeeded", "fallback_used", "duration_ms",
			"ai_help_used", "ai_help_accepted", "failure_reason", "updated_at",
		}),
	}).Create(record).Error
}

func (r *adaptationRecordRepository) FindByAssessmentAndQuestion(assessmentID uint, questionNumber int) (*model.AdaptationRecord, error) {
	var record model.AdaptationRecord
	err := r.db.Where("assessment_id = ? AND question_number = ?", assessmentID, questionNumber).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}
