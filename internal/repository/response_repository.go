package repository

import (
	"github.com/lamngoc/ascent/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResponseRepository interface {
	Upsert(response *model.Response) error
	FindByAssessmentAndQuestion(assessmentID uint, questionNumber int) (*model.Response, error)
	FindAllByAssessment(assessmentID uint) ([]model.Response, error)
}

type responseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &responseRepository{db: db}
}

// Upsert writes the response for (assessment, question), replacing any
// existing row. Last write wins.
func (r *responseRepository) Upsert(response *model.Response) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "assessment_id"}, {Name: "question_number"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"payload", "adapted_scenario", "context_summary", "updated_at",
		}),
	}).Create(response).Error
}

func (r *responseRepository) FindByAssessmentAndQuestion(assessmentID uint, questionNumber int) (*model.Response, error) {
	var response model.Response
	err := r.db.Where("assessment_id = ? AND question_number = ?", assessmentID, questionNumber).
		First(&response).Error
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *responseRepository) FindAllByAssessment(assessmentID uint) ([]model.Response, error) {
	var responses []model.Response
	err := r.db.Where("assessment_id = ?", assessmentID).
		Order("question_number asc").
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}
