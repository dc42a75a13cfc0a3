package repository

import (
	"time"

	"github.com/lamngoc/ascent/internal/model"
	"gorm.io/gorm"
)

type AssessmentRepository interface {
	Create(assessment *model.Assessment) error
	FindByID(id uint) (*model.Assessment, error)
	FindByToken(token string) (*model.Assessment, error)
	FindByChapter(chapterID uint) ([]model.Assessment, error)
	Update(assessment *model.Assessment) error
	MarkCompleted(id uint, completedAt time.Time) error
}

type assessmentRepository struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

func (r *assessmentRepository) Create(assessment *model.Assessment) error {
	return r.db.Create(assessment).Error
}

func (r *assessmentRepository) FindByID(id uint) (*model.Assessment, error) {
	var assessment model.Assessment
	if err := r.db.First(&assessment, id).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (r *assessmentRepository) FindByToken(token string) (*model.Assessment, error) {
	var assessment model.Assessment
	if err := r.db.Where("token = ?", token).First(&assessment).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (r *assessmentRepository) FindByChapter(chapterID uint) ([]model.Assessment, error) {
	var assessments []model.Assessment
	if err := r.db.Where("chapter_id = ?", chapterID).Order("created_at desc").Find(&assessments).Error; err != nil {
		return nil, err
	}
	return assessments, nil
}

func (r *assessmentRepository) Update(assessment *model.Assessment) error {
	return r.db.Save(assessment).Error
}

// MarkCompleted flips the assessment to completed in a single update so the
// status and timestamp cannot diverge.
func (r *assessmentRepository) MarkCompleted(id uint, completedAt time.Time) error {
	return r.db.Model(&model.Assessment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       model.AssessmentStatusCompleted,
			"completed_at": completedAt,
		}).Error
}
