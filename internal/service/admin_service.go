package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lamngoc/ascent/internal/dto"
	"github.com/lamngoc/ascent/internal/model"
	"github.com/lamngoc/ascent/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AdminService backs the chapter dashboard: vertical catalog management and
// candidate review. All reads and writes are scoped to the caller's chapter.
type AdminService interface {
	CreateVertical(req dto.VerticalRequest) (*dto.VerticalDTO, error)
	UpdateVertical(id uint, req dto.VerticalRequest) (*dto.VerticalDTO, error)
	DeleteVertical(id uint) error
	ListVerticals() ([]dto.VerticalDTO, error)
	ListAssessments(cc model.ChapterContext) ([]dto.AssessmentReviewDTO, error)
	UpdateReview(cc model.ChapterContext, assessmentID uint, req dto.ReviewUpdateRequest) (*dto.AssessmentReviewDTO, error)
}

type adminService struct {
	verticalRepo   repository.VerticalRepository
	assessmentRepo repository.AssessmentRepository
}

func NewAdminService(verticalRepo repository.VerticalRepository, assessmentRepo repository.AssessmentRepository) AdminService {
	return &adminService{verticalRepo: verticalRepo, assessmentRepo: assessmentRepo}
}

func (s *adminService) CreateVertical(req dto.VerticalRequest) (*dto.VerticalDTO, error) {
	vertical := model.Vertical{
		Name:         req.Name,
		Description:  req.Description,
		Active:       true,
		DisplayOrder: req.DisplayOrder,
	}
	if req.Active != nil {
		vertical.Active = *req.Active
	}
	if err := s.verticalRepo.Create(&vertical); err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("Failed to create vertical")
		return nil, fmt.Errorf("failed to create vertical: %w", err)
	}
	return mapVertical(&vertical)
}

func (s *adminService) UpdateVertical(id uint, req dto.VerticalRequest) (*dto.VerticalDTO, error) {
	vertical, err := s.verticalRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	vertical.Name = req.Name
	vertical.Description = req.Description
	vertical.DisplayOrder = req.DisplayOrder
	if req.Active != nil {
		vertical.Active = *req.Active
	}
	if err := s.verticalRepo.Update(vertical); err != nil {
		return nil, fmt.Errorf("failed to update vertical %d: %w", id, err)
	}
	return mapVertical(vertical)
}

func (s *adminService) DeleteVertical(id uint) error {
	if _, err := s.verticalRepo.FindByID(id); err != nil {
		return err
	}
	return s.verticalRepo.Delete(id)
}

func (s *adminService) ListVerticals() ([]dto.VerticalDTO, error) {
	verticals, err := s.verticalRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list verticals: %w", err)
	}
	out := make([]dto.VerticalDTO, 0, len(verticals))
	for i := range verticals {
		d, err := mapVertical(&verticals[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

func (s *adminService) ListAssessments(cc model.ChapterContext) ([]dto.AssessmentReviewDTO, error) {
	assessments, err := s.assessmentRepo.FindByChapter(cc.ChapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments for chapter %d: %w", cc.ChapterID, err)
	}
	out := make([]dto.AssessmentReviewDTO, 0, len(assessments))
	for i := range assessments {
		var d dto.AssessmentReviewDTO
		if err := copier.Copy(&d, &assessments[i]); err != nil {
			return nil, fmt.Errorf("failed to map assessment: %w", err)
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *adminService) UpdateReview(cc model.ChapterContext, assessmentID uint, req dto.ReviewUpdateRequest) (*dto.AssessmentReviewDTO, error) {
	assessment, err := s.assessmentRepo.FindByID(assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment.ChapterID != cc.ChapterID {
		return nil, gorm.ErrRecordNotFound
	}

	if req.ReviewStatus != "" {
		assessment.ReviewStatus = req.ReviewStatus
	}
	if req.Shortlisted != nil {
		assessment.Shortlisted = *req.Shortlisted
	}
	assessment.ReviewNotes = req.ReviewNotes

	if err := s.assessmentRepo.Update(assessment); err != nil {
		return nil, fmt.Errorf("failed to update review for assessment %d: %w", assessmentID, err)
	}

	var d dto.AssessmentReviewDTO
	if err := copier.Copy(&d, assessment); err != nil {
		return nil, fmt.Errorf("failed to map assessment: %w", err)
	}
	return &d, nil
}

func mapVertical(v *model.Vertical) (*dto.VerticalDTO, error) {
	var d dto.VerticalDTO
	if err := copier.Copy(&d, v); err != nil {
		return nil, fmt.Errorf("failed to map vertical: %w", err)
	}
	return &d, nil
}
