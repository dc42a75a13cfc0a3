package repository

import (
	"github.com/lamngoc/ascent/internal/model"
	"gorm.io/gorm"
)

type VerticalRepository interface {
	Create(vertical *model.Vertical) error
	FindByID(id uint) (*model.Vertical, error)
	FindAll() ([]model.Vertical, error)
	FindAllActive() ([]model.Vertical, error)
	Update(vertical *model.Vertical) error
	Delete(id uint) error
}

type verticalRepository struct {
	db *gorm.DB
}

func NewVerticalRepository(db *gorm.DB) VerticalRepository {
	return &verticalRepository{db: db}
}

func (r *verticalRepository) Create(vertical *model.Vertical) error {
	return r.db.Create(vertical).Error
}

func (r *verticalRepository) FindByID(id uint) (*model.Vertical, error) {
	var vertical model.Vertical
	if err := r.db.First(&vertical, id).Error; err != nil {
		return nil, err
	}
	return &vertical, nil
}

func (r *verticalRepository) FindAll() ([]model.Vertical, error) {
	var verticals []model.Vertical
	if err := r.db.Order("display_order asc").Find(&verticals).Error; err != nil {
		return nil, err
	}
	return verticals, nil
}

// FindAllActive returns the catalog as shown to candidates, in display order.
func (r *verticalRepository) FindAllActive() ([]model.Vertical, error) {
	var verticals []model.Vertical
	if err := r.db.Where("active = ?", true).Order("display_order asc").Find(&verticals).Error; err != nil {
		return nil, err
	}
	return verticals, nil
}

func (r *verticalRepository) Update(vertical *model.Vertical) error {
	return r.db.Save(vertical).Error
}

func (r *verticalRepository) Delete(id uint) error {
	return r.db.Delete(&model.Vertical{}, id).Error
}
