package repository

import (
	"github.com/lamngoc/ascent/internal/model"
	"gorm.io/gorm"
)

type RateCounterRepository interface {
	Find(key string) (*model.RateCounter, error)
	Save(counter *model.RateCounter) error
}

type rateCounterRepository struct {
	db *gorm.DB
}

func NewRateCounterRepository(db *gorm.DB) RateCounterRepository {
	return &rateCounterRepository{db: db}
}

func (r *rateCounterRepository) Find(key string) (*model.RateCounter, error) {
	var counter model.RateCounter
	if err := r.db.Where("key = ?", key).First(&counter).Error; err != nil {
		return nil, err
	}
	return &counter, nil
}

func (r *rateCounterRepository) Save(counter *model.RateCounter) error {
	return r.db.Save(counter).Error
}
