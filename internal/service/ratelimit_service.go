package service

import (
	"errors"
	"time"

	"github.com/lamngoc/ascent/config"
	"github.com/lamngoc/ascent/internal/model"
	"github.com/lamngoc/ascent/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RateLimitDecision is the limiter verdict for one call.
type RateLimitDecision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RateLimitService enforces a fixed window per caller key. The check is
// read-then-write against a shared counter row; the limiter fails open on
// storage errors so an infrastructure fault never blocks candidates.
type RateLimitService interface {
	Check(key string) RateLimitDecision
}

type rateLimitService struct {
	repo   repository.RateCounterRepository
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRateLimitService(repo repository.RateCounterRepository, cfg *config.Config) RateLimitService {
	return &rateLimitService{
		repo:   repo,
		limit:  cfg.RateLimit.Limit,
		window: time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
		now:    time.Now,
	}
}

func (s *rateLimitService) Check(key string) RateLimitDecision {
	now := s.now()

	counter, err := s.repo.Find(key)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Err(err).Str("key", key).Msg("Rate limiter read failed, failing open")
			return RateLimitDecision{Allowed: true, Remaining: s.limit - 1, ResetAt: now.Add(s.window)}
		}
		counter = &model.RateCounter{Key: key, Count: 0, ResetAt: now.Add(s.window)}
	}

	if now.After(counter.ResetAt) {
		counter.Count = 0
		counter.ResetAt = now.Add(s.window)
	}

	if counter.Count >= s.limit {
		return RateLimitDecision{Allowed: false, Remaining: 0, ResetAt: counter.ResetAt}
	}

	counter.Count++
	if err := s.repo.Save(counter); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Rate limiter write failed, failing open")
		return RateLimitDecision{Allowed: true, Remaining: s.limit - counter.Count, ResetAt: counter.ResetAt}
	}

	return RateLimitDecision{
		Allowed:   true,
		Remaining: s.limit - counter.Count,
		ResetAt:   counter.ResetAt,
	}
}
