package service

import (
	"errors"
	"testing"
	"time"

	"github.com/lamngoc/ascent/internal/model"
	"github.com/lamngoc/ascent/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*rateLimitService, *time.Time) {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &rateLimitService{
		repo:   repository.NewRateCounterRepository(newTestDB(t)),
		limit:  limit,
		window: window,
		now:    func() time.Time { return now },
	}
	return svc, &now
}

func TestRateLimitRejectsEleventhCall(t *testing.T) {
	svc, _ := newTestLimiter(t, 10, 60*time.Second)

	for i := 0; i < 10; i++ {
		decision := svc.Check("analyze:token-a")
		require.True(t, decision.Allowed, "call %d should be allowed", i+1)
		assert.Equal(t, 10-i-1, decision.Remaining)
	}

	decision := svc.Check("analyze:token-a")
	assert.False(t, decision.Allowed)
	assert.Zero(t, decision.Remaining)
}

func TestRateLimitWindowReset(t *testing.T) {
	svc, now := newTestLimiter(t, 10, 60*time.Second)

	for i := 0; i < 10; i++ {
		svc.Check("analyze:token-b")
	}
	require.False(t, svc.Check("analyze:token-b").Allowed)

	// 61 seconds after the first call the window has expired and the
	// counter resets.
	*now = now.Add(61 * time.Second)
	decision := svc.Check("analyze:token-b")
	assert.True(t, decision.Allowed)
	assert.Equal(t, 9, decision.Remaining)
}

func TestRateLimitKeysAreIndependent(t *testing.T) {
	svc, _ := newTestLimiter(t, 2, time.Minute)

	svc.Check("draft:one")
	svc.Check("draft:one")
	require.False(t, svc.Check("draft:one").Allowed)

	assert.True(t, svc.Check("draft:two").Allowed)
}

type failingCounterRepo struct{}

func (failingCounterRepo) Find(string) (*model.RateCounter, error) {
	return nil, errors.New("storage down")
}
func (failingCounterRepo) Save(*model.RateCounter) error {
	return errors.New("storage down")
}

func TestRateLimitFailsOpenOnStorageError(t *testing.T) {
	svc := &rateLimitService{
		repo:   failingCounterRepo{},
		limit:  10,
		window: time.Minute,
		now:    time.Now,
	}

	decision := svc.Check("analyze:token-c")
	assert.True(t, decision.Allowed, "an infrastructure fault must not block candidates")
}
