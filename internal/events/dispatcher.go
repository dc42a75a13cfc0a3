// Package events provides the outbound job queue for side-effect work
// (analytics writes, post-submission scoring). Jobs run off the request
// path: enqueueing never blocks, and a full queue drops the job rather
// than stalling the caller.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Job is one unit of outbound work. Retries is the number of additional
// attempts after the first failure; analytics jobs use 0, scoring uses a
// small budget. OnFail, when set, runs once after the last attempt fails.
type Job struct {
	Name    string
	Retries int
	Run     func(ctx context.Context) error
	OnFail  func(err error)
}

type Dispatcher struct {
	queue   chan Job
	done    chan struct{}
	timeout time.Duration

	mu     sync.Mutex
	closed bool
}

const defaultQueueSize = 256

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		queue:   make(chan Job, defaultQueueSize),
		done:    make(chan struct{}),
		timeout: 60 * time.Second,
	}
}

// Enqueue hands a job to the worker. Returns false if the queue is full or
// already stopped and the job was dropped; callers treat a drop the same as
// a failed best-effort write.
func (d *Dispatcher) Enqueue(job Job) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		log.Warn().Str("job", job.Name).Msg("Outbound queue stopped, dropping job")
		return false
	}
	select {
	case d.queue <- job:
		return true
	default:
		log.Warn().Str("job", job.Name).Msg("Outbound queue full, dropping job")
		return false
	}
}

// Start launches the worker goroutine.
func (d *Dispatcher) Start() {
	go d.loop()
}

func (d *Dispatcher) loop() {
	defer close(d.done)
	for job := range d.queue {
		d.run(job)
	}
}

func (d *Dispatcher) run(job Job) {
	for attempt := 0; attempt <= job.Retries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := job.Run(ctx)
		cancel()
		if err == nil {
			return
		}
		if attempt < job.Retries {
			log.Warn().Err(err).Str("job", job.Name).Int("attempt", attempt+1).Msg("Outbound job failed, retrying")
			time.Sleep(time.Second << attempt)
			continue
		}
		log.Error().Err(err).Str("job", job.Name).Msg("Outbound job failed permanently")
		if job.OnFail != nil {
			job.OnFail(err)
		}
	}
}

// Stop closes the queue and waits for in-flight jobs until ctx expires.
// Further Enqueue calls drop their jobs instead of panicking.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
