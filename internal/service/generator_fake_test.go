package service

import (
	"context"
	"fmt"
	"sync"
)

// fakeGenerator scripts gateway responses for tests. Responses are returned
// in order; once exhausted the last one repeats. A non-nil err fails every
// call.
type fakeGenerator struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
	requests  []GenerationRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req GenerationRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", fmt.Errorf("fake generator has no scripted response")
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
