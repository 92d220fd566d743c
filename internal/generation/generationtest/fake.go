// Package generationtest provides a scripted Generator for tests.
package generationtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonathan/resume-synth/internal/generation"
)

// Fake returns canned JSON per schema name. Responses still pass through
// generation.Decode, so schema violations behave as in production.
type Fake struct {
	// Responses maps schema name to raw JSON output
	Responses map[string]string
	// Errors maps schema name to a failure returned instead of a response
	Errors map[string]error
	// Hook, if set, runs before each call and may return an error or block on ctx
	Hook func(ctx context.Context, req generation.Request) error

	mu    sync.Mutex
	calls []generation.Request
}

// Generate implements generation.Generator
func (f *Fake) Generate(ctx context.Context, req generation.Request, out any) error {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if f.Hook != nil {
		if err := f.Hook(ctx, req); err != nil {
			return err
		}
	}
	if err, ok := f.Errors[req.Schema]; ok {
		return err
	}
	text, ok := f.Responses[req.Schema]
	if !ok {
		return fmt.Errorf("generationtest: no response scripted for %s", req.Schema)
	}
	return generation.Decode(req.Schema, text, out)
}

// Calls returns the requests received so far
func (f *Fake) Calls() []generation.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]generation.Request(nil), f.calls...)
}

// CallCount returns how many requests named schema were received
func (f *Fake) CallCount(schema string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Schema == schema {
			n++
		}
	}
	return n
}
