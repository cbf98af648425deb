package model

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/grounder-ai/grounder/internal/log"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubBackend returns a canned response or error, optionally honoring
// context cancellation after a delay.
type stubBackend struct {
	response string
	err      error
	delay    time.Duration
}

func (s *stubBackend) Generate(ctx context.Context, _ string) (string, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.response, s.err
}

func TestCompleteSuccess(t *testing.T) {
	inv := NewInvoker(&stubBackend{response: "Paris"}, time.Second, log.NewNop())
	if got := inv.Complete(context.Background(), "q"); got != "Paris" {
		t.Errorf("Complete = %q", got)
	}
}

func TestCompleteDegradesOnError(t *testing.T) {
	inv := NewInvoker(&stubBackend{err: errors.New("connection refused")}, time.Second, log.NewNop())

	got := inv.Complete(context.Background(), "q")
	if !strings.HasPrefix(got, ErrorPrefix) {
		t.Errorf("degraded string must carry prefix: %q", got)
	}
	if !strings.Contains(got, "connection refused") {
		t.Errorf("degraded string must carry cause: %q", got)
	}
}

func TestCompleteTimesOut(t *testing.T) {
	inv := NewInvoker(&stubBackend{response: "late", delay: time.Second}, 10*time.Millisecond, log.NewNop())

	got := inv.Complete(context.Background(), "q")
	if !strings.HasPrefix(got, ErrorPrefix) {
		t.Errorf("timeout must degrade to error string: %q", got)
	}
}

func TestCompleteAsync(t *testing.T) {
	inv := NewInvoker(&stubBackend{response: "async answer"}, time.Second, log.NewNop())

	ch := inv.CompleteAsync(context.Background(), "q")
	got, ok := <-ch
	if !ok || got != "async answer" {
		t.Errorf("CompleteAsync delivered %q, %v", got, ok)
	}
	if _, open := <-ch; open {
		t.Error("channel must close after one value")
	}
}

func TestCompleteAsyncDegrades(t *testing.T) {
	inv := NewInvoker(&stubBackend{err: errors.New("backend down")}, time.Second, log.NewNop())

	got := <-inv.CompleteAsync(context.Background(), "q")
	if !strings.HasPrefix(got, ErrorPrefix) {
		t.Errorf("async error must degrade: %q", got)
	}
}

func TestCompleteCustom(t *testing.T) {
	inv := NewInvoker(&stubBackend{response: "review output"}, time.Second, log.NewNop())
	if got := inv.CompleteCustom(context.Background(), "custom prompt"); got != "review output" {
		t.Errorf("CompleteCustom = %q", got)
	}
}
