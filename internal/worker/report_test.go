package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xrpstat/gwstat/internal/report"
)

type recordingGenerator struct {
	mu       sync.Mutex
	calls    []string
	failFor  string
	done     chan struct{}
	expected int
}

func (g *recordingGenerator) Generate(_ context.Context, gateway string, _ []string) (report.Response, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gateway)
	if len(g.calls) == g.expected {
		close(g.done)
	}
	if gateway == g.failFor {
		return report.Response{}, errors.New("boom")
	}
	return report.Response{Account: gateway, LedgerIndex: 1}, nil
}

type recordingHook struct {
	mu       sync.Mutex
	exported []string
}

func (h *recordingHook) Export(_ context.Context, gateway string, _ report.Response) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.exported = append(h.exported, gateway)
	return nil
}

func TestReportWorkerGeneratesImmediatelyAndSkipsFailures(t *testing.T) {
	gen := &recordingGenerator{failFor: "rBad", done: make(chan struct{}), expected: 3}
	hook := &recordingHook{}
	w := NewReportWorker(gen, []string{"rOne", "rBad", "rTwo"}, nil, time.Hour, hook)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)

	select {
	case <-gen.done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not generate on startup")
	}
	cancel()

	gen.mu.Lock()
	calls := append([]string(nil), gen.calls...)
	gen.mu.Unlock()
	if len(calls) != 3 {
		t.Fatalf("calls = %v, want all three gateways", calls)
	}

	// The failing gateway is skipped but does not stop the others, and the
	// hook only runs for successes.
	deadline := time.Now().Add(5 * time.Second)
	for {
		hook.mu.Lock()
		n := len(hook.exported)
		hook.mu.Unlock()
		if n == 2 || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Millisecond)
	}

	hook.mu.Lock()
	defer hook.mu.Unlock()
	if len(hook.exported) != 2 {
		t.Errorf("exported = %v, want the two successful gateways", hook.exported)
	}
	for _, g := range hook.exported {
		if g == "rBad" {
			t.Error("hook ran for a failed generation")
		}
	}
}
