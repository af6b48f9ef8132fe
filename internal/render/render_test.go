package render

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestConvertBasic(t *testing.T) {
	c := NewConverter()
	html, err := c.Convert("# Hello\n\nSome *text*.")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !strings.Contains(html, "<h1>Hello</h1>") {
		t.Errorf("missing h1, got %q", html)
	}
	if !strings.Contains(html, "<em>text</em>") {
		t.Errorf("missing em, got %q", html)
	}
}

func TestConvertGFMTable(t *testing.T) {
	c := NewConverter()
	html, err := c.Convert("| a | b |\n|---|---|\n| 1 | 2 |\n")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !strings.Contains(html, "<table>") {
		t.Errorf("GFM table not rendered, got %q", html)
	}
}

func TestExpandMarks(t *testing.T) {
	tests := []struct {
		name, input, want string
	}{
		{"simple", "this is ==important== text", "this is <mark>important</mark> text"},
		{"none", "no marks here", "no marks here"},
		{"two on one line", "==a== and ==b==", "<mark>a</mark> and <mark>b</mark>"},
		{"unterminated", "just == equals", "just == equals"},
		{
			"fenced code untouched",
			"before\n```\nx ==y== z\n```\nafter ==end==",
			"before\n```\nx ==y== z\n```\nafter <mark>end</mark>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandMarks(tt.input); got != tt.want {
				t.Errorf("ExpandMarks(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestConvertExpandsMarks(t *testing.T) {
	c := NewConverter()
	html, err := c.Convert("some ==highlighted== words")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !strings.Contains(html, "<mark>highlighted</mark>") {
		t.Errorf("mark not expanded, got %q", html)
	}
}

func TestWorkerRoundTrip(t *testing.T) {
	w := NewWorker(NewConverter())
	w.Start()
	defer w.Stop()

	html, err := w.Render(context.Background(), "# Title")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(html, "<h1>Title</h1>") {
		t.Errorf("unexpected html %q", html)
	}
}

func TestWorkerSyncFallback(t *testing.T) {
	w := NewWorker(NewConverter())
	// Never started: Render must still work, synchronously.
	html, err := w.Render(context.Background(), "*hi*")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(html, "<em>hi</em>") {
		t.Errorf("unexpected html %q", html)
	}
}

func TestWorkerIDsIncrease(t *testing.T) {
	w := NewWorker(NewConverter())
	w.Start()
	defer w.Stop()

	for i := 0; i < 5; i++ {
		if _, err := w.Render(context.Background(), "x"); err != nil {
			t.Fatalf("Render %d: %v", i, err)
		}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.nextID != 5 {
		t.Errorf("nextID = %d, want 5", w.nextID)
	}
	if len(w.pending) != 0 {
		t.Errorf("pending = %d, want 0", len(w.pending))
	}
}

func TestWorkerUnmatchedResponseDropped(t *testing.T) {
	w := NewWorker(NewConverter())
	// No waiter registered for id 99: deliver must be a no-op.
	w.deliver(Response{ID: 99, HTML: "<p>stale</p>"})
	if len(w.pending) != 0 {
		t.Errorf("pending = %d after unmatched delivery", len(w.pending))
	}
}

func TestWorkerCancelledCaller(t *testing.T) {
	// Mark the worker started without running its loops, so the request
	// send blocks and cancellation is what unblocks the caller.
	w := NewWorker(NewConverter())
	w.mu.Lock()
	w.started = true
	w.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := w.Render(ctx, "# never"); err == nil {
		t.Error("cancelled render should return an error")
	}
	if len(w.pending) != 0 {
		t.Errorf("pending = %d after cancelled render", len(w.pending))
	}

	// Once the loops run, the worker serves the next caller normally.
	w.mu.Lock()
	w.started = false
	w.mu.Unlock()
	w.Start()
	defer w.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := w.Render(context.Background(), "# next"); err != nil {
			t.Errorf("follow-up render: %v", err)
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("follow-up render hung")
	}
}
