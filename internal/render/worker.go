package render

import (
	"context"
	"fmt"
	"sync"
)

// Request is one unit of work sent to the worker goroutine.
type Request struct {
	ID       int64  `json:"id"`
	Markdown string `json:"markdown"`
}

// Response is the worker's answer, correlated by id. Err is set when
// the conversion itself failed; the protocol has no other error channel.
type Response struct {
	ID   int64  `json:"id"`
	HTML string `json:"html"`
	Err  string `json:"err,omitempty"`
}

// Worker renders markdown off the caller's goroutine. Requests and
// responses are matched through a correlation table: each id maps to
// exactly one pending waiter, removed the instant a matching response
// arrives. Ids are strictly increasing for the process lifetime and
// never reused. When the worker has not been started, Render falls back
// to converting synchronously in the calling goroutine.
type Worker struct {
	conv *Converter

	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan Response
	started bool

	requests  chan Request
	responses chan Response
	done      chan struct{}
}

// NewWorker creates a Worker around the given converter.
func NewWorker(conv *Converter) *Worker {
	return &Worker{
		conv:      conv,
		pending:   make(map[int64]chan Response),
		requests:  make(chan Request),
		responses: make(chan Response),
		done:      make(chan struct{}),
	}
}

// Start launches the background convert and dispatch loops. Calling
// Start twice is a no-op.
func (w *Worker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	go w.convertLoop()
	go w.dispatchLoop()
}

// Stop shuts the worker down. In-flight waiters receive a worker-
// stopped error; later Render calls use the synchronous fallback.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	w.mu.Unlock()
	close(w.done)
}

// convertLoop is the "background execution context": it reads requests,
// converts, and posts responses back.
func (w *Worker) convertLoop() {
	for {
		select {
		case <-w.done:
			return
		case req := <-w.requests:
			html, err := w.conv.Convert(req.Markdown)
			resp := Response{ID: req.ID, HTML: html}
			if err != nil {
				resp.Err = err.Error()
			}
			select {
			case w.responses <- resp:
			case <-w.done:
				return
			}
		}
	}
}

// dispatchLoop routes responses to their registered waiters. A response
// whose id has no pending waiter is dropped.
func (w *Worker) dispatchLoop() {
	for {
		select {
		case <-w.done:
			w.failPending()
			return
		case resp := <-w.responses:
			w.deliver(resp)
		}
	}
}

func (w *Worker) deliver(resp Response) {
	w.mu.Lock()
	ch, ok := w.pending[resp.ID]
	if ok {
		delete(w.pending, resp.ID)
	}
	w.mu.Unlock()
	if ok {
		ch <- resp
	}
}

func (w *Worker) failPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, ch := range w.pending {
		delete(w.pending, id)
		ch <- Response{ID: id, Err: "render: worker stopped"}
	}
}

// Render converts markdown to HTML, waiting for the worker round trip
// or ctx, whichever finishes first. A superseded caller simply stops
// waiting; the conversion runs to completion in the background and its
// response is dropped by the correlation table.
func (w *Worker) Render(ctx context.Context, src string) (string, error) {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return w.conv.Convert(src)
	}
	w.nextID++
	id := w.nextID
	ch := make(chan Response, 1)
	w.pending[id] = ch
	w.mu.Unlock()

	select {
	case w.requests <- Request{ID: id, Markdown: src}:
	case <-ctx.Done():
		w.forget(id)
		return "", ctx.Err()
	case <-w.done:
		w.forget(id)
		return w.conv.Convert(src)
	}

	select {
	case resp := <-ch:
		if resp.Err != "" {
			return "", fmt.Errorf("render: %s", resp.Err)
		}
		return resp.HTML, nil
	case <-ctx.Done():
		w.forget(id)
		return "", ctx.Err()
	}
}

func (w *Worker) forget(id int64) {
	w.mu.Lock()
	delete(w.pending, id)
	w.mu.Unlock()
}
