package engine

import (
	"sync"

	"github.com/google/uuid"
)

// Mediator owns in-flight feedback requests. It issues request ids, stores
// pending responders, routes continuations and garbage-collects consumed
// entries. An id is single-use: it is removed on consumption regardless of
// whether the responder produces a further pending feedback.
type Mediator struct {
	mu      sync.Mutex
	pending map[string]*FeedbackRequest
}

func NewMediator() *Mediator {
	return &Mediator{pending: make(map[string]*FeedbackRequest)}
}

// Register stores the request's responder under a fresh opaque id, stamps the
// request with it and returns it. A responder that re-prompts may hand back
// the same request object; it is stamped with a new id every time.
func (m *Mediator) Register(fr *FeedbackRequest) string {
	id := "fb_" + uuid.New().String()
	fr.RequestID = id

	m.mu.Lock()
	m.pending[id] = fr
	m.mu.Unlock()
	return id
}

// Continue consumes the id and invokes the stored responder with input. If
// the responder's result carries a new feedback request, it is registered
// under a fresh id before the result is returned.
func (m *Mediator) Continue(requestID, input string) CommandResult {
	m.mu.Lock()
	fr, ok := m.pending[requestID]
	if ok {
		delete(m.pending, requestID)
	}
	m.mu.Unlock()

	if !ok {
		return Fail("Unknown or expired feedback request")
	}
	res := fr.Responder(input)
	if res.Feedback != nil {
		m.Register(res.Feedback)
		res.RequiresConfirmation = true
	} else {
		res.RequiresConfirmation = false
	}
	return res
}

// Cancel silently removes a pending request. Continuing a cancelled id
// reports it as expired.
func (m *Mediator) Cancel(requestID string) {
	m.mu.Lock()
	delete(m.pending, requestID)
	m.mu.Unlock()
}

// CancelAll drops every pending request; used on engine shutdown.
func (m *Mediator) CancelAll() {
	m.mu.Lock()
	m.pending = make(map[string]*FeedbackRequest)
	m.mu.Unlock()
}

// PendingCount reports how many requests are awaiting a response.
func (m *Mediator) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
