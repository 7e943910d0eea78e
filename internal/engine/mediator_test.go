package engine

import (
	"strings"
	"testing"
)

func TestMediatorRegisterAssignsID(t *testing.T) {
	m := NewMediator()
	fr := &FeedbackRequest{Prompt: "sure?", Responder: func(string) CommandResult { return Ok("done") }}

	id := m.Register(fr)
	if id == "" {
		t.Fatal("empty request id")
	}
	if fr.RequestID != id {
		t.Errorf("request not stamped: %q != %q", fr.RequestID, id)
	}
	if m.PendingCount() != 1 {
		t.Errorf("PendingCount = %d", m.PendingCount())
	}
}

func TestMediatorContinueConsumesID(t *testing.T) {
	m := NewMediator()
	var got string
	fr := &FeedbackRequest{Responder: func(input string) CommandResult {
		got = input
		return Ok("done")
	}}
	id := m.Register(fr)

	res := m.Continue(id, "yes")
	if !res.Success || res.Message != "done" {
		t.Fatalf("Continue = %+v", res)
	}
	if got != "yes" {
		t.Errorf("responder input = %q", got)
	}

	// Second use of the same id is expired.
	res = m.Continue(id, "yes")
	if res.Success {
		t.Error("expected failure on consumed id")
	}
	if res.Message != "Unknown or expired feedback request" {
		t.Errorf("message = %q", res.Message)
	}
}

func TestMediatorUnknownID(t *testing.T) {
	m := NewMediator()
	res := m.Continue("fb_nope", "yes")
	if res.Success || !strings.Contains(res.Message, "expired") {
		t.Errorf("Continue = %+v", res)
	}
}

func TestMediatorCancel(t *testing.T) {
	m := NewMediator()
	id := m.Register(&FeedbackRequest{Responder: func(string) CommandResult { return Ok("") }})

	m.Cancel(id)
	res := m.Continue(id, "yes")
	if res.Success {
		t.Error("expected expired after Cancel")
	}
	if m.PendingCount() != 0 {
		t.Errorf("PendingCount = %d", m.PendingCount())
	}
}

func TestMediatorReprompt(t *testing.T) {
	m := NewMediator()
	var reprompt *FeedbackRequest
	reprompt = &FeedbackRequest{
		Prompt: "again?",
		Responder: func(input string) CommandResult {
			if input != "yes" {
				res := Fail("Unrecognized response")
				res.Feedback = reprompt // same object is permitted; mediator stamps a new id
				return res
			}
			return Ok("done")
		},
	}
	first := m.Register(reprompt)

	res := m.Continue(first, "maybe")
	if res.Success {
		t.Fatal("expected failed result carrying a new prompt")
	}
	if !res.RequiresConfirmation || res.Feedback == nil {
		t.Fatal("expected a re-registered feedback request")
	}
	if res.Feedback.RequestID == first {
		t.Error("re-registered request must get a fresh id")
	}

	res = m.Continue(res.Feedback.RequestID, "yes")
	if !res.Success || res.Message != "done" {
		t.Errorf("final result = %+v", res)
	}
	if m.PendingCount() != 0 {
		t.Errorf("PendingCount = %d", m.PendingCount())
	}
}

func TestMediatorCancelAll(t *testing.T) {
	m := NewMediator()
	a := m.Register(&FeedbackRequest{Responder: func(string) CommandResult { return Ok("") }})
	b := m.Register(&FeedbackRequest{Responder: func(string) CommandResult { return Ok("") }})

	m.CancelAll()
	for _, id := range []string{a, b} {
		if res := m.Continue(id, "x"); res.Success {
			t.Errorf("id %s should be expired", id)
		}
	}
}
