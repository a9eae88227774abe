package pipeline

import (
	"errors"
	"testing"
)

func TestBeginGuards(t *testing.T) {
	s := NewStore()

	if !s.begin("r1") {
		t.Fatal("first begin refused")
	}
	if s.begin("r1") {
		t.Fatal("begin allowed while running")
	}

	s.setDone("r1", "hello")
	if s.begin("r1") {
		t.Fatal("begin allowed after a run produced text")
	}
}

func TestBeginAllowsRetryAfterErrorAndEmpty(t *testing.T) {
	s := NewStore()

	s.begin("r1")
	s.setError("r1", errors.New("boom"))
	if !s.begin("r1") {
		t.Fatal("begin refused after error")
	}

	s.setDone("r1", "")
	if !s.begin("r1") {
		t.Fatal("begin refused after empty transcript")
	}
}

func TestResetClearsOutcome(t *testing.T) {
	s := NewStore()

	s.begin("r1")
	s.setDone("r1", "hello")
	s.Reset("r1")

	if got := s.Get("r1"); got.Status != StatusIdle {
		t.Fatalf("after reset: %+v", got)
	}
	if !s.begin("r1") {
		t.Fatal("begin refused after reset")
	}
}

func TestResetIgnoredWhileRunning(t *testing.T) {
	s := NewStore()

	s.begin("r1")
	s.Reset("r1")

	if got := s.Get("r1"); got.Status != StatusRunning {
		t.Fatalf("reset clobbered a running state: %+v", got)
	}
}

func TestGetUnknownIsIdle(t *testing.T) {
	s := NewStore()
	if got := s.Get("nope"); got.Status != StatusIdle {
		t.Fatalf("got %+v", got)
	}
}
