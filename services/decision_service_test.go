package services

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDecisionVisibleAt(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	if !DecisionVisibleAt(nil, now) {
		t.Fatal("missing release time must be treated as already released")
	}
	if !DecisionVisibleAt(&past, now) {
		t.Fatal("elapsed release time must be visible")
	}
	if !DecisionVisibleAt(&now, now) {
		t.Fatal("release time equal to now must be visible")
	}
	if DecisionVisibleAt(&future, now) {
		t.Fatal("future release time must stay hidden")
	}
}

func TestParseReleaseTime(t *testing.T) {
	if _, ok := ParseReleaseTime(""); ok {
		t.Fatal("blank timestamp must parse as unset")
	}
	if _, ok := ParseReleaseTime("not-a-time"); ok {
		t.Fatal("garbage timestamp must parse as unset")
	}
	at, ok := ParseReleaseTime("2026-01-02T15:04:05Z")
	if !ok || at.Year() != 2026 {
		t.Fatalf("expected parsed time, got %v ok=%v", at, ok)
	}
}

func TestSchedulePastFiresSynchronouslyExactlyOnce(t *testing.T) {
	svc := &DecisionService{now: time.Now}
	var fired int32

	task := svc.Schedule(time.Now().Add(-time.Second), func() { atomic.AddInt32(&fired, 1) })
	if atomic.LoadInt32(&fired) != 1 {
		t.Fatalf("expected synchronous fire, got %d", fired)
	}

	// Cancel after firing is a no-op; the callback never fires again.
	task.Cancel()
	task.Cancel()
	if atomic.LoadInt32(&fired) != 1 {
		t.Fatalf("expected exactly one fire, got %d", fired)
	}
}

func TestScheduleFutureFiresAfterDelay(t *testing.T) {
	svc := &DecisionService{now: time.Now}
	fired := make(chan struct{})

	svc.Schedule(time.Now().Add(30*time.Millisecond), func() { close(fired) })

	select {
	case <-fired:
		t.Fatal("callback fired before the delay elapsed")
	case <-time.After(5 * time.Millisecond):
	}

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}
}

func TestCancelBeforeFirePreventsCallback(t *testing.T) {
	svc := &DecisionService{now: time.Now}
	var fired int32

	task := svc.Schedule(time.Now().Add(30*time.Millisecond), func() { atomic.AddInt32(&fired, 1) })
	task.Cancel()
	task.Cancel() // idempotent

	time.Sleep(100 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 0 {
		t.Fatalf("cancelled task must never fire, got %d", fired)
	}
}
