package autosync

import (
	"testing"
	"time"
)

func TestSchedulerFiresOnSchedule(t *testing.T) {
	s, err := New("* * * * * *", nil) // every second
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Start()
	defer s.Stop()

	select {
	case req := <-s.Requests():
		req.Result <- nil
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a scheduled request")
	}
}

func TestSchedulerSkipsTickWhileRequestPending(t *testing.T) {
	s, err := New("* * * * * *", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Start()
	defer s.Stop()

	var first Request
	select {
	case first = <-s.Requests():
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the first request")
	}

	// Leave Requests undrained across two more ticks: the first of them
	// queues a request, the second finds it still pending and must be
	// skipped rather than block the cron goroutine.
	time.Sleep(2200 * time.Millisecond)
	first.Result <- nil

	select {
	case req := <-s.Requests():
		req.Result <- nil
	default:
		t.Fatal("expected one request to be pending")
	}

	// A tick that blocked instead of skipping would deliver its request as
	// soon as the pending one was drained.
	select {
	case <-s.Requests():
		t.Fatal("expected the tick that found a request pending to be skipped, not queued")
	case <-time.After(100 * time.Millisecond):
	}
}
