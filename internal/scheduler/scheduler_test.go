package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestAddRejectsBadSpec(t *testing.T) {
	s := New(time.UTC, nil)
	err := s.Add("not a cron spec", "bad", time.Minute, func(context.Context) error { return nil })
	if err == nil {
		t.Fatal("expected error for invalid spec")
	}
}

func TestAddRejectsNilJob(t *testing.T) {
	s := New(time.UTC, nil)
	if err := s.Add("* * * * *", "nil-job", time.Minute, nil); err == nil {
		t.Fatal("expected error for nil job")
	}
}

func TestAddAcceptsStandardSpecs(t *testing.T) {
	s := New(time.UTC, nil)
	job := func(context.Context) error { return nil }

	for _, spec := range []string{"*/15 * * * *", "0 17 * * *", "@hourly"} {
		if err := s.Add(spec, "job", time.Minute, job); err != nil {
			t.Errorf("spec %q rejected: %v", spec, err)
		}
	}
}

func TestStartStopWaitsForRunningJob(t *testing.T) {
	s := New(time.UTC, nil)

	var once sync.Once
	started := make(chan struct{})
	release := make(chan struct{})

	if err := s.Add("@every 100ms", "slow", time.Minute, func(context.Context) error {
		once.Do(func() { close(started) })
		<-release
		return errors.New("deliberate failure")
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	s.Start()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("job never started")
	}

	stopDone := make(chan struct{})
	go func() {
		s.Stop()
		close(stopDone)
	}()

	select {
	case <-stopDone:
		t.Fatal("Stop returned while a job was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)

	select {
	case <-stopDone:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return after job finished")
	}
}
