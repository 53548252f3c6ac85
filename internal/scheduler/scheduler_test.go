package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestSubmitRunsInOrder(t *testing.T) {
	s := New(4)
	s.Run()

	var order []int
	done := make(chan struct{})
	for i := 1; i <= 3; i++ {
		i := i
		if err := s.Submit(Task{Name: "t", Execute: func() error {
			order = append(order, i)
			if i == 3 {
				close(done)
			}
			return nil
		}}); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}
	<-done
	s.Stop()

	if len(order) != 3 || order[0] != 1 || order[2] != 3 {
		t.Fatalf("unexpected order %v", order)
	}
}

func TestStopDrainsQueue(t *testing.T) {
	s := New(10)
	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		_ = s.Submit(Task{Name: "drain", Execute: func() error {
			ran.Add(1)
			return errors.New("ignored")
		}})
	}
	s.Run()
	s.Stop()

	if ran.Load() != 5 {
		t.Fatalf("expected 5 tasks to run, got %d", ran.Load())
	}
}

func TestSubmitAfterStop(t *testing.T) {
	s := New(1)
	s.Run()
	s.Stop()
	s.Stop()

	if err := s.Submit(Task{Name: "late", Execute: func() error { return nil }}); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestEvery(t *testing.T) {
	s := New(1)
	s.Run()

	ticks := make(chan struct{}, 10)
	s.Every(5*time.Millisecond, Task{Name: "sweep", Execute: func() error {
		select {
		case ticks <- struct{}{}:
		default:
		}
		return nil
	}})

	for i := 0; i < 2; i++ {
		select {
		case <-ticks:
		case <-time.After(2 * time.Second):
			t.Fatal("periodic task did not run")
		}
	}
	s.Stop()
}
