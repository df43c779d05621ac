package backend

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNotifyRunsCallbacksOnceInOrder(t *testing.T) {
	r := NewSubscriberRegistry(nil)
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		r.Add(func() error {
			order = append(order, i)
			return nil
		})
	}
	if err := r.Notify(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Fatalf("expected [0 1 2], got %v", order)
	}
}

func TestNotifyIsolatesErrorsAndPanics(t *testing.T) {
	r := NewSubscriberRegistry(nil)
	var ran []string
	r.Add(func() error {
		ran = append(ran, "first")
		return errors.New("boom")
	})
	r.Add(func() error {
		ran = append(ran, "second")
		panic("kaboom")
	})
	r.Add(func() error {
		ran = append(ran, "third")
		return nil
	})

	err := r.Notify()
	if len(ran) != 3 {
		t.Fatalf("expected every callback to run, got %v", ran)
	}
	var serr *SubscriberError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SubscriberError, got %v", err)
	}
	if serr.Index != 0 {
		t.Fatalf("expected first failing index 0, got %d", serr.Index)
	}
	if got := err.Error(); got == "" {
		t.Fatalf("expected joined error text")
	}
}

func TestAddIgnoresNil(t *testing.T) {
	r := NewSubscriberRegistry(nil)
	r.Add(nil)
	if r.Len() != 0 {
		t.Fatalf("expected nil callback ignored, got %d", r.Len())
	}
}

func TestAddDuringNotifyIsSafe(t *testing.T) {
	r := NewSubscriberRegistry(nil)
	block := make(chan struct{})
	entered := make(chan struct{})
	r.Add(func() error {
		close(entered)
		<-block
		return nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = r.Notify()
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("notify never started")
	}
	r.Add(func() error { return nil })
	if r.Len() != 2 {
		t.Fatalf("expected append while iterating, got %d", r.Len())
	}
	close(block)
	wg.Wait()
}
