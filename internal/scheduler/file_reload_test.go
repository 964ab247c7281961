package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrSnakeDoc/linkmemo/internal/logger"
)

type countingStore struct {
	loads atomic.Int32
	fail  atomic.Bool
}

func (s *countingStore) Load(context.Context) error {
	s.loads.Add(1)
	if s.fail.Load() {
		return errors.New("read failed")
	}
	return nil
}

func (s *countingStore) Len() int { return 0 }

func waitForLoads(t *testing.T, s *countingStore, want int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.loads.Load() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("loads = %d, want at least %d", s.loads.Load(), want)
}

func TestFileReloader_StartLoadsImmediately(t *testing.T) {
	store := &countingStore{}
	fr := NewFileReloader(store, logger.New("error", false), 0, nil, make(chan struct{}))

	if err := fr.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer fr.Stop()

	if got := store.loads.Load(); got != 1 {
		t.Errorf("loads after start = %d, want 1", got)
	}
}

func TestFileReloader_StartFailsWhenInitialLoadFails(t *testing.T) {
	store := &countingStore{}
	store.fail.Store(true)
	fr := NewFileReloader(store, logger.Nop(), 0, nil, make(chan struct{}))

	if err := fr.Start(context.Background()); err == nil {
		t.Fatal("Start should fail when the first load fails")
	}
}

func TestFileReloader_Triggers(t *testing.T) {
	store := &countingStore{}
	changes := make(chan struct{}, 1)
	manual := make(chan struct{}, 1)
	fr := NewFileReloader(store, logger.Nop(), 0, changes, manual)

	if err := fr.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer fr.Stop()

	changes <- struct{}{}
	waitForLoads(t, store, 2)

	manual <- struct{}{}
	waitForLoads(t, store, 3)
}

func TestFileReloader_IntervalKeepsRunningAfterFailure(t *testing.T) {
	store := &countingStore{}
	fr := NewFileReloader(store, logger.Nop(), 10*time.Millisecond, nil, make(chan struct{}))

	if err := fr.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer fr.Stop()

	store.fail.Store(true)
	waitForLoads(t, store, 4)
}

func TestFileReloader_StopsOnContextCancel(t *testing.T) {
	store := &countingStore{}
	manual := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	fr := NewFileReloader(store, logger.Nop(), 0, nil, manual)

	if err := fr.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	cancel()

	select {
	case manual <- struct{}{}:
		// The goroutine may still have been selecting when the send landed.
	case <-time.After(100 * time.Millisecond):
	}
	time.Sleep(20 * time.Millisecond)
	if got := store.loads.Load(); got > 2 {
		t.Errorf("loads after cancel = %d, want at most 2", got)
	}
}
