package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/linkmemo/internal/logger"
)

// Reloadable is the part of memo.Store the reloader drives.
type Reloadable interface {
	Load(ctx context.Context) error
	Len() int
}

// FileReloader keeps the in-memory memo list in sync with the file on disk.
// It reloads on a fixed interval, on manual trigger and on watcher signals.
type FileReloader struct {
	store         Reloadable
	logger        logger.Logger
	interval      time.Duration
	changes       <-chan struct{}
	manualTrigger chan struct{}
	stopCh        chan struct{}
}

// NewFileReloader creates a reloader. A zero interval disables the periodic
// reload and a nil changes channel disables watcher-driven reloads.
func NewFileReloader(
	store Reloadable,
	log logger.Logger,
	interval time.Duration,
	changes <-chan struct{},
	manualTrigger chan struct{},
) *FileReloader {
	return &FileReloader{
		store:         store,
		logger:        log,
		interval:      interval,
		changes:       changes,
		manualTrigger: manualTrigger,
		stopCh:        make(chan struct{}),
	}
}

// Start loads the file once, then reloads in the background until Stop or ctx is done.
func (fr *FileReloader) Start(ctx context.Context) error {
	if err := fr.Reload(ctx, "startup"); err != nil {
		return fmt.Errorf("initial memo load failed: %w", err)
	}

	var tick <-chan time.Time
	var ticker *time.Ticker
	if fr.interval > 0 {
		ticker = time.NewTicker(fr.interval)
		tick = ticker.C
	}

	go func() {
		if ticker != nil {
			defer ticker.Stop()
		}
		for {
			select {
			case <-tick:
				fr.reloadLogged(ctx, "interval")
			case <-fr.changes:
				fr.reloadLogged(ctx, "file changed")
			case <-fr.manualTrigger:
				fr.logger.Info("manual memo reload triggered")
				fr.reloadLogged(ctx, "manual")
			case <-fr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (fr *FileReloader) Stop() {
	close(fr.stopCh)
}

// Reload reads the memo file and replaces the in-memory list.
func (fr *FileReloader) Reload(ctx context.Context, reason string) error {
	start := time.Now()
	if err := fr.store.Load(ctx); err != nil {
		return err
	}
	fr.logger.Info("memo file loaded",
		logger.String("reason", reason),
		logger.Int("entries", fr.store.Len()),
		logger.Duration("took", time.Since(start)))
	return nil
}

func (fr *FileReloader) reloadLogged(ctx context.Context, reason string) {
	if err := fr.Reload(ctx, reason); err != nil {
		fr.logger.Error("failed to reload memo file",
			logger.String("reason", reason),
			logger.Error(err))
	}
}
