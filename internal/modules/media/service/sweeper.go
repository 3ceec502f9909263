package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/okhotnikdev/mediagate/internal/shared/config"
)

// Sweeper periodically removes aged files from the media directory. It is
// the backstop against leaks from process crashes mid-resolution; normal
// lifecycles delete their own files.
type Sweeper struct {
	dir       string
	retention time.Duration
	interval  time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewSweeper creates a media directory sweeper
func NewSweeper(cfg *config.Config) *Sweeper {
	ctx, cancel := context.WithCancel(context.Background())
	return &Sweeper{
		dir:       cfg.MediaDir,
		retention: time.Duration(cfg.RetentionHours) * time.Hour,
		interval:  time.Duration(cfg.SweepIntervalMinutes) * time.Minute,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins periodic sweeping, with an immediate first pass
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.sweepLoop()
}

// Stop stops the sweeper
func (s *Sweeper) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Sweeper) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Initial sweep
	s.Sweep(time.Now())

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(time.Now())
		}
	}
}

// Sweep removes every file in the media directory older than the retention
// window and reports how many were removed
func (s *Sweeper) Sweep(now time.Time) int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		slog.Error("Failed to read media directory", "dir", s.dir, "error", err)
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		age := now.Sub(info.ModTime())
		if age < s.retention {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			slog.Warn("Failed to sweep aged media file", "path", path, "error", err)
			continue
		}

		slog.Debug("Swept aged media file", "path", path, "age", age.String())
		removed++
	}

	if removed > 0 {
		slog.Info("Media sweep completed", "dir", s.dir, "removed", removed)
	}

	return removed
}
