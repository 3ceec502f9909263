package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okhotnikdev/mediagate/internal/shared/config"
)

func TestSweepRemovesOnlyAgedFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	oldFile := filepath.Join(dir, "t3_old.mp4")
	if err := os.WriteFile(oldFile, []byte("old"), 0o644); err != nil {
		t.Fatalf("failed to write old file: %v", err)
	}
	if err := os.Chtimes(oldFile, now.Add(-48*time.Hour), now.Add(-48*time.Hour)); err != nil {
		t.Fatalf("failed to age old file: %v", err)
	}

	freshFile := filepath.Join(dir, "t3_fresh.jpg")
	if err := os.WriteFile(freshFile, []byte("fresh"), 0o644); err != nil {
		t.Fatalf("failed to write fresh file: %v", err)
	}

	sweeper := NewSweeper(&config.Config{
		MediaDir:             dir,
		RetentionHours:       24,
		SweepIntervalMinutes: 30,
	})

	removed := sweeper.Sweep(now)
	if removed != 1 {
		t.Errorf("Sweep() removed %d files, want 1", removed)
	}

	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Error("aged file still present after sweep")
	}
	if _, err := os.Stat(freshFile); err != nil {
		t.Errorf("fresh file missing after sweep: %v", err)
	}
}

func TestSweepToleratesMissingDirectory(t *testing.T) {
	sweeper := NewSweeper(&config.Config{
		MediaDir:             filepath.Join(t.TempDir(), "never-created"),
		RetentionHours:       24,
		SweepIntervalMinutes: 30,
	})

	if removed := sweeper.Sweep(time.Now()); removed != 0 {
		t.Errorf("Sweep() removed %d files from a missing directory, want 0", removed)
	}
}
