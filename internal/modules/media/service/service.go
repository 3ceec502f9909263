package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	itemDomain "github.com/okhotnikdev/mediagate/internal/modules/item/domain"
	"github.com/okhotnikdev/mediagate/internal/modules/media/domain"
	"github.com/okhotnikdev/mediagate/internal/shared/config"
	"github.com/samber/oops"
)

// Resolver turns one item descriptor into a local media file, trying an
// ordered list of acquisition strategies per media kind and stopping at the
// first success.
type Resolver struct {
	cfg      *config.Config
	fetcher  *Fetcher
	runner   CommandRunner
	mediaDir string
}

// Resolved is the successful outcome of a resolution attempt. The file at
// FilePath is the caller's to clean up once it is no longer needed.
type Resolved struct {
	FilePath string
	Kind     itemDomain.MediaKind
}

// NewResolver creates a media resolver writing into the configured media
// directory
func NewResolver(cfg *config.Config, fetcher *Fetcher, runner CommandRunner) (*Resolver, error) {
	if err := os.MkdirAll(cfg.MediaDir, 0o755); err != nil {
		return nil, oops.With("media_dir", cfg.MediaDir, "context", "failed to create media directory").Wrap(err)
	}

	return &Resolver{
		cfg:      cfg,
		fetcher:  fetcher,
		runner:   runner,
		mediaDir: cfg.MediaDir,
	}, nil
}

// Resolve classifies the descriptor and produces a local file for it, or a
// definitive failure. Failures are terminal for this pass: the caller records
// the item either way so it is never re-attempted.
func (r *Resolver) Resolve(ctx context.Context, desc itemDomain.Descriptor) (*Resolved, error) {
	kind := domain.Classify(desc)

	att := newAttempt(r.mediaDir, desc.ID)
	defer att.cleanup()

	var strategies []strategy
	switch kind {
	case itemDomain.MediaKindText:
		return nil, oops.With("item_id", desc.ID).Wrap(domain.ErrNoMediaFound)
	case itemDomain.MediaKindImage:
		strategies = r.imageStrategies(desc)
	case itemDomain.MediaKindGallery:
		strategies = r.galleryStrategies(desc)
	case itemDomain.MediaKindVideo:
		strategies = r.videoStrategies(desc)
	}

	path, err := r.tryStrategies(ctx, att, desc.ID, strategies)
	if err != nil {
		return nil, err
	}

	if kind == itemDomain.MediaKindVideo {
		path = r.reencodeForTarget(ctx, att, path)
	}

	att.keep = path

	return &Resolved{FilePath: path, Kind: kind}, nil
}

// Cleanup removes a previously resolved file, tolerating its absence
func (r *Resolver) Cleanup(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to remove resolved media file", "path", path, "error", err)
	}
}

func (r *Resolver) tryStrategies(ctx context.Context, att *attempt, itemID string, strategies []strategy) (string, error) {
	if len(strategies) == 0 {
		return "", oops.With("item_id", itemID).Wrap(domain.ErrNoMediaFound)
	}

	var lastErr error
	for _, s := range strategies {
		path, err := s.run(ctx, att)
		if err == nil {
			slog.Debug("Resolution strategy succeeded", "item_id", itemID, "strategy", s.name, "path", path)
			return path, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		slog.Debug("Resolution strategy failed", "item_id", itemID, "strategy", s.name, "error", err)
		lastErr = err
	}

	// A lone validation or missing-tool failure is more useful to report
	// than the generic exhaustion error.
	if errors.Is(lastErr, domain.ErrValidationFailed) || errors.Is(lastErr, domain.ErrExternalToolUnavailable) {
		return "", lastErr
	}

	return "", errors.Join(domain.ErrAllSourcesExhausted, lastErr)
}

// reencodeForTarget re-encodes the clip for target-platform compatibility
// when the tooling is present and the clip is short enough. Every failure
// path keeps the unencoded file.
func (r *Resolver) reencodeForTarget(ctx context.Context, att *attempt, path string) string {
	ffprobePath, err := r.runner.LookPath("ffprobe")
	if err != nil {
		return path
	}
	ffmpegPath, err := r.runner.LookPath("ffmpeg")
	if err != nil {
		return path
	}

	probeTimeout := time.Duration(r.cfg.RequestTimeoutSeconds) * time.Second
	out, err := r.runner.Output(ctx, probeTimeout, ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)
	if err != nil {
		slog.Debug("Duration probe failed, keeping unencoded file", "path", path, "error", err)
		return path
	}

	duration, err := strconv.ParseFloat(out, 64)
	if err != nil {
		slog.Debug("Unparseable probe output, keeping unencoded file", "path", path, "output", out)
		return path
	}

	if duration > float64(r.cfg.MaxReencodeDurationSeconds) {
		slog.Info("Skipping re-encode, clip exceeds duration ceiling",
			"path", path,
			"duration_seconds", duration,
			"ceiling_seconds", r.cfg.MaxReencodeDurationSeconds)
		return path
	}

	encoded := att.path("_encoded.mp4")
	err = r.runner.Run(ctx, time.Duration(r.cfg.VideoTimeoutSeconds)*time.Second, ffmpegPath,
		"-y",
		"-i", path,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		"-threads", strconv.Itoa(r.cfg.FFmpegThreads),
		encoded)
	if err != nil {
		slog.Warn("Re-encode failed, keeping unencoded file", "path", path, "error", err)
		return path
	}

	if info, statErr := os.Stat(encoded); statErr != nil || info.Size() == 0 {
		return path
	}

	return encoded
}

// strategy is one ordered attempt to turn a descriptor into a local file
type strategy struct {
	name string
	run  func(ctx context.Context, att *attempt) (string, error)
}

// attempt owns every intermediate file created while resolving one item.
// cleanup removes all of them except the file marked keep, on every exit
// path including cancellation.
type attempt struct {
	dir     string
	prefix  string
	keep    string
	created []string
}

func newAttempt(dir string, prefix string) *attempt {
	return &attempt{dir: dir, prefix: prefix}
}

// path reserves a file name under the attempt's directory and tracks it for
// cleanup. The suffix is appended to the item's ID.
func (a *attempt) path(suffix string) string {
	p := filepath.Join(a.dir, a.prefix+suffix)
	a.created = append(a.created, p)
	return p
}

func (a *attempt) cleanup() {
	for _, p := range a.created {
		if p == a.keep {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			slog.Warn("Failed to remove intermediate file", "path", p, "error", err)
		}
	}
}
