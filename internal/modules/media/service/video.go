package service

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	itemDomain "github.com/okhotnikdev/mediagate/internal/modules/item/domain"
	"github.com/okhotnikdev/mediagate/internal/modules/media/domain"
	"github.com/samber/oops"
)

// minMediaBytes rejects empty or error-page downloads masquerading as media
const minMediaBytes = 1024

// Quality tiers tried in order against DASH-style hosts, highest first.
var dashQualities = []string{"DASH_720.mp4", "DASH_480.mp4", "DASH_360.mp4", "DASH_240.mp4"}

// dashLastResort is used unconditionally when no tier answers a probe
const dashLastResort = "DASH_96.mp4"

// Audio stream name variants, the hosts are not consistent about which one
// exists for a given clip.
var audioVariants = []string{"DASH_audio.mp4", "DASH_AUDIO_128.mp4", "audio"}

func (r *Resolver) videoStrategies(desc itemDomain.Descriptor) []strategy {
	strategies := []strategy{{
		name: "generic_extractor",
		run: func(ctx context.Context, att *attempt) (string, error) {
			return r.extractVideo(ctx, att, desc)
		},
	}}

	if baseURL := dashBaseURL(desc); baseURL != "" {
		strategies = append(strategies, strategy{
			name: "dash_ladder",
			run: func(ctx context.Context, att *attempt) (string, error) {
				return r.downloadDashVideo(ctx, att, baseURL)
			},
		})
	}

	return strategies
}

// extractVideo delegates to the general-purpose extractor, which copes with
// third-party hosts and native video hosts alike
func (r *Resolver) extractVideo(ctx context.Context, att *attempt, desc itemDomain.Descriptor) (string, error) {
	extractor, err := r.runner.LookPath("yt-dlp")
	if err != nil {
		return "", oops.With("tool", "yt-dlp").Wrap(domain.ErrExternalToolUnavailable)
	}

	sourceURL := desc.URL
	if sourceURL == "" {
		sourceURL = desc.DashURL
	}
	if sourceURL == "" {
		return "", oops.With("item_id", desc.ID).Wrap(domain.ErrNoMediaFound)
	}

	dest := att.path(".mp4")
	err = r.runner.Run(ctx, time.Duration(r.cfg.VideoTimeoutSeconds)*time.Second, extractor,
		"-f", "best[ext=mp4]/best",
		"--max-filesize", "50M",
		"--no-playlist",
		"--quiet",
		"-o", dest,
		sourceURL)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(dest)
	if err != nil || info.Size() < minMediaBytes {
		return "", oops.With("url", sourceURL).Wrapf(domain.ErrValidationFailed, "extractor produced no usable file")
	}

	return dest, nil
}

// downloadDashVideo works the manual quality ladder: pick a video tier,
// download it, try to pair it with an audio stream, and fall back to
// video-only when audio cannot be obtained or combined. Audio is optional;
// only the video stream itself is allowed to fail the strategy.
func (r *Resolver) downloadDashVideo(ctx context.Context, att *attempt, baseURL string) (string, error) {
	videoURL := r.pickDashQuality(ctx, baseURL)

	videoPath := att.path("_video.mp4")
	videoSize, _, err := r.fetcher.Download(ctx, videoURL, videoPath, time.Duration(r.cfg.VideoTimeoutSeconds)*time.Second)
	if err != nil {
		return "", err
	}
	if videoSize < minMediaBytes {
		return "", oops.With("url", videoURL, "bytes", videoSize).Wrapf(domain.ErrValidationFailed, "video stream is empty or too small")
	}

	output := att.path(".mp4")

	if audioPath, ok := r.downloadDashAudio(ctx, att, baseURL); ok {
		if err := r.muxStreams(ctx, videoPath, audioPath, output); err != nil {
			slog.Warn("Stream combination failed, falling back to video-only", "base_url", baseURL, "error", err)
		} else if combinedLooksSane(output, videoSize) {
			return output, nil
		} else {
			slog.Warn("Combined output failed size sanity check, falling back to video-only", "base_url", baseURL)
		}
	}

	os.Remove(output)
	if err := os.Rename(videoPath, output); err != nil {
		slog.Warn("Failed to rename video-only file, using it in place", "path", videoPath, "error", err)
		return videoPath, nil
	}

	return output, nil
}

// pickDashQuality probes the ladder top-down and settles for the lowest
// tier unconditionally when nothing answers
func (r *Resolver) pickDashQuality(ctx context.Context, baseURL string) string {
	for _, quality := range dashQualities {
		candidate := baseURL + "/" + quality
		if r.fetcher.Probe(ctx, candidate) {
			slog.Debug("Found video stream", "url", candidate)
			return candidate
		}
	}

	return baseURL + "/" + dashLastResort
}

func (r *Resolver) downloadDashAudio(ctx context.Context, att *attempt, baseURL string) (string, bool) {
	audioPath := att.path("_audio.mp4")
	audioTimeout := time.Duration(r.cfg.AudioTimeoutSeconds) * time.Second

	for _, variant := range audioVariants {
		audioURL := baseURL + "/" + variant
		size, contentType, err := r.fetcher.Download(ctx, audioURL, audioPath, audioTimeout)
		if err != nil {
			slog.Debug("Audio variant unavailable", "url", audioURL, "error", err)
			continue
		}
		if size < minMediaBytes {
			slog.Debug("Audio variant too small", "url", audioURL, "bytes", size)
			continue
		}
		// Some hosts answer 200 with an HTML error page.
		normalized := strings.ToLower(contentType)
		if !strings.Contains(normalized, "audio") && !strings.Contains(normalized, "video") {
			slog.Debug("Audio variant has unexpected content type", "url", audioURL, "content_type", contentType)
			continue
		}

		return audioPath, true
	}

	return "", false
}

// muxStreams combines the two streams with stream copy first, retrying with
// the audio re-encoded when the container refuses a straight copy
func (r *Resolver) muxStreams(ctx context.Context, videoPath string, audioPath string, output string) error {
	ffmpegPath, err := r.runner.LookPath("ffmpeg")
	if err != nil {
		return oops.With("tool", "ffmpeg").Wrap(domain.ErrExternalToolUnavailable)
	}

	timeout := time.Duration(r.cfg.VideoTimeoutSeconds) * time.Second
	if err := r.runner.Run(ctx, timeout, ffmpegPath, muxArgs(videoPath, audioPath, output, "copy")...); err == nil {
		return nil
	}

	slog.Debug("Stream-copy mux failed, retrying with audio re-encode", "output", output)
	return r.runner.Run(ctx, timeout, ffmpegPath, muxArgs(videoPath, audioPath, output, "aac", "-b:a", "128k")...)
}

func muxArgs(videoPath string, audioPath string, output string, audioCodec string, extra ...string) []string {
	args := []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", audioCodec,
	}
	args = append(args, extra...)
	return append(args,
		"-map_metadata", "0",
		"-movflags", "faststart",
		output)
}

// combinedLooksSane rejects mux outputs that lost most of the video stream,
// anything under 80% of the raw video size is suspect
func combinedLooksSane(output string, videoSize int64) bool {
	info, err := os.Stat(output)
	if err != nil {
		return false
	}
	return info.Size() >= videoSize*8/10
}

// dashBaseURL derives the stream base for DASH-style hosts from either the
// listing's explicit stream URL or a recognizable host URL
func dashBaseURL(desc itemDomain.Descriptor) string {
	candidate := desc.DashURL
	if candidate == "" {
		if u, err := url.Parse(desc.URL); err == nil {
			host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
			if host == "v.redd.it" {
				candidate = desc.URL
			}
		}
	}
	if candidate == "" {
		return ""
	}

	if i := strings.Index(candidate, "/DASH_"); i >= 0 {
		candidate = candidate[:i]
	}
	if i := strings.IndexByte(candidate, '?'); i >= 0 {
		candidate = candidate[:i]
	}

	return strings.TrimSuffix(candidate, "/")
}
