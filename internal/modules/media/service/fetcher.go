package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/samber/oops"
)

// Fetcher performs the HTTP work behind every resolution strategy. Media
// hosts are flaky, so each call retries transient failures a few times;
// client errors are not retried because the fallback chain is the retry.
type Fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
}

// NewFetcher creates a fetcher with the given per-request timeout
func NewFetcher(userAgent string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:    &http.Client{},
		userAgent: userAgent,
		timeout:   timeout,
	}
}

// Get fetches a URL into memory and returns the body and content type
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, string, error) {
	var (
		body        []byte
		contentType string
	)

	err := retry.Do(
		func() error {
			reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
			defer cancel()

			resp, err := f.do(reqCtx, http.MethodGet, url)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if err := checkStatus(resp); err != nil {
				return err
			}

			body, err = io.ReadAll(resp.Body)
			if err != nil {
				return oops.With("url", url, "context", "failed to read response body").Wrap(err)
			}
			contentType = resp.Header.Get("Content-Type")

			return nil
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.MaxDelay(10*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			slog.Debug("Retrying fetch after error", "url", url, "attempt", n, "error", err)
		}),
	)
	if err != nil {
		return nil, "", oops.With("url", url, "context", "fetch failed after retries").Wrap(err)
	}

	return body, contentType, nil
}

// Download streams a URL to the given path, with a dedicated timeout for
// large media bodies. It returns the byte count and content type.
func (f *Fetcher) Download(ctx context.Context, url string, path string, timeout time.Duration) (int64, string, error) {
	var (
		size        int64
		contentType string
	)

	err := retry.Do(
		func() error {
			reqCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			resp, err := f.do(reqCtx, http.MethodGet, url)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if err := checkStatus(resp); err != nil {
				return err
			}

			out, err := os.Create(path)
			if err != nil {
				return retry.Unrecoverable(oops.With("path", path, "context", "failed to create download file").Wrap(err))
			}

			size, err = io.Copy(out, resp.Body)
			if closeErr := out.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return oops.With("url", url, "path", path, "context", "failed to write download").Wrap(err)
			}
			contentType = resp.Header.Get("Content-Type")

			return nil
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.MaxDelay(10*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			slog.Debug("Retrying download after error", "url", url, "attempt", n, "error", err)
		}),
	)
	if err != nil {
		return 0, "", oops.With("url", url, "context", "download failed after retries").Wrap(err)
	}

	return size, contentType, nil
}

// Probe checks whether a URL answers 200 to a HEAD request. It is a single
// shot: the caller's quality ladder is the fallback, not a retry loop.
func (f *Fetcher) Probe(ctx context.Context, url string) bool {
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	resp, err := f.do(reqCtx, http.MethodHead, url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func (f *Fetcher) do(ctx context.Context, method string, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, http.NoBody)
	if err != nil {
		return nil, retry.Unrecoverable(oops.With("url", url, "context", "failed to create request").Wrap(err))
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "*/*")
	// Some media CDNs serve truncated bodies through transparent
	// compression, so ask for identity encoding.
	req.Header.Set("Accept-Encoding", "identity")

	return f.client.Do(req)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return retry.Unrecoverable(fmt.Errorf("HTTP %d", resp.StatusCode))
	}
	return fmt.Errorf("HTTP %d", resp.StatusCode)
}
