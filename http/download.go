package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fwojciec/partdex"
	"golang.org/x/sync/errgroup"
)

// Ensure ChunkDownloader implements partdex.ChunkFetcher at compile time.
var _ partdex.ChunkFetcher = (*ChunkDownloader)(nil)

// ChunkDownloader fetches a chunked archive over HTTP: the sentinel first,
// then every chunk across a bounded worker pool. Chunks are independent
// files, so fetch order does not matter; reassembly restores order from the
// numeric suffixes.
type ChunkDownloader struct {
	// HTTPClient is the underlying HTTP client. Defaults to a client with
	// DefaultTransferTimeout.
	HTTPClient *http.Client

	// ArchiveName is the base name of the chunked archive, e.g.
	// "parts-fts5.db.zip".
	ArchiveName string

	// SentinelName names the chunk count file. Defaults to
	// partdex.DefaultSentinelName.
	SentinelName string

	// Retry is the backoff applied per file. Defaults to
	// partdex.ChunkRetryPolicy.
	Retry partdex.RetryPolicy

	// Concurrency bounds the worker pool. Defaults to 4.
	Concurrency int

	// Progress reports per-chunk completion. Defaults to partdex.NopProgress.
	Progress partdex.ProgressReporter
}

func (d *ChunkDownloader) httpClient() *http.Client {
	if d.HTTPClient != nil {
		return d.HTTPClient
	}
	return &http.Client{Timeout: DefaultTransferTimeout}
}

func (d *ChunkDownloader) sentinelName() string {
	if d.SentinelName != "" {
		return d.SentinelName
	}
	return partdex.DefaultSentinelName
}

func (d *ChunkDownloader) retry() partdex.RetryPolicy {
	if d.Retry.MaxAttempts > 0 {
		return d.Retry
	}
	return partdex.ChunkRetryPolicy()
}

func (d *ChunkDownloader) concurrency() int {
	if d.Concurrency > 0 {
		return d.Concurrency
	}
	return 4
}

func (d *ChunkDownloader) progress() partdex.ProgressReporter {
	if d.Progress != nil {
		return d.Progress
	}
	return partdex.NopProgress{}
}

// Download fetches the sentinel and every chunk from baseURL into dir,
// returning the chunk count declared by the sentinel.
func (d *ChunkDownloader) Download(ctx context.Context, baseURL, dir string) (int, error) {
	if d.ArchiveName == "" {
		return 0, partdex.Errorf(partdex.EINVALID, "archive name required")
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	count, err := d.fetchSentinel(ctx, baseURL, dir)
	if err != nil {
		return 0, err
	}

	task := d.progress().Outer(int64(count), "downloading chunks")
	defer task.Done()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency())
	for n := 1; n <= count; n++ {
		name := partdex.ChunkName(d.ArchiveName, n)
		g.Go(func() error {
			if err := d.fetchFile(ctx, baseURL+"/"+name, filepath.Join(dir, name)); err != nil {
				return fmt.Errorf("chunk %s: %w", name, err)
			}
			task.Advance(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return count, nil
}

// fetchSentinel downloads and validates the chunk count file. A missing
// sentinel means no published archive; a malformed one means a corrupt
// publication, which no retry can fix.
func (d *ChunkDownloader) fetchSentinel(ctx context.Context, baseURL, dir string) (int, error) {
	path := filepath.Join(dir, d.sentinelName())
	if err := d.fetchFile(ctx, baseURL+"/"+d.sentinelName(), path); err != nil {
		return 0, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	count, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || count < 1 {
		return 0, partdex.Errorf(partdex.EINTEGRITY, "malformed chunk count %q", strings.TrimSpace(string(data)))
	}
	return count, nil
}

// fetchFile downloads one URL to a local path with retries. The file is
// written through a temp name so a partial transfer never masquerades as a
// complete chunk.
func (d *ChunkDownloader) fetchFile(ctx context.Context, url, path string) error {
	return d.retry().Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := d.httpClient().Do(req)
		if err != nil {
			return partdex.Errorf(partdex.ETRANSIENT, "fetch %s failed: %v", url, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return partdex.Errorf(partdex.ENOTFOUND, "%s not found", url)
		case resp.StatusCode != http.StatusOK:
			return partdex.Errorf(partdex.ETRANSIENT, "fetch %s returned HTTP %d", url, resp.StatusCode)
		}

		tmp := path + ".part"
		f, err := os.Create(tmp)
		if err != nil {
			return err
		}
		if _, err := io.Copy(f, resp.Body); err != nil {
			f.Close()
			os.Remove(tmp)
			return partdex.Errorf(partdex.ETRANSIENT, "fetch %s interrupted: %v", url, err)
		}
		if err := f.Close(); err != nil {
			os.Remove(tmp)
			return err
		}
		return os.Rename(tmp, path)
	})
}
