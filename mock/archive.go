package mock

import (
	"context"

	"github.com/fwojciec/partdex"
)

var _ partdex.ArchiveWriter = (*ArchiveWriter)(nil)

// ArchiveWriter is a mock implementation of partdex.ArchiveWriter.
type ArchiveWriter struct {
	CompressAndSplitFn func(inputPath, outputDir string) (int, error)
}

func (a *ArchiveWriter) CompressAndSplit(inputPath, outputDir string) (int, error) {
	return a.CompressAndSplitFn(inputPath, outputDir)
}

var _ partdex.ChunkFetcher = (*ChunkFetcher)(nil)

// ChunkFetcher is a mock implementation of partdex.ChunkFetcher.
type ChunkFetcher struct {
	DownloadFn func(ctx context.Context, baseURL, dir string) (int, error)
}

func (f *ChunkFetcher) Download(ctx context.Context, baseURL, dir string) (int, error) {
	return f.DownloadFn(ctx, baseURL, dir)
}
