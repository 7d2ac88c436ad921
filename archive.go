package partdex

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Chunked transfer format defaults. GitHub Pages rejects files over 100 MB,
// so chunks are kept comfortably below that.
const (
	DefaultChunkSize    = 80_000_000
	DefaultSentinelName = "chunk_num.txt"
)

// ChunkName returns the name of the n-th chunk (1-based) of a compressed
// archive: "<archive>.NNN" with a 3-digit zero-padded suffix.
func ChunkName(archive string, n int) string {
	return fmt.Sprintf("%s.%03d", archive, n)
}

// ParseChunkIndex extracts the 1-based index from a chunk file name, or
// returns an EINVALID error if the name does not carry a numeric suffix.
func ParseChunkIndex(name string) (int, error) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return 0, Errorf(EINVALID, "chunk name %q has no numeric suffix", name)
	}
	n, err := strconv.Atoi(name[i+1:])
	if err != nil || n < 1 {
		return 0, Errorf(EINVALID, "chunk name %q has no numeric suffix", name)
	}
	return n, nil
}

// ArchiveWriter compresses a finished artifact and splits the compressed
// stream into distribution chunks plus a sentinel count file, returning the
// number of chunks written.
type ArchiveWriter interface {
	CompressAndSplit(inputPath, outputDir string) (int, error)
}

// ChunkFetcher downloads a chunk set (sentinel plus chunk files) from a base
// URL into a directory, returning the chunk count declared by the sentinel.
type ChunkFetcher interface {
	Download(ctx context.Context, baseURL, dir string) (int, error)
}
