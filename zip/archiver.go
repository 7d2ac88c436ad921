// Package zip implements the chunked transfer format: an artifact is
// compressed into a zip stream which is split into fixed-size numbered
// chunks plus a sentinel file recording the chunk count, so hosting
// platforms with a hard per-file size cap can carry it.
package zip

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/fwojciec/partdex"
)

// Ensure Archiver implements partdex.ArchiveWriter at compile time.
var _ partdex.ArchiveWriter = (*Archiver)(nil)

// Archiver splits and reassembles compressed artifacts.
type Archiver struct {
	// ChunkSize is the maximum size of each chunk in bytes.
	// Defaults to partdex.DefaultChunkSize (80 MB).
	ChunkSize int64

	// SentinelName is the name of the chunk-count file.
	// Defaults to partdex.DefaultSentinelName.
	SentinelName string
}

// NewArchiver creates an Archiver with default chunk size and sentinel name.
func NewArchiver() *Archiver {
	return &Archiver{
		ChunkSize:    partdex.DefaultChunkSize,
		SentinelName: partdex.DefaultSentinelName,
	}
}

func (a *Archiver) chunkSize() int64 {
	if a.ChunkSize > 0 {
		return a.ChunkSize
	}
	return partdex.DefaultChunkSize
}

func (a *Archiver) sentinelName() string {
	if a.SentinelName != "" {
		return a.SentinelName
	}
	return partdex.DefaultSentinelName
}

// CompressAndSplit compresses the input file into a zip stream and splits
// the compressed stream into sequential chunks named "<base>.zip.NNN" in
// outputDir, writing the sentinel file last. The split happens at the
// compressed-stream level so the full compressed output never needs to be
// held in memory or on disk as a single file.
//
// Returns the number of chunks written.
func (a *Archiver) CompressAndSplit(inputPath, outputDir string) (int, error) {
	input, err := os.Open(inputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open input: %w", err)
	}
	defer input.Close()

	info, err := input.Stat()
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, err
	}

	base := filepath.Base(inputPath) + ".zip"
	sw := &splitWriter{
		dir:   outputDir,
		base:  base,
		limit: a.chunkSize(),
	}

	zw := zip.NewWriter(sw)
	header := &zip.FileHeader{
		Name:     filepath.Base(inputPath),
		Method:   zip.Deflate,
		Modified: info.ModTime(),
	}
	entry, err := zw.CreateHeader(header)
	if err != nil {
		sw.Close()
		return 0, err
	}
	if _, err := io.Copy(entry, input); err != nil {
		sw.Close()
		return 0, fmt.Errorf("failed to compress %s: %w", inputPath, err)
	}
	if err := zw.Close(); err != nil {
		sw.Close()
		return 0, err
	}
	if err := sw.Close(); err != nil {
		return 0, err
	}

	sentinel := filepath.Join(outputDir, a.sentinelName())
	count := strconv.Itoa(sw.count)
	if err := os.WriteFile(sentinel, []byte(count), 0644); err != nil {
		return 0, fmt.Errorf("failed to write sentinel: %w", err)
	}
	return sw.count, nil
}

// Reassemble verifies and reassembles a chunk set in dir into the original
// artifact file at outputPath. The chunk count present on disk must match
// the sentinel's declared count: a mismatch means the remote set is
// internally inconsistent and is an EINTEGRITY error, never retried.
//
// On success the chunk files and sentinel are deleted unless keepChunks is
// set.
func (a *Archiver) Reassemble(dir, archiveBase, outputPath string, keepChunks bool) error {
	sentinelPath := filepath.Join(dir, a.sentinelName())
	declared, err := readSentinel(sentinelPath)
	if err != nil {
		return err
	}

	chunks, err := findChunks(dir, archiveBase)
	if err != nil {
		return err
	}
	if len(chunks) != declared {
		return partdex.Errorf(partdex.EINTEGRITY,
			"chunk count mismatch: sentinel declares %d, found %d", declared, len(chunks))
	}

	ra, size, err := openChunkSet(chunks)
	if err != nil {
		return err
	}
	defer ra.Close()

	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return partdex.Errorf(partdex.EINTEGRITY, "corrupt chunk archive: %v", err)
	}
	if len(zr.File) != 1 {
		return partdex.Errorf(partdex.EINTEGRITY,
			"chunk archive holds %d files, expected exactly one artifact", len(zr.File))
	}

	if err := extractFile(zr.File[0], outputPath); err != nil {
		return err
	}

	if !keepChunks {
		for _, chunk := range chunks {
			os.Remove(chunk)
		}
		os.Remove(sentinelPath)
	}
	return nil
}

// readSentinel parses the chunk count from the sentinel file.
func readSentinel(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, partdex.Errorf(partdex.ENOTFOUND, "sentinel file %s not found", path)
		}
		return 0, err
	}
	count, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || count < 1 {
		return 0, partdex.Errorf(partdex.EINTEGRITY,
			"malformed sentinel %s: %q", path, strings.TrimSpace(string(data)))
	}
	return count, nil
}

// findChunks lists the chunk files for archiveBase in dir, sorted by their
// numeric suffix. File-system iteration order is not trusted.
func findChunks(dir, archiveBase string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type chunk struct {
		path  string
		index int
	}
	var chunks []chunk
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, archiveBase+".") {
			continue
		}
		index, err := partdex.ParseChunkIndex(name)
		if err != nil {
			continue
		}
		chunks = append(chunks, chunk{filepath.Join(dir, name), index})
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].index < chunks[j].index })

	paths := make([]string, len(chunks))
	for i, c := range chunks {
		paths[i] = c.path
	}
	return paths, nil
}

// extractFile writes one zip entry to outputPath.
func extractFile(f *zip.File, outputPath string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return err
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// splitWriter is an io.Writer that rolls over to a new numbered chunk file
// whenever the current one reaches the size limit.
type splitWriter struct {
	dir   string
	base  string
	limit int64

	current *os.File
	written int64
	count   int
}

func (w *splitWriter) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		if w.current == nil {
			w.count++
			name := filepath.Join(w.dir, partdex.ChunkName(w.base, w.count))
			f, err := os.Create(name)
			if err != nil {
				return total, err
			}
			w.current = f
			w.written = 0
		}

		n := int64(len(p))
		if remaining := w.limit - w.written; n > remaining {
			n = remaining
		}
		wrote, err := w.current.Write(p[:n])
		total += wrote
		w.written += int64(wrote)
		if err != nil {
			return total, err
		}
		p = p[wrote:]

		if w.written >= w.limit {
			if err := w.current.Close(); err != nil {
				return total, err
			}
			w.current = nil
		}
	}
	return total, nil
}

func (w *splitWriter) Close() error {
	if w.current != nil {
		err := w.current.Close()
		w.current = nil
		return err
	}
	return nil
}

// chunkSet is an io.ReaderAt over the concatenation of a chunk file list.
type chunkSet struct {
	files   []*os.File
	offsets []int64 // cumulative start offset of each file
	size    int64
}

// openChunkSet opens the chunk files and returns a ReaderAt spanning their
// concatenated contents, along with the total size.
func openChunkSet(paths []string) (*chunkSet, int64, error) {
	set := &chunkSet{}
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			set.Close()
			return nil, 0, err
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			set.Close()
			return nil, 0, err
		}
		set.files = append(set.files, f)
		set.offsets = append(set.offsets, set.size)
		set.size += info.Size()
	}
	return set, set.size, nil
}

func (s *chunkSet) ReadAt(p []byte, off int64) (int, error) {
	if off >= s.size {
		return 0, io.EOF
	}

	// Find the file containing off.
	i := sort.Search(len(s.offsets), func(i int) bool { return s.offsets[i] > off }) - 1

	total := 0
	for len(p) > 0 && i < len(s.files) {
		local := off - s.offsets[i]
		n, err := s.files[i].ReadAt(p, local)
		total += n
		off += int64(n)
		p = p[n:]
		if err != nil && err != io.EOF {
			return total, err
		}
		i++
	}
	if len(p) > 0 {
		return total, io.EOF
	}
	return total, nil
}

func (s *chunkSet) Close() error {
	var firstErr error
	for _, f := range s.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
