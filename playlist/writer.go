package playlist

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// WritePlaylist writes the filtered playlist: the header marker followed by
// each channel block verbatim.
func WritePlaylist(path string, channels []*Channel) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating playlist file: %w", err)
	}

	w := bufio.NewWriter(file)
	fmt.Fprintln(w, "#EXTM3U")
	for _, ch := range channels {
		for _, line := range ch.Lines() {
			fmt.Fprintln(w, line)
		}
	}

	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("writing playlist file: %w", err)
	}
	return file.Close()
}

// UniqueFilename returns filename, or the first base_N.ext variant that does
// not yet exist in dir.
func UniqueFilename(dir, filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	name := filename
	for i := 1; i <= 100; i++ {
		if _, err := os.Stat(filepath.Join(dir, name)); os.IsNotExist(err) {
			break
		}
		name = fmt.Sprintf("%s_%d%s", base, i, ext)
	}
	return name
}

// SkippedWriter appends whole channel blocks to the side file collecting
// channels whose checks exceeded the collection budget. Appends from
// concurrent writers never interleave: each block is one serialized write.
type SkippedWriter struct {
	mu   sync.Mutex
	path string
}

func NewSkippedWriter(path string) *SkippedWriter {
	return &SkippedWriter{path: path}
}

func (s *SkippedWriter) Append(ch *Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("creating skipped directory: %w", err)
		}
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening skipped file: %w", err)
	}
	defer file.Close()

	var block strings.Builder
	for _, line := range ch.Lines() {
		block.WriteString(line)
		block.WriteByte('\n')
	}

	if _, err := file.WriteString(block.String()); err != nil {
		return fmt.Errorf("writing skipped block: %w", err)
	}
	return nil
}
