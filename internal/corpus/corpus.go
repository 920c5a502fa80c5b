// Package corpus loads translation segments and reference files.
package corpus

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadSegments reads one segment per line from the provided file path.
// Lines are trimmed; blank lines are skipped. An empty file yields an
// empty slice, which the navigator rejects at load time.
func LoadSegments(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only corpus.
			_ = cerr
		}
	}()

	var segments []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		segments = append(segments, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}
	return segments, nil
}
