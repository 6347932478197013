// Package logscan discovers log files in a directory and turns each one into
// a classified test record.
package logscan

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/polaris-ci/polaris-cdash/model"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Scanner finds log files matching a name pattern and loads them.
type Scanner struct {
	logger  zerolog.Logger
	pattern string
}

// New creates a scanner for files whose base name matches pattern.
func New(logger zerolog.Logger, pattern string) *Scanner {
	if pattern == "" {
		pattern = model.DefaultLogPattern
	}
	return &Scanner{
		logger:  logger,
		pattern: pattern,
	}
}

// Discover returns the paths of the files directly inside dir whose name
// matches the scanner pattern, sorted by file name. Subdirectories are not
// descended into. A directory that cannot be listed yields no files.
func (s *Scanner) Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug().Str("dir", dir).Msg("Log directory does not exist")
			return nil, nil
		}
		s.logger.Warn().Err(err).Str("dir", dir).Msg("Failed to list log directory")
		return nil, nil
	}

	// Hidden files only match a pattern that names them explicitly.
	showHidden := strings.HasPrefix(s.pattern, ".")

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !showHidden && strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		matched, err := filepath.Match(s.pattern, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("invalid log pattern %q: %w", s.pattern, err)
		}
		if matched {
			names = append(names, entry.Name())
		}
	}

	// os.ReadDir already sorts, but the order is part of the report contract
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}

// Load reads a single log file into a test record. A file that cannot be
// read still yields a record whose content describes the failure.
func (s *Scanner) Load(path string) model.TestRecord {
	content, err := readText(path)
	if err != nil {
		s.logger.Warn().Err(err).Str("file", path).Msg("Failed to read log file")
		content = fmt.Sprintf("Error reading file: %v", err)
	} else {
		content = StripANSI(content)
	}

	record := model.TestRecord{
		Name:    filepath.Base(path),
		Status:  Classify(content),
		Content: content,
		Path:    path,
	}

	s.logger.Debug().
		Str("file", path).
		Str("status", string(record.Status)).
		Int("bytes", len(content)).
		Msg("Classified log file")

	return record
}

// Scan discovers and loads every log file in dir. An empty result is not an
// error; it is reported as a warning.
func (s *Scanner) Scan(dir string) ([]model.TestRecord, error) {
	paths, err := s.Discover(dir)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		s.logger.Warn().Str("dir", dir).Str("pattern", s.pattern).Msg("No log files found")
		return nil, nil
	}

	records := make([]model.TestRecord, 0, len(paths))
	for _, path := range paths {
		records = append(records, s.Load(path))
	}
	return records, nil
}

// readText reads a file as UTF-8, replacing undecodable bytes with U+FFFD.
func readText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(transform.NewReader(f, unicode.UTF8.NewDecoder()))
	if err != nil {
		return "", err
	}
	return normalizeNewlines(string(data)), nil
}
