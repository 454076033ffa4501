// Package stocks owns the persisted stock set: flat-file storage, startup
// normalization, and the in-memory query service the API reads from.
package stocks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/realticker/internal/models"
)

// Store reads and writes the stock collection as a single JSON document
// with a top-level "stocks" array.
type Store struct {
	path   string
	logger arbor.ILogger
}

// NewStore creates a file-backed store at the given path.
func NewStore(path string, logger arbor.ILogger) *Store {
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted stock set. A missing file or malformed JSON is
// recovered as an empty set with a warning, so the service always starts.
func (s *Store) Load() []*models.StockRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Warn().
			Str("path", s.path).
			Err(err).
			Msg("Stock file not readable, starting with empty stock set")
		return nil
	}

	var file models.StockFile
	if err := json.Unmarshal(data, &file); err != nil {
		s.logger.Warn().
			Str("path", s.path).
			Err(err).
			Msg("Stock file is not valid JSON, starting with empty stock set")
		return nil
	}

	s.logger.Info().
		Str("path", s.path).
		Int("stocks", len(file.Stocks)).
		Msg("Loaded stock set")

	return file.Stocks
}

// Save persists the entire stock collection. The document is written to a
// temp file in the same directory and renamed over the target, so a crash
// mid-write never leaves a truncated stock file behind.
func (s *Store) Save(stocks []*models.StockRecord) error {
	data, err := json.MarshalIndent(models.StockFile{Stocks: stocks}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stock set: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp stock file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp stock file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp stock file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace stock file: %w", err)
	}

	s.logger.Info().
		Str("path", s.path).
		Int("stocks", len(stocks)).
		Msg("Persisted stock set")

	return nil
}
