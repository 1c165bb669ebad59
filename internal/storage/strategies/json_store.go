package strategies

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/martifolio/internal/domain"
)

// JSONStore keeps strategies in a single JSON object keyed by asset.
type JSONStore struct {
	mu   sync.Mutex
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load reads the strategy file. A missing or empty file yields ErrNotFound.
func (s *JSONStore) Load(_ context.Context) (domain.Strategies, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "read strategies file")
	}
	if len(payload) == 0 {
		return nil, ErrNotFound
	}

	var strategies domain.Strategies
	if err := json.Unmarshal(payload, &strategies); err != nil {
		return nil, errors.Wrap(err, "decode strategies file")
	}
	if strategies == nil {
		strategies = domain.Strategies{}
	}

	return strategies.Normalize()
}

// Save normalizes strategies and writes them atomically via a temp file.
func (s *JSONStore) Save(_ context.Context, strategies domain.Strategies) error {
	normalized, err := strategies.Normalize()
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(normalized, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode strategies")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create strategies dir")
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return errors.Wrap(err, "write strategies temp file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "persist strategies")
	}

	return nil
}
