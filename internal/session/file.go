package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mwiater/prefdash/internal/dashboard"
	"go.yaml.in/yaml/v3"
)

// FileStore writes one YAML document per session under a directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

type fileRecord struct {
	UpdatedAt time.Time                                           `yaml:"updated_at"`
	Pipelines map[dashboard.PipelineName]dashboard.SelectionState `yaml:"pipelines"`
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	if strings.TrimSpace(dir) == "" {
		dir = "data/sessions"
	}
	return &FileStore{dir: dir}
}

func (s *FileStore) Load(_ context.Context, id string, pipeline dashboard.PipelineName) (dashboard.SelectionState, bool, error) {
	if err := ValidateID(id); err != nil {
		return dashboard.SelectionState{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read(id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return dashboard.SelectionState{}, false, nil
		}
		return dashboard.SelectionState{}, false, err
	}
	state, ok := rec.Pipelines[pipeline]
	if !ok {
		return dashboard.SelectionState{}, false, nil
	}
	state.Pipeline = pipeline
	return state, true, nil
}

func (s *FileStore) Save(_ context.Context, id string, state dashboard.SelectionState) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read(id)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		rec = &fileRecord{}
	}
	if rec.Pipelines == nil {
		rec.Pipelines = make(map[dashboard.PipelineName]dashboard.SelectionState)
	}
	rec.Pipelines[state.Pipeline] = state.Clone()
	rec.UpdatedAt = time.Now().UTC()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(rec)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(id), data, 0o644)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) read(id string) (*fileRecord, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, err
	}
	var rec fileRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	return &rec, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.yaml", strings.ToLower(id)))
}
