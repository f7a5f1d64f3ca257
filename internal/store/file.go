package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/review"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/runstate"
)

const (
	stateFileName = "current-state.json"
	packFileName  = "review-pack.json"
)

// FileStore persists state and review pack as indented JSON files under a
// state directory (default .cart-copilot).
type FileStore struct {
	Dir string
}

// NewFileStore returns a file store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

func (f *FileStore) SaveState(s runstate.RunState) error {
	return f.writeJSON(stateFileName, s)
}

func (f *FileStore) LoadState() (runstate.RunState, bool, error) {
	var s runstate.RunState
	found, err := f.readJSON(stateFileName, &s)
	return s, found, err
}

func (f *FileStore) SaveReviewPack(p *review.Pack) error {
	return f.writeJSON(packFileName, p)
}

func (f *FileStore) LoadReviewPack() (*review.Pack, bool, error) {
	var p review.Pack
	found, err := f.readJSON(packFileName, &p)
	if !found || err != nil {
		return nil, found, err
	}
	return &p, true, nil
}

func (f *FileStore) Clear() error {
	for _, name := range []string{stateFileName, packFileName} {
		if err := os.Remove(filepath.Join(f.Dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}

func (f *FileStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(f.Dir, name), data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (f *FileStore) readJSON(name string, v any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(f.Dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", name, err)
	}
	return true, nil
}
