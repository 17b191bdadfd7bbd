package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tricky-turns/internal/core"
)

// DefaultLocalPath is the guest best-score file.
const DefaultLocalPath = "~/.arcade/turns-best.yaml"

// localFile is the on-disk layout of the guest best-score file.
type localFile struct {
	Best map[int]int `yaml:"best"`
}

// LocalBest keeps guest best scores per mode in a YAML file.
// It implements core.ScoreStore.
type LocalBest struct {
	mu   sync.Mutex
	path string
}

// OpenLocal prepares a best-score file at path. The file itself is created
// on the first submission.
func OpenLocal(path string) (*LocalBest, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}
	return &LocalBest{path: path}, nil
}

// Path returns the file location.
func (l *LocalBest) Path() string {
	return l.path
}

func (l *LocalBest) read() (localFile, error) {
	f := localFile{Best: make(map[int]int)}
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return f, fmt.Errorf("storage: cannot read %s: %w", l.path, err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("storage: cannot parse %s: %w", l.path, err)
	}
	if f.Best == nil {
		f.Best = make(map[int]int)
	}
	return f, nil
}

// write replaces the file through a temporary sibling.
func (l *LocalBest) write(f localFile) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("storage: cannot encode best scores: %w", err)
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("storage: cannot write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("storage: cannot replace %s: %w", l.path, err)
	}
	return nil
}

// Best implements core.ScoreStore.
func (l *LocalBest) Best(ctx context.Context, modeID int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := l.read()
	if err != nil {
		return 0, err
	}
	return f.Best[modeID], nil
}

// Submit implements core.ScoreStore. Only a new best is written.
func (l *LocalBest) Submit(ctx context.Context, modeID int, score int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := l.read()
	if err != nil {
		return err
	}
	if score <= f.Best[modeID] {
		return nil
	}
	f.Best[modeID] = score
	return l.write(f)
}

var _ core.ScoreStore = (*LocalBest)(nil)
