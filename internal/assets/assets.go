package assets

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"raypick/internal/engine"
)

// Loader resolves a prefab URL. Implementations must honour ctx cancellation.
type Loader interface {
	Load(ctx context.Context, url string) (*Prefab, error)
}

// Manager loads prefab files from a file system and caches them by path.
// It is safe for concurrent use by load tasks.
type Manager struct {
	fsys fs.FS

	mu      sync.Mutex
	prefabs map[string]*Prefab
}

func NewManager(fsys fs.FS) *Manager {
	return &Manager{
		fsys:    fsys,
		prefabs: make(map[string]*Prefab),
	}
}

func (m *Manager) Load(ctx context.Context, path string) (*Prefab, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load %s: %w: %w", path, engine.ErrAssetLoad, err)
	}

	m.mu.Lock()
	prefab, exists := m.prefabs[path]
	m.mu.Unlock()
	if exists {
		return prefab, nil
	}

	data, err := fs.ReadFile(m.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w: %w", path, engine.ErrAssetLoad, err)
	}
	prefab, err = ParsePrefab(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w: %w", path, engine.ErrAssetLoad, err)
	}
	if prefab.Name == "" {
		prefab.Name = path
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another task may have won the race; keep the first copy.
	if cached, exists := m.prefabs[path]; exists {
		return cached, nil
	}
	m.prefabs[path] = prefab
	return prefab, nil
}

// Cached reports how many prefabs are held.
func (m *Manager) Cached() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prefabs)
}

func (m *Manager) Unload() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefabs = make(map[string]*Prefab)
}
