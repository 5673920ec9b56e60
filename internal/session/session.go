package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileState is where the cursor and view were when a file was last left.
type FileState struct {
	CursorRow int    `json:"cursor_row"`
	CursorCol int    `json:"cursor_col"`
	ScrollRow int    `json:"scroll_row"`
	ScrollCol int    `json:"scroll_col"`
	Codec     string `json:"codec,omitempty"`
}

// Session is the state kept between runs.
type Session struct {
	Files      map[string]FileState `json:"files"`
	RecentPath string               `json:"recent_path,omitempty"`
	LastSaved  time.Time            `json:"last_saved"`
}

// Manager keeps the session in memory and writes it back periodically.
type Manager struct {
	mu       sync.RWMutex
	session  Session
	path     string
	dirty    bool
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewManager loads the session stored at path ("" for the default location)
// and starts autosaving every interval. interval <= 0 disables autosave.
func NewManager(path string, interval time.Duration) (*Manager, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	m := &Manager{
		session:  Session{Files: make(map[string]FileState)},
		path:     path,
		stopChan: make(chan struct{}),
	}
	m.load()
	if interval > 0 {
		go m.autosaveLoop(interval)
	}
	return m, nil
}

// DefaultPath is $XDG_STATE_HOME/cedit/session.json.
func DefaultPath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "cedit", "session.json"), nil
}

func (m *Manager) load() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return
	}
	if s.Files == nil {
		s.Files = make(map[string]FileState)
	}
	m.session = s
}

// Save writes the session if it changed since the last save.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dirty {
		return nil
	}
	m.session.LastSaved = time.Now()
	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return err
	}
	m.dirty = false
	return nil
}

func (m *Manager) FileState(absPath string) (FileState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.session.Files[absPath]
	return st, ok
}

// SetFileState marks the session dirty only when st differs from what is
// stored.
func (m *Manager) SetFileState(absPath string, st FileState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.session.Files[absPath]; ok && old == st {
		return
	}
	m.session.Files[absPath] = st
	m.dirty = true
}

func (m *Manager) RecentPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.RecentPath
}

func (m *Manager) SetRecentPath(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.RecentPath == p {
		return
	}
	m.session.RecentPath = p
	m.dirty = true
}

func (m *Manager) autosaveLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = m.Save()
		case <-m.stopChan:
			return
		}
	}
}

// Stop ends autosaving and writes the final state.
func (m *Manager) Stop() error {
	m.stopOnce.Do(func() { close(m.stopChan) })
	return m.Save()
}
