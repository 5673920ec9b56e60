package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestManagerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	m, err := NewManager(path, 0)
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	if _, ok := m.FileState("/a.txt"); ok {
		t.Fatalf("FileState found in empty session")
	}
	m.SetFileState("/a.txt", FileState{CursorRow: 3, CursorCol: 7, ScrollRow: 1, Codec: "shift_jis"})
	m.SetRecentPath("/a.txt")
	if err := m.Stop(); err != nil {
		t.Fatalf("Stop error: %v", err)
	}

	m2, err := NewManager(path, 0)
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	defer m2.Stop()
	st, ok := m2.FileState("/a.txt")
	if !ok {
		t.Fatalf("FileState missing after reload")
	}
	if st.CursorRow != 3 || st.CursorCol != 7 || st.ScrollRow != 1 || st.Codec != "shift_jis" {
		t.Fatalf("FileState = %+v", st)
	}
	if got := m2.RecentPath(); got != "/a.txt" {
		t.Fatalf("RecentPath = %q, want %q", got, "/a.txt")
	}
}

func TestDefaultPathUsesStateHome(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	p, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath error: %v", err)
	}
	if p != filepath.Join("/tmp/state", "cedit", "session.json") {
		t.Fatalf("DefaultPath = %q", p)
	}
}

func TestSaveSkipsCleanSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	m, err := NewManager(path, 0)
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	if err := m.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := m.Stop(); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	if err := m.Stop(); err != nil {
		t.Fatalf("second Stop error: %v", err)
	}
}

func TestSetFileStateUnchangedStaysClean(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "session.json"), 0)
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	defer m.Stop()
	st := FileState{CursorRow: 2, Codec: "utf-8"}
	m.SetFileState("/a.txt", st)
	if err := m.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	m.SetFileState("/a.txt", st)
	if m.dirty {
		t.Fatalf("same state marked the session dirty")
	}
	st.CursorRow = 3
	m.SetFileState("/a.txt", st)
	if !m.dirty {
		t.Fatalf("new state did not mark the session dirty")
	}
}

func TestAutosaveWritesBeforeStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	m, err := NewManager(path, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	defer m.Stop()
	m.SetFileState("/a.txt", FileState{CursorRow: 4})

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(path); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("autosave did not write %s", path)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
