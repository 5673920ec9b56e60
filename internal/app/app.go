package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/cedit/internal/config"
	"github.com/kobzarvs/cedit/internal/editor"
	"github.com/kobzarvs/cedit/internal/gitinfo"
	"github.com/kobzarvs/cedit/internal/logger"
	"github.com/kobzarvs/cedit/internal/session"
)

const (
	branchPollInterval = 2 * time.Second
	sessionInterval    = 30 * time.Second
)

// Options are the command line settings of one run.
type Options struct {
	Path     string
	Diff     bool
	Example  bool
	Print    bool
	Debug    bool
	Codec    string
	ReadOnly bool
	Terminal bool
	Width    int
	Height   int
	// SessionPath overrides the session file location.
	SessionPath string
}

// App is the top-level runtime for cedit.
type App struct {
	opts Options
	out  io.Writer
	// sess receives the cursor state on every poll tick so the autosave
	// loop has something to write. Nil when sessions are disabled.
	sess *session.Manager
}

func New(opts Options) *App {
	return &App{opts: opts, out: os.Stdout}
}

func (a *App) Run() error {
	if err := logger.Init(a.opts.Debug); err != nil {
		return err
	}
	defer logger.Close()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.opts.Print {
		ed, err := a.newEngine(cfg, nil)
		if err != nil {
			return err
		}
		return a.print(ed)
	}

	sm, err := session.NewManager(a.opts.SessionPath, sessionInterval)
	if err != nil {
		logger.Warn("session disabled", "error", err)
		sm = nil
	}
	ed, err := a.newEngine(cfg, sm)
	if err != nil {
		return err
	}
	a.sess = sm

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	err = a.run(s, ed, cfg)
	if sm != nil {
		a.saveSession(sm, ed)
		if serr := sm.Stop(); serr != nil {
			logger.Warn("session save failed", "error", serr)
		}
	}
	return err
}

// newEngine builds the editor from the configuration and the options and
// loads the requested content.
func (a *App) newEngine(cfg config.Config, sm *session.Manager) (*editor.Engine, error) {
	if a.opts.ReadOnly {
		cfg.Editor.ReadOnly = true
	}
	if a.opts.Codec != "" {
		cfg.Editor.Codec = a.opts.Codec
	}
	ed := editor.New(cfg)
	ed.SetTerminalMode(a.opts.Terminal)
	if cfg.Editor.SystemClipboard {
		ed.SetClipboardSink(clipboard.WriteAll)
	}
	if sm != nil {
		ed.SetRecentlyUsedPath(sm.RecentPath())
	}

	var state session.FileState
	var restore bool
	if sm != nil && a.opts.Path != "" {
		if abs, err := filepath.Abs(a.opts.Path); err == nil {
			state, restore = sm.FileState(abs)
		}
	}
	if restore && a.opts.Codec == "" && state.Codec != "" {
		if err := ed.SetTextCodec(state.Codec); err != nil {
			logger.Warn("ignoring stored codec", "codec", state.Codec, "error", err)
		}
	}

	switch {
	case a.opts.Example:
		ed.LoadExampleFile()
		return ed, nil
	case a.opts.Path == "":
		return ed, nil
	case a.opts.Diff:
		base, err := gitinfo.HeadContent(a.opts.Path)
		if err != nil {
			return nil, err
		}
		if err := ed.OpenDiff(a.opts.Path, base); err != nil {
			return nil, err
		}
	default:
		if err := ed.OpenFile(a.opts.Path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
			// A new file: start empty and offer its name on save.
			ed.SetRecentlyUsedPath(a.opts.Path)
			logger.Info("new file", "path", a.opts.Path)
		}
	}
	if restore {
		ed.SetCursorPos(state.CursorRow, state.CursorCol)
		ed.SetScrollPos(state.ScrollRow, state.ScrollCol)
	}
	return ed, nil
}

// print paints one screen of the document into memory and writes it out.
func (a *App) print(ed *editor.Engine) error {
	w, h := a.opts.Width, a.opts.Height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	ed.SetCursorVisible(false)
	ed.SetScreenSize(w, h, true)
	_, err := fmt.Fprintln(a.out, ed.Screen().String())
	return err
}

// run drives the editor from the screen's events until it asks to exit.
func (a *App) run(s tcell.Screen, ed *editor.Engine, cfg config.Config) error {
	h := newHost(s, ed, cfg.Theme)
	ed.SetHost(h)

	gitPath := a.opts.Path
	if gitPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			gitPath = cwd
		}
	}
	ed.SetBranch(gitinfo.Branch(gitPath))

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(branchPollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				_ = s.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	w, ht := s.Size()
	ed.SetScreenSize(w, ht, true)
	for ed.State() != editor.StateExit {
		switch ev := s.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			h.handleKey(ev)
		case *tcell.EventResize:
			s.Sync()
			w, ht := s.Size()
			ed.SetScreenSize(w, ht, true)
		case *tcell.EventInterrupt:
			ed.SetBranch(gitinfo.Branch(gitPath))
			if a.sess != nil {
				a.saveSession(a.sess, ed)
			}
		}
	}
	logger.Debug("editor exit", "changed", ed.IsChanged())
	return nil
}

// saveSession records where the editor is in sm. The manager writes it out on
// its own schedule.
func (a *App) saveSession(sm *session.Manager, ed *editor.Engine) {
	if p := ed.RecentlyUsedPath(); p != "" {
		if abs, err := filepath.Abs(p); err == nil {
			sm.SetRecentPath(abs)
		}
	}
	path := ed.Path()
	if path == "" {
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	row, col := ed.ScrollPos()
	sm.SetFileState(abs, session.FileState{
		CursorRow: ed.CurrentRow(),
		CursorCol: ed.CurrentCol(),
		ScrollRow: row,
		ScrollCol: col,
		Codec:     ed.TextCodec(),
	})
}
