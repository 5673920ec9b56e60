package editor

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kobzarvs/cedit/internal/logger"
)

type Command int

const (
	CmdNone Command = iota
	CmdUp
	CmdDown
	CmdRight
	CmdLeft
	CmdHome
	CmdEnd
	CmdInsert
	CmdDelete
	CmdPageUp
	CmdPageDown
	CmdEscape
	CmdEnter
	CmdBackspace
	CmdCut
	CmdCopy
	CmdPaste
	CmdQuit
	CmdOpen
	CmdSave
	CmdToggleSelection
	CmdTop
	CmdBottom
)

var commandNames = map[Command]string{
	CmdUp:              "up",
	CmdDown:            "down",
	CmdRight:           "right",
	CmdLeft:            "left",
	CmdHome:            "home",
	CmdEnd:             "end",
	CmdInsert:          "insert",
	CmdDelete:          "delete",
	CmdPageUp:          "page_up",
	CmdPageDown:        "page_down",
	CmdEscape:          "escape",
	CmdEnter:           "enter",
	CmdBackspace:       "backspace",
	CmdCut:             "cut",
	CmdCopy:            "copy",
	CmdPaste:           "paste",
	CmdQuit:            "quit",
	CmdOpen:            "open",
	CmdSave:            "save",
	CmdToggleSelection: "toggle_selection",
	CmdTop:             "top",
	CmdBottom:          "bottom",
}

func (c Command) String() string {
	if s, ok := commandNames[c]; ok {
		return s
	}
	return "none"
}

// ParseCommand maps a keymap command name to a Command.
func ParseCommand(name string) (Command, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, s := range commandNames {
		if s == name {
			return c, true
		}
	}
	return CmdNone, false
}

var ErrNotPrefixFree = errors.New("escape table is not prefix-free")

// DefaultEscapes are the VT sequences of the navigation keys.
var DefaultEscapes = map[string]Command{
	"\x1b[A":  CmdUp,
	"\x1b[B":  CmdDown,
	"\x1b[C":  CmdRight,
	"\x1b[D":  CmdLeft,
	"\x1bOH":  CmdHome,
	"\x1bOF":  CmdEnd,
	"\x1b[2~": CmdInsert,
	"\x1b[3~": CmdDelete,
	"\x1b[5~": CmdPageUp,
	"\x1b[6~": CmdPageDown,
}

type trieNode struct {
	next map[byte]*trieNode
	cmd  Command
}

// EscapeMatcher recognises escape sequences in a byte stream. No sequence in
// its table is a prefix of another, so the first complete match is the only
// one.
type EscapeMatcher struct {
	root *trieNode
}

func NewEscapeMatcher(table map[string]Command) (*EscapeMatcher, error) {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	root := &trieNode{}
	for _, seq := range keys {
		cmd := table[seq]
		if seq == "" || cmd == CmdNone {
			return nil, fmt.Errorf("escape %q: empty sequence or command", seq)
		}
		n := root
		for i := 0; i < len(seq); i++ {
			if n.cmd != CmdNone {
				return nil, fmt.Errorf("%w: %q", ErrNotPrefixFree, seq)
			}
			child, ok := n.next[seq[i]]
			if !ok {
				if n.next == nil {
					n.next = make(map[byte]*trieNode)
				}
				child = &trieNode{}
				n.next[seq[i]] = child
			}
			n = child
		}
		if len(n.next) > 0 || n.cmd != CmdNone {
			return nil, fmt.Errorf("%w: %q", ErrNotPrefixFree, seq)
		}
		n.cmd = cmd
	}
	return &EscapeMatcher{root: root}, nil
}

// DefaultEscapeMatcher builds the matcher for DefaultEscapes.
func DefaultEscapeMatcher() *EscapeMatcher {
	m, err := NewEscapeMatcher(DefaultEscapes)
	if err != nil {
		panic(err)
	}
	return m
}

// Input is either a command or a run of literal bytes.
type Input struct {
	Cmd  Command
	Text []byte
}

// match returns the command of the sequence starting at b[0] and its length.
// partial is set when b ends inside a table sequence.
func (m *EscapeMatcher) match(b []byte) (cmd Command, n int, partial bool) {
	node := m.root
	for i := 0; i < len(b); i++ {
		child, ok := node.next[b[i]]
		if !ok {
			return CmdNone, 0, false
		}
		node = child
		if node.cmd != CmdNone {
			return node.cmd, i + 1, false
		}
	}
	return CmdNone, 0, len(b) > 0
}

// Decode splits b into commands and literal text. An ESC that does not start
// a known sequence decodes to CmdEscape.
func (m *EscapeMatcher) Decode(b []byte) []Input {
	out, _ := m.decode(b, false)
	return out
}

// DecodePrefix is Decode for input that may continue in a later call. When b
// ends with an unfinished table sequence longer than a lone ESC, those bytes
// are returned as rest instead of being decoded.
func (m *EscapeMatcher) DecodePrefix(b []byte) (out []Input, rest []byte) {
	return m.decode(b, true)
}

func (m *EscapeMatcher) decode(b []byte, keepTail bool) ([]Input, []byte) {
	var out []Input
	lit := 0
	flush := func(i int) {
		if i > lit {
			out = append(out, Input{Text: b[lit:i]})
		}
	}
	for i := 0; i < len(b); {
		cmd, n, partial := m.match(b[i:])
		if n > 0 {
			flush(i)
			out = append(out, Input{Cmd: cmd})
			i += n
			lit = i
			continue
		}
		if partial && keepTail && len(b)-i > 1 {
			flush(i)
			return out, b[i:]
		}
		if b[i] == 0x1b {
			flush(i)
			out = append(out, Input{Cmd: CmdEscape})
			i++
			lit = i
			continue
		}
		i++
	}
	flush(len(b))
	return out, nil
}

// Exec runs a command on the active context.
func (e *Engine) Exec(cmd Command) {
	switch cmd {
	case CmdUp:
		e.MoveCursorUp()
	case CmdDown:
		e.MoveCursorDown()
	case CmdRight:
		e.MoveCursorRight()
	case CmdLeft:
		e.MoveCursorLeft()
	case CmdHome:
		e.MoveCursorHome()
	case CmdEnd:
		e.MoveCursorEnd()
	case CmdInsert:
		e.toggleWriteMode()
	case CmdDelete:
		e.DoDelete()
	case CmdPageUp:
		e.MovePageUp()
	case CmdPageDown:
		e.MovePageDown()
	case CmdEscape:
		e.PressEscape()
	case CmdEnter:
		e.PressEnter()
	case CmdBackspace:
		e.DoBackspace()
	case CmdCut:
		e.EditCut()
	case CmdCopy:
		e.EditCopy()
	case CmdPaste:
		e.EditPaste()
	case CmdQuit:
		e.onQuit()
	case CmdOpen:
		e.OpenFileDialog()
	case CmdSave:
		e.SaveFileDialog()
	case CmdToggleSelection:
		e.ToggleSelectionAnchor()
	case CmdTop:
		e.MoveToTop()
	case CmdBottom:
		e.MoveToBottom()
	}
}

func (e *Engine) pressLetterWithControl(c rune) {
	cmd, ok := e.controlKeys[c]
	if !ok {
		logger.Debug("unbound control key", "key", string(c))
		return
	}
	logger.Debug("control key", "key", string(c), "command", cmd.String())
	e.Exec(cmd)
}

func (e *Engine) onQuit() {
	if e.dialogMode {
		e.closeDialog(false)
	}
	e.state = StateExit
	logger.Info("quit requested", "changed", e.changed)
}
