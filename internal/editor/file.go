package editor

import (
	"fmt"
	"os"

	"github.com/kobzarvs/cedit/internal/codec"
	"github.com/kobzarvs/cedit/internal/diffdoc"
	"github.com/kobzarvs/cedit/internal/document"
	"github.com/kobzarvs/cedit/internal/logger"
)

// OpenFile reads path through the text codec and replaces the document.
func (e *Engine) OpenFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	text, err := e.codec.Decode(raw)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	doc := document.FromText(text)
	e.SetDocument(doc.Lines())
	e.path = path
	e.SetRecentlyUsedPath(path)
	logger.Info("opened file", "path", path, "lines", doc.Len(), "codec", e.codec.Name())
	return nil
}

// OpenDiff shows the changes from base to the file at path. Both sides go
// through the text codec. Saving writes only the current side.
func (e *Engine) OpenDiff(path string, base []byte) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	after, err := e.codec.Decode(raw)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	before, err := e.codec.Decode(base)
	if err != nil {
		return fmt.Errorf("open %s base: %w", path, err)
	}
	lines := diffdoc.Build(string(before), string(after))
	e.SetDocument(lines)
	e.path = path
	e.SetRecentlyUsedPath(path)
	added, deleted, hunks := diffdoc.Stats(lines)
	e.setStatus(fmt.Sprintf("+%d -%d in %d hunks", added, deleted, hunks))
	logger.Info("opened diff", "path", path, "added", added, "deleted", deleted)
	return nil
}

// SaveFile encodes the document with the text codec and writes it to path.
// Deleted lines of a diff are not written. Every line ends with '\n'.
func (e *Engine) SaveFile(path string) error {
	var text []byte
	for _, l := range e.editorCx.doc.Lines() {
		if l.Type == document.Del {
			continue
		}
		text = append(text, l.Text...)
		text = append(text, '\n')
	}
	data, err := e.codec.Encode(text)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	e.path = path
	e.changed = false
	e.SetRecentlyUsedPath(path)
	logger.Info("saved file", "path", path, "bytes", len(data))
	e.updateVisibility(false, false, false)
	return nil
}

// SetTextCodec selects the charset used by OpenFile and SaveFile.
func (e *Engine) SetTextCodec(name string) error {
	c, err := codec.Lookup(name)
	if err != nil {
		return err
	}
	e.codec = c
	logger.Info("text codec", "name", c.Name())
	return nil
}

func (e *Engine) TextCodec() string {
	return e.codec.Name()
}

// Path is the file the document was last opened from or saved to.
func (e *Engine) Path() string {
	return e.path
}

func (e *Engine) SetRecentlyUsedPath(path string) {
	e.recentPath = path
}

func (e *Engine) RecentlyUsedPath() string {
	return e.recentPath
}

const exampleBefore = `package main

import "fmt"

func main() {
	fmt.Println("hello, world")
	// 日本語のコメント
}
`

const exampleAfter = `package main

import "fmt"

func main() {
	name := "cedit"
	fmt.Println("hello,", name)
	// 日本語のコメント
}
`

// LoadExampleFile seeds the editor with a built-in diff sample.
func (e *Engine) LoadExampleFile() {
	e.SetDocument(diffdoc.Build(exampleBefore, exampleAfter))
	e.path = ""
}
