package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Keymap struct {
	// Control maps the letter of a control chord to a command name.
	Control map[string]string `toml:"control"`
}

type EditorOptions struct {
	TabWidth          int    `toml:"tab-width"`
	ScrollLeftMargin  int    `toml:"scroll-left-margin"`
	ScrollRightMargin int    `toml:"scroll-right-margin"`
	LineNumbers       bool   `toml:"line-numbers"`
	LineNumberWidth   int    `toml:"line-number-width"`
	Header            bool   `toml:"header"`
	Footer            bool   `toml:"footer"`
	ReadOnly          bool   `toml:"read-only"`
	WriteMode         string `toml:"write-mode"`
	Codec             string `toml:"codec"`
	SystemClipboard   bool   `toml:"system-clipboard"`
}

type Theme struct {
	Theme                 string   `toml:"theme"`
	Foreground            string   `toml:"foreground"`
	Background            string   `toml:"background"`
	InvertForeground      string   `toml:"invert-foreground"`
	InvertBackground      string   `toml:"invert-background"`
	HiliteForeground      string   `toml:"hilite-foreground"`
	HiliteBackground      string   `toml:"hilite-background"`
	SelectionForeground   string   `toml:"selection-foreground"`
	SelectionBackground   string   `toml:"selection-background"`
	AddBackground         string   `toml:"add-background"`
	DelBackground         string   `toml:"del-background"`
	LineNumberForeground  string   `toml:"line-number-foreground"`
	CurrentLineBackground string   `toml:"current-line-background"`
	Palette               []string `toml:"palette"`
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Theme  Theme         `toml:"theme"`
	Keymap Keymap        `toml:"keymap"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:          4,
			ScrollLeftMargin:  8,
			ScrollRightMargin: 10,
			LineNumbers:       true,
			LineNumberWidth:   8,
			Header:            true,
			Footer:            true,
			WriteMode:         "insert",
			Codec:             "utf-8",
		},
		Theme: Theme{
			Foreground:            "#B3B1AD",
			Background:            "#0A0E14",
			InvertForeground:      "#0A0E14",
			InvertBackground:      "#B3B1AD",
			HiliteForeground:      "#0A0E14",
			HiliteBackground:      "#E6B450",
			SelectionForeground:   "#B3B1AD",
			SelectionBackground:   "#27425A",
			AddBackground:         "#1B3B1B",
			DelBackground:         "#4B1B1B",
			LineNumberForeground:  "#3E4B59",
			CurrentLineBackground: "#0F1419",
			Palette: []string{
				"#B3B1AD", "#FFA759", "#BAE67E", "#5C6773",
				"#5CCFE6", "#FFD173", "#D4BFFF", "#F29668",
			},
		},
		Keymap: Keymap{
			Control: map[string]string{
				"x": "cut",
				"c": "copy",
				"v": "paste",
				"q": "quit",
				"o": "open",
				"s": "save",
				"t": "toggle_selection",
			},
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	// Decode over the defaults so that booleans the user leaves out keep
	// their default value.
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Default(), err
	}
	def := Default()
	if cfg.Editor.TabWidth < 1 {
		cfg.Editor.TabWidth = def.Editor.TabWidth
	}
	if cfg.Editor.ScrollLeftMargin < 0 {
		cfg.Editor.ScrollLeftMargin = def.Editor.ScrollLeftMargin
	}
	if cfg.Editor.ScrollRightMargin < 0 {
		cfg.Editor.ScrollRightMargin = def.Editor.ScrollRightMargin
	}
	if cfg.Editor.LineNumberWidth < 1 {
		cfg.Editor.LineNumberWidth = def.Editor.LineNumberWidth
	}
	if cfg.Editor.WriteMode == "" {
		cfg.Editor.WriteMode = def.Editor.WriteMode
	}
	if cfg.Editor.Codec == "" {
		cfg.Editor.Codec = def.Editor.Codec
	}
	var user Config
	if _, err := toml.Decode(string(data), &user); err != nil {
		return Default(), err
	}
	cfg.Theme = def.Theme
	if user.Theme.Theme != "" {
		theme, err := LoadTheme(user.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
		cfg.Theme.Theme = user.Theme.Theme
	}
	mergeTheme(&cfg.Theme, user.Theme)
	// Keymap entries from the file are merged over the defaults.
	control := def.Keymap.Control
	for k, v := range cfg.Keymap.Control {
		control[k] = v
	}
	cfg.Keymap.Control = control
	return cfg, nil
}

func mergeTheme(dst *Theme, src Theme) {
	set := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	set(&dst.Foreground, src.Foreground)
	set(&dst.Background, src.Background)
	set(&dst.InvertForeground, src.InvertForeground)
	set(&dst.InvertBackground, src.InvertBackground)
	set(&dst.HiliteForeground, src.HiliteForeground)
	set(&dst.HiliteBackground, src.HiliteBackground)
	set(&dst.SelectionForeground, src.SelectionForeground)
	set(&dst.SelectionBackground, src.SelectionBackground)
	set(&dst.AddBackground, src.AddBackground)
	set(&dst.DelBackground, src.DelBackground)
	set(&dst.LineNumberForeground, src.LineNumberForeground)
	set(&dst.CurrentLineBackground, src.CurrentLineBackground)
	if len(src.Palette) > 0 {
		dst.Palette = append([]string(nil), src.Palette...)
	}
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err == nil {
		return t, nil
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err != nil {
		return Theme{}, err
	}
	return wrap.Theme, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("CEDIT_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "cedit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cedit"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
