package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Keybinding represents a single key combination.
type Keybinding struct {
	Key  tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

// Config holds user configuration values: the keymap, the grid headers, and
// the persistence knobs.
type Config struct {
	Keymap  map[string]Keybinding
	Headers []string

	// DataDir overrides the platform user-data root when non-empty.
	DataDir string
	// RulesFile and DefaultsFile are the logical names of the two grids.
	RulesFile    string
	DefaultsFile string
}

// Default returns a Config with default key mappings, headers and file names.
func Default() *Config {
	return &Config{
		Keymap:       DefaultKeymap(),
		Headers:      []string{"Header1", "Header2", "Header3"},
		RulesFile:    "rules.json",
		DefaultsFile: "default.json",
	}
}

// DefaultKeymap provides builtin command bindings.
func DefaultKeymap() map[string]Keybinding {
	return map[string]Keybinding{
		"quit":    mustParse("Ctrl+Q"),
		"save":    mustParse("Ctrl+S"),
		"find":    mustParse("Ctrl+F"),
		"palette": mustParse("Ctrl+T"),
	}
}

// Load loads configuration from the provided path. If the file does not
// exist, defaults are returned. The format is a small YAML subset: flat
// `key: value` pairs, a `keymap:` section of `command: Ctrl+X` bindings and
// a `headers:` section of `- Name` list items.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	section := ""
	headersSet := false
	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		indented := strings.HasPrefix(raw, " ") || strings.HasPrefix(raw, "\t")
		if !indented {
			section = ""
		}
		if strings.HasPrefix(line, "-") {
			if section != "headers" {
				return nil, errors.New("unexpected list item: " + line)
			}
			h := strings.TrimSpace(strings.TrimPrefix(line, "-"))
			if h == "" {
				return nil, errors.New("empty header entry")
			}
			if !headersSet {
				// the first configured header replaces the defaults
				cfg.Headers = nil
				headersSet = true
			}
			cfg.Headers = append(cfg.Headers, h)
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			return nil, errors.New("invalid config line: " + line)
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		if val == "" {
			section = key
			continue
		}
		switch section {
		case "keymap":
			kb, err := ParseKeybinding(val)
			if err != nil {
				return nil, err
			}
			cfg.Keymap[key] = kb
		case "":
			switch key {
			case "data_dir":
				cfg.DataDir = val
			case "rules_file":
				cfg.RulesFile = val
			case "defaults_file":
				cfg.DefaultsFile = val
			}
		}
	}
	return cfg, nil
}

// LoadDefault attempts to read ~/.xlsxcsv/config.yaml.
func LoadDefault() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Default(), nil
	}
	path := filepath.Join(home, ".xlsxcsv", "config.yaml")
	return Load(path)
}

// ParseKeybinding converts a textual key description like "Ctrl+S" into a
// Keybinding. Currently only Ctrl+<letter> is supported.
func ParseKeybinding(s string) (Keybinding, error) {
	parts := strings.Split(s, "+")
	if len(parts) != 2 {
		return Keybinding{}, errors.New("invalid keybinding: " + s)
	}
	if !strings.EqualFold(parts[0], "ctrl") {
		return Keybinding{}, errors.New("invalid modifier in keybinding: " + s)
	}
	r := []rune(strings.ToLower(parts[1]))
	if len(r) != 1 || r[0] < 'a' || r[0] > 'z' {
		return Keybinding{}, errors.New("invalid key in keybinding: " + s)
	}
	return Keybinding{Key: tcell.KeyRune, Rune: r[0], Mod: tcell.ModCtrl}, nil
}

func mustParse(s string) Keybinding {
	kb, _ := ParseKeybinding(s)
	return kb
}

var ctrlMap = map[rune]tcell.Key{
	'a': tcell.KeyCtrlA,
	'b': tcell.KeyCtrlB,
	'c': tcell.KeyCtrlC,
	'd': tcell.KeyCtrlD,
	'e': tcell.KeyCtrlE,
	'f': tcell.KeyCtrlF,
	'g': tcell.KeyCtrlG,
	'h': tcell.KeyCtrlH,
	'i': tcell.KeyCtrlI,
	'j': tcell.KeyCtrlJ,
	'k': tcell.KeyCtrlK,
	'l': tcell.KeyCtrlL,
	'm': tcell.KeyCtrlM,
	'n': tcell.KeyCtrlN,
	'o': tcell.KeyCtrlO,
	'p': tcell.KeyCtrlP,
	'q': tcell.KeyCtrlQ,
	'r': tcell.KeyCtrlR,
	's': tcell.KeyCtrlS,
	't': tcell.KeyCtrlT,
	'u': tcell.KeyCtrlU,
	'v': tcell.KeyCtrlV,
	'w': tcell.KeyCtrlW,
	'x': tcell.KeyCtrlX,
	'y': tcell.KeyCtrlY,
	'z': tcell.KeyCtrlZ,
}

// Matches returns true if the binding matches the provided event.
func (k Keybinding) Matches(ev *tcell.EventKey) bool {
	if k.Key == ev.Key() && k.Rune == ev.Rune() && k.Mod == ev.Modifiers() {
		return true
	}
	if k.Key == tcell.KeyRune && k.Mod == tcell.ModCtrl {
		if ctrlKey, ok := ctrlMap[k.Rune]; ok && ev.Key() == ctrlKey {
			return true
		}
	}
	return false
}
