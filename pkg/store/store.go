package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RepoDirName is the directory under the user-data root that holds every
// persisted grid file.
const RepoDirName = "xlsx_csv_repo"

// EnvDataDir names the environment variable that overrides the user-data
// root. Useful for tests and portable installs.
const EnvDataDir = "XLSXCSV_DATA_DIR"

// ErrNotFound reports that no grid file exists at the requested path. Callers
// usually convert it to an empty grid.
var ErrNotFound = errors.New("grid file not found")

// FormatError reports a persisted file whose content is not a JSON array of
// arrays of strings. It is distinct from ErrNotFound and from plain I/O
// errors so callers can warn about corruption instead of treating the file
// as missing.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid grid file %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// ResolvePath maps a logical grid name (e.g. "rules.json") to its file path
// under <user-data root>/xlsx_csv_repo, creating the repo directory when
// absent. Repeated calls return the identical path and never fail because
// the directory already exists. The root is XLSXCSV_DATA_DIR when set,
// otherwise the platform user-config directory.
func ResolvePath(logicalName string) (string, error) {
	if err := validateName(logicalName); err != nil {
		return "", err
	}
	root, err := dataRoot()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, RepoDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return filepath.Join(dir, logicalName), nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("logical name is empty")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("logical name %q must be a bare file name", name)
	}
	return nil
}

func dataRoot() (string, error) {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir, nil
	}
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate user data root: %w", err)
	}
	return filepath.Join(home, ".config"), nil
}

// Save writes rows to path as a JSON array of arrays of strings, replacing
// the whole file. An empty row set is written as []. Write failures are
// returned to the caller, never swallowed.
func Save(path string, rows [][]string) error {
	out := make([][]string, len(rows))
	for i, r := range rows {
		if r == nil {
			r = []string{}
		}
		out[i] = r
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Load reads the rows persisted at path, in file order. A missing file is
// reported as ErrNotFound. Content that is not a JSON array of arrays of
// strings is reported as a *FormatError. Other read failures come back as
// plain I/O errors. Row widths are returned exactly as stored; re-homing
// them to the current header width is the grid's job.
func Load(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var rows [][]string
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}
	if rows == nil {
		// the literal null parses cleanly but is not an array
		return nil, &FormatError{Path: path, Err: errors.New("top-level value is not an array")}
	}
	return rows, nil
}
