// Package cookiefile persists cookie snapshots as an indented JSON array.
package cookiefile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"browser-automation/internal/application/port/output"
	"browser-automation/internal/domain/entity"
)

var _ output.CookieWriter = (*Writer)(nil)

const fileMode = 0o600

type Writer struct {
	path string
}

func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Save overwrites the file with cookies and returns its absolute path.
func (w *Writer) Save(cookies []entity.Cookie) (string, error) {
	if cookies == nil {
		cookies = []entity.Cookie{}
	}

	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode cookies: %w", err)
	}

	path, err := filepath.Abs(w.path)
	if err != nil {
		return "", fmt.Errorf("resolve cookie path: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create cookie dir: %w", err)
		}
	}

	if err := os.WriteFile(path, append(data, '\n'), fileMode); err != nil {
		return "", fmt.Errorf("write cookies: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, fileMode); err != nil {
		return "", fmt.Errorf("chmod cookies: %w", err)
	}

	return path, nil
}

// Load reads a snapshot written by Save.
func Load(path string) ([]entity.Cookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cookies []entity.Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("decode cookies: %w", err)
	}
	return cookies, nil
}
