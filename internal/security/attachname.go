package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrEmptyName  = errors.New("empty attachment name not allowed")
	ErrUnsafeName = errors.New("unsafe attachment name")
)

// SanitizeName validates an attachment name before it is used as a file
// name. Attachment names come back from the backend over the bridge, so
// they are treated as untrusted input: anything that is not a plain local
// file name is rejected rather than repaired.
func SanitizeName(name string) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}
	if strings.ContainsAny(name, "/\\") {
		return "", fmt.Errorf("%w: %q contains a path separator", ErrUnsafeName, name)
	}
	// filepath.IsLocal rejects "..", absolute paths, and Windows reserved
	// names (CON, NUL, ...)
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %q", ErrUnsafeName, name)
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return "", fmt.Errorf("%w: %q contains a control character", ErrUnsafeName, name)
		}
	}
	return name, nil
}

// Saver writes attachment files into a single directory, confined with
// os.Root so a hostile name cannot land outside it.
type Saver struct {
	root *os.Root
	dir  string
}

// NewSaver creates the target directory if needed and opens it as a root.
func NewSaver(dir string) (*Saver, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	if err := os.MkdirAll(absDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	root, err := os.OpenRoot(absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory root: %w", err)
	}
	return &Saver{root: root, dir: absDir}, nil
}

// Close releases the directory handle.
func (s *Saver) Close() error {
	if s.root != nil {
		return s.root.Close()
	}
	return nil
}

// Dir returns the absolute directory attachments are saved into.
func (s *Saver) Dir() string {
	return s.dir
}

// SaveFile validates name and writes data under the saver's directory.
func (s *Saver) SaveFile(name string, data []byte) error {
	validName, err := SanitizeName(name)
	if err != nil {
		return err
	}
	if err := s.root.WriteFile(validName, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", validName, err)
	}
	return nil
}
