package clipguard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Port is the clipboard surface the guard consumes. The system clipboard
// implements it; tests substitute an in-memory fake.
type Port interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// SystemPort reads and writes the OS clipboard.
type SystemPort struct{}

func (SystemPort) ReadText() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return text, nil
}

func (SystemPort) WriteText(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}
