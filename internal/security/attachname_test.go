package security

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeNameAccepts(t *testing.T) {
	valid := []string{
		"scan.pdf",
		"recovery codes.txt",
		"id-card.front.jpg",
		"données.png",
	}
	for _, name := range valid {
		got, err := SanitizeName(name)
		if err != nil {
			t.Errorf("SanitizeName(%q) failed: %v", name, err)
		}
		if got != name {
			t.Errorf("SanitizeName(%q) = %q, want unchanged", name, got)
		}
	}
}

func TestSanitizeNameRejects(t *testing.T) {
	invalid := []string{
		"",
		"..",
		"../escape.txt",
		"dir/inner.txt",
		"dir\\inner.txt",
		"/etc/passwd",
		"evil\x00.txt",
		"line\nbreak.txt",
	}
	for _, name := range invalid {
		if _, err := SanitizeName(name); err == nil {
			t.Errorf("SanitizeName(%q) should fail", name)
		}
	}
}

func TestSaverWritesInsideDir(t *testing.T) {
	dir := t.TempDir()
	saver, err := NewSaver(dir)
	if err != nil {
		t.Fatalf("NewSaver failed: %v", err)
	}
	defer saver.Close()

	if err := saver.SaveFile("note.txt", []byte("hello")); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dir, "note.txt"))
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	if string(content) != "hello" {
		t.Errorf("Content = %q, want hello", content)
	}
}

func TestSaverRejectsEscapingName(t *testing.T) {
	dir := t.TempDir()
	saver, err := NewSaver(filepath.Join(dir, "downloads"))
	if err != nil {
		t.Fatalf("NewSaver failed: %v", err)
	}
	defer saver.Close()

	err = saver.SaveFile("../escape.txt", []byte("nope"))
	if !errors.Is(err, ErrUnsafeName) {
		t.Fatalf("Expected ErrUnsafeName, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.txt")); !os.IsNotExist(err) {
		t.Error("File escaped the download directory")
	}
}
