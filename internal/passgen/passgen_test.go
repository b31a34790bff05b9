package passgen

import (
	"strings"
	"testing"
)

func TestGenerateLength(t *testing.T) {
	opts := DefaultOptions()
	opts.Length = 32

	p, err := Generate(opts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(p) != 32 {
		t.Errorf("Length = %d, want 32", len(p))
	}
}

func TestGenerateCoversEnabledClasses(t *testing.T) {
	opts := DefaultOptions()
	opts.Length = MinLength // tightest case: one slot per class

	for i := 0; i < 50; i++ {
		p, err := Generate(opts)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if !strings.ContainsAny(p, lowerChars) {
			t.Fatalf("Password %q missing lowercase", p)
		}
		if !strings.ContainsAny(p, upperChars) {
			t.Fatalf("Password %q missing uppercase", p)
		}
		if !strings.ContainsAny(p, digitChars) {
			t.Fatalf("Password %q missing digit", p)
		}
		if !strings.ContainsAny(p, symbolChars) {
			t.Fatalf("Password %q missing symbol", p)
		}
	}
}

func TestGenerateDigitsOnly(t *testing.T) {
	opts := Options{Length: 8, Digits: true}

	p, err := Generate(opts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for _, c := range p {
		if !strings.ContainsRune(digitChars, c) {
			t.Errorf("Password %q contains non-digit %q", p, c)
		}
	}
}

func TestGenerateExcludesAmbiguous(t *testing.T) {
	opts := DefaultOptions()
	opts.ExcludeAmbiguous = true

	for i := 0; i < 20; i++ {
		p, err := Generate(opts)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if strings.ContainsAny(p, ambiguousChars) {
			t.Fatalf("Password %q contains ambiguous character", p)
		}
	}
}

func TestGenerateEmptyCharset(t *testing.T) {
	if _, err := Generate(Options{Length: 12}); err != ErrEmptyCharset {
		t.Errorf("Expected ErrEmptyCharset, got %v", err)
	}
}

func TestGenerateBadLength(t *testing.T) {
	opts := DefaultOptions()
	opts.Length = 0
	if _, err := Generate(opts); err == nil {
		t.Error("Expected error for zero length")
	}

	opts.Length = MaxLength + 1
	if _, err := Generate(opts); err == nil {
		t.Error("Expected error for oversized length")
	}
}

func TestGenerateUnique(t *testing.T) {
	opts := DefaultOptions()
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		p, err := Generate(opts)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if seen[p] {
			t.Fatalf("Duplicate password generated: %q", p)
		}
		seen[p] = true
	}
}

func TestStrengthBits(t *testing.T) {
	opts := Options{Length: 10, Digits: true}
	bits := StrengthBits(opts)
	// 10 digits out of a 10-character set: 10 * log2(10) ≈ 33.2 bits
	if bits < 33.0 || bits > 33.5 {
		t.Errorf("StrengthBits = %.2f, want about 33.2", bits)
	}

	if StrengthBits(Options{Length: 10}) != 0 {
		t.Error("Empty charset should estimate 0 bits")
	}
}

func TestStrengthLabel(t *testing.T) {
	tests := []struct {
		bits  float64
		label string
	}{
		{130, "excellent"},
		{90, "strong"},
		{65, "good"},
		{45, "weak"},
		{20, "very weak"},
	}
	for _, tt := range tests {
		if got := StrengthLabel(tt.bits); got != tt.label {
			t.Errorf("StrengthLabel(%.0f) = %q, want %q", tt.bits, got, tt.label)
		}
	}
}
