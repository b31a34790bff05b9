// Package passgen generates random passwords from a configurable charset
// and estimates their strength.
package passgen

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
)

const (
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*()-_=+[]{};:,.<>?"

	// ambiguousChars are easily confused glyphs removed when the caller
	// asks for an unambiguous password.
	ambiguousChars = "Il1O0o"

	DefaultLength = 20
	MinLength     = 4
	MaxLength     = 256
)

var (
	ErrEmptyCharset = errors.New("no character classes selected")
	ErrBadLength    = errors.New("invalid password length")
)

// Options selects the character classes and length of a generated
// password.
type Options struct {
	Length           int  `json:"length"`
	Lowercase        bool `json:"lowercase"`
	Uppercase        bool `json:"uppercase"`
	Digits           bool `json:"digits"`
	Symbols          bool `json:"symbols"`
	ExcludeAmbiguous bool `json:"exclude_ambiguous"`
}

// DefaultOptions enables every class at the default length.
func DefaultOptions() Options {
	return Options{
		Length:    DefaultLength,
		Lowercase: true,
		Uppercase: true,
		Digits:    true,
		Symbols:   true,
	}
}

// classes returns the enabled character classes, each already filtered for
// ambiguous glyphs when requested.
func (o Options) classes() []string {
	var out []string
	add := func(chars string) {
		if o.ExcludeAmbiguous {
			chars = stripAmbiguous(chars)
		}
		if chars != "" {
			out = append(out, chars)
		}
	}
	if o.Lowercase {
		add(lowerChars)
	}
	if o.Uppercase {
		add(upperChars)
	}
	if o.Digits {
		add(digitChars)
	}
	if o.Symbols {
		add(symbolChars)
	}
	return out
}

func stripAmbiguous(chars string) string {
	var b strings.Builder
	for _, c := range chars {
		if !strings.ContainsRune(ambiguousChars, c) {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// Generate produces a random password. Every enabled character class
// contributes at least one character, so a generated password always
// satisfies the policy it was generated under.
func Generate(opts Options) (string, error) {
	if opts.Length < MinLength || opts.Length > MaxLength {
		return "", fmt.Errorf("%w: %d (must be %d-%d)", ErrBadLength, opts.Length, MinLength, MaxLength)
	}
	classes := opts.classes()
	if len(classes) == 0 {
		return "", ErrEmptyCharset
	}
	if opts.Length < len(classes) {
		return "", fmt.Errorf("%w: %d is shorter than the %d selected classes", ErrBadLength, opts.Length, len(classes))
	}

	charset := strings.Join(classes, "")

	out := make([]byte, opts.Length)
	// one guaranteed pick per class, the rest from the full charset
	for i, class := range classes {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		out[i] = c
	}
	for i := len(classes); i < opts.Length; i++ {
		c, err := randomChar(charset)
		if err != nil {
			return "", err
		}
		out[i] = c
	}

	if err := shuffle(out); err != nil {
		return "", err
	}
	return string(out), nil
}

// StrengthBits estimates entropy as length * log2(charset size). This
// matches what the generator can actually produce and is what the UI shows
// next to the generated password.
func StrengthBits(opts Options) float64 {
	charset := strings.Join(opts.classes(), "")
	if len(charset) == 0 || opts.Length <= 0 {
		return 0
	}
	return float64(opts.Length) * math.Log2(float64(len(charset)))
}

// StrengthLabel buckets a bit estimate for display.
func StrengthLabel(bits float64) string {
	switch {
	case bits >= 128:
		return "excellent"
	case bits >= 80:
		return "strong"
	case bits >= 60:
		return "good"
	case bits >= 40:
		return "weak"
	default:
		return "very weak"
	}
}

func randomChar(charset string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random character: %w", err)
	}
	return charset[n.Int64()], nil
}

// shuffle randomizes positions so the guaranteed class picks do not sit at
// the front.
func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("failed to shuffle password: %w", err)
		}
		j := n.Int64()
		b[i], b[j] = b[j], b[i]
	}
	return nil
}
