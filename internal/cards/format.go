package cards

import (
	"fmt"
	"time"
)

// MaskSecret replaces a secret with a fixed-width mask for display. The
// mask length is constant so output never leaks the secret's length.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}

// FormatSize renders a byte count for attachment listings.
func FormatSize(size int64) string {
	const (
		kib = 1024
		mib = 1024 * kib
	)
	switch {
	case size >= mib:
		return fmt.Sprintf("%.1f MiB", float64(size)/mib)
	case size >= kib:
		return fmt.Sprintf("%.1f KiB", float64(size)/kib)
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// FormatRelative renders a timestamp relative to now for list views.
func FormatRelative(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
