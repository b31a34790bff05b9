package cards

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// RenderNotesDiff produces a readable diff between the local and remote
// notes of a card, shown when an update hits a version conflict so the
// user can decide what to keep before retrying.
func RenderNotesDiff(local, remote string) string {
	if local == remote {
		return "(notes are identical)"
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(remote, local, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		text := strings.TrimRight(d.Text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			fmt.Fprintf(&b, "+ %s\n", text)
		case diffmatchpatch.DiffDelete:
			fmt.Fprintf(&b, "- %s\n", text)
		case diffmatchpatch.DiffEqual:
			fmt.Fprintf(&b, "  %s\n", text)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
