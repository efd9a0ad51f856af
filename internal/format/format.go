// Package format derives the human-readable size and date labels shown in
// record listings.
package format

import (
	"time"

	"github.com/dustin/go-humanize"
)

// HumanSize renders a byte count like "1.2 MB".
func HumanSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}

// HumanDate renders a timestamp like "Jan 2, 2006 3:04 PM". Zero times
// render as an empty string so optional fields stay blank in listings.
func HumanDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006 3:04 PM")
}

// Ago renders a relative timestamp like "3 minutes ago".
func Ago(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}
