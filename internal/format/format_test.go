package format

import (
	"strings"
	"testing"
	"time"
)

func TestHumanSize(t *testing.T) {
	if got := HumanSize(0); got != "0 B" {
		t.Fatalf("unexpected size label: %s", got)
	}
	if got := HumanSize(2_500_000); !strings.Contains(got, "MB") {
		t.Fatalf("expected megabyte label, got %s", got)
	}
	if got := HumanSize(-5); got != "0 B" {
		t.Fatalf("negative size must clamp to zero, got %s", got)
	}
}

func TestHumanDate(t *testing.T) {
	at := time.Date(2026, 8, 23, 15, 4, 0, 0, time.UTC)
	if got := HumanDate(at); got != "Aug 23, 2026 3:04 PM" {
		t.Fatalf("unexpected date label: %s", got)
	}
	if got := HumanDate(time.Time{}); got != "" {
		t.Fatalf("zero time must render empty, got %q", got)
	}
}
