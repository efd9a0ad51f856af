// Package view holds the two-state presentation machine: the record listing
// and the analysis results, plus the results search filter.
package view

import (
	"strings"
	"sync"
)

// Mode is the current presentation state.
type Mode string

const (
	ModeListing Mode = "listing"
	ModeResults Mode = "results"
)

// Controller serializes view-mode and search-term updates. The results mode
// is entered automatically when an analysis run completes; going back is
// explicit.
type Controller struct {
	mu     sync.Mutex
	mode   Mode
	search string
}

// NewController starts in the listing mode.
func NewController() *Controller {
	return &Controller{mode: ModeListing}
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// ShowResults switches to the results presentation.
func (c *Controller) ShowResults() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeResults
}

// Back returns to the listing and clears the search term.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeListing
	c.search = ""
}

// SetSearch stores the free-text search term.
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = term
}

// Search returns the current search term.
func (c *Controller) Search() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// Filter keeps the rows matching the current search term: case-insensitive
// substring match against any column value, row included if any column
// matches. An empty term keeps everything.
func (c *Controller) Filter(rows []map[string]string) []map[string]string {
	term := strings.ToLower(strings.TrimSpace(c.Search()))
	if term == "" {
		return rows
	}
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		for _, v := range row {
			if strings.Contains(strings.ToLower(v), term) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
