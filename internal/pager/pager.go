// Package pager computes the visible page-button window of a paged list.
package pager

import (
	"strconv"
	"strings"
)

// Default window sizes either side of the current page
const (
	DefaultMaxPrev = 3
	DefaultMaxNext = 3
)

// Window describes which page controls are shown for a given position.
// Pages are 1-indexed.
type Window struct {
	Page       int
	TotalPages int
	StartPage  int
	EndPage    int

	ShowFirst        bool
	LeadingEllipsis  bool
	ShowLast         bool
	TrailingEllipsis bool

	HasPrev bool
	HasNext bool
}

// ComputeWindow clamps currentPage into [1, totalPages] and derives the
// numbered range and the first/last shortcuts around it.
func ComputeWindow(currentPage, totalPages, maxPrev, maxNext int) Window {
	if totalPages < 0 {
		totalPages = 0
	}
	if maxPrev < 0 {
		maxPrev = 0
	}
	if maxNext < 0 {
		maxNext = 0
	}

	page := max(1, min(currentPage, totalPages))
	start := max(1, page-maxPrev)
	end := min(totalPages, page+maxNext)

	return Window{
		Page:             page,
		TotalPages:       totalPages,
		StartPage:        start,
		EndPage:          end,
		ShowFirst:        start > 1,
		LeadingEllipsis:  start > 2,
		ShowLast:         end < totalPages,
		TrailingEllipsis: end < totalPages-1,
		HasPrev:          page > 1,
		HasNext:          page < totalPages,
	}
}

// Pages lists the numbered pages of the window. Empty when there are no pages.
func (w Window) Pages() []int {
	if w.EndPage < w.StartPage {
		return nil
	}
	pages := make([]int, 0, w.EndPage-w.StartPage+1)
	for p := w.StartPage; p <= w.EndPage; p++ {
		pages = append(pages, p)
	}
	return pages
}

// Request validates a page change. It returns false for pages outside
// [1, TotalPages] and for the page already shown.
func (w Window) Request(newPage int) (int, bool) {
	if newPage == w.Page || newPage < 1 || newPage > w.TotalPages {
		return w.Page, false
	}
	return newPage, true
}

// Prev requests the previous page
func (w Window) Prev() (int, bool) {
	return w.Request(w.Page - 1)
}

// Next requests the following page
func (w Window) Next() (int, bool) {
	return w.Request(w.Page + 1)
}

// Render draws the window as text, e.g. "‹ 1 … 4 5 [6] 7 8 … 20 ›".
// Disabled prev/next arrows are drawn as spaces.
func (w Window) Render() string {
	if w.TotalPages == 0 {
		return ""
	}

	parts := make([]string, 0, w.EndPage-w.StartPage+7)
	parts = append(parts, arrow("‹", w.HasPrev))
	if w.ShowFirst {
		parts = append(parts, w.label(1))
		if w.LeadingEllipsis {
			parts = append(parts, "…")
		}
	}
	for _, p := range w.Pages() {
		parts = append(parts, w.label(p))
	}
	if w.ShowLast {
		if w.TrailingEllipsis {
			parts = append(parts, "…")
		}
		parts = append(parts, w.label(w.TotalPages))
	}
	parts = append(parts, arrow("›", w.HasNext))

	return strings.Join(parts, " ")
}

func (w Window) label(p int) string {
	s := strconv.Itoa(p)
	if p == w.Page {
		return "[" + s + "]"
	}
	return s
}

func arrow(s string, enabled bool) string {
	if enabled {
		return s
	}
	return " "
}
