// Package collector fetches every page of a paged resource one request at a
// time, pausing between requests.
package collector

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Defaults used by the research dashboard
const (
	DefaultPageSize = 50
	DefaultDelay    = 250 * time.Millisecond
)

// ErrCancelled is returned when the token or context is cancelled mid-collection
var ErrCancelled = errors.New("collection cancelled")

// FetchFunc loads one 1-indexed page and reports the total page count
type FetchFunc[T any] func(ctx context.Context, page, size int) (items []T, pages int, err error)

// ProgressFunc is called after every page attempt
type ProgressFunc func(current, total int)

// SleepFunc waits for d or returns early with ctx's error
type SleepFunc func(ctx context.Context, d time.Duration) error

// Collector holds the pacing settings of a collection
type Collector struct {
	PageSize int
	Delay    time.Duration
	Sleep    SleepFunc
}

// New returns a collector with the given page size and delay.
// A non-positive page size or a negative delay falls back to the default.
func New(pageSize int, delay time.Duration) Collector {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if delay < 0 {
		delay = DefaultDelay
	}
	return Collector{PageSize: pageSize, Delay: delay, Sleep: Sleep}
}

// PageFailure records a page that could not be fetched
type PageFailure struct {
	Page int
	Err  error
}

func (f PageFailure) Error() string {
	return fmt.Sprintf("page %d: %v", f.Page, f.Err)
}

// Result is the outcome of a completed collection
type Result[T any] struct {
	Items   []T
	Pages   int
	Fetched []int
	Failed  []PageFailure
}

// Collect fetches page 1 to learn the page count, then pages 2..N strictly in
// order with c.Delay before each request. A failing page is recorded in
// Result.Failed and skipped. A failing first page fails the collection.
//
// The token and ctx are checked before each sleep, before each request and
// before a fetched page is applied. Once either is cancelled nothing else is
// fetched or applied and ErrCancelled is returned.
func Collect[T any](ctx context.Context, c Collector, token *Token, fetch FetchFunc[T], progress ProgressFunc) (*Result[T], error) {
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.Sleep == nil {
		c.Sleep = Sleep
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if token != nil {
		go func() {
			select {
			case <-token.Done():
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	stopped := func() error {
		if token.Cancelled() {
			return ErrCancelled
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		return nil
	}
	report := func(current, total int) {
		if progress != nil {
			progress(current, total)
		}
	}

	if err := stopped(); err != nil {
		return nil, err
	}
	first, pages, err := fetch(ctx, 1, c.PageSize)
	if stop := stopped(); stop != nil {
		return nil, stop
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page 1: %w", err)
	}

	result := &Result[T]{Pages: pages}
	result.Items = append(result.Items, first...)
	result.Fetched = append(result.Fetched, 1)
	report(1, pages)

	for page := 2; page <= pages; page++ {
		if err := stopped(); err != nil {
			return nil, err
		}
		if err := c.Sleep(ctx, c.Delay); err != nil {
			if stop := stopped(); stop != nil {
				return nil, stop
			}
			return nil, err
		}
		if err := stopped(); err != nil {
			return nil, err
		}

		items, _, err := fetch(ctx, page, c.PageSize)
		if stop := stopped(); stop != nil {
			return nil, stop
		}
		if err != nil {
			result.Failed = append(result.Failed, PageFailure{Page: page, Err: err})
			report(page, pages)
			continue
		}

		result.Items = append(result.Items, items...)
		result.Fetched = append(result.Fetched, page)
		report(page, pages)
	}

	return result, nil
}

// Sleep waits for d unless ctx ends first
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
