package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"fixmycity/internal/model"
)

// FeedPaginator accumulates pages of the shared feed into one de-duplicated list.
//
// Fetches are serialized: FetchPage waits for a running fetch to finish, while
// LoadMore skips when one is running.
type FeedPaginator struct {
	api          FeedAPI
	tokens       TokenSource
	pageSize     int
	refreshDelay time.Duration
	logger       zerolog.Logger

	fetching *semaphore.Weighted

	mu         sync.RWMutex
	reports    []model.Report
	page       int
	hasMore    bool
	loading    bool
	refreshing bool
}

// NewFeedPaginator creates an empty paginator. refreshDelay is the minimum time
// the refreshing flag stays set after a pull-to-refresh.
func NewFeedPaginator(api FeedAPI, tokens TokenSource, pageSize int, refreshDelay time.Duration, logger zerolog.Logger) *FeedPaginator {
	if pageSize <= 0 {
		pageSize = 2
	}
	return &FeedPaginator{
		api:          api,
		tokens:       tokens,
		pageSize:     pageSize,
		refreshDelay: refreshDelay,
		logger:       logger.With().Str("component", "FeedPaginator").Logger(),
		fetching:     semaphore.NewWeighted(1),
		reports:      []model.Report{},
		hasMore:      true,
	}
}

// FetchPage loads one page. A refresh or page 1 replaces the list; later pages
// are merged in. On error the list, page and hasMore are left as they were.
func (p *FeedPaginator) FetchPage(ctx context.Context, page int, refresh bool) error {
	if page < 1 {
		return model.ErrInvalidPage
	}
	if err := p.fetching.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("wait for feed fetch: %w", err)
	}
	defer p.fetching.Release(1)

	return p.fetch(ctx, page, refresh)
}

// Refresh reloads the first page.
func (p *FeedPaginator) Refresh(ctx context.Context) error {
	return p.FetchPage(ctx, 1, true)
}

// LoadMore fetches the next page unless a fetch is running or the feed is
// exhausted. It reports whether a fetch was attempted.
func (p *FeedPaginator) LoadMore(ctx context.Context) (bool, error) {
	if !p.fetching.TryAcquire(1) {
		return false, nil
	}
	defer p.fetching.Release(1)

	p.mu.RLock()
	skip := p.loading || p.refreshing || !p.hasMore
	next := p.page + 1
	p.mu.RUnlock()

	if skip {
		return false, nil
	}
	return true, p.fetch(ctx, next, false)
}

func (p *FeedPaginator) fetch(ctx context.Context, page int, refresh bool) error {
	p.mu.Lock()
	if refresh {
		p.refreshing = true
	} else if page == 1 {
		p.loading = true
	}
	p.mu.Unlock()

	defer func() {
		if refresh {
			minDelay(ctx, p.refreshDelay)
		}
		p.mu.Lock()
		p.refreshing = false
		p.loading = false
		p.mu.Unlock()
	}()

	result, err := p.api.ListReports(ctx, p.tokens.Token(), page, p.pageSize)
	if err != nil {
		p.logger.Warn().Err(err).Int("page", page).Bool("refresh", refresh).Msg("FetchPage FAILED")
		return fmt.Errorf("fetch feed page %d: %w", page, err)
	}

	p.mu.Lock()
	if refresh || page == 1 {
		p.reports = append([]model.Report{}, result.Reports...)
	} else {
		p.reports = model.MergeReports(p.reports, result.Reports)
	}
	p.page = page
	p.hasMore = page < result.TotalPages
	total := len(p.reports)
	p.mu.Unlock()

	p.logger.Debug().
		Int("page", page).
		Int("received", len(result.Reports)).
		Int("total", total).
		Int("total_pages", result.TotalPages).
		Msg("FetchPage OK")
	return nil
}

// Reports returns a copy of the accumulated list.
func (p *FeedPaginator) Reports() []model.Report {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]model.Report(nil), p.reports...)
}

// Page is the last page fetched successfully, 0 before the first fetch.
func (p *FeedPaginator) Page() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.page
}

func (p *FeedPaginator) HasMore() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hasMore
}

func (p *FeedPaginator) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loading
}

func (p *FeedPaginator) Refreshing() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.refreshing
}
