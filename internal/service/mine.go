package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"fixmycity/internal/model"
)

// MyReports is the signed-in user's own report list, as shown on the profile.
type MyReports struct {
	api          MineAPI
	tokens       TokenSource
	refreshDelay time.Duration
	logger       zerolog.Logger

	mu         sync.RWMutex
	reports    []model.Report
	loading    bool
	refreshing bool
	deleting   string
}

func NewMyReports(api MineAPI, tokens TokenSource, refreshDelay time.Duration, logger zerolog.Logger) *MyReports {
	return &MyReports{
		api:          api,
		tokens:       tokens,
		refreshDelay: refreshDelay,
		logger:       logger.With().Str("component", "MyReports").Logger(),
		reports:      []model.Report{},
	}
}

// Load replaces the list with the server's. On error the list is kept.
func (m *MyReports) Load(ctx context.Context) error {
	m.setLoading(true)
	defer m.setLoading(false)

	reports, err := m.api.MyReports(ctx, m.tokens.Token())
	if err != nil {
		m.logger.Warn().Err(err).Msg("Load FAILED")
		return fmt.Errorf("load my reports: %w", err)
	}

	m.mu.Lock()
	m.reports = reports
	m.mu.Unlock()

	m.logger.Debug().Int("count", len(reports)).Msg("Load OK")
	return nil
}

// Refresh waits the minimum visible delay, then reloads.
func (m *MyReports) Refresh(ctx context.Context) error {
	m.mu.Lock()
	m.refreshing = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.refreshing = false
		m.mu.Unlock()
	}()

	minDelay(ctx, m.refreshDelay)
	return m.Load(ctx)
}

// Delete removes a report on the server and then from the list. Deleting()
// returns its id while the call runs.
func (m *MyReports) Delete(ctx context.Context, id string) error {
	if id == "" {
		return model.ErrMissingReportID
	}

	m.mu.Lock()
	m.deleting = id
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.deleting = ""
		m.mu.Unlock()
	}()

	if err := m.api.DeleteReport(ctx, m.tokens.Token(), id); err != nil {
		m.logger.Warn().Err(err).Str("report_id", id).Msg("Delete FAILED")
		return fmt.Errorf("delete report %s: %w", id, err)
	}

	m.mu.Lock()
	kept := make([]model.Report, 0, len(m.reports))
	for _, r := range m.reports {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	m.reports = kept
	m.mu.Unlock()

	m.logger.Info().Str("report_id", id).Msg("Delete OK")
	return nil
}

func (m *MyReports) Reports() []model.Report {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Report(nil), m.reports...)
}

func (m *MyReports) Deleting() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.deleting
}

func (m *MyReports) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

func (m *MyReports) Refreshing() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshing
}

func (m *MyReports) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}
