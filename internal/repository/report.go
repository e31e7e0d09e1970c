package repository

import (
	"context"
	"sort"
	"sync"

	"fixmycity/internal/model"
)

// reportRepository implements ReportRepository in memory.
type reportRepository struct {
	mu      sync.RWMutex
	reports map[string]model.Report
}

// NewReportRepository creates an empty report repository
func NewReportRepository() ReportRepository {
	return &reportRepository{reports: make(map[string]model.Report)}
}

func (r *reportRepository) Create(_ context.Context, rep *model.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reports[rep.ID] = *rep
	return nil
}

func (r *reportRepository) GetByID(_ context.Context, id string) (*model.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep, ok := r.reports[id]
	if !ok {
		return nil, model.ErrReportNotFound
	}
	return &rep, nil
}

func (r *reportRepository) List(_ context.Context, offset, limit int) ([]model.Report, int, error) {
	all := r.sorted(func(model.Report) bool { return true })

	total := len(all)
	if offset < 0 || limit < 1 || offset >= total {
		return []model.Report{}, total, nil
	}
	end := offset + min(limit, total-offset)
	return all[offset:end], total, nil
}

func (r *reportRepository) ListByUser(_ context.Context, userID string) ([]model.Report, error) {
	return r.sorted(func(rep model.Report) bool {
		return rep.User != nil && rep.User.ID == userID
	}), nil
}

func (r *reportRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reports[id]; !ok {
		return model.ErrReportNotFound
	}
	delete(r.reports, id)
	return nil
}

// sorted returns matching reports newest first, ties broken by id.
func (r *reportRepository) sorted(keep func(model.Report) bool) []model.Report {
	r.mu.RLock()
	out := make([]model.Report, 0, len(r.reports))
	for _, rep := range r.reports {
		if keep(rep) {
			out = append(out, rep)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
