package memory

import (
	"VillageWars/internal/simulation/domain"
	"context"
	"sync"
)

type ReportRepo struct {
	mu      sync.RWMutex
	reports map[int64]domain.Report
}

func NewReportRepo() *ReportRepo {
	return &ReportRepo{reports: make(map[int64]domain.Report)}
}

func (r *ReportRepo) Save(ctx context.Context, rep *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[rep.ID] = *rep
	return nil
}

func (r *ReportRepo) Get(ctx context.Context, id int64) (*domain.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rep, ok := r.reports[id]
	if !ok {
		return nil, domain.ErrReportNotFound.WithData("report_id", id)
	}
	return &rep, nil
}

// All 返回全部战报，测试用。
func (r *ReportRepo) All() []domain.Report {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Report, 0, len(r.reports))
	for _, rep := range r.reports {
		out = append(out, rep)
	}
	return out
}
