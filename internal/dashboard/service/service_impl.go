package service

import (
	"context"
	"time"

	"github.com/JohnAlex1900/Smart-Invoice/internal/clock"
	"github.com/JohnAlex1900/Smart-Invoice/internal/dashboard/domain"
	"github.com/JohnAlex1900/Smart-Invoice/internal/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("dashboard.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// Metrics aggregates the tenant's invoices and clients: one all-time
// pass and one pass windowed to the previous calendar month.
func (s *Service) Metrics(ctx context.Context, req domain.MetricsRequest) (domain.Metrics, error) {
	if req.TenantID == 0 {
		return domain.Metrics{}, domain.ErrInvalidTenant
	}

	current, err := s.repo.Snapshot(ctx, req.TenantID, nil, nil)
	if err != nil {
		return domain.Metrics{}, err
	}

	from, to := previousMonthWindow(s.clock.Now())
	previous, err := s.repo.Snapshot(ctx, req.TenantID, &from, &to)
	if err != nil {
		return domain.Metrics{}, err
	}

	pendingAmount, err := money.Reformat(current.PendingAmount)
	if err != nil {
		return domain.Metrics{}, err
	}
	totalRevenue, err := money.Reformat(current.PaidAmount)
	if err != nil {
		return domain.Metrics{}, err
	}
	prevRevenue, err := money.Reformat(previous.PaidAmount)
	if err != nil {
		return domain.Metrics{}, err
	}

	return domain.Metrics{
		TotalInvoices:     current.InvoiceCount,
		PendingAmount:     pendingAmount,
		TotalClients:      current.ClientCount,
		TotalRevenue:      totalRevenue,
		PrevMonthInvoices: previous.InvoiceCount,
		PrevMonthClients:  previous.ClientCount,
		PrevMonthRevenue:  prevRevenue,
	}, nil
}

// previousMonthWindow returns [first day of last month, last instant of
// last month] in UTC.
func previousMonthWindow(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	firstOfLastMonth := firstOfThisMonth.AddDate(0, -1, 0)
	return firstOfLastMonth, firstOfThisMonth.Add(-time.Nanosecond)
}
