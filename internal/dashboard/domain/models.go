// Package domain contains tenant-level dashboard aggregates.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Metrics summarizes a tenant's invoicing activity. Amounts are
// two-digit decimal strings with a "0.00" floor. The previous-month
// fields cover records created in the immediately preceding calendar
// month and serve as comparison baselines; percentage deltas are left
// to the presentation layer.
type Metrics struct {
	TotalInvoices     int64  `json:"totalInvoices"`
	PendingAmount     string `json:"pendingAmount"`
	TotalClients      int64  `json:"totalClients"`
	TotalRevenue      string `json:"totalRevenue"`
	PrevMonthInvoices int64  `json:"prevMonthInvoices"`
	PrevMonthClients  int64  `json:"prevMonthClients"`
	PrevMonthRevenue  string `json:"prevMonthRevenue"`
}

// Snapshot is one aggregation pass over a tenant's records, optionally
// windowed by creation time. Sums are raw aggregate output, normalized
// by the service.
type Snapshot struct {
	InvoiceCount  int64
	ClientCount   int64
	PendingAmount string
	PaidAmount    string
}

type MetricsRequest struct {
	TenantID snowflake.ID
}

// Repository is the storage port for dashboard aggregation. A nil
// window bound leaves that side open.
type Repository interface {
	Snapshot(ctx context.Context, tenantID snowflake.ID, createdFrom, createdTo *time.Time) (Snapshot, error)
}

type Service interface {
	Metrics(context.Context, MetricsRequest) (Metrics, error)
}

var ErrInvalidTenant = errors.New("invalid tenant")
