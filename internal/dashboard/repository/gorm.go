package repository

import (
	"context"
	"time"

	clientdomain "github.com/JohnAlex1900/Smart-Invoice/internal/client/domain"
	"github.com/JohnAlex1900/Smart-Invoice/internal/dashboard/domain"
	invoicedomain "github.com/JohnAlex1900/Smart-Invoice/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type gormRepo struct {
	db *gorm.DB
}

// NewGorm returns the relational adapter for dashboard aggregation.
func NewGorm(db *gorm.DB) domain.Repository {
	return &gormRepo{db: db}
}

func (r *gormRepo) Snapshot(ctx context.Context, tenantID snowflake.ID, createdFrom, createdTo *time.Time) (domain.Snapshot, error) {
	var snapshot domain.Snapshot

	invoices := r.windowed(ctx, tenantID, createdFrom, createdTo)
	if err := invoices.Count(&snapshot.InvoiceCount).Error; err != nil {
		return domain.Snapshot{}, err
	}

	err := r.windowed(ctx, tenantID, createdFrom, createdTo).
		Where("status = ?", invoicedomain.InvoiceStatusPending).
		Select("COALESCE(SUM(CAST(total AS DECIMAL(12,2))), 0)").
		Scan(&snapshot.PendingAmount).Error
	if err != nil {
		return domain.Snapshot{}, err
	}

	err = r.windowed(ctx, tenantID, createdFrom, createdTo).
		Where("status = ?", invoicedomain.InvoiceStatusPaid).
		Select("COALESCE(SUM(CAST(total AS DECIMAL(12,2))), 0)").
		Scan(&snapshot.PaidAmount).Error
	if err != nil {
		return domain.Snapshot{}, err
	}

	clients := r.db.WithContext(ctx).
		Model(&clientdomain.Client{}).
		Where("user_id = ?", tenantID)
	if createdFrom != nil {
		clients = clients.Where("created_at >= ?", *createdFrom)
	}
	if createdTo != nil {
		clients = clients.Where("created_at <= ?", *createdTo)
	}
	if err := clients.Count(&snapshot.ClientCount).Error; err != nil {
		return domain.Snapshot{}, err
	}

	return snapshot, nil
}

func (r *gormRepo) windowed(ctx context.Context, tenantID snowflake.ID, createdFrom, createdTo *time.Time) *gorm.DB {
	stmt := r.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("user_id = ?", tenantID)
	if createdFrom != nil {
		stmt = stmt.Where("created_at >= ?", *createdFrom)
	}
	if createdTo != nil {
		stmt = stmt.Where("created_at <= ?", *createdTo)
	}
	return stmt
}
