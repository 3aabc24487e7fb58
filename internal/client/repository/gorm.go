package repository

import (
	"context"
	"errors"

	"github.com/JohnAlex1900/Smart-Invoice/internal/client/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type gormRepo struct {
	db *gorm.DB
}

// NewGorm returns the relational adapter for the client repository.
func NewGorm(db *gorm.DB) domain.Repository {
	return &gormRepo{db: db}
}

func (r *gormRepo) Insert(ctx context.Context, client *domain.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *gormRepo) FindByID(ctx context.Context, tenantID, id snowflake.ID) (*domain.Client, error) {
	var client domain.Client
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", tenantID, id).
		First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *gormRepo) List(ctx context.Context, tenantID snowflake.ID) ([]domain.Client, error) {
	var clients []domain.Client
	err := r.db.WithContext(ctx).
		Where("user_id = ?", tenantID).
		Order("created_at desc, id desc").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *gormRepo) Stats(ctx context.Context, tenantID snowflake.ID) ([]domain.InvoiceStats, error) {
	var rows []struct {
		ClientID    snowflake.ID
		Count       int64
		TotalAmount string
	}
	err := r.db.WithContext(ctx).Raw(
		`SELECT client_id,
		        COUNT(*) AS count,
		        COALESCE(SUM(CAST(total AS DECIMAL(12,2))), 0) AS total_amount
		 FROM invoices
		 WHERE user_id = ?
		 GROUP BY client_id`,
		tenantID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make([]domain.InvoiceStats, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, domain.InvoiceStats{
			ClientID:    row.ClientID,
			Count:       row.Count,
			TotalAmount: row.TotalAmount,
		})
	}
	return stats, nil
}

func (r *gormRepo) Update(ctx context.Context, client *domain.Client) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Client{}).
		Where("user_id = ? AND id = ?", client.UserID, client.ID).
		Select("*").
		Updates(client)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *gormRepo) DeleteCascade(ctx context.Context, tenantID, id snowflake.ID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`DELETE FROM invoice_items
			 WHERE invoice_id IN (SELECT id FROM invoices WHERE user_id = ? AND client_id = ?)`,
			tenantID, id,
		).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			`DELETE FROM invoices WHERE user_id = ? AND client_id = ?`,
			tenantID, id,
		).Error; err != nil {
			return err
		}
		result := tx.Exec(`DELETE FROM clients WHERE user_id = ? AND id = ?`, tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
