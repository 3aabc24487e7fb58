package repository

import (
	"context"
	"errors"

	clientdomain "github.com/JohnAlex1900/Smart-Invoice/internal/client/domain"
	"github.com/JohnAlex1900/Smart-Invoice/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type gormRepo struct {
	db *gorm.DB
}

// NewGorm returns the relational adapter for the invoice repository.
// Multi-record writes run inside database transactions.
func NewGorm(db *gorm.DB) domain.Repository {
	return &gormRepo{db: db}
}

func (r *gormRepo) Create(ctx context.Context, invoice *domain.Invoice, items []domain.InvoiceItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invoice).Error; err != nil {
			return err
		}
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *gormRepo) FindByID(ctx context.Context, tenantID, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", tenantID, id).
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *gormRepo) Details(ctx context.Context, tenantID, id snowflake.ID) (*domain.InvoiceWithDetails, error) {
	invoice, err := r.FindByID(ctx, tenantID, id)
	if err != nil || invoice == nil {
		return nil, err
	}

	details := domain.InvoiceWithDetails{Invoice: *invoice}

	err = r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", tenantID, invoice.ClientID).
		First(&details.Client).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Where("invoice_id = ?", id).
		Order("created_at asc, id asc").
		Find(&details.Items).Error
	if err != nil {
		return nil, err
	}
	return &details, nil
}

func (r *gormRepo) List(ctx context.Context, tenantID snowflake.ID, filter domain.ListFilter) ([]domain.InvoiceWithDetails, error) {
	stmt := r.db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("user_id = ?", tenantID)
	if filter.Status != "" && filter.Status != "all" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	stmt = stmt.Order("created_at desc, id desc")
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}

	var invoices []domain.Invoice
	if err := stmt.Find(&invoices).Error; err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return []domain.InvoiceWithDetails{}, nil
	}

	invoiceIDs := make([]snowflake.ID, 0, len(invoices))
	clientIDs := make([]snowflake.ID, 0, len(invoices))
	for _, invoice := range invoices {
		invoiceIDs = append(invoiceIDs, invoice.ID)
		clientIDs = append(clientIDs, invoice.ClientID)
	}

	var clients []clientdomain.Client
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", tenantID, clientIDs).
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	clientByID := make(map[snowflake.ID]clientdomain.Client, len(clients))
	for _, client := range clients {
		clientByID[client.ID] = client
	}

	var items []domain.InvoiceItem
	err = r.db.WithContext(ctx).
		Where("invoice_id IN ?", invoiceIDs).
		Order("created_at asc, id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	itemsByInvoice := make(map[snowflake.ID][]domain.InvoiceItem, len(invoices))
	for _, item := range items {
		itemsByInvoice[item.InvoiceID] = append(itemsByInvoice[item.InvoiceID], item)
	}

	result := make([]domain.InvoiceWithDetails, 0, len(invoices))
	for _, invoice := range invoices {
		result = append(result, domain.InvoiceWithDetails{
			Invoice: invoice,
			Client:  clientByID[invoice.ClientID],
			Items:   itemsByInvoice[invoice.ID],
		})
	}
	return result, nil
}

func (r *gormRepo) Update(ctx context.Context, invoice *domain.Invoice) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("user_id = ? AND id = ? AND version = ?", invoice.UserID, invoice.ID, invoice.Version).
		Updates(updateColumns(invoice))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrConflict
	}
	invoice.Version++
	return nil
}

func (r *gormRepo) ReplaceItems(ctx context.Context, invoice *domain.Invoice, items []domain.InvoiceItem) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Invoice{}).
			Where("user_id = ? AND id = ? AND version = ?", invoice.UserID, invoice.ID, invoice.Version).
			Updates(updateColumns(invoice))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrConflict
		}
		if err := tx.Where("invoice_id = ?", invoice.ID).
			Delete(&domain.InvoiceItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	invoice.Version++
	return nil
}

func (r *gormRepo) Delete(ctx context.Context, tenantID, id snowflake.ID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).
			Delete(&domain.InvoiceItem{}).Error; err != nil {
			return err
		}
		result := tx.Where("user_id = ? AND id = ?", tenantID, id).
			Delete(&domain.Invoice{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// updateColumns maps the mutable invoice fields, including zero values,
// and advances the version.
func updateColumns(invoice *domain.Invoice) map[string]any {
	return map[string]any{
		"client_id":      invoice.ClientID,
		"invoice_number": invoice.InvoiceNumber,
		"status":         invoice.Status,
		"currency":       invoice.Currency,
		"subtotal":       invoice.Subtotal,
		"tax_rate":       invoice.TaxRate,
		"tax_amount":     invoice.TaxAmount,
		"total":          invoice.Total,
		"notes":          invoice.Notes,
		"invoice_date":   invoice.InvoiceDate,
		"due_date":       invoice.DueDate,
		"paid_at":        invoice.PaidAt,
		"updated_at":     invoice.UpdatedAt,
		"version":        invoice.Version + 1,
	}
}
