package repository

import (
	"context"
	"testing"
	"time"

	clientdomain "github.com/JohnAlex1900/Smart-Invoice/internal/client/domain"
	"github.com/JohnAlex1900/Smart-Invoice/internal/invoice/domain"
	userdomain "github.com/JohnAlex1900/Smart-Invoice/internal/user/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&userdomain.User{},
		&clientdomain.Client{},
		&domain.Invoice{},
		&domain.InvoiceItem{},
	))
	return db
}

func testInvoice(node *snowflake.Node, tenantID, clientID snowflake.ID) domain.Invoice {
	now := time.Now().UTC()
	return domain.Invoice{
		ID:            node.Generate(),
		UserID:        tenantID,
		ClientID:      clientID,
		InvoiceNumber: "INV-100",
		Status:        domain.InvoiceStatusPending,
		Currency:      "USD",
		Subtotal:      "10.00",
		TaxRate:       "0.00",
		TaxAmount:     "0.00",
		Total:         "10.00",
		InvoiceDate:   now,
		DueDate:       now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func testItem(node *snowflake.Node, invoiceID snowflake.ID) domain.InvoiceItem {
	return domain.InvoiceItem{
		ID:          node.Generate(),
		InvoiceID:   invoiceID,
		Description: "work",
		Quantity:    "1",
		Rate:        "10.00",
		Amount:      "10.00",
		CreatedAt:   time.Now().UTC(),
	}
}

func TestCreate_RollsBackOnItemFailure(t *testing.T) {
	db := openTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	repo := NewGorm(db)

	tenantID := node.Generate()
	invoice := testInvoice(node, tenantID, node.Generate())

	// Two items sharing a primary key make the second insert fail; the
	// invoice row must not survive.
	item := testItem(node, invoice.ID)
	err = repo.Create(context.Background(), &invoice, []domain.InvoiceItem{item, item})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&domain.Invoice{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	require.NoError(t, db.Model(&domain.InvoiceItem{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestUpdate_StaleVersionConflicts(t *testing.T) {
	db := openTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	repo := NewGorm(db)

	tenantID := node.Generate()
	invoice := testInvoice(node, tenantID, node.Generate())
	require.NoError(t, repo.Create(context.Background(), &invoice,
		[]domain.InvoiceItem{testItem(node, invoice.ID)}))

	stale := invoice

	invoice.InvoiceNumber = "INV-101"
	require.NoError(t, repo.Update(context.Background(), &invoice))
	assert.EqualValues(t, 1, invoice.Version)

	stale.InvoiceNumber = "INV-102"
	err = repo.Update(context.Background(), &stale)
	assert.ErrorIs(t, err, domain.ErrConflict)

	current, err := repo.FindByID(context.Background(), tenantID, invoice.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "INV-101", current.InvoiceNumber)
}

func TestReplaceItems_StaleVersionLeavesItems(t *testing.T) {
	db := openTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	repo := NewGorm(db)

	tenantID := node.Generate()
	invoice := testInvoice(node, tenantID, node.Generate())
	original := testItem(node, invoice.ID)
	require.NoError(t, repo.Create(context.Background(), &invoice,
		[]domain.InvoiceItem{original}))

	stale := invoice
	stale.Version = invoice.Version + 5

	err = repo.ReplaceItems(context.Background(), &stale,
		[]domain.InvoiceItem{testItem(node, invoice.ID)})
	assert.ErrorIs(t, err, domain.ErrConflict)

	var items []domain.InvoiceItem
	require.NoError(t, db.Where("invoice_id = ?", invoice.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, original.ID, items[0].ID)
}

func TestDelete_ScopedToTenant(t *testing.T) {
	db := openTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	repo := NewGorm(db)

	tenantID := node.Generate()
	invoice := testInvoice(node, tenantID, node.Generate())
	require.NoError(t, repo.Create(context.Background(), &invoice,
		[]domain.InvoiceItem{testItem(node, invoice.ID)}))

	err = repo.Delete(context.Background(), node.Generate(), invoice.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.Delete(context.Background(), tenantID, invoice.ID))

	var count int64
	require.NoError(t, db.Model(&domain.InvoiceItem{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
