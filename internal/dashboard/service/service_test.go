package service

import (
	"context"
	"testing"
	"time"

	clientdomain "github.com/JohnAlex1900/Smart-Invoice/internal/client/domain"
	"github.com/JohnAlex1900/Smart-Invoice/internal/clock"
	"github.com/JohnAlex1900/Smart-Invoice/internal/dashboard/domain"
	dashboardrepo "github.com/JohnAlex1900/Smart-Invoice/internal/dashboard/repository"
	invoicedomain "github.com/JohnAlex1900/Smart-Invoice/internal/invoice/domain"
	userdomain "github.com/JohnAlex1900/Smart-Invoice/internal/user/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	node     *snowflake.Node
	clk      *clock.FakeClock
	svc      domain.Service
	tenantID snowflake.ID
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&userdomain.User{},
		&clientdomain.Client{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))

	svc := New(Params{
		Log:   zap.NewNop(),
		Clock: clk,
		Repo:  dashboardrepo.NewGorm(db),
	})

	return &testEnv{
		db:       db,
		node:     node,
		clk:      clk,
		svc:      svc,
		tenantID: node.Generate(),
	}
}

func (e *testEnv) seedClient(t *testing.T, tenantID snowflake.ID, createdAt time.Time) snowflake.ID {
	t.Helper()
	client := clientdomain.Client{
		ID:        e.node.Generate(),
		UserID:    tenantID,
		Name:      "Acme",
		Email:     "billing@example.com",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, e.db.Create(&client).Error)
	return client.ID
}

func (e *testEnv) seedInvoice(t *testing.T, tenantID, clientID snowflake.ID, status invoicedomain.InvoiceStatus, total string, createdAt time.Time) {
	t.Helper()
	invoice := invoicedomain.Invoice{
		ID:            e.node.Generate(),
		UserID:        tenantID,
		ClientID:      clientID,
		InvoiceNumber: "INV-1",
		Status:        status,
		Currency:      "USD",
		Subtotal:      total,
		TaxRate:       "0.00",
		TaxAmount:     "0.00",
		Total:         total,
		InvoiceDate:   createdAt,
		DueDate:       createdAt,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	require.NoError(t, e.db.Create(&invoice).Error)
}

func TestMetrics_EmptyTenant(t *testing.T) {
	env := setup(t)

	metrics, err := env.svc.Metrics(context.Background(), domain.MetricsRequest{
		TenantID: env.tenantID,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 0, metrics.TotalInvoices)
	assert.EqualValues(t, 0, metrics.TotalClients)
	assert.Equal(t, "0.00", metrics.PendingAmount)
	assert.Equal(t, "0.00", metrics.TotalRevenue)
	assert.Equal(t, "0.00", metrics.PrevMonthRevenue)
}

func TestMetrics_Aggregates(t *testing.T) {
	env := setup(t)
	now := env.clk.Now()
	lastMonth := time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)

	currentClient := env.seedClient(t, env.tenantID, now)
	prevClient := env.seedClient(t, env.tenantID, lastMonth)

	env.seedInvoice(t, env.tenantID, currentClient, invoicedomain.InvoiceStatusPending, "100.00", now)
	env.seedInvoice(t, env.tenantID, currentClient, invoicedomain.InvoiceStatusPaid, "50.00", now)
	env.seedInvoice(t, env.tenantID, prevClient, invoicedomain.InvoiceStatusPaid, "30.00", lastMonth)

	// Overdue counts toward neither pending nor revenue.
	env.seedInvoice(t, env.tenantID, currentClient, invoicedomain.InvoiceStatusOverdue, "7.00", now)

	// Two months back falls outside the previous-month window.
	env.seedInvoice(t, env.tenantID, prevClient, invoicedomain.InvoiceStatusPaid, "500.00",
		time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC))

	// Another tenant's data is invisible.
	otherTenant := env.node.Generate()
	otherClient := env.seedClient(t, otherTenant, now)
	env.seedInvoice(t, otherTenant, otherClient, invoicedomain.InvoiceStatusPaid, "999.00", now)

	metrics, err := env.svc.Metrics(context.Background(), domain.MetricsRequest{
		TenantID: env.tenantID,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 5, metrics.TotalInvoices)
	assert.Equal(t, "100.00", metrics.PendingAmount)
	assert.EqualValues(t, 2, metrics.TotalClients)
	assert.Equal(t, "580.00", metrics.TotalRevenue)

	assert.EqualValues(t, 1, metrics.PrevMonthInvoices)
	assert.EqualValues(t, 1, metrics.PrevMonthClients)
	assert.Equal(t, "30.00", metrics.PrevMonthRevenue)
}

func TestMetrics_RequiresTenant(t *testing.T) {
	env := setup(t)

	_, err := env.svc.Metrics(context.Background(), domain.MetricsRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidTenant)
}
