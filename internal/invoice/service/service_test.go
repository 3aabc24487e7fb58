package service

import (
	"context"
	"testing"
	"time"

	clientdomain "github.com/JohnAlex1900/Smart-Invoice/internal/client/domain"
	clientrepo "github.com/JohnAlex1900/Smart-Invoice/internal/client/repository"
	"github.com/JohnAlex1900/Smart-Invoice/internal/clock"
	"github.com/JohnAlex1900/Smart-Invoice/internal/config"
	"github.com/JohnAlex1900/Smart-Invoice/internal/invoice/domain"
	invoicerepo "github.com/JohnAlex1900/Smart-Invoice/internal/invoice/repository"
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
	repo     domain.Repository
	tenantID snowflake.ID
	clientID snowflake.ID
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
		&domain.Invoice{},
		&domain.InvoiceItem{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))

	env := &testEnv{
		db:   db,
		node: node,
		clk:  clk,
		repo: invoicerepo.NewGorm(db),
	}
	env.svc = New(Params{
		Cfg:        config.Config{PaidAtPolicy: config.PaidAtKeep},
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clk,
		Repo:       env.repo,
		ClientRepo: clientrepo.NewGorm(db),
	})

	env.tenantID = env.seedTenant(t, "owner@example.com")
	env.clientID = env.seedClient(t, env.tenantID, "Acme Corp")
	return env
}

func (e *testEnv) seedTenant(t *testing.T, email string) snowflake.ID {
	t.Helper()
	user := userdomain.User{
		ID:              e.node.Generate(),
		Email:           email,
		BusinessName:    "Studio",
		ContactPerson:   "Jo",
		DefaultCurrency: "USD",
		DefaultTaxRate:  "0.00",
		ExternalID:      "ext-" + email,
		CreatedAt:       e.clk.Now(),
		UpdatedAt:       e.clk.Now(),
	}
	require.NoError(t, e.db.Create(&user).Error)
	return user.ID
}

func (e *testEnv) seedClient(t *testing.T, tenantID snowflake.ID, name string) snowflake.ID {
	t.Helper()
	client := clientdomain.Client{
		ID:        e.node.Generate(),
		UserID:    tenantID,
		Name:      name,
		Email:     "billing@example.com",
		CreatedAt: e.clk.Now(),
		UpdatedAt: e.clk.Now(),
	}
	require.NoError(t, e.db.Create(&client).Error)
	return client.ID
}

func (e *testEnv) createInvoice(t *testing.T, items []domain.ItemInput, taxRate string) domain.InvoiceWithDetails {
	t.Helper()
	details, err := e.svc.Create(context.Background(), domain.CreateInvoiceRequest{
		TenantID:      e.tenantID,
		ClientID:      e.clientID,
		InvoiceNumber: "INV-001",
		Currency:      "USD",
		TaxRate:       taxRate,
		InvoiceDate:   e.clk.Now(),
		DueDate:       e.clk.Now().AddDate(0, 0, 30),
		Items:         items,
	})
	require.NoError(t, err)
	return details
}

func twoItems() []domain.ItemInput {
	return []domain.ItemInput{
		{Description: "A", Quantity: "2", Rate: "10.00"},
		{Description: "B", Quantity: "1", Rate: "5.00"},
	}
}

func TestCreateInvoice_ComputesTotals(t *testing.T) {
	env := setup(t)

	details := env.createInvoice(t, twoItems(), "10")

	assert.Equal(t, "25.00", details.Subtotal)
	assert.Equal(t, "2.50", details.TaxAmount)
	assert.Equal(t, "27.50", details.Total)
	assert.Equal(t, domain.InvoiceStatusPending, details.Status)
	assert.Nil(t, details.PaidAt)
	assert.Equal(t, "Acme Corp", details.Client.Name)

	require.Len(t, details.Items, 2)
	assert.Equal(t, "20.00", details.Items[0].Amount)
	assert.Equal(t, "5.00", details.Items[1].Amount)
}

func TestCreateInvoice_Validation(t *testing.T) {
	env := setup(t)
	base := domain.CreateInvoiceRequest{
		TenantID:      env.tenantID,
		ClientID:      env.clientID,
		InvoiceNumber: "INV-002",
		Currency:      "USD",
		TaxRate:       "10",
		InvoiceDate:   env.clk.Now(),
		DueDate:       env.clk.Now(),
		Items:         twoItems(),
	}

	req := base
	req.Items = nil
	_, err := env.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrEmptyItems)

	req = base
	req.ClientID = env.node.Generate()
	_, err = env.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrClientNotFound)

	req = base
	req.Items = []domain.ItemInput{{Description: "A", Quantity: "0", Rate: "10.00"}}
	_, err = env.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	req = base
	req.Items = []domain.ItemInput{{Description: "A", Quantity: "1", Rate: "-2.00"}}
	_, err = env.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidRate)

	req = base
	req.TaxRate = "nope"
	_, err = env.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidTaxRate)

	req = base
	req.Currency = "DOLLARS"
	_, err = env.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidCurrency)
}

func TestGetInvoice_TenantIsolation(t *testing.T) {
	env := setup(t)
	details := env.createInvoice(t, twoItems(), "10")

	other := env.seedTenant(t, "other@example.com")
	_, err := env.svc.Get(context.Background(), domain.GetInvoiceRequest{
		TenantID:  other,
		InvoiceID: details.ID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReplaceItems_RoundTrip(t *testing.T) {
	env := setup(t)
	details := env.createInvoice(t, twoItems(), "10")

	updated, err := env.svc.ReplaceItems(context.Background(), domain.ReplaceItemsRequest{
		TenantID:  env.tenantID,
		InvoiceID: details.ID,
		Items: []domain.ItemInput{
			{Description: "C", Quantity: "3", Rate: "7.00"},
		},
	})
	require.NoError(t, err)

	// Old items are gone; totals reflect the new set.
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "C", updated.Items[0].Description)
	assert.Equal(t, "21.00", updated.Items[0].Amount)
	assert.Equal(t, "21.00", updated.Subtotal)
	assert.Equal(t, "2.10", updated.TaxAmount)
	assert.Equal(t, "23.10", updated.Total)

	var count int64
	require.NoError(t, env.db.Model(&domain.InvoiceItem{}).
		Where("invoice_id = ?", details.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	_, err = env.svc.ReplaceItems(context.Background(), domain.ReplaceItemsRequest{
		TenantID:  env.tenantID,
		InvoiceID: details.ID,
	})
	assert.ErrorIs(t, err, domain.ErrEmptyItems)
}

func TestUpdateStatus_PaidAtStamping(t *testing.T) {
	env := setup(t)
	details := env.createInvoice(t, twoItems(), "10")

	_, err := env.svc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
		TenantID:  env.tenantID,
		InvoiceID: details.ID,
		Status:    "sent",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	paid, err := env.svc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
		TenantID:  env.tenantID,
		InvoiceID: details.ID,
		Status:    "paid",
	})
	require.NoError(t, err)
	require.NotNil(t, paid.PaidAt)
	firstPaidAt := *paid.PaidAt
	assert.Equal(t, env.clk.Now(), firstPaidAt)

	// Paying again later must not move the timestamp.
	env.clk.Advance(48 * time.Hour)
	paid, err = env.svc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
		TenantID:  env.tenantID,
		InvoiceID: details.ID,
		Status:    "paid",
	})
	require.NoError(t, err)
	require.NotNil(t, paid.PaidAt)
	assert.True(t, firstPaidAt.Equal(*paid.PaidAt))

	// Default policy keeps paid_at when leaving paid.
	pending, err := env.svc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
		TenantID:  env.tenantID,
		InvoiceID: details.ID,
		Status:    "pending",
	})
	require.NoError(t, err)
	require.NotNil(t, pending.PaidAt)
	assert.True(t, firstPaidAt.Equal(*pending.PaidAt))
}

func TestUpdateStatus_ClearPolicy(t *testing.T) {
	env := setup(t)
	clearSvc := New(Params{
		Cfg:        config.Config{PaidAtPolicy: config.PaidAtClear},
		Log:        zap.NewNop(),
		GenID:      env.node,
		Clock:      env.clk,
		Repo:       env.repo,
		ClientRepo: clientrepo.NewGorm(env.db),
	})

	details := env.createInvoice(t, twoItems(), "10")

	paid, err := clearSvc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
		TenantID:  env.tenantID,
		InvoiceID: details.ID,
		Status:    "paid",
	})
	require.NoError(t, err)
	require.NotNil(t, paid.PaidAt)

	overdue, err := clearSvc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
		TenantID:  env.tenantID,
		InvoiceID: details.ID,
		Status:    "overdue",
	})
	require.NoError(t, err)
	assert.Nil(t, overdue.PaidAt)
}

func TestUpdateInvoice_TaxRateRecompute(t *testing.T) {
	env := setup(t)
	details := env.createInvoice(t, twoItems(), "10")

	newRate := "20"
	invoice, err := env.svc.Update(context.Background(), domain.UpdateInvoiceRequest{
		TenantID:  env.tenantID,
		InvoiceID: details.ID,
		TaxRate:   &newRate,
	})
	require.NoError(t, err)

	assert.Equal(t, "25.00", invoice.Subtotal)
	assert.Equal(t, "20.00", invoice.TaxRate)
	assert.Equal(t, "5.00", invoice.TaxAmount)
	assert.Equal(t, "30.00", invoice.Total)

	// Items were not touched.
	var count int64
	require.NoError(t, env.db.Model(&domain.InvoiceItem{}).
		Where("invoice_id = ?", details.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestDeleteInvoice_RemovesItems(t *testing.T) {
	env := setup(t)
	details := env.createInvoice(t, twoItems(), "10")

	require.NoError(t, env.svc.Delete(context.Background(), domain.DeleteInvoiceRequest{
		TenantID:  env.tenantID,
		InvoiceID: details.ID,
	}))

	_, err := env.svc.Get(context.Background(), domain.GetInvoiceRequest{
		TenantID:  env.tenantID,
		InvoiceID: details.ID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var count int64
	require.NoError(t, env.db.Model(&domain.InvoiceItem{}).
		Where("invoice_id = ?", details.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestListInvoices_StatusFilter(t *testing.T) {
	env := setup(t)
	first := env.createInvoice(t, twoItems(), "10")
	env.clk.Advance(time.Hour)
	second := env.createInvoice(t, twoItems(), "10")

	_, err := env.svc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
		TenantID:  env.tenantID,
		InvoiceID: second.ID,
		Status:    "paid",
	})
	require.NoError(t, err)

	paid, err := env.svc.List(context.Background(), domain.ListInvoicesRequest{
		TenantID: env.tenantID,
		Status:   "paid",
	})
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, second.ID, paid[0].ID)

	all, err := env.svc.List(context.Background(), domain.ListInvoicesRequest{
		TenantID: env.tenantID,
		Status:   "all",
	})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Newest first.
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
	require.Len(t, all[0].Items, 2)

	_, err = env.svc.List(context.Background(), domain.ListInvoicesRequest{
		TenantID: env.tenantID,
		Status:   "archived",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestListRecent_CapsLimit(t *testing.T) {
	env := setup(t)
	for i := 0; i < 3; i++ {
		env.createInvoice(t, twoItems(), "10")
		env.clk.Advance(time.Minute)
	}

	recent, err := env.svc.ListRecent(context.Background(), domain.RecentInvoicesRequest{
		TenantID: env.tenantID,
		Limit:    2,
	})
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	_, err = env.svc.ListRecent(context.Background(), domain.RecentInvoicesRequest{
		TenantID: env.tenantID,
		Limit:    -1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidLimit)
}
