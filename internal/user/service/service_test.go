package service

import (
	"context"
	"testing"
	"time"

	"github.com/JohnAlex1900/Smart-Invoice/internal/clock"
	"github.com/JohnAlex1900/Smart-Invoice/internal/user/domain"
	userrepo "github.com/JohnAlex1900/Smart-Invoice/internal/user/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setup(t *testing.T) domain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)),
		Repo:  userrepo.NewGorm(db),
	})
}

func createRequest(externalID, email string) domain.CreateUserRequest {
	return domain.CreateUserRequest{
		ExternalID:    externalID,
		Email:         email,
		BusinessName:  "Studio",
		ContactPerson: "Jo",
	}
}

func TestCreateUser_Defaults(t *testing.T) {
	svc := setup(t)

	user, err := svc.Create(context.Background(), createRequest("sub-1", "jo@example.com"))
	require.NoError(t, err)

	assert.Equal(t, "USD", user.DefaultCurrency)
	assert.Equal(t, "0.00", user.DefaultTaxRate)
	assert.Equal(t, 30, user.DefaultPaymentTerms)
	assert.NotZero(t, user.ID)
}

func TestCreateUser_Validation(t *testing.T) {
	svc := setup(t)

	_, err := svc.Create(context.Background(), createRequest("", "jo@example.com"))
	assert.ErrorIs(t, err, domain.ErrInvalidExternalID)

	_, err = svc.Create(context.Background(), createRequest("sub-1", "no-at-sign"))
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	req := createRequest("sub-1", "jo@example.com")
	req.DefaultTaxRate = "8.125"
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidTaxRate)

	req = createRequest("sub-1", "jo@example.com")
	terms := -5
	req.DefaultPaymentTerms = &terms
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentTerm)
}

func TestCreateUser_Duplicates(t *testing.T) {
	svc := setup(t)

	_, err := svc.Create(context.Background(), createRequest("sub-1", "jo@example.com"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), createRequest("sub-2", "jo@example.com"))
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = svc.Create(context.Background(), createRequest("sub-1", "other@example.com"))
	assert.ErrorIs(t, err, domain.ErrExternalIDTaken)
}

func TestGetByExternalID(t *testing.T) {
	svc := setup(t)

	created, err := svc.Create(context.Background(), createRequest("sub-1", "jo@example.com"))
	require.NoError(t, err)

	found, err := svc.GetByExternalID(context.Background(), domain.GetUserByExternalIDRequest{
		ExternalID: "sub-1",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetByExternalID(context.Background(), domain.GetUserByExternalIDRequest{
		ExternalID: "sub-999",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateUser_PatchesFields(t *testing.T) {
	svc := setup(t)

	created, err := svc.Create(context.Background(), createRequest("sub-1", "jo@example.com"))
	require.NoError(t, err)

	business := "New Studio"
	taxRate := "8.25"
	updated, err := svc.Update(context.Background(), domain.UpdateUserRequest{
		TenantID:       created.ID,
		BusinessName:   &business,
		DefaultTaxRate: &taxRate,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Studio", updated.BusinessName)
	assert.Equal(t, "8.25", updated.DefaultTaxRate)
	assert.Equal(t, "jo@example.com", updated.Email)

	bad := "nope"
	_, err = svc.Update(context.Background(), domain.UpdateUserRequest{
		TenantID: created.ID,
		Email:    &bad,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}
