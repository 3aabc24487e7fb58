package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// ItemInput is a line item draft. Amount, when supplied by the caller,
// is ignored in favor of the computed quantity * rate.
type ItemInput struct {
	Description string
	Quantity    string
	Rate        string
	Amount      *string
}

type CreateInvoiceRequest struct {
	TenantID      snowflake.ID
	ClientID      snowflake.ID
	InvoiceNumber string
	Currency      string
	TaxRate       string
	InvoiceDate   time.Time
	DueDate       time.Time
	Notes         *string
	Items         []ItemInput
}

// UpdateInvoiceRequest patches scalar fields only; items are replaced
// through ReplaceItems. A tax rate change recomputes the stored totals.
type UpdateInvoiceRequest struct {
	TenantID      snowflake.ID
	InvoiceID     snowflake.ID
	ClientID      *snowflake.ID
	InvoiceNumber *string
	Currency      *string
	TaxRate       *string
	InvoiceDate   *time.Time
	DueDate       *time.Time
	Notes         *string
}

type ReplaceItemsRequest struct {
	TenantID  snowflake.ID
	InvoiceID snowflake.ID
	Items     []ItemInput
}

type UpdateStatusRequest struct {
	TenantID  snowflake.ID
	InvoiceID snowflake.ID
	Status    string
}

type GetInvoiceRequest struct {
	TenantID  snowflake.ID
	InvoiceID snowflake.ID
}

type DeleteInvoiceRequest struct {
	TenantID  snowflake.ID
	InvoiceID snowflake.ID
}

type ListInvoicesRequest struct {
	TenantID snowflake.ID
	Status   string
	Search   string
}

type RecentInvoicesRequest struct {
	TenantID snowflake.ID
	Limit    int
}

type Service interface {
	Create(context.Context, CreateInvoiceRequest) (InvoiceWithDetails, error)
	Update(context.Context, UpdateInvoiceRequest) (Invoice, error)
	ReplaceItems(context.Context, ReplaceItemsRequest) (InvoiceWithDetails, error)
	UpdateStatus(context.Context, UpdateStatusRequest) (Invoice, error)
	Get(context.Context, GetInvoiceRequest) (InvoiceWithDetails, error)
	Delete(context.Context, DeleteInvoiceRequest) error
	List(context.Context, ListInvoicesRequest) ([]InvoiceWithDetails, error)
	ListRecent(context.Context, RecentInvoicesRequest) ([]InvoiceWithDetails, error)
}

var (
	ErrNotFound           = errors.New("invoice not found")
	ErrConflict           = errors.New("concurrent invoice update")
	ErrInvalidTenant      = errors.New("invalid tenant")
	ErrClientNotFound     = errors.New("client not found for tenant")
	ErrEmptyItems         = errors.New("invoice requires at least one item")
	ErrInvalidDescription = errors.New("invalid item description")
	ErrInvalidQuantity    = errors.New("invalid item quantity")
	ErrInvalidRate        = errors.New("invalid item rate")
	ErrInvalidTaxRate     = errors.New("invalid tax rate")
	ErrInvalidCurrency    = errors.New("invalid currency code")
	ErrInvalidNumber      = errors.New("invalid invoice number")
	ErrInvalidDate        = errors.New("invalid invoice date")
	ErrInvalidStatus      = errors.New("invalid invoice status")
	ErrInvalidLimit       = errors.New("invalid limit")
)
