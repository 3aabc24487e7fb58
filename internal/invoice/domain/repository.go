package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// ListFilter narrows invoice listings. Status "" or "all" means every
// status. Search is carried for the boundary but not matched against
// anything; see the service documentation. Limit of 0 means unbounded.
type ListFilter struct {
	Status string
	Search string
	Limit  int
}

// Repository is the storage port for invoice aggregates. Multi-record
// writes (Create, ReplaceItems, Delete and the client cascade) are
// atomic: a reader never observes an invoice whose items do not sum to
// its stored subtotal, and a failed write leaves no orphan invoice.
//
// Update and ReplaceItems perform an optimistic version check: the
// passed invoice carries the version it was read at, the write only
// applies if the stored version still matches, and the stored version
// is incremented. A mismatch surfaces as ErrConflict.
type Repository interface {
	Create(ctx context.Context, invoice *Invoice, items []InvoiceItem) error
	FindByID(ctx context.Context, tenantID, id snowflake.ID) (*Invoice, error)
	Details(ctx context.Context, tenantID, id snowflake.ID) (*InvoiceWithDetails, error)
	List(ctx context.Context, tenantID snowflake.ID, filter ListFilter) ([]InvoiceWithDetails, error)
	Update(ctx context.Context, invoice *Invoice) error
	ReplaceItems(ctx context.Context, invoice *Invoice, items []InvoiceItem) error
	Delete(ctx context.Context, tenantID, id snowflake.ID) error
}
