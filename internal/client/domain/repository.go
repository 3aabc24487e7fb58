package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// InvoiceStats aggregates a client's invoices in a single grouped pass.
type InvoiceStats struct {
	ClientID    snowflake.ID
	Count       int64
	TotalAmount string
}

// Repository is the storage port for clients. Lookups scoped by tenant
// return (nil, nil) when nothing matches.
type Repository interface {
	Insert(ctx context.Context, client *Client) error
	FindByID(ctx context.Context, tenantID, id snowflake.ID) (*Client, error)
	// List returns the tenant's clients sorted by creation time descending.
	List(ctx context.Context, tenantID snowflake.ID) ([]Client, error)
	// Stats returns per-client invoice count and total sum for the whole
	// tenant in one grouped query.
	Stats(ctx context.Context, tenantID snowflake.ID) ([]InvoiceStats, error)
	Update(ctx context.Context, client *Client) error
	// DeleteCascade removes the client together with all of its invoices
	// and their items as one atomic unit.
	DeleteCascade(ctx context.Context, tenantID, id snowflake.ID) error
}
