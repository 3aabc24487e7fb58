package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Repository is the storage port for tenant profiles. Implementations
// return (nil, nil) when a lookup matches nothing.
type Repository interface {
	Insert(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id snowflake.ID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByExternalID(ctx context.Context, externalID string) (*User, error)
	Update(ctx context.Context, user *User) error
}
