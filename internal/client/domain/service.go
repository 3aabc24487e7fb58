package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateClientRequest struct {
	TenantID snowflake.ID
	Name     string
	Email    string
	Phone    *string
	Address  *string
}

type UpdateClientRequest struct {
	TenantID snowflake.ID
	ClientID snowflake.ID
	Name     *string
	Email    *string
	Phone    *string
	Address  *string
}

type ListClientsRequest struct {
	TenantID snowflake.ID
}

type DeleteClientRequest struct {
	TenantID snowflake.ID
	ClientID snowflake.ID
}

type Service interface {
	Create(context.Context, CreateClientRequest) (Client, error)
	Update(context.Context, UpdateClientRequest) (Client, error)
	List(context.Context, ListClientsRequest) ([]ClientWithStats, error)
	Delete(context.Context, DeleteClientRequest) error
}

var (
	ErrNotFound      = errors.New("client not found")
	ErrInvalidTenant = errors.New("invalid tenant")
	ErrInvalidName   = errors.New("invalid client name")
	ErrInvalidEmail  = errors.New("invalid client email")
)
