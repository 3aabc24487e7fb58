package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateUserRequest struct {
	ExternalID          string
	Email               string
	BusinessName        string
	ContactPerson       string
	Phone               *string
	Address             *string
	DefaultCurrency     string
	DefaultTaxRate      string
	DefaultPaymentTerms *int
}

// UpdateUserRequest patches profile fields; nil fields are left untouched.
type UpdateUserRequest struct {
	TenantID            snowflake.ID
	Email               *string
	BusinessName        *string
	ContactPerson       *string
	Phone               *string
	Address             *string
	DefaultCurrency     *string
	DefaultTaxRate      *string
	DefaultPaymentTerms *int
}

type GetUserByExternalIDRequest struct {
	ExternalID string
}

type Service interface {
	Create(context.Context, CreateUserRequest) (User, error)
	Update(context.Context, UpdateUserRequest) (User, error)
	GetByExternalID(context.Context, GetUserByExternalIDRequest) (User, error)
}

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidBusiness    = errors.New("invalid business name")
	ErrInvalidContact     = errors.New("invalid contact person")
	ErrInvalidCurrency    = errors.New("invalid currency code")
	ErrInvalidTaxRate     = errors.New("invalid default tax rate")
	ErrEmailTaken         = errors.New("email already registered")
	ErrExternalIDTaken    = errors.New("identity reference already registered")
	ErrInvalidExternalID  = errors.New("invalid identity reference")
	ErrInvalidPaymentTerm = errors.New("invalid payment terms")
)
