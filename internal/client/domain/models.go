// Package domain contains the client (customer) model and contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Client is a customer of a tenant. Uniqueness by name or email is not
// enforced inside a tenant.
type Client struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id" bson:"_id"`
	UserID    snowflake.ID `gorm:"not null;index" json:"userId" bson:"user_id"`
	Name      string       `gorm:"type:text;not null" json:"name" bson:"name"`
	Email     string       `gorm:"type:text;not null" json:"email" bson:"email"`
	Phone     *string      `gorm:"type:text" json:"phone,omitempty" bson:"phone,omitempty"`
	Address   *string      `gorm:"type:text" json:"address,omitempty" bson:"address,omitempty"`
	CreatedAt time.Time    `gorm:"not null" json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updatedAt" bson:"updated_at"`
}

// TableName sets the database table name.
func (Client) TableName() string { return "clients" }

// ClientWithStats is a client joined with its invoice aggregates.
// TotalAmount is a two-digit decimal string, "0.00" when the client has
// no invoices.
type ClientWithStats struct {
	Client
	InvoiceCount int64  `json:"invoiceCount"`
	TotalAmount  string `json:"totalAmount"`
}
