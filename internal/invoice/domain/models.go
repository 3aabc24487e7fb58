// Package domain contains the invoice aggregate: an invoice and its
// line items form one consistency unit. Totals are always derived from
// the items and stored as two-digit decimal strings.
package domain

import (
	"time"

	clientdomain "github.com/JohnAlex1900/Smart-Invoice/internal/client/domain"
	"github.com/bwmarrin/snowflake"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// Valid reports whether the status is one of the enumerated values.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	default:
		return false
	}
}

// Invoice is the aggregate root. Subtotal, TaxAmount and Total are
// derived: total = subtotal + taxAmount, taxAmount = subtotal * taxRate
// / 100, subtotal = sum of item amounts. Version guards totals-affecting
// writes against lost updates.
type Invoice struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id" bson:"_id"`
	UserID        snowflake.ID  `gorm:"not null;index" json:"userId" bson:"user_id"`
	ClientID      snowflake.ID  `gorm:"not null;index" json:"clientId" bson:"client_id"`
	InvoiceNumber string        `gorm:"type:text;not null" json:"invoiceNumber" bson:"invoice_number"`
	Status        InvoiceStatus `gorm:"type:text;not null;default:'pending'" json:"status" bson:"status"`
	Currency      string        `gorm:"type:text;not null" json:"currency" bson:"currency"`
	Subtotal      string        `gorm:"type:text;not null" json:"subtotal" bson:"subtotal"`
	TaxRate       string        `gorm:"type:text;not null" json:"taxRate" bson:"tax_rate"`
	TaxAmount     string        `gorm:"type:text;not null" json:"taxAmount" bson:"tax_amount"`
	Total         string        `gorm:"type:text;not null" json:"total" bson:"total"`
	Notes         *string       `gorm:"type:text" json:"notes,omitempty" bson:"notes,omitempty"`
	InvoiceDate   time.Time     `gorm:"not null" json:"invoiceDate" bson:"invoice_date"`
	DueDate       time.Time     `gorm:"not null" json:"dueDate" bson:"due_date"`
	PaidAt        *time.Time    `json:"paidAt,omitempty" bson:"paid_at,omitempty"`
	Version       int64         `gorm:"not null;default:0" json:"-" bson:"version"`
	CreatedAt     time.Time     `gorm:"not null;index" json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null" json:"updatedAt" bson:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceItem is a line on an invoice. Amount = quantity * rate. Items
// have no independent lifecycle: they are written and replaced only as
// part of an invoice write.
type InvoiceItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id" bson:"_id"`
	InvoiceID   snowflake.ID `gorm:"not null;index" json:"invoiceId" bson:"invoice_id"`
	Description string       `gorm:"type:text;not null" json:"description" bson:"description"`
	Quantity    string       `gorm:"type:text;not null" json:"quantity" bson:"quantity"`
	Rate        string       `gorm:"type:text;not null" json:"rate" bson:"rate"`
	Amount      string       `gorm:"type:text;not null" json:"amount" bson:"amount"`
	CreatedAt   time.Time    `gorm:"not null" json:"createdAt" bson:"created_at"`
}

// TableName sets the database table name.
func (InvoiceItem) TableName() string { return "invoice_items" }

// InvoiceWithDetails is an invoice joined with its client and its items
// in insertion order.
type InvoiceWithDetails struct {
	Invoice
	Client clientdomain.Client `json:"client"`
	Items  []InvoiceItem       `json:"items"`
}
