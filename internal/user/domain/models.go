// Package domain contains the tenant (business profile) model and contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User is a tenant: the business profile owning clients and invoices.
// ExternalID maps the record to the identity provider's subject.
type User struct {
	ID                  snowflake.ID `gorm:"primaryKey" json:"id" bson:"_id"`
	Email               string       `gorm:"type:text;not null;uniqueIndex" json:"email" bson:"email"`
	BusinessName        string       `gorm:"type:text;not null" json:"businessName" bson:"business_name"`
	ContactPerson       string       `gorm:"type:text;not null" json:"contactPerson" bson:"contact_person"`
	Phone               *string      `gorm:"type:text" json:"phone,omitempty" bson:"phone,omitempty"`
	Address             *string      `gorm:"type:text" json:"address,omitempty" bson:"address,omitempty"`
	DefaultCurrency     string       `gorm:"type:text;not null;default:'USD'" json:"defaultCurrency" bson:"default_currency"`
	DefaultTaxRate      string       `gorm:"type:text;not null;default:'0.00'" json:"defaultTaxRate" bson:"default_tax_rate"`
	DefaultPaymentTerms int          `gorm:"not null;default:30" json:"defaultPaymentTerms" bson:"default_payment_terms"`
	ExternalID          string       `gorm:"type:text;not null;uniqueIndex" json:"externalId" bson:"external_id"`
	CreatedAt           time.Time    `gorm:"not null" json:"createdAt" bson:"created_at"`
	UpdatedAt           time.Time    `gorm:"not null" json:"updatedAt" bson:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
