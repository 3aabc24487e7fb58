// Package migration prepares the schema at startup so the application
// is usable out of the box for local and self-hosted environments.
package migration

import (
	"context"

	clientdomain "github.com/JohnAlex1900/Smart-Invoice/internal/client/domain"
	invoicedomain "github.com/JohnAlex1900/Smart-Invoice/internal/invoice/domain"
	userdomain "github.com/JohnAlex1900/Smart-Invoice/internal/user/domain"
	"github.com/JohnAlex1900/Smart-Invoice/pkg/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
)

var Module = fx.Module("migrations",
	fx.Invoke(Run),
)

func Run(conn db.Conn) error {
	if conn.Mongo != nil {
		return ensureMongoIndexes(context.Background(), conn.Mongo)
	}
	return conn.Gorm.AutoMigrate(
		&userdomain.User{},
		&clientdomain.Client{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
	)
}

func ensureMongoIndexes(ctx context.Context, database *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	_, err := database.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "external_id", Value: 1}}, Options: unique},
	})
	if err != nil {
		return err
	}

	_, err = database.Collection("clients").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return err
	}

	_, err = database.Collection("invoices").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "client_id", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = database.Collection("invoice_items").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "invoice_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	return err
}
