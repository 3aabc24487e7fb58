package repository

import (
	"context"
	"errors"

	"github.com/JohnAlex1900/Smart-Invoice/internal/client/domain"
	"github.com/bwmarrin/snowflake"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRepo struct {
	db *mongo.Database
}

// NewMongo returns the document-store adapter for the client repository.
func NewMongo(db *mongo.Database) domain.Repository {
	return &mongoRepo{db: db}
}

func (r *mongoRepo) clients() *mongo.Collection  { return r.db.Collection("clients") }
func (r *mongoRepo) invoices() *mongo.Collection { return r.db.Collection("invoices") }
func (r *mongoRepo) items() *mongo.Collection    { return r.db.Collection("invoice_items") }

func (r *mongoRepo) Insert(ctx context.Context, client *domain.Client) error {
	_, err := r.clients().InsertOne(ctx, client)
	return err
}

func (r *mongoRepo) FindByID(ctx context.Context, tenantID, id snowflake.ID) (*domain.Client, error) {
	var client domain.Client
	err := r.clients().FindOne(ctx, bson.M{"_id": id, "user_id": tenantID}).Decode(&client)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *mongoRepo) List(ctx context.Context, tenantID snowflake.ID) ([]domain.Client, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.clients().Find(ctx, bson.M{"user_id": tenantID}, opts)
	if err != nil {
		return nil, err
	}
	var clients []domain.Client
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *mongoRepo) Stats(ctx context.Context, tenantID snowflake.ID) ([]domain.InvoiceStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": tenantID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$client_id",
			"count": bson.M{"$sum": 1},
			"total": bson.M{"$sum": bson.M{"$toDecimal": "$total"}},
		}}},
	}
	cursor, err := r.invoices().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ClientID snowflake.ID         `bson:"_id"`
		Count    int64                `bson:"count"`
		Total    primitive.Decimal128 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	stats := make([]domain.InvoiceStats, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, domain.InvoiceStats{
			ClientID:    row.ClientID,
			Count:       row.Count,
			TotalAmount: row.Total.String(),
		})
	}
	return stats, nil
}

func (r *mongoRepo) Update(ctx context.Context, client *domain.Client) error {
	result, err := r.clients().ReplaceOne(ctx,
		bson.M{"_id": client.ID, "user_id": client.UserID}, client)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *mongoRepo) DeleteCascade(ctx context.Context, tenantID, id snowflake.ID) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		cursor, err := r.invoices().Find(sc,
			bson.M{"user_id": tenantID, "client_id": id},
			options.Find().SetProjection(bson.M{"_id": 1}))
		if err != nil {
			return nil, err
		}
		var refs []struct {
			ID snowflake.ID `bson:"_id"`
		}
		if err := cursor.All(sc, &refs); err != nil {
			return nil, err
		}

		invoiceIDs := make([]snowflake.ID, 0, len(refs))
		for _, ref := range refs {
			invoiceIDs = append(invoiceIDs, ref.ID)
		}

		if len(invoiceIDs) > 0 {
			if _, err := r.items().DeleteMany(sc, bson.M{"invoice_id": bson.M{"$in": invoiceIDs}}); err != nil {
				return nil, err
			}
			if _, err := r.invoices().DeleteMany(sc, bson.M{"_id": bson.M{"$in": invoiceIDs}}); err != nil {
				return nil, err
			}
		}

		result, err := r.clients().DeleteOne(sc, bson.M{"_id": id, "user_id": tenantID})
		if err != nil {
			return nil, err
		}
		if result.DeletedCount == 0 {
			return nil, domain.ErrNotFound
		}
		return nil, nil
	})
	return err
}
