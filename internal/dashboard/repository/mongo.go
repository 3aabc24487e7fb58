package repository

import (
	"context"
	"time"

	"github.com/JohnAlex1900/Smart-Invoice/internal/dashboard/domain"
	"github.com/bwmarrin/snowflake"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoRepo struct {
	db *mongo.Database
}

// NewMongo returns the document-store adapter for dashboard aggregation.
func NewMongo(db *mongo.Database) domain.Repository {
	return &mongoRepo{db: db}
}

func (r *mongoRepo) Snapshot(ctx context.Context, tenantID snowflake.ID, createdFrom, createdTo *time.Time) (domain.Snapshot, error) {
	match := bson.M{"user_id": tenantID}
	if window := windowFilter(createdFrom, createdTo); window != nil {
		match["created_at"] = window
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"count": bson.M{"$sum": 1},
			"pending": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", "pending"}},
				bson.M{"$toDecimal": "$total"},
				bson.M{"$toDecimal": "0"},
			}}},
			"paid": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", "paid"}},
				bson.M{"$toDecimal": "$total"},
				bson.M{"$toDecimal": "0"},
			}}},
		}}},
	}

	cursor, err := r.db.Collection("invoices").Aggregate(ctx, pipeline)
	if err != nil {
		return domain.Snapshot{}, err
	}
	var rows []struct {
		Count   int64                `bson:"count"`
		Pending primitive.Decimal128 `bson:"pending"`
		Paid    primitive.Decimal128 `bson:"paid"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return domain.Snapshot{}, err
	}

	var snapshot domain.Snapshot
	if len(rows) > 0 {
		snapshot.InvoiceCount = rows[0].Count
		snapshot.PendingAmount = rows[0].Pending.String()
		snapshot.PaidAmount = rows[0].Paid.String()
	}

	clientMatch := bson.M{"user_id": tenantID}
	if window := windowFilter(createdFrom, createdTo); window != nil {
		clientMatch["created_at"] = window
	}
	clientCount, err := r.db.Collection("clients").CountDocuments(ctx, clientMatch)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snapshot.ClientCount = clientCount

	return snapshot, nil
}

func windowFilter(createdFrom, createdTo *time.Time) bson.M {
	if createdFrom == nil && createdTo == nil {
		return nil
	}
	window := bson.M{}
	if createdFrom != nil {
		window["$gte"] = *createdFrom
	}
	if createdTo != nil {
		window["$lte"] = *createdTo
	}
	return window
}
