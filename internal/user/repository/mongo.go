package repository

import (
	"context"
	"errors"

	"github.com/JohnAlex1900/Smart-Invoice/internal/user/domain"
	"github.com/bwmarrin/snowflake"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoRepo struct {
	users *mongo.Collection
}

// NewMongo returns the document-store adapter for the tenant repository.
func NewMongo(db *mongo.Database) domain.Repository {
	return &mongoRepo{users: db.Collection("users")}
}

func (r *mongoRepo) Insert(ctx context.Context, user *domain.User) error {
	_, err := r.users.InsertOne(ctx, user)
	return err
}

func (r *mongoRepo) FindByID(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoRepo) FindByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"external_id": externalID})
}

func (r *mongoRepo) Update(ctx context.Context, user *domain.User) error {
	result, err := r.users.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *mongoRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	err := r.users.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
