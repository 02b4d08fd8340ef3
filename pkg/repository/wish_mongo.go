package repository

import (
	"context"
	"fmt"

	"github.com/example/shopmate/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type WishMongo struct {
	collection *mongo.Collection
}

func NewWishMongo(db *mongo.Database) *WishMongo {
	return &WishMongo{collection: db.Collection("wishes")}
}

func (r *WishMongo) Create(ctx context.Context, wish *models.Wish) error {
	_, err := r.collection.InsertOne(ctx, wish)
	if err != nil {
		return fmt.Errorf("insert wish: %w", err)
	}
	return nil
}

func (r *WishMongo) ListByUser(ctx context.Context, userID string) ([]models.Wish, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list wishes: %w", err)
	}
	defer cursor.Close(ctx)

	var wishes []models.Wish
	if err := cursor.All(ctx, &wishes); err != nil {
		return nil, fmt.Errorf("decode wishes: %w", err)
	}
	return wishes, nil
}

func (r *WishMongo) SetChecked(ctx context.Context, id string, checked bool) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"checked": checked}},
	)
	if err != nil {
		return fmt.Errorf("set checked: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *WishMongo) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete wish: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
