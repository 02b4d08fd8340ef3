package repository

import (
	"context"
	"fmt"

	"github.com/example/shopmate/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderMongo struct {
	collection *mongo.Collection
}

func NewOrderMongo(db *mongo.Database) *OrderMongo {
	return &OrderMongo{collection: db.Collection("orders")}
}

func (r *OrderMongo) Create(ctx context.Context, order *models.Order) error {
	_, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderMongo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &order, nil
}

func (r *OrderMongo) Update(ctx context.Context, order *models.Order) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OrderMongo) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OrderMongo) List(ctx context.Context, q OrderQuery) ([]models.Order, int64, error) {
	filter := bson.M{}
	if q.Seller != "" && q.Seller != "all" {
		filter["seller"] = q.Seller
	}
	if q.User != "" {
		filter["user"] = q.User
	}

	sort := bson.D{{Key: "_id", Value: -1}}
	if q.FeaturedSort {
		sort = bson.D{{Key: "createdAt", Value: -1}}
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(q.PageSize * (page - 1))).
		SetLimit(int64(q.PageSize))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("decode orders: %w", err)
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	return orders, total, nil
}

func (r *OrderMongo) CountOrders(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// DailySales groups orders by UTC calendar day of createdAt, newest
// first, returning at most limit buckets.
func (r *OrderMongo) DailySales(ctx context.Context, limit int64) ([]DailyBucket, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$createdAt",
			}},
			"orders": bson.M{"$sum": 1},
			"sales":  bson.M{"$sum": "$grandTotal"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": -1}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate daily sales: %w", err)
	}
	defer cursor.Close(ctx)

	var buckets []DailyBucket
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, fmt.Errorf("decode daily sales: %w", err)
	}
	return buckets, nil
}

// UserSpend sums grandTotal per owning user. An empty userID returns
// every user's total.
func (r *OrderMongo) UserSpend(ctx context.Context, userID string) ([]UserSpend, error) {
	match := bson.M{}
	if userID != "" {
		match["user"] = userID
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$user",
			"total": bson.M{"$sum": "$grandTotal"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate user spend: %w", err)
	}
	defer cursor.Close(ctx)

	var totals []UserSpend
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, fmt.Errorf("decode user spend: %w", err)
	}
	return totals, nil
}
