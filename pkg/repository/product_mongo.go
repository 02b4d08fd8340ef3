package repository

import (
	"context"
	"fmt"

	"github.com/example/shopmate/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductMongo struct {
	collection *mongo.Collection
}

func NewProductMongo(db *mongo.Database) *ProductMongo {
	return &ProductMongo{collection: db.Collection("products")}
}

func (r *ProductMongo) Create(ctx context.Context, product *models.Product) error {
	_, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductMongo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ProductMongo) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *ProductMongo) findOne(ctx context.Context, filter bson.M) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, filter).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &product, nil
}

func (r *ProductMongo) Update(ctx context.Context, product *models.Product) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductMongo) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductMongo) List(ctx context.Context, seller string) ([]models.Product, error) {
	filter := bson.M{}
	if seller != "" {
		filter["seller"] = seller
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (r *ProductMongo) Search(ctx context.Context, q ProductQuery) ([]models.Product, int64, error) {
	filter := searchFilter(q)

	page := q.Page
	if page < 1 {
		page = 1
	}
	opts := options.Find().
		SetSort(searchSort(q.Order)).
		SetSkip(int64(q.PageSize * (page - 1))).
		SetLimit(int64(q.PageSize))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("search products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	return products, total, nil
}

func searchFilter(q ProductQuery) bson.M {
	filter := bson.M{}
	if q.Query != "" && q.Query != "all" {
		filter["name"] = primitive.Regex{Pattern: q.Query, Options: "i"}
	}
	if q.Category != "" && q.Category != "all" {
		filter["category"] = q.Category
	}
	if q.Gender != "" && q.Gender != "all" {
		filter["gender"] = q.Gender
	}
	if q.Size != "" && q.Size != "all" {
		filter["size"] = q.Size
	}
	if q.Color != "" && q.Color != "all" {
		filter["color"] = q.Color
	}
	if q.Brand != "" && q.Brand != "all" {
		filter["brand"] = q.Brand
	}
	if q.HasPrice {
		filter["price"] = bson.M{"$gte": q.PriceMin, "$lte": q.PriceMax}
	}
	if q.HasRating {
		filter["rating"] = bson.M{"$gte": q.MinRating}
	}
	return filter
}

func searchSort(order string) bson.D {
	switch order {
	case "featured":
		return bson.D{{Key: "featured", Value: -1}}
	case "lowest":
		return bson.D{{Key: "price", Value: 1}}
	case "highest":
		return bson.D{{Key: "price", Value: -1}}
	case "toprated":
		return bson.D{{Key: "rating", Value: -1}}
	case "newest":
		return bson.D{{Key: "createdAt", Value: -1}}
	default:
		return bson.D{{Key: "_id", Value: -1}}
	}
}

func (r *ProductMongo) Related(ctx context.Context, id string, limit int64) ([]models.Product, error) {
	product, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	filter := bson.M{
		"_id":      bson.M{"$ne": product.ID},
		"category": bson.M{"$in": product.Category},
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("find related products: %w", err)
	}
	defer cursor.Close(ctx)

	var related []models.Product
	if err := cursor.All(ctx, &related); err != nil {
		return nil, fmt.Errorf("decode related products: %w", err)
	}
	return related, nil
}

// AdjustStock runs a single $inc so concurrent settlements can never
// lose updates. With requireStock the filter also demands
// countInStock >= quantity; a miss is then disambiguated from a
// dangling reference by an existence probe.
func (r *ProductMongo) AdjustStock(ctx context.Context, id string, quantity int, requireStock bool) error {
	filter := bson.M{"_id": id}
	if requireStock {
		filter["countInStock"] = bson.M{"$gte": quantity}
	}
	update := bson.M{"$inc": bson.M{
		"countInStock": -quantity,
		"numSales":     quantity,
	}}

	err := r.collection.FindOneAndUpdate(ctx, filter, update).Err()
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if !requireStock {
		return ErrNotFound
	}
	if _, probeErr := r.GetByID(ctx, id); probeErr != nil {
		return probeErr
	}
	return ErrInsufficientStock
}
