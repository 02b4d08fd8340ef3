package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/example/shopmate/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// settingsID pins the shop settings to a single well-known document.
const settingsID = "shop"

type SettingsMongo struct {
	collection *mongo.Collection
}

func NewSettingsMongo(db *mongo.Database) *SettingsMongo {
	return &SettingsMongo{collection: db.Collection("settings")}
}

func (r *SettingsMongo) Get(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := r.collection.FindOne(ctx, bson.M{"_id": settingsID}).Decode(&settings)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find settings: %w", err)
	}
	return &settings, nil
}

func (r *SettingsMongo) Update(ctx context.Context, settings *models.Settings) error {
	settings.ID = settingsID
	settings.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"_id": settingsID},
		settings,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}
