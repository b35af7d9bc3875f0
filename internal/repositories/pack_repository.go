package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CantWait1/PrivatePacks-sub000/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrPackNotFound reports that no pack exists under the given ID. A malformed
// ID reads the same way: such a pack cannot exist. Any other error from the
// repository is an infrastructure failure.
var ErrPackNotFound = errors.New("pack not found")

// PackRepository defines the interface for texture pack catalog operations.
// The comment pipeline only needs GetPackByID; the rest backs the browse
// endpoints.
type PackRepository interface {
	CreatePack(ctx context.Context, pack *models.Pack) error
	GetPackByID(ctx context.Context, id string) (*models.Pack, error)
	GetAllPacks(ctx context.Context, skip, limit int64) ([]models.Pack, error)
	DeletePack(ctx context.Context, id string) error
	IncrementDownloads(ctx context.Context, id string) error
}

// MongoPackRepository implements PackRepository for MongoDB
type MongoPackRepository struct {
	collection *mongo.Collection
}

// NewMongoPackRepository creates a new MongoPackRepository
func NewMongoPackRepository(db *mongo.Database) *MongoPackRepository {
	return &MongoPackRepository{collection: db.Collection("packs")}
}

// CreatePack creates a new pack in MongoDB
func (r *MongoPackRepository) CreatePack(ctx context.Context, pack *models.Pack) error {
	pack.ID = primitive.NewObjectID()
	pack.CreatedAt = time.Now()
	pack.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, pack)
	return err
}

// GetPackByID retrieves a pack by ID from MongoDB
func (r *MongoPackRepository) GetPackByID(ctx context.Context, id string) (*models.Pack, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPackNotFound
	}

	var pack models.Pack
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&pack)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPackNotFound
		}
		return nil, err
	}
	return &pack, nil
}

// GetAllPacks retrieves packs from MongoDB with pagination, newest first
func (r *MongoPackRepository) GetAllPacks(ctx context.Context, skip, limit int64) ([]models.Pack, error) {
	var packs []models.Pack
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &packs); err != nil {
		return nil, err
	}
	return packs, nil
}

// DeletePack deletes a pack by ID from MongoDB
func (r *MongoPackRepository) DeletePack(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid pack ID format: %w", err)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPackNotFound
	}
	return nil
}

// IncrementDownloads increments the download counter of a pack
func (r *MongoPackRepository) IncrementDownloads(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid pack ID format: %w", err)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"downloads": 1}})
	return err
}
