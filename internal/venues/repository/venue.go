package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	venueserrors "venuebook/internal/venues/errors"
	"venuebook/pkg/config"
	"venuebook/pkg/model"
)

const (
	CollectionName = "Venues"
)

type mongoVenueRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

// VenueRepository is a read-only catalog. Venues are provisioned through
// migrations, not through the API.
type VenueRepository interface {
	FindByID(ctx context.Context, id string) (*model.Venue, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Venue, error)
	Count(ctx context.Context) (int64, error)
}

func NewMongoVenueRepository(cfg *config.Config) VenueRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoVenueRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoVenueRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.cfg.ReadTimeout)
}

func (r *mongoVenueRepository) FindByID(ctx context.Context, id string) (*model.Venue, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var venue model.Venue
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&venue)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, venueserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find venue: %w", err)
	}

	return &venue, nil
}

func (r *mongoVenueRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Venue, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find venues: %w", err)
	}
	defer cursor.Close(ctx)

	var venues []*model.Venue
	if err = cursor.All(ctx, &venues); err != nil {
		return nil, fmt.Errorf("failed to decode venues: %w", err)
	}

	return venues, nil
}

func (r *mongoVenueRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count venues: %w", err)
	}
	return count, nil
}
