package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"venuebook/internal/migrations/mongo/validators"
	"venuebook/pkg/model"
)

var (
	VenuesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "capacity", Value: 1}}},
	}

	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "venue_id", Value: 1},
			{Key: "start_time", Value: 1},
			{Key: "end_time", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "end_time", Value: 1},
		}},
		{Keys: bson.D{{Key: "requester_id", Value: 1}}},
	}

	// Seed catalog; venues are provisioned here, not through the API.
	SeedVenues = []model.Venue{
		{ID: "grand-ballroom", Name: "Grand Ballroom", Location: "Downtown", Capacity: 500, BasePrice: 1200, Description: "Chandeliered hall for galas and large corporate events", Rating: 4.8},
		{ID: "skyline-loft", Name: "Skyline Loft", Location: "Arts District", Capacity: 150, BasePrice: 450, Description: "Rooftop loft with a panoramic city view", Rating: 4.6},
		{ID: "garden-pavilion", Name: "Garden Pavilion", Location: "Riverside", Capacity: 250, BasePrice: 680, Description: "Open-air pavilion surrounded by gardens", Rating: 4.7},
		{ID: "harbor-hall", Name: "Harbor Hall", Location: "Waterfront", Capacity: 100, BasePrice: 320, Description: "Intimate waterfront venue for receptions", Rating: 4.4},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("Running venuebook Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Venues": {
			Indexes:   VenuesIndexes,
			Validator: validators.VenueValidator,
		},
		"Bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	if err := seedVenues(ctx, db); err != nil {
		return fmt.Errorf("failed to seed venues: %w", err)
	}

	fmt.Println("All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("Collection %s already exists, updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("Ensured indexes for %s\n", name)
	return nil
}

// seedVenues upserts the catalog so reruns stay idempotent and manual edits
// to a venue's fields are preserved via $setOnInsert.
func seedVenues(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection("Venues")
	for _, venue := range SeedVenues {
		filter := bson.M{"_id": venue.ID}
		update := bson.M{"$setOnInsert": venue}
		opts := options.Update().SetUpsert(true)
		if _, err := coll.UpdateOne(ctx, filter, update, opts); err != nil {
			return fmt.Errorf("failed seeding venue %s: %w", venue.ID, err)
		}
	}
	fmt.Printf("Seeded %d venues\n", len(SeedVenues))
	return nil
}
