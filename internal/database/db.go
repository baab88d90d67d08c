package database

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ApplicationsCollection is the single collection backing the tracker.
const ApplicationsCollection = "applications"

// Connect opens the MongoDB client and pings the deployment. Startup is
// fail-fast: a tracker without its record store has nothing to serve.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	log.Info().Str("database", dbName).Msg("MongoDB connection established")
	return client.Database(dbName), nil
}

// EnsureIndexes creates the indexes the query layer relies on. Owner and
// status indexes back the scoped CRUD/stats filters; the weighted text index
// backs relevance search (title outranks company outranks notes).
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(ApplicationsCollection)

	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "appliedDate", Value: -1}}},
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "company", Value: "text"},
				{Key: "notes", Value: "text"},
			},
			Options: options.Index().
				SetName("applicationsTextIndex").
				SetWeights(bson.D{
					{Key: "title", Value: 3},
					{Key: "company", Value: 2},
					{Key: "notes", Value: 1},
				}),
		},
	})
	return err
}
