/* store.go
 * Contains the store struct and NewStore function. The methods for this
 * package are split across official.go, entries.go, scoring_config.go and
 * leaderboard.go, one file per collection.
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Tournament  string
	Collections struct {
		Official      *mongo.Collection
		Entries       *mongo.Collection
		ScoringConfig *mongo.Collection
		Leaderboard   *mongo.Collection
	}
}

// Function for initialising Store. Opens the db connection and binds the
// collections used by this pool.
// Preconditions: Receives strings containing dbName, mongoURI and the
// tournament key that namespaces every document
// Postconditions: Returns pointer to the Store object, or error if it occurs
func NewStore(dbName string, mongoURI string, tournament string) (*Store, error) {
	client, err := mongo.Connect(context.TODO(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	db := client.Database(dbName)

	if tournament == "" {
		return nil, fmt.Errorf("tournament cannot be empty")
	}

	return &Store{
		Client:     client,
		Database:   db,
		Tournament: tournament,
		Collections: struct {
			Official      *mongo.Collection
			Entries       *mongo.Collection
			ScoringConfig *mongo.Collection
			Leaderboard   *mongo.Collection
		}{
			Official:      db.Collection("official_brackets"),
			Entries:       db.Collection("bracket_entries"),
			ScoringConfig: db.Collection("scoring_configs"),
			Leaderboard:   db.Collection("leaderboards"),
		},
	}, nil
}
