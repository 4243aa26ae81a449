/* leaderboard.go
 * Contains the methods for interacting with the leaderboards collection
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FetchLeaderboardFromDB returns the cached leaderboard from the db
// Preconditions: Receives receiver pointer to Store
// Postconditions: Returns the ordered slice of LeaderboardEntry, or an error
// if it occurs. mongo.ErrNoDocuments passes through untouched so callers can
// regenerate a leaderboard that has never been cached
func (s *Store) FetchLeaderboardFromDB() ([]LeaderboardEntry, error) {
	opts := options.FindOne()

	var res LeaderboardRecord
	err := s.Collections.Leaderboard.FindOne(context.TODO(), bson.D{{Key: "tournament", Value: s.Tournament}}, opts).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch leaderboard from database: %w", err)
	}

	return res.Entries, nil
}

// StoreLeaderboard updates the leaderboard cached in the DB
// Preconditions: Receives receiver pointer to Store and the LeaderboardRecord
// to be stored; its Tournament field is overwritten with the store's active
// tournament key
// Postconditions: Updates the leaderboards collection in Mongo and returns
// nil, or an error if it occurs
func (s *Store) StoreLeaderboard(leaderboard LeaderboardRecord) error {
	if reflect.DeepEqual(leaderboard, LeaderboardRecord{}) {
		return fmt.Errorf("leaderboard is empty")
	}
	leaderboard.Id = primitive.NilObjectID
	leaderboard.Tournament = s.Tournament

	// Attempt to find an existing document
	var res LeaderboardRecord
	err := s.Collections.Leaderboard.FindOne(context.TODO(), bson.D{{Key: "tournament", Value: s.Tournament}}).Decode(&res)
	notFound := err == mongo.ErrNoDocuments

	if err != nil && !notFound {
		return fmt.Errorf("lookup for existing record failed: %w", err)
	}

	// Perform insert or update
	log.Println("updating leaderboard in db")
	if notFound {
		_, err := s.Collections.Leaderboard.InsertOne(context.TODO(), leaderboard)
		if err != nil {
			return fmt.Errorf("leaderboard insert failed: %w", err)
		}
		return nil
	}

	filter := bson.M{"tournament": s.Tournament}
	update := bson.D{{Key: "$set", Value: leaderboard}}

	_, err = s.Collections.Leaderboard.UpdateOne(context.TODO(), filter, update)
	if err != nil {
		return fmt.Errorf("leaderboard update failed: %w", err)
	}
	return nil
}
