/* official.go
 * Contains the methods for interacting with the official_brackets collection
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// StoreOfficialBracket stores the official bracket in the db
// Preconditions: Receives the OfficialRecord to store; its Tournament field
// is overwritten with the store's active tournament key
// Postconditions: Stores or updates the tournament's official bracket, or
// returns an error if the operation was unsuccessful
func (s *Store) StoreOfficialBracket(rec OfficialRecord) error {
	// Records round-trip through Get and back; the stored _id must not ride
	// along into $set.
	rec.Id = primitive.NilObjectID
	rec.Tournament = s.Tournament

	// Attempt to find an existing document
	var result OfficialRecord
	err := s.Collections.Official.FindOne(context.TODO(), bson.M{"tournament": s.Tournament}).Decode(&result)
	notFound := err == mongo.ErrNoDocuments

	if err != nil && !notFound {
		return fmt.Errorf("lookup for existing official bracket failed: %w", err)
	}

	// The tournament has no official bracket yet so we create a new document
	if notFound {
		_, err := s.Collections.Official.InsertOne(context.TODO(), rec)
		if err != nil {
			return fmt.Errorf("failed to insert official bracket: %w", err)
		}
		return nil
	}

	// Else replace the stored bracket
	filter := bson.M{"tournament": s.Tournament}
	update := bson.M{"$set": rec}

	_, err = s.Collections.Official.UpdateOne(context.TODO(), filter, update)
	if err != nil {
		return fmt.Errorf("failed to update official bracket: %w", err)
	}
	return nil
}

// GetOfficialBracket does DB lookup and gets the official bracket for the
// active tournament
// Preconditions: Receives receiver pointer to Store
// Postconditions: Returns the OfficialRecord if it exists, or an error if it
// occurs. mongo.ErrNoDocuments passes through untouched so callers can treat
// a missing tournament as its own case
func (s *Store) GetOfficialBracket() (OfficialRecord, error) {
	var result OfficialRecord
	err := s.Collections.Official.FindOne(context.TODO(), bson.M{"tournament": s.Tournament}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return OfficialRecord{}, err
		}
		return OfficialRecord{}, fmt.Errorf("error fetching official bracket from db: %w", err)
	}

	return result, nil
}
