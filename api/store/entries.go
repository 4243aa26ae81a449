/* entries.go
 * Contains the methods for interacting with the bracket_entries collection
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StoreEntry stores a participant's predicted bracket in the db
// Preconditions: Receives the participant's userID and the EntryRecord to
// store; the record's Tournament and UserId fields are overwritten with the
// store's tournament key and the given userID
// Postconditions: Stores or updates the participant's entry, or returns an
// error if the operation was unsuccessful
func (s *Store) StoreEntry(userID string, entry EntryRecord) error {
	entry.Id = primitive.NilObjectID
	entry.Tournament = s.Tournament
	entry.UserId = userID

	// Attempt to find an existing document
	var result EntryRecord
	err := s.Collections.Entries.FindOne(context.TODO(), bson.M{"tournament": s.Tournament, "userid": userID}).Decode(&result)
	notFound := err == mongo.ErrNoDocuments

	if err != nil && !notFound {
		return fmt.Errorf("lookup for existing entry failed: %w", err)
	}

	update := bson.M{
		"$set": entry,
	}
	filter := bson.M{
		"tournament": s.Tournament,
		"userid":     userID,
	}

	// The participant has no entry stored yet so we create a new document
	if notFound {
		_, err := s.Collections.Entries.InsertOne(context.TODO(), entry)
		if err != nil {
			return fmt.Errorf("failed to insert new entry: %w", err)
		}
		return nil
	}

	// Else update the participant's existing entry
	_, err = s.Collections.Entries.UpdateOne(context.TODO(), filter, update)
	if err != nil {
		return fmt.Errorf("failed to update existing entry: %w", err)
	}
	return nil
}

// GetEntry does DB lookup and gets the entry for a participant
// Preconditions: Receives a string containing the participant's userID
// Postconditions: Returns the participant's EntryRecord if it exists, or an
// error if it occurs. mongo.ErrNoDocuments passes through untouched so
// callers can treat a missing entry as its own case
func (s *Store) GetEntry(userID string) (EntryRecord, error) {
	opts := options.FindOne()

	var result EntryRecord
	err := s.Collections.Entries.FindOne(context.TODO(), bson.M{"tournament": s.Tournament, "userid": userID}, opts).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return EntryRecord{}, err
		}
		return EntryRecord{}, fmt.Errorf("error fetching entry from db: %w", err)
	}

	return result, nil
}

// GetAllEntries does DB lookup and gets the entries of every participant in
// the active tournament. Used in leaderboard calculations.
// It returns a slice of EntryRecords or an error if it occurs.
func (s *Store) GetAllEntries() ([]EntryRecord, error) {
	// Filter query to match documents belonging to the active tournament
	filter := bson.D{{Key: "tournament", Value: s.Tournament}}

	// Retrieves documents that match the filter
	cursor, err := s.Collections.Entries.Find(context.TODO(), filter)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		return nil, fmt.Errorf("error fetching entries from db: %w", err)
	}

	// Unpack the cursor into a slice
	var results []EntryRecord
	if err = cursor.All(context.TODO(), &results); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of entries: %w", err)
	}

	return results, nil
}
