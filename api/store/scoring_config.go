/* scoring_config.go
 * Contains the methods for interacting with the scoring_configs collection
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bracket-bot/api/scoring"
)

// StoreScoringConfig stores the tournament's scoring configuration overrides
// in the db
// Preconditions: Receives the sparse scoring.ConfigRecord to store
// Postconditions: Stores or updates the tournament's scoring configuration,
// or returns an error if the operation was unsuccessful
func (s *Store) StoreScoringConfig(cfg scoring.ConfigRecord) error {
	// Attempt to find an existing document
	var result ScoringConfigRecord
	err := s.Collections.ScoringConfig.FindOne(context.TODO(), bson.M{"tournament": s.Tournament}).Decode(&result)
	notFound := err == mongo.ErrNoDocuments

	if err != nil && !notFound {
		return fmt.Errorf("lookup for existing scoring config failed: %w", err)
	}

	rec := ScoringConfigRecord{
		Id:         primitive.NilObjectID,
		Tournament: s.Tournament,
		Config:     cfg,
	}
	filter := bson.M{"tournament": s.Tournament}
	update := bson.M{"$set": rec}

	// Perform insert or update
	if notFound {
		_, err := s.Collections.ScoringConfig.InsertOne(context.TODO(), rec)
		if err != nil {
			return fmt.Errorf("failed to insert scoring config: %w", err)
		}
		return nil
	}
	_, err = s.Collections.ScoringConfig.UpdateOne(context.TODO(), filter, update)
	if err != nil {
		return fmt.Errorf("failed to update scoring config: %w", err)
	}

	return nil
}

// GetScoringConfig does DB lookup and gets the scoring configuration for the
// active tournament
// Preconditions: Receives receiver pointer to Store
// Postconditions: Returns the stored ScoringConfigRecord, or a zero record
// and no error when none has been stored, since an absent document just
// means the defaults apply. Any other failure returns an error
func (s *Store) GetScoringConfig() (ScoringConfigRecord, error) {
	var result ScoringConfigRecord
	err := s.Collections.ScoringConfig.FindOne(context.TODO(), bson.M{"tournament": s.Tournament}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ScoringConfigRecord{}, nil
		}
		return ScoringConfigRecord{}, fmt.Errorf("error fetching scoring config from db: %w", err)
	}

	return result, nil
}
