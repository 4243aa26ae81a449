/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 */

package store

import (
	"context"

	"bracket-bot/api/scoring"
)

// Interface defines the methods that Store implements.
// This allows for mocking in tests.
type Interface interface {
	StoreOfficialBracket(rec OfficialRecord) error
	GetOfficialBracket() (OfficialRecord, error)
	StoreEntry(userID string, entry EntryRecord) error
	GetEntry(userID string) (EntryRecord, error)
	GetAllEntries() ([]EntryRecord, error)
	StoreScoringConfig(cfg scoring.ConfigRecord) error
	GetScoringConfig() (ScoringConfigRecord, error)
	StoreLeaderboard(leaderboard LeaderboardRecord) error
	FetchLeaderboardFromDB() ([]LeaderboardEntry, error)

	// Getter methods for accessing fields
	GetDatabase() interface{ Name() string }
	GetTournament() string
	GetClient() interface{ Disconnect(context.Context) error }
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)

// GetDatabase returns the database instance
func (s *Store) GetDatabase() interface{ Name() string } {
	return s.Database
}

// GetTournament returns the tournament key
func (s *Store) GetTournament() string {
	return s.Tournament
}

// GetClient returns the MongoDB client
func (s *Store) GetClient() interface{ Disconnect(context.Context) error } {
	return s.Client
}
