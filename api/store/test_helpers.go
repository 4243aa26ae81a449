/* test_helpers.go
 * Contains test helper functions and sample document builders for store
 * package tests
 */

package store

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bracket-bot/api/bracket"
)

// NewMockStore creates a Store instance for testing purposes.
// This can be used with a real test database or in-memory MongoDB.
func NewMockStore(dbName string, mongoURI string) (*Store, error) {
	return NewStore(dbName, mongoURI, "test-playoffs-2025")
}

// CreateTestStore creates a Store connected to a test database.
// Returns the store and a cleanup function.
func CreateTestStore(mongoURI string) (*Store, func(), error) {
	store, err := NewMockStore("test_bracketbot", mongoURI)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if store.Client != nil {
			// Drop test database
			store.Database.Drop(context.TODO())
			// Disconnect client
			store.Client.Disconnect(context.TODO())
		}
	}

	return store, cleanup, nil
}

// CreateTestClient creates a test MongoDB client.
func CreateTestClient(mongoURI string) (*mongo.Client, error) {
	client, err := mongo.Connect(context.TODO(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	return client, nil
}

// CreateSampleRoster creates a full 8-seed roster per conference, with seeds
// 9 and 10 added when the play-in stage is wanted.
func CreateSampleRoster(playIn bool) *bracket.Roster {
	east := []bracket.TeamSeed{
		{Name: "Celtics", Seed: 1}, {Name: "Bucks", Seed: 2},
		{Name: "Sixers", Seed: 3}, {Name: "Cavaliers", Seed: 4},
		{Name: "Knicks", Seed: 5}, {Name: "Nets", Seed: 6},
		{Name: "Hawks", Seed: 7}, {Name: "Heat", Seed: 8},
	}
	west := []bracket.TeamSeed{
		{Name: "Nuggets", Seed: 1}, {Name: "Suns", Seed: 2},
		{Name: "Warriors", Seed: 3}, {Name: "Grizzlies", Seed: 4},
		{Name: "Lakers", Seed: 5}, {Name: "Clippers", Seed: 6},
		{Name: "Kings", Seed: 7}, {Name: "Timberwolves", Seed: 8},
	}
	if playIn {
		east = append(east, bracket.TeamSeed{Name: "Bulls", Seed: 9}, bracket.TeamSeed{Name: "Raptors", Seed: 10})
		west = append(west, bracket.TeamSeed{Name: "Pelicans", Seed: 9}, bracket.TeamSeed{Name: "Thunder", Seed: 10})
	}
	return &bracket.Roster{East: east, West: west, PlayIn: playIn}
}

// CreateSampleOfficialRecord creates a sample OfficialRecord seeded from the
// sample roster, for testing.
func CreateSampleOfficialRecord(tournament string) OfficialRecord {
	ro := CreateSampleRoster(false)
	b, _ := bracket.NewFromRoster(ro)
	return OfficialRecord{
		Tournament: tournament,
		InstanceId: "00000000-0000-0000-0000-000000000000",
		Name:       "Test Playoffs 2025",
		Roster:     *ro,
		Bracket:    *b,
	}
}

// CreateSampleEntry creates a sample EntryRecord for testing. The predicted
// tree starts as the empty template derived from the sample roster.
func CreateSampleEntry(tournament, userID, username string) EntryRecord {
	ro := CreateSampleRoster(false)
	b, _ := bracket.NewFromRoster(ro)
	return EntryRecord{
		Tournament: tournament,
		UserId:     userID,
		Username:   username,
		Bracket:    *bracket.Template(b),
	}
}
