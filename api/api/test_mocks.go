/* test_mocks.go
 * Contains mock structures and interfaces for testing the API package
 */

package api

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	"bracket-bot/api/scoring"
	"bracket-bot/api/store"
)

// MockStore implements the store interface for testing. The mutex makes it
// safe under the fan-out, which writes entries concurrently.
type MockStore struct {
	mu sync.Mutex

	// Storage for mock data
	Official    *store.OfficialRecord
	Entries     map[string]store.EntryRecord
	Config      *store.ScoringConfigRecord
	Leaderboard *store.LeaderboardRecord

	// Error injection for testing error paths
	StoreOfficialBracketError error
	GetOfficialBracketError   error
	StoreEntryError           error
	GetEntryError             error
	GetAllEntriesError        error
	StoreScoringConfigError   error
	GetScoringConfigError     error
	StoreLeaderboardError     error
	FetchLeaderboardError     error

	// FailEntryIds fails StoreEntry for just these participants, for
	// partial-batch scenarios
	FailEntryIds map[string]bool

	// Store fields needed for compatibility
	Tournament string
	Database   interface{ Name() string }
}

// mockDatabase implements the minimal Database interface needed for tests
type mockDatabase struct {
	name string
}

func (m *mockDatabase) Name() string {
	return m.name
}

// Ensure MockStore keeps implementing the store interface
var _ store.Interface = (*MockStore)(nil)

// NewMockStore creates a new MockStore with default values
func NewMockStore() *MockStore {
	return &MockStore{
		Entries:      make(map[string]store.EntryRecord),
		FailEntryIds: make(map[string]bool),
		Tournament:   "test-playoffs-2025",
		Database:     &mockDatabase{name: "test_db"},
	}
}

// StoreOfficialBracket mock implementation
func (m *MockStore) StoreOfficialBracket(rec store.OfficialRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreOfficialBracketError != nil {
		return m.StoreOfficialBracketError
	}
	rec.Tournament = m.Tournament
	m.Official = &rec
	return nil
}

// GetOfficialBracket mock implementation
func (m *MockStore) GetOfficialBracket() (store.OfficialRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetOfficialBracketError != nil {
		return store.OfficialRecord{}, m.GetOfficialBracketError
	}
	if m.Official == nil {
		return store.OfficialRecord{}, mongo.ErrNoDocuments
	}
	return *m.Official, nil
}

// StoreEntry mock implementation
func (m *MockStore) StoreEntry(userID string, entry store.EntryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreEntryError != nil {
		return m.StoreEntryError
	}
	if m.FailEntryIds[userID] {
		return mongo.ErrClientDisconnected
	}
	entry.Tournament = m.Tournament
	entry.UserId = userID
	m.Entries[userID] = entry
	return nil
}

// GetEntry mock implementation
func (m *MockStore) GetEntry(userID string) (store.EntryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetEntryError != nil {
		return store.EntryRecord{}, m.GetEntryError
	}
	entry, ok := m.Entries[userID]
	if !ok {
		return store.EntryRecord{}, mongo.ErrNoDocuments
	}
	return entry, nil
}

// GetAllEntries mock implementation. Returns the entries sorted by user id
// so tests see a stable order.
func (m *MockStore) GetAllEntries() ([]store.EntryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllEntriesError != nil {
		return nil, m.GetAllEntriesError
	}

	entries := make([]store.EntryRecord, 0, len(m.Entries))
	for _, entry := range m.Entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].UserId < entries[j].UserId })
	return entries, nil
}

// StoreScoringConfig mock implementation
func (m *MockStore) StoreScoringConfig(cfg scoring.ConfigRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreScoringConfigError != nil {
		return m.StoreScoringConfigError
	}
	m.Config = &store.ScoringConfigRecord{Tournament: m.Tournament, Config: cfg}
	return nil
}

// GetScoringConfig mock implementation. No stored config resolves to the
// defaults, matching the real store.
func (m *MockStore) GetScoringConfig() (store.ScoringConfigRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetScoringConfigError != nil {
		return store.ScoringConfigRecord{}, m.GetScoringConfigError
	}
	if m.Config == nil {
		return store.ScoringConfigRecord{}, nil
	}
	return *m.Config, nil
}

// StoreLeaderboard mock implementation
func (m *MockStore) StoreLeaderboard(leaderboard store.LeaderboardRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreLeaderboardError != nil {
		return m.StoreLeaderboardError
	}
	leaderboard.Tournament = m.Tournament
	m.Leaderboard = &leaderboard
	return nil
}

// FetchLeaderboardFromDB mock implementation
func (m *MockStore) FetchLeaderboardFromDB() ([]store.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchLeaderboardError != nil {
		return nil, m.FetchLeaderboardError
	}
	if m.Leaderboard == nil {
		return nil, mongo.ErrNoDocuments
	}
	return m.Leaderboard.Entries, nil
}

// Implement getter methods for store.Interface
func (m *MockStore) GetDatabase() interface{ Name() string } {
	return m.Database
}

func (m *MockStore) GetTournament() string {
	return m.Tournament
}

// mockClient implements minimal client interface
type mockClient struct{}

func (mc *mockClient) Disconnect(ctx context.Context) error {
	return nil
}

func (m *MockStore) GetClient() interface{ Disconnect(context.Context) error } {
	return &mockClient{}
}
