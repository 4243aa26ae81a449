/* leaderboard_test.go
 * Contains unit tests for leaderboard.go
 */

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"bracket-bot/api/scoring"
)

func TestFetchLeaderboardFromDB_Success(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("successfully fetches leaderboard", func(mt *mtest.T) {
		store := newMockStore(mt)

		// Mock FindOne returning a cached leaderboard
		leaderboardDoc := mtest.CreateCursorResponse(1, "test.leaderboards", mtest.FirstBatch, bson.D{
			{Key: "tournament", Value: "test-playoffs-2025"},
			{Key: "entries", Value: bson.A{
				bson.D{
					{Key: "userid", Value: "user1"},
					{Key: "username", Value: "alice"},
					{Key: "score", Value: bson.D{
						{Key: "total", Value: 12},
						{Key: "correctPicks", Value: 5},
					}},
				},
				bson.D{
					{Key: "userid", Value: "user2"},
					{Key: "username", Value: "bob"},
					{Key: "score", Value: bson.D{
						{Key: "total", Value: 9},
						{Key: "correctPicks", Value: 4},
					}},
				},
			}},
		})
		mt.AddMockResponses(leaderboardDoc)

		entries, err := store.FetchLeaderboardFromDB()
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "user1", entries[0].UserId)
		assert.Equal(t, "alice", entries[0].Username)
		assert.Equal(t, 12, entries[0].Score.Total)
		assert.Equal(t, "user2", entries[1].UserId)
		assert.Equal(t, 9, entries[1].Score.Total)
	})
}

func TestFetchLeaderboardFromDB_NotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns ErrNoDocuments when no leaderboard cached", func(mt *mtest.T) {
		store := newMockStore(mt)

		// Mock FindOne returning no documents
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.leaderboards", mtest.FirstBatch))

		entries, err := store.FetchLeaderboardFromDB()
		assert.Error(t, err)
		assert.Equal(t, mongo.ErrNoDocuments, err)
		assert.Nil(t, entries)
	})
}

func TestFetchLeaderboardFromDB_DatabaseError(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns error on database failure", func(mt *mtest.T) {
		store := newMockStore(mt)

		// Mock FindOne returning an error
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11000,
			Message: "database error",
		}))

		entries, err := store.FetchLeaderboardFromDB()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to fetch leaderboard from database")
		assert.Nil(t, entries)
	})
}

func TestStoreLeaderboard_InsertNew(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("successfully inserts new leaderboard", func(mt *mtest.T) {
		store := newMockStore(mt)

		// Mock FindOne returning no documents (leaderboard never cached)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.leaderboards", mtest.FirstBatch))
		// Mock InsertOne success
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		leaderboard := LeaderboardRecord{
			UpdatedAt: time.Now(),
			Entries: []LeaderboardEntry{
				{UserId: "user1", Username: "alice", Score: scoring.Record{Total: 12}},
			},
		}
		err := store.StoreLeaderboard(leaderboard)
		assert.NoError(t, err)
	})
}

func TestStoreLeaderboard_UpdateExisting(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("successfully updates existing leaderboard", func(mt *mtest.T) {
		store := newMockStore(mt)

		// Mock FindOne returning an existing document - need cursor response with getMore
		first := mtest.CreateCursorResponse(1, "test.leaderboards", mtest.FirstBatch, bson.D{
			{Key: "tournament", Value: "test-playoffs-2025"},
		})
		getMore := mtest.CreateCursorResponse(0, "test.leaderboards", mtest.NextBatch)
		// Mock UpdateOne success
		updateSuccess := bson.D{
			{Key: "ok", Value: 1},
			{Key: "nModified", Value: 1},
		}
		mt.AddMockResponses(first, getMore, updateSuccess)

		leaderboard := LeaderboardRecord{
			UpdatedAt: time.Now(),
			Entries: []LeaderboardEntry{
				{UserId: "user1", Username: "alice", Score: scoring.Record{Total: 15}},
			},
		}
		err := store.StoreLeaderboard(leaderboard)
		assert.NoError(t, err)
	})
}

func TestStoreLeaderboard_EmptyLeaderboard(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("rejects empty leaderboard", func(mt *mtest.T) {
		store := newMockStore(mt)

		err := store.StoreLeaderboard(LeaderboardRecord{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "leaderboard is empty")
	})
}

func TestStoreLeaderboard_InsertError(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns error when insert fails", func(mt *mtest.T) {
		store := newMockStore(mt)

		// Mock FindOne returning no documents
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.leaderboards", mtest.FirstBatch))
		// Mock InsertOne error
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "insert failed",
		}))

		leaderboard := LeaderboardRecord{
			UpdatedAt: time.Now(),
			Entries:   []LeaderboardEntry{{UserId: "user1", Username: "alice"}},
		}
		err := store.StoreLeaderboard(leaderboard)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "leaderboard insert failed")
	})
}
