/* models.go
 * Contains the structs for the documents this package stores: the official
 * bracket, one entry per participant, the scoring configuration and the
 * cached leaderboard. Every document carries the tournament key so multiple
 * pools can share a database.
 */

package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bracket-bot/api/bracket"
	"bracket-bot/api/scoring"
)

// OfficialRecord is the single source-of-truth bracket for a tournament. The
// roster it was seeded from rides along so team lookups and renames never
// need a second document.
type OfficialRecord struct {
	Id         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Tournament string             `bson:"tournament,omitempty" json:"tournament,omitempty"`
	InstanceId string             `bson:"instanceId,omitempty" json:"instanceId,omitempty"`
	Name       string             `bson:"name,omitempty" json:"name,omitempty"`
	Roster     bracket.Roster     `bson:"roster" json:"roster"`
	Bracket    bracket.Bracket    `bson:"bracket" json:"bracket"`
}

// EntryRecord is one participant's predicted bracket.
type EntryRecord struct {
	Id         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Tournament string             `bson:"tournament,omitempty" json:"tournament,omitempty"`
	UserId     string             `bson:"userid,omitempty" json:"userId,omitempty"`
	Username   string             `bson:"username,omitempty" json:"username,omitempty"`
	Bracket    bracket.Bracket    `bson:"bracket" json:"bracket"`
}

// ScoringConfigRecord wraps the sparse scoring configuration for a
// tournament. Resolution to a full config happens at scoring time, so a
// stored document never needs migrating when defaults change.
type ScoringConfigRecord struct {
	Id         primitive.ObjectID   `bson:"_id,omitempty" json:"-"`
	Tournament string               `bson:"tournament,omitempty" json:"tournament,omitempty"`
	Config     scoring.ConfigRecord `bson:"config" json:"config"`
}

// LeaderboardEntry is one participant's row on the leaderboard.
type LeaderboardEntry struct {
	UserId   string         `bson:"userid" json:"userId"`
	Username string         `bson:"username" json:"username"`
	Score    scoring.Record `bson:"score" json:"score"`
}

// LeaderboardRecord is the cached, ordered leaderboard for a tournament.
type LeaderboardRecord struct {
	Id         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Tournament string             `bson:"tournament,omitempty" json:"tournament,omitempty"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
	Entries    []LeaderboardEntry `bson:"entries" json:"entries"`
}
