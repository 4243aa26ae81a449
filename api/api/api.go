/* api.go
 * This file contains the public methods for interacting with this package.
 * For consistent results, functions should only be called from this file,
 * not the bracket, scoring or store sub packages directly.
 */

package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"bracket-bot/api/bracket"
	"bracket-bot/api/scoring"
	"bracket-bot/api/shared"
	"bracket-bot/api/store"
)

// API provides methods for interacting with the bracket pool data layer
type API struct {
	Store store.Interface
}

// NewAPI creates a new API instance with the provided configuration
func NewAPI(dbName string, mongoURI string, tournament string) (*API, error) {
	if dbName == "" || tournament == "" {
		return nil, fmt.Errorf("dbName and tournament are required")
	}

	s, err := store.NewStore(dbName, mongoURI, tournament)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	return &API{
		Store: s,
	}, nil
}

// official fetches the official record, mapping a missing document to
// ErrMissingOfficial so callers surface one consistent prerequisite error.
func (a *API) official() (store.OfficialRecord, error) {
	rec, err := a.Store.GetOfficialBracket()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.OfficialRecord{}, ErrMissingOfficial
		}
		return store.OfficialRecord{}, err
	}
	return rec, nil
}

// scoringConfig resolves the tournament's stored overrides against the
// default scheme. No stored document just means the defaults.
func (a *API) scoringConfig() (scoring.Config, error) {
	rec, err := a.Store.GetScoringConfig()
	if err != nil {
		return scoring.Config{}, err
	}
	return rec.Config.Resolve(), nil
}

// region Admin operations

// SetupTournament seeds a fresh official bracket from the roster and stores
// it under a new instance id. Running it again replaces the whole tournament.
// Preconditions: Receives the display name for the tournament and a roster
// with one team per required seed in each conference
// Postconditions: The official bracket is stored with first round (and any
// play-in field) paired by seed and no results, or an error is returned
func (a *API) SetupTournament(name string, roster bracket.Roster) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("tournament name is required")
	}

	tree, err := bracket.NewFromRoster(&roster)
	if err != nil {
		return err
	}

	rec := store.OfficialRecord{
		InstanceId: uuid.NewString(),
		Name:       strings.TrimSpace(name),
		Roster:     roster,
		Bracket:    *tree,
	}
	if err := a.Store.StoreOfficialBracket(rec); err != nil {
		return fmt.Errorf("failed to store official bracket: %w", err)
	}
	return nil
}

// RecordResult records an official series result. The winner advances into
// its next-round slot and any downstream results that placement invalidates
// are cleared before the tree is stored.
// Preconditions: Receives the round, the matchup index within that round, the
// winning team's name and the series length in games (0 when not recorded)
// Postconditions: The official bracket is updated in the db, or an error is
// returned and nothing is stored
func (a *API) RecordResult(round bracket.Round, index int, winner string, numGames int) error {
	rec, err := a.official()
	if err != nil {
		return err
	}

	updated, err := bracket.ApplyResult(&rec.Bracket, round, index, bracket.Result{Winner: winner, NumGames: numGames})
	if err != nil {
		return err
	}

	rec.Bracket = *updated
	return a.Store.StoreOfficialBracket(rec)
}

// RecordPlayInResult records the official winner of one play-in game. The
// bracket consequences (loser dropping to the final game, the qualifier
// claiming the 8th seed) follow from the engine.
func (a *API) RecordPlayInResult(conf bracket.Conference, game bracket.PlayInGame, winner string) error {
	rec, err := a.official()
	if err != nil {
		return err
	}

	updated, err := bracket.ApplyPlayInResult(&rec.Bracket, conf, game, winner)
	if err != nil {
		return err
	}

	rec.Bracket = *updated
	return a.Store.StoreOfficialBracket(rec)
}

// RecordFinalsMVP records the official finals MVP. An empty player name
// clears a previously recorded MVP.
func (a *API) RecordFinalsMVP(player string) error {
	rec, err := a.official()
	if err != nil {
		return err
	}

	rec.Bracket = *bracket.SetFinalsMVP(&rec.Bracket, player)
	return a.Store.StoreOfficialBracket(rec)
}

// SetScoringConfig stores the tournament's scoring overrides. Fields left
// unset keep their defaults; invalid values are ignored at resolve time, so
// a stored document can never make scoring fail.
func (a *API) SetScoringConfig(cfg scoring.ConfigRecord) error {
	return a.Store.StoreScoringConfig(cfg)
}

// GetScoringConfig returns the scheme scoring currently runs under, with the
// stored overrides already resolved against the defaults.
func (a *API) GetScoringConfig() (scoring.Config, error) {
	return a.scoringConfig()
}

// ResetTournament clears every recorded result from the official bracket and
// resets every participant entry to the fresh template. With preserveTeams
// the seeded pairings survive; without it the team slots are cleared too.
// Postconditions: Returns the per-participant outcome; the error is non-nil
// when the official write failed or when some participant writes did not land
func (a *API) ResetTournament(preserveTeams bool) (BatchResult, error) {
	rec, err := a.official()
	if err != nil {
		return BatchResult{}, err
	}

	rec.Bracket = *bracket.ResetResults(&rec.Bracket, preserveTeams)
	if err := a.Store.StoreOfficialBracket(rec); err != nil {
		return BatchResult{}, fmt.Errorf("failed to store official bracket: %w", err)
	}

	entries, err := a.Store.GetAllEntries()
	if err != nil {
		return BatchResult{}, err
	}

	template := bracket.Template(&rec.Bracket)
	res := a.forEachEntry(entries, func(entry store.EntryRecord) error {
		entry.Bracket = *template.Clone()
		return a.Store.StoreEntry(entry.UserId, entry)
	})
	return res, res.Err()
}

// ReconcileRoster replaces the tournament roster and rebuilds every tree
// against it. Picks and results survive only where the recorded winner still
// appears in the refreshed pairing; everything downstream of a lost decision
// is cleared by re-propagation.
// Preconditions: Receives the replacement roster, complete per conference
// Postconditions: The official bracket is re-seeded with surviving results
// re-applied, every participant entry is reconciled the same way, and the
// per-participant outcome is returned
func (a *API) ReconcileRoster(roster bracket.Roster) (BatchResult, error) {
	rec, err := a.official()
	if err != nil {
		return BatchResult{}, err
	}

	fresh, err := bracket.NewFromRoster(&roster)
	if err != nil {
		return BatchResult{}, err
	}

	rec.Roster = roster
	rec.Bracket = *bracket.ReconcileWithRoster(&rec.Bracket, fresh)
	if err := a.Store.StoreOfficialBracket(rec); err != nil {
		return BatchResult{}, fmt.Errorf("failed to store official bracket: %w", err)
	}

	entries, err := a.Store.GetAllEntries()
	if err != nil {
		return BatchResult{}, err
	}

	res := a.forEachEntry(entries, func(entry store.EntryRecord) error {
		entry.Bracket = *bracket.ReconcileWithRoster(&entry.Bracket, fresh)
		return a.Store.StoreEntry(entry.UserId, entry)
	})
	return res, res.Err()
}

// RenameTeam rewrites a team's name throughout the roster, the official
// bracket and every participant entry, keeping seeds and results intact.
// Preconditions: oldName must be rostered; newName must be non-empty and not
// collide with a different rostered team
// Postconditions: Returns the per-participant outcome; picks of the renamed
// team keep their credit since trees compare by the stored names
func (a *API) RenameTeam(oldName, newName string) (BatchResult, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return BatchResult{}, fmt.Errorf("new team name cannot be empty")
	}

	rec, err := a.official()
	if err != nil {
		return BatchResult{}, err
	}

	found := false
	for _, conf := range bracket.Conferences() {
		teams := rec.Roster.Conference(conf)
		for i := range teams {
			if bracket.SameTeam(teams[i].Name, oldName) {
				teams[i].Name = newName
				found = true
			} else if bracket.SameTeam(teams[i].Name, newName) {
				return BatchResult{}, fmt.Errorf("%q is already a rostered team", newName)
			}
		}
	}
	if !found {
		return BatchResult{}, fmt.Errorf("%q is not a rostered team", oldName)
	}

	renamed, _ := bracket.RenameTeam(&rec.Bracket, oldName, newName)
	rec.Bracket = *renamed
	if err := a.Store.StoreOfficialBracket(rec); err != nil {
		return BatchResult{}, fmt.Errorf("failed to store official bracket: %w", err)
	}

	entries, err := a.Store.GetAllEntries()
	if err != nil {
		return BatchResult{}, err
	}

	res := a.forEachEntry(entries, func(entry store.EntryRecord) error {
		updated, _ := bracket.RenameTeam(&entry.Bracket, oldName, newName)
		entry.Bracket = *updated
		return a.Store.StoreEntry(entry.UserId, entry)
	})
	return res, res.Err()
}

// endregion

// region Participant operations

// entryOrTemplate fetches a participant's entry, deriving a fresh one from
// the official template on their first pick.
func (a *API) entryOrTemplate(user shared.User, official *bracket.Bracket) (store.EntryRecord, error) {
	entry, err := a.Store.GetEntry(user.UserId)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.EntryRecord{
				UserId:   user.UserId,
				Username: user.Username,
				Bracket:  *bracket.Template(official),
			}, nil
		}
		return store.EntryRecord{}, err
	}
	return entry, nil
}

// SubmitPick records a participant's predicted winner for one matchup. The
// predicted tree runs through the same propagation engine as the official
// one, so the pick advances and invalidates downstream picks identically.
// Preconditions: Receives the user, the round, the matchup index within that
// round, the picked team and the predicted series length (0 to leave the
// length unpicked)
// Postconditions: The participant's entry is created from the official
// template on first use and stored with the pick applied, or an error is
// returned and nothing is stored
func (a *API) SubmitPick(user shared.User, round bracket.Round, index int, winner string, numGames int) error {
	rec, err := a.official()
	if err != nil {
		return err
	}

	entry, err := a.entryOrTemplate(user, &rec.Bracket)
	if err != nil {
		return err
	}

	updated, err := bracket.ApplyResult(&entry.Bracket, round, index, bracket.Result{Winner: winner, NumGames: numGames})
	if err != nil {
		return err
	}

	entry.Bracket = *updated
	entry.Username = user.Username
	return a.Store.StoreEntry(user.UserId, entry)
}

// SubmitPlayInPick records a participant's predicted winner for one play-in
// game. The predicted qualifier claims the 8th seed in the participant's own
// first round.
func (a *API) SubmitPlayInPick(user shared.User, conf bracket.Conference, game bracket.PlayInGame, winner string) error {
	rec, err := a.official()
	if err != nil {
		return err
	}

	entry, err := a.entryOrTemplate(user, &rec.Bracket)
	if err != nil {
		return err
	}

	updated, err := bracket.ApplyPlayInResult(&entry.Bracket, conf, game, winner)
	if err != nil {
		return err
	}

	entry.Bracket = *updated
	entry.Username = user.Username
	return a.Store.StoreEntry(user.UserId, entry)
}

// SubmitMVPPick records a participant's finals MVP pick. An empty player
// name clears it.
func (a *API) SubmitMVPPick(user shared.User, player string) error {
	rec, err := a.official()
	if err != nil {
		return err
	}

	entry, err := a.entryOrTemplate(user, &rec.Bracket)
	if err != nil {
		return err
	}

	entry.Bracket = *bracket.SetFinalsMVP(&entry.Bracket, player)
	entry.Username = user.Username
	return a.Store.StoreEntry(user.UserId, entry)
}

// CheckBracket contains the logic required to check a participant's bracket.
// It receives a user struct and receiver pointer to api.
// It returns a string reporting every pick against the official results with
// the points earned and still achievable, or an error if it occurs.
func (a *API) CheckBracket(user shared.User) (string, error) {
	rec, err := a.official()
	if err != nil {
		return "", err
	}

	entry, err := a.Store.GetEntry(user.UserId)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrNoEntry
		}
		return "", err
	}

	cfg, err := a.scoringConfig()
	if err != nil {
		return "", err
	}

	return scoring.Report(&entry.Bracket, &rec.Bracket, cfg), nil
}

// endregion

// region Leaderboard operations

// ScoreParticipant scores one participant's bracket against the official
// results under the tournament's scheme.
func (a *API) ScoreParticipant(user shared.User) (scoring.Record, error) {
	rec, err := a.official()
	if err != nil {
		return scoring.Record{}, err
	}

	entry, err := a.Store.GetEntry(user.UserId)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return scoring.Record{}, ErrNoEntry
		}
		return scoring.Record{}, err
	}

	cfg, err := a.scoringConfig()
	if err != nil {
		return scoring.Record{}, err
	}

	return scoring.Score(&entry.Bracket, &rec.Bracket, cfg), nil
}

// ScoreAllParticipants scores every stored entry against the official
// results and returns the rows ranked: total points descending, ties broken
// by correct picks descending, then by user id ascending so equal brackets
// always list in the same order.
func (a *API) ScoreAllParticipants() ([]store.LeaderboardEntry, error) {
	rec, err := a.official()
	if err != nil {
		return nil, err
	}

	cfg, err := a.scoringConfig()
	if err != nil {
		return nil, err
	}

	entries, err := a.Store.GetAllEntries()
	if err != nil {
		return nil, err
	}

	ranked := make([]store.LeaderboardEntry, 0, len(entries))
	for _, entry := range entries {
		ranked = append(ranked, store.LeaderboardEntry{
			UserId:   entry.UserId,
			Username: entry.Username,
			Score:    scoring.Score(&entry.Bracket, &rec.Bracket, cfg),
		})
	}
	sortLeaderboard(ranked)
	return ranked, nil
}

// GenerateLeaderboard contains the logic required to generate a leaderboard.
// Preconditions: Receives receiver pointer to api
// Postconditions: Scores every participant, caches the ranked leaderboard in
// the DB and returns nil, or returns an error if it occurs
func (a *API) GenerateLeaderboard() error {
	ranked, err := a.ScoreAllParticipants()
	if err != nil {
		return err
	}

	leaderboard := store.LeaderboardRecord{
		UpdatedAt: time.Now(),
		Entries:   ranked,
	}
	if err := a.Store.StoreLeaderboard(leaderboard); err != nil {
		return err
	}
	return nil
}

// GetLeaderboard fetches the cached leaderboard from the db and generates a
// response string
// Preconditions: Receives receiver pointer to api
// Postconditions: Returns a string with the ranked standings for the
// tournament, or an error if it occurs
func (a *API) GetLeaderboard() (string, error) {
	entries, err := a.Store.FetchLeaderboardFromDB()
	if err != nil {
		return "", err
	}

	// Cached documents may predate the current ordering rules
	sortLeaderboard(entries)

	var response strings.Builder
	response.WriteString("The users with the best brackets are:\n")
	for i, user := range entries {
		response.WriteString(fmt.Sprintf("%d. %s: %d points (%d correct picks, %d still achievable)\n",
			i+1, user.Username, user.Score.Total, user.Score.CorrectPicks, user.Score.MaxPossible))
	}

	return response.String(), nil
}

func sortLeaderboard(entries []store.LeaderboardEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score.Total != entries[j].Score.Total {
			return entries[i].Score.Total > entries[j].Score.Total
		}
		if entries[i].Score.CorrectPicks != entries[j].Score.CorrectPicks {
			return entries[i].Score.CorrectPicks > entries[j].Score.CorrectPicks
		}
		return entries[i].UserId < entries[j].UserId
	})
}

// endregion

// region Info operations

// GetTeams gets a list of all rostered team names, East before West in seed
// order. The tournament must have been set up.
func (a *API) GetTeams() ([]string, error) {
	rec, err := a.official()
	if err != nil {
		return nil, err
	}
	return rec.Roster.TeamNames(), nil
}

// GetTournamentInfo gets the following information about the tournament:
// name, storage key, team count, play-in availability and the champion once
// one is decided.
// It returns a string slice with the contents attribute : value containing
// the information listed above.
func (a *API) GetTournamentInfo() ([]string, error) {
	rec, err := a.official()
	if err != nil {
		return nil, err
	}

	playIn := "disabled"
	if rec.Roster.PlayIn {
		playIn = "enabled"
	}
	champion := "undecided"
	if rec.Bracket.Champion != "" {
		champion = bracket.FormatTeam(rec.Bracket.Champion, rec.Bracket.ChampionSeed)
	}

	var values []string
	values = append(values, fmt.Sprintf("Tournament Name: %s", rec.Name))
	values = append(values, fmt.Sprintf("Tournament Key: %s", a.Store.GetTournament()))
	values = append(values, fmt.Sprintf("Teams: %d", len(rec.Roster.TeamNames())))
	values = append(values, fmt.Sprintf("Play-In: %s", playIn))
	values = append(values, fmt.Sprintf("Champion: %s", champion))
	return values, nil
}

// GetOfficialBracketView renders the official bracket for chat display.
func (a *API) GetOfficialBracketView() (string, error) {
	rec, err := a.official()
	if err != nil {
		return "", err
	}
	return bracket.View(&rec.Bracket, "Official Bracket"), nil
}

// GetUserBracketView renders a participant's predicted bracket for chat
// display.
func (a *API) GetUserBracketView(user shared.User) (string, error) {
	entry, err := a.Store.GetEntry(user.UserId)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrNoEntry
		}
		return "", err
	}
	return bracket.View(&entry.Bracket, fmt.Sprintf("%s's Bracket", entry.Username)), nil
}

// endregion
