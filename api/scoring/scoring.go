/* scoring.go
 * Scores a participant's predicted bracket against the official bracket. The
 * comparison is slot by slot: a pick earns points only when the official tree
 * has decided the same slot, and open picks feed the participant's
 * still-achievable ceiling instead.
 */

package scoring

import (
	"bracket-bot/api/bracket"
)

// RoundScore is one round's slice of a participant's score.
type RoundScore struct {
	BasePoints   int `bson:"basePoints" json:"basePoints"`
	SeriesBonus  int `bson:"seriesBonus" json:"seriesBonus"`
	UpsetBonus   int `bson:"upsetBonus" json:"upsetBonus"`
	CorrectPicks int `bson:"correctPicks" json:"correctPicks"`
	MaxPossible  int `bson:"maxPossible" json:"maxPossible"`
}

// Record is a participant's computed score. It is derived state, recomputed
// from the two trees on every call and never patched incrementally.
type Record struct {
	Total        int                   `bson:"total" json:"total"`
	BasePoints   int                   `bson:"basePoints" json:"basePoints"`
	SeriesBonus  int                   `bson:"seriesBonus" json:"seriesBonus"`
	UpsetBonus   int                   `bson:"upsetBonus" json:"upsetBonus"`
	MVPBonus     int                   `bson:"mvpBonus" json:"mvpBonus"`
	PlayInPoints int                   `bson:"playInPoints" json:"playInPoints"`
	CorrectPicks int                   `bson:"correctPicks" json:"correctPicks"`
	MaxPossible  int                   `bson:"maxPossible" json:"maxPossible"`
	Rounds       map[string]RoundScore `bson:"rounds" json:"rounds"`
}

// Score computes the participant's points and ceiling.
// Preconditions: Receives the predicted and official trees and a resolved
// config. Either tree may be nil or partially populated; missing structure
// reads as undecided slots.
// Postconditions: Returns a Record whose Total is the sum of base points,
// series bonus, upset bonus, MVP bonus and play-in points, and whose
// MaxPossible counts base, series and play-in value still open to the
// participant. Upset and MVP bonuses are never projected into MaxPossible
// because they depend on official data that does not exist yet.
func Score(predicted, official *bracket.Bracket, cfg Config) Record {
	if predicted == nil {
		predicted = &bracket.Bracket{}
	}
	if official == nil {
		official = &bracket.Bracket{}
	}

	rec := Record{Rounds: make(map[string]RoundScore, len(bracket.AllRounds()))}
	for _, r := range bracket.AllRounds() {
		var rs RoundScore
		for i := 0; i < r.Size(); i++ {
			om, _ := official.MatchupAt(r, i)
			pm, _ := predicted.MatchupAt(r, i)
			scoreSlot(&rs, r, &om, &pm, cfg)
		}
		rec.Rounds[r.Key()] = rs
		rec.BasePoints += rs.BasePoints
		rec.SeriesBonus += rs.SeriesBonus
		rec.UpsetBonus += rs.UpsetBonus
		rec.CorrectPicks += rs.CorrectPicks
		rec.MaxPossible += rs.MaxPossible
	}

	if official.FinalsMVP != "" && bracket.SamePlayer(official.FinalsMVP, predicted.FinalsMVP) {
		rec.MVPBonus = cfg.MVPBonus
	}

	if cfg.PlayInScoringEnabled {
		earned, picks, open := scorePlayIn(predicted, official, cfg)
		rec.PlayInPoints = earned
		rec.CorrectPicks += picks
		rec.MaxPossible += open
	}

	rec.Total = rec.BasePoints + rec.SeriesBonus + rec.UpsetBonus + rec.MVPBonus + rec.PlayInPoints
	return rec
}

// scoreSlot applies one slot's contribution to the round score. Bonuses are
// gated on the base points: a wrong winner earns nothing at all.
func scoreSlot(rs *RoundScore, r bracket.Round, om, pm *bracket.Matchup, cfg Config) {
	if pm.State() != bracket.StateDecided {
		return
	}
	if om.State() != bracket.StateDecided {
		// The official draw has not ruled on this pick yet, so its full value
		// is still achievable.
		rs.MaxPossible += cfg.BasePoints.For(r)
		if cfg.SeriesBonusEnabled && plausibleSeries(pm) {
			rs.MaxPossible += cfg.SeriesBonus.For(r)
		}
		return
	}
	if !bracket.SameTeam(om.Winner, pm.Winner) {
		return
	}
	rs.BasePoints += cfg.BasePoints.For(r)
	rs.CorrectPicks++
	if cfg.SeriesBonusEnabled && om.NumGames != 0 && om.NumGames == pm.NumGames && samePairing(om, pm) {
		rs.SeriesBonus += cfg.SeriesBonus.For(r)
	}
	if cfg.UpsetBonusEnabled && officialUpset(om) {
		rs.UpsetBonus += cfg.UpsetBonus
	}
}

// samePairing reports whether the two matchups hold the same unordered pair
// of teams. The series bonus requires this on top of a matching winner, so a
// coincidentally right winner in a diverged pairing earns no bonus.
func samePairing(om, pm *bracket.Matchup) bool {
	if bracket.SameTeam(om.Team1, pm.Team1) && bracket.SameTeam(om.Team2, pm.Team2) {
		return true
	}
	return bracket.SameTeam(om.Team1, pm.Team2) && bracket.SameTeam(om.Team2, pm.Team1)
}

// plausibleSeries reports whether a predicted slot carries a pairing and
// series length that could still earn the series bonus.
func plausibleSeries(m *bracket.Matchup) bool {
	return m.Team1 != "" && m.Team2 != "" &&
		m.NumGames >= bracket.MinSeriesGames && m.NumGames <= bracket.MaxSeriesGames
}

// officialUpset reports whether the nominally weaker seed won the official
// series. The participant's own seed data plays no part in this.
func officialUpset(om *bracket.Matchup) bool {
	_, loserSeed, ok := om.Loser()
	return ok && om.WinnerSeed > loserSeed
}

// scorePlayIn walks the up-to-six play-in games. A game pays the flat
// play-in value when both trees decided it with the same winner; a pick the
// official play-in has not decided counts toward the ceiling. A tournament
// without an official play-in stage contributes nothing either way.
func scorePlayIn(predicted, official *bracket.Bracket, cfg Config) (earned, correct, open int) {
	if official.PlayIn == nil {
		return 0, 0, 0
	}
	for _, conf := range bracket.Conferences() {
		for _, g := range bracket.PlayInGames() {
			pg, ok := predicted.PlayInGameAt(conf, g)
			if !ok || pg.State() != bracket.StateDecided {
				continue
			}
			og, _ := official.PlayInGameAt(conf, g)
			if og.State() != bracket.StateDecided {
				open += cfg.PlayInPoints
				continue
			}
			if bracket.SameTeam(og.Winner, pg.Winner) {
				earned += cfg.PlayInPoints
				correct++
			}
		}
	}
	return earned, correct, open
}
