/* propagate.go
 * Applies recorded results to a bracket tree: writes the decision, places
 * the winner in its next-round slot and cascade-clears any downstream state
 * the placement invalidated. Works identically on the official tree and on
 * participant trees, so the same rules govern results and picks.
 */

package bracket

import (
	"fmt"
	"strings"
)

// Result is one recorded or predicted matchup outcome.
type Result struct {
	Winner string
	// WinnerSeed is checked against the winning slot's seed when nonzero;
	// zero means derive it from the slot.
	WinnerSeed int
	// NumGames is the series length, or zero when not recorded.
	NumGames int
	// MVP is only meaningful for the finals and is ignored elsewhere.
	MVP string
}

// ApplyResult records a result for the matchup at (r, index) and returns the
// updated tree. The input tree is never modified.
//
// Preconditions: both sides of the targeted matchup are known, the winner
// names one of them, and the series length (when given) is a valid
// best-of-seven length.
// Postconditions: the decision is written with the slot's canonical name and
// seed, the winner occupies its next-round slot, and every downstream
// decision invalidated by that placement is cleared, through to the champion
// and MVP fields when the cascade reaches the finals. Re-applying an
// identical result leaves the tree unchanged.
func ApplyResult(b *Bracket, r Round, index int, res Result) (*Bracket, error) {
	out := b.Clone()
	m, err := out.at(r, index)
	if err != nil {
		return nil, err
	}
	if m.Team1 == "" || m.Team2 == "" {
		return nil, fmt.Errorf("%s matchup %d is not fully paired yet: %w", r.Name(), index+1, ErrMatchupNotReady)
	}
	slot, ok := m.SideOf(res.Winner)
	if !ok {
		return nil, fmt.Errorf("%q is not playing in %s matchup %d (%s vs %s): %w",
			res.Winner, r.Name(), index+1, m.Team1, m.Team2, ErrInvalidWinner)
	}
	name, seed := m.team(slot)
	if res.WinnerSeed != 0 && res.WinnerSeed != seed {
		return nil, fmt.Errorf("seed %d does not match %s (seed %d): %w", res.WinnerSeed, name, seed, ErrInvalidWinner)
	}
	if res.NumGames != 0 && (res.NumGames < MinSeriesGames || res.NumGames > MaxSeriesGames) {
		return nil, fmt.Errorf("a series cannot take %d games: %w", res.NumGames, ErrInvalidSeriesLength)
	}

	m.Winner, m.WinnerSeed, m.NumGames = name, seed, res.NumGames

	if r == Finals {
		prev := out.Champion
		out.Champion, out.ChampionSeed = name, seed
		if slot == Team1Slot {
			out.Finals.WinnerConference = out.Finals.Team1Conference
		} else {
			out.Finals.WinnerConference = out.Finals.Team2Conference
		}
		if mvp := strings.TrimSpace(res.MVP); mvp != "" {
			out.Finals.MVP = mvp
			out.FinalsMVP = mvp
		} else if prev != "" && !SameTeam(prev, name) {
			// The title changed hands, so a previously recorded MVP no
			// longer belongs to the champion.
			out.Finals.MVP = ""
			out.FinalsMVP = ""
		}
		return out, nil
	}

	nr, ni, nslot, ok := NextSlot(r, index)
	if !ok {
		return nil, fmt.Errorf("%s matchup %d has no downstream slot: %w", r.Name(), index+1, ErrUnknownMatchup)
	}
	if err := out.placeTeam(nr, ni, nslot, name, seed, m.Conference); err != nil {
		return nil, err
	}
	return out, nil
}

// SetFinalsMVP records the finals MVP on the tree: the official MVP on the
// official tree, the participant's pick on a predicted tree. An empty player
// clears the field. The input tree is never modified.
func SetFinalsMVP(b *Bracket, player string) *Bracket {
	out := b.Clone()
	player = strings.TrimSpace(player)
	out.Finals.MVP = player
	out.FinalsMVP = player
	return out
}

// ApplyPlayInResult records the winner of a single play-in game and returns
// the updated tree. The 7v8 loser and the 9v10 winner feed the final play-in
// game; the final's winner claims the conference's 8th seed in the first
// round, overwriting and invalidating downstream of that slot like any other
// team change. The input tree is never modified.
func ApplyPlayInResult(b *Bracket, conf Conference, game PlayInGame, winner string) (*Bracket, error) {
	if b.PlayIn == nil {
		return nil, ErrPlayInDisabled
	}
	if !conf.Valid() {
		return nil, fmt.Errorf("conference %q: %w", conf, ErrUnknownConference)
	}
	if !game.Valid() {
		return nil, fmt.Errorf("play-in has no game %d: %w", int(game), ErrUnknownMatchup)
	}
	out := b.Clone()
	m := out.PlayIn.field(conf).game(game)
	if m.Team1 == "" || m.Team2 == "" {
		return nil, fmt.Errorf("%s play-in %s is not fully paired yet: %w", conf.Name(), game.Name(), ErrMatchupNotReady)
	}
	slot, ok := m.SideOf(winner)
	if !ok {
		return nil, fmt.Errorf("%q is not playing in the %s play-in %s (%s vs %s): %w",
			winner, conf.Name(), game.Name(), m.Team1, m.Team2, ErrInvalidWinner)
	}
	name, seed := m.team(slot)
	m.Winner, m.WinnerSeed = name, seed

	switch game {
	case SevenEight:
		// The loser drops into the final game and hosts the 9v10 winner.
		loserSlot := Team2Slot
		if slot == Team2Slot {
			loserSlot = Team1Slot
		}
		loser, loserSeed := m.team(loserSlot)
		out.setPlayInSlot(conf, PlayInFinal, Team1Slot, loser, loserSeed)
	case NineTen:
		out.setPlayInSlot(conf, PlayInFinal, Team2Slot, name, seed)
	case PlayInFinal:
		// The qualifier enters the main draw as the 8th seed.
		if err := out.placeTeam(FirstRound, FirstRoundIndex(conf, 0), Team2Slot, name, 8, conf); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// placeTeam writes a team into a slot. When the slot already holds a
// different team the matchup's decision and everything downstream of it are
// invalidated; when the slot already holds the same team nothing changes, so
// re-propagation is idempotent.
func (b *Bracket) placeTeam(r Round, index int, slot Slot, name string, seed int, from Conference) error {
	m, err := b.at(r, index)
	if err != nil {
		return err
	}
	if r == Finals {
		b.Finals.setSideConference(slot, from)
	}
	if cur, curSeed := m.team(slot); cur == name && curSeed == seed {
		return nil
	}
	m.setTeam(slot, name, seed)
	b.invalidate(r, index)
	return nil
}

// invalidate clears the decision at (r, index) and recursively clears every
// downstream slot that decision had filled. Clearing is not an error; it is
// the expected consequence of an upstream edit.
func (b *Bracket) invalidate(r Round, index int) {
	m, err := b.at(r, index)
	if err != nil {
		return
	}
	if r == Finals {
		if m.Winner != "" || b.Champion != "" {
			m.clearDecision()
			b.clearChampion()
		}
		return
	}
	if m.Winner == "" {
		return
	}
	m.clearDecision()
	nr, ni, slot, ok := NextSlot(r, index)
	if ok {
		b.clearSlot(nr, ni, slot)
	}
}

func (b *Bracket) clearSlot(r Round, index int, slot Slot) {
	m, err := b.at(r, index)
	if err != nil {
		return
	}
	if cur, curSeed := m.team(slot); cur == "" && curSeed == 0 {
		return
	}
	m.setTeam(slot, "", 0)
	if r == Finals {
		b.Finals.setSideConference(slot, "")
	}
	b.invalidate(r, index)
}

func (b *Bracket) setPlayInSlot(conf Conference, g PlayInGame, slot Slot, name string, seed int) {
	m := b.PlayIn.field(conf).game(g)
	if cur, curSeed := m.team(slot); cur == name && curSeed == seed {
		return
	}
	m.setTeam(slot, name, seed)
	b.invalidatePlayIn(conf, g)
}

func (b *Bracket) invalidatePlayIn(conf Conference, g PlayInGame) {
	m := b.PlayIn.field(conf).game(g)
	if m.Winner == "" {
		return
	}
	m.clearDecision()
	switch g {
	case SevenEight:
		b.clearPlayInSlot(conf, PlayInFinal, Team1Slot)
	case NineTen:
		b.clearPlayInSlot(conf, PlayInFinal, Team2Slot)
	case PlayInFinal:
		b.clearSlot(FirstRound, FirstRoundIndex(conf, 0), Team2Slot)
	}
}

func (b *Bracket) clearPlayInSlot(conf Conference, g PlayInGame, slot Slot) {
	m := b.PlayIn.field(conf).game(g)
	if cur, curSeed := m.team(slot); cur == "" && curSeed == 0 {
		return
	}
	m.setTeam(slot, "", 0)
	b.invalidatePlayIn(conf, g)
}
