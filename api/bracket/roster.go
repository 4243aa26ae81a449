/* roster.go
 * Seeds bracket trees from a tournament roster and keeps existing trees
 * consistent when the roster changes: reset, template derivation,
 * reconciliation of participant picks and team renames.
 */

package bracket

import (
	"fmt"
	"strings"
)

// TeamSeed names one qualified team and its seed within a conference.
type TeamSeed struct {
	Name string `bson:"name" json:"name"`
	Seed int    `bson:"seed" json:"seed"`
}

// Roster is the full set of qualified teams. Without a play-in each
// conference seeds 1 through 8; with a play-in it seeds 1 through 10, the
// 8th first-round slot stays open and seeds 7 through 10 contest the
// play-in for it.
type Roster struct {
	East   []TeamSeed `bson:"east" json:"east"`
	West   []TeamSeed `bson:"west" json:"west"`
	PlayIn bool       `bson:"playIn" json:"playIn"`
}

// seedPairings orders a conference's first round so that adjacent winners
// meet in the second round: 1v8 plays the 4v5 winner, 2v7 plays the 3v6
// winner.
var seedPairings = [4][2]int{{1, 8}, {4, 5}, {3, 6}, {2, 7}}

func (ro *Roster) seedsNeeded() int {
	if ro.PlayIn {
		return 10
	}
	return 8
}

// Conference returns the named conference's teams as given.
func (ro *Roster) Conference(conf Conference) []TeamSeed {
	if conf == West {
		return ro.West
	}
	return ro.East
}

// TeamNames returns every rostered team name, East before West, in seed
// order. Used as the valid-name universe for input resolution.
func (ro *Roster) TeamNames() []string {
	names := make([]string, 0, len(ro.East)+len(ro.West))
	for _, conf := range Conferences() {
		bySeed := seedIndex(ro.Conference(conf))
		for s := 1; s <= ro.seedsNeeded(); s++ {
			if t, ok := bySeed[s]; ok {
				names = append(names, t.Name)
			}
		}
	}
	return names
}

// Validate checks that each conference has exactly one non-empty team per
// required seed and that no team name repeats anywhere in the roster.
func (ro *Roster) Validate() error {
	need := ro.seedsNeeded()
	seen := make(map[string]string)
	for _, conf := range Conferences() {
		teams := ro.Conference(conf)
		bySeed := make(map[int]bool, need)
		for _, t := range teams {
			name := strings.TrimSpace(t.Name)
			if name == "" {
				return fmt.Errorf("%s seed %d has no team name: %w", conf.Name(), t.Seed, ErrInvalidRoster)
			}
			if t.Seed < 1 || t.Seed > need {
				return fmt.Errorf("%s seed %d is outside 1..%d: %w", conf.Name(), t.Seed, need, ErrInvalidRoster)
			}
			if bySeed[t.Seed] {
				return fmt.Errorf("%s seed %d is assigned twice: %w", conf.Name(), t.Seed, ErrInvalidRoster)
			}
			bySeed[t.Seed] = true
			key := CanonicalName(name)
			if prev, dup := seen[key]; dup {
				return fmt.Errorf("%q appears more than once (already rostered as %q): %w", name, prev, ErrInvalidRoster)
			}
			seen[key] = name
		}
		for s := 1; s <= need; s++ {
			if !bySeed[s] {
				return fmt.Errorf("%s is missing seed %d: %w", conf.Name(), s, ErrInvalidRoster)
			}
		}
	}
	return nil
}

func seedIndex(teams []TeamSeed) map[int]TeamSeed {
	bySeed := make(map[int]TeamSeed, len(teams))
	for _, t := range teams {
		bySeed[t.Seed] = t
	}
	return bySeed
}

// NewFromRoster builds a fresh tree seeded from the roster: first-round
// pairings per seedPairings, later rounds empty, and the play-in field
// populated when the stage is enabled. With a play-in the 8th first-round
// slot starts open; the play-in final fills it.
func NewFromRoster(ro *Roster) (*Bracket, error) {
	if err := ro.Validate(); err != nil {
		return nil, err
	}
	b := New()
	for _, conf := range Conferences() {
		bySeed := seedIndex(ro.Conference(conf))
		for k, pair := range seedPairings {
			m := &b.FirstRound[FirstRoundIndex(conf, k)]
			for side, seed := range pair {
				if ro.PlayIn && seed == 8 {
					continue
				}
				slot := Team1Slot
				if side == 1 {
					slot = Team2Slot
				}
				t := bySeed[seed]
				m.setTeam(slot, strings.TrimSpace(t.Name), t.Seed)
			}
		}
		if ro.PlayIn {
			if b.PlayIn == nil {
				b.PlayIn = &PlayIn{}
			}
			f := b.PlayIn.field(conf)
			seven, eight := bySeed[7], bySeed[8]
			nine, ten := bySeed[9], bySeed[10]
			f.SevenEightGame.setTeam(Team1Slot, strings.TrimSpace(seven.Name), seven.Seed)
			f.SevenEightGame.setTeam(Team2Slot, strings.TrimSpace(eight.Name), eight.Seed)
			f.NineTenGame.setTeam(Team1Slot, strings.TrimSpace(nine.Name), nine.Seed)
			f.NineTenGame.setTeam(Team2Slot, strings.TrimSpace(ten.Name), ten.Seed)
		}
	}
	return b, nil
}

// ResetResults clears every decision in the tree: winners, series lengths,
// champion and MVP. With preserveTeams the admin-assigned slots survive
// (first-round pairings and play-in seeds) while slots derived from results
// are emptied; without it every team slot is cleared too.
func ResetResults(b *Bracket, preserveTeams bool) *Bracket {
	if !preserveTeams {
		fresh := New()
		if b.PlayIn != nil {
			fresh.PlayIn = &PlayIn{}
		}
		return fresh
	}
	out := b.Clone()
	for i := range out.FirstRound {
		out.FirstRound[i].clearDecision()
	}
	out.SecondRound = emptyRound(SecondRound)
	out.ConfFinals = emptyRound(ConfFinals)
	out.Finals = FinalsMatchup{Team1Conference: East, Team2Conference: West}
	out.clearChampion()
	if out.PlayIn != nil {
		for _, conf := range Conferences() {
			f := out.PlayIn.field(conf)
			f.SevenEightGame.clearDecision()
			f.NineTenGame.clearDecision()
			// The final's pairing and the 8th first-round slot are both
			// derived from play-in results, so they reset with them.
			f.FinalGame = PlayInMatchup{}
			if len(out.FirstRound) > 0 {
				out.FirstRound[FirstRoundIndex(conf, 0)].setTeam(Team2Slot, "", 0)
			}
		}
	}
	return out
}

// Template derives the starting tree for a new participant from the current
// official tree: the admin-assigned teams with no results.
func Template(official *Bracket) *Bracket {
	return ResetResults(official, true)
}

// ReconcileWithRoster rebuilds a participant's predicted tree against a
// freshly seeded official tree after a roster change.
//
// Preconditions: fresh is a tree seeded from the new roster (its results are
// ignored).
// Postconditions: first-round and play-in picks survive only where the
// recorded winner still appears in the refreshed pairing, with seeds
// re-derived; surviving winners re-propagate downstream; every other
// decision, including later rounds, champion and MVP, is reset.
func ReconcileWithRoster(pred *Bracket, fresh *Bracket) *Bracket {
	out := Template(fresh)

	// Play-in picks first: restoring 7v8 and 9v10 re-derives the final's
	// pairing, and a surviving final pick re-injects the predicted 8th seed
	// before first-round picks are checked.
	if out.PlayIn != nil && pred.PlayIn != nil {
		for _, conf := range Conferences() {
			for _, g := range PlayInGames() {
				old, ok := pred.PlayInGameAt(conf, g)
				if !ok || old.Winner == "" {
					continue
				}
				if next, err := ApplyPlayInResult(out, conf, g, old.Winner); err == nil {
					out = next
				}
			}
		}
	}

	for i := 0; i < FirstRound.Size(); i++ {
		old, ok := pred.MatchupAt(FirstRound, i)
		if !ok || old.Winner == "" {
			continue
		}
		if next, err := ApplyResult(out, FirstRound, i, Result{Winner: old.Winner, NumGames: old.NumGames}); err == nil {
			out = next
		}
	}
	return out
}

// RenameTeam replaces every occurrence of a team name throughout the tree,
// keeping seeds intact. It returns the updated tree and how many fields were
// rewritten. The input tree is never modified.
func RenameTeam(b *Bracket, oldName, newName string) (*Bracket, int) {
	out := b.Clone()
	newName = strings.TrimSpace(newName)
	n := 0
	rename := func(s *string) {
		if SameTeam(*s, oldName) {
			*s = newName
			n++
		}
	}
	out.eachMatchup(func(m *Matchup) {
		rename(&m.Team1)
		rename(&m.Team2)
		rename(&m.Winner)
	})
	rename(&out.Champion)
	if out.PlayIn != nil {
		out.eachPlayInMatchup(func(m *PlayInMatchup) {
			rename(&m.Team1)
			rename(&m.Team2)
			rename(&m.Winner)
		})
	}
	return out, n
}

func (b *Bracket) eachMatchup(fn func(*Matchup)) {
	for i := range b.FirstRound {
		fn(&b.FirstRound[i])
	}
	for i := range b.SecondRound {
		fn(&b.SecondRound[i])
	}
	for i := range b.ConfFinals {
		fn(&b.ConfFinals[i])
	}
	fn(&b.Finals.Matchup)
}

func (b *Bracket) eachPlayInMatchup(fn func(*PlayInMatchup)) {
	if b.PlayIn == nil {
		return
	}
	for _, conf := range Conferences() {
		f := b.PlayIn.field(conf)
		for _, g := range PlayInGames() {
			fn(f.game(g))
		}
	}
}
