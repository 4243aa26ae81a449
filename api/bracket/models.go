/* models.go
 * The bracket tree: matchups, rounds, the finals and the optional play-in
 * sub-bracket. One tree holds the official results; every participant owns a
 * tree of the same shape holding their predictions.
 */

package bracket

import (
	"errors"
	"fmt"
)

// Series lengths accepted for a best-of-seven playoff series.
const (
	MinSeriesGames = 4
	MaxSeriesGames = 7
)

var (
	// ErrInvalidWinner is returned when a submitted winner does not match
	// either team currently in the targeted matchup.
	ErrInvalidWinner = errors.New("winner is not part of the matchup")
	// ErrMatchupNotReady is returned when a result targets a matchup that is
	// still missing a team. Results for half-known pairings are rejected
	// rather than stored.
	ErrMatchupNotReady = errors.New("matchup is missing a team")
	// ErrUnknownRound is returned for a round outside the draw.
	ErrUnknownRound = errors.New("unknown round")
	// ErrUnknownMatchup is returned for a matchup index outside the round.
	ErrUnknownMatchup = errors.New("unknown matchup")
	// ErrUnknownConference is returned for a conference outside the draw.
	ErrUnknownConference = errors.New("unknown conference")
	// ErrInvalidSeriesLength is returned when a series length falls outside
	// the valid best-of-seven range.
	ErrInvalidSeriesLength = errors.New("series length out of range")
	// ErrPlayInDisabled is returned when a play-in result is recorded on a
	// tree whose play-in stage is absent.
	ErrPlayInDisabled = errors.New("play-in stage is not enabled")
	// ErrInvalidTree is returned when a tree fails structural validation.
	ErrInvalidTree = errors.New("bracket tree is structurally invalid")
	// ErrInvalidRoster is returned when a roster cannot seed a bracket.
	ErrInvalidRoster = errors.New("roster is invalid")
)

// MatchupState classifies how far a matchup has progressed.
type MatchupState int

const (
	// StateEmpty means at least one side of the matchup is still unknown.
	StateEmpty MatchupState = iota
	// StateReady means both sides are known but no winner is recorded.
	StateReady
	// StateDecided means a winner is recorded.
	StateDecided
)

// Matchup is a single best-of-seven series between two seeded teams. Either
// side may be unset while the matchup feeding it is undecided.
type Matchup struct {
	Team1      string     `bson:"team1,omitempty" json:"team1,omitempty"`
	Team1Seed  int        `bson:"team1Seed,omitempty" json:"team1Seed,omitempty"`
	Team2      string     `bson:"team2,omitempty" json:"team2,omitempty"`
	Team2Seed  int        `bson:"team2Seed,omitempty" json:"team2Seed,omitempty"`
	Winner     string     `bson:"winner,omitempty" json:"winner,omitempty"`
	WinnerSeed int        `bson:"winnerSeed,omitempty" json:"winnerSeed,omitempty"`
	NumGames   int        `bson:"numGames,omitempty" json:"numGames,omitempty"`
	Conference Conference `bson:"conference,omitempty" json:"conference,omitempty"`
}

// State classifies the matchup. Propagation and scoring branch on this
// instead of re-checking raw fields at every call site.
func (m *Matchup) State() MatchupState {
	switch {
	case m.Winner != "":
		return StateDecided
	case m.Team1 != "" && m.Team2 != "":
		return StateReady
	default:
		return StateEmpty
	}
}

// SideOf returns which slot the named team occupies in the matchup.
func (m *Matchup) SideOf(name string) (Slot, bool) {
	switch {
	case SameTeam(name, m.Team1):
		return Team1Slot, true
	case SameTeam(name, m.Team2):
		return Team2Slot, true
	}
	return 0, false
}

// Loser returns the side that lost a decided matchup.
func (m *Matchup) Loser() (name string, seed int, ok bool) {
	if m.State() != StateDecided {
		return "", 0, false
	}
	slot, ok := m.SideOf(m.Winner)
	if !ok {
		return "", 0, false
	}
	if slot == Team1Slot {
		return m.Team2, m.Team2Seed, true
	}
	return m.Team1, m.Team1Seed, true
}

func (m *Matchup) team(slot Slot) (string, int) {
	if slot == Team1Slot {
		return m.Team1, m.Team1Seed
	}
	return m.Team2, m.Team2Seed
}

func (m *Matchup) setTeam(slot Slot, name string, seed int) {
	if slot == Team1Slot {
		m.Team1, m.Team1Seed = name, seed
		return
	}
	m.Team2, m.Team2Seed = name, seed
}

func (m *Matchup) clearDecision() {
	m.Winner, m.WinnerSeed, m.NumGames = "", 0, 0
}

// FinalsMatchup crosses the two conference champions. MVP holds the official
// finals MVP on the official tree and the participant's MVP pick on a
// predicted tree; the two are the same logical value.
type FinalsMatchup struct {
	Matchup          `bson:",inline"`
	Team1Conference  Conference `bson:"team1Conference,omitempty" json:"team1Conference,omitempty"`
	Team2Conference  Conference `bson:"team2Conference,omitempty" json:"team2Conference,omitempty"`
	WinnerConference Conference `bson:"winnerConference,omitempty" json:"winnerConference,omitempty"`
	MVP              string     `bson:"mvp,omitempty" json:"mvp,omitempty"`
}

func (f *FinalsMatchup) setSideConference(slot Slot, conf Conference) {
	if slot == Team1Slot {
		f.Team1Conference = conf
		return
	}
	f.Team2Conference = conf
}

// PlayInMatchup is a single-game play-in elimination matchup. Unlike a
// series, it has no games count.
type PlayInMatchup struct {
	Team1      string `bson:"team1,omitempty" json:"team1,omitempty"`
	Team1Seed  int    `bson:"team1Seed,omitempty" json:"team1Seed,omitempty"`
	Team2      string `bson:"team2,omitempty" json:"team2,omitempty"`
	Team2Seed  int    `bson:"team2Seed,omitempty" json:"team2Seed,omitempty"`
	Winner     string `bson:"winner,omitempty" json:"winner,omitempty"`
	WinnerSeed int    `bson:"winnerSeed,omitempty" json:"winnerSeed,omitempty"`
}

// State classifies the play-in matchup the same way Matchup.State does.
func (m *PlayInMatchup) State() MatchupState {
	switch {
	case m.Winner != "":
		return StateDecided
	case m.Team1 != "" && m.Team2 != "":
		return StateReady
	default:
		return StateEmpty
	}
}

// SideOf returns which slot the named team occupies in the play-in matchup.
func (m *PlayInMatchup) SideOf(name string) (Slot, bool) {
	switch {
	case SameTeam(name, m.Team1):
		return Team1Slot, true
	case SameTeam(name, m.Team2):
		return Team2Slot, true
	}
	return 0, false
}

func (m *PlayInMatchup) team(slot Slot) (string, int) {
	if slot == Team1Slot {
		return m.Team1, m.Team1Seed
	}
	return m.Team2, m.Team2Seed
}

func (m *PlayInMatchup) setTeam(slot Slot, name string, seed int) {
	if slot == Team1Slot {
		m.Team1, m.Team1Seed = name, seed
		return
	}
	m.Team2, m.Team2Seed = name, seed
}

func (m *PlayInMatchup) clearDecision() {
	m.Winner, m.WinnerSeed = "", 0
}

// PlayInField is one conference's play-in: the 7th through 10th seeds play
// 7v8 and 9v10, the 7v8 loser hosts the 9v10 winner in the final game, and
// the final's winner claims the conference's 8th seed in the first round.
type PlayInField struct {
	SevenEightGame PlayInMatchup `bson:"sevenEight" json:"sevenEight"`
	NineTenGame    PlayInMatchup `bson:"nineTen" json:"nineTen"`
	FinalGame      PlayInMatchup `bson:"final" json:"final"`
}

func (p *PlayInField) game(g PlayInGame) *PlayInMatchup {
	switch g {
	case SevenEight:
		return &p.SevenEightGame
	case NineTen:
		return &p.NineTenGame
	default:
		return &p.FinalGame
	}
}

// Game returns a copy of the requested game.
func (p *PlayInField) Game(g PlayInGame) (PlayInMatchup, bool) {
	if !g.Valid() {
		return PlayInMatchup{}, false
	}
	return *p.game(g), true
}

// PlayIn is the optional pre-tournament stage. A nil PlayIn on a Bracket
// means the stage is disabled and it is ignored by propagation and scoring.
type PlayIn struct {
	East PlayInField `bson:"east" json:"east"`
	West PlayInField `bson:"west" json:"west"`
}

func (p *PlayIn) field(conf Conference) *PlayInField {
	switch conf {
	case East:
		return &p.East
	case West:
		return &p.West
	default:
		return nil
	}
}

// Field returns a copy of the named conference's play-in field.
func (p *PlayIn) Field(conf Conference) (PlayInField, bool) {
	f := p.field(conf)
	if f == nil {
		return PlayInField{}, false
	}
	return *f, true
}

// Bracket is a full tournament tree. Round slices may be nil on trees read
// from storage; accessors materialize them on demand at their fixed sizes.
type Bracket struct {
	FirstRound   []Matchup     `bson:"firstRound,omitempty" json:"firstRound,omitempty"`
	SecondRound  []Matchup     `bson:"secondRound,omitempty" json:"secondRound,omitempty"`
	ConfFinals   []Matchup     `bson:"confFinals,omitempty" json:"confFinals,omitempty"`
	Finals       FinalsMatchup `bson:"finals" json:"finals"`
	Champion     string        `bson:"champion,omitempty" json:"champion,omitempty"`
	ChampionSeed int           `bson:"championSeed,omitempty" json:"championSeed,omitempty"`
	FinalsMVP    string        `bson:"finalsMVP,omitempty" json:"finalsMVP,omitempty"`
	PlayIn       *PlayIn       `bson:"playIn,omitempty" json:"playIn,omitempty"`
}

// New returns a bracket with every round materialized and empty.
func New() *Bracket {
	return &Bracket{
		FirstRound:  emptyRound(FirstRound),
		SecondRound: emptyRound(SecondRound),
		ConfFinals:  emptyRound(ConfFinals),
		Finals:      FinalsMatchup{Team1Conference: East, Team2Conference: West},
	}
}

func emptyRound(r Round) []Matchup {
	ms := make([]Matchup, r.Size())
	for i := range ms {
		ms[i].Conference = ConferenceOf(r, i)
	}
	return ms
}

// Clone returns a deep copy of the tree. Operations in this package never
// mutate their input; they clone, mutate the clone and return it.
func (b *Bracket) Clone() *Bracket {
	if b == nil {
		return nil
	}
	out := *b
	out.FirstRound = append([]Matchup(nil), b.FirstRound...)
	out.SecondRound = append([]Matchup(nil), b.SecondRound...)
	out.ConfFinals = append([]Matchup(nil), b.ConfFinals...)
	if b.PlayIn != nil {
		p := *b.PlayIn
		out.PlayIn = &p
	}
	return &out
}

func (b *Bracket) ensureRound(r Round) {
	switch r {
	case FirstRound:
		if len(b.FirstRound) == 0 {
			b.FirstRound = emptyRound(r)
		}
	case SecondRound:
		if len(b.SecondRound) == 0 {
			b.SecondRound = emptyRound(r)
		}
	case ConfFinals:
		if len(b.ConfFinals) == 0 {
			b.ConfFinals = emptyRound(r)
		}
	}
}

// at returns a pointer into the tree for mutation, materializing the round
// if it has not been allocated yet.
func (b *Bracket) at(r Round, index int) (*Matchup, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("round %d: %w", int(r), ErrUnknownRound)
	}
	if index < 0 || index >= r.Size() {
		return nil, fmt.Errorf("%s has no matchup %d: %w", r.Name(), index+1, ErrUnknownMatchup)
	}
	if r == Finals {
		return &b.Finals.Matchup, nil
	}
	b.ensureRound(r)
	switch r {
	case FirstRound:
		return &b.FirstRound[index], nil
	case SecondRound:
		return &b.SecondRound[index], nil
	default:
		return &b.ConfFinals[index], nil
	}
}

// MatchupAt returns a copy of the matchup at (r, index). A round that has
// not been materialized yet reads as empty slots; the tree is not modified.
func (b *Bracket) MatchupAt(r Round, index int) (Matchup, bool) {
	if !r.Valid() || index < 0 || index >= r.Size() {
		return Matchup{}, false
	}
	if r == Finals {
		return b.Finals.Matchup, true
	}
	var round []Matchup
	switch r {
	case FirstRound:
		round = b.FirstRound
	case SecondRound:
		round = b.SecondRound
	default:
		round = b.ConfFinals
	}
	if index >= len(round) {
		return Matchup{Conference: ConferenceOf(r, index)}, true
	}
	return round[index], true
}

// PlayInGameAt returns a copy of the named play-in game. ok is false when
// the play-in stage is disabled or the reference is unknown.
func (b *Bracket) PlayInGameAt(conf Conference, g PlayInGame) (PlayInMatchup, bool) {
	if b.PlayIn == nil || !g.Valid() {
		return PlayInMatchup{}, false
	}
	f := b.PlayIn.field(conf)
	if f == nil {
		return PlayInMatchup{}, false
	}
	return *f.game(g), true
}

func (b *Bracket) clearChampion() {
	b.Champion, b.ChampionSeed = "", 0
	b.FinalsMVP = ""
	b.Finals.MVP = ""
	b.Finals.WinnerConference = ""
}

// Validate checks the structural invariants of the tree: round sizes, the
// winner-is-a-participant rule, seed mirroring and series length ranges.
// Used when accepting trees from outside the process, such as snapshot
// imports.
func (b *Bracket) Validate() error {
	rounds := []struct {
		r  Round
		ms []Matchup
	}{
		{FirstRound, b.FirstRound},
		{SecondRound, b.SecondRound},
		{ConfFinals, b.ConfFinals},
	}
	for _, round := range rounds {
		if len(round.ms) != 0 && len(round.ms) != round.r.Size() {
			return fmt.Errorf("%s has %d matchups, want %d: %w", round.r.Name(), len(round.ms), round.r.Size(), ErrInvalidTree)
		}
		for i := range round.ms {
			if err := validateMatchup(&round.ms[i]); err != nil {
				return fmt.Errorf("%s matchup %d: %w", round.r.Name(), i+1, err)
			}
		}
	}
	if err := validateMatchup(&b.Finals.Matchup); err != nil {
		return fmt.Errorf("finals: %w", err)
	}
	if b.Champion != "" && !SameTeam(b.Champion, b.Finals.Winner) {
		return fmt.Errorf("champion %q does not match finals winner %q: %w", b.Champion, b.Finals.Winner, ErrInvalidTree)
	}
	if b.PlayIn == nil {
		return nil
	}
	for _, conf := range Conferences() {
		f := b.PlayIn.field(conf)
		for _, g := range PlayInGames() {
			if err := validatePlayInMatchup(f.game(g)); err != nil {
				return fmt.Errorf("%s play-in %s: %w", conf.Name(), g.Name(), err)
			}
		}
	}
	return nil
}

func validateMatchup(m *Matchup) error {
	if m.Winner == "" {
		if m.NumGames != 0 {
			return fmt.Errorf("games recorded without a winner: %w", ErrInvalidTree)
		}
		return nil
	}
	slot, ok := m.SideOf(m.Winner)
	if !ok {
		return fmt.Errorf("winner %q not in pairing: %w", m.Winner, ErrInvalidTree)
	}
	if _, seed := m.team(slot); seed != m.WinnerSeed {
		return fmt.Errorf("winner seed %d does not mirror slot seed: %w", m.WinnerSeed, ErrInvalidTree)
	}
	if m.NumGames != 0 && (m.NumGames < MinSeriesGames || m.NumGames > MaxSeriesGames) {
		return fmt.Errorf("series of %d games: %w", m.NumGames, ErrInvalidTree)
	}
	return nil
}

func validatePlayInMatchup(m *PlayInMatchup) error {
	if m.Winner == "" {
		return nil
	}
	slot, ok := m.SideOf(m.Winner)
	if !ok {
		return fmt.Errorf("winner %q not in pairing: %w", m.Winner, ErrInvalidTree)
	}
	if _, seed := m.team(slot); seed != m.WinnerSeed {
		return fmt.Errorf("winner seed %d does not mirror slot seed: %w", m.WinnerSeed, ErrInvalidTree)
	}
	return nil
}
