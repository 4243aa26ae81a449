/* rounds.go
 * Round, conference, slot and play-in game enumerations for the playoff
 * bracket, plus the fixed routing that sends a series winner to its
 * next-round slot.
 */

package bracket

import "fmt"

// Conference identifies one half of the draw.
type Conference string

const (
	East Conference = "east"
	West Conference = "west"
)

// Conferences returns both conferences in bracket order. East routes to the
// top of the finals matchup, West to the bottom.
func Conferences() []Conference {
	return []Conference{East, West}
}

// Valid reports whether c names a real conference.
func (c Conference) Valid() bool {
	return c == East || c == West
}

// Name returns the display name of the conference.
func (c Conference) Name() string {
	switch c {
	case East:
		return "East"
	case West:
		return "West"
	default:
		return "Unknown"
	}
}

// Round identifies one stage of the main draw. The play-in is a parallel
// sub-bracket rather than a round; see PlayIn.
type Round int

const (
	FirstRound Round = iota
	SecondRound
	ConfFinals
	Finals
	numRounds
)

// AllRounds returns the rounds of the main draw in playing order.
func AllRounds() []Round {
	return []Round{FirstRound, SecondRound, ConfFinals, Finals}
}

// Valid reports whether r names a real round.
func (r Round) Valid() bool {
	return r >= FirstRound && r < numRounds
}

// Size returns the number of matchups played in the round.
func (r Round) Size() int {
	switch r {
	case FirstRound:
		return 8
	case SecondRound:
		return 4
	case ConfFinals:
		return 2
	case Finals:
		return 1
	default:
		return 0
	}
}

// PerConference returns how many of the round's matchups belong to a single
// conference. The finals merge both conferences and report zero.
func (r Round) PerConference() int {
	if r == Finals {
		return 0
	}
	return r.Size() / 2
}

// Key returns the identifier used for the round in stored documents and in
// the scoring configuration.
func (r Round) Key() string {
	switch r {
	case FirstRound:
		return "firstRound"
	case SecondRound:
		return "secondRound"
	case ConfFinals:
		return "confFinals"
	case Finals:
		return "finals"
	default:
		return "unknown"
	}
}

// Name returns the display name of the round.
func (r Round) Name() string {
	switch r {
	case FirstRound:
		return "First Round"
	case SecondRound:
		return "Second Round"
	case ConfFinals:
		return "Conference Finals"
	case Finals:
		return "Finals"
	default:
		return "Unknown Round"
	}
}

func (r Round) String() string {
	return r.Key()
}

// RoundFromKey maps a stored round identifier back to its Round.
func RoundFromKey(key string) (Round, error) {
	for _, r := range AllRounds() {
		if r.Key() == key {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown round %q: %w", key, ErrUnknownRound)
}

// ConferenceOf returns which conference the matchup at index belongs to. The
// finals cross both conferences and return the empty value.
func ConferenceOf(r Round, index int) Conference {
	per := r.PerConference()
	if per == 0 || index < 0 || index >= r.Size() {
		return ""
	}
	if index < per {
		return East
	}
	return West
}

// FirstRoundIndex returns the global first round index of a conference's
// k-th matchup. The conference's matchups are ordered (1v8), (4v5), (3v6),
// (2v7) so that adjacent winners meet in the second round.
func FirstRoundIndex(conf Conference, k int) int {
	if conf == West {
		return FirstRound.PerConference() + k
	}
	return k
}

// Slot identifies which side of a matchup a team occupies.
type Slot int

const (
	Team1Slot Slot = iota + 1
	Team2Slot
)

// NextSlot returns where the winner of the matchup at (r, index) plays next.
// ok is false for the finals, whose winner becomes the tournament champion
// rather than advancing to another matchup.
func NextSlot(r Round, index int) (next Round, nextIndex int, slot Slot, ok bool) {
	if !r.Valid() || index < 0 || index >= r.Size() {
		return 0, 0, 0, false
	}
	switch r {
	case Finals:
		return 0, 0, 0, false
	case ConfFinals:
		// East champion fills the top of the finals, West the bottom.
		if index == 0 {
			return Finals, 0, Team1Slot, true
		}
		return Finals, 0, Team2Slot, true
	}

	// Within a conference, winners of adjacent matchups meet: positions
	// (0,1) feed the next round's position 0, (2,3) feed position 1. West
	// indices are offset past the East half of the next round.
	per := r.PerConference()
	pos := index % per
	nextIndex = pos / 2
	next = r + 1
	if index >= per {
		nextIndex += next.PerConference()
	}
	slot = Team1Slot
	if pos%2 == 1 {
		slot = Team2Slot
	}
	return next, nextIndex, slot, true
}

// PlayInGame identifies one of the three games in a conference's play-in.
type PlayInGame int

const (
	SevenEight PlayInGame = iota
	NineTen
	PlayInFinal
	numPlayInGames
)

// PlayInGames returns the games of a conference's play-in in playing order.
func PlayInGames() []PlayInGame {
	return []PlayInGame{SevenEight, NineTen, PlayInFinal}
}

// Valid reports whether g names a real play-in game.
func (g PlayInGame) Valid() bool {
	return g >= SevenEight && g < numPlayInGames
}

// Key returns the identifier used for the game in stored documents.
func (g PlayInGame) Key() string {
	switch g {
	case SevenEight:
		return "sevenEight"
	case NineTen:
		return "nineTen"
	case PlayInFinal:
		return "final"
	default:
		return "unknown"
	}
}

// Name returns the display name of the game.
func (g PlayInGame) Name() string {
	switch g {
	case SevenEight:
		return "7v8"
	case NineTen:
		return "9v10"
	case PlayInFinal:
		return "Final"
	default:
		return "Unknown"
	}
}

func (g PlayInGame) String() string {
	return g.Key()
}
