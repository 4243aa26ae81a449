/* input.go
 * Contains the logic for processing typed command input: quote-aware
 * argument splitting, fuzzy team name resolution against the roster and
 * parsers for the round, conference, play-in game and series arguments
 */

package input

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-andiamo/splitter"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"bracket-bot/api/bracket"
)

// ErrUnknownTeam marks a typed team name that resolves to nothing on the
// roster.
var ErrUnknownTeam = errors.New("unknown team")

// Fields splits a typed command line into arguments. Double-quoted arguments
// keep their spaces, so multi-word team names like "Trail Blazers" arrive as
// one field. The left/right quote variants phone keyboards substitute count
// as quotes too.
// Preconditions: Receives the raw message content
// Postconditions: Returns the non-empty arguments with enclosing quotes
// removed. A line with unbalanced quotes falls back to plain whitespace
// splitting instead of failing the command
func Fields(content string) []string {
	spaceSplitter, _ := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	parts, err := spaceSplitter.Split(content)
	if err != nil {
		parts = strings.Fields(content)
	}

	fields := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(stripQuotes(part))
		if part != "" {
			fields = append(fields, part)
		}
	}
	return fields
}

// stripQuotes removes one matched pair of enclosing double quotes.
func stripQuotes(s string) string {
	for _, pair := range [][2]string{{`"`, `"`}, {"“", "”"}} {
		if len(s) >= len(pair[0])+len(pair[1]) && strings.HasPrefix(s, pair[0]) && strings.HasSuffix(s, pair[1]) {
			return s[len(pair[0]) : len(s)-len(pair[1])]
		}
	}
	return s
}

// ResolveTeams matches typed team names against the tournament's roster.
// Preconditions: Receives the typed names and the list of rostered team names
// Postconditions: Returns the rostered spelling of every typed name that
// matched, and the typed names that matched nothing, both in input order
func ResolveTeams(typed []string, validTeams []string) ([]string, []string) {
	var resolved []string
	var invalid []string

	// Match case-insensitively but hand back the rostered spelling
	lookup := make(map[string]string)
	var validLower []string
	for _, name := range validTeams {
		lower := strings.ToLower(name)
		lookup[lower] = name
		validLower = append(validLower, lower)
	}

	for _, team := range typed {
		lowerTeam := strings.ToLower(team)
		matches := fuzzy.RankFind(lowerTeam, validLower)
		if len(matches) == 0 {
			invalid = append(invalid, team)
			continue
		}
		// An exact match beats everything, otherwise take the closest one
		best := matches[0]
		for _, m := range matches {
			if m.Target == lowerTeam {
				best = m
				break
			}
			if m.Distance < best.Distance {
				best = m
			}
		}
		resolved = append(resolved, lookup[best.Target])
	}
	return resolved, invalid
}

// ResolveTeam resolves a single typed team name to its rostered spelling.
// Postconditions: Returns the rostered name, or an error naming the typed
// input when it matches nothing on the roster
func ResolveTeam(typed string, validTeams []string) (string, error) {
	resolved, _ := ResolveTeams([]string{typed}, validTeams)
	if len(resolved) == 0 {
		return "", fmt.Errorf("%q does not match any team in this tournament: %w", typed, ErrUnknownTeam)
	}
	return resolved[0], nil
}

// ParseRound maps a typed round argument to its Round. The stored keys,
// display names and common shorthand are all accepted, ignoring case,
// spaces and hyphens.
func ParseRound(s string) (bracket.Round, error) {
	switch normalize(s) {
	case "1", "first", "firstround", "fr":
		return bracket.FirstRound, nil
	case "2", "second", "secondround", "sr", "semis", "confsemis", "conferencesemifinals":
		return bracket.SecondRound, nil
	case "3", "conf", "conffinals", "cf", "conferencefinals":
		return bracket.ConfFinals, nil
	case "4", "final", "finals", "f":
		return bracket.Finals, nil
	}
	return 0, fmt.Errorf("unknown round %q: %w", s, bracket.ErrUnknownRound)
}

// ParseConference maps a typed conference argument to its Conference.
func ParseConference(s string) (bracket.Conference, error) {
	switch normalize(s) {
	case "east", "e", "eastern":
		return bracket.East, nil
	case "west", "w", "western":
		return bracket.West, nil
	}
	return "", fmt.Errorf("unknown conference %q: %w", s, bracket.ErrUnknownConference)
}

// ParsePlayInGame maps a typed play-in game argument to its PlayInGame.
func ParsePlayInGame(s string) (bracket.PlayInGame, error) {
	switch normalize(s) {
	case "7v8", "78", "seveneight":
		return bracket.SevenEight, nil
	case "9v10", "910", "nineten":
		return bracket.NineTen, nil
	case "final", "f", "playinfinal":
		return bracket.PlayInFinal, nil
	}
	return 0, fmt.Errorf("unknown play-in game %q: %w", s, bracket.ErrUnknownMatchup)
}

// ParseMatchupNumber parses the 1-based matchup number shown in the bracket
// view into the round's 0-based index.
func ParseMatchupNumber(s string, r bracket.Round) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > r.Size() {
		return 0, fmt.Errorf("%s has matchups 1 through %d, not %q: %w", r.Name(), r.Size(), s, bracket.ErrUnknownMatchup)
	}
	return n - 1, nil
}

// ParseSeriesLength parses an optional series length argument. An empty
// argument means the series length was not predicted.
func ParseSeriesLength(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < bracket.MinSeriesGames || n > bracket.MaxSeriesGames {
		return 0, fmt.Errorf("a series runs %d to %d games, not %q: %w",
			bracket.MinSeriesGames, bracket.MaxSeriesGames, s, bracket.ErrInvalidSeriesLength)
	}
	return n, nil
}

// normalize lowercases an argument and strips the separators people sprinkle
// into round and game names.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}
