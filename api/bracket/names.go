/* names.go
 * Team and player name comparison helpers. Stored names can carry a leading
 * seed annotation such as "(1) " and differ in casing between entry
 * surfaces, so every name comparison in this package goes through
 * CanonicalName.
 */

package bracket

import "strings"

// CanonicalName trims s, strips one leading seed annotation of the form
// "(12) " and lowercases the remainder.
func CanonicalName(s string) string {
	s = strings.TrimSpace(s)
	s = stripSeedPrefix(s)
	return strings.ToLower(s)
}

func stripSeedPrefix(s string) string {
	if !strings.HasPrefix(s, "(") {
		return s
	}
	end := strings.Index(s, ") ")
	if end <= 1 {
		return s
	}
	for _, c := range s[1:end] {
		if c < '0' || c > '9' {
			return s
		}
	}
	return strings.TrimSpace(s[end+2:])
}

// SameTeam reports whether two stored names refer to the same team. Empty
// names never match anything, including each other.
func SameTeam(a, b string) bool {
	ca, cb := CanonicalName(a), CanonicalName(b)
	return ca != "" && ca == cb
}

// SamePlayer reports whether two player names refer to the same player.
// Player names carry no seed annotation, so only casing is ignored.
func SamePlayer(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}
