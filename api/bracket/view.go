/* view.go
 * Renders a bracket tree as chat-friendly text, round by round.
 */

package bracket

import (
	"fmt"
	"strings"
)

// View renders the tree for chat display. The title line names whose tree
// it is.
func View(b *Bracket, title string) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("**%s**\n", title))

	if b.PlayIn != nil {
		for _, conf := range Conferences() {
			builder.WriteString(fmt.Sprintf("__Play-In %s__\n", conf.Name()))
			f := b.PlayIn.field(conf)
			for _, g := range PlayInGames() {
				builder.WriteString(fmt.Sprintf("  %s: %s\n", g.Name(), formatPlayInLine(f.game(g))))
			}
		}
	}

	for _, r := range AllRounds() {
		builder.WriteString(fmt.Sprintf("__%s__\n", r.Name()))
		for i := 0; i < r.Size(); i++ {
			m, _ := b.MatchupAt(r, i)
			prefix := "  "
			if conf := ConferenceOf(r, i); conf != "" {
				prefix = fmt.Sprintf("  [%s] ", conf.Name()[:1])
			}
			builder.WriteString(prefix + formatMatchupLine(&m) + "\n")
		}
	}

	if b.Champion != "" {
		builder.WriteString(fmt.Sprintf("Champion: %s", FormatTeam(b.Champion, b.ChampionSeed)))
		if b.FinalsMVP != "" {
			builder.WriteString(fmt.Sprintf(" (MVP: %s)", b.FinalsMVP))
		}
		builder.WriteString("\n")
	}
	return builder.String()
}

// FormatTeam renders a team with its seed annotation, or TBD for an empty
// slot.
func FormatTeam(name string, seed int) string {
	if name == "" {
		return "TBD"
	}
	if seed > 0 {
		return fmt.Sprintf("(%d) %s", seed, name)
	}
	return name
}

func formatMatchupLine(m *Matchup) string {
	line := fmt.Sprintf("%s vs %s", FormatTeam(m.Team1, m.Team1Seed), FormatTeam(m.Team2, m.Team2Seed))
	if m.Winner == "" {
		return line
	}
	if m.NumGames > 0 {
		return fmt.Sprintf("%s: %s in %d", line, m.Winner, m.NumGames)
	}
	return fmt.Sprintf("%s: %s", line, m.Winner)
}

func formatPlayInLine(m *PlayInMatchup) string {
	line := fmt.Sprintf("%s vs %s", FormatTeam(m.Team1, m.Team1Seed), FormatTeam(m.Team2, m.Team2Seed))
	if m.Winner == "" {
		return line
	}
	return fmt.Sprintf("%s: %s", line, m.Winner)
}
