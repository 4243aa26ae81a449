/* report.go
 * Renders a participant's score as a slot-by-slot chat report.
 */

package scoring

import (
	"fmt"
	"strings"

	"bracket-bot/api/bracket"
)

// Report generates the response string for a participant checking their
// bracket: every pick with its outcome so far, then the point summary.
func Report(predicted, official *bracket.Bracket, cfg Config) string {
	if predicted == nil {
		predicted = &bracket.Bracket{}
	}
	if official == nil {
		official = &bracket.Bracket{}
	}

	var response strings.Builder
	if cfg.PlayInScoringEnabled && official.PlayIn != nil && predicted.PlayIn != nil {
		for _, conf := range bracket.Conferences() {
			response.WriteString(fmt.Sprintf("__Play-In %s__\n", conf.Name()))
			for _, g := range bracket.PlayInGames() {
				pg, _ := predicted.PlayInGameAt(conf, g)
				og, _ := official.PlayInGameAt(conf, g)
				response.WriteString(fmt.Sprintf("%s: %s\n", g.Name(), playInLine(&pg, &og, cfg)))
			}
		}
	}

	for _, r := range bracket.AllRounds() {
		response.WriteString(fmt.Sprintf("__%s__\n", r.Name()))
		for i := 0; i < r.Size(); i++ {
			om, _ := official.MatchupAt(r, i)
			pm, _ := predicted.MatchupAt(r, i)
			response.WriteString(slotLine(r, &om, &pm, cfg))
		}
	}

	response.WriteString(fmt.Sprintf("Finals MVP: %s\n", mvpLine(predicted, official, cfg)))

	rec := Score(predicted, official, cfg)
	response.WriteString(fmt.Sprintf("Total: %d points from %d correct picks, %d still achievable\n",
		rec.Total, rec.CorrectPicks, rec.MaxPossible))
	return response.String()
}

func slotLine(r bracket.Round, om, pm *bracket.Matchup, cfg Config) string {
	pairing := fmt.Sprintf("%s vs %s", bracket.FormatTeam(pm.Team1, pm.Team1Seed), bracket.FormatTeam(pm.Team2, pm.Team2Seed))
	if pm.State() != bracket.StateDecided {
		return fmt.Sprintf("%s: no pick\n", pairing)
	}
	pick := pm.Winner
	if pm.NumGames > 0 {
		pick = fmt.Sprintf("%s in %d", pm.Winner, pm.NumGames)
	}
	if om.State() != bracket.StateDecided {
		return fmt.Sprintf("%s: %s [Pending]\n", pairing, pick)
	}

	var rs RoundScore
	scoreSlot(&rs, r, om, pm, cfg)
	if rs.BasePoints == 0 {
		return fmt.Sprintf("%s: %s [Failed]\n", pairing, pick)
	}
	return fmt.Sprintf("%s: %s [Succeeded] +%d\n", pairing, pick, rs.BasePoints+rs.SeriesBonus+rs.UpsetBonus)
}

func playInLine(pg, og *bracket.PlayInMatchup, cfg Config) string {
	pairing := fmt.Sprintf("%s vs %s", bracket.FormatTeam(pg.Team1, pg.Team1Seed), bracket.FormatTeam(pg.Team2, pg.Team2Seed))
	if pg.State() != bracket.StateDecided {
		return fmt.Sprintf("%s: no pick", pairing)
	}
	if og.State() != bracket.StateDecided {
		return fmt.Sprintf("%s: %s [Pending]", pairing, pg.Winner)
	}
	if bracket.SameTeam(og.Winner, pg.Winner) {
		return fmt.Sprintf("%s: %s [Succeeded] +%d", pairing, pg.Winner, cfg.PlayInPoints)
	}
	return fmt.Sprintf("%s: %s [Failed]", pairing, pg.Winner)
}

func mvpLine(predicted, official *bracket.Bracket, cfg Config) string {
	if predicted.FinalsMVP == "" {
		return "no pick"
	}
	if official.FinalsMVP == "" {
		return fmt.Sprintf("%s [Pending]", predicted.FinalsMVP)
	}
	if bracket.SamePlayer(official.FinalsMVP, predicted.FinalsMVP) {
		return fmt.Sprintf("%s [Succeeded] +%d", predicted.FinalsMVP, cfg.MVPBonus)
	}
	return fmt.Sprintf("%s [Failed]", predicted.FinalsMVP)
}
