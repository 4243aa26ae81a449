/* report_test.go */

package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bracket-bot/api/bracket"
)

func TestReport_MarksEachPick(t *testing.T) {
	official := seededBracket(t)
	var err error
	official, err = bracket.ApplyResult(official, bracket.FirstRound, 0, bracket.Result{Winner: "Celtics", NumGames: 5})
	require.NoError(t, err)
	official, err = bracket.ApplyResult(official, bracket.FirstRound, 1, bracket.Result{Winner: "Cavaliers", NumGames: 6})
	require.NoError(t, err)

	predicted := seededBracket(t)
	predicted, err = bracket.ApplyResult(predicted, bracket.FirstRound, 0, bracket.Result{Winner: "Celtics", NumGames: 5})
	require.NoError(t, err)
	predicted, err = bracket.ApplyResult(predicted, bracket.FirstRound, 1, bracket.Result{Winner: "Knicks", NumGames: 6})
	require.NoError(t, err)
	predicted, err = bracket.ApplyResult(predicted, bracket.FirstRound, 4, bracket.Result{Winner: "Nuggets", NumGames: 4})
	require.NoError(t, err)

	out := Report(predicted, official, DefaultConfig())

	assert.Contains(t, out, "__First Round__")
	assert.Contains(t, out, "(1) Celtics vs (8) Heat: Celtics in 5 [Succeeded] +2")
	assert.Contains(t, out, "(4) Cavaliers vs (5) Knicks: Knicks in 6 [Failed]")
	assert.Contains(t, out, "(1) Nuggets vs (8) Timberwolves: Nuggets in 4 [Pending]")
	assert.Contains(t, out, "(3) Sixers vs (6) Nets: no pick")
	assert.Contains(t, out, "Finals MVP: no pick")
	assert.Contains(t, out, "Total: 2 points from 1 correct picks")
}

func TestReport_ShowsPlayInAndMVPLines(t *testing.T) {
	official, err := bracket.NewFromRoster(playInRoster())
	require.NoError(t, err)
	official, err = bracket.ApplyPlayInResult(official, bracket.East, bracket.SevenEight, "Hawks")
	require.NoError(t, err)
	official = bracket.SetFinalsMVP(official, "Nikola Jokic")

	predicted := official.Clone()
	predicted, err = bracket.ApplyPlayInResult(predicted, bracket.West, bracket.NineTen, "Pelicans")
	require.NoError(t, err)

	out := Report(predicted, official, DefaultConfig())

	assert.Contains(t, out, "__Play-In East__")
	assert.Contains(t, out, "7v8: (7) Hawks vs (8) Heat: Hawks [Succeeded] +1")
	assert.Contains(t, out, "9v10: (9) Pelicans vs (10) Thunder: Pelicans [Pending]")
	assert.Contains(t, out, "Finals MVP: Nikola Jokic [Succeeded] +5")
}

func TestReport_OmitsPlayInWhenDisabled(t *testing.T) {
	out := Report(seededBracket(t), seededBracket(t), DefaultConfig())
	assert.NotContains(t, out, "Play-In")
}
