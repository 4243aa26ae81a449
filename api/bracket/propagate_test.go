/* propagate_test.go
 * Tests for result application, downstream placement, cascade invalidation
 * and play-in propagation.
 */

package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// region Test helpers

func testRoster() *Roster {
	return &Roster{
		East: []TeamSeed{
			{Name: "Celtics", Seed: 1}, {Name: "Bucks", Seed: 2},
			{Name: "Sixers", Seed: 3}, {Name: "Cavaliers", Seed: 4},
			{Name: "Knicks", Seed: 5}, {Name: "Nets", Seed: 6},
			{Name: "Hawks", Seed: 7}, {Name: "Heat", Seed: 8},
		},
		West: []TeamSeed{
			{Name: "Nuggets", Seed: 1}, {Name: "Suns", Seed: 2},
			{Name: "Warriors", Seed: 3}, {Name: "Grizzlies", Seed: 4},
			{Name: "Lakers", Seed: 5}, {Name: "Clippers", Seed: 6},
			{Name: "Kings", Seed: 7}, {Name: "Timberwolves", Seed: 8},
		},
	}
}

func playInRoster() *Roster {
	ro := testRoster()
	ro.PlayIn = true
	ro.East = append(ro.East, TeamSeed{Name: "Bulls", Seed: 9}, TeamSeed{Name: "Raptors", Seed: 10})
	ro.West = append(ro.West, TeamSeed{Name: "Pelicans", Seed: 9}, TeamSeed{Name: "Thunder", Seed: 10})
	return ro
}

func seededBracket(t *testing.T) *Bracket {
	t.Helper()
	b, err := NewFromRoster(testRoster())
	require.NoError(t, err)
	return b
}

func seededPlayInBracket(t *testing.T) *Bracket {
	t.Helper()
	b, err := NewFromRoster(playInRoster())
	require.NoError(t, err)
	return b
}

// decideAll plays out the whole draw with team1 winning every series in 5,
// and names an MVP in the finals.
func decideAll(t *testing.T, b *Bracket) *Bracket {
	t.Helper()
	var err error
	for _, r := range AllRounds() {
		for i := 0; i < r.Size(); i++ {
			m, ok := b.MatchupAt(r, i)
			require.True(t, ok)
			res := Result{Winner: m.Team1, NumGames: 5}
			if r == Finals {
				res.MVP = "Jayson Tatum"
			}
			b, err = ApplyResult(b, r, i, res)
			require.NoError(t, err)
		}
	}
	return b
}

// endregion

// region Next-slot routing

func TestNextSlot_Routing(t *testing.T) {
	cases := []struct {
		round     Round
		index     int
		wantRound Round
		wantIndex int
		wantSlot  Slot
	}{
		{FirstRound, 0, SecondRound, 0, Team1Slot},
		{FirstRound, 1, SecondRound, 0, Team2Slot},
		{FirstRound, 2, SecondRound, 1, Team1Slot},
		{FirstRound, 3, SecondRound, 1, Team2Slot},
		{FirstRound, 4, SecondRound, 2, Team1Slot},
		{FirstRound, 5, SecondRound, 2, Team2Slot},
		{FirstRound, 6, SecondRound, 3, Team1Slot},
		{FirstRound, 7, SecondRound, 3, Team2Slot},
		{SecondRound, 0, ConfFinals, 0, Team1Slot},
		{SecondRound, 1, ConfFinals, 0, Team2Slot},
		{SecondRound, 2, ConfFinals, 1, Team1Slot},
		{SecondRound, 3, ConfFinals, 1, Team2Slot},
		{ConfFinals, 0, Finals, 0, Team1Slot},
		{ConfFinals, 1, Finals, 0, Team2Slot},
	}
	for _, c := range cases {
		next, index, slot, ok := NextSlot(c.round, c.index)
		require.True(t, ok, "%s %d", c.round, c.index)
		assert.Equal(t, c.wantRound, next, "%s %d", c.round, c.index)
		assert.Equal(t, c.wantIndex, index, "%s %d", c.round, c.index)
		assert.Equal(t, c.wantSlot, slot, "%s %d", c.round, c.index)
	}
}

func TestNextSlot_FinalsHaveNoDownstream(t *testing.T) {
	_, _, _, ok := NextSlot(Finals, 0)
	assert.False(t, ok)
}

func TestNextSlot_RejectsOutOfRange(t *testing.T) {
	_, _, _, ok := NextSlot(FirstRound, 8)
	assert.False(t, ok)
	_, _, _, ok = NextSlot(Round(99), 0)
	assert.False(t, ok)
}

// endregion

// region Result application

func TestApplyResult_PlacesWinnerDownstream(t *testing.T) {
	b := seededBracket(t)

	b, err := ApplyResult(b, FirstRound, 0, Result{Winner: "Celtics", NumGames: 5})
	require.NoError(t, err)

	first, _ := b.MatchupAt(FirstRound, 0)
	assert.Equal(t, "Celtics", first.Winner)
	assert.Equal(t, 1, first.WinnerSeed)
	assert.Equal(t, 5, first.NumGames)

	second, _ := b.MatchupAt(SecondRound, 0)
	assert.Equal(t, "Celtics", second.Team1)
	assert.Equal(t, 1, second.Team1Seed)
	assert.Empty(t, second.Team2)
}

func TestApplyResult_FullBracketConsistency(t *testing.T) {
	b := decideAll(t, seededBracket(t))

	// The champion is the finals winner.
	finals, _ := b.MatchupAt(Finals, 0)
	assert.Equal(t, "Celtics", b.Champion)
	assert.Equal(t, 1, b.ChampionSeed)
	assert.Equal(t, finals.Winner, b.Champion)
	assert.Equal(t, East, b.Finals.WinnerConference)
	assert.Equal(t, "Jayson Tatum", b.FinalsMVP)
	assert.Equal(t, "Jayson Tatum", b.Finals.MVP)

	// Every later-round team is the recorded winner of its feeder matchup.
	for _, r := range []Round{FirstRound, SecondRound, ConfFinals} {
		for i := 0; i < r.Size(); i++ {
			m, _ := b.MatchupAt(r, i)
			nr, ni, slot, ok := NextSlot(r, i)
			require.True(t, ok)
			next, _ := b.MatchupAt(nr, ni)
			got := next.Team1
			if slot == Team2Slot {
				got = next.Team2
			}
			assert.Equal(t, m.Winner, got, "%s %d feeds %s %d", r, i, nr, ni)
		}
	}

	// Round sizes never change.
	assert.Len(t, b.FirstRound, 8)
	assert.Len(t, b.SecondRound, 4)
	assert.Len(t, b.ConfFinals, 2)

	// East fills the top of the finals, West the bottom.
	assert.Equal(t, East, b.Finals.Team1Conference)
	assert.Equal(t, West, b.Finals.Team2Conference)
	assert.Equal(t, "Nuggets", b.Finals.Team2)
}

func TestApplyResult_DoesNotMutateInput(t *testing.T) {
	b := seededBracket(t)
	before := b.Clone()

	_, err := ApplyResult(b, FirstRound, 0, Result{Winner: "Celtics", NumGames: 4})
	require.NoError(t, err)
	assert.Equal(t, before, b)
}

func TestApplyResult_Idempotent(t *testing.T) {
	b := seededBracket(t)

	once, err := ApplyResult(b, FirstRound, 0, Result{Winner: "Celtics", NumGames: 6})
	require.NoError(t, err)
	twice, err := ApplyResult(once, FirstRound, 0, Result{Winner: "Celtics", NumGames: 6})
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestApplyResult_SameWinnerKeepsDownstreamDecisions(t *testing.T) {
	b := decideAll(t, seededBracket(t))

	// Correcting only the series length must not disturb later rounds.
	b, err := ApplyResult(b, FirstRound, 0, Result{Winner: "Celtics", NumGames: 7})
	require.NoError(t, err)

	first, _ := b.MatchupAt(FirstRound, 0)
	assert.Equal(t, 7, first.NumGames)
	second, _ := b.MatchupAt(SecondRound, 0)
	assert.Equal(t, "Celtics", second.Winner)
	assert.Equal(t, "Celtics", b.Champion)
	assert.Equal(t, "Jayson Tatum", b.FinalsMVP)
}

func TestApplyResult_CascadeClearsExactPath(t *testing.T) {
	b := decideAll(t, seededBracket(t))

	// Flip the 1v8 result in the East: the path to the title is invalidated,
	// everything off the path survives.
	b, err := ApplyResult(b, FirstRound, 0, Result{Winner: "Heat", NumGames: 7})
	require.NoError(t, err)

	second, _ := b.MatchupAt(SecondRound, 0)
	assert.Equal(t, "Heat", second.Team1)
	assert.Equal(t, 8, second.Team1Seed)
	assert.Empty(t, second.Winner, "replaced pairing cannot keep its decision")
	assert.Equal(t, "Cavaliers", second.Team2, "the other feeder is untouched")

	confFinal, _ := b.MatchupAt(ConfFinals, 0)
	assert.Empty(t, confFinal.Team1, "slot fed by the invalidated decision empties")
	assert.Empty(t, confFinal.Winner)
	assert.Equal(t, "Sixers", confFinal.Team2, "slot fed by the intact half survives")

	finals, _ := b.MatchupAt(Finals, 0)
	assert.Empty(t, finals.Team1)
	assert.Empty(t, finals.Winner)
	assert.Equal(t, "Nuggets", finals.Team2, "the West side is untouched")
	assert.Empty(t, b.Champion)
	assert.Zero(t, b.ChampionSeed)
	assert.Empty(t, b.FinalsMVP)
	assert.Empty(t, b.Finals.MVP)

	// Decisions outside the path are still there.
	other, _ := b.MatchupAt(FirstRound, 1)
	assert.Equal(t, "Cavaliers", other.Winner)
	westFinal, _ := b.MatchupAt(ConfFinals, 1)
	assert.Equal(t, "Nuggets", westFinal.Winner)
}

func TestApplyResult_RejectsWinnerNotInMatchup(t *testing.T) {
	b := seededBracket(t)

	_, err := ApplyResult(b, FirstRound, 0, Result{Winner: "Nuggets"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidWinner)
}

func TestApplyResult_RejectsHalfEmptyMatchup(t *testing.T) {
	b := seededBracket(t)
	b, err := ApplyResult(b, FirstRound, 0, Result{Winner: "Celtics"})
	require.NoError(t, err)

	// Second round matchup 0 has only one side so far; a result for it is
	// rejected rather than stored.
	_, err = ApplyResult(b, SecondRound, 0, Result{Winner: "Celtics"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMatchupNotReady)
}

func TestApplyResult_RejectsBadSeriesLength(t *testing.T) {
	b := seededBracket(t)

	for _, games := range []int{1, 3, 8} {
		_, err := ApplyResult(b, FirstRound, 0, Result{Winner: "Celtics", NumGames: games})
		assert.ErrorIs(t, err, ErrInvalidSeriesLength, "numGames=%d", games)
	}
}

func TestApplyResult_RejectsSeedMismatch(t *testing.T) {
	b := seededBracket(t)

	_, err := ApplyResult(b, FirstRound, 0, Result{Winner: "Celtics", WinnerSeed: 8})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidWinner)
}

func TestApplyResult_RejectsUnknownRoundOrMatchup(t *testing.T) {
	b := seededBracket(t)

	_, err := ApplyResult(b, Round(99), 0, Result{Winner: "Celtics"})
	assert.ErrorIs(t, err, ErrUnknownRound)

	_, err = ApplyResult(b, FirstRound, 8, Result{Winner: "Celtics"})
	assert.ErrorIs(t, err, ErrUnknownMatchup)
}

func TestApplyResult_NormalizesSubmittedWinner(t *testing.T) {
	b := seededBracket(t)

	// Casing and a leading seed annotation are tolerated on input; the slot's
	// canonical name is what gets stored.
	b, err := ApplyResult(b, FirstRound, 0, Result{Winner: " (8) heat "})
	require.NoError(t, err)

	first, _ := b.MatchupAt(FirstRound, 0)
	assert.Equal(t, "Heat", first.Winner)
	assert.Equal(t, 8, first.WinnerSeed)
}

func TestApplyResult_FinalsTitleChangeClearsMVP(t *testing.T) {
	b := decideAll(t, seededBracket(t))
	require.Equal(t, "Jayson Tatum", b.FinalsMVP)

	b, err := ApplyResult(b, Finals, 0, Result{Winner: "Nuggets", NumGames: 6})
	require.NoError(t, err)

	assert.Equal(t, "Nuggets", b.Champion)
	assert.Equal(t, West, b.Finals.WinnerConference)
	assert.Empty(t, b.FinalsMVP, "the old MVP does not follow a new champion")
	assert.Empty(t, b.Finals.MVP)
}

func TestSetFinalsMVP_SetsAndClears(t *testing.T) {
	b := seededBracket(t)

	b = SetFinalsMVP(b, " Nikola Jokic ")
	assert.Equal(t, "Nikola Jokic", b.FinalsMVP)
	assert.Equal(t, "Nikola Jokic", b.Finals.MVP)

	b = SetFinalsMVP(b, "")
	assert.Empty(t, b.FinalsMVP)
	assert.Empty(t, b.Finals.MVP)
}

// endregion

// region Play-in propagation

func TestApplyPlayInResult_RejectsDisabledStage(t *testing.T) {
	b := seededBracket(t)

	_, err := ApplyPlayInResult(b, East, SevenEight, "Hawks")
	assert.ErrorIs(t, err, ErrPlayInDisabled)
}

func TestApplyPlayInResult_FeedsFinalGame(t *testing.T) {
	b := seededPlayInBracket(t)

	b, err := ApplyPlayInResult(b, East, SevenEight, "Hawks")
	require.NoError(t, err)
	b, err = ApplyPlayInResult(b, East, NineTen, "Bulls")
	require.NoError(t, err)

	final, ok := b.PlayInGameAt(East, PlayInFinal)
	require.True(t, ok)
	assert.Equal(t, "Heat", final.Team1, "the 7v8 loser hosts the final")
	assert.Equal(t, 8, final.Team1Seed)
	assert.Equal(t, "Bulls", final.Team2, "the 9v10 winner visits")
	assert.Equal(t, 9, final.Team2Seed)
}

func TestApplyPlayInResult_FinalInjectsEighthSeed(t *testing.T) {
	b := seededPlayInBracket(t)

	first, _ := b.MatchupAt(FirstRound, 0)
	require.Empty(t, first.Team2, "the 8th slot stays open until the play-in resolves")

	b, err := ApplyPlayInResult(b, East, SevenEight, "Hawks")
	require.NoError(t, err)
	b, err = ApplyPlayInResult(b, East, NineTen, "Bulls")
	require.NoError(t, err)
	b, err = ApplyPlayInResult(b, East, PlayInFinal, "Bulls")
	require.NoError(t, err)

	first, _ = b.MatchupAt(FirstRound, 0)
	assert.Equal(t, "Bulls", first.Team2)
	assert.Equal(t, 8, first.Team2Seed, "the qualifier enters as the 8th seed")

	// The pairing is complete, so the series can now be decided.
	b, err = ApplyResult(b, FirstRound, 0, Result{Winner: "Celtics", NumGames: 4})
	require.NoError(t, err)
	first, _ = b.MatchupAt(FirstRound, 0)
	assert.Equal(t, "Celtics", first.Winner)
}

func TestApplyPlayInResult_ChangingFinalWinnerReinjects(t *testing.T) {
	b := seededPlayInBracket(t)
	var err error
	for _, step := range []struct {
		game   PlayInGame
		winner string
	}{{SevenEight, "Hawks"}, {NineTen, "Bulls"}, {PlayInFinal, "Bulls"}} {
		b, err = ApplyPlayInResult(b, East, step.game, step.winner)
		require.NoError(t, err)
	}
	b, err = ApplyResult(b, FirstRound, 0, Result{Winner: "Bulls", NumGames: 7})
	require.NoError(t, err)

	b, err = ApplyPlayInResult(b, East, PlayInFinal, "Heat")
	require.NoError(t, err)

	first, _ := b.MatchupAt(FirstRound, 0)
	assert.Equal(t, "Heat", first.Team2)
	assert.Equal(t, 8, first.Team2Seed)
	assert.Empty(t, first.Winner, "the old 1v8 decision no longer stands")
}

func TestApplyPlayInResult_ChangingSevenEightCascades(t *testing.T) {
	b := seededPlayInBracket(t)
	var err error
	for _, step := range []struct {
		game   PlayInGame
		winner string
	}{{SevenEight, "Hawks"}, {NineTen, "Bulls"}, {PlayInFinal, "Heat"}} {
		b, err = ApplyPlayInResult(b, East, step.game, step.winner)
		require.NoError(t, err)
	}

	// Heat now win 7v8, so the Hawks drop into the final instead and every
	// dependent decision unwinds.
	b, err = ApplyPlayInResult(b, East, SevenEight, "Heat")
	require.NoError(t, err)

	final, _ := b.PlayInGameAt(East, PlayInFinal)
	assert.Equal(t, "Hawks", final.Team1)
	assert.Empty(t, final.Winner)

	first, _ := b.MatchupAt(FirstRound, 0)
	assert.Empty(t, first.Team2, "the injected qualifier is withdrawn")
}

func TestApplyPlayInResult_RejectsBadInput(t *testing.T) {
	b := seededPlayInBracket(t)

	_, err := ApplyPlayInResult(b, East, PlayInFinal, "Hawks")
	assert.ErrorIs(t, err, ErrMatchupNotReady, "the final has no teams before its feeders decide")

	_, err = ApplyPlayInResult(b, East, SevenEight, "Celtics")
	assert.ErrorIs(t, err, ErrInvalidWinner)

	_, err = ApplyPlayInResult(b, Conference("north"), SevenEight, "Hawks")
	assert.ErrorIs(t, err, ErrUnknownConference)
}

// endregion
