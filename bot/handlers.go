/* handlers.go
 * Contains testable handler methods that accept DiscordSession interface
 */

package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.mongodb.org/mongo-driver/mongo"

	"bracket-bot/api/api"
	"bracket-bot/api/bracket"
	"bracket-bot/api/input"
	"bracket-bot/api/shared"
)

// helpMessageHandler handles the $help command with a DiscordSession interface
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("Bracket Bot v1.0\n")
	res.WriteString("`$info`: Get information about the tournament including name, team count, play-in status and champion\n")
	res.WriteString("`$teams`: shows the rostered teams in seed order. Use this list to make your picks\n")
	res.WriteString("`$bracket`: shows the official bracket with the results recorded so far. `$bracket me` shows your own picks\n")
	res.WriteString("`$pick round matchup team [games]`: picks a series winner, e.g. `$pick first 1 Celtics 5`. Matchup numbers are the ones shown by `$bracket`\n")
	res.WriteString("`$playin conference game team`: picks a play-in winner, e.g. `$playin east 7v8 Hawks`\n")
	res.WriteString("`$mvp player`: picks the Finals MVP. `$mvp` on its own clears the pick\n")
	res.WriteString("`$check`: shows how your picks are doing against the official results and how many points are still achievable\n")
	res.WriteString("`$leaderboard`: shows which users have the best brackets. Ties are broken by number of correct picks\n")
	res.WriteString("There is fuzzy matching on team names, however you should try and have a close match for the best results. Names that contain two or more words need to be encased in \" (e.g. \"Trail Blazers\")\n")
	if b.AdminIds[message.Author.ID] {
		res.WriteString("Admin commands: `$setup`, `$result`, `$playinresult`, `$finalsmvp`, `$rename`, `$reset`, `$rescore`\n")
	}
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// infoHandler handles the $info command with a DiscordSession interface
func (b *Bot) infoHandler(session DiscordSession, message *discordgo.MessageCreate) {
	info, err := b.ApiPtr.GetTournamentInfo()
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "getting the tournament info"))
		return
	}
	var res strings.Builder
	for i := range info {
		res.WriteString(fmt.Sprintf("%s\n", info[i]))
	}
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// teamsHandler handles the $teams command with a DiscordSession interface
func (b *Bot) teamsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	teams, err := b.ApiPtr.GetTeams()
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "getting the teams list"))
		return
	}

	var res strings.Builder
	res.WriteString("Valid teams for this tournament are:\n")
	for _, team := range teams {
		res.WriteString(fmt.Sprintf("- %s\n", team))
	}

	session.ChannelMessageSend(message.ChannelID, res.String())
}

// bracketHandler handles the $bracket command with a DiscordSession interface.
// `$bracket` shows the official tree, `$bracket me` the caller's own picks
func (b *Bot) bracketHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := input.Fields(message.Content)

	var view string
	var err error
	if len(args) > 1 && strings.EqualFold(args[1], "me") {
		user := shared.User{UserId: message.Author.ID, Username: message.Author.Username}
		view, err = b.ApiPtr.GetUserBracketView(user)
	} else {
		view, err = b.ApiPtr.GetOfficialBracketView()
	}
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "getting the bracket"))
		return
	}
	session.ChannelMessageSend(message.ChannelID, view)
}

// pickHandler handles the $pick command with a DiscordSession interface.
// Expects `$pick round matchup team [games]`, e.g. `$pick first 1 Celtics 5`
func (b *Bot) pickHandler(session DiscordSession, message *discordgo.MessageCreate) {
	user := shared.User{UserId: message.Author.ID, Username: message.Author.Username}
	args := input.Fields(message.Content)
	if len(args) < 4 {
		session.ChannelMessageSend(message.ChannelID, "Usage: `$pick round matchup team [games]`, e.g. `$pick first 1 Celtics 5`")
		return
	}

	round, err := input.ParseRound(args[1])
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "reading the round"))
		return
	}
	index, err := input.ParseMatchupNumber(args[2], round)
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "reading the matchup number"))
		return
	}
	winner, err := b.resolveTeam(args[3])
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "matching the team name"))
		return
	}
	numGames := 0
	if len(args) > 4 {
		if numGames, err = input.ParseSeriesLength(args[4]); err != nil {
			session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "reading the series length"))
			return
		}
	}

	if err := b.ApiPtr.SubmitPick(user, round, index, winner, numGames); err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, fmt.Sprintf("setting %s's pick", user.Username)))
		return
	}

	res := fmt.Sprintf("%s picked %s to win %s matchup %s", user.Username, winner, round.Name(), args[2])
	if round == bracket.Finals {
		res = fmt.Sprintf("%s picked %s to win the Finals", user.Username, winner)
	}
	if numGames > 0 {
		res += fmt.Sprintf(" in %d", numGames)
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// playInPickHandler handles the $playin command with a DiscordSession interface.
// Expects `$playin conference game team`, e.g. `$playin east 7v8 Hawks`
func (b *Bot) playInPickHandler(session DiscordSession, message *discordgo.MessageCreate) {
	user := shared.User{UserId: message.Author.ID, Username: message.Author.Username}
	args := input.Fields(message.Content)
	if len(args) < 4 {
		session.ChannelMessageSend(message.ChannelID, "Usage: `$playin conference game team`, e.g. `$playin east 7v8 Hawks`")
		return
	}

	conf, err := input.ParseConference(args[1])
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "reading the conference"))
		return
	}
	game, err := input.ParsePlayInGame(args[2])
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "reading the play-in game"))
		return
	}
	winner, err := b.resolveTeam(args[3])
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "matching the team name"))
		return
	}

	if err := b.ApiPtr.SubmitPlayInPick(user, conf, game, winner); err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, fmt.Sprintf("setting %s's play-in pick", user.Username)))
		return
	}
	session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("%s picked %s to win the %s play-in %s", user.Username, winner, conf.Name(), game.Name()))
}

// mvpPickHandler handles the $mvp command with a DiscordSession interface.
// A bare `$mvp` clears the caller's pick
func (b *Bot) mvpPickHandler(session DiscordSession, message *discordgo.MessageCreate) {
	user := shared.User{UserId: message.Author.ID, Username: message.Author.Username}
	args := input.Fields(message.Content)
	player := strings.Join(args[1:], " ")

	if err := b.ApiPtr.SubmitMVPPick(user, player); err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, fmt.Sprintf("setting %s's MVP pick", user.Username)))
		return
	}

	res := fmt.Sprintf("%s picked %s for Finals MVP", user.Username, player)
	if player == "" {
		res = fmt.Sprintf("%s's MVP pick has been cleared", user.Username)
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// checkBracketHandler handles the $check command with a DiscordSession interface
func (b *Bot) checkBracketHandler(session DiscordSession, message *discordgo.MessageCreate) {
	user := shared.User{UserId: message.Author.ID, Username: message.Author.Username}
	res, err := b.ApiPtr.CheckBracket(user)
	if err != nil {
		if errors.Is(err, api.ErrNoEntry) {
			res = fmt.Sprintf("%s does not have a bracket stored. Use $pick to make your predictions\n", user.Username)
		} else {
			res = b.errorReply(err, fmt.Sprintf("checking %s's bracket", user.Username))
		}
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// leaderboardHandler handles the $leaderboard command with a DiscordSession interface
func (b *Bot) leaderboardHandler(session DiscordSession, message *discordgo.MessageCreate) {
	res, err := b.ApiPtr.GetLeaderboard()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			res = "No leaderboard has been generated yet. An admin can run $rescore to build one"
		} else {
			res = b.errorReply(err, "getting the leaderboard")
		}
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// region admin handlers

// requireAdmin checks the message author against the configured admin ids and
// refuses the command when they are not on the list
func (b *Bot) requireAdmin(session DiscordSession, message *discordgo.MessageCreate) bool {
	if b.AdminIds[message.Author.ID] {
		return true
	}
	session.ChannelMessageSend(message.ChannelID, "Only tournament admins can run this command")
	return false
}

// setupHandler handles the $setup command with a DiscordSession interface.
// Expects `$setup name east seed1 ... seedN west seed1 ... seedN` with 8 seeds
// per conference, or 10 to enable the play-in stage
func (b *Bot) setupHandler(session DiscordSession, message *discordgo.MessageCreate) {
	if !b.requireAdmin(session, message) {
		return
	}
	usage := "Usage: `$setup name east seed1 ... seed8 west seed1 ... seed8`. List 10 seeds per conference to run a play-in, and encase names that contain spaces in \""
	args := input.Fields(message.Content)
	if len(args) < 2 || strings.EqualFold(args[1], "east") || strings.EqualFold(args[1], "west") {
		session.ChannelMessageSend(message.ChannelID, usage)
		return
	}
	name := args[1]

	var east, west []string
	var current *[]string
	for _, arg := range args[2:] {
		switch strings.ToLower(arg) {
		case "east":
			current = &east
		case "west":
			current = &west
		default:
			if current == nil {
				session.ChannelMessageSend(message.ChannelID, usage)
				return
			}
			*current = append(*current, arg)
		}
	}
	if len(east) == 0 || len(west) == 0 {
		session.ChannelMessageSend(message.ChannelID, usage)
		return
	}

	roster := bracket.Roster{
		East:   seedTeams(east),
		West:   seedTeams(west),
		PlayIn: len(east) == 10 && len(west) == 10,
	}
	if err := b.ApiPtr.SetupTournament(name, roster); err != nil {
		fmt.Println(err)
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("An error occured setting up the tournament: %s", err))
		return
	}

	playIn := "disabled"
	if roster.PlayIn {
		playIn = "enabled"
	}
	session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("Tournament %q is ready with %d teams (play-in %s). Brackets are open for picks", name, len(east)+len(west), playIn))
}

// resultHandler handles the $result command with a DiscordSession interface.
// Expects `$result round matchup team [games]`, e.g. `$result first 1 Celtics 5`
func (b *Bot) resultHandler(session DiscordSession, message *discordgo.MessageCreate) {
	if !b.requireAdmin(session, message) {
		return
	}
	args := input.Fields(message.Content)
	if len(args) < 4 {
		session.ChannelMessageSend(message.ChannelID, "Usage: `$result round matchup team [games]`, e.g. `$result first 1 Celtics 5`")
		return
	}

	round, err := input.ParseRound(args[1])
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "reading the round"))
		return
	}
	index, err := input.ParseMatchupNumber(args[2], round)
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "reading the matchup number"))
		return
	}
	winner, err := b.resolveTeam(args[3])
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "matching the team name"))
		return
	}
	numGames := 0
	if len(args) > 4 {
		if numGames, err = input.ParseSeriesLength(args[4]); err != nil {
			session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "reading the series length"))
			return
		}
	}

	if err := b.ApiPtr.RecordResult(round, index, winner, numGames); err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "recording the result"))
		return
	}

	res := fmt.Sprintf("Recorded: %s win %s matchup %s", winner, round.Name(), args[2])
	if round == bracket.Finals {
		res = fmt.Sprintf("Recorded: %s win the Finals", winner)
	}
	if numGames > 0 {
		res += fmt.Sprintf(" in %d", numGames)
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// playInResultHandler handles the $playinresult command with a DiscordSession interface.
// Expects `$playinresult conference game team`, e.g. `$playinresult east 7v8 Hawks`
func (b *Bot) playInResultHandler(session DiscordSession, message *discordgo.MessageCreate) {
	if !b.requireAdmin(session, message) {
		return
	}
	args := input.Fields(message.Content)
	if len(args) < 4 {
		session.ChannelMessageSend(message.ChannelID, "Usage: `$playinresult conference game team`, e.g. `$playinresult east 7v8 Hawks`")
		return
	}

	conf, err := input.ParseConference(args[1])
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "reading the conference"))
		return
	}
	game, err := input.ParsePlayInGame(args[2])
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "reading the play-in game"))
		return
	}
	winner, err := b.resolveTeam(args[3])
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "matching the team name"))
		return
	}

	if err := b.ApiPtr.RecordPlayInResult(conf, game, winner); err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "recording the play-in result"))
		return
	}
	session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("Recorded: %s win the %s play-in %s", winner, conf.Name(), game.Name()))
}

// finalsMVPHandler handles the $finalsmvp command with a DiscordSession interface.
// A bare `$finalsmvp` clears the recorded MVP
func (b *Bot) finalsMVPHandler(session DiscordSession, message *discordgo.MessageCreate) {
	if !b.requireAdmin(session, message) {
		return
	}
	args := input.Fields(message.Content)
	player := strings.Join(args[1:], " ")

	if err := b.ApiPtr.RecordFinalsMVP(player); err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "recording the Finals MVP"))
		return
	}

	res := fmt.Sprintf("Recorded: %s is the Finals MVP", player)
	if player == "" {
		res = "The Finals MVP has been cleared"
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// renameTeamHandler handles the $rename command with a DiscordSession interface.
// Expects `$rename old new`, e.g. `$rename Supersonics "Oklahoma City Thunder"`
func (b *Bot) renameTeamHandler(session DiscordSession, message *discordgo.MessageCreate) {
	if !b.requireAdmin(session, message) {
		return
	}
	args := input.Fields(message.Content)
	if len(args) < 3 {
		session.ChannelMessageSend(message.ChannelID, "Usage: `$rename old new`. Encase names that contain spaces in \"")
		return
	}

	oldName, err := b.resolveTeam(args[1])
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "matching the team name"))
		return
	}

	res, err := b.ApiPtr.RenameTeam(oldName, args[2])
	if err != nil && !errors.Is(err, api.ErrPartialFailure) {
		if errors.Is(err, api.ErrMissingOfficial) {
			session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "renaming the team"))
		} else {
			fmt.Println(err)
			session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("Could not rename %s: %s", oldName, err))
		}
		return
	}

	reply := fmt.Sprintf("%s is now %s across the official bracket and %d participant brackets", oldName, args[2], res.Succeeded)
	if len(res.Failed) > 0 {
		reply += fmt.Sprintf(". %d brackets failed to update (%s)", len(res.Failed), strings.Join(res.Failed, ", "))
	}
	session.ChannelMessageSend(message.ChannelID, reply)
}

// resetTournamentHandler handles the $reset command with a DiscordSession interface.
// `$reset` clears all results and picks but keeps the seeded teams, `$reset full`
// empties the tree entirely
func (b *Bot) resetTournamentHandler(session DiscordSession, message *discordgo.MessageCreate) {
	if !b.requireAdmin(session, message) {
		return
	}
	args := input.Fields(message.Content)
	preserveTeams := true
	if len(args) > 1 && strings.EqualFold(args[1], "full") {
		preserveTeams = false
	}

	res, err := b.ApiPtr.ResetTournament(preserveTeams)
	if err != nil && !errors.Is(err, api.ErrPartialFailure) {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "resetting the tournament"))
		return
	}

	reply := fmt.Sprintf("Tournament reset. %d participant brackets were cleared", res.Succeeded)
	if !preserveTeams {
		reply = fmt.Sprintf("Tournament reset to an empty tree. %d participant brackets were cleared", res.Succeeded)
	}
	if len(res.Failed) > 0 {
		reply += fmt.Sprintf(". %d brackets failed to update (%s)", len(res.Failed), strings.Join(res.Failed, ", "))
	}
	session.ChannelMessageSend(message.ChannelID, reply)
}

// rescoreHandler handles the $rescore command with a DiscordSession interface.
// Rescores every participant against the official bracket, saves the new
// leaderboard and posts it
func (b *Bot) rescoreHandler(session DiscordSession, message *discordgo.MessageCreate) {
	if !b.requireAdmin(session, message) {
		return
	}
	if err := b.ApiPtr.GenerateLeaderboard(); err != nil {
		session.ChannelMessageSend(message.ChannelID, b.errorReply(err, "rescoring the tournament"))
		return
	}

	res, err := b.ApiPtr.GetLeaderboard()
	if err != nil {
		fmt.Println(err)
		res = "The scores were saved but the leaderboard could not be read back"
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// endregion

// newMessageHandler routes messages to appropriate handlers with a DiscordSession interface
// botUserID is the bot's user ID to prevent self-responses
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	// Prevent bot from responding to its own messages
	if message.Author.ID == botUserID {
		return
	}

	// Route to appropriate handler
	switch {
	case startsWith(message.Content, "$help"):
		b.helpMessageHandler(session, message)

	case startsWith(message.Content, "$info"):
		b.infoHandler(session, message)

	case startsWith(message.Content, "$teams"):
		b.teamsHandler(session, message)

	case startsWith(message.Content, "$bracket"):
		b.bracketHandler(session, message)

	case startsWith(message.Content, "$pick"):
		b.pickHandler(session, message)

	// $playinresult has to be matched before its $playin prefix
	case startsWith(message.Content, "$playinresult"):
		b.playInResultHandler(session, message)

	case startsWith(message.Content, "$playin"):
		b.playInPickHandler(session, message)

	case startsWith(message.Content, "$finalsmvp"):
		b.finalsMVPHandler(session, message)

	case startsWith(message.Content, "$mvp"):
		b.mvpPickHandler(session, message)

	case startsWith(message.Content, "$check"):
		b.checkBracketHandler(session, message)

	case startsWith(message.Content, "$leaderboard"):
		b.leaderboardHandler(session, message)

	case startsWith(message.Content, "$setup"):
		b.setupHandler(session, message)

	case startsWith(message.Content, "$result"):
		b.resultHandler(session, message)

	case startsWith(message.Content, "$rename"):
		b.renameTeamHandler(session, message)

	case startsWith(message.Content, "$rescore"):
		b.rescoreHandler(session, message)

	case startsWith(message.Content, "$reset"):
		b.resetTournamentHandler(session, message)
	}
}
