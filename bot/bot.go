/* bot.go
 * Contains logic used for creating the bot and the helpers shared by its command handlers. Requires a discord
 * bot token and ApiPtr, both of which are passed in from main.go
 */

package bot

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"bracket-bot/api/api"
	"bracket-bot/api/bracket"
	"bracket-bot/api/input"
)

type Bot struct {
	BotToken string
	ApiPtr   *api.API
	// AdminIds gates the commands that change the official tournament
	AdminIds map[string]bool
}

func NewBot(botToken string, apiPtr *api.API) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}

	return &Bot{
		BotToken: botToken,
		ApiPtr:   apiPtr,
		AdminIds: adminIdsFromEnv(),
	}, nil
}

// Helper function to read the comma separated ADMIN_USER_IDS environment variable into a lookup set
// Preconditions: None
// Postconditions: Returns the set of discord user ids allowed to run admin commands, empty when the variable is unset
func adminIdsFromEnv() map[string]bool {
	ids := make(map[string]bool)
	for _, id := range strings.Split(os.Getenv("ADMIN_USER_IDS"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids[id] = true
		}
	}
	return ids
}

// Helper function to match a typed team name against the stored roster
// Preconditions: Receives the name fragment the user typed
// Postconditions: Returns the rostered team name it resolves to, else an error if nothing matches
func (b *Bot) resolveTeam(typed string) (string, error) {
	teams, err := b.ApiPtr.GetTeams()
	if err != nil {
		return "", err
	}
	return input.ResolveTeam(typed, teams)
}

// Helper function to turn an ordered list of team names into seeded roster slots
// Preconditions: Receives team names in seed order, best seed first
// Postconditions: Returns one TeamSeed per name with seeds assigned from 1
func seedTeams(names []string) []bracket.TeamSeed {
	teams := make([]bracket.TeamSeed, 0, len(names))
	for i, name := range names {
		teams = append(teams, bracket.TeamSeed{Name: name, Seed: i + 1})
	}
	return teams
}

// Helper function to turn an API error into a chat reply. Errors caused by the typed input carry messages that
// already say what to fix, so those go back verbatim; anything unexpected is logged and reported generically
// Preconditions: Receives the error and a short description of what the bot was doing
// Postconditions: Returns the message to send to the discord channel
func (b *Bot) errorReply(err error, doing string) string {
	switch {
	case errors.Is(err, api.ErrMissingOfficial):
		return "No tournament is set up yet. An admin needs to run $setup first"
	case errors.Is(err, api.ErrNoEntry):
		return "You do not have a bracket stored. Use $pick to make your predictions"
	case isInputError(err):
		return err.Error()
	}
	log.Println(err)
	return fmt.Sprintf("An error occured %s", doing)
}

// Helper function to check whether an error describes a problem with the typed command rather than with the service
func isInputError(err error) bool {
	for _, sentinel := range []error{
		bracket.ErrInvalidWinner,
		bracket.ErrMatchupNotReady,
		bracket.ErrUnknownRound,
		bracket.ErrUnknownMatchup,
		bracket.ErrUnknownConference,
		bracket.ErrInvalidSeriesLength,
		bracket.ErrPlayInDisabled,
		bracket.ErrInvalidRoster,
		input.ErrUnknownTeam,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// Helper function to check if a string starts with a given substring
// Preconditions: Receives an input string and a substring
// Postconditions: Returns true if the substring is at the start of the string, else returns false
func startsWith(inputString string, substring string) bool {
	return strings.HasPrefix(inputString, substring)
}
