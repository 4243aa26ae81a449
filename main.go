//go:build !test

/* main.go
 * The "main" method for running the bot and the admin web server.
 * Usage: go run main.go -test="<true|false>"
 */

package main

import (
	"context"
	"flag"
	"log"
	"os"

	"bracket-bot/api/api"
	"bracket-bot/bot"
	"bracket-bot/web"

	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()

	//Flags
	testPtr := flag.String("test", "false", "Use main or test bot: takes true or false as argument")

	flag.Parse()

	if err != nil {
		log.Fatal("Error loading .env file")
	}

	useTestBot, err := convertStrToBool(*testPtr)
	if err != nil {
		log.Fatal("Invalid \"test\" flag. Should be true or false")
	}

	var discordToken string
	if useTestBot {
		discordToken = os.Getenv("DISCORD_BETA_TOKEN")
	} else {
		discordToken = os.Getenv("DISCORD_PROD_TOKEN")
	}

	a, err := api.NewAPI(envOr("MONGO_DB", "bracket_bot"), os.Getenv("MONGO_URI"), os.Getenv("TOURNAMENT"))
	if err != nil {
		log.Fatalf("failed to initialize API: %v", err)
	}
	defer func() {
		if err := a.Store.GetClient().Disconnect(context.TODO()); err != nil {
			panic(err)
		}
	}()

	b, err := bot.NewBot(discordToken, a)
	if err != nil {
		log.Fatalf("failed to initialize bot: %v", err)
	}

	// Admin HTTP endpoints run alongside the bot
	go func() {
		cfg := web.Config{Addr: envOr("WEB_ADDR", ":8080"), API: a}
		if err := web.Start(cfg); err != nil {
			log.Println("web server stopped:", err)
		}
	}()

	b.Run()
}
