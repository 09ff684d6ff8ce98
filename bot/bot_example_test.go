package bot_test

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/nixenne/accord/bot"
	"github.com/nixenne/accord/discord"
)

func Example() {
	b, err := bot.New("Bot " + os.Getenv("BOT_TOKEN"))
	if err != nil {
		log.Fatalln("failed to create bot:", err)
	}

	b.MustAddCommand("ping", func(ctx *bot.Context) error {
		_, err := ctx.Send("pong")
		return err
	})

	b.MustAddSlashCommand(bot.SlashCommand{
		Name:        "ping",
		Description: "Replies with pong.",
		TestGuilds:  []discord.GuildID{1234567890},
		Handler: func(ctx *bot.InteractionContext) error {
			return ctx.Respond("pong")
		},
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := b.Run(ctx); err != nil {
		log.Fatalln("bot stopped:", err)
	}
}
