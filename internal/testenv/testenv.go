// Package testenv provides envs for integration tests.
package testenv

import (
	"reflect"
	"sync"
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/nixenne/accord/discord"
)

// Env holds the environment variables that the integration tests need. Tests
// are skipped when any of them is missing.
type Env struct {
	BotToken  string            `env:"BOT_TOKEN,notEmpty"`
	ChannelID discord.ChannelID `env:"CHANNEL_ID,notEmpty"`
	GuildID   discord.GuildID   `env:"GUILD_ID"`
}

var (
	globalEnv Env
	globalErr error
	once      sync.Once
)

// Must returns the Env, skipping the test if any required variable is
// missing.
func Must(t *testing.T) Env {
	e, err := GetEnv()
	if err != nil {
		t.Skip("integration test variables missing:", err)
	}
	return e
}

func GetEnv() (Env, error) {
	once.Do(getEnv)
	return globalEnv, globalErr
}

func getEnv() {
	// A .env file is optional; variables from the process environment win.
	godotenv.Load()

	if err := env.ParseWithOptions(&globalEnv, env.Options{
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(discord.ChannelID(0)): func(v string) (interface{}, error) {
				s, err := discord.ParseSnowflake(v)
				return discord.ChannelID(s), err
			},
			reflect.TypeOf(discord.GuildID(0)): func(v string) (interface{}, error) {
				s, err := discord.ParseSnowflake(v)
				return discord.GuildID(s), err
			},
		},
	}); err != nil {
		globalErr = errors.Wrap(err, "failed to parse test environment")
	}
}
