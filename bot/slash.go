package bot

import (
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/nixenne/accord/api"
	"github.com/nixenne/accord/discord"
	"github.com/nixenne/accord/gateway"
)

// ErrAlreadyResponded is returned by InteractionContext's respond methods if
// the interaction was already responded to. An interaction takes exactly one
// response.
var ErrAlreadyResponded = errors.New("interaction already responded to")

// SlashCommand is a registered application command.
type SlashCommand struct {
	Name        string
	Description string

	// Options are the command's options, shown to the user by Discord.
	Options []discord.CommandOption

	// TestGuilds scope the command to the given guilds. Guild commands are
	// registered per guild and show up there immediately, which makes them
	// suited for development. An empty list registers the command globally.
	TestGuilds []discord.GuildID

	// Handler is called for every invocation. It must respond to the
	// interaction exactly once; never responding is reported through the
	// Bot's ErrorLog, and a second response fails with ErrAlreadyResponded.
	Handler func(*InteractionContext) error
}

// command converts the SlashCommand into its wire format.
func (sc SlashCommand) command() discord.Command {
	return discord.Command{
		Name:        sc.Name,
		Description: sc.Description,
		Options:     sc.Options,
	}
}

// InteractionContext is the invocation context of a single slash command.
type InteractionContext struct {
	*gateway.InteractionCreateEvent

	// Command is the decoded command data of the interaction.
	Command *discord.CommandInteraction

	bot       *Bot
	responded atomic.Bool
}

// Respond responds to the interaction with a plain text message.
func (ctx *InteractionContext) Respond(content string) error {
	return ctx.SendMessage(api.InteractionResponseData{Content: content})
}

// SendMessage responds to the interaction with a message. The second call on
// the same interaction returns ErrAlreadyResponded.
func (ctx *InteractionContext) SendMessage(data api.InteractionResponseData) error {
	return ctx.respond(api.InteractionResponse{
		Type: api.MessageInteractionWithSource,
		Data: &data,
	})
}

// DeferResponse acknowledges the interaction with a deferred message. It
// counts as the interaction's one response.
func (ctx *InteractionContext) DeferResponse() error {
	return ctx.respond(api.InteractionResponse{
		Type: api.DeferredMessageInteractionWithSource,
	})
}

func (ctx *InteractionContext) respond(resp api.InteractionResponse) error {
	if !ctx.responded.CompareAndSwap(false, true) {
		return ErrAlreadyResponded
	}

	if err := ctx.bot.API.RespondInteraction(ctx.ID, ctx.Token, resp); err != nil {
		return errors.Wrap(err, "failed to respond to interaction")
	}

	return nil
}

// AddSlashCommand registers a slash command. It returns a
// *DuplicateCommandError if the name is taken. Registration must happen
// before the gateway's Ready for the command to be synced.
func (b *Bot) AddSlashCommand(sc SlashCommand) error {
	if sc.Name == "" {
		return errors.New("slash command name is empty")
	}
	if sc.Handler == nil {
		return errors.New("slash command " + sc.Name + " has no handler")
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	if _, ok := b.slashes[sc.Name]; ok {
		return &DuplicateCommandError{Name: sc.Name}
	}

	b.slashes[sc.Name] = &sc

	return nil
}

// MustAddSlashCommand is AddSlashCommand but panics on error.
func (b *Bot) MustAddSlashCommand(sc SlashCommand) {
	if err := b.AddSlashCommand(sc); err != nil {
		panic(err)
	}
}

// syncCommands bulk overwrites the registered slash commands, globally for
// unscoped commands and per guild for test-guild-scoped ones. Discord treats
// each payload as the full desired command set.
func (b *Bot) syncCommands() error {
	b.mutex.RLock()

	appID := b.appID

	var global []discord.Command
	guilds := map[discord.GuildID][]discord.Command{}

	for _, sc := range b.slashes {
		if len(sc.TestGuilds) == 0 {
			global = append(global, sc.command())
			continue
		}

		for _, guildID := range sc.TestGuilds {
			guilds[guildID] = append(guilds[guildID], sc.command())
		}
	}

	b.mutex.RUnlock()

	if !appID.IsValid() {
		return errors.New("no application ID from Ready")
	}

	if _, err := b.API.BulkOverwriteCommands(appID, global); err != nil {
		return errors.Wrap(err, "failed to overwrite global commands")
	}

	for guildID, cmds := range guilds {
		if _, err := b.API.BulkOverwriteGuildCommands(appID, guildID, cmds); err != nil {
			return errors.Wrapf(err, "failed to overwrite commands in guild %s", guildID)
		}
	}

	return nil
}

func (b *Bot) onInteraction(ev *gateway.InteractionCreateEvent) {
	data, ok := ev.Data.(*discord.CommandInteraction)
	if !ok {
		return
	}

	b.mutex.RLock()
	sc, ok := b.slashes[data.Name]
	b.mutex.RUnlock()

	if !ok {
		return
	}

	// Guild-scoped commands only answer to their own guilds.
	if len(sc.TestGuilds) > 0 && !containsGuild(sc.TestGuilds, ev.GuildID) {
		return
	}

	ctx := &InteractionContext{
		InteractionCreateEvent: ev,
		Command:                data,
		bot:                    b,
	}

	if err := sc.Handler(ctx); err != nil {
		b.ErrorLog(errors.Wrapf(err, "slash command %q failed", sc.Name))
	}

	if !ctx.responded.Load() {
		b.ErrorLog(errors.Errorf(
			"slash command %q never responded to interaction %s", sc.Name, ev.ID))
	}
}

func containsGuild(guilds []discord.GuildID, id discord.GuildID) bool {
	for _, g := range guilds {
		if g == id {
			return true
		}
	}
	return false
}
