// Package bot implements a prefix and slash command framework on top of the
// session package. It dispatches MessageCreate events into registered prefix
// commands and InteractionCreate events into registered slash commands.
package bot

import (
	"context"
	"log"
	"sync"

	"github.com/pkg/errors"

	"github.com/nixenne/accord/api"
	"github.com/nixenne/accord/discord"
	"github.com/nixenne/accord/gateway"
	"github.com/nixenne/accord/handler"
	"github.com/nixenne/accord/session"
)

// API is the subset of the REST client that the Bot dispatches through. It is
// satisfied by *api.Client; tests may substitute their own.
type API interface {
	SendText(channelID discord.ChannelID, content string) (*discord.Message, error)
	RespondInteraction(id discord.InteractionID, token string, resp api.InteractionResponse) error
	BulkOverwriteCommands(appID discord.AppID, cmds []discord.Command) ([]discord.Command, error)
	BulkOverwriteGuildCommands(
		appID discord.AppID, guildID discord.GuildID, cmds []discord.Command) ([]discord.Command, error)
}

var _ API = (*api.Client)(nil)

// Bot is a prefix and slash command dispatcher over a single Session.
//
// The exported fields should only be changed before Start or Run is called.
type Bot struct {
	Session *session.Session
	API     API

	// Prefix is the prefix for message commands. It defaults to "!".
	Prefix string

	// IgnoreSelf makes the Bot ignore its own messages during command
	// dispatch. Default true.
	IgnoreSelf bool

	// SyncCommands controls whether registered slash commands are bulk
	// overwritten to Discord after Ready. Default true.
	SyncCommands bool

	// ErrorLog is called for all errors that happen during dispatch, command
	// syncing, and for slash commands that never respond to their
	// interaction. Defaults to log.Println.
	ErrorLog func(err error)

	mutex    sync.RWMutex
	me       discord.User
	appID    discord.AppID
	commands map[string]*Command
	slashes  map[string]*SlashCommand
}

// New creates a Bot with its own Session from the given bot token. The token
// must be prefixed with "Bot ".
func New(token string) (*Bot, error) {
	s, err := session.NewWithIntents(token,
		gateway.IntentGuilds,
		gateway.IntentGuildMessages,
		gateway.IntentDirectMessages)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session")
	}

	return NewFromSession(s), nil
}

// NewFromSession creates a Bot on top of an existing Session. The Session
// must not be open yet.
func NewFromSession(s *session.Session) *Bot {
	b := &Bot{
		Session:      s,
		API:          s.Client,
		Prefix:       "!",
		IgnoreSelf:   true,
		SyncCommands: true,
		ErrorLog: func(err error) {
			log.Println("bot error:", err)
		},
		commands: map[string]*Command{},
		slashes:  map[string]*SlashCommand{},
	}

	// The bot's identity must be visible to every other handler the moment
	// Ready is dispatched, or a message arriving right after Ready could be
	// answered before IgnoreSelf knows who "self" is. The pre-handler runs
	// in the event loop itself, ahead of the asynchronous fan-out.
	if s.PreHandler == nil {
		s.PreHandler = handler.New()
		s.PreHandler.Synchronous = true
	}
	s.PreHandler.AddHandler(b.onReady)

	s.AddHandler(b.onMessage)
	s.AddHandler(b.onInteraction)

	return b
}

// Me returns the bot's own user, filled in after Ready. It returns a zero
// user before the gateway has connected.
func (b *Bot) Me() discord.User {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	return b.me
}

// Start opens the Session without blocking.
func (b *Bot) Start() error {
	return b.Session.Open()
}

// Close closes the Session.
func (b *Bot) Close() error {
	return b.Session.Close()
}

// Run opens the Session and blocks until the context is canceled or the
// gateway exits fatally. A rejected token surfaces as
// gateway.ErrBadAuthentication. On context cancellation, the Session is
// closed and the close error, if any, is returned.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.Start(); err != nil {
		return err
	}

	wait := make(chan error, 1)
	go func() { wait <- b.Session.Wait() }()

	select {
	case err := <-wait:
		// The gateway exited fatally; the session's handler loop is still
		// running and must be torn down. The close error is moot next to
		// the fatal one.
		b.Close()
		return err
	case <-ctx.Done():
		return b.Close()
	}
}

// onReady runs in the Session's synchronous pre-handler, so the identity is
// applied before any other handler sees an event dispatched after Ready.
func (b *Bot) onReady(ev *gateway.ReadyEvent) {
	b.mutex.Lock()
	b.me = ev.User
	b.appID = ev.Application.ID
	b.mutex.Unlock()

	if b.SyncCommands {
		// Command syncing is REST round trips; keep it off the event loop.
		go func() {
			if err := b.syncCommands(); err != nil {
				b.ErrorLog(errors.Wrap(err, "failed to sync slash commands"))
			}
		}()
	}
}
