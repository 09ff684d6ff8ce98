package bot

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/nixenne/accord/discord"
	"github.com/nixenne/accord/gateway"
)

// DuplicateCommandError is returned when a command is registered under a name
// that is already taken.
type DuplicateCommandError struct {
	Name string
}

// Error formats the duplicate command error with the offending name.
func (err *DuplicateCommandError) Error() string {
	return "command " + err.Name + " is already registered"
}

// Command is a registered prefix command.
type Command struct {
	// Name is the word matched after the prefix.
	Name string
	// Handler is called for every matched invocation, each in its own
	// goroutine. Returned errors go to the Bot's ErrorLog.
	Handler func(*Context) error
}

// Context is the invocation context of a single prefix command. It carries
// the triggering message and the parsed arguments.
type Context struct {
	*gateway.MessageCreateEvent
	Bot *Bot

	// Args are the whitespace-split arguments after the command name.
	Args []string
}

// Send sends a plain text message to the channel the command was invoked in.
func (ctx *Context) Send(content string) (*discord.Message, error) {
	return ctx.Bot.API.SendText(ctx.ChannelID, content)
}

// AddCommand registers a prefix command under the given name. It returns a
// *DuplicateCommandError if the name is taken.
func (b *Bot) AddCommand(name string, fn func(*Context) error) error {
	if name == "" {
		return errors.New("command name is empty")
	}
	if fn == nil {
		return errors.New("command " + name + " has no handler")
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	if _, ok := b.commands[name]; ok {
		return &DuplicateCommandError{Name: name}
	}

	b.commands[name] = &Command{
		Name:    name,
		Handler: fn,
	}

	return nil
}

// MustAddCommand is AddCommand but panics on error. It is meant for
// registration at program init.
func (b *Bot) MustAddCommand(name string, fn func(*Context) error) {
	if err := b.AddCommand(name, fn); err != nil {
		panic(err)
	}
}

func (b *Bot) onMessage(m *gateway.MessageCreateEvent) {
	if b.IgnoreSelf && m.Author.ID == b.Me().ID {
		return
	}

	if b.Prefix == "" || !strings.HasPrefix(m.Content, b.Prefix) {
		return
	}

	fields := strings.Fields(strings.TrimPrefix(m.Content, b.Prefix))
	if len(fields) == 0 {
		return
	}

	b.mutex.RLock()
	cmd, ok := b.commands[fields[0]]
	b.mutex.RUnlock()

	if !ok {
		// Not a registered command; stay quiet.
		return
	}

	ctx := &Context{
		MessageCreateEvent: m,
		Bot:                b,
		Args:               fields[1:],
	}

	if err := cmd.Handler(ctx); err != nil {
		b.ErrorLog(errors.Wrapf(err, "command %q failed", cmd.Name))
	}
}
