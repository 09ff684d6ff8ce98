package bot

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nixenne/accord/api"
	"github.com/nixenne/accord/discord"
	"github.com/nixenne/accord/gateway"
	"github.com/nixenne/accord/handler"
	"github.com/nixenne/accord/session"
	"github.com/nixenne/accord/utils/wsutil"
)

// recordingAPI is an API stub that records every call.
type recordingAPI struct {
	mutex sync.Mutex

	sent      []sentMessage
	responses []sentResponse

	global []discord.Command
	guilds map[discord.GuildID][]discord.Command
}

type sentMessage struct {
	ChannelID discord.ChannelID
	Content   string
}

type sentResponse struct {
	ID    discord.InteractionID
	Token string
	Resp  api.InteractionResponse
}

func (r *recordingAPI) SendText(
	channelID discord.ChannelID, content string) (*discord.Message, error) {

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.sent = append(r.sent, sentMessage{channelID, content})
	return &discord.Message{ChannelID: channelID, Content: content}, nil
}

func (r *recordingAPI) RespondInteraction(
	id discord.InteractionID, token string, resp api.InteractionResponse) error {

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.responses = append(r.responses, sentResponse{id, token, resp})
	return nil
}

func (r *recordingAPI) BulkOverwriteCommands(
	appID discord.AppID, cmds []discord.Command) ([]discord.Command, error) {

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.global = cmds
	return cmds, nil
}

func (r *recordingAPI) BulkOverwriteGuildCommands(
	appID discord.AppID,
	guildID discord.GuildID, cmds []discord.Command) ([]discord.Command, error) {

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.guilds == nil {
		r.guilds = map[discord.GuildID][]discord.Command{}
	}
	r.guilds[guildID] = cmds
	return cmds, nil
}

// sentMessages snapshots the recorded sends for tests where handlers run in
// their own goroutines.
func (r *recordingAPI) sentMessages() []sentMessage {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return append([]sentMessage(nil), r.sent...)
}

func newTestBot(t *testing.T) (*Bot, *recordingAPI, *[]error) {
	t.Helper()

	g := gateway.NewCustomGateway("ws://gateway.test", "Bot 123")
	s := session.NewWithGateway(g)

	rec := &recordingAPI{}
	errs := new([]error)

	b := NewFromSession(s)
	b.API = rec
	b.ErrorLog = func(err error) { *errs = append(*errs, err) }

	// The bot never connects in tests; pretend Ready already happened.
	b.me = discord.User{ID: 1111, Username: "accord", Bot: true}
	b.appID = 2222

	return b, rec, errs
}

func newMessage(author discord.UserID, content string) *gateway.MessageCreateEvent {
	return &gateway.MessageCreateEvent{
		Message: discord.Message{
			ID:        777,
			ChannelID: 888,
			Author:    discord.User{ID: author, Username: "someone"},
			Content:   content,
		},
	}
}

func newCommandInteraction(name string, guildID discord.GuildID) *gateway.InteractionCreateEvent {
	return &gateway.InteractionCreateEvent{
		InteractionEvent: discord.InteractionEvent{
			ID:      3333,
			Token:   "itoken",
			GuildID: guildID,
			Data:    &discord.CommandInteraction{ID: 4444, Name: name},
		},
	}
}

func TestAddCommand(t *testing.T) {
	b, _, _ := newTestBot(t)

	require.NoError(t, b.AddCommand("ping", func(*Context) error { return nil }))

	err := b.AddCommand("ping", func(*Context) error { return nil })
	require.Error(t, err)

	var dupErr *DuplicateCommandError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "ping", dupErr.Name)
}

func TestPrefixDispatch(t *testing.T) {
	b, rec, errs := newTestBot(t)

	require.NoError(t, b.AddCommand("ping", func(ctx *Context) error {
		_, err := ctx.Send("pong")
		return err
	}))

	b.onMessage(newMessage(5555, "!ping"))

	require.Len(t, rec.sent, 1)
	assert.Equal(t, discord.ChannelID(888), rec.sent[0].ChannelID)
	assert.Equal(t, "pong", rec.sent[0].Content)
	assert.Empty(t, *errs)
}

func TestPrefixDispatchArgs(t *testing.T) {
	b, rec, _ := newTestBot(t)

	require.NoError(t, b.AddCommand("echo", func(ctx *Context) error {
		_, err := ctx.Send(ctx.Args[0])
		return err
	}))

	b.onMessage(newMessage(5555, "!echo   repeated   words"))

	require.Len(t, rec.sent, 1)
	assert.Equal(t, "repeated", rec.sent[0].Content)
}

func TestPrefixIgnoreSelf(t *testing.T) {
	b, rec, _ := newTestBot(t)

	require.NoError(t, b.AddCommand("ping", func(ctx *Context) error {
		_, err := ctx.Send("pong")
		return err
	}))

	// The bot's own messages must never trigger commands, or a command that
	// replies with its own trigger would loop forever.
	b.onMessage(newMessage(b.Me().ID, "!ping"))

	assert.Empty(t, rec.sent)
}

func TestPrefixUnknownCommand(t *testing.T) {
	b, rec, errs := newTestBot(t)

	require.NoError(t, b.AddCommand("ping", func(ctx *Context) error {
		_, err := ctx.Send("pong")
		return err
	}))

	b.onMessage(newMessage(5555, "!pong"))
	b.onMessage(newMessage(5555, "ping without prefix"))

	assert.Empty(t, rec.sent)
	assert.Empty(t, *errs)
}

func TestPrefixCommandError(t *testing.T) {
	b, _, errs := newTestBot(t)

	require.NoError(t, b.AddCommand("boom", func(ctx *Context) error {
		return errors.New("exploded")
	}))

	b.onMessage(newMessage(5555, "!boom"))

	require.Len(t, *errs, 1)
	assert.Contains(t, (*errs)[0].Error(), "exploded")
}

func TestAddSlashCommand(t *testing.T) {
	b, _, _ := newTestBot(t)

	require.NoError(t, b.AddSlashCommand(SlashCommand{
		Name:        "greet",
		Description: "sends a greeting",
		Handler:     func(ctx *InteractionContext) error { return ctx.Respond("hi") },
	}))

	err := b.AddSlashCommand(SlashCommand{
		Name:        "greet",
		Description: "sends a greeting, again",
		Handler:     func(ctx *InteractionContext) error { return ctx.Respond("hi") },
	})

	var dupErr *DuplicateCommandError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "greet", dupErr.Name)
}

func TestSlashDispatch(t *testing.T) {
	b, rec, errs := newTestBot(t)

	b.MustAddSlashCommand(SlashCommand{
		Name:        "greet",
		Description: "sends a greeting",
		Handler: func(ctx *InteractionContext) error {
			return ctx.Respond("hello!")
		},
	})

	b.onInteraction(newCommandInteraction("greet", 0))

	require.Len(t, rec.responses, 1)
	assert.Equal(t, discord.InteractionID(3333), rec.responses[0].ID)
	assert.Equal(t, "itoken", rec.responses[0].Token)
	assert.Equal(t, api.MessageInteractionWithSource, rec.responses[0].Resp.Type)
	assert.Equal(t, "hello!", rec.responses[0].Resp.Data.Content)
	assert.Empty(t, *errs)
}

func TestSlashRespondOnce(t *testing.T) {
	b, rec, _ := newTestBot(t)

	b.MustAddSlashCommand(SlashCommand{
		Name:        "greet",
		Description: "sends a greeting",
		Handler: func(ctx *InteractionContext) error {
			require.NoError(t, ctx.Respond("hello!"))

			err := ctx.Respond("hello again!")
			require.ErrorIs(t, err, ErrAlreadyResponded)
			return nil
		},
	})

	b.onInteraction(newCommandInteraction("greet", 0))

	// The second response must never reach the API.
	require.Len(t, rec.responses, 1)
}

func TestSlashNeverResponded(t *testing.T) {
	b, rec, errs := newTestBot(t)

	b.MustAddSlashCommand(SlashCommand{
		Name:        "mute",
		Description: "never responds",
		Handler:     func(ctx *InteractionContext) error { return nil },
	})

	b.onInteraction(newCommandInteraction("mute", 0))

	assert.Empty(t, rec.responses)
	require.Len(t, *errs, 1)
	assert.Contains(t, (*errs)[0].Error(), "never responded")
}

func TestSlashTestGuilds(t *testing.T) {
	b, rec, _ := newTestBot(t)

	b.MustAddSlashCommand(SlashCommand{
		Name:        "debug",
		Description: "test-guild only",
		TestGuilds:  []discord.GuildID{1234},
		Handler: func(ctx *InteractionContext) error {
			return ctx.Respond("debugging")
		},
	})

	// Wrong guild: no dispatch.
	b.onInteraction(newCommandInteraction("debug", 9999))
	assert.Empty(t, rec.responses)

	// Right guild: dispatch.
	b.onInteraction(newCommandInteraction("debug", 1234))
	assert.Len(t, rec.responses, 1)
}

func TestSyncCommands(t *testing.T) {
	b, rec, _ := newTestBot(t)

	b.MustAddSlashCommand(SlashCommand{
		Name:        "greet",
		Description: "global",
		Handler:     func(ctx *InteractionContext) error { return ctx.Respond("hi") },
	})
	b.MustAddSlashCommand(SlashCommand{
		Name:        "debug",
		Description: "scoped",
		TestGuilds:  []discord.GuildID{1234, 5678},
		Handler:     func(ctx *InteractionContext) error { return ctx.Respond("dbg") },
	})

	require.NoError(t, b.syncCommands())

	require.Len(t, rec.global, 1)
	assert.Equal(t, "greet", rec.global[0].Name)

	require.Len(t, rec.guilds, 2)
	require.Len(t, rec.guilds[1234], 1)
	assert.Equal(t, "debug", rec.guilds[1234][0].Name)
	require.Len(t, rec.guilds[5678], 1)
	assert.Equal(t, "debug", rec.guilds[5678][0].Name)
}

// scriptedConn fakes a Gateway connection. It greets with Hello on dial and
// replies to an Identify with the given dispatch frames.
type scriptedConn struct {
	mutex      sync.Mutex
	events     chan wsutil.Event
	closed     bool
	onIdentify []string
}

var _ wsutil.Connection = (*scriptedConn)(nil)

func (c *scriptedConn) Dial(ctx context.Context, addr string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.events = make(chan wsutil.Event, wsutil.WSBuffer)
	c.closed = false
	c.events <- wsutil.Event{Data: []byte(`{"op":10,"d":{"heartbeat_interval":120000}}`)}

	return nil
}

func (c *scriptedConn) Listen() <-chan wsutil.Event {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.events
}

func (c *scriptedConn) Send(ctx context.Context, b []byte) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var op struct {
		Code wsutil.OPCode `json:"op"`
	}
	if err := json.Unmarshal(b, &op); err != nil {
		return err
	}

	switch op.Code {
	case gateway.IdentifyOP:
		for _, frame := range c.onIdentify {
			c.events <- wsutil.Event{Data: []byte(frame)}
		}
	case gateway.HeartbeatOP:
		c.events <- wsutil.Event{Data: []byte(`{"op":11}`)}
	}

	return nil
}

func (c *scriptedConn) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.closed {
		c.closed = true
		close(c.events)
	}

	return nil
}

// newLiveBot builds a Bot over a scripted connection that actually connects
// and dispatches through the Session's event loop, with the default
// asynchronous handler.
func newLiveBot(t *testing.T, conn *scriptedConn) (*Bot, *recordingAPI) {
	t.Helper()

	g := gateway.NewCustomGateway("ws://gateway.test", "Bot 123")
	g.WS = wsutil.NewCustom(conn, "ws://gateway.test")

	rec := &recordingAPI{}

	b := NewFromSession(session.NewWithGateway(g))
	b.API = rec
	b.SyncCommands = false
	b.ErrorLog = func(err error) { t.Log("bot error:", err) }

	return b, rec
}

const readyFrame = `{
	"op": 0, "s": 1, "t": "READY",
	"d": {
		"v": 9,
		"session_id": "abcdef",
		"user": {"id": "1111", "username": "accord", "bot": true}
	}
}`

// TestRunSelfMessageAfterReady guarantees that a self-authored message right
// behind Ready is still suppressed: the identity from Ready must be applied
// before the message reaches the dispatcher, even though handlers run in
// their own goroutines by default.
func TestRunSelfMessageAfterReady(t *testing.T) {
	conn := &scriptedConn{
		onIdentify: []string{
			readyFrame,
			`{
				"op": 0, "s": 2, "t": "MESSAGE_CREATE",
				"d": {
					"id": "1",
					"channel_id": "888",
					"author": {"id": "1111", "username": "accord", "bot": true},
					"content": "!ping"
				}
			}`,
			`{
				"op": 0, "s": 3, "t": "MESSAGE_CREATE",
				"d": {
					"id": "2",
					"channel_id": "888",
					"author": {"id": "5555", "username": "someone"},
					"content": "!ping"
				}
			}`,
		},
	}

	b, rec := newLiveBot(t, conn)

	require.NoError(t, b.AddCommand("ping", func(ctx *Context) error {
		_, err := ctx.Send("pong for " + ctx.Author.ID.String())
		return err
	}))

	require.NoError(t, b.Start())
	defer b.Close()

	// The stranger's ping gets its pong.
	require.Eventually(t, func() bool {
		return len(rec.sentMessages()) >= 1
	}, 5*time.Second, 5*time.Millisecond)

	// Give a reply to the self message every chance to show up late.
	time.Sleep(150 * time.Millisecond)

	sent := rec.sentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "pong for 5555", sent[0].Content)
}

// TestRunFatalTeardown guarantees that Run tears the Session down when the
// gateway exits fatally, instead of leaving the handler loop running.
func TestRunFatalTeardown(t *testing.T) {
	conn := &scriptedConn{onIdentify: []string{readyFrame}}

	b, _ := newLiveBot(t, conn)

	runErr := make(chan error, 1)
	go func() { runErr <- b.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		return b.Me().ID == 1111
	}, 5*time.Second, 5*time.Millisecond)

	boom := errors.New("gateway died")
	b.Session.Gateway.FatalErrorCallback(boom)

	select {
	case err := <-runErr:
		require.ErrorIs(t, err, boom)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after a fatal gateway error")
	}

	// The session must be closed: Wait returns immediately instead of
	// blocking on a loop that nobody will stop.
	waitErr := make(chan error, 1)
	go func() { waitErr <- b.Session.Wait() }()

	select {
	case err := <-waitErr:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Session.Wait still blocks after Run returned")
	}
}

// TestBotSessionDispatch runs a message through the full Session handler
// rather than calling the dispatcher directly.
func TestBotSessionDispatch(t *testing.T) {
	b, rec, _ := newTestBot(t)
	b.Session.Handler = handler.New()
	b.Session.Handler.Synchronous = true
	b.Session.AddHandler(b.onMessage)

	b.Session.Handler.Call(newMessage(5555, "!ping"))

	assert.Empty(t, rec.sent) // ping was never registered

	require.NoError(t, b.AddCommand("ping", func(ctx *Context) error {
		_, err := ctx.Send("pong")
		return err
	}))

	b.Session.Handler.Call(newMessage(5555, "!ping"))

	require.Len(t, rec.sent, 1)
	assert.Equal(t, "pong", rec.sent[0].Content)
}
