package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/nixenne/accord/utils/wsutil"
)

// fakeConn is a scripted Connection. It replies to Identify with the frames
// given in onIdentify, and to heartbeats with a HeartbeatAck.
type fakeConn struct {
	mutex  sync.Mutex
	events chan wsutil.Event
	closed bool

	// onIdentify frames are sent in order after an Identify is received. A
	// frame with a non-nil error is sent as a connection error, after which
	// the connection closes itself.
	onIdentify []wsutil.Event

	// sent accumulates every payload the gateway writes.
	sent [][]byte
}

var _ wsutil.Connection = (*fakeConn)(nil)

func (c *fakeConn) Dial(ctx context.Context, addr string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.events = make(chan wsutil.Event, wsutil.WSBuffer)
	c.closed = false

	// Greet with a Hello; a long heartrate keeps the pacemaker quiet.
	c.events <- jsonEvent(`{"op":10,"d":{"heartbeat_interval":120000}}`)

	return nil
}

func (c *fakeConn) Listen() <-chan wsutil.Event {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.events
}

func (c *fakeConn) Send(ctx context.Context, b []byte) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.closed {
		return errors.New("send on closed fake connection")
	}

	c.sent = append(c.sent, b)

	var op struct {
		Code wsutil.OPCode `json:"op"`
	}
	if err := json.Unmarshal(b, &op); err != nil {
		return err
	}

	switch op.Code {
	case IdentifyOP:
		for _, ev := range c.onIdentify {
			c.events <- ev

			if ev.Error != nil {
				c.closeEvents()
				return nil
			}
		}
	case HeartbeatOP:
		c.events <- jsonEvent(`{"op":11}`)
	}

	return nil
}

func (c *fakeConn) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.closeEvents()
	return nil
}

func (c *fakeConn) closeEvents() {
	if !c.closed {
		c.closed = true
		close(c.events)
	}
}

func jsonEvent(data string) wsutil.Event {
	return wsutil.Event{Data: []byte(data)}
}

func newFakeGateway(conn *fakeConn) *Gateway {
	g := NewCustomGateway("ws://gateway.test", "Bot 123")
	g.WS = wsutil.NewCustom(conn, "ws://gateway.test")
	return g
}

func TestGatewayOpen(t *testing.T) {
	conn := &fakeConn{
		onIdentify: []wsutil.Event{
			jsonEvent(`{
				"op": 0, "s": 1, "t": "READY",
				"d": {
					"v": 9,
					"session_id": "abcdef",
					"user": {"id": "1234", "username": "accord", "bot": true}
				}
			}`),
			jsonEvent(`{
				"op": 0, "s": 2, "t": "MESSAGE_CREATE",
				"d": {
					"id": "4567",
					"channel_id": "8910",
					"author": {"id": "4321", "username": "someone"},
					"content": "hleo"
				}
			}`),
		},
	}

	g := newFakeGateway(conn)

	if err := g.Open(); err != nil {
		t.Fatal("failed to open:", err)
	}

	// Ready is dispatched before anything else, and its session ID is
	// recorded for resuming.
	ev := recvEvent(t, g)

	ready, ok := ev.(*ReadyEvent)
	if !ok {
		t.Fatalf("expected *ReadyEvent first, got %T", ev)
	}
	if ready.SessionID != "abcdef" {
		t.Fatal("unexpected session ID:", ready.SessionID)
	}
	if g.SessionID != "abcdef" {
		t.Fatal("gateway did not record session ID:", g.SessionID)
	}
	if ready.User.Username != "accord" {
		t.Fatal("unexpected user in Ready:", ready.User.Username)
	}

	ev = recvEvent(t, g)

	msg, ok := ev.(*MessageCreateEvent)
	if !ok {
		t.Fatalf("expected *MessageCreateEvent after Ready, got %T", ev)
	}
	if msg.Content != "hleo" {
		t.Fatal("unexpected message content:", msg.Content)
	}

	if g.Sequence.Get() != 2 {
		t.Fatal("unexpected sequence:", g.Sequence.Get())
	}

	if err := g.Close(); err != nil {
		t.Fatal("failed to close:", err)
	}
}

func TestGatewayBadAuthentication(t *testing.T) {
	conn := &fakeConn{
		onIdentify: []wsutil.Event{
			{Error: &websocket.CloseError{
				Code: CloseCodeInvalidToken,
				Text: "Authentication failed.",
			}},
		},
	}

	g := newFakeGateway(conn)
	g.ErrorLog = func(err error) { t.Log("gateway error:", err) }

	err := g.Open()
	if err == nil {
		t.Fatal("expected an authentication error, got none")
	}
	if !errors.Is(err, ErrBadAuthentication) {
		t.Fatal("expected ErrBadAuthentication, got:", err)
	}
}

func TestGatewayUnknownEvent(t *testing.T) {
	g := NewCustomGateway("ws://gateway.test", "Bot 123")

	err := g.HandleOP(&wsutil.OP{
		Code:      DispatchOP,
		EventName: "DANCE_UPDATE",
	})
	if !wsutil.IsUnknownEvent(err) {
		t.Fatal("expected an unknown event error, got:", err)
	}
}

func recvEvent(t *testing.T, g *Gateway) Event {
	t.Helper()

	select {
	case ev := <-g.Events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a gateway event")
		return nil
	}
}
