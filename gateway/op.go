package gateway

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/nixenne/accord/utils/json"
	"github.com/nixenne/accord/utils/wsutil"
)

type OPCode = wsutil.OPCode

const (
	DispatchOP            OPCode = 0 // recv
	HeartbeatOP           OPCode = 1 // send/recv
	IdentifyOP            OPCode = 2 // send...
	StatusUpdateOP        OPCode = 3 //
	VoiceStateUpdateOP    OPCode = 4 //
	VoiceServerPingOP     OPCode = 5 //
	ResumeOP              OPCode = 6 //
	ReconnectOP           OPCode = 7 // recv
	RequestGuildMembersOP OPCode = 8 // send
	InvalidSessionOP      OPCode = 9 // recv...
	HelloOP               OPCode = 10
	HeartbeatAckOP        OPCode = 11
)

// HandleOP handles a single OP payload from the Websocket. It implements
// wsutil.EventHandler for the pacemaker loop.
func (g *Gateway) HandleOP(op *wsutil.OP) error {
	switch op.Code {
	case HeartbeatAckOP:
		// Heartbeat from the server?
		g.PacerLoop.Echo()

	case HeartbeatOP:
		// Server requesting a heartbeat.
		ctx, cancel := context.WithTimeout(context.Background(), g.WSTimeout)
		defer cancel()

		return g.PacerLoop.Pace(ctx)

	case ReconnectOP:
		// Server requests to reconnect, die and retry.
		wsutil.WSDebug("ReconnectOP received.")

		// We must reconnect in another goroutine, as running Reconnect
		// synchronously would prevent the main event loop from exiting.
		go g.Reconnect()

		// Gracefully exit with a nil; let the event handler take the signal
		// from the pacemaker.
		return nil

	case InvalidSessionOP:
		// Invalid session, try and Identify.
		isResumable := false
		if err := op.UnmarshalData(&isResumable); err != nil {
			g.ErrorLog(errors.Wrap(err, "failed to unmarshal INVALID_SESSION"))
		}

		if !isResumable {
			// Discord expects us to sleep for no reason
			time.Sleep(time.Duration(rand.Intn(5)+1) * time.Second)

			// Invalid session, respond with Identify.
			ctx, cancel := context.WithTimeout(context.Background(), g.WSTimeout)
			defer cancel()

			return g.IdentifyCtx(ctx)
		}

		// Resume the session.
		ctx, cancel := context.WithTimeout(context.Background(), g.WSTimeout)
		defer cancel()

		return g.ResumeCtx(ctx)

	case HelloOP:
		// What is this OP doing here???
		return nil

	case DispatchOP:
		// Set the sequence
		if op.Sequence > 0 {
			g.Sequence.Set(op.Sequence)
		}

		// Check if we know the event
		fn, ok := EventCreator[op.EventName]
		if !ok {
			return wsutil.UnknownEventError{
				Name: op.EventName,
				Data: op.Data,
			}
		}

		// Make a new pointer to the event
		var ev = fn()

		// Try and parse the event
		if err := json.Unmarshal(op.Data, ev); err != nil {
			return errors.Wrap(err, "failed to parse event "+op.EventName)
		}

		// If the event is a Ready, we'll want its session ID.
		if ev, ok := ev.(*ReadyEvent); ok {
			g.SessionID = ev.SessionID
		}

		// Throw the event into a channel; it's valid now.
		g.Events <- ev
		return nil

	default:
		return errors.Errorf(
			"unknown OP code %d (event %s)", op.Code, op.EventName)
	}

	return nil
}
