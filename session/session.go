// Package session abstracts around the REST API and the Gateway, managing
// both at once. It offers a handler interface similar to that in discordgo
// for Gateway events.
package session

import (
	"github.com/pkg/errors"

	"github.com/nixenne/accord/api"
	"github.com/nixenne/accord/gateway"
	"github.com/nixenne/accord/handler"
)

// Closed is an event that's sent to Session's command handler. This works by
// using (*Gateway).AfterClose. If the user sets this callback, no Closed
// events would be sent.
//
// Usage
//
//    ses.AddHandler(func(*session.Closed) {})
//
type Closed struct {
	Error error
}

// Session manages both the API and Gateway. As such, Session inherits all of
// API's methods, as well has the Handler used for Gateway.
type Session struct {
	*api.Client
	Gateway *gateway.Gateway

	// Command handler with inherited methods.
	*handler.Handler

	// PreHandler is an optional handler that the event loop calls before the
	// event is fanned out to Handler. It should have Synchronous set, so that
	// state that later handlers depend on, such as the bot's own identity
	// from Ready, is applied before any of them run. Handlers added here must
	// be fast: they block every later dispatch. It must be set before Open.
	PreHandler *handler.Handler

	hstop chan struct{}
	done  chan struct{}
	fatal chan error
}

// New creates a new session from a bot token. The token must be prefixed with
// "Bot ".
func New(token string) (*Session, error) {
	// Create a gateway
	g, err := gateway.NewGateway(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to Gateway")
	}

	return NewWithGateway(g), nil
}

// NewWithIntents is New with the given intents added into the gateway's
// Identify payload.
func NewWithIntents(token string, intents ...gateway.Intents) (*Session, error) {
	g, err := gateway.NewGatewayWithIntents(token, intents...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to Gateway")
	}

	return NewWithGateway(g), nil
}

// NewWithGateway constructs a Session from an existing Gateway. The Gateway
// must not be open yet.
func NewWithGateway(gw *gateway.Gateway) *Session {
	return &Session{
		Gateway: gw,
		// Nab off gateway's token
		Client:  api.NewClient(gw.Identifier.Token),
		Handler: handler.New(),
	}
}

// Open starts the handler loop, then opens the Gateway connection. It returns
// an error if the Gateway cannot authenticate, including
// gateway.ErrBadAuthentication if the token was rejected.
func (s *Session) Open() error {
	// Start the handler beforehand so no events are missed.
	stop := make(chan struct{})
	s.hstop = stop
	s.done = make(chan struct{})
	s.fatal = make(chan error, 1)
	go s.startHandler(stop)

	// Set the AfterClose's handler.
	s.Gateway.AfterClose = func(err error) {
		s.Handler.Call(&Closed{
			Error: err,
		})
	}

	// Relay fatal gateway errors to Wait.
	s.Gateway.FatalErrorCallback = func(err error) {
		select {
		case s.fatal <- err:
		default:
		}
	}

	if err := s.Gateway.Open(); err != nil {
		return errors.Wrap(err, "failed to start gateway")
	}

	return nil
}

// Wait blocks until the Session is closed with Close, or until the Gateway
// exits fatally, in which case the fatal error is returned. It must be
// called after a successful Open.
func (s *Session) Wait() error {
	done := s.done
	if done == nil {
		// Already closed.
		return nil
	}

	select {
	case err := <-s.fatal:
		return err
	case <-done:
		return nil
	}
}

func (s *Session) startHandler(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case ev := <-s.Gateway.Events:
			if s.PreHandler != nil {
				s.PreHandler.Call(ev)
			}
			s.Call(ev)
		}
	}
}

// Close stops the event handler and closes the Gateway.
func (s *Session) Close() error {
	// Stop the event handler
	s.close()

	// Close the websocket
	return s.Gateway.Close()
}

func (s *Session) close() {
	if s.hstop != nil {
		close(s.hstop)
		s.hstop = nil
	}
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
}
