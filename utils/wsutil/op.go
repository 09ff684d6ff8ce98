package wsutil

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/nixenne/accord/utils/json"
)

var ErrEmptyPayload = errors.New("empty payload")

// OPCode is a generic type for websocket OP codes.
type OPCode uint8

type OP struct {
	Code OPCode   `json:"op"`
	Data json.Raw `json:"d,omitempty"`

	// Only for Gateway Dispatch (op 0)
	Sequence  int64  `json:"s,omitempty"`
	EventName string `json:"t,omitempty"`
}

func (op *OP) UnmarshalData(v interface{}) error {
	return json.Unmarshal(op.Data, v)
}

func DecodeOP(ev Event) (*OP, error) {
	if ev.Error != nil {
		return nil, ev.Error
	}

	if len(ev.Data) == 0 {
		return nil, ErrEmptyPayload
	}

	var op *OP
	if err := json.Unmarshal(ev.Data, &op); err != nil {
		return nil, errors.Wrap(err, "OP error: "+string(ev.Data))
	}

	return op, nil
}

func AssertEvent(ev Event, code OPCode, v interface{}) (*OP, error) {
	op, err := DecodeOP(ev)
	if err != nil {
		return nil, err
	}

	if op.Code != code {
		return op, fmt.Errorf(
			"unexpected OP Code: %d, expected %d (%s)",
			op.Code, code, op.Data,
		)
	}

	if err := json.Unmarshal(op.Data, v); err != nil {
		return op, errors.Wrap(err, "failed to decode data")
	}

	return op, nil
}

// UnknownEventError is returned by HandleOP if an event is encountered that
// is not known. Internally, unknown events are logged and ignored. It is not
// a fatal error.
type UnknownEventError struct {
	Name string
	Data json.Raw
}

// Error formats the unknown event error with the event name and payload.
func (err UnknownEventError) Error() string {
	return fmt.Sprintf("unknown event %s: %s", err.Name, string(err.Data))
}

// IsUnknownEvent returns true if the error is an unknown event error.
func IsUnknownEvent(err error) bool {
	var uevent UnknownEventError
	return errors.As(err, &uevent)
}

type EventHandler interface {
	HandleOP(op *OP) error
}

func HandleEvent(h EventHandler, ev Event) error {
	o, err := DecodeOP(ev)
	if err != nil {
		return err
	}

	return h.HandleOP(o)
}

// WaitForEvent blocks until fn() returns true. All incoming events are
// handled regardless.
func WaitForEvent(ctx context.Context, h EventHandler, ch <-chan Event, fn func(*OP) bool) error {
	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return errors.New("event not found and event channel is closed")
			}

			o, err := DecodeOP(e)
			if err != nil {
				return err
			}

			// Handle the *OP first, in case it's an Invalid Session. This
			// should also prevent a race condition with things that need
			// Ready after Open().
			if err := h.HandleOP(o); err != nil {
				// Explicitly ignore events we don't know.
				if IsUnknownEvent(err) {
					WSError(err)
					continue
				}
				return err
			}

			// Are these events what we're looking for? If we've found the
			// event, return.
			if fn(o) {
				return nil
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
