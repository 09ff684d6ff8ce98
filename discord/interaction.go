package discord

import (
	"github.com/pkg/errors"

	"github.com/nixenne/accord/utils/json"
)

// InteractionEvent describes the full incoming interaction event.
//
// https://discord.com/developers/docs/topics/gateway#interactions
type InteractionEvent struct {
	ID        InteractionID   `json:"id"`
	Data      InteractionData `json:"data"`
	AppID     AppID           `json:"application_id"`
	ChannelID ChannelID       `json:"channel_id,omitempty"`
	Token     string          `json:"token"`
	Version   int             `json:"version"`

	// Message is the message the component was attached to. Only present for
	// component interactions, not command interactions.
	Message *Message `json:"message,omitempty"`

	// Member is only present if this came from a guild. To get a user, use
	// the Sender method.
	Member  *Member `json:"member,omitempty"`
	GuildID GuildID `json:"guild_id,omitempty"`

	// User is only present if this didn't come from a guild. To get a user,
	// use the Sender method.
	User *User `json:"user,omitempty"`
}

// Sender returns the sender of this event from either the Member field or the
// User field. If neither of those fields are available, then nil is returned.
func (e *InteractionEvent) Sender() *User {
	if e.User != nil {
		return e.User
	}
	if e.Member != nil {
		return &e.Member.User
	}
	return nil
}

// SenderID returns the sender's ID. See Sender for more information. If
// Sender returns nil, then 0 is returned.
func (e *InteractionEvent) SenderID() UserID {
	if sender := e.Sender(); sender != nil {
		return sender.ID
	}
	return 0
}

func (e *InteractionEvent) UnmarshalJSON(b []byte) error {
	type event InteractionEvent

	target := struct {
		Type InteractionDataType `json:"type"`
		Data json.Raw            `json:"data"`
		*event
	}{
		event: (*event)(e),
	}

	if err := json.Unmarshal(b, &target); err != nil {
		return err
	}

	switch target.Type {
	case PingInteractionType:
		// Ping isn't actually an object.
		e.Data = &PingInteraction{}
		return nil
	case CommandInteractionType:
		e.Data = &CommandInteraction{}
	case ComponentInteractionType:
		e.Data = &ComponentInteraction{}
	default:
		e.Data = &UnknownInteractionData{
			Raw: append(json.Raw(nil), target.Data...),
			typ: target.Type,
		}
		return nil
	}

	if err := json.Unmarshal(target.Data, e.Data); err != nil {
		return errors.Wrap(err, "failed to unmarshal interaction event data")
	}

	return nil
}

func (e *InteractionEvent) MarshalJSON() ([]byte, error) {
	type event InteractionEvent

	if e.Data == nil {
		return nil, errors.New("missing InteractionEvent.Data")
	}
	if e.Data.InteractionType() == 0 {
		return nil, errors.New("unexpected InteractionType 0")
	}

	v := struct {
		Type InteractionDataType `json:"type"`
		*event
	}{
		Type:  e.Data.InteractionType(),
		event: (*event)(e),
	}

	return json.Marshal(v)
}

type InteractionDataType uint

const (
	PingInteractionType InteractionDataType = iota + 1
	CommandInteractionType
	ComponentInteractionType
)

// InteractionData holds the respose data of an interaction. Type assertions
// should be made on it to access the underlying data.
type InteractionData interface {
	InteractionType() InteractionDataType
	data()
}

// PingInteraction is a ping Interaction data.
type PingInteraction struct{}

// InteractionType implements InteractionData.
func (*PingInteraction) InteractionType() InteractionDataType { return PingInteractionType }
func (*PingInteraction) data()                                {}

// CommandInteraction is a command interaction that Discord sends to us.
type CommandInteraction struct {
	ID      CommandID                  `json:"id"`
	Name    string                     `json:"name"`
	Options []CommandInteractionOption `json:"options"`
}

// InteractionType implements InteractionData.
func (*CommandInteraction) InteractionType() InteractionDataType { return CommandInteractionType }
func (*CommandInteraction) data()                                {}

// CommandInteractionOption is an option for a command interaction.
type CommandInteractionOption struct {
	Type    CommandOptionType          `json:"type"`
	Name    string                     `json:"name"`
	Value   json.Raw                   `json:"value,omitempty"`
	Options []CommandInteractionOption `json:"options,omitempty"`
}

// String returns the option's value as a string, or the raw JSON if the value
// is not a string.
func (o CommandInteractionOption) String() string {
	var value string
	if err := json.Unmarshal(o.Value, &value); err != nil {
		return string(o.Value)
	}
	return value
}

// ComponentInteraction is a component interaction, such as a button press.
type ComponentInteraction struct {
	CustomID string `json:"custom_id"`
	// ComponentType is the type of the component interacted with.
	ComponentType uint `json:"component_type"`
	// Values is the selected values, if the component is a select menu.
	Values []string `json:"values,omitempty"`
}

// InteractionType implements InteractionData.
func (*ComponentInteraction) InteractionType() InteractionDataType { return ComponentInteractionType }
func (*ComponentInteraction) data()                                {}

// UnknownInteractionData describes an Interaction response with an unknown
// type.
type UnknownInteractionData struct {
	json.Raw
	typ InteractionDataType
}

// InteractionType implements InteractionData.
func (u *UnknownInteractionData) InteractionType() InteractionDataType { return u.typ }
func (u *UnknownInteractionData) data()                                {}
