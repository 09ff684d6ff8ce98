package discord

import (
	"time"

	"github.com/nixenne/accord/utils/json"
)

// Command is the structure of an application command, also known as a slash
// command.
//
// https://discord.com/developers/docs/interactions/application-commands#application-command-object
type Command struct {
	ID          CommandID `json:"id,omitempty"`
	AppID       AppID     `json:"application_id,omitempty"`
	GuildID     GuildID   `json:"guild_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`

	Options []CommandOption `json:"options,omitempty"`

	// DefaultPermission is whether the command is enabled by default when the
	// app is added to a guild. It defaults to true if nil.
	DefaultPermission json.OptionBool `json:"default_permission,omitempty"`
}

// CreatedAt returns a time object representing when the command was created.
func (c Command) CreatedAt() time.Time {
	return c.ID.Time()
}

type CommandOptionType uint

const (
	SubcommandOptionType CommandOptionType = iota + 1
	SubcommandGroupOptionType
	StringOptionType
	IntegerOptionType
	BooleanOptionType
	UserOptionType
	ChannelOptionType
	RoleOptionType
	MentionableOptionType
	NumberOptionType
)

type CommandOption struct {
	Type        CommandOptionType `json:"type"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Required    bool              `json:"required,omitempty"`

	Choices []CommandOptionChoice `json:"choices,omitempty"`
	Options []CommandOption       `json:"options,omitempty"`
}

type CommandOptionChoice struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
