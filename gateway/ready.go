package gateway

import "github.com/nixenne/accord/discord"

// ReadyEvent is the struct for a READY event. It is sent once after every
// successful Identify, before any other dispatch event.
type ReadyEvent struct {
	Version int `json:"v"`

	User      discord.User `json:"user"`
	SessionID string       `json:"session_id"`

	PrivateChannels []discord.Channel  `json:"private_channels"`
	Guilds          []GuildCreateEvent `json:"guilds"`

	Shard *Shard `json:"shard,omitempty"`

	Application struct {
		ID    discord.AppID `json:"id"`
		Flags uint64        `json:"flags"`
	} `json:"application"`
}
