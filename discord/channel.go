package discord

import "time"

type Channel struct {
	ID   ChannelID   `json:"id"`
	Type ChannelType `json:"type"`

	GuildID GuildID `json:"guild_id,omitempty"`

	// Fields below may not appear in all channel types.

	Name  string `json:"name,omitempty"`
	Topic string `json:"topic,omitempty"`

	Position int  `json:"position,omitempty"`
	NSFW     bool `json:"nsfw,omitempty"`

	LastMessageID MessageID `json:"last_message_id,omitempty"`

	// DMRecipients are the recipients of the DM.
	DMRecipients []User `json:"recipients,omitempty"`

	// CategoryID is the ID of the parent category for a channel.
	CategoryID ChannelID `json:"parent_id,omitempty"`
}

// CreatedAt returns a time object representing when the channel was created.
func (ch Channel) CreatedAt() time.Time {
	return ch.ID.Time()
}

// Mention returns a mention of the channel.
func (ch Channel) Mention() string {
	return ch.ID.Mention()
}

type ChannelType uint8

const (
	// GuildText is a text channel within a server.
	GuildText ChannelType = iota
	// DirectMessage is a direct message between users.
	DirectMessage
	// GuildVoice is a voice channel within a server.
	GuildVoice
	// GroupDM is a direct message between multiple users.
	GroupDM
	// GuildCategory is an organizational category that contains channels.
	GuildCategory
	// GuildNews is a channel that users can follow and crosspost into their
	// own server.
	GuildNews
	// GuildStore is a channel in which game developers can sell their game.
	GuildStore
)
