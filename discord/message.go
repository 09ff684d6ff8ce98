package discord

type Message struct {
	ID        MessageID `json:"id"`
	ChannelID ChannelID `json:"channel_id"`
	GuildID   GuildID   `json:"guild_id,omitempty"`

	Type MessageType `json:"type"`

	// Author is not guaranteed to be a valid user when the message is sent by
	// a webhook.
	Author User `json:"author"`

	Content string `json:"content"`

	Timestamp       Timestamp `json:"timestamp,omitempty"`
	EditedTimestamp Timestamp `json:"edited_timestamp,omitempty"`

	TTS    bool `json:"tts"`
	Pinned bool `json:"pinned"`

	// MentionEveryone is true if the message mentions everyone.
	MentionEveryone bool `json:"mention_everyone"`

	Mentions []GuildUser `json:"mentions"`

	MentionRoleIDs []RoleID `json:"mention_roles"`

	Flags MessageFlags `json:"flags"`
}

// URL generates a Discord client URL to the message. If the message doesn't
// have a GuildID, it will generate a URL with the guild "@me".
func (m Message) URL() string {
	var head = "https://discord.com/channels/"
	var tail = m.ChannelID.String() + "/" + m.ID.String()

	if !m.GuildID.IsValid() {
		return head + "@me/" + tail
	}

	return head + m.GuildID.String() + "/" + tail
}

type MessageType uint8

const (
	DefaultMessage MessageType = iota
	RecipientAddMessage
	RecipientRemoveMessage
	CallMessage
	ChannelNameChangeMessage
	ChannelIconChangeMessage
	ChannelPinnedMessage
	GuildMemberJoinMessage
	NitroBoostMessage
	NitroTier1Message
	NitroTier2Message
	NitroTier3Message
	ChannelFollowAddMessage
	_
	GuildDiscoveryDisqualifiedMessage
	GuildDiscoveryRequalifiedMessage
	_
	_
	_
	InlinedReplyMessage
	ChatInputCommandMessage
)

type MessageFlags uint8

const (
	// CrosspostedMessage specifies whether the message has been published to
	// subscribed channels.
	CrosspostedMessage MessageFlags = 1 << iota
	// MessageIsCrosspost specifies whether the message originated from a
	// message in another channel.
	MessageIsCrosspost
	// SuppressEmbeds specifies whether to not include any embeds when
	// serializing the message.
	SuppressEmbeds
	// SourceMessageDeleted specifies whether the source message for the
	// crosspost has been deleted.
	SourceMessageDeleted
	// UrgentMessage specifies whether the message came from the urgent
	// message system.
	UrgentMessage
	// EphemeralMessage specifies whether the message is only visible to the
	// user who invoked the interaction.
	EphemeralMessage
)

// GuildUser is a user with an optional member field, as sent in message
// mentions.
type GuildUser struct {
	User
	Member *Member `json:"member,omitempty"`
}

// Embed is a message embed. Only the subset of fields the library sends is
// kept.
type Embed struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`

	Timestamp Timestamp `json:"timestamp,omitempty"`
	Color     uint32    `json:"color,omitempty"`

	Footer *EmbedFooter `json:"footer,omitempty"`
	Fields []EmbedField `json:"fields,omitempty"`
}

type EmbedFooter struct {
	Text string `json:"text"`
	Icon string `json:"icon_url,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}
