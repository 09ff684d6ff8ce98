package gateway

import "github.com/nixenne/accord/discord"

// https://discord.com/developers/docs/topics/gateway#connecting-and-resuming
type (
	HelloEvent struct {
		HeartbeatInterval discord.Milliseconds `json:"heartbeat_interval"`
	}

	// Ready is moved to ready.go

	ResumedEvent struct{}

	// InvalidSessionEvent indicates if the session is resumable.
	InvalidSessionEvent bool
)

// https://discord.com/developers/docs/topics/gateway#channels
type (
	ChannelCreateEvent struct {
		discord.Channel
	}
	ChannelUpdateEvent struct {
		discord.Channel
	}
	ChannelDeleteEvent struct {
		discord.Channel
	}
	ChannelPinsUpdateEvent struct {
		GuildID   discord.GuildID   `json:"guild_id,omitempty"`
		ChannelID discord.ChannelID `json:"channel_id,omitempty"`
		LastPin   discord.Timestamp `json:"timestamp,omitempty"`
	}
)

// https://discord.com/developers/docs/topics/gateway#guilds
type (
	GuildCreateEvent struct {
		discord.Guild

		Joined      discord.Timestamp `json:"joined_at,omitempty"`
		Large       bool              `json:"large,omitempty"`
		Unavailable bool              `json:"unavailable,omitempty"`
		MemberCount uint64            `json:"member_count,omitempty"`

		Members   []discord.Member   `json:"members,omitempty"`
		Channels  []discord.Channel  `json:"channels,omitempty"`
		Presences []discord.Presence `json:"presences,omitempty"`
	}
	GuildUpdateEvent struct {
		discord.Guild
	}
	GuildDeleteEvent struct {
		ID discord.GuildID `json:"id"`
		// Unavailable if false == removed
		Unavailable bool `json:"unavailable"`
	}

	GuildMemberAddEvent struct {
		discord.Member
		GuildID discord.GuildID `json:"guild_id"`
	}
	GuildMemberRemoveEvent struct {
		GuildID discord.GuildID `json:"guild_id"`
		User    discord.User    `json:"user"`
	}
	GuildMemberUpdateEvent struct {
		GuildID discord.GuildID  `json:"guild_id"`
		RoleIDs []discord.RoleID `json:"roles"`
		User    discord.User     `json:"user"`
		Nick    string           `json:"nick"`
	}

	GuildRoleCreateEvent struct {
		GuildID discord.GuildID `json:"guild_id"`
		Role    discord.Role    `json:"role"`
	}
	GuildRoleUpdateEvent struct {
		GuildID discord.GuildID `json:"guild_id"`
		Role    discord.Role    `json:"role"`
	}
	GuildRoleDeleteEvent struct {
		GuildID discord.GuildID `json:"guild_id"`
		RoleID  discord.RoleID  `json:"role_id"`
	}
)

// https://discord.com/developers/docs/topics/gateway#messages
type (
	MessageCreateEvent struct {
		discord.Message
		Member *discord.Member `json:"member,omitempty"`
	}
	MessageUpdateEvent struct {
		discord.Message
		Member *discord.Member `json:"member,omitempty"`
	}
	MessageDeleteEvent struct {
		ID        discord.MessageID `json:"id"`
		ChannelID discord.ChannelID `json:"channel_id"`
		GuildID   discord.GuildID   `json:"guild_id,omitempty"`
	}
	MessageDeleteBulkEvent struct {
		IDs       []discord.MessageID `json:"ids"`
		ChannelID discord.ChannelID   `json:"channel_id"`
		GuildID   discord.GuildID     `json:"guild_id,omitempty"`
	}
)

// https://discord.com/developers/docs/topics/gateway#presence
type (
	PresenceUpdateEvent struct {
		discord.Presence
	}

	TypingStartEvent struct {
		ChannelID discord.ChannelID     `json:"channel_id"`
		UserID    discord.UserID        `json:"user_id"`
		Timestamp discord.UnixTimestamp `json:"timestamp"`

		GuildID discord.GuildID `json:"guild_id,omitempty"`
		Member  *discord.Member `json:"member,omitempty"`
	}

	UserUpdateEvent struct {
		discord.User
	}
)

// https://discord.com/developers/docs/topics/gateway#interactions
type (
	// InteractionCreateEvent is sent when a user in a guild uses an
	// application command or a message component.
	InteractionCreateEvent struct {
		discord.InteractionEvent
	}
)
