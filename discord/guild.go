package discord

import "time"

type Guild struct {
	ID   GuildID `json:"id"`
	Name string  `json:"name"`
	Icon string  `json:"icon"`

	OwnerID UserID `json:"owner_id"`

	// Owner is true if the current user is the owner.
	Owner bool `json:"owner,omitempty"`

	SystemChannelID ChannelID `json:"system_channel_id,omitempty"`

	Roles []Role `json:"roles"`
}

// CreatedAt returns a time object representing when the guild was created.
func (g Guild) CreatedAt() time.Time {
	return g.ID.Time()
}

type Role struct {
	ID   RoleID `json:"id"`
	Name string `json:"name"`

	Color    uint32 `json:"color"`
	Position int    `json:"position"`

	Hoist       bool `json:"hoist"`
	Managed     bool `json:"managed"`
	Mentionable bool `json:"mentionable"`
}

// CreatedAt returns a time object representing when the role was created.
func (r Role) CreatedAt() time.Time {
	return r.ID.Time()
}

// Mention returns a mention of the role.
func (r Role) Mention() string {
	return r.ID.Mention()
}
