package discord

// Status is the basic presence status of a user.
type Status string

const (
	UnknownStatus      Status = ""
	OnlineStatus       Status = "online"
	DoNotDisturbStatus Status = "dnd"
	IdleStatus         Status = "idle"
	InvisibleStatus    Status = "invisible"
	OfflineStatus      Status = "offline"
)

type ActivityType uint8

const (
	// Playing $name
	GameActivity ActivityType = iota
	// Streaming $details
	StreamingActivity
	// Listening to $name
	ListeningActivity
	// Watching $name
	WatchingActivity
	// $emoji $state
	CustomActivity
	// Competing in $name
	CompetingActivity
)

// Activity is a user's presence activity.
type Activity struct {
	Name string       `json:"name"`
	Type ActivityType `json:"type"`

	URL     string `json:"url,omitempty"`
	State   string `json:"state,omitempty"`
	Details string `json:"details,omitempty"`

	AppID AppID `json:"application_id,omitempty"`
}

// Presence represents a member's presence in a guild.
type Presence struct {
	User    User    `json:"user"`
	GuildID GuildID `json:"guild_id"`

	Status     Status     `json:"status"`
	Activities []Activity `json:"activities"`
}
