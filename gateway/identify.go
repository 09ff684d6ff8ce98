package gateway

import (
	"context"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// Identity is used as the default identity when initializing a new Gateway.
var Identity = IdentifyProperties{
	OS:      runtime.GOOS,
	Browser: "Accord",
	Device:  "Accord",
}

type IdentifyProperties struct {
	// Required
	OS      string `json:"os"`      // GOOS
	Browser string `json:"browser"` // Accord
	Device  string `json:"device"`  // Accord

	// Optional
	BrowserUserAgent string `json:"browser_user_agent,omitempty"`
	BrowserVersion   string `json:"browser_version,omitempty"`
	OsVersion        string `json:"os_version,omitempty"`
	Referrer         string `json:"referrer,omitempty"`
	ReferringDomain  string `json:"referring_domain,omitempty"`
}

// Shard is a pair of [ shard_id, num_shards ].
type Shard [2]int

// DefaultShard returns the default shard, which is the only shard of a
// single-sharded bot.
func DefaultShard() *Shard {
	return &Shard{0, 1}
}

// ShardID returns the current shard's ID.
func (s Shard) ShardID() int {
	return s[0]
}

// NumShards returns the total number of shards.
func (s Shard) NumShards() int {
	return s[1]
}

type IdentifyData struct {
	Token      string             `json:"token"`
	Properties IdentifyProperties `json:"properties"`

	Compress           bool `json:"compress,omitempty"`        // true
	LargeThreshold     uint `json:"large_threshold,omitempty"` // 50
	GuildSubscriptions bool `json:"guild_subscriptions"`       // true

	Shard *Shard `json:"shard,omitempty"` // [ shard_id, num_shards ]

	Intents Intents `json:"intents,omitempty"`
}

// SetShard sets the shard the identifying connection will use.
func (i *IdentifyData) SetShard(id, num int) {
	if i.Shard == nil {
		i.Shard = new(Shard)
	}
	i.Shard[0], i.Shard[1] = id, num
}

// Intents for the new Discord API feature, documented at
// https://discord.com/developers/docs/topics/gateway#gateway-intents.
type Intents uint32

const (
	IntentGuilds Intents = 1 << iota
	IntentGuildMembers
	IntentGuildBans
	IntentGuildEmojis
	IntentGuildIntegrations
	IntentGuildWebhooks
	IntentGuildInvites
	IntentGuildVoiceStates
	IntentGuildPresences
	IntentGuildMessages
	IntentGuildMessageReactions
	IntentGuildMessageTyping
	IntentDirectMessages
	IntentDirectMessageReactions
	IntentDirectMessageTyping
)

// Has returns true if i has the given intents.
func (i Intents) Has(intents Intents) bool {
	return i&intents == intents
}

// Identifier is the Gateway's Identify payload, alongside the rate limiters
// that guard how often an Identify may be sent.
type Identifier struct {
	IdentifyData

	IdentifyShortLimit  *rate.Limiter `json:"-"`
	IdentifyGlobalLimit *rate.Limiter `json:"-"`
}

func DefaultIdentifier(token string) *Identifier {
	return NewIdentifier(IdentifyData{
		Token:      token,
		Properties: Identity,
		Shard:      DefaultShard(),

		Compress:           true,
		LargeThreshold:     50,
		GuildSubscriptions: true,
	})
}

func NewIdentifier(data IdentifyData) *Identifier {
	return &Identifier{
		IdentifyData:        data,
		IdentifyShortLimit:  rate.NewLimiter(rate.Every(5*time.Second), 1),
		IdentifyGlobalLimit: rate.NewLimiter(rate.Every(24*time.Hour), 1000),
	}
}

func (i *Identifier) Wait(ctx context.Context) error {
	if err := i.IdentifyShortLimit.Wait(ctx); err != nil {
		return errors.Wrap(err, "can't wait for short limit")
	}
	if err := i.IdentifyGlobalLimit.Wait(ctx); err != nil {
		return errors.Wrap(err, "can't wait for global limit")
	}
	return nil
}
