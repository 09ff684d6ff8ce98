package gateway

import (
	"context"

	"github.com/pkg/errors"

	"github.com/nixenne/accord/discord"
)

// Identify sends to the Websocket an Identify OP with the default timeout.
func (g *Gateway) Identify() error {
	ctx, cancel := context.WithTimeout(context.Background(), g.WSTimeout)
	defer cancel()

	return g.IdentifyCtx(ctx)
}

// IdentifyCtx sends to the Websocket an Identify OP. It waits on the identify
// rate limiters before sending.
func (g *Gateway) IdentifyCtx(ctx context.Context) error {
	if err := g.Identifier.Wait(ctx); err != nil {
		return errors.Wrap(err, "can't wait for identify()")
	}

	return g.SendCtx(ctx, IdentifyOP, g.Identifier)
}

type ResumeData struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
	Sequence  int64  `json:"seq"`
}

// Resume sends to the Websocket a Resume OP, but it doesn't actually resume
// from a dead connection. Start() resumes from a dead connection.
func (g *Gateway) Resume() error {
	ctx, cancel := context.WithTimeout(context.Background(), g.WSTimeout)
	defer cancel()

	return g.ResumeCtx(ctx)
}

// ResumeCtx sends to the Websocket a Resume OP with the given context for
// timeout and cancellation.
func (g *Gateway) ResumeCtx(ctx context.Context) error {
	var (
		ses = g.SessionID
		seq = g.Sequence.Get()
	)

	if ses == "" || seq == 0 {
		return ErrMissingForResume
	}

	return g.SendCtx(ctx, ResumeOP, ResumeData{
		Token:     g.Identifier.Token,
		SessionID: ses,
		Sequence:  seq,
	})
}

// HeartbeatCtx sends a heartbeat with the gateway's current sequence. It
// implements wsutil.EventLoopHandler for the pacemaker loop.
func (g *Gateway) HeartbeatCtx(ctx context.Context) error {
	return g.SendCtx(ctx, HeartbeatOP, g.Sequence.Get())
}

// Heartbeat sends a heartbeat with the gateway's current sequence.
func (g *Gateway) Heartbeat() error {
	ctx, cancel := context.WithTimeout(context.Background(), g.WSTimeout)
	defer cancel()

	return g.HeartbeatCtx(ctx)
}

type RequestGuildMembersData struct {
	GuildIDs []discord.GuildID `json:"guild_id"`
	UserIDs  []discord.UserID  `json:"user_ids,omitempty"`

	Query     string `json:"query,omitempty"`
	Limit     uint   `json:"limit"`
	Presences bool   `json:"presences,omitempty"`
}

func (g *Gateway) RequestGuildMembers(data RequestGuildMembersData) error {
	ctx, cancel := context.WithTimeout(context.Background(), g.WSTimeout)
	defer cancel()

	return g.SendCtx(ctx, RequestGuildMembersOP, data)
}

type UpdateStatusData struct {
	Since discord.UnixMsTimestamp `json:"since"` // 0 if not idle

	Activities []discord.Activity `json:"activities,omitempty"`

	Status discord.Status `json:"status"`
	AFK    bool           `json:"afk"`
}

func (g *Gateway) UpdateStatus(data UpdateStatusData) error {
	ctx, cancel := context.WithTimeout(context.Background(), g.WSTimeout)
	defer cancel()

	return g.SendCtx(ctx, StatusUpdateOP, data)
}
