package api

import (
	"github.com/nixenne/accord/discord"
	"github.com/nixenne/accord/utils/httputil"
)

type InteractionResponseType uint

// https://discord.com/developers/docs/interactions/receiving-and-responding#interaction-response-object-interaction-callback-type
const (
	PongInteraction InteractionResponseType = iota + 1
	_
	_
	MessageInteractionWithSource
	DeferredMessageInteractionWithSource
	DeferredMessageUpdate
	UpdateMessage
)

// InteractionResponseFlags implements flags for an interaction response.
type InteractionResponseFlags uint

const EphemeralResponse InteractionResponseFlags = 64

type InteractionResponse struct {
	Type InteractionResponseType  `json:"type"`
	Data *InteractionResponseData `json:"data,omitempty"`
}

// InteractionResponseData is InteractionApplicationCommandCallbackData in the
// official documentation.
type InteractionResponseData struct {
	// Content are the message contents (up to 2000 characters).
	//
	// Required: one of content or embeds.
	Content string `json:"content,omitempty"`

	// TTS is true if this is a TTS message.
	TTS bool `json:"tts,omitempty"`

	// Embeds contains embedded rich content.
	Embeds []discord.Embed `json:"embeds,omitempty"`

	// Flags are the interaction application command callback data flags.
	Flags InteractionResponseFlags `json:"flags,omitempty"`
}

// RespondInteraction responds to an incoming interaction. It is also known as
// an "interaction callback".
func (c *Client) RespondInteraction(
	id discord.InteractionID, token string, resp InteractionResponse) error {

	var URL = EndpointInteractions + id.String() + "/" + token + "/callback"
	return c.FastRequest("POST", URL, httputil.WithJSONBody(resp))
}

// OriginalInteractionResponse returns the initial interaction response.
func (c *Client) OriginalInteractionResponse(
	appID discord.AppID, token string) (*discord.Message, error) {

	var m *discord.Message
	return m, c.RequestJSON(
		&m, "GET",
		Endpoint+"webhooks/"+appID.String()+"/"+token+"/messages/@original")
}

// DeleteOriginalInteractionResponse deletes the initial interaction response.
func (c *Client) DeleteOriginalInteractionResponse(
	appID discord.AppID, token string) error {

	return c.FastRequest(
		"DELETE",
		Endpoint+"webhooks/"+appID.String()+"/"+token+"/messages/@original")
}
