package api

import (
	"github.com/nixenne/accord/discord"
	"github.com/nixenne/accord/utils/httputil"
)

// SendMessageData is the full structure to send a new message to Discord
// with.
type SendMessageData struct {
	// Content are the message contents (up to 2000 characters).
	Content string `json:"content,omitempty"`
	// Nonce is a nonce that can be used for optimistic message sending.
	Nonce string `json:"nonce,omitempty"`
	// TTS is true if this is a TTS message.
	TTS bool `json:"tts,omitempty"`
	// Embed is embedded rich content.
	Embed *discord.Embed `json:"embed,omitempty"`
}

// SendText posts a text-only message to a guild text or DM channel.
func (c *Client) SendText(channelID discord.ChannelID, content string) (*discord.Message, error) {
	return c.SendMessageComplex(channelID, SendMessageData{
		Content: content,
	})
}

// SendMessage posts a message to a guild text or DM channel.
func (c *Client) SendMessage(
	channelID discord.ChannelID,
	content string, embed *discord.Embed) (*discord.Message, error) {

	return c.SendMessageComplex(channelID, SendMessageData{
		Content: content,
		Embed:   embed,
	})
}

// SendMessageComplex posts a message to a guild text or DM channel with the
// full message data.
func (c *Client) SendMessageComplex(
	channelID discord.ChannelID, data SendMessageData) (*discord.Message, error) {

	var msg *discord.Message
	return msg, c.RequestJSON(
		&msg, "POST",
		EndpointChannels+channelID.String()+"/messages",
		httputil.WithJSONBody(data),
	)
}

// Message returns a specific message in the channel.
func (c *Client) Message(
	channelID discord.ChannelID, messageID discord.MessageID) (*discord.Message, error) {

	var msg *discord.Message
	return msg, c.RequestJSON(&msg, "GET",
		EndpointChannels+channelID.String()+"/messages/"+messageID.String())
}

// DeleteMessage deletes a message.
func (c *Client) DeleteMessage(
	channelID discord.ChannelID, messageID discord.MessageID) error {

	return c.FastRequest("DELETE",
		EndpointChannels+channelID.String()+"/messages/"+messageID.String())
}
