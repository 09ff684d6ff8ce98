package api

import (
	"github.com/nixenne/accord/discord"
	"github.com/nixenne/accord/utils/httputil"
)

// Commands returns a list of global application commands.
func (c *Client) Commands(appID discord.AppID) ([]discord.Command, error) {
	var cmds []discord.Command
	return cmds, c.RequestJSON(
		&cmds, "GET",
		EndpointApplications+appID.String()+"/commands")
}

// Command fetches a global application command by ID.
func (c *Client) Command(
	appID discord.AppID, commandID discord.CommandID) (*discord.Command, error) {

	var cmd *discord.Command
	return cmd, c.RequestJSON(
		&cmd, "GET",
		EndpointApplications+appID.String()+"/commands/"+commandID.String())
}

// CreateCommand creates a new global application command. New global commands
// will be available in all guilds after 1 hour.
func (c *Client) CreateCommand(
	appID discord.AppID, command discord.Command) (*discord.Command, error) {

	var cmd *discord.Command
	return cmd, c.RequestJSON(
		&cmd, "POST",
		EndpointApplications+appID.String()+"/commands",
		httputil.WithJSONBody(command))
}

// EditCommand edits a global application command.
func (c *Client) EditCommand(
	appID discord.AppID,
	commandID discord.CommandID, command discord.Command) (*discord.Command, error) {

	var cmd *discord.Command
	return cmd, c.RequestJSON(
		&cmd, "PATCH",
		EndpointApplications+appID.String()+"/commands/"+commandID.String(),
		httputil.WithJSONBody(command))
}

// DeleteCommand deletes a global application command.
func (c *Client) DeleteCommand(
	appID discord.AppID, commandID discord.CommandID) error {

	return c.FastRequest(
		"DELETE",
		EndpointApplications+appID.String()+"/commands/"+commandID.String())
}

// BulkOverwriteCommands takes a slice of application commands, overwriting
// existing commands that are registered globally for this application.
//
// This endpoint is intentionally not paired with an incremental sync: Discord
// treats the payload as the full desired command set.
func (c *Client) BulkOverwriteCommands(
	appID discord.AppID, commands []discord.Command) ([]discord.Command, error) {

	var cmds []discord.Command
	return cmds, c.RequestJSON(
		&cmds, "PUT",
		EndpointApplications+appID.String()+"/commands",
		httputil.WithJSONBody(commands))
}

// GuildCommands returns a list of application commands in a guild.
func (c *Client) GuildCommands(
	appID discord.AppID, guildID discord.GuildID) ([]discord.Command, error) {

	var cmds []discord.Command
	return cmds, c.RequestJSON(
		&cmds, "GET",
		EndpointApplications+appID.String()+
			"/guilds/"+guildID.String()+"/commands")
}

// CreateGuildCommand creates a new guild-scoped application command. Unlike
// global commands, guild commands are available immediately.
func (c *Client) CreateGuildCommand(
	appID discord.AppID,
	guildID discord.GuildID, command discord.Command) (*discord.Command, error) {

	var cmd *discord.Command
	return cmd, c.RequestJSON(
		&cmd, "POST",
		EndpointApplications+appID.String()+
			"/guilds/"+guildID.String()+"/commands",
		httputil.WithJSONBody(command))
}

// DeleteGuildCommand deletes an application command scoped to a guild.
func (c *Client) DeleteGuildCommand(
	appID discord.AppID,
	guildID discord.GuildID, commandID discord.CommandID) error {

	return c.FastRequest(
		"DELETE",
		EndpointApplications+appID.String()+
			"/guilds/"+guildID.String()+"/commands/"+commandID.String())
}

// BulkOverwriteGuildCommands takes a slice of application commands,
// overwriting existing commands that are registered in the guild.
func (c *Client) BulkOverwriteGuildCommands(
	appID discord.AppID,
	guildID discord.GuildID, commands []discord.Command) ([]discord.Command, error) {

	var cmds []discord.Command
	return cmds, c.RequestJSON(
		&cmds, "PUT",
		EndpointApplications+appID.String()+
			"/guilds/"+guildID.String()+"/commands",
		httputil.WithJSONBody(commands))
}
