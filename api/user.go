package api

import "github.com/nixenne/accord/discord"

// Me returns the current user.
func (c *Client) Me() (*discord.User, error) {
	var me *discord.User
	return me, c.RequestJSON(&me, "GET", EndpointMe)
}

// User returns a user object for a given user ID.
func (c *Client) User(userID discord.UserID) (*discord.User, error) {
	var u *discord.User
	return u, c.RequestJSON(&u, "GET", Endpoint+"users/"+userID.String())
}
