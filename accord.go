// Package accord contains a set of modular packages for writing Discord bots,
// from the raw gateway connection up to a command framework.
//
// Session
//
// Package session is the simplest abstraction, which combines the API package
// and the Gateway websocket package together into one. This could be used for
// minimal bots that only use gateway events and such.
//
// Bot
//
// Package bot abstracts on top of session and provides a prefix-command
// router along with a slash-command registry. Most bots are recommended to
// use this package, as it's the easiest way to make a bot.
package accord

import (
	// Packages that most should use.
	_ "github.com/nixenne/accord/bot"
	_ "github.com/nixenne/accord/session"

	// Low level packages.
	_ "github.com/nixenne/accord/api"
	_ "github.com/nixenne/accord/gateway"
)
