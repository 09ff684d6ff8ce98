// Package api provides an interface to interact with the Discord REST API.
// It handles rate limiting, as well as authorizing and more.
package api

import (
	"net/http"

	"github.com/nixenne/accord/api/rate"
	"github.com/nixenne/accord/utils/httputil"
)

const (
	BaseEndpoint = "https://discord.com"
	APIVersion   = "9"
	APIPath      = "/api/v" + APIVersion

	Endpoint             = BaseEndpoint + APIPath + "/"
	EndpointGateway      = Endpoint + "gateway"
	EndpointGatewayBot   = EndpointGateway + "/bot"
	EndpointApplications = Endpoint + "applications/"
	EndpointChannels     = Endpoint + "channels/"
	EndpointGuilds       = Endpoint + "guilds/"
	EndpointInteractions = Endpoint + "interactions/"
	EndpointMe           = Endpoint + "users/@me"
)

var UserAgent = "DiscordBot (https://github.com/nixenne/accord, v0.1.0)"

type Client struct {
	*httputil.Client
	Limiter *rate.Limiter

	Token string
}

func NewClient(token string) *Client {
	cli := &Client{
		Client:  httputil.NewClient(),
		Limiter: rate.NewLimiter(APIPath),
		Token:   token,
	}

	cli.OnRequest = append(cli.OnRequest, func(r *http.Request) error {
		if cli.Token != "" {
			r.Header.Set("Authorization", cli.Token)
		}

		r.Header.Set("User-Agent", UserAgent)
		r.Header.Set("X-RateLimit-Precision", "millisecond")

		// Rate limit stuff
		return cli.Limiter.Acquire(r.Context(), r.URL.Path)
	})

	cli.OnResponse = append(cli.OnResponse, func(r *http.Request, resp *http.Response) error {
		if resp == nil {
			return cli.Limiter.Release(r.URL.Path, nil)
		}
		return cli.Limiter.Release(r.URL.Path, resp.Header)
	})

	return cli
}
