// Package httputil provides abstractions around the common needs of HTTP. It
// also allows swapping in and out the HTTP client.
package httputil

import (
	"bytes"
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/nixenne/accord/utils/json"
)

// StatusTooManyRequests is the HTTP status code Discord sends on
// rate-limiting.
const StatusTooManyRequests = 429

// Retries is the default number of attempts to retry if the API returns an
// error before giving up. If the value is smaller than 1, then requests will
// retry forever.
var Retries uint = 5

type Client struct {
	json.Driver
	SchemaEncoder

	// Client is the HTTP client used for all requests. It defaults to a
	// shallow copy of http.DefaultClient.
	Client http.Client

	// OnRequest, if not nil, is applied to each request before it is sent.
	OnRequest []RequestOption

	// OnResponse is called after every Do() call. Response might be nil if
	// Do() errors out. The error returned will override Do's if it's not nil.
	OnResponse []ResponseFunc

	// Retries defaults to the global Retries variable (5).
	Retries uint

	context context.Context
}

func NewClient() *Client {
	return &Client{
		Driver:        json.Default,
		SchemaEncoder: &DefaultSchema{},
		Client:        *http.DefaultClient,
		Retries:       Retries,
		context:       context.Background(),
	}
}

// Copy returns a shallow copy of the client.
func (c *Client) Copy() *Client {
	cl := new(Client)
	*cl = *c
	return cl
}

// WithContext returns a client copy of the client with the given context.
func (c *Client) WithContext(ctx context.Context) *Client {
	c = c.Copy()
	c.context = ctx
	return c
}

// Context returns the shared context for all future calls. It's Background by
// default.
func (c *Client) Context() context.Context {
	return c.context
}

func (c *Client) applyOptions(r *http.Request, extra []RequestOption) error {
	for _, opt := range c.OnRequest {
		if err := opt(r); err != nil {
			return err
		}
	}
	for _, opt := range extra {
		if err := opt(r); err != nil {
			return err
		}
	}

	return nil
}

// FastRequest performs a request without parsing the body.
func (c *Client) FastRequest(method, url string, opts ...RequestOption) error {
	r, err := c.Request(method, url, opts...)
	if err != nil {
		return err
	}

	return r.Body.Close()
}

// RequestJSON performs a request and decodes the returned JSON body into to.
func (c *Client) RequestJSON(to interface{}, method, url string, opts ...RequestOption) error {
	opts = PrependOptions(opts, JSONRequest)

	r, err := c.Request(method, url, opts...)
	if err != nil {
		return err
	}

	defer r.Body.Close()

	// No content, working as intended (tm)
	if r.StatusCode == http.StatusNoContent || to == nil {
		return nil
	}

	if err := c.DecodeStream(r.Body, to); err != nil {
		return JSONError{err}
	}

	return nil
}

// Request performs a request with the client's options and the given extra
// options, retrying on server errors and rate limits.
func (c *Client) Request(method, url string, opts ...RequestOption) (*http.Response, error) {
	var r *http.Response
	var doErr error
	var status int

	for i := uint(0); c.Retries < 1 || i < c.Retries; i++ {
		q, err := http.NewRequestWithContext(c.context, method, url, nil)
		if err != nil {
			return nil, RequestError{err}
		}

		if err := c.applyOptions(q, opts); err != nil {
			return nil, errors.Wrap(err, "failed to apply options")
		}

		r, doErr = c.Client.Do(q)

		// Call OnResponse() even if the request failed.
		for _, fn := range c.OnResponse {
			if err := fn(q, r); err != nil {
				return nil, err
			}
		}

		if doErr != nil {
			continue
		}

		if status = r.StatusCode; status == StatusTooManyRequests || status >= 500 {
			r.Body.Close()
			continue
		}

		break
	}

	// If all retries failed:
	if doErr != nil {
		return nil, RequestError{doErr}
	}

	// Response received, but with a failure status code:
	if status < 200 || status > 299 {
		defer r.Body.Close()

		// This rarely happens, so we can (probably) make an exception for it.
		buf := bytes.Buffer{}
		buf.ReadFrom(r.Body)

		httpErr := &HTTPError{
			Status: status,
			Body:   buf.Bytes(),
		}

		// Optionally unmarshal the error.
		c.Unmarshal(httpErr.Body, &httpErr)

		return nil, httpErr
	}

	return r, nil
}
