package httputil

import (
	"bytes"
	"io"
	"net/http"

	"github.com/nixenne/accord/utils/json"
)

type RequestOption func(*http.Request) error
type ResponseFunc func(*http.Request, *http.Response) error

// PrependOptions prepends opts1 before opts2.
func PrependOptions(opts []RequestOption, prepend ...RequestOption) []RequestOption {
	if len(opts) == 0 {
		return prepend
	}
	return append(prepend, opts...)
}

func JSONRequest(r *http.Request) error {
	r.Header.Set("Content-Type", "application/json")
	return nil
}

func MultipartRequest(r *http.Request) error {
	r.Header.Set("Content-Type", "multipart/form-data")
	return nil
}

func WithHeaders(headers http.Header) RequestOption {
	return func(r *http.Request) error {
		for key, values := range headers {
			r.Header[key] = append(r.Header[key], values...)
		}
		return nil
	}
}

func WithContentType(ctype string) RequestOption {
	return func(r *http.Request) error {
		r.Header.Set("Content-Type", ctype)
		return nil
	}
}

func WithSchema(schema SchemaEncoder, v interface{}) RequestOption {
	return func(r *http.Request) error {
		params, err := schema.Encode(v)
		if err != nil {
			return err
		}

		var qs = r.URL.Query()
		for k, v := range params {
			qs[k] = append(qs[k], v...)
		}

		r.URL.RawQuery = qs.Encode()
		return nil
	}
}

func WithBody(body io.ReadCloser) RequestOption {
	return func(r *http.Request) error {
		r.Body = body
		r.ContentLength = -1
		return nil
	}
}

func WithJSONBody(v interface{}) RequestOption {
	if v == nil {
		return func(*http.Request) error {
			return nil
		}
	}

	// Encode the body eagerly, once. Request retries its attempts with the
	// options re-applied, so each attempt needs a fresh, full body.
	b, err := json.Marshal(v)

	return func(r *http.Request) error {
		if err != nil {
			return err
		}

		r.Header.Set("Content-Type", "application/json")
		r.Body = io.NopCloser(bytes.NewReader(b))
		r.ContentLength = int64(len(b))
		return nil
	}
}
