package httputil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestRequestRetryBody guarantees that a retried request re-sends the full
// JSON body instead of the drained remains of the first attempt.
func TestRequestRetryBody(t *testing.T) {
	type payload struct {
		Content string `json:"content"`
	}

	var bodies []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			t.Error("failed to read request body:", err)
		}
		bodies = append(bodies, string(b))

		// Fail the first attempt so the client retries.
		if len(bodies) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient()

	err := c.FastRequest("POST", srv.URL, WithJSONBody(payload{Content: "try again"}))
	if err != nil {
		t.Fatal("request failed:", err)
	}

	if len(bodies) != 2 {
		t.Fatal("expected 2 attempts, got", len(bodies))
	}

	const want = `{"content":"try again"}`
	for i, body := range bodies {
		if body != want {
			t.Fatalf("attempt %d sent body %q, want %q", i, body, want)
		}
	}
}

func TestRequestErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"code": 50013, "message": "Missing Permissions"}`))
	}))
	defer srv.Close()

	c := NewClient()
	c.Retries = 1

	err := c.FastRequest("GET", srv.URL)
	if err == nil {
		t.Fatal("expected an error, got none")
	}

	httpErr, ok := err.(*HTTPError)
	if !ok {
		t.Fatalf("expected *HTTPError, got %T", err)
	}
	if httpErr.Status != http.StatusForbidden {
		t.Fatal("unexpected status:", httpErr.Status)
	}
	if httpErr.Code != 50013 {
		t.Fatal("unexpected error code:", httpErr.Code)
	}
	if httpErr.Message != "Missing Permissions" {
		t.Fatal("unexpected message:", httpErr.Message)
	}
}
