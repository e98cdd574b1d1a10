package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/importviz/pkg/errors"
)

func testClient() *Client {
	c := NewClient()
	c.Delay = time.Millisecond
	return c
}

func TestGetBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Test") != "1" {
			t.Errorf("header not forwarded")
		}
		w.Write([]byte(`{"a":{}}`))
	}))
	defer srv.Close()

	c := testClient()
	c.Header = http.Header{"X-Test": []string{"1"}}
	body, err := c.GetBytes(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetBytes: %v", err)
	}
	if string(body) != `{"a":{}}` {
		t.Errorf("body = %s", body)
	}
}

func TestGetBytesRetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := testClient().GetBytes(context.Background(), srv.URL)
	if err != nil || string(body) != "ok" {
		t.Fatalf("GetBytes = %q, %v", body, err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestGetBytesErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   errors.Code
	}{
		{"not found", http.StatusNotFound, errors.ErrCodeFileNotFound},
		{"server error", http.StatusInternalServerError, errors.ErrCodeNetwork},
		{"redirect loop status", http.StatusNotModified, errors.ErrCodeNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := testClient().GetBytes(context.Background(), srv.URL)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestGetBytesRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient().GetBytes(context.Background(), srv.URL)
	var rl *errors.RateLimitedError
	if !errors.As(err, &rl) || rl.RetryAfter != 30 {
		t.Errorf("error = %v, want rate limit with retry after 30", err)
	}
}

func TestGetBytesMaxBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("0123456789"))
	}))
	defer srv.Close()

	c := testClient()
	c.MaxBody = 4
	body, err := c.GetBytes(context.Background(), srv.URL)
	if err != nil || string(body) != "0123" {
		t.Errorf("GetBytes = %q, %v", body, err)
	}
}
