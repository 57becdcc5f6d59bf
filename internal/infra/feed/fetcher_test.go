package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestFetcher_ConditionalRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Contains(t, r.Header.Get("Accept"), "text/calendar")

		if n > 1 {
			assert.Equal(t, `"v1"`, r.Header.Get("If-None-Match"))
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte("BODY"))
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, "test-agent", 0, nopLogger{})

	res, err := f.Fetch(context.Background(), srv.URL+"/feed.ics")
	require.NoError(t, err)
	assert.Equal(t, "BODY", string(res.Body))
	assert.False(t, res.FromCache)

	res, err = f.Fetch(context.Background(), srv.URL+"/feed.ics")
	require.NoError(t, err)
	assert.Equal(t, "BODY", string(res.Body))
	assert.True(t, res.FromCache)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetcher_FreshCacheSkipsRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte("BODY"))
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, "", time.Minute, nopLogger{})

	_, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	res, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, int32(1), calls.Load())

	_, err = f.Refresh(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetcher_FallsBackToCache(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("BODY"))
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, "", 0, nopLogger{})

	_, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	fail.Store(true)
	res, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "BODY", string(res.Body))
	assert.True(t, res.FromCache)
}

func TestFetcher_ErrorWithoutCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, "", 0, nopLogger{})

	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetch))

	_, err = f.Fetch(context.Background(), "")
	assert.True(t, errors.Is(err, ErrEmptyURL))
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "https://www.airbnb.com/...(redacted)",
		redactURL("https://www.airbnb.com/calendar/ical/123.ics?s=secret"))
	assert.Equal(t, "ical://...(redacted)", redactURL("not a url"))
}
