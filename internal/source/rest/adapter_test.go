package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unify/internal/mockapi"
	"unify/internal/query"
	"unify/internal/record"
)

func demoServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(mockapi.NewRouter("secret", mockapi.DemoUsers))
	t.Cleanup(srv.Close)
	return srv
}

func TestAdapterFetchesAndStampsPath(t *testing.T) {
	srv := demoServer(t)
	a := NewAdapter(NewClient(srv.URL, "secret", 0))

	assert.Equal(t, record.TagAPI, a.Tag())
	assert.False(t, a.Exact())

	recs, err := a.Execute(context.Background(), query.Condition{
		Field: record.FieldRegion, Op: query.OpEquals, Value: "EU",
	})
	require.NoError(t, err)
	require.Len(t, recs, len(mockapi.DemoUsers))

	for _, r := range recs {
		assert.Equal(t, record.TagAPI, r.Source)
		assert.Equal(t, DefaultPath, r.Fields[record.FieldAPIPath])
	}
	assert.Equal(t, "Alice", recs[0].Fields[record.FieldName])
	assert.Equal(t, "1", recs[0].Fields[record.FieldID])
}

func TestAdapterUsesQueryPath(t *testing.T) {
	var gotPath atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.Path)
		json.NewEncoder(w).Encode([]User{})
	}))
	defer srv.Close()

	a := NewAdapter(NewClient(srv.URL, "secret", 0))
	_, err := a.Execute(context.Background(), query.Binary{
		Op:    query.LogicAnd,
		Left:  query.Condition{Field: record.FieldAPIPath, Op: query.OpEquals, Value: "/accounts"},
		Right: query.Condition{Field: record.FieldRegion, Op: query.OpEquals, Value: "EU"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/accounts", gotPath.Load())
}

func TestClientRejectsBadKey(t *testing.T) {
	srv := demoServer(t)
	a := NewAdapter(NewClient(srv.URL, "wrong", 0))

	_, err := a.Execute(context.Background(), query.Condition{
		Field: record.FieldRegion, Op: query.OpEquals, Value: "EU",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode([]User{{ID: 1, Name: "Alice"}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 0)
	users, err := c.FetchUsers(context.Background(), "/users")
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 0)
	_, err := c.FetchUsers(context.Background(), "/users")
	require.Error(t, err)
	assert.Equal(t, int32(maxAttempts), calls.Load())
}

func TestClientHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewClient(srv.URL, "secret", 0)
	start := time.Now()
	_, err := c.FetchUsers(ctx, "/users")
	require.Error(t, err)
	// The first backoff is 500ms; cancellation must cut it short.
	assert.Less(t, time.Since(start), 400*time.Millisecond)
}

func TestCacheServesRepeatFetches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode([]User{{ID: 1, Name: "Alice"}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", time.Minute)
	for range 3 {
		users, err := c.FetchUsers(context.Background(), "/users")
		require.NoError(t, err)
		assert.Len(t, users, 1)
	}
	assert.Equal(t, int32(1), calls.Load())
}
