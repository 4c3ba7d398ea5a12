package countries

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/borders/apps/go-server/internal/territory"
)

func testClient(url string, opts ...ClientOption) *Client {
	base := []ClientOption{WithRateLimit(0, 0), WithBackoff(time.Millisecond), WithRetries(2)}
	return NewClient(url, append(base, opts...)...)
}

func TestClientFetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/all", r.URL.Path)
		assert.Equal(t, "name,cca3,borders", r.URL.Query().Get("fields"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"name":{"common":"France","official":"French Republic"},"cca3":"FRA","borders":["BEL","ESP"]},
			{"name":{"common":"Iceland"},"cca3":"ISL","borders":[]}
		]`))
	}))
	defer srv.Close()

	recs, err := testClient(srv.URL).FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "France", recs[0].Name.Common)
	assert.Equal(t, "FRA", recs[0].CCA3)
	assert.Equal(t, []string{"BEL", "ESP"}, recs[0].Borders)
}

func TestClientRetriesTransientFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"rate limited", http.StatusTooManyRequests},
		{"server error", http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) < 3 {
					w.WriteHeader(tt.status)
					return
				}
				_, _ = w.Write([]byte(`[{"name":"France","cca3":"FRA","borders":["BEL"]}]`))
			}))
			defer srv.Close()

			recs, err := testClient(srv.URL).FetchAll(context.Background())
			require.NoError(t, err)
			assert.Len(t, recs, 1)
			assert.EqualValues(t, 3, calls.Load())
		})
	}
}

func TestClientGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, territory.ErrDataSource)
	assert.EqualValues(t, 3, calls.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, territory.ErrDataSource)
	assert.Contains(t, err.Error(), "404")
	assert.EqualValues(t, 1, calls.Load())
}

func TestClientDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchAll(context.Background())
	assert.ErrorIs(t, err, territory.ErrDataSource)
}

func TestClientFetchOneShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"object", `{"name":{"common":"France"},"borders":["BEL","DEU"]}`},
		{"array", `[{"name":{"common":"France"},"borders":["BEL","DEU"]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/alpha/FRA", r.URL.Path)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := testClient(srv.URL)
			borders, err := c.FetchBorders(context.Background(), "FRA")
			require.NoError(t, err)
			assert.Equal(t, []string{"BEL", "DEU"}, borders)

			name, err := c.FetchName(context.Background(), "FRA")
			require.NoError(t, err)
			assert.Equal(t, "France", name)
		})
	}
}

func TestClientFetchBordersNoneIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":{"common":"Iceland"}}`))
	}))
	defer srv.Close()

	borders, err := testClient(srv.URL).FetchBorders(context.Background(), "ISL")
	require.NoError(t, err)
	assert.NotNil(t, borders)
	assert.Empty(t, borders)
}

func TestClientFetchNameMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchName(context.Background(), "XXX")
	assert.ErrorIs(t, err, territory.ErrDataSource)
}

func TestClientHonoursCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL, WithRetries(5)).FetchAll(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, territory.ErrDataSource)
	assert.ErrorIs(t, err, context.Canceled)
}
