package binder_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/binder"
)

func TestRateLimit(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		rate        float64
		burst       int
		numReqs     int
		wantOK      int
		wantLimited int
	}{
		"requests within rate succeed": {
			rate:        100,
			burst:       10,
			numReqs:     5,
			wantOK:      5,
			wantLimited: 0,
		},
		"requests exceeding rate get 429": {
			rate:        1,
			burst:       1,
			numReqs:     5,
			wantOK:      1,
			wantLimited: 4,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			mw := binder.RateLimit(binder.RateLimitConfig{
				Rate:  tc.rate,
				Burst: tc.burst,
			})
			handler := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			srv := httptest.NewServer(handler)
			t.Cleanup(srv.Close)

			okCount := 0
			limitedCount := 0

			for range tc.numReqs {
				req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/", nil)
				require.NoError(t, err)

				resp, err := http.DefaultClient.Do(req)
				require.NoError(t, err)

				switch resp.StatusCode {
				case http.StatusOK:
					okCount++
				case http.StatusTooManyRequests:
					limitedCount++
					assert.NotEmpty(t, resp.Header.Get("Retry-After"), "Retry-After header should be set")
					assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
				}

				require.NoError(t, resp.Body.Close())
			}

			assert.Equal(t, tc.wantOK, okCount, "expected OK responses")
			assert.Equal(t, tc.wantLimited, limitedCount, "expected rate-limited responses")
		})
	}
}

func TestRateLimit_custom_key(t *testing.T) {
	t.Parallel()

	mw := binder.RateLimit(binder.RateLimitConfig{
		Rate:    1,
		Burst:   1,
		KeyFunc: func(r *http.Request) string { return r.Header.Get("X-API-Key") },
	})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var got []int
	for _, key := range []string{"a", "b", "a"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-API-Key", key)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		got = append(got, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, got)
}

func TestRateLimitRetryAfter(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		rate float64
		want string
	}{
		"one per second":   {rate: 1, want: "1"},
		"fast rate":        {rate: 50, want: "1"},
		"one every 4s":     {rate: 0.25, want: "4"},
		"rounded up to 3s": {rate: 0.4, want: "3"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			handler := binder.RateLimit(binder.RateLimitConfig{Rate: tc.rate, Burst: 1})(
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusOK)
				}))

			var w *httptest.ResponseRecorder
			for range 2 {
				w = httptest.NewRecorder()
				handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			}
			require.Equal(t, http.StatusTooManyRequests, w.Code)
			assert.Equal(t, tc.want, w.Header().Get("Retry-After"))
		})
	}
}
