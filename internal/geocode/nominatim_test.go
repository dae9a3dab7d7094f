package geocode

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewClient(Options{BaseURL: url + "/", UserAgent: "fala-test", Timeout: time.Second}, nil, logger)
}

func TestReverse_CityFields(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"city", `{"address":{"city":"Recife","state":"Pernambuco"}}`, "Recife"},
		{"town", `{"address":{"town":"Olinda","state":"Pernambuco"}}`, "Olinda"},
		{"village", `{"address":{"village":"Porto de Galinhas"}}`, "Porto de Galinhas"},
		{"municipality", `{"address":{"municipality":"Jaboatão dos Guararapes"}}`, "Jaboatão dos Guararapes"},
		{"county", `{"address":{"county":"Ipojuca"}}`, "Ipojuca"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			place, err := newTestClient(srv.URL).Reverse(context.Background(), -8.05, -34.9)

			require.NoError(t, err)
			assert.Equal(t, tt.want, place.City)
		})
	}
}

func TestReverse_RequestShape(t *testing.T) {
	requests := make(chan *http.Request, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests <- r.Clone(context.Background())
		_, _ = io.WriteString(w, `{"address":{"city":"Recife","state":"Pernambuco"}}`)
	}))
	defer srv.Close()

	place, err := newTestClient(srv.URL).Reverse(context.Background(), -8.1186, -34.9005)

	require.NoError(t, err)
	assert.Equal(t, "Pernambuco", place.State)
	got := <-requests
	assert.Equal(t, "/reverse", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "jsonv2", q.Get("format"))
	assert.Equal(t, "12", q.Get("zoom"))
	assert.Equal(t, "1", q.Get("addressdetails"))
	assert.Equal(t, "-8.1186", q.Get("lat"))
	assert.Equal(t, "-34.9005", q.Get("lon"))
	assert.Equal(t, "fala-test", got.Header.Get("User-Agent"))
}

func TestReverse_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lat") == "1" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = io.WriteString(w, `{"address":{}}`)
	}))
	defer srv.Close()
	c := newTestClient(srv.URL)

	_, err := c.Reverse(context.Background(), 1, 1)
	assert.ErrorContains(t, err, "unexpected status code 429")

	_, err = c.Reverse(context.Background(), 2, 2)
	assert.ErrorIs(t, err, ErrNoCity)
}

func TestReverse_CollapsesConcurrentLookups(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		_, _ = io.WriteString(w, `{"address":{"city":"Recife"}}`)
	}))
	defer srv.Close()
	c := newTestClient(srv.URL)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			place, err := c.Reverse(context.Background(), -8.11861, -34.90051)
			assert.NoError(t, err)
			assert.Equal(t, "Recife", place.City)
		}()
	}
	// даём запросам встать в очередь за первым
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestReverse_LeaderCancelDoesNotFailFollowers(t *testing.T) {
	// Подготовка
	var calls atomic.Int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		started <- struct{}{}
		<-release
		_, _ = io.WriteString(w, `{"address":{"city":"Recife"}}`)
	}))
	defer srv.Close()
	c := newTestClient(srv.URL)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := c.Reverse(leaderCtx, -8.11861, -34.90051)
		leaderErr <- err
	}()
	<-started

	type result struct {
		place string
		err   error
	}
	follower := make(chan result, 1)
	go func() {
		place, err := c.Reverse(context.Background(), -8.11861, -34.90051)
		follower <- result{place: place.City, err: err}
	}()
	// даём второму вызову присоединиться к запросу первого
	time.Sleep(100 * time.Millisecond)

	// Действие: первый клиент отключается до ответа сервера
	cancelLeader()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)
	close(release)

	// Проверки
	got := <-follower
	require.NoError(t, got.err)
	assert.Equal(t, "Recife", got.place)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCacheKey_RoundsToFourDecimals(t *testing.T) {
	assert.Equal(t, cacheKey(-8.118612, -34.900549), cacheKey(-8.118649, -34.900501))
	assert.Equal(t, "falaCidadao:geocode:-8.1186,-34.9005", cacheKey(-8.11861, -34.90051))
}
