package trakt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Trending(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movies/trending", r.URL.Path)
		assert.Equal(t, "2", r.Header.Get("trakt-api-version"))
		assert.Equal(t, "client-id", r.Header.Get("trakt-api-key"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[
			{"watchers":120,"movie":{"title":"Dune: Part Two","year":2024,"ids":{"trakt":1,"slug":"dune-part-two-2024","imdb":"tt15239678","tmdb":693134}}},
			{"watchers":80,"movie":{"title":"Oppenheimer","year":2023,"ids":{"trakt":2,"slug":"oppenheimer-2023","imdb":"tt15398776","tmdb":872585}}}
		]`))
	}))
	defer server.Close()

	client := New("client-id", WithBaseURL(server.URL))

	items, err := client.Fetch(context.Background(), Movies, Trending, 5)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Dune: Part Two", items[0].Title.Title)
	assert.Equal(t, 120, items[0].Watchers)
	require.NotNil(t, items[0].IDs.TMDB)
	assert.Equal(t, int64(693134), *items[0].IDs.TMDB)
}

func TestClient_PopularShows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shows/popular", r.URL.Path)
		_, _ = w.Write([]byte(`[{"title":"Game of Thrones","year":2011,"ids":{"trakt":1390,"slug":"game-of-thrones","imdb":"tt0944947","tmdb":1399,"tvdb":121361}}]`))
	}))
	defer server.Close()

	client := New("client-id", WithBaseURL(server.URL))

	items, err := client.Fetch(context.Background(), Shows, Popular, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Game of Thrones", items[0].Title.Title)
	assert.Equal(t, 0, items[0].Watchers)
	require.NotNil(t, items[0].Year)
	assert.Equal(t, 2011, *items[0].Year)
}

func TestClient_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := New("bad", WithBaseURL(server.URL))
	_, err := client.Fetch(context.Background(), Shows, Trending, 0)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = client.Fetch(context.Background(), Kind("people"), Trending, 0)
	assert.Error(t, err)

	_, err = client.Fetch(context.Background(), Movies, List("anticipated"), 0)
	assert.Error(t, err)
}

func TestNew_TimeoutCopiesHTTPClient(t *testing.T) {
	hc := &http.Client{}
	c := New("client-id", WithTimeout(3*time.Second), WithHTTPClient(hc))
	assert.Zero(t, hc.Timeout)
	assert.Equal(t, 3*time.Second, c.httpClient.Timeout)
}
