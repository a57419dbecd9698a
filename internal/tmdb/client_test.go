package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SearchMulti(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/search/multi", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "fight club", r.URL.Query().Get("query"))
		assert.Equal(t, "false", r.URL.Query().Get("include_adult"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[
			{"id":550,"media_type":"movie","title":"Fight Club","poster_path":"/a.jpg","release_date":"1999-10-15"},
			{"id":287,"media_type":"person","name":"Brad Pitt"},
			{"id":1396,"media_type":"tv","name":"Breaking Bad","poster_path":"/b.jpg","first_air_date":"2008-01-20"}
		]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	results, err := client.SearchMulti(context.Background(), "fight club")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "Fight Club", results[0].DisplayTitle())
	assert.Equal(t, "1999-10-15", results[0].Date())
	assert.Equal(t, "Breaking Bad", results[2].DisplayTitle())
	assert.Equal(t, "2008-01-20", results[2].Date())
}

func TestClient_FindByExternalID(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/3/find/tt0903747", r.URL.Path)
		assert.Equal(t, "imdb_id", r.URL.Query().Get("external_source"))
		_, _ = w.Write([]byte(`{"movie_results":[],"tv_results":[{"id":1396,"name":"Breaking Bad","poster_path":"/b.jpg"}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	f, err := client.FindByExternalID(context.Background(), "tt0903747")
	require.NoError(t, err)
	all := f.All()
	require.Len(t, all, 1)
	assert.Equal(t, MediaTV, all[0].MediaType)
	assert.Equal(t, int64(1396), all[0].ID)

	_, err = client.FindByExternalID(context.Background(), "tt0903747")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second lookup is served from cache")
}

func TestClient_Details_Series(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/tv/1396", r.URL.Path)
		assert.Equal(t, "external_ids", r.URL.Query().Get("append_to_response"))
		_, _ = w.Write([]byte(`{
			"id":1396,"name":"Breaking Bad","first_air_date":"2008-01-20","overview":"A chemist...",
			"poster_path":"/b.jpg","vote_average":8.9,"genres":[{"id":18,"name":"Drama"}],
			"episode_run_time":[45,47],"number_of_seasons":5,"status":"Ended",
			"seasons":[{"season_number":0,"episode_count":9},{"season_number":1,"episode_count":7,"vote_average":8.2}],
			"external_ids":{"imdb_id":"tt0903747","tvdb_id":81189}
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	d, err := client.Details(context.Background(), MediaTV, 1396)
	require.NoError(t, err)
	assert.Equal(t, "Breaking Bad", d.DisplayTitle())
	assert.Equal(t, "2008", d.Year())
	assert.Equal(t, []int{45, 47}, d.EpisodeRunTime)
	require.Len(t, d.Seasons, 2)
	assert.Equal(t, 7, d.Seasons[1].EpisodeCount)
	require.NotNil(t, d.ExternalIDs.IMDBID)
	assert.Equal(t, "tt0903747", *d.ExternalIDs.IMDBID)
	require.NotNil(t, d.ExternalIDs.TVDBID)
	assert.Equal(t, int64(81189), *d.ExternalIDs.TVDBID)
	require.NotNil(t, d.Status)
	assert.Equal(t, "Ended", *d.Status)
}

func TestClient_Details_Cached(t *testing.T) {
	callCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		_, _ = w.Write([]byte(`{"id":550,"title":"Fight Club","runtime":139}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL), WithCacheTTL(time.Hour))

	d, err := client.Details(context.Background(), MediaMovie, 550)
	require.NoError(t, err)
	require.NotNil(t, d.Runtime)
	assert.Equal(t, 139, *d.Runtime)
	assert.Equal(t, 1, callCount)

	_, err = client.Details(context.Background(), MediaMovie, 550)
	require.NoError(t, err)
	assert.Equal(t, 1, callCount, "should use cache, not call API again")
}

func TestClient_Details_UnsupportedType(t *testing.T) {
	client := NewClient("test-key", WithBaseURL("http://127.0.0.1:1"))
	_, err := client.Details(context.Background(), "person", 287)
	assert.Error(t, err)
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusTooManyRequests, ErrRateLimited},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient("test-key", WithBaseURL(server.URL))
			d, err := client.Details(context.Background(), MediaMovie, 99999999)
			assert.Nil(t, d)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	_, err := client.SearchMulti(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL), WithTimeout(20*time.Millisecond))
	_, err := client.SearchMulti(context.Background(), "slow")
	assert.Error(t, err)
}

func TestDetails_YearWithoutDate(t *testing.T) {
	d := &Details{Title: "Untitled"}
	assert.Equal(t, "", d.Year())
	assert.Equal(t, "", PosterURL("", "w500"))
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/a.jpg", PosterURL("/a.jpg", "w500"))
}

func TestClient_TimeoutLeavesCallerClientAlone(t *testing.T) {
	hc := &http.Client{Timeout: time.Minute}
	client := NewClient("test-key", WithHTTPClient(hc), WithTimeout(5*time.Second))

	assert.Equal(t, time.Minute, hc.Timeout)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	assert.NotSame(t, hc, client.httpClient)

	// Option order does not matter, and a nil client falls back to a fresh one.
	client = NewClient("test-key", WithTimeout(time.Second), WithHTTPClient(nil))
	require.NotNil(t, client.httpClient)
	assert.Equal(t, time.Second, client.httpClient.Timeout)
}
