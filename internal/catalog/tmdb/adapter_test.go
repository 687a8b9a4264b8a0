package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"characterhub/internal/catalog"
)

func newTestAdapter(t *testing.T, handler http.Handler) *Adapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewAdapter(NewClient(server.URL, "test-token"))
}

func TestListCharacters_NormalizesMovieCast(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/603/credits", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"id":603,"cast":[
			{"id":12,"name":"Carrie-Anne Moss","character":"Trinity","profile_path":"/trin.jpg","order":1},
			{"id":95,"name":"Keanu Reeves","character":"Neo","profile_path":"/neo.jpg","order":0},
			{"id":77,"name":"Extra Person","character":"","profile_path":null,"order":2}
		]}`)
	})
	mux.HandleFunc("/movie/603", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":603,"title":"The Matrix","poster_path":"/matrix.jpg","release_date":"1999-03-31"}`)
	})
	adapter := newTestAdapter(t, mux)

	characters, err := adapter.ListCharacters(context.Background(), catalog.MediaTypeMovie, 603, 0)
	require.NoError(t, err)
	require.Len(t, characters, 3)

	neo := characters[0]
	assert.Equal(t, "tmdb-movie-603-95", neo.ExternalID)
	assert.Equal(t, "tmdb", neo.Source)
	assert.Equal(t, "Neo", neo.Name)
	assert.Equal(t, "The Matrix", neo.MediaTitle)
	assert.Equal(t, "603", neo.MediaID)
	require.NotNil(t, neo.ReleaseYear)
	assert.Equal(t, 1999, *neo.ReleaseYear)
	require.NotNil(t, neo.Image)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/neo.jpg", *neo.Image)
	require.NotNil(t, neo.ActorName)
	assert.Equal(t, "Keanu Reeves", *neo.ActorName)
	assert.Equal(t, 0, neo.Order)

	assert.Equal(t, "Trinity", characters[1].Name, "cast sorted by credit order")

	// Empty character name falls back to the actor's name, missing profile
	// image stays nil.
	extra := characters[2]
	assert.Equal(t, "Extra Person", extra.Name)
	assert.Nil(t, extra.Image)
}

func TestListCharacters_SeriesUsesTVNamespace(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tv/1396/credits", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":1396,"cast":[{"id":17419,"name":"Bryan Cranston","character":"Walter White","order":0}]}`)
	})
	mux.HandleFunc("/tv/1396", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":1396,"name":"Breaking Bad","first_air_date":"2008-01-20"}`)
	})
	adapter := newTestAdapter(t, mux)

	characters, err := adapter.ListCharacters(context.Background(), catalog.MediaTypeSeries, 1396, 0)
	require.NoError(t, err)
	require.Len(t, characters, 1)
	assert.Equal(t, "tmdb-tv-1396-17419", characters[0].ExternalID)
	assert.Equal(t, "series", characters[0].MediaType)
	assert.Equal(t, "Breaking Bad", characters[0].MediaTitle)
	require.NotNil(t, characters[0].ReleaseYear)
	assert.Equal(t, 2008, *characters[0].ReleaseYear)
}

func TestListCharacters_Limit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/603/credits", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":603,"cast":[
			{"id":1,"name":"A","character":"a","order":0},
			{"id":2,"name":"B","character":"b","order":1},
			{"id":3,"name":"C","character":"c","order":2}
		]}`)
	})
	mux.HandleFunc("/movie/603", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":603,"title":"The Matrix"}`)
	})
	adapter := newTestAdapter(t, mux)

	characters, err := adapter.ListCharacters(context.Background(), catalog.MediaTypeMovie, 603, 2)
	require.NoError(t, err)
	assert.Len(t, characters, 2)
}

func TestListTrending_Normalizes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/trending/movie/week", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		fmt.Fprint(w, `{"page":2,"results":[
			{"id":603,"title":"The Matrix","poster_path":"/m.jpg","release_date":"1999-03-31"},
			{"id":604,"title":"The Matrix Reloaded","poster_path":null,"release_date":""}
		]}`)
	})
	adapter := newTestAdapter(t, mux)

	media, err := adapter.ListTrending(context.Background(), catalog.MediaTypeMovie, 2)
	require.NoError(t, err)
	require.Len(t, media, 2)
	assert.Equal(t, 603, media[0].ID)
	assert.Equal(t, "movie", media[0].MediaType)
	require.NotNil(t, media[0].ReleaseYear)
	assert.Equal(t, 1999, *media[0].ReleaseYear)
	assert.Nil(t, media[1].Poster)
	assert.Nil(t, media[1].ReleaseYear)
}

func TestDoRequest_RetriesOn429(t *testing.T) {
	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/603", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"id":603,"title":"The Matrix"}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "test-token")
	media, err := client.GetMedia(context.Background(), "movie", 603)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", media.Title)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDoRequest_NoRetryOn404(t *testing.T) {
	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/999999", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"status_message":"not found"}`, http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "test-token")
	_, err := client.GetMedia(context.Background(), "movie", 999999)
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDoRequest_MissingToken(t *testing.T) {
	client := NewClient("http://localhost:1", "")
	_, err := client.GetMedia(context.Background(), "movie", 603)
	assert.Error(t, err)
}

func TestListCharacters_UnsupportedMediaType(t *testing.T) {
	adapter := NewAdapter(NewClient("http://localhost:1", "test-token"))
	_, err := adapter.ListCharacters(context.Background(), catalog.MediaTypeAnime, 1, 0)
	assert.Error(t, err)
}
