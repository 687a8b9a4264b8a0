package jikan

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
	return NewAdapter(NewClient(server.URL))
}

func TestListCharacters_NormalizesRoster(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/anime/1/characters", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[
			{"character":{"mal_id":3,"name":"Jet Black","images":{"jpg":{"image_url":"https://cdn.example/jet.jpg"}}},"role":"Supporting"},
			{"character":{"mal_id":1,"name":"Spike Spiegel","images":{"jpg":{"image_url":"https://cdn.example/spike.jpg"}}},"role":"Main"},
			{"character":{"mal_id":2,"name":"Faye Valentine","images":{"jpg":{"image_url":""}}},"role":"Main"}
		]}`)
	})
	mux.HandleFunc("/anime/1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"mal_id":1,"title":"Cowboy Bebop","year":1998,"images":{"jpg":{"large_image_url":"https://cdn.example/bebop.jpg"}}}}`)
	})
	adapter := newTestAdapter(t, mux)

	characters, err := adapter.ListCharacters(context.Background(), catalog.MediaTypeAnime, 1, 0)
	require.NoError(t, err)
	require.Len(t, characters, 3)

	// Main-role characters come first, roster order preserved within role.
	assert.Equal(t, "Spike Spiegel", characters[0].Name)
	assert.Equal(t, "Faye Valentine", characters[1].Name)
	assert.Equal(t, "Jet Black", characters[2].Name)

	spike := characters[0]
	assert.Equal(t, "jikan-1-1", spike.ExternalID)
	assert.Equal(t, "jikan", spike.Source)
	assert.Equal(t, "anime", spike.MediaType)
	assert.Equal(t, "1", spike.MediaID)
	assert.Equal(t, "Cowboy Bebop", spike.MediaTitle)
	require.NotNil(t, spike.ReleaseYear)
	assert.Equal(t, 1998, *spike.ReleaseYear)
	require.NotNil(t, spike.Role)
	assert.Equal(t, "Main", *spike.Role)
	assert.Equal(t, 0, spike.Order)
	assert.Equal(t, 1, characters[1].Order)

	assert.Nil(t, characters[1].Image, "blank image url stays nil")
}

func TestListCharacters_YearFallsBackToAired(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/anime/5/characters", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"character":{"mal_id":9,"name":"Guts"},"role":"Main"}]}`)
	})
	mux.HandleFunc("/anime/5", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"mal_id":5,"title":"Berserk","year":null,"aired":{"prop":{"from":{"year":1997}}}}}`)
	})
	adapter := newTestAdapter(t, mux)

	characters, err := adapter.ListCharacters(context.Background(), catalog.MediaTypeAnime, 5, 0)
	require.NoError(t, err)
	require.Len(t, characters, 1)
	require.NotNil(t, characters[0].ReleaseYear)
	assert.Equal(t, 1997, *characters[0].ReleaseYear)
}

func TestSearch_Normalizes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/anime", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bebop", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"data":[{"mal_id":1,"title":"Cowboy Bebop","year":1998}]}`)
	})
	adapter := newTestAdapter(t, mux)

	media, err := adapter.Search(context.Background(), "bebop", catalog.MediaTypeAnime)
	require.NoError(t, err)
	require.Len(t, media, 1)
	assert.Equal(t, 1, media[0].ID)
	assert.Equal(t, "anime", media[0].MediaType)
}

func TestDoRequest_RetriesOn429(t *testing.T) {
	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/anime/1", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"data":{"mal_id":1,"title":"Cowboy Bebop"}}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient(server.URL)
	anime, err := client.GetAnime(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Cowboy Bebop", anime.Title)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDoRequest_NoRetryOn404(t *testing.T) {
	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/anime/999999", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"status":404}`, http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient(server.URL)
	_, err := client.GetAnime(context.Background(), 999999)
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestAdapter_RejectsNonAnime(t *testing.T) {
	adapter := NewAdapter(NewClient("http://localhost:1"))
	_, err := adapter.ListCharacters(context.Background(), catalog.MediaTypeMovie, 1, 0)
	assert.Error(t, err)
	_, err = adapter.Search(context.Background(), "x", catalog.MediaTypeSeries)
	assert.Error(t, err)
}
