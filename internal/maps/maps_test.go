// README: Maps tests against a local stand-in for the Places and Directions endpoints.
package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func TestHighlightsFiltersAndCaps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/place/textsearch/json", r.URL.Path)
		assert.Equal(t, "fr", r.URL.Query().Get("language"))
		assert.Contains(t, r.URL.Query().Get("query"), "Montmartre, Paris")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","results":[
			{"name":"Sacré-Cœur","formatted_address":"35 Rue du Chevalier","rating":4.7,"place_id":"a","user_ratings_total":1000},
			{"name":"Parking Anvers","rating":4.9,"place_id":"b"},
			{"name":"Café moyen","rating":3.2,"place_id":"c"},
			{"name":"Place du Tertre","rating":4.5,"place_id":"d"},
			{"name":"Musée de Montmartre","rating":4.4,"place_id":"e"},
			{"name":"Le Mur des je t'aime","rating":4.2,"place_id":"f"}
		]}`))
	}))
	defer srv.Close()

	svc, err := NewPlacesService("test-key", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	got, err := svc.Highlights(context.Background(), "Paris", "Montmartre")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Sacré-Cœur", got[0].Name)
	assert.Equal(t, "Place du Tertre", got[1].Name)
	assert.Equal(t, "Musée de Montmartre", got[2].Name)
}

func TestTransferEstimate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/directions/json", r.URL.Path)
		assert.Equal(t, "CDG", r.URL.Query().Get("origin"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","routes":[{"legs":[{
			"duration":{"value":2700,"text":"45 min"},
			"distance":{"value":32000,"text":"32 km"}
		}]}]}`))
	}))
	defer srv.Close()

	svc, err := NewRouteService("test-key", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	got, err := svc.TransferEstimate(context.Background(), "CDG", "Montmartre, Paris")
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, got.Duration)
	assert.Equal(t, 45, got.Minutes)
	assert.Equal(t, "32 km", got.Distance)
}
