// README: Flights tests (airport fallback chain, Aviationstack client retries and breaker, Redis cache).
package flights

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectAirports(t *testing.T) {
	cdg := Airport{AirportName: "Charles de Gaulle", IATACode: "CDG", CityName: "Paris", CountryName: "France"}
	bva := Airport{AirportName: "Beauvais-Tillé", IATACode: "BVA", CityName: "Tillé", CountryName: "France"}
	ist := Airport{AirportName: "Istanbul Airport", IATACode: "IST", CityName: "Arnavutköy", CountryName: "Turkey"}
	xxx := Airport{AirportName: "Somewhere", IATACode: "XXX", CityName: "Elsewhere", CountryName: "Nowhere"}

	tests := []struct {
		name        string
		city        string
		fetched     []Airport
		wantIATA    []string
		wantWarning bool
	}{
		{"city name match", "Paris", []Airport{cdg, bva}, []string{"CDG"}, false},
		{"accent and case insensitive", "PARÍS", []Airport{cdg}, []string{"CDG"}, false},
		{"airport name match", "Istanbul", []Airport{ist, xxx}, []string{"IST"}, false},
		{"country name match", "France", []Airport{bva, xxx}, []string{"BVA"}, false},
		{"raw list", "Rabat", []Airport{xxx}, []string{"XXX"}, true},
		{"static table", "New York City", nil, []string{"JFK", "LGA", "EWR"}, true},
		{"nothing", "Lyon", nil, []string{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := SelectAirports(tt.city, tt.fetched)
			got := make([]string, 0, len(sel.Airports))
			for _, a := range sel.Airports {
				got = append(got, a.IATACode)
			}
			assert.Equal(t, tt.wantIATA, got)
			assert.Equal(t, tt.wantWarning, sel.Warning != "")
			if tt.wantWarning {
				assert.Contains(t, sel.Warning, tt.city)
			}
		})
	}
}

func TestSelectAirportsWarnings(t *testing.T) {
	raw := SelectAirports("Rabat", []Airport{{AirportName: "X", IATACode: "XXX"}})
	assert.Equal(t, "⚠️ Aucun aéroport trouvé pour la ville \"Rabat\" dans les résultats. Voici la liste brute retournée par l'API :\n", raw.Warning)

	static := SelectAirports("Paris", nil)
	assert.Equal(t, "⚠️ Aucun aéroport trouvé pour \"Paris\" dans l'API. Voici les principaux aéroports ajoutés manuellement :\n", static.Warning)
	static.Airports[0].IATACode = "ZZZ"
	assert.Equal(t, "CDG", SelectAirports("Paris", nil).Airports[0].IATACode)
}

func testClient(url string) *Client {
	return NewClient(ClientConfig{
		BaseURL:         url,
		AccessKey:       "secret",
		MaxTries:        3,
		RetryInitial:    time.Millisecond,
		BreakerFailures: 2,
		BreakerCooldown: time.Minute,
	})
}

func TestClientAirports(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/airports", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("access_key"))
		assert.Equal(t, "New York City", r.URL.Query().Get("city_name"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []Airport{{AirportName: "John F. Kennedy International", IATACode: "JFK", CityName: "New York"}},
		})
	}))
	defer srv.Close()

	airports, err := testClient(srv.URL).Airports(context.Background(), "New York City")
	require.NoError(t, err)
	require.Len(t, airports, 1)
	assert.Equal(t, "JFK", airports[0].IATACode)
}

func TestClientRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"flight_date":"2024-06-01","flight":{"iata":"AF1"}}]}`))
	}))
	defer srv.Close()

	got, err := testClient(srv.URL).Flights(context.Background(), "CDG", "2024-06-01")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "AF1", got[0].Flight.IATA)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientPermanentErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path == "/v1/flights" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"error":{"code":"invalid_access_key","message":"bad key"}}`))
	}))
	defer srv.Close()
	c := testClient(srv.URL)

	_, err := c.Flights(context.Background(), "CDG", "2024-06-01")
	assert.ErrorIs(t, err, ErrAPI)
	assert.Equal(t, int32(1), calls.Load())

	_, err = c.Airports(context.Background(), "Paris")
	assert.ErrorIs(t, err, ErrAPI)
	assert.Contains(t, err.Error(), "invalid_access_key")
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	c := testClient(srv.URL)

	for i := 0; i < 2; i++ {
		_, err := c.Airports(context.Background(), "Paris")
		require.Error(t, err)
	}
	before := calls.Load()

	_, err := c.Airports(context.Background(), "Paris")
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, before, calls.Load())
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCache(rdb, time.Hour), mr
}

func TestServiceAirportsUsesCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"data":[{"airport_name":"Mohammed V International","iata_code":"CMN","city_name":"Casablanca"}]}`))
	}))
	defer srv.Close()
	cache, mr := newTestCache(t)
	svc := NewService(testClient(srv.URL), cache)

	for i := 0; i < 2; i++ {
		sel, err := svc.Airports(context.Background(), "Casablanca")
		require.NoError(t, err)
		require.Len(t, sel.Airports, 1)
		assert.Empty(t, sel.Warning)
	}
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, mr.Exists("samway:airports:casablanca"))
	assert.Equal(t, time.Hour, mr.TTL("samway:airports:casablanca"))
}

func TestServiceAirportsFetchFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()
	svc := NewService(testClient(srv.URL), nil)

	sel, err := svc.Airports(context.Background(), "Madrid")
	assert.ErrorIs(t, err, ErrAPI)
	require.Len(t, sel.Airports, 1)
	assert.Equal(t, "MAD", sel.Airports[0].IATACode)
	assert.NotEmpty(t, sel.Warning)
}

func TestServiceCacheDownDegradesToFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"airport_name":"Istanbul Airport","iata_code":"IST","city_name":"Istanbul"}]}`))
	}))
	defer srv.Close()
	cache, mr := newTestCache(t)
	mr.Close()

	sel, err := NewService(testClient(srv.URL), cache).Airports(context.Background(), "Istanbul")
	require.NoError(t, err)
	require.Len(t, sel.Airports, 1)
	assert.Equal(t, "IST", sel.Airports[0].IATACode)
}

func TestServiceFlightsCapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flights := make([]Flight, 8)
		for i := range flights {
			flights[i].FlightDate = "2024-06-01"
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": flights})
	}))
	defer srv.Close()
	svc := NewService(testClient(srv.URL), nil)

	got, err := svc.Flights(context.Background(), "CDG", "2024-06-01")
	require.NoError(t, err)
	assert.Len(t, got, MaxFlights)

	got, err = NewService(nil, nil).Flights(context.Background(), "CDG", "2024-06-01")
	require.NoError(t, err)
	assert.Empty(t, got)
}
