package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"googlemaps.github.io/maps"
)

const (
	defaultPlacesKeyword = "cafe"
	nearbyRadiusMeters   = 5000
)

// ErrPlacesNotConfigured is returned when no Places API key was provided
var ErrPlacesNotConfigured = errors.New("places lookup is not configured")

// Place is a nearby point of interest
type Place struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Rating  float32 `json:"rating"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// NearbySearcher is the part of the Google Maps client the service uses
type NearbySearcher interface {
	NearbySearch(ctx context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error)
}

// PlacesService looks up places near a coordinate, caching results
type PlacesService struct {
	client NearbySearcher
	cache  Cache
	ttl    time.Duration
}

// NewGooglePlacesClient builds a Maps client for apiKey
func NewGooglePlacesClient(apiKey string) (*maps.Client, error) {
	if apiKey == "" {
		return nil, ErrPlacesNotConfigured
	}
	return maps.NewClient(maps.WithAPIKey(apiKey))
}

// NewPlacesService creates a PlacesService. client may be nil, in which case
// every lookup fails with ErrPlacesNotConfigured.
func NewPlacesService(client NearbySearcher, cache Cache, ttl time.Duration) *PlacesService {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &PlacesService{client: client, cache: cache, ttl: ttl}
}

// NearbyKey is the cache fingerprint of a nearby lookup
func NearbyKey(lat, lng float64, keyword string) string {
	return fmt.Sprintf("places:nearby:%.5f:%.5f:%s", lat, lng, normalizeKeyword(keyword))
}

func normalizeKeyword(keyword string) string {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return defaultPlacesKeyword
	}
	return keyword
}

// Nearby returns places within 5 km of lat,lng matching keyword ("cafe" when empty)
func (s *PlacesService) Nearby(ctx context.Context, lat, lng float64, keyword string) ([]Place, error) {
	if s.client == nil {
		return nil, ErrPlacesNotConfigured
	}
	keyword = normalizeKeyword(keyword)

	return GetOrSet(s.cache, ctx, NearbyKey(lat, lng, keyword), s.ttl, func() ([]Place, error) {
		resp, err := s.client.NearbySearch(ctx, &maps.NearbySearchRequest{
			Location: &maps.LatLng{Lat: lat, Lng: lng},
			Radius:   nearbyRadiusMeters,
			Keyword:  keyword,
		})
		if err != nil {
			return nil, fmt.Errorf("nearby search: %w", err)
		}

		places := make([]Place, 0, len(resp.Results))
		for _, r := range resp.Results {
			places = append(places, Place{
				Name:    r.Name,
				Address: r.Vicinity,
				Rating:  r.Rating,
				Lat:     r.Geometry.Location.Lat,
				Lng:     r.Geometry.Location.Lng,
			})
		}
		return places, nil
	})
}
