package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"googlemaps.github.io/maps"
)

type fakeSearcher struct {
	calls   int
	lastReq *maps.NearbySearchRequest
	err     error
}

func (f *fakeSearcher) NearbySearch(ctx context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error) {
	f.calls++
	f.lastReq = r
	if f.err != nil {
		return maps.PlacesSearchResponse{}, f.err
	}
	result := maps.PlacesSearchResult{Name: "Ristr8to", Vicinity: "Nimmanhaemin Rd", Rating: 4.6}
	result.Geometry.Location = maps.LatLng{Lat: 18.7991, Lng: 98.9676}
	return maps.PlacesSearchResponse{Results: []maps.PlacesSearchResult{result}}, nil
}

func TestNearbyUsesDefaultsAndCache(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := NewPlacesService(searcher, NewMemoryCache(), time.Minute)
	ctx := context.Background()

	places, err := svc.Nearby(ctx, 18.79, 98.98, "")
	if err != nil {
		t.Fatalf("Nearby returned error: %v", err)
	}
	if len(places) != 1 || places[0].Name != "Ristr8to" || places[0].Address != "Nimmanhaemin Rd" || places[0].Lat != 18.7991 {
		t.Errorf("places = %+v", places)
	}
	if searcher.lastReq.Keyword != "cafe" || searcher.lastReq.Radius != 5000 {
		t.Errorf("request = %+v; want keyword cafe, radius 5000", searcher.lastReq)
	}

	// same coordinates, keyword spelled differently: served from cache
	if _, err := svc.Nearby(ctx, 18.79, 98.98, " Cafe "); err != nil {
		t.Fatalf("Nearby returned error: %v", err)
	}
	if searcher.calls != 1 {
		t.Errorf("searcher called %d times; want 1", searcher.calls)
	}

	if _, err := svc.Nearby(ctx, 18.79, 98.98, "temple"); err != nil {
		t.Fatalf("Nearby returned error: %v", err)
	}
	if searcher.calls != 2 {
		t.Errorf("different keyword should miss the cache")
	}
}

func TestNearbyErrors(t *testing.T) {
	if _, err := NewPlacesService(nil, nil, time.Minute).Nearby(context.Background(), 1, 2, ""); !errors.Is(err, ErrPlacesNotConfigured) {
		t.Errorf("error = %v; want ErrPlacesNotConfigured", err)
	}

	searcher := &fakeSearcher{err: errors.New("OVER_QUERY_LIMIT")}
	cache := NewMemoryCache()
	if _, err := NewPlacesService(searcher, cache, time.Minute).Nearby(context.Background(), 1, 2, ""); err == nil {
		t.Error("expected search failure")
	}
	if cache.Len() != 0 {
		t.Error("failed search was cached")
	}
}

func TestNearbyKey(t *testing.T) {
	if got := NearbyKey(18.7912345678, 98.98, ""); got != "places:nearby:18.79123:98.98000:cafe" {
		t.Errorf("NearbyKey = %q", got)
	}
}
