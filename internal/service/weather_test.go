package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/skypeek/skypeek/internal/model"
	"github.com/skypeek/skypeek/internal/repository"
	"github.com/skypeek/skypeek/internal/weather"
)

type fakeGeocoder struct {
	loc   weather.Location
	err   error
	calls int
}

func (f *fakeGeocoder) Geocode(ctx context.Context, city string) (weather.Location, error) {
	f.calls++
	return f.loc, f.err
}

type fakeFetcher struct {
	conditions weather.CurrentConditions
	err        error
	calls      int
}

func (f *fakeFetcher) Current(ctx context.Context, lat, lon float64) (weather.CurrentConditions, error) {
	f.calls++
	return f.conditions, f.err
}

type fakeHistoryStore struct {
	entries   []*model.SearchHistoryEntry
	insertErr error
	lastErr   error
	lastLimit int
}

func (f *fakeHistoryStore) InsertSearch(ctx context.Context, entry *model.SearchHistoryEntry) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeHistoryStore) RecentSearches(ctx context.Context, userID string, limit int) ([]*model.SearchHistoryEntry, error) {
	f.lastLimit = limit
	if limit > len(f.entries) {
		limit = len(f.entries)
	}
	out := make([]*model.SearchHistoryEntry, 0, limit)
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.entries[i])
	}
	return out, nil
}

func (f *fakeHistoryStore) LastSearch(ctx context.Context, userID string) (*model.SearchHistoryEntry, error) {
	if f.lastErr != nil {
		return nil, f.lastErr
	}
	if len(f.entries) == 0 {
		return nil, repository.ErrNoHistory
	}
	return f.entries[len(f.entries)-1], nil
}

func newTestWeatherService(geo *fakeGeocoder, fetch *fakeFetcher, store *fakeHistoryStore) *WeatherService {
	return NewWeatherService(geo, fetch, store, nil)
}

func TestResolve_BlankCityFailsFast(t *testing.T) {
	geo := &fakeGeocoder{}
	fetch := &fakeFetcher{}
	svc := newTestWeatherService(geo, fetch, &fakeHistoryStore{})

	for _, city := range []string{"", "   ", "\t\n"} {
		_, err := svc.Resolve(context.Background(), city)
		if !errors.Is(err, ErrCityRequired) {
			t.Errorf("Resolve(%q): expected ErrCityRequired, got %v", city, err)
		}
	}

	if geo.calls != 0 || fetch.calls != 0 {
		t.Errorf("expected no provider calls for blank input, got geocode=%d fetch=%d", geo.calls, fetch.calls)
	}
}

func TestResolve_ComposesDisplayName(t *testing.T) {
	tests := []struct {
		name string
		loc  weather.Location
		want string
	}{
		{
			name: "name state country",
			loc:  weather.Location{Name: "Springfield", State: "Illinois", Country: "US"},
			want: "Springfield, Illinois, US",
		},
		{
			name: "no state",
			loc:  weather.Location{Name: "Москва", Country: "RU"},
			want: "Москва, RU",
		},
		{
			name: "name only",
			loc:  weather.Location{Name: "Atlantis"},
			want: "Atlantis",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo := &fakeGeocoder{loc: tt.loc}
			fetch := &fakeFetcher{}
			svc := newTestWeatherService(geo, fetch, &fakeHistoryStore{})

			record, err := svc.Resolve(context.Background(), "anything")
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if record.City != tt.want {
				t.Errorf("expected city %q, got %q", tt.want, record.City)
			}
		})
	}
}

func TestResolve_CapitalizesDescriptionFirstRune(t *testing.T) {
	geo := &fakeGeocoder{loc: weather.Location{Name: "Москва", Country: "RU"}}
	fetch := &fakeFetcher{conditions: weather.CurrentConditions{
		Temperature: -3.5,
		FeelsLike:   -8.0,
		Humidity:    80,
		WindSpeed:   5.5,
		Description: "облачно с прояснениями",
	}}
	svc := newTestWeatherService(geo, fetch, &fakeHistoryStore{})

	record, err := svc.Resolve(context.Background(), "Москва")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if record.Description != "Облачно с прояснениями" {
		t.Errorf("expected capitalized description, got %q", record.Description)
	}
	if record.Humidity != 80 {
		t.Errorf("expected humidity 80, got %d", record.Humidity)
	}
}

func TestResolve_CityNotFound(t *testing.T) {
	geo := &fakeGeocoder{err: weather.ErrNoMatch}
	fetch := &fakeFetcher{}
	svc := newTestWeatherService(geo, fetch, &fakeHistoryStore{})

	_, err := svc.Resolve(context.Background(), "Nowhereville")
	if !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("expected ErrCityNotFound, got %v", err)
	}
	if fetch.calls != 0 {
		t.Errorf("expected no fetch after geocode miss, got %d calls", fetch.calls)
	}
}

func TestResolve_UpstreamErrorPropagates(t *testing.T) {
	upstream := fmt.Errorf("%w: unexpected status 503", weather.ErrUpstream)

	t.Run("geocode", func(t *testing.T) {
		svc := newTestWeatherService(&fakeGeocoder{err: upstream}, &fakeFetcher{}, &fakeHistoryStore{})
		_, err := svc.Resolve(context.Background(), "Paris")
		if !errors.Is(err, weather.ErrUpstream) {
			t.Fatalf("expected wrapped ErrUpstream, got %v", err)
		}
	})

	t.Run("fetch", func(t *testing.T) {
		geo := &fakeGeocoder{loc: weather.Location{Name: "Paris", Country: "FR"}}
		svc := newTestWeatherService(geo, &fakeFetcher{err: upstream}, &fakeHistoryStore{})
		_, err := svc.Resolve(context.Background(), "Paris")
		if !errors.Is(err, weather.ErrUpstream) {
			t.Fatalf("expected wrapped ErrUpstream, got %v", err)
		}
	})
}

func TestResolveAndRecord_AppendsHistory(t *testing.T) {
	geo := &fakeGeocoder{loc: weather.Location{Name: "Berlin", Country: "DE"}}
	fetch := &fakeFetcher{conditions: weather.CurrentConditions{
		Temperature: 18.2,
		FeelsLike:   17.9,
		Humidity:    55,
		WindSpeed:   3.1,
		Description: "ясно",
	}}
	store := &fakeHistoryStore{}
	svc := newTestWeatherService(geo, fetch, store)

	record, err := svc.ResolveAndRecord(context.Background(), "user-1", "Berlin")
	if err != nil {
		t.Fatalf("ResolveAndRecord: %v", err)
	}

	if len(store.entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(store.entries))
	}

	entry := store.entries[0]
	if entry.ID == "" {
		t.Error("expected non-empty entry ID")
	}
	if entry.UserID != "user-1" {
		t.Errorf("expected user-1, got %s", entry.UserID)
	}
	if entry.City != record.City || entry.Description != record.Description {
		t.Errorf("entry does not mirror record: %+v vs %+v", entry, record)
	}
	if !entry.SearchedAt.Equal(record.Timestamp) {
		t.Errorf("expected searched_at %v, got %v", record.Timestamp, entry.SearchedAt)
	}

	got, err := svc.LastCity(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("LastCity after append: %v", err)
	}
	if got.City != "Berlin, DE" {
		t.Errorf("expected last city Berlin, DE, got %s", got.City)
	}
}

func TestResolveAndRecord_ResolveFailureDoesNotWrite(t *testing.T) {
	store := &fakeHistoryStore{}
	svc := newTestWeatherService(&fakeGeocoder{err: weather.ErrNoMatch}, &fakeFetcher{}, store)

	_, err := svc.ResolveAndRecord(context.Background(), "user-1", "Nowhereville")
	if !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("expected ErrCityNotFound, got %v", err)
	}
	if len(store.entries) != 0 {
		t.Errorf("expected no history write on failed resolution, got %d entries", len(store.entries))
	}
}

func TestHistory_ClampsLimit(t *testing.T) {
	store := &fakeHistoryStore{}
	svc := newTestWeatherService(&fakeGeocoder{}, &fakeFetcher{}, store)

	tests := []struct {
		limit int
		want  int
	}{
		{limit: 0, want: DefaultHistoryLimit},
		{limit: -5, want: DefaultHistoryLimit},
		{limit: 3, want: 3},
		{limit: 500, want: MaxHistoryLimit},
	}

	for _, tt := range tests {
		if _, err := svc.History(context.Background(), "user-1", tt.limit); err != nil {
			t.Fatalf("History(%d): %v", tt.limit, err)
		}
		if store.lastLimit != tt.want {
			t.Errorf("History(%d): expected store limit %d, got %d", tt.limit, tt.want, store.lastLimit)
		}
	}
}

func TestLastCity_NoHistory(t *testing.T) {
	svc := newTestWeatherService(&fakeGeocoder{}, &fakeFetcher{}, &fakeHistoryStore{})

	_, err := svc.LastCity(context.Background(), "user-1")
	if !errors.Is(err, ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory, got %v", err)
	}
}

func TestCapitalizeFirst(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"clear sky", "Clear sky"},
		{"Already upper", "Already upper"},
		{"облачно", "Облачно"},
		{"ё", "Ё"},
	}

	for _, tt := range tests {
		if got := capitalizeFirst(tt.in); got != tt.want {
			t.Errorf("capitalizeFirst(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
