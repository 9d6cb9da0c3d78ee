package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skypeek/skypeek/internal/model"
	"github.com/skypeek/skypeek/internal/repository"
)

type fakeStatsStore struct {
	overview   model.StatsOverview
	topCities  []model.CityCount
	daily      []model.DailyCount
	aggregate  repository.CityAggregate
	conditions []model.ConditionCount

	dailySince time.Time
	dailyUntil time.Time
}

func (f *fakeStatsStore) Overview(ctx context.Context) (*model.StatsOverview, error) {
	return &f.overview, nil
}

func (f *fakeStatsStore) TopCities(ctx context.Context, limit int) ([]model.CityCount, error) {
	if len(f.topCities) > limit {
		return f.topCities[:limit], nil
	}
	return f.topCities, nil
}

func (f *fakeStatsStore) DailyCounts(ctx context.Context, since, until time.Time) ([]model.DailyCount, error) {
	f.dailySince = since
	f.dailyUntil = until
	return f.daily, nil
}

func (f *fakeStatsStore) CityAggregates(ctx context.Context, cityQuery string) (*repository.CityAggregate, error) {
	agg := f.aggregate
	return &agg, nil
}

func (f *fakeStatsStore) TopConditions(ctx context.Context, cityQuery string, limit int) ([]model.ConditionCount, error) {
	if len(f.conditions) > limit {
		return f.conditions[:limit], nil
	}
	return f.conditions, nil
}

func TestSummary_TrailingSevenDayWindow(t *testing.T) {
	store := &fakeStatsStore{}
	svc := NewStatsService(store)

	fixed := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	if _, err := svc.Summary(context.Background()); err != nil {
		t.Fatalf("Summary: %v", err)
	}

	if !store.dailyUntil.Equal(fixed) {
		t.Errorf("expected until %v, got %v", fixed, store.dailyUntil)
	}
	wantSince := fixed.Add(-7 * 24 * time.Hour)
	if !store.dailySince.Equal(wantSince) {
		t.Errorf("expected since %v, got %v", wantSince, store.dailySince)
	}
}

func TestSummary_EmptySlicesNotNil(t *testing.T) {
	store := &fakeStatsStore{
		overview: model.StatsOverview{TotalSearches: 0, TotalUsers: 0, UniqueCities: 0},
	}
	svc := NewStatsService(store)

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.TopCities == nil {
		t.Error("expected non-nil TopCities")
	}
	if summary.DailyStats == nil {
		t.Error("expected non-nil DailyStats")
	}
}

func TestSummary_PassesThroughViews(t *testing.T) {
	store := &fakeStatsStore{
		overview: model.StatsOverview{TotalSearches: 42, TotalUsers: 7, UniqueCities: 5},
		topCities: []model.CityCount{
			{City: "Москва, RU", Count: 20},
			{City: "Paris, FR", Count: 12},
		},
		daily: []model.DailyCount{
			{Date: "2025-03-14", Count: 3},
			{Date: "2025-03-15", Count: 9},
		},
	}
	svc := NewStatsService(store)

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.Overview.TotalSearches != 42 {
		t.Errorf("expected 42 total searches, got %d", summary.Overview.TotalSearches)
	}
	if len(summary.TopCities) != 2 || summary.TopCities[0].City != "Москва, RU" {
		t.Errorf("unexpected top cities: %v", summary.TopCities)
	}
	if len(summary.DailyStats) != 2 || summary.DailyStats[0].Date != "2025-03-14" {
		t.Errorf("unexpected daily stats: %v", summary.DailyStats)
	}
}

func TestCityDetail_NotFound(t *testing.T) {
	store := &fakeStatsStore{aggregate: repository.CityAggregate{TotalSearches: 0}}
	svc := NewStatsService(store)

	_, err := svc.CityDetail(context.Background(), "Nowhereville")
	if !errors.Is(err, ErrCityStatsNotFound) {
		t.Fatalf("expected ErrCityStatsNotFound, got %v", err)
	}
}

func TestCityDetail_RoundsAverages(t *testing.T) {
	first := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	last := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)
	store := &fakeStatsStore{
		aggregate: repository.CityAggregate{
			TotalSearches:  2,
			UniqueUsers:    2,
			FirstSearch:    first,
			LastSearch:     last,
			AvgTemperature: 12.3456,
			AvgHumidity:    67.5,
			AvgWindSpeed:   4.04,
		},
		conditions: []model.ConditionCount{
			{Description: "Ясно", Count: 2},
		},
	}
	svc := NewStatsService(store)

	stats, err := svc.CityDetail(context.Background(), "мос")
	if err != nil {
		t.Fatalf("CityDetail: %v", err)
	}

	if stats.Query != "мос" {
		t.Errorf("expected query echoed back, got %s", stats.Query)
	}
	if stats.AvgTemperature != 12.3 {
		t.Errorf("expected avg temperature 12.3, got %v", stats.AvgTemperature)
	}
	if stats.AvgHumidity != 67.5 {
		t.Errorf("expected avg humidity 67.5, got %v", stats.AvgHumidity)
	}
	if stats.AvgWindSpeed != 4.0 {
		t.Errorf("expected avg wind speed 4.0, got %v", stats.AvgWindSpeed)
	}
	if !stats.FirstSearch.Equal(first) || !stats.LastSearch.Equal(last) {
		t.Errorf("unexpected period: %v .. %v", stats.FirstSearch, stats.LastSearch)
	}
	if len(stats.TopConditions) != 1 || stats.TopConditions[0].Description != "Ясно" {
		t.Errorf("unexpected conditions: %v", stats.TopConditions)
	}
}

func TestRound1(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{12.34, 12.3},
		{12.36, 12.4},
		{-3.14, -3.1},
		{67.5, 67.5},
	}

	for _, tt := range tests {
		if got := round1(tt.in); got != tt.want {
			t.Errorf("round1(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
