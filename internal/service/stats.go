package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/skypeek/skypeek/internal/model"
	"github.com/skypeek/skypeek/internal/repository"
)

const (
	// TopCitiesLimit is the leaderboard size.
	TopCitiesLimit = 20
	// TopConditionsLimit is the popular-conditions list size.
	TopConditionsLimit = 5
	// dailyWindow is the trailing window for daily counts.
	dailyWindow = 7 * 24 * time.Hour
)

// StatsStore is the persistence contract for aggregate queries over the
// whole history log.
type StatsStore interface {
	Overview(ctx context.Context) (*model.StatsOverview, error)
	TopCities(ctx context.Context, limit int) ([]model.CityCount, error)
	DailyCounts(ctx context.Context, since, until time.Time) ([]model.DailyCount, error)
	CityAggregates(ctx context.Context, cityQuery string) (*repository.CityAggregate, error)
	TopConditions(ctx context.Context, cityQuery string, limit int) ([]model.ConditionCount, error)
}

// StatsSummary bundles the global statistics views.
type StatsSummary struct {
	Overview   model.StatsOverview `json:"overview"`
	TopCities  []model.CityCount   `json:"top_cities"`
	DailyStats []model.DailyCount  `json:"daily_stats"`
}

// StatsService computes read-only aggregates over the search history.
type StatsService struct {
	store StatsStore
	now   func() time.Time
}

// NewStatsService creates a new StatsService.
func NewStatsService(store StatsStore) *StatsService {
	return &StatsService{
		store: store,
		now:   time.Now,
	}
}

// Summary returns the global overview, the top-20 city leaderboard, and
// per-day counts for the trailing 7 days (exclusive lower bound,
// inclusive upper bound, UTC calendar dates, ascending).
func (s *StatsService) Summary(ctx context.Context) (*StatsSummary, error) {
	overview, err := s.store.Overview(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats overview: %w", err)
	}

	topCities, err := s.store.TopCities(ctx, TopCitiesLimit)
	if err != nil {
		return nil, fmt.Errorf("top cities: %w", err)
	}

	until := s.now().UTC()
	daily, err := s.store.DailyCounts(ctx, until.Add(-dailyWindow), until)
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}

	if topCities == nil {
		topCities = []model.CityCount{}
	}
	if daily == nil {
		daily = []model.DailyCount{}
	}

	return &StatsSummary{
		Overview:   *overview,
		TopCities:  topCities,
		DailyStats: daily,
	}, nil
}

// CityDetail computes the statistics summary for entries whose city
// contains cityQuery as a case-insensitive substring. Zero matches is
// ErrCityStatsNotFound. Averages come back rounded to 1 decimal;
// conditions are the top 5 with first-encountered tie order.
func (s *StatsService) CityDetail(ctx context.Context, cityQuery string) (*model.CityStats, error) {
	agg, err := s.store.CityAggregates(ctx, cityQuery)
	if err != nil {
		return nil, fmt.Errorf("city aggregates %q: %w", cityQuery, err)
	}
	if agg.TotalSearches == 0 {
		return nil, ErrCityStatsNotFound
	}

	conditions, err := s.store.TopConditions(ctx, cityQuery, TopConditionsLimit)
	if err != nil {
		return nil, fmt.Errorf("top conditions %q: %w", cityQuery, err)
	}
	if conditions == nil {
		conditions = []model.ConditionCount{}
	}

	return &model.CityStats{
		Query:          cityQuery,
		TotalSearches:  agg.TotalSearches,
		UniqueUsers:    agg.UniqueUsers,
		FirstSearch:    agg.FirstSearch,
		LastSearch:     agg.LastSearch,
		AvgTemperature: round1(agg.AvgTemperature),
		AvgHumidity:    round1(agg.AvgHumidity),
		AvgWindSpeed:   round1(agg.AvgWindSpeed),
		TopConditions:  conditions,
	}, nil
}

// round1 rounds to 1 decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
