package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/skypeek/skypeek/internal/model"
)

// Overview returns counts over the whole search history log: total
// entries, distinct users, and distinct city strings (exact,
// case-sensitive grouping).
func (r *Repository) Overview(ctx context.Context) (*model.StatsOverview, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(DISTINCT user_id),
		       COUNT(DISTINCT city)
		FROM search_history
	`

	var overview model.StatsOverview
	err := r.pool.QueryRow(ctx, query).Scan(
		&overview.TotalSearches,
		&overview.TotalUsers,
		&overview.UniqueCities,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats overview: %w", err)
	}

	return &overview, nil
}

// TopCities groups all entries by exact city string and returns up to
// limit groups sorted by count descending. Ties on count break by city
// string ascending so the leaderboard is deterministic.
func (r *Repository) TopCities(ctx context.Context, limit int) ([]model.CityCount, error) {
	query := `
		SELECT city, COUNT(*) AS searches, MAX(searched_at) AS last_search
		FROM search_history
		GROUP BY city
		ORDER BY searches DESC, city ASC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top cities: %w", err)
	}
	defer rows.Close()

	cities := make([]model.CityCount, 0, limit)
	for rows.Next() {
		var c model.CityCount
		if err := rows.Scan(&c.City, &c.Count, &c.LastSearch); err != nil {
			return nil, fmt.Errorf("failed to scan city count: %w", err)
		}
		cities = append(cities, c)
	}

	return cities, rows.Err()
}

// DailyCounts buckets entries with since < searched_at <= until by UTC
// calendar date, ascending.
func (r *Repository) DailyCounts(ctx context.Context, since, until time.Time) ([]model.DailyCount, error) {
	query := `
		SELECT (searched_at AT TIME ZONE 'UTC')::date AS day, COUNT(*)
		FROM search_history
		WHERE searched_at > $1 AND searched_at <= $2
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := r.pool.Query(ctx, query, since, until)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily counts: %w", err)
	}
	defer rows.Close()

	var counts []model.DailyCount
	for rows.Next() {
		var day time.Time
		var count int64
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("failed to scan daily count: %w", err)
		}
		counts = append(counts, model.DailyCount{
			Date:  day.Format("2006-01-02"),
			Count: count,
		})
	}

	return counts, rows.Err()
}

// CityAggregate holds the aggregate row for a per-city detail query.
// Averages are raw; rounding is the service's concern.
type CityAggregate struct {
	TotalSearches  int64
	UniqueUsers    int64
	FirstSearch    time.Time
	LastSearch     time.Time
	AvgTemperature float64
	AvgHumidity    float64
	AvgWindSpeed   float64
}

// CityAggregates computes totals and means over all entries whose city
// contains cityQuery as a case-insensitive substring. A zero
// TotalSearches means no entry matched.
func (r *Repository) CityAggregates(ctx context.Context, cityQuery string) (*CityAggregate, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(DISTINCT user_id),
		       COALESCE(MIN(searched_at), 'epoch'::timestamptz),
		       COALESCE(MAX(searched_at), 'epoch'::timestamptz),
		       COALESCE(AVG(temperature), 0),
		       COALESCE(AVG(humidity), 0),
		       COALESCE(AVG(wind_speed), 0)
		FROM search_history
		WHERE city ILIKE $1
	`

	var agg CityAggregate
	err := r.pool.QueryRow(ctx, query, containsPattern(cityQuery)).Scan(
		&agg.TotalSearches,
		&agg.UniqueUsers,
		&agg.FirstSearch,
		&agg.LastSearch,
		&agg.AvgTemperature,
		&agg.AvgHumidity,
		&agg.AvgWindSpeed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query city aggregates: %w", err)
	}

	return &agg, nil
}

// TopConditions returns the limit most frequent description strings
// among entries matching cityQuery. Ties on count break by earliest
// first occurrence: MIN(id) over the time-sortable ULID primary key
// equals insertion order, so the ranking is stable across runs.
func (r *Repository) TopConditions(ctx context.Context, cityQuery string, limit int) ([]model.ConditionCount, error) {
	query := `
		SELECT description, COUNT(*) AS occurrences
		FROM search_history
		WHERE city ILIKE $1
		GROUP BY description
		ORDER BY occurrences DESC, MIN(id) ASC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, containsPattern(cityQuery), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top conditions: %w", err)
	}
	defer rows.Close()

	conditions := make([]model.ConditionCount, 0, limit)
	for rows.Next() {
		var c model.ConditionCount
		if err := rows.Scan(&c.Description, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan condition count: %w", err)
		}
		conditions = append(conditions, c)
	}

	return conditions, rows.Err()
}
