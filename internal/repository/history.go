package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/skypeek/skypeek/internal/model"
)

// ErrNoHistory is the explicit marker for a user with zero search
// history entries.
var ErrNoHistory = errors.New("no search history")

// InsertSearch appends one search history entry. A single INSERT, so
// the append is atomic; no partial writes are possible.
func (r *Repository) InsertSearch(ctx context.Context, entry *model.SearchHistoryEntry) error {
	query := `
		INSERT INTO search_history (
			id, user_id, city, temperature, feels_like,
			humidity, wind_speed, description, searched_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.City,
		entry.Temperature,
		entry.FeelsLike,
		entry.Humidity,
		entry.WindSpeed,
		entry.Description,
		entry.SearchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert search entry: %w", err)
	}

	return nil
}

// RecentSearches returns up to limit entries for a user, most recent
// first. The ULID id is a secondary sort key so entries sharing a
// timestamp still come back in insertion order.
func (r *Repository) RecentSearches(ctx context.Context, userID string, limit int) ([]*model.SearchHistoryEntry, error) {
	query := `
		SELECT id, user_id, city, temperature, feels_like,
		       humidity, wind_speed, description, searched_at
		FROM search_history
		WHERE user_id = $1
		ORDER BY searched_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent searches: %w", err)
	}
	defer rows.Close()

	entries := make([]*model.SearchHistoryEntry, 0, limit)
	for rows.Next() {
		entry, err := scanSearchEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// LastSearch returns the single most recent entry for a user, or
// ErrNoHistory if the user has never searched.
func (r *Repository) LastSearch(ctx context.Context, userID string) (*model.SearchHistoryEntry, error) {
	entries, err := r.RecentSearches(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoHistory
	}
	return entries[0], nil
}

// DistinctCities returns up to limit distinct city strings containing
// query as a case-insensitive substring, most recently searched first.
func (r *Repository) DistinctCities(ctx context.Context, query string, limit int) ([]string, error) {
	sql := `
		SELECT city
		FROM search_history
		WHERE city ILIKE $1
		GROUP BY city
		ORDER BY MAX(searched_at) DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, sql, containsPattern(query), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct cities: %w", err)
	}
	defer rows.Close()

	cities := make([]string, 0, limit)
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, city)
	}

	return cities, rows.Err()
}

// scanSearchEntry scans a row into a SearchHistoryEntry.
func scanSearchEntry(rows pgx.Rows) (*model.SearchHistoryEntry, error) {
	var entry model.SearchHistoryEntry
	err := rows.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.City,
		&entry.Temperature,
		&entry.FeelsLike,
		&entry.Humidity,
		&entry.WindSpeed,
		&entry.Description,
		&entry.SearchedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// containsPattern builds an ILIKE pattern matching q as a substring,
// escaping LIKE metacharacters in q so they match literally.
func containsPattern(q string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(q)
	return "%" + escaped + "%"
}
