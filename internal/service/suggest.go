package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/skypeek/skypeek/internal/metrics"
	"github.com/skypeek/skypeek/internal/model"
	"github.com/skypeek/skypeek/internal/weather"
)

const (
	// minSuggestQueryRunes is the fast-reject threshold; shorter
	// queries return empty without touching the store or provider.
	minSuggestQueryRunes = 2
	// maxHistorySuggestions caps history-derived candidates.
	maxHistorySuggestions = 5
	// maxSuggestions caps the merged result.
	maxSuggestions = 8
	// providerCandidateLimit is how many raw geocoding candidates to request.
	providerCandidateLimit = 8
)

// CityHistory is the store contract for history-derived suggestions.
type CityHistory interface {
	DistinctCities(ctx context.Context, query string, limit int) ([]string, error)
}

// SuggestService merges history-derived and provider-derived city name
// candidates into a deduplicated autocomplete list.
type SuggestService struct {
	history  CityHistory
	searcher weather.CitySearcher
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewSuggestService creates a new SuggestService.
func NewSuggestService(history CityHistory, searcher weather.CitySearcher, recorder metrics.Recorder, logger *slog.Logger) *SuggestService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &SuggestService{
		history:  history,
		searcher: searcher,
		metrics:  recorder,
		logger:   logger.With("component", "service.suggest"),
	}
}

// Suggest returns up to 8 city suggestions for a query: history matches
// first (at most 5, most recently searched first), then provider
// candidates in provider order, deduplicated case-insensitively.
//
// Unlike weather resolution, the provider here is best-effort: its
// failure is logged and suppressed, degrading to history-only results.
func (s *SuggestService) Suggest(ctx context.Context, query string) ([]model.CitySuggestion, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSuggestQueryRunes {
		return []model.CitySuggestion{}, nil
	}

	cities, err := s.history.DistinctCities(ctx, query, maxHistorySuggestions)
	if err != nil {
		return nil, fmt.Errorf("history suggestions %q: %w", query, err)
	}

	suggestions := make([]model.CitySuggestion, 0, maxSuggestions)
	seen := make(map[string]bool, maxSuggestions)
	for _, city := range cities {
		suggestions = append(suggestions, model.CitySuggestion{
			Name:   city,
			Source: model.SuggestionSourceHistory,
		})
		seen[strings.ToLower(city)] = true
	}

	if len(suggestions) >= maxHistorySuggestions {
		return suggestions, nil
	}

	candidates, err := s.searcher.Search(ctx, query, providerCandidateLimit)
	if err != nil {
		s.logger.Warn("city search provider failed, serving history only",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		s.metrics.IncSuggestDegraded()
		return suggestions, nil
	}

	for _, candidate := range candidates {
		if len(suggestions) >= maxSuggestions {
			break
		}
		name := displayName(candidate)
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		suggestions = append(suggestions, model.CitySuggestion{
			Name:   name,
			Source: model.SuggestionSourceProvider,
		})
	}

	return suggestions, nil
}
