package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultLimit   = 20
	MaxLimit       = 50
	MinQueryLength = 2
)

// SearchResult is the merged answer to a text search. Total counts unique
// tracks before truncation to the requested limit.
type SearchResult struct {
	Tracks []Track `json:"tracks"`
	Total  int     `json:"total"`
	Query  string  `json:"query"`
}

type AggregatorOptions struct {
	// ProviderTimeout bounds each provider call independently.
	ProviderTimeout time.Duration
	// TrendingTTL memoises Trending per limit. Zero disables the cache.
	TrendingTTL time.Duration
	Logger      *slog.Logger
}

// Aggregator fans a request out to every provider concurrently, waits for all
// of them to settle and merges what succeeded. Provider order is fixed and
// decides which duplicate survives.
type Aggregator struct {
	providers []Provider
	byName    map[string]Provider
	timeout   time.Duration
	logger    *slog.Logger
	trending  *ttlCache
}

func NewAggregator(providers []Provider, opts AggregatorOptions) *Aggregator {
	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	a := &Aggregator{
		providers: providers,
		byName:    byName,
		timeout:   opts.ProviderTimeout,
		logger:    opts.Logger,
	}
	if opts.TrendingTTL > 0 {
		a.trending = newTTLCache(opts.TrendingTTL)
	}
	return a
}

// Providers returns the active provider names in iteration order.
func (a *Aggregator) Providers() []string {
	names := make([]string, 0, len(a.providers))
	for _, p := range a.providers {
		names = append(names, p.Name())
	}
	return names
}

// NormalizeLimit applies the default and clamps to [1, MaxLimit].
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// perProvider splits limit across n providers with ceiling division.
func perProvider(limit, n int) int {
	if n <= 0 {
		return 0
	}
	return (limit + n - 1) / n
}

// Search runs query against every provider. It only fails when the query is
// shorter than MinQueryLength after trimming.
func (a *Aggregator) Search(ctx context.Context, query string, limit int) (SearchResult, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return SearchResult{}, fmt.Errorf("%w: search query must be at least %d characters", ErrInvalidArgument, MinQueryLength)
	}
	limit = NormalizeLimit(limit)
	searchRequests.WithLabelValues("search").Inc()

	n := perProvider(limit, len(a.providers))
	unique := Dedupe(a.fanOut(ctx, "search", func(ctx context.Context, p Provider) ([]Track, error) {
		return p.Search(ctx, query, n)
	}))

	return SearchResult{
		Tracks: truncate(unique, limit),
		Total:  len(unique),
		Query:  query,
	}, nil
}

// Trending merges every provider's chart. Providers without a chart add
// nothing. Results are cached per limit when a TTL is configured.
func (a *Aggregator) Trending(ctx context.Context, limit int) []Track {
	limit = NormalizeLimit(limit)
	searchRequests.WithLabelValues("trending").Inc()

	if a.trending != nil {
		if cached, ok := a.trending.get(limit); ok {
			return cached
		}
	}

	n := perProvider(limit, len(a.providers))
	tracks := truncate(Dedupe(a.fanOut(ctx, "chart", func(ctx context.Context, p Provider) ([]Track, error) {
		return p.Chart(ctx, n)
	})), limit)

	// An empty merge usually means every upstream failed; don't pin that.
	if a.trending != nil && len(tracks) > 0 {
		a.trending.put(limit, tracks)
	}
	return tracks
}

// Track resolves a prefixed id against the provider that minted it.
func (a *Aggregator) Track(ctx context.Context, id string) (Track, error) {
	searchRequests.WithLabelValues("track").Inc()

	name, native, err := ParseID(id)
	if err != nil {
		return Track{}, err
	}
	p, ok := a.byName[name]
	if !ok {
		return Track{}, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	t, err := p.Track(ctx, native)
	if err != nil {
		if !errors.Is(err, ErrTrackNotFound) {
			a.logger.Warn("Track lookup failed", "provider", name, "id", id, "error", err)
		}
		return Track{}, fmt.Errorf("%w: %s", ErrTrackNotFound, id)
	}
	return t, nil
}

// fanOut calls fn once per provider in parallel, each under its own timeout,
// and concatenates the successful results in provider order.
func (a *Aggregator) fanOut(ctx context.Context, op string, fn func(context.Context, Provider) ([]Track, error)) []Track {
	results := make([][]Track, len(a.providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range a.providers {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(gctx, a.timeout)
			defer cancel()

			tracks, err := fn(pctx, p)
			if err != nil {
				a.logger.Warn("Provider failed", "provider", p.Name(), "op", op, "error", err)
				return nil
			}
			results[i] = tracks
			return nil
		})
	}
	_ = g.Wait()

	var merged []Track
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged
}

func truncate(tracks []Track, limit int) []Track {
	if len(tracks) > limit {
		return tracks[:limit]
	}
	if tracks == nil {
		return []Track{}
	}
	return tracks
}
