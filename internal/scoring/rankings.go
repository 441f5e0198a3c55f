// internal/scoring/rankings.go
package scoring

import (
	"context"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/metrics"
	"github.com/shrimpsizemoose/semla/internal/models"
)

const DefaultRankingLimit = 10

// RankingCache stores computed rankings per kind, round and limit.
type RankingCache interface {
	Get(ctx context.Context, kind, round string, limit int, dst any) bool
	Set(ctx context.Context, kind, round string, limit int, value any) error
	Invalidate(ctx context.Context, kind, round string) error
}

type noCache struct{}

func (noCache) Get(context.Context, string, string, int, any) bool  { return false }
func (noCache) Set(context.Context, string, string, int, any) error { return nil }
func (noCache) Invalidate(context.Context, string, string) error    { return nil }

func orNoCache(c RankingCache) RankingCache {
	if c == nil {
		return noCache{}
	}
	return c
}

func rankingLimit(limit int) int {
	if limit <= 0 {
		return DefaultRankingLimit
	}
	if limit > models.MaxPageSize {
		return models.MaxPageSize
	}
	return limit
}

// ranked fetches rankings through the cache, computing and storing them on a miss.
func ranked[T any](
	ctx context.Context,
	cache RankingCache,
	kind, round string,
	limit int,
	fetch func(context.Context, string, int) ([]models.RankedSubject, error),
	build func(rank int, row models.RankedSubject) T,
) ([]T, error) {
	limit = rankingLimit(limit)

	out := []T{}
	if cache.Get(ctx, kind, round, limit, &out) {
		return out, nil
	}

	rows, err := fetch(ctx, round, limit)
	if err != nil {
		return nil, err
	}

	out = make([]T, 0, len(rows))
	for i, row := range rows {
		out = append(out, build(i+1, row))
	}

	if err := cache.Set(ctx, kind, round, limit, out); err != nil {
		logger.Error.Printf("Failed to cache %s rankings for round %s: %v", kind, round, err)
	}
	return out, nil
}

// scoreWritten records a score write and drops the cached rankings of its round.
func scoreWritten(ctx context.Context, cache RankingCache, kind, round, action string, total float64) {
	metrics.ScoresSubmitted.WithLabelValues(kind, round, action).Inc()
	if action != "delete" {
		metrics.ScoreHistogram.WithLabelValues(kind, round).Observe(total)
	}
	if err := cache.Invalidate(ctx, kind, round); err != nil {
		logger.Error.Printf("Failed to invalidate %s rankings for round %s: %v", kind, round, err)
	}
}
