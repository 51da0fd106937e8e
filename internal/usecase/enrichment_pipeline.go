package usecase

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/calorietrack/backend/internal/domain"
)

// EnrichConfig holds the tuning knobs of the enrichment pipeline. The
// gaps and retry bases exist to keep the shared API key under the
// upstream rate limit; the defaults come from observed behavior, not a
// documented contract, so they are configurable.
type EnrichConfig struct {
	MaxAttempts    int           // detail fetch attempts per ingredient
	BaseGap        time.Duration // pause between consecutive ingredients
	BatchPause     time.Duration // extra pause every BatchEvery ingredients
	BatchEvery     int
	RetryBase429   time.Duration // backoff base when rate limited without Retry-After
	RetryBaseOther time.Duration // backoff base for other failures
	CacheTTL       time.Duration
}

// DefaultEnrichConfig returns the production tuning.
func DefaultEnrichConfig() EnrichConfig {
	return EnrichConfig{
		MaxAttempts:    3,
		BaseGap:        250 * time.Millisecond,
		BatchPause:     50 * time.Millisecond,
		BatchEvery:     50,
		RetryBase429:   800 * time.Millisecond,
		RetryBaseOther: 300 * time.Millisecond,
		CacheTTL:       720 * time.Hour,
	}
}

// EnrichmentPipeline fetches nutrition detail for a list of ingredients
// strictly sequentially, one request at a time, so a multi-hundred-item
// run never bursts past the upstream rate limit.
type EnrichmentPipeline struct {
	client domain.IngredientClient
	cache  domain.DetailCache // optional
	config EnrichConfig
}

// NewEnrichmentPipeline creates a pipeline. cache may be nil to disable
// detail caching.
func NewEnrichmentPipeline(client domain.IngredientClient, cache domain.DetailCache, config EnrichConfig) *EnrichmentPipeline {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	return &EnrichmentPipeline{
		client: client,
		cache:  cache,
		config: config,
	}
}

// Enrich processes ids in the order given and sends each successfully
// enriched item on the returned channel as soon as its fetch completes,
// so a caller can update a result list row by row. An ingredient whose
// retries are exhausted is skipped silently; the caller's light entry
// for it stands as final. The channel closes when all ids are processed
// or ctx is cancelled, whichever comes first. The sequence is finite and
// not restartable.
func (p *EnrichmentPipeline) Enrich(ctx context.Context, ids []int) <-chan domain.EnrichedFoodItem {
	out := make(chan domain.EnrichedFoodItem)

	go func() {
		defer close(out)

		for idx, id := range ids {
			if ctx.Err() != nil {
				return
			}

			if item, ok := p.fromCache(ctx, id); ok {
				if !p.emit(ctx, out, item) {
					return
				}
				// A cache hit made no request, so no gap is needed.
				continue
			}

			item, err := p.fetchWithRetry(ctx, id)
			switch {
			case err == nil:
				p.toCache(ctx, id, item)
				if !p.emit(ctx, out, *item) {
					return
				}
			case ctx.Err() != nil:
				return
			default:
				// Exhausted retries: skip this ingredient, keep going.
				log.Printf("[ENRICH] skipping id=%d after %d attempts: %v", id, p.config.MaxAttempts, err)
			}

			if !sleepCtx(ctx, p.config.BaseGap) {
				return
			}
			if p.config.BatchEvery > 0 && (idx+1)%p.config.BatchEvery == 0 {
				if !sleepCtx(ctx, p.config.BatchPause) {
					return
				}
			}
		}
	}()

	return out
}

// fetchWithRetry attempts a detail fetch up to MaxAttempts times. A 429
// waits out the server's Retry-After when present, otherwise an
// exponential backoff; any other failure backs off on a shorter base.
// Both kinds of failure count against the same attempt cap.
func (p *EnrichmentPipeline) fetchWithRetry(ctx context.Context, id int) (*domain.EnrichedFoodItem, error) {
	var lastErr error

	attempt := 0
	for attempt < p.config.MaxAttempts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item, err := p.client.FetchDetail(ctx, id)
		if err == nil {
			return item, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err

		var wait time.Duration
		var se *domain.StatusError
		if errors.As(err, &se) && se.Code == 429 {
			wait = se.RetryAfter
			if wait == 0 {
				wait = backoff(p.config.RetryBase429, attempt)
			}
			attempt++
		} else {
			attempt++
			wait = backoff(p.config.RetryBaseOther, attempt)
		}

		if !sleepCtx(ctx, wait) {
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

func (p *EnrichmentPipeline) fromCache(ctx context.Context, id int) (domain.EnrichedFoodItem, bool) {
	if p.cache == nil {
		return domain.EnrichedFoodItem{}, false
	}
	item, err := p.cache.Get(ctx, id)
	if err != nil {
		return domain.EnrichedFoodItem{}, false
	}
	return *item, true
}

func (p *EnrichmentPipeline) toCache(ctx context.Context, id int, item *domain.EnrichedFoodItem) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Set(ctx, id, item, p.config.CacheTTL); err != nil {
		log.Printf("[ENRICH] cache set failed for id=%d: %v", id, err)
	}
}

// emit sends item unless ctx is cancelled first. Returns false when the
// pipeline should stop.
func (p *EnrichmentPipeline) emit(ctx context.Context, out chan<- domain.EnrichedFoodItem, item domain.EnrichedFoodItem) bool {
	select {
	case out <- item:
		return true
	case <-ctx.Done():
		return false
	}
}

// backoff is base * 2^attempt.
func backoff(base time.Duration, attempt int) time.Duration {
	return time.Duration(float64(base) * math.Pow(2, float64(attempt)))
}

// sleepCtx sleeps for d unless ctx is cancelled first. Returns false on
// cancellation.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
