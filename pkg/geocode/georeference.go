package geocode

import (
	"context"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/schlagwetter/internal/model"
)

// DefaultDelay is the fixed pause between two lookups.
const DefaultDelay = 100 * time.Millisecond

// Outcome is the result of geocoding a set of locations.
type Outcome struct {
	// Coordinates has an entry for every location; misses map to nil.
	Coordinates model.CoordinateMap
	// Missed lists the unresolved locations in lookup order.
	Missed []string
}

// BatchOption configures Georeference.
type BatchOption func(*batchConfig)

type batchConfig struct {
	delay    time.Duration
	progress func(done, total int, location string)
}

// WithDelay sets the pause between a response and the next request. Zero or
// less disables throttling.
func WithDelay(d time.Duration) BatchOption {
	return func(c *batchConfig) {
		c.delay = d
	}
}

// WithProgress registers a callback invoked after each lookup.
func WithProgress(fn func(done, total int, location string)) BatchOption {
	return func(c *batchConfig) {
		c.progress = fn
	}
}

// pause waits d or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Georeference looks up each distinct location once, one request at a time,
// pausing a fixed delay after every response before the next request. Misses are collected and do not stop the batch; a
// transport or decoding error aborts it.
func Georeference(ctx context.Context, c Client, locations []string, opts ...BatchOption) (*Outcome, error) {
	cfg := batchConfig{delay: DefaultDelay}
	for _, opt := range opts {
		opt(&cfg)
	}

	unique := dedupe(locations)
	out := &Outcome{Coordinates: make(model.CoordinateMap, len(unique))}
	for _, loc := range unique {
		out.Coordinates[loc] = nil
	}

	for i, loc := range unique {
		if i > 0 {
			if err := pause(ctx, cfg.delay); err != nil {
				return nil, eris.Wrap(err, "geocode: pause")
			}
		} else if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "geocode: pause")
		}

		res, err := c.Geocode(ctx, loc)
		if err != nil {
			return nil, err
		}

		if res.Matched {
			out.Coordinates[loc] = res.Coordinate
		} else {
			out.Missed = append(out.Missed, loc)
			zap.L().Warn("error while georeferencing",
				zap.String("location", loc),
				zap.Int("status", res.StatusCode),
			)
		}

		if cfg.progress != nil {
			cfg.progress(i+1, len(unique), loc)
		}
	}

	zap.L().Info("georeference complete",
		zap.Int("locations", len(unique)),
		zap.Int("missed", len(out.Missed)),
	)
	return out, nil
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
