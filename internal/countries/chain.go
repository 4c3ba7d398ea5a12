package countries

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/borders/apps/go-server/internal/territory"
)

// Named labels a source for logs.
type Named struct {
	Name   string
	Source territory.Source
}

// Chain tries each source in order; the first success wins.
type Chain []Named

func (c Chain) FetchAll(ctx context.Context) ([]territory.Record, error) {
	if len(c) == 0 {
		return nil, fmt.Errorf("%w: no sources configured", territory.ErrDataSource)
	}
	var errs []error
	for _, n := range c {
		recs, err := n.Source.FetchAll(ctx)
		if err == nil {
			log.Info().Str("source", n.Name).Int("records", len(recs)).Msg("territories fetched")
			return recs, nil
		}
		log.Warn().Err(err).Str("source", n.Name).Msg("territory source failed")
		errs = append(errs, fmt.Errorf("%s: %w", n.Name, err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("%w: all sources failed: %w", territory.ErrDataSource, errors.Join(errs...))
}
