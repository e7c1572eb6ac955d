package exchange

import (
	"context"
	"fmt"
	"time"

	"github.com/suwandre/fundingarb/internal/models"
)

type GMXAdapter struct {
	client *restClient
	cache  *TTLCache[[]models.GMXMarket]
}

// NewGMXAdapter caches the market list for cacheTTL; GMX recomputes it
// far less often than the other venues refresh.
func NewGMXAdapter(cfg RESTConfig, cacheTTL time.Duration, now func() time.Time) *GMXAdapter {
	return &GMXAdapter{
		client: newRESTClient("gmx", cfg),
		cache:  NewTTLCache[[]models.GMXMarket](cacheTTL, now),
	}
}

func (g *GMXAdapter) Name() models.Venue {
	return models.VenueGMX
}

func (g *GMXAdapter) Fetch(ctx context.Context) (models.VenueData, error) {
	markets, err := g.cache.Get(ctx, g.fetchMarkets)
	if err != nil {
		return models.VenueData{}, err
	}
	return models.VenueData{Venue: models.VenueGMX, GMX: markets}, nil
}

func (g *GMXAdapter) fetchMarkets(ctx context.Context) ([]models.GMXMarket, error) {
	var raw struct {
		Markets []models.GMXMarket `json:"markets"`
	}

	if err := g.client.getJSON(ctx, "/markets/info", &raw); err != nil {
		return nil, err
	}

	if len(raw.Markets) == 0 {
		return nil, fmt.Errorf("gmx markets: %w", ErrNoData)
	}
	return raw.Markets, nil
}
