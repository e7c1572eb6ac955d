package exchange

import (
	"context"
	"fmt"

	"github.com/suwandre/fundingarb/internal/models"
)

type ParadexAdapter struct {
	client *restClient
}

func NewParadexAdapter(cfg RESTConfig) *ParadexAdapter {
	return &ParadexAdapter{client: newRESTClient("paradex", cfg)}
}

func (p *ParadexAdapter) Name() models.Venue {
	return models.VenueParadex
}

func (p *ParadexAdapter) Fetch(ctx context.Context) (models.VenueData, error) {
	var raw struct {
		Results []models.ParadexMarketSummary `json:"results"`
	}

	if err := p.client.getJSON(ctx, "/markets/summary?market=ALL", &raw); err != nil {
		return models.VenueData{}, err
	}

	if len(raw.Results) == 0 {
		return models.VenueData{}, fmt.Errorf("paradex summaries: %w", ErrNoData)
	}

	return models.VenueData{Venue: models.VenueParadex, Paradex: raw.Results}, nil
}
