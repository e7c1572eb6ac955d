package exchange

import (
	"context"
	"fmt"

	"github.com/suwandre/fundingarb/internal/models"
)

type DriftAdapter struct {
	client *restClient
}

func NewDriftAdapter(cfg RESTConfig) *DriftAdapter {
	return &DriftAdapter{client: newRESTClient("drift", cfg)}
}

func (d *DriftAdapter) Name() models.Venue {
	return models.VenueDrift
}

// Fetches every Drift contract; spot and perp products come back together.
func (d *DriftAdapter) Fetch(ctx context.Context) (models.VenueData, error) {
	var raw struct {
		Contracts []models.DriftContract `json:"contracts"`
	}

	if err := d.client.getJSON(ctx, "/contracts", &raw); err != nil {
		return models.VenueData{}, err
	}

	if len(raw.Contracts) == 0 {
		return models.VenueData{}, fmt.Errorf("drift contracts: %w", ErrNoData)
	}

	return models.VenueData{Venue: models.VenueDrift, Drift: raw.Contracts}, nil
}
