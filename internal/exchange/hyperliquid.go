package exchange

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/suwandre/fundingarb/internal/models"
)

type HyperliquidAdapter struct {
	client *restClient
}

func NewHyperliquidAdapter(cfg RESTConfig) *HyperliquidAdapter {
	return &HyperliquidAdapter{client: newRESTClient("hyperliquid", cfg)}
}

func (h *HyperliquidAdapter) Name() models.Venue {
	return models.VenueHyperliquid
}

// Hyperliquid answers metaAndAssetCtxs with a two element array:
// [{"universe": [...]}, [ctx, ctx, ...]].
func (h *HyperliquidAdapter) Fetch(ctx context.Context) (models.VenueData, error) {
	var raw []json.RawMessage
	if err := h.client.postJSON(ctx, "/info", map[string]string{"type": "metaAndAssetCtxs"}, &raw); err != nil {
		return models.VenueData{}, err
	}

	if len(raw) < 2 {
		return models.VenueData{}, fmt.Errorf("hyperliquid: expected [meta, contexts], got %d elements", len(raw))
	}

	var meta models.HyperliquidMeta
	if err := json.Unmarshal(raw[0], &meta); err != nil {
		return models.VenueData{}, fmt.Errorf("hyperliquid: failed to parse meta: %w", err)
	}
	if err := json.Unmarshal(raw[1], &meta.Contexts); err != nil {
		return models.VenueData{}, fmt.Errorf("hyperliquid: failed to parse asset contexts: %w", err)
	}

	if len(meta.Universe) == 0 {
		return models.VenueData{}, fmt.Errorf("hyperliquid universe: %w", ErrNoData)
	}

	return models.VenueData{Venue: models.VenueHyperliquid, Hyperliquid: meta}, nil
}
