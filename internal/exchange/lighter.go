package exchange

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/suwandre/fundingarb/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed lighter_markets.yaml
var defaultLighterMarkets []byte

type lighterMarketsFile struct {
	Markets map[string]int `yaml:"markets"`
}

// LoadLighterMarkets reads the asset -> market id table from path, or the
// built-in table when path is empty.
func LoadLighterMarkets(path string) (map[string]int, error) {
	data := defaultLighterMarkets
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read lighter markets file: %w", err)
		}
		data = b
	}
	return parseLighterMarkets(data)
}

func parseLighterMarkets(data []byte) (map[string]int, error) {
	var f lighterMarketsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("cannot parse lighter markets: %w", err)
	}
	if len(f.Markets) == 0 {
		return nil, fmt.Errorf("lighter markets: %w", ErrNoData)
	}

	markets := make(map[string]int, len(f.Markets))
	seen := make(map[int]string, len(f.Markets))
	for asset, id := range f.Markets {
		asset = strings.ToUpper(strings.TrimSpace(asset))
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("lighter markets: id %d used by both %s and %s", id, prev, asset)
		}
		seen[id] = asset
		markets[asset] = id
	}
	return markets, nil
}

// LighterAdapter serves the latest copy of the Lighter market stats
// stream as a regular exchange fetch.
type LighterAdapter struct {
	stream *LighterStream
}

func NewLighterAdapter(stream *LighterStream) *LighterAdapter {
	return &LighterAdapter{stream: stream}
}

func (l *LighterAdapter) Name() models.Venue {
	return models.VenueLighter
}

func (l *LighterAdapter) Fetch(ctx context.Context) (models.VenueData, error) {
	if err := ctx.Err(); err != nil {
		return models.VenueData{}, err
	}

	stats := l.stream.Snapshot()
	if len(stats) == 0 {
		return models.VenueData{}, fmt.Errorf("lighter stream: %w", ErrNoData)
	}
	return models.VenueData{Venue: models.VenueLighter, Lighter: stats}, nil
}

func (l *LighterAdapter) Updates() <-chan struct{} {
	return l.stream.Updates()
}
