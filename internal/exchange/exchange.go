package exchange

import (
	"context"
	"errors"
	"time"

	"github.com/suwandre/fundingarb/internal/models"
)

// ErrNoData is returned when a venue answered but had nothing usable.
var ErrNoData = errors.New("no market data")

// Exchange fetches one venue's raw market records.
type Exchange interface {
	Name() models.Venue
	Fetch(ctx context.Context) (models.VenueData, error)
}

// Streaming is implemented by exchanges that push updates between
// scheduled refreshes.
type Streaming interface {
	Updates() <-chan struct{}
}

// RESTConfig is shared by every REST-backed adapter.
type RESTConfig struct {
	BaseURL string
	Timeout time.Duration
	RPS     float64 // requests per second, 0 disables limiting
}
