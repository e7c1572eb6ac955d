package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/suwandre/fundingarb/internal/exchange"
	"github.com/suwandre/fundingarb/internal/metrics"
	"github.com/suwandre/fundingarb/internal/models"
	"github.com/suwandre/fundingarb/internal/scorer"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrNoResult is returned before the first refresh has completed.
	ErrNoResult = errors.New("no result computed yet")
	ErrNotFound = errors.New("asset not found")
)

type Config struct {
	Interval     time.Duration
	FetchTimeout time.Duration
}

type Scheduler struct {
	exchanges      []exchange.Exchange
	lighterMarkets map[string]int
	cfg            Config
	metrics        *metrics.Metrics

	// scoreMu serializes scoring passes so a stream push never interleaves
	// with a full refresh.
	scoreMu  sync.Mutex
	snapshot models.Snapshot
	statuses map[models.Venue]*models.VenueStatus

	mu     sync.RWMutex
	latest *models.Result

	group  singleflight.Group
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// Holds either one venue's data or the error that kept it out.
type fetchResult struct {
	venue models.Venue
	data  models.VenueData
	err   error
}

func NewScheduler(exchanges []exchange.Exchange, lighterMarkets map[string]int, cfg Config, m *metrics.Metrics) *Scheduler {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 15 * time.Second
	}
	return &Scheduler{
		exchanges:      exchanges,
		lighterMarkets: lighterMarkets,
		cfg:            cfg,
		metrics:        m,
		statuses:       make(map[models.Venue]*models.VenueStatus),
		stopCh:         make(chan struct{}),
	}
}

// Begins the polling loop and the stream listeners in background
// goroutines. The first refresh runs before Start returns so the cache
// isn't empty on the first request.
func (s *Scheduler) Start(ctx context.Context) {
	s.refresh(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := s.Refresh(ctx); err != nil {
					log.Error().Err(err).Msg("scheduled refresh failed")
				}
			case <-ctx.Done():
				return
			case <-s.stopCh:
				log.Info().Msg("scheduler stopped")
				return
			}
		}
	}()

	for _, ex := range s.exchanges {
		st, ok := ex.(exchange.Streaming)
		if !ok {
			continue
		}
		s.wg.Add(1)
		go func(ex exchange.Exchange, updates <-chan struct{}) {
			defer s.wg.Done()
			for {
				select {
				case <-updates:
					s.rescore(ctx, ex)
				case <-ctx.Done():
					return
				case <-s.stopCh:
					return
				}
			}
		}(ex, st.Updates())
	}

	log.Info().
		Stringer("interval", s.cfg.Interval).
		Int("exchanges", len(s.exchanges)).
		Msg("scheduler started")
}

// Signals the background goroutines to exit and waits for them.
func (s *Scheduler) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// Returns the latest result.
func (s *Scheduler) Latest() (*models.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.latest, s.latest != nil
}

// Returns the latest opportunity for one canonical asset.
func (s *Scheduler) Opportunity(asset string) (models.Opportunity, error) {
	res, ok := s.Latest()
	if !ok {
		return models.Opportunity{}, ErrNoResult
	}
	for _, o := range res.Opportunities {
		if o.Asset == asset {
			return o, nil
		}
	}
	return models.Opportunity{}, ErrNotFound
}

// Refresh fetches every venue and rescores. Concurrent callers share one
// in-flight refresh.
func (s *Scheduler) Refresh(ctx context.Context) (*models.Result, error) {
	v, err, shared := s.group.Do("refresh", func() (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return s.refresh(ctx), nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug().Msg("joined in-flight refresh")
	}
	return v.(*models.Result), nil
}

func (s *Scheduler) refresh(ctx context.Context) *models.Result {
	start := time.Now()

	snap := models.NewSnapshot(s.lighterMarkets)
	statuses := s.collect(ctx, &snap)

	s.scoreMu.Lock()
	defer s.scoreMu.Unlock()

	// A stream push may have rescored while the REST venues were in flight.
	s.resyncStreams(ctx, &snap, statuses)

	s.snapshot = snap
	s.statuses = statuses
	res := s.score(&snap)

	s.metrics.ObserveRefresh(time.Since(start))
	log.Info().
		Int("opportunities", len(res.Opportunities)).
		Dur("took", time.Since(start)).
		Msg("opportunities refreshed")

	return res
}

// collect fetches all venues concurrently and merges whatever succeeded.
// A failing venue contributes nothing; it never aborts the refresh.
func (s *Scheduler) collect(ctx context.Context, snap *models.Snapshot) map[models.Venue]*models.VenueStatus {
	results := make(chan fetchResult, len(s.exchanges))

	var wg sync.WaitGroup

	for _, ex := range s.exchanges {
		wg.Add(1)

		go func(ex exchange.Exchange) {
			defer wg.Done()

			fctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
			defer cancel()

			data, err := ex.Fetch(fctx)
			results <- fetchResult{venue: ex.Name(), data: data, err: err}
		}(ex)
	}

	// Close the channel once all goroutines finish
	go func() {
		wg.Wait()
		close(results)
	}()

	statuses := make(map[models.Venue]*models.VenueStatus, len(s.exchanges))
	for r := range results {
		statuses[r.venue] = s.apply(snap, r)
	}
	return statuses
}

func (s *Scheduler) apply(snap *models.Snapshot, r fetchResult) *models.VenueStatus {
	status := &models.VenueStatus{Venue: r.venue, FetchedAt: time.Now()}

	if r.err != nil {
		log.Warn().Err(r.err).Str("venue", string(r.venue)).Msg("venue fetch failed, skipping")
		s.metrics.VenueFailed(r.venue)
		s.metrics.SetVenueRecords(r.venue, 0)
		snap.Clear(r.venue)
		status.Error = r.err.Error()
		return status
	}

	snap.Merge(r.data)
	status.OK = true
	status.Records = recordCount(r.data)
	s.metrics.SetVenueRecords(r.venue, status.Records)
	return status
}

// resyncStreams re-reads every streaming venue into snap so a refresh never
// publishes a stream copy older than the one a rescore already used. Must be
// called with scoreMu held.
func (s *Scheduler) resyncStreams(ctx context.Context, snap *models.Snapshot, statuses map[models.Venue]*models.VenueStatus) {
	for _, ex := range s.exchanges {
		if _, ok := ex.(exchange.Streaming); !ok {
			continue
		}

		fctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
		data, err := ex.Fetch(fctx)
		cancel()

		if err != nil {
			// collect already recorded this venue
			continue
		}
		statuses[ex.Name()] = s.apply(snap, fetchResult{venue: ex.Name(), data: data})
	}
}

// rescore refetches one streaming venue, swaps its part into a copy of the
// last snapshot and reruns the scorer.
func (s *Scheduler) rescore(ctx context.Context, ex exchange.Exchange) {
	if _, ok := s.Latest(); !ok {
		return
	}

	fctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	data, err := ex.Fetch(fctx)
	cancel()

	s.scoreMu.Lock()
	defer s.scoreMu.Unlock()

	snap := s.snapshot
	snap.ID = uuid.New()
	snap.TakenAt = time.Now()
	statuses := make(map[models.Venue]*models.VenueStatus, len(s.statuses))
	for v, st := range s.statuses {
		statuses[v] = st
	}
	statuses[ex.Name()] = s.apply(&snap, fetchResult{venue: ex.Name(), data: data, err: err})

	s.snapshot = snap
	s.statuses = statuses
	res := s.score(&snap)

	log.Debug().
		Str("venue", string(ex.Name())).
		Int("opportunities", len(res.Opportunities)).
		Msg("rescored after stream update")
}

// score must be called with scoreMu held.
func (s *Scheduler) score(snap *models.Snapshot) *models.Result {
	venues := make(map[models.Venue]*models.VenueStatus, len(s.statuses))
	for v, st := range s.statuses {
		cp := *st
		venues[v] = &cp
	}

	res := &models.Result{
		SnapshotID:    snap.ID,
		ComputedAt:    time.Now(),
		Opportunities: scorer.ComputeOpportunities(snap),
		Venues:        venues,
	}

	s.mu.Lock()
	s.latest = res
	s.mu.Unlock()

	s.metrics.SetOpportunities(len(res.Opportunities))
	return res
}

func recordCount(d models.VenueData) int {
	switch d.Venue {
	case models.VenueDrift:
		return len(d.Drift)
	case models.VenueHyperliquid:
		return len(d.Hyperliquid.Universe)
	case models.VenueGMX:
		return len(d.GMX)
	case models.VenueLighter:
		return len(d.Lighter)
	case models.VenueParadex:
		return len(d.Paradex)
	}
	return 0
}
