package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/suwandre/fundingarb/internal/models"
)

const (
	lighterStatsChannel = "market_stats/all"

	streamReadTimeout = 60 * time.Second
	streamMinBackoff  = time.Second
	streamMaxBackoff  = 30 * time.Second
)

// StreamObserver receives stream events for metrics. Either method may be
// called from the stream goroutine.
type StreamObserver interface {
	StreamMessage(venue models.Venue)
	StreamReconnect(venue models.Venue)
}

type noopObserver struct{}

func (noopObserver) StreamMessage(models.Venue)   {}
func (noopObserver) StreamReconnect(models.Venue) {}

// LighterStream keeps the latest Lighter market stats from the public
// WebSocket feed. Readers only ever see copies.
type LighterStream struct {
	url      string
	dialer   *websocket.Dialer
	observer StreamObserver

	minBackoff time.Duration
	maxBackoff time.Duration
	// wait blocks for d and reports false if ctx ended first.
	wait func(ctx context.Context, d time.Duration) bool

	mu    sync.RWMutex
	stats map[int]models.LighterMarketStats

	updates chan struct{}
}

func NewLighterStream(url string, observer StreamObserver) *LighterStream {
	if observer == nil {
		observer = noopObserver{}
	}
	return &LighterStream{
		url:      url,
		dialer:   &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		observer: observer,
		stats:    make(map[int]models.LighterMarketStats),
		updates:  make(chan struct{}, 1),

		minBackoff: streamMinBackoff,
		maxBackoff: streamMaxBackoff,
		wait:       sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Snapshot returns a copy of the current market stats keyed by market id.
func (s *LighterStream) Snapshot() map[int]models.LighterMarketStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int]models.LighterMarketStats, len(s.stats))
	for id, st := range s.stats {
		out[id] = st
	}
	return out
}

// Updates signals that new stats arrived. Bursts collapse into a single
// pending signal.
func (s *LighterStream) Updates() <-chan struct{} {
	return s.updates
}

// Run connects and keeps reconnecting with capped backoff until ctx is
// done.
func (s *LighterStream) Run(ctx context.Context) {
	backoff := s.minBackoff

	for {
		connected, err := s.runOnce(ctx)
		if ctx.Err() != nil {
			log.Info().Msg("lighter stream stopped")
			return
		}
		if connected {
			backoff = s.minBackoff
		}

		log.Warn().Err(err).Stringer("retry_in", backoff).Msg("lighter stream disconnected")
		s.observer.StreamReconnect(models.VenueLighter)

		if !s.wait(ctx, backoff) {
			return
		}

		backoff *= 2
		if backoff > s.maxBackoff {
			backoff = s.maxBackoff
		}
	}
}

// runOnce reports whether the subscription succeeded along with the error
// that ended the session.
func (s *LighterStream) runOnce(ctx context.Context) (bool, error) {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return false, fmt.Errorf("lighter dial: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	sub := map[string]string{"type": "subscribe", "channel": lighterStatsChannel}
	if err := conn.WriteJSON(sub); err != nil {
		return false, fmt.Errorf("lighter subscribe: %w", err)
	}
	log.Info().Str("url", s.url).Str("channel", lighterStatsChannel).Msg("lighter stream subscribed")

	for {
		conn.SetReadDeadline(time.Now().Add(streamReadTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return true, fmt.Errorf("lighter read: %w", err)
		}

		if err := s.handle(conn, msg); err != nil {
			log.Debug().Err(err).Msg("lighter stream message skipped")
		}
	}
}

type lighterEnvelope struct {
	Type        string          `json:"type"`
	Channel     string          `json:"channel"`
	MarketStats json.RawMessage `json:"market_stats"`
}

func (s *LighterStream) handle(conn *websocket.Conn, msg []byte) error {
	var env lighterEnvelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}

	switch {
	case env.Type == "ping":
		return conn.WriteJSON(map[string]string{"type": "pong"})
	case strings.HasSuffix(env.Type, "market_stats"):
		stats, err := parseLighterStats(env.MarketStats)
		if err != nil {
			return err
		}
		s.apply(stats)
		s.observer.StreamMessage(models.VenueLighter)
	}
	return nil
}

// parseLighterStats accepts either a single market object or a map of
// market id -> object, which is what the "all" channel sends.
func parseLighterStats(raw json.RawMessage) ([]models.LighterMarketStats, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode market_stats: %w", err)
	}

	if _, single := fields["market_id"]; single {
		var st models.LighterMarketStats
		if err := json.Unmarshal(raw, &st); err != nil {
			return nil, fmt.Errorf("decode market stats: %w", err)
		}
		return []models.LighterMarketStats{st}, nil
	}

	out := make([]models.LighterMarketStats, 0, len(fields))
	for key, v := range fields {
		var st models.LighterMarketStats
		if err := json.Unmarshal(v, &st); err != nil {
			return nil, fmt.Errorf("decode market %s: %w", key, err)
		}
		if id, err := strconv.Atoi(key); err == nil && st.MarketID == 0 {
			st.MarketID = id
		}
		out = append(out, st)
	}
	return out, nil
}

func (s *LighterStream) apply(stats []models.LighterMarketStats) {
	if len(stats) == 0 {
		return
	}

	s.mu.Lock()
	for _, st := range stats {
		s.stats[st.MarketID] = st
	}
	s.mu.Unlock()

	select {
	case s.updates <- struct{}{}:
	default:
	}
}
