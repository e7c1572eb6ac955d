package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
	"github.com/suwandre/fundingarb/internal/models"
	"github.com/suwandre/fundingarb/internal/scheduler"
	"github.com/suwandre/fundingarb/internal/scorer"
)

// OpportunitySource is satisfied by *scheduler.Scheduler.
type OpportunitySource interface {
	Latest() (*models.Result, bool)
	Opportunity(asset string) (models.Opportunity, error)
	Refresh(ctx context.Context) (*models.Result, error)
}

type OpportunityHandler struct {
	source OpportunitySource
}

func NewOpportunityHandler(source OpportunitySource) *OpportunityHandler {
	return &OpportunityHandler{source}
}

// Handles GET /opportunities?q=&venues=&sort=&dir=.
func (h *OpportunityHandler) List(c fiber.Ctx) error {
	spec, err := parseSort(c.Query("sort"), c.Query("dir"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	res, ok := h.source.Latest()
	if !ok {
		return notReady(c)
	}

	var venues []string
	if raw := c.Query("venues"); raw != "" {
		venues = strings.Split(raw, ",")
	}

	opps := scorer.ApplyFilters(res.Opportunities, c.Query("q"), venues, spec)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"snapshot_id":   res.SnapshotID,
		"computed_at":   res.ComputedAt,
		"sort":          spec,
		"count":         len(opps),
		"opportunities": opps,
	})
}

// Handles GET /opportunities/:asset.
func (h *OpportunityHandler) Get(c fiber.Ctx) error {
	asset := strings.ToUpper(c.Params("asset"))

	o, err := h.source.Opportunity(asset)
	switch {
	case errors.Is(err, scheduler.ErrNoResult):
		return notReady(c)
	case errors.Is(err, scheduler.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no opportunity for " + asset,
		})
	case err != nil:
		return err
	}

	return c.Status(fiber.StatusOK).JSON(o)
}

// Handles POST /refresh.
func (h *OpportunityHandler) Refresh(c fiber.Ctx) error {
	res, err := h.source.Refresh(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("manual refresh failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"snapshot_id":   res.SnapshotID,
		"computed_at":   res.ComputedAt,
		"opportunities": len(res.Opportunities),
		"venues":        res.Venues,
	})
}

// Handles GET /venues.
func (h *OpportunityHandler) Venues(c fiber.Ctx) error {
	res, ok := h.source.Latest()
	if !ok {
		return notReady(c)
	}

	venues := make([]*models.VenueStatus, 0, len(models.AllVenues))
	for _, v := range models.AllVenues {
		if st, ok := res.Venues[v]; ok {
			venues = append(venues, st)
		}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"venues": venues})
}

func notReady(c fiber.Ctx) error {
	log.Warn().Str("path", c.Path()).Msg("no opportunities computed yet")
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": "opportunities not computed yet, try again shortly",
	})
}

func parseSort(key, dir string) (scorer.SortSpec, error) {
	spec := scorer.DefaultSort
	if key != "" {
		k, err := scorer.ParseSortKey(key)
		if err != nil {
			return spec, err
		}
		spec = scorer.SortSpec{Key: k, Descending: true}
	}

	switch strings.ToLower(dir) {
	case "":
	case "asc":
		spec.Descending = false
	case "desc":
		spec.Descending = true
	default:
		return spec, errors.New("dir must be asc or desc")
	}
	return spec, nil
}
