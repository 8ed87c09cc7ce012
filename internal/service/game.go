package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dealbot/internal/deals"
	"dealbot/internal/domain"
	"dealbot/internal/metrics"
	"dealbot/internal/steam"
)

// StoreClient is the storefront capability consumed by the service.
type StoreClient interface {
	Search(ctx context.Context, term string) ([]string, error)
	Details(ctx context.Context, appID string) (*steam.AppDetails, error)
	Reviews(ctx context.Context, appID string) (string, error)
	PageURL(appID string) string
}

type GameServiceDeps struct {
	Deals   deals.Client
	Store   StoreClient
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	// SinceCutoff bounds the recent-low window; records at or before it
	// never reach the view.
	SinceCutoff time.Time
}

// GameService drives the aggregation pipeline: resolve a query to a
// candidate, fan out the detail fetches, and merge the partial results
// into one presentation view. Only the search stage and the primary
// pricing fetch are fatal; every secondary fetch degrades to an omitted
// field.
type GameService struct {
	deals       deals.Client
	store       StoreClient
	logger      *zap.Logger
	metrics     *metrics.Metrics
	sinceCutoff time.Time
	now         func() time.Time
}

func NewGameService(deps GameServiceDeps) *GameService {
	return &GameService{
		deals:       deps.Deals,
		store:       deps.Store,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
		sinceCutoff: deps.SinceCutoff,
		now:         time.Now,
	}
}

// Deal resolves terms against the deals aggregator and builds the full
// pricing view for the index-selected candidate.
func (s *GameService) Deal(ctx context.Context, terms string, index int) (*domain.PresentationView, error) {
	results, err := s.search(ctx, terms)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, domain.ErrNoResults
	}

	index = clampIndex(index, len(results))
	selected := results[index-1]

	var (
		offers  []deals.Offer
		allTime *deals.Low
		recent  *deals.Low
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := s.now()
		var err error
		offers, err = s.deals.Prices(gctx, selected.Plain)
		s.observe("itad_prices", start, err)
		if err != nil {
			return fmt.Errorf("prices: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		start := s.now()
		low, err := s.deals.Overview(gctx, selected.Plain)
		s.observe("itad_overview", start, err)
		if err != nil {
			s.logger.Warn("overview fetch failed",
				zap.Error(err),
				zap.String("plain", selected.Plain),
			)
			return nil
		}
		allTime = low
		return nil
	})
	g.Go(func() error {
		start := s.now()
		low, err := s.deals.RecentLow(gctx, selected.Plain)
		s.observe("itad_lowest", start, err)
		if err != nil {
			s.logger.Warn("recent low fetch failed",
				zap.Error(err),
				zap.String("plain", selected.Plain),
			)
			return nil
		}
		recent = low
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	s.logger.Info("deal lookup done",
		zap.String("plain", selected.Plain),
		zap.Int("index", index),
		zap.Int("offers", len(offers)),
	)

	return s.mergeDeal(results, index, offers, allTime, recent), nil
}

// Store resolves terms against the storefront search and builds the
// detail view for the index-selected app.
func (s *GameService) Store(ctx context.Context, terms string, index int) (*domain.PresentationView, error) {
	start := s.now()
	ids, err := s.store.Search(ctx, terms)
	s.observe("steam_search", start, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	if len(ids) == 0 {
		return nil, domain.ErrNoResults
	}

	index = clampIndex(index, len(ids))

	view, err := s.storeView(ctx, ids[index-1])
	if err != nil {
		return nil, err
	}
	view.Index = index
	view.Total = len(ids)
	return view, nil
}

// StoreByID builds the detail view for an app id lifted straight from a
// store URL, bypassing search.
func (s *GameService) StoreByID(ctx context.Context, appID string) (*domain.PresentationView, error) {
	return s.storeView(ctx, appID)
}

func (s *GameService) storeView(ctx context.Context, appID string) (*domain.PresentationView, error) {
	var (
		details    *steam.AppDetails
		descriptor string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := s.now()
		var err error
		details, err = s.store.Details(gctx, appID)
		s.observe("steam_details", start, err)
		if err != nil {
			return fmt.Errorf("details: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		start := s.now()
		desc, err := s.store.Reviews(gctx, appID)
		s.observe("steam_reviews", start, err)
		if err != nil {
			s.logger.Warn("reviews fetch failed",
				zap.Error(err),
				zap.String("app_id", appID),
			)
			return nil
		}
		descriptor = desc
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	return s.mergeStore(appID, details, descriptor), nil
}

func (s *GameService) search(ctx context.Context, terms string) ([]deals.SearchResult, error) {
	start := s.now()
	results, err := s.deals.Search(ctx, terms)
	s.observe("itad_search", start, err)
	if err != nil {
		if errors.Is(err, deals.ErrBadQuery) {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidQuery, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	return results, nil
}

func (s *GameService) observe(provider string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordProviderRequest(provider, status, s.now().Sub(start))
}

// clampIndex maps any requested index into [1, total].
func clampIndex(index, total int) int {
	if index < 1 {
		return 1
	}
	if index > total {
		return total
	}
	return index
}
