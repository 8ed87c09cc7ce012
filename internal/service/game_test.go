package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"dealbot/internal/deals"
	"dealbot/internal/deals/mock"
	"dealbot/internal/domain"
	"dealbot/internal/steam"
)

type stubStore struct {
	ids        []string
	details    *steam.AppDetails
	descriptor string

	searchErr  error
	detailsErr error
	reviewsErr error

	lastTerm string
	lastID   string
}

func (s *stubStore) Search(ctx context.Context, term string) ([]string, error) {
	s.lastTerm = term
	return s.ids, s.searchErr
}

func (s *stubStore) Details(ctx context.Context, appID string) (*steam.AppDetails, error) {
	s.lastID = appID
	return s.details, s.detailsErr
}

func (s *stubStore) Reviews(ctx context.Context, appID string) (string, error) {
	return s.descriptor, s.reviewsErr
}

func (s *stubStore) PageURL(appID string) string {
	return "https://store.steampowered.com/app/" + appID + "/"
}

func newTestService(dealsClient deals.Client, store StoreClient) *GameService {
	return NewGameService(GameServiceDeps{
		Deals:       dealsClient,
		Store:       store,
		Logger:      zap.NewNop(),
		SinceCutoff: time.Now().AddDate(0, -3, 0),
	})
}

func threeResults() []deals.SearchResult {
	return []deals.SearchResult{
		{Plain: "halflife", Title: "Half-Life"},
		{Plain: "halflife2", Title: "Half-Life 2"},
		{Plain: "halflife3", Title: "Half-Life 3"},
	}
}

func TestGameService_Deal(t *testing.T) {
	t.Run("merges all records", func(t *testing.T) {
		dealsClient := mock.New().
			WithResults(threeResults()...).
			WithOffers(
				deals.Offer{Shop: "Steam", PriceNew: 19.99, PriceOld: 39.99, Cut: 50},
				deals.Offer{Shop: "GOG", PriceNew: 36},
			).
			WithAllTimeLow(&deals.Low{Price: 4.99, Shop: "Steam", RecordedLabel: "2023-06-10"}).
			WithRecentLow(&deals.Low{Price: 9.99, Shop: "Nuuvem", Recorded: time.Now().Add(-48 * time.Hour)})

		svc := newTestService(dealsClient, &stubStore{})
		view, err := svc.Deal(context.Background(), "half life", 2)
		if err != nil {
			t.Fatalf("Deal() error = %v", err)
		}

		if view.Candidate.Title != "Half-Life 2" {
			t.Errorf("selected %q, want Half-Life 2", view.Candidate.Title)
		}
		if view.Index != 2 || view.Total != 3 {
			t.Errorf("index/total = %d/%d, want 2/3", view.Index, view.Total)
		}
		if view.State != domain.StatePriced {
			t.Errorf("state = %v, want priced", view.State)
		}
		if len(view.Offers) != 2 || view.Offers[0].Vendor != "Steam" || view.Offers[1].Vendor != "GOG" {
			t.Errorf("offers = %+v, want provider order preserved", view.Offers)
		}
		if view.AllTimeLow == nil || view.AllTimeLow.Price != 4.99 {
			t.Errorf("all time low = %+v", view.AllTimeLow)
		}
		if view.RecentLow == nil || view.RecentLow.DaysAgo != 2 {
			t.Errorf("recent low = %+v, want 2 days ago", view.RecentLow)
		}
	})

	t.Run("index above result count clamps to last", func(t *testing.T) {
		dealsClient := mock.New().
			WithResults(threeResults()...).
			WithOffers(deals.Offer{Shop: "Steam", PriceNew: 10})

		svc := newTestService(dealsClient, &stubStore{})
		view, err := svc.Deal(context.Background(), "half life", 99)
		if err != nil {
			t.Fatalf("Deal() error = %v", err)
		}
		if view.Candidate.Title != "Half-Life 3" {
			t.Errorf("selected %q, want last candidate", view.Candidate.Title)
		}
	})

	t.Run("index below one clamps to first", func(t *testing.T) {
		dealsClient := mock.New().
			WithResults(threeResults()...).
			WithOffers(deals.Offer{Shop: "Steam", PriceNew: 10})

		svc := newTestService(dealsClient, &stubStore{})
		view, err := svc.Deal(context.Background(), "half life", 0)
		if err != nil {
			t.Fatalf("Deal() error = %v", err)
		}
		if view.Candidate.Title != "Half-Life" {
			t.Errorf("selected %q, want first candidate", view.Candidate.Title)
		}
	})

	t.Run("secondary fetch failures are swallowed", func(t *testing.T) {
		dealsClient := mock.New().
			WithResults(threeResults()...).
			WithOffers(deals.Offer{Shop: "Steam", PriceNew: 10})
		dealsClient.OverviewErr = deals.ErrRequestFailed
		dealsClient.RecentErr = deals.ErrRequestFailed

		svc := newTestService(dealsClient, &stubStore{})
		view, err := svc.Deal(context.Background(), "half life", 1)
		if err != nil {
			t.Fatalf("Deal() error = %v, want graceful degradation", err)
		}
		if view.AllTimeLow != nil || view.RecentLow != nil {
			t.Errorf("lows = %+v/%+v, want both absent", view.AllTimeLow, view.RecentLow)
		}
		if len(view.Offers) != 1 {
			t.Errorf("offers = %+v", view.Offers)
		}
	})

	t.Run("primary pricing failure is fatal", func(t *testing.T) {
		dealsClient := mock.New().WithResults(threeResults()...)
		dealsClient.PricesErr = deals.ErrRequestFailed

		svc := newTestService(dealsClient, &stubStore{})
		_, err := svc.Deal(context.Background(), "half life", 1)
		if !errors.Is(err, domain.ErrFetchFailed) {
			t.Errorf("Deal() error = %v, want ErrFetchFailed", err)
		}
	})

	t.Run("search network failure", func(t *testing.T) {
		dealsClient := mock.New()
		dealsClient.SearchErr = deals.ErrRequestFailed

		svc := newTestService(dealsClient, &stubStore{})
		_, err := svc.Deal(context.Background(), "half life", 1)
		if !errors.Is(err, domain.ErrFetchFailed) {
			t.Errorf("Deal() error = %v, want ErrFetchFailed", err)
		}
	})

	t.Run("provider rejected query", func(t *testing.T) {
		dealsClient := mock.New()
		dealsClient.SearchErr = deals.ErrBadQuery

		svc := newTestService(dealsClient, &stubStore{})
		_, err := svc.Deal(context.Background(), ";;;", 1)
		if !errors.Is(err, domain.ErrInvalidQuery) {
			t.Errorf("Deal() error = %v, want ErrInvalidQuery", err)
		}
	})

	t.Run("empty search is no results", func(t *testing.T) {
		svc := newTestService(mock.New(), &stubStore{})
		_, err := svc.Deal(context.Background(), "qwertyuiop", 1)
		if !errors.Is(err, domain.ErrNoResults) {
			t.Errorf("Deal() error = %v, want ErrNoResults", err)
		}
	})

	t.Run("no offers means no vendor data", func(t *testing.T) {
		dealsClient := mock.New().
			WithResults(threeResults()...).
			WithAllTimeLow(&deals.Low{Price: 4.99, Shop: "Steam"})

		svc := newTestService(dealsClient, &stubStore{})
		view, err := svc.Deal(context.Background(), "half life", 1)
		if err != nil {
			t.Fatalf("Deal() error = %v", err)
		}
		if view.State != domain.StateNoVendorData {
			t.Errorf("state = %v, want no vendor data", view.State)
		}
		if view.AllTimeLow != nil {
			t.Errorf("all time low = %+v, want absent without offers", view.AllTimeLow)
		}
	})

	t.Run("stale recent low never reaches the view", func(t *testing.T) {
		dealsClient := mock.New().
			WithResults(threeResults()...).
			WithOffers(deals.Offer{Shop: "Steam", PriceNew: 10}).
			WithAllTimeLow(&deals.Low{Price: 4.99, Shop: "Steam", RecordedLabel: "2020-01-01"}).
			WithRecentLow(&deals.Low{Price: 9.99, Shop: "Steam", Recorded: time.Now().AddDate(-1, 0, 0)})

		svc := newTestService(dealsClient, &stubStore{})
		view, err := svc.Deal(context.Background(), "half life", 1)
		if err != nil {
			t.Fatalf("Deal() error = %v", err)
		}
		if view.RecentLow != nil {
			t.Errorf("recent low = %+v, want absent for stale record", view.RecentLow)
		}
		if view.AllTimeLow == nil {
			t.Error("all time low absent, want kept")
		}
	})
}

func portalDetails() *steam.AppDetails {
	return &steam.AppDetails{
		Name:       "Portal 2",
		AppID:      620,
		About:      "The award-winning sequel.",
		Metacritic: &steam.Metacritic{Score: 95},
		Genres:     []steam.Genre{{Description: "Action"}, {Description: "Adventure"}},
		ReleaseDate: steam.ReleaseDate{
			Date: "18 Apr, 2011",
		},
		Price: &steam.PriceOverview{Initial: 3699, Final: 3699},
	}
}

func TestGameService_Store(t *testing.T) {
	t.Run("merges details and reviews", func(t *testing.T) {
		store := &stubStore{
			ids:        []string{"620", "400", "70"},
			details:    portalDetails(),
			descriptor: "Overwhelmingly Positive",
		}

		svc := newTestService(mock.New(), store)
		view, err := svc.Store(context.Background(), "portal", 1)
		if err != nil {
			t.Fatalf("Store() error = %v", err)
		}

		if store.lastID != "620" {
			t.Errorf("fetched app %q, want 620", store.lastID)
		}
		if view.Index != 1 || view.Total != 3 {
			t.Errorf("index/total = %d/%d", view.Index, view.Total)
		}
		if view.Review == nil || view.Review.Descriptor != "Overwhelmingly Positive" || view.Review.CriticScore != 95 {
			t.Errorf("review = %+v", view.Review)
		}
		if len(view.Genres) != 2 {
			t.Errorf("genres = %v", view.Genres)
		}
		if view.State != domain.StatePriced || len(view.Offers) != 1 {
			t.Fatalf("state/offers = %v/%+v", view.State, view.Offers)
		}
		if view.Offers[0].PriceCurrent != 36.99 {
			t.Errorf("price = %v, want 36.99", view.Offers[0].PriceCurrent)
		}
		if view.Offers[0].DiscountPct != 0 {
			t.Errorf("discount = %d, want 0", view.Offers[0].DiscountPct)
		}
	})

	t.Run("index clamps into id list", func(t *testing.T) {
		store := &stubStore{ids: []string{"620", "400"}, details: portalDetails()}

		svc := newTestService(mock.New(), store)
		view, err := svc.Store(context.Background(), "portal", 99)
		if err != nil {
			t.Fatalf("Store() error = %v", err)
		}
		if store.lastID != "400" || view.Index != 2 {
			t.Errorf("fetched %q index %d, want 400/2", store.lastID, view.Index)
		}
	})

	t.Run("review failure degrades to omission", func(t *testing.T) {
		store := &stubStore{
			ids:        []string{"620"},
			details:    portalDetails(),
			reviewsErr: steam.ErrRequestFailed,
		}

		svc := newTestService(mock.New(), store)
		view, err := svc.Store(context.Background(), "portal", 1)
		if err != nil {
			t.Fatalf("Store() error = %v, want graceful degradation", err)
		}
		if view.Review == nil || view.Review.Descriptor != "" || !view.Review.HasScore {
			t.Errorf("review = %+v, want critic score only", view.Review)
		}
	})

	t.Run("details failure is fatal", func(t *testing.T) {
		store := &stubStore{ids: []string{"620"}, detailsErr: steam.ErrRequestFailed}

		svc := newTestService(mock.New(), store)
		_, err := svc.Store(context.Background(), "portal", 1)
		if !errors.Is(err, domain.ErrFetchFailed) {
			t.Errorf("Store() error = %v, want ErrFetchFailed", err)
		}
	})

	t.Run("empty search is no results", func(t *testing.T) {
		svc := newTestService(mock.New(), &stubStore{})
		_, err := svc.Store(context.Background(), "qwertyuiop", 1)
		if !errors.Is(err, domain.ErrNoResults) {
			t.Errorf("Store() error = %v, want ErrNoResults", err)
		}
	})

	t.Run("free game", func(t *testing.T) {
		details := portalDetails()
		details.IsFree = true
		details.Price = nil
		store := &stubStore{ids: []string{"570"}, details: details}

		svc := newTestService(mock.New(), store)
		view, err := svc.Store(context.Background(), "dota", 1)
		if err != nil {
			t.Fatalf("Store() error = %v", err)
		}
		if view.State != domain.StateFree {
			t.Errorf("state = %v, want free", view.State)
		}
	})

	t.Run("upcoming without price is unreleased", func(t *testing.T) {
		details := portalDetails()
		details.Price = nil
		details.ReleaseDate = steam.ReleaseDate{ComingSoon: true, Date: "2027"}
		store := &stubStore{ids: []string{"999"}, details: details}

		svc := newTestService(mock.New(), store)
		view, err := svc.Store(context.Background(), "soon", 1)
		if err != nil {
			t.Fatalf("Store() error = %v", err)
		}
		if view.State != domain.StateUnreleased {
			t.Errorf("state = %v, want unreleased", view.State)
		}
		if view.Release == nil || !view.Release.Upcoming {
			t.Errorf("release = %+v", view.Release)
		}
	})

	t.Run("by id bypasses search", func(t *testing.T) {
		store := &stubStore{details: portalDetails()}

		svc := newTestService(mock.New(), store)
		view, err := svc.StoreByID(context.Background(), "620")
		if err != nil {
			t.Fatalf("StoreByID() error = %v", err)
		}
		if store.lastTerm != "" {
			t.Error("search was called for direct id lookup")
		}
		if view.Index != 1 || view.Total != 1 {
			t.Errorf("index/total = %d/%d, want 1/1", view.Index, view.Total)
		}
	})
}
