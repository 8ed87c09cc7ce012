package service

import (
	"dealbot/internal/deals"
	"dealbot/internal/domain"
	"dealbot/internal/steam"
)

// mergeDeal normalizes the aggregator records into a presentation view.
// Offer order is preserved as returned. A missing or stale recent low
// stays absent; it is never synthesized from the all-time record.
func (s *GameService) mergeDeal(results []deals.SearchResult, index int, offers []deals.Offer, allTime, recent *deals.Low) *domain.PresentationView {
	selected := results[index-1]

	view := &domain.PresentationView{
		Candidate: domain.Candidate{ID: selected.Plain, Title: selected.Title},
		Index:     index,
		Total:     len(results),
		DetailURL: s.deals.GameURL(selected.Plain),
	}

	if len(offers) == 0 {
		// the game exists but none of the tracked vendors list it
		view.State = domain.StateNoVendorData
		return view
	}

	view.State = domain.StatePriced
	view.Offers = make([]domain.PriceOffer, 0, len(offers))
	for _, o := range offers {
		view.Offers = append(view.Offers, domain.PriceOffer{
			Vendor:       o.Shop,
			PriceCurrent: o.PriceNew,
			PriceOld:     o.PriceOld,
			DiscountPct:  o.Cut,
			DRM:          o.DRM,
			URL:          o.URL,
		})
	}

	if allTime != nil {
		view.AllTimeLow = &domain.LowRecord{
			Price:      allTime.Price,
			Vendor:     allTime.Shop,
			ObservedAt: allTime.Recorded,
			DateLabel:  allTime.RecordedLabel,
		}
	}

	if recent != nil && recent.Recorded.After(s.sinceCutoff) {
		view.RecentLow = &domain.LowRecord{
			Price:      recent.Price,
			Vendor:     recent.Shop,
			ObservedAt: recent.Recorded,
			DaysAgo:    int(s.now().Sub(recent.Recorded).Hours() / 24),
		}
	}

	return view
}

// mergeStore normalizes the storefront detail payload. The review
// descriptor and the critic score are independently optional.
func (s *GameService) mergeStore(appID string, d *steam.AppDetails, descriptor string) *domain.PresentationView {
	view := &domain.PresentationView{
		Candidate:   domain.Candidate{ID: appID, Title: d.Name},
		Index:       1,
		Total:       1,
		Description: d.About,
		Release: &domain.ReleaseInfo{
			Upcoming:  d.ReleaseDate.ComingSoon,
			DateLabel: d.ReleaseDate.Date,
		},
		DetailURL: s.store.PageURL(appID),
	}

	for _, g := range d.Genres {
		view.Genres = append(view.Genres, g.Description)
	}

	if descriptor != "" || d.Metacritic != nil {
		review := &domain.ReviewSummary{Descriptor: descriptor}
		if d.Metacritic != nil {
			review.CriticScore = d.Metacritic.Score
			review.HasScore = true
		}
		view.Review = review
	}

	switch {
	case d.IsFree:
		view.State = domain.StateFree
	case d.Price == nil && d.ReleaseDate.ComingSoon:
		view.State = domain.StateUnreleased
	case d.Price == nil:
		view.State = domain.StateNoVendorData
	default:
		view.State = domain.StatePriced
		view.Offers = []domain.PriceOffer{{
			PriceCurrent: float64(d.Price.Final) / 100,
			PriceOld:     float64(d.Price.Initial) / 100,
			DiscountPct:  d.Price.DiscountPercent,
		}}
	}

	return view
}
