package domain

import "time"

// Candidate is one search hit, in the provider's relevance order.
type Candidate struct {
	ID    string
	Title string
}

// PriceOffer is one vendor's current listing for a game.
type PriceOffer struct {
	Vendor       string
	PriceCurrent float64
	PriceOld     float64
	DiscountPct  int
	DRM          []string
	URL          string
}

// LowRecord is a lowest-price observation, either all-time or within
// the configured lookback window.
type LowRecord struct {
	Price      float64
	Vendor     string
	ObservedAt time.Time
	// DateLabel is a provider-formatted date string, set when the
	// provider only reports a display form of the timestamp.
	DateLabel string
	// DaysAgo is filled in by the merger for window-scoped records so
	// rendering stays a pure function of the view.
	DaysAgo int
}

type ReviewSummary struct {
	Descriptor  string
	CriticScore int
	HasScore    bool
}

type ReleaseInfo struct {
	Upcoming  bool
	DateLabel string
}

type PricingState int

const (
	StatePriced PricingState = iota
	StateFree
	StateUnreleased
	StateNoVendorData
)

func (s PricingState) String() string {
	switch s {
	case StateFree:
		return "free"
	case StateUnreleased:
		return "unreleased"
	case StateNoVendorData:
		return "no_vendor_data"
	default:
		return "priced"
	}
}

// PresentationView is the merged, render-ready aggregate for one selected
// candidate. Optional fields are nil/empty when the backing source had
// nothing; the renderer must omit those segments entirely.
type PresentationView struct {
	Candidate   Candidate
	Index       int // 1-based position among Total
	Total       int
	Description string
	Offers      []PriceOffer
	AllTimeLow  *LowRecord
	RecentLow   *LowRecord
	Review      *ReviewSummary
	Genres      []string
	Release     *ReleaseInfo
	State       PricingState
	DetailURL   string
}

// SaleEvent holds the labeled fields scraped from the sale-event page.
type SaleEvent struct {
	Name      string
	StartDate string
	EndDate   string
	Countdown string
	Status    string
}
