package format

import (
	"fmt"
	"strings"

	"dealbot/internal/domain"
)

// Critic score severity bands.
const (
	ScoreGoodMin  = 75
	ScoreMixedMin = 50
)

// Renderer turns a merged presentation view into one styled IRC line.
// It does no I/O of its own; URL shortening is injected as a pure
// string transform.
type Renderer struct {
	// Shorten compacts URLs at the render boundary. Nil leaves them as-is.
	Shorten     func(string) string
	SinceMonths int
}

// Game renders the view as a single line of " - "-joined segments.
// Segments whose backing data is absent are omitted, never replaced by
// placeholders. showURL controls the trailing detail-URL segment; the
// passive store-link trigger sets it to false.
func (r *Renderer) Game(v *domain.PresentationView, showURL bool) string {
	segs := []string{fmt.Sprintf("[%d/%d] $(bold)%s$(clear)", v.Index, v.Total, v.Candidate.Title)}

	if v.Description != "" {
		segs = append(segs, Truncate(Normalize(v.Description), MaxDescriptionLen))
	}
	if seg := reviewSegment(v.Review); seg != "" {
		segs = append(segs, seg)
	}
	if len(v.Genres) > 0 {
		segs = append(segs, "$(bold)"+strings.Join(v.Genres, ", ")+"$(clear)")
	}
	if v.Release != nil {
		verb := "released"
		if v.Release.Upcoming {
			verb = "coming"
		}
		segs = append(segs, fmt.Sprintf("%s $(bold)%s$(clear)", verb, v.Release.DateLabel))
	}

	switch v.State {
	case domain.StateFree:
		segs = append(segs, "$(bold)free$(clear)")
	case domain.StateNoVendorData:
		segs = append(segs, "No data about this game with the selected stores. More info: "+r.shorten(v.DetailURL))
		return Render(strings.Join(segs, " - "))
	case domain.StatePriced:
		if seg := r.pricingSegment(v); seg != "" {
			segs = append(segs, seg)
		}
	}

	if showURL && v.DetailURL != "" {
		segs = append(segs, r.shorten(v.DetailURL))
	}

	return Render(strings.Join(segs, " - "))
}

// Sale renders the scraped sale-event fields.
func (r *Renderer) Sale(ev *domain.SaleEvent) string {
	return Render(fmt.Sprintf("$(bold)%s$(clear) - $(bold)%s$(clear) to $(bold)%s$(clear) - %s [%s]",
		ev.Name, ev.StartDate, ev.EndDate, ev.Countdown, ev.Status))
}

// pricingSegment joins the vendor offers and the low-price brackets.
// Offer order is the provider's order, unmodified.
func (r *Renderer) pricingSegment(v *domain.PresentationView) string {
	var parts []string

	if len(v.Offers) > 0 {
		var sb strings.Builder
		for i, o := range v.Offers {
			if i > 0 {
				sb.WriteByte(' ')
			}
			if o.Vendor != "" {
				fmt.Fprintf(&sb, "⦁ %s: ", o.Vendor)
			}
			sb.WriteString("$(bold)" + BRL(o.PriceCurrent) + "$(clear)")
			if o.DiscountPct > 0 {
				fmt.Fprintf(&sb, " ($(dgreen, bold)-%d%%$(clear), was $(bold)%s$(clear))",
					o.DiscountPct, BRL(o.PriceOld))
			}
		}
		parts = append(parts, sb.String())
	}

	if v.AllTimeLow != nil {
		parts = append(parts, fmt.Sprintf("[All time low: $(bold)%s$(clear) on $(bold)%s$(clear), %s]",
			BRL(v.AllTimeLow.Price), v.AllTimeLow.Vendor, v.AllTimeLow.DateLabel))
	}
	if v.RecentLow != nil {
		parts = append(parts, fmt.Sprintf("[Last %s: $(bold)%s$(clear) on $(bold)%s$(clear), %d %s ago]",
			monthsLabel(r.SinceMonths), BRL(v.RecentLow.Price), v.RecentLow.Vendor,
			v.RecentLow.DaysAgo, plural(v.RecentLow.DaysAgo, "day")))
	}

	return strings.Join(parts, " ")
}

func reviewSegment(rv *domain.ReviewSummary) string {
	if rv == nil {
		return ""
	}

	var parts []string
	if rv.Descriptor != "" {
		parts = append(parts, "$(bold)"+rv.Descriptor+"$(clear)")
	}
	if rv.HasScore {
		parts = append(parts, fmt.Sprintf("$(%s, bold)%d$(clear)", scoreColor(rv.CriticScore), rv.CriticScore))
	}
	return strings.Join(parts, " ")
}

func scoreColor(score int) string {
	switch {
	case score >= ScoreGoodMin:
		return "dgreen"
	case score >= ScoreMixedMin:
		return "orange"
	default:
		return "red"
	}
}

func monthsLabel(months int) string {
	if months > 1 {
		return fmt.Sprintf("%d months", months)
	}
	return "month"
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

func (r *Renderer) shorten(u string) string {
	if r.Shorten == nil || u == "" {
		return u
	}
	return r.Shorten(u)
}
