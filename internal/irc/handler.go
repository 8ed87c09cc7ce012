package irc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"dealbot/internal/domain"
	"dealbot/internal/format"
	"dealbot/internal/metrics"
	"dealbot/internal/ratelimit"
	"dealbot/internal/sale"
)

// GameLookup is the aggregation pipeline consumed by the handler.
type GameLookup interface {
	Deal(ctx context.Context, terms string, index int) (*domain.PresentationView, error)
	Store(ctx context.Context, terms string, index int) (*domain.PresentationView, error)
	StoreByID(ctx context.Context, appID string) (*domain.PresentationView, error)
}

type SaleLookup interface {
	Current(ctx context.Context) (*domain.SaleEvent, error)
}

// URLTrigger extracts an item id from arbitrary message text, e.g. a
// pasted store link. A non-match means the message is ignored.
type URLTrigger func(text string) (id string, ok bool)

type HandlerDeps struct {
	Games    GameLookup
	Sale     SaleLookup
	Renderer *format.Renderer
	Trigger  URLTrigger
	Limiter  *ratelimit.Limiter
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}

// Handler is the single seam where lower failures become user-facing
// text. It never lets an error escape to the connection layer.
type Handler struct {
	games    GameLookup
	sale     SaleLookup
	renderer *format.Renderer
	trigger  URLTrigger
	limiter  *ratelimit.Limiter
	logger   *zap.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		games:    deps.Games,
		sale:     deps.Sale,
		renderer: deps.Renderer,
		trigger:  deps.Trigger,
		limiter:  deps.Limiter,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		now:      time.Now,
	}
}

// HandleMessage inspects one channel or private message and returns the
// reply to send, if any.
func (h *Handler) HandleMessage(ctx context.Context, nick, text string) (string, bool) {
	command, args, ok := splitCommand(text)
	if !ok {
		if h.trigger != nil {
			if id, ok := h.trigger(text); ok {
				return h.run(ctx, nick, "store_url", func(ctx context.Context) string {
					return h.handleStoreURL(ctx, id)
				})
			}
		}
		return "", false
	}

	switch command {
	case "itad", "isthereanydeal":
		return h.run(ctx, nick, "itad", func(ctx context.Context) string {
			return h.handleDeal(ctx, args)
		})
	case "steam":
		return h.run(ctx, nick, "steam", func(ctx context.Context) string {
			return h.handleStore(ctx, args)
		})
	case "sale":
		return h.run(ctx, nick, "sale", func(ctx context.Context) string {
			return h.handleSale(ctx)
		})
	default:
		return "", false
	}
}

func (h *Handler) run(ctx context.Context, nick, command string, fn func(context.Context) string) (string, bool) {
	if h.limiter != nil && !h.limiter.Allow(nick) {
		h.logger.Warn("rate limit exceeded",
			zap.String("nick", nick),
			zap.String("command", command),
		)
		if h.metrics != nil {
			h.metrics.RecordRateLimitHit()
		}
		return "Slow down a little, try again in a minute.", true
	}

	start := h.now()
	if h.metrics != nil {
		h.metrics.IncRepliesInFlight()
		defer h.metrics.DecRepliesInFlight()
	}

	h.logger.Info("handling command",
		zap.String("nick", nick),
		zap.String("command", command),
	)

	reply := fn(ctx)

	if h.metrics != nil {
		h.metrics.RecordCommand(command, "success", h.now().Sub(start))
	}
	return reply, true
}

func (h *Handler) handleDeal(ctx context.Context, args string) string {
	terms, index := ParseGameQuery(args)
	if terms == "" {
		return "usage: !itad <game title>[, index]"
	}

	view, err := h.games.Deal(ctx, terms, index)
	if err != nil {
		return h.gameErrorMessage(err, terms)
	}
	return h.renderer.Game(view, true)
}

func (h *Handler) handleStore(ctx context.Context, args string) string {
	terms, index := ParseGameQuery(args)
	if terms == "" {
		return "usage: !steam <game title>[, index]"
	}

	view, err := h.games.Store(ctx, terms, index)
	if err != nil {
		return h.gameErrorMessage(err, terms)
	}
	return h.renderer.Game(view, true)
}

func (h *Handler) handleStoreURL(ctx context.Context, appID string) string {
	view, err := h.games.StoreByID(ctx, appID)
	if err != nil {
		h.logger.Warn("store url lookup failed",
			zap.Error(err),
			zap.String("app_id", appID),
		)
		return "Could not get game info."
	}
	// the link is already in the message, don't echo it back
	return h.renderer.Game(view, false)
}

func (h *Handler) handleSale(ctx context.Context) string {
	event, err := h.sale.Current(ctx)
	if err != nil {
		h.logger.Warn("sale lookup failed", zap.Error(err))
		if errors.Is(err, sale.ErrIncomplete) {
			return "Error."
		}
		return "Couldn't get sale data."
	}
	return h.renderer.Sale(event)
}

func (h *Handler) gameErrorMessage(err error, terms string) string {
	h.logger.Warn("game lookup failed",
		zap.Error(err),
		zap.String("terms", terms),
	)

	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		return "Invalid query"
	case errors.Is(err, domain.ErrNoResults):
		return fmt.Sprintf("No results for %q.", terms)
	default:
		return "Could not get game info."
	}
}

func splitCommand(text string) (command, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "!") {
		return "", "", false
	}

	head, rest, _ := strings.Cut(text[1:], " ")
	if head == "" {
		return "", "", false
	}
	return strings.ToLower(head), strings.TrimSpace(rest), true
}
