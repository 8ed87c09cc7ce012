package irc

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	ircevent "github.com/thoj/go-ircevent"
	"go.uber.org/zap"
)

type BotConfig struct {
	Server   string
	Nick     string
	User     string
	Channels []string
	UseTLS   bool
	// ReplyTimeout bounds the whole pipeline for one message.
	ReplyTimeout time.Duration
}

// Bot owns the IRC connection and feeds incoming messages to the
// handler. Replies are produced on separate goroutines so a slow
// upstream never blocks the read loop.
type Bot struct {
	conn    *ircevent.Connection
	handler *Handler
	cfg     BotConfig
	logger  *zap.Logger
}

func NewBot(cfg BotConfig, handler *Handler, logger *zap.Logger) *Bot {
	if cfg.ReplyTimeout == 0 {
		cfg.ReplyTimeout = 60 * time.Second
	}

	conn := ircevent.IRC(cfg.Nick, cfg.User)
	conn.UseTLS = cfg.UseTLS
	if cfg.UseTLS {
		host := cfg.Server
		if idx := strings.LastIndex(host, ":"); idx != -1 {
			host = host[:idx]
		}
		conn.TLSConfig = &tls.Config{ServerName: host}
	}

	b := &Bot{
		conn:    conn,
		handler: handler,
		cfg:     cfg,
		logger:  logger,
	}

	conn.AddCallback("001", func(e *ircevent.Event) {
		logger.Info("connected", zap.String("server", cfg.Server))
		for _, ch := range cfg.Channels {
			conn.Join(ch)
		}
	})
	conn.AddCallback("PRIVMSG", b.onMessage)

	return b
}

// Run connects and blocks until the connection closes.
func (b *Bot) Run() error {
	if err := b.conn.Connect(b.cfg.Server); err != nil {
		return err
	}
	b.conn.Loop()
	return nil
}

func (b *Bot) Quit() {
	b.conn.Quit()
}

func (b *Bot) onMessage(e *ircevent.Event) {
	nick := e.Nick
	text := e.Message()

	target := e.Arguments[0]
	if !strings.HasPrefix(target, "#") {
		// private message, reply to the sender
		target = nick
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), b.cfg.ReplyTimeout)
		defer cancel()

		reply, ok := b.handler.HandleMessage(ctx, nick, text)
		if !ok || reply == "" {
			return
		}
		b.conn.Privmsg(target, reply)
	}()
}
