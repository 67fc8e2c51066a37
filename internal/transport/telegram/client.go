// Package telegram implements the transport.Client capability surface on
// top of a Telegram bot session.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
	tele "gopkg.in/telebot.v4"

	"github.com/znclog/push-forwarder/internal/transport"
)

// sendTimeout bounds every bot API call. Without it a stalled connection
// could block the forwarding loop indefinitely and hold up the shutdown
// join on it.
const sendTimeout = 30 * time.Second

// Client is a send-only Telegram bot session.
//
// The session authenticates at Connect time and keeps a local cache of
// chats resolved so far, mirroring the platform's cheap "already known"
// lookup next to the network fetch.
type Client struct {
	bot   *tele.Bot
	ready chan struct{}

	mu    sync.RWMutex
	chats map[int64]*tele.Chat
}

// Connect authenticates the bot with the given token, retrying transient
// failures per the startup strategy. A token that never authenticates is
// a fatal configuration error for the caller to handle.
func Connect(token string, strategy retry.Strategy) (*Client, error) {
	var bot *tele.Bot

	err := retry.Do(func() error {
		b, err := tele.NewBot(tele.Settings{
			Token:  token,
			Client: &http.Client{Timeout: sendTimeout},
		})
		if err != nil {
			return err
		}
		bot = b
		return nil
	}, strategy)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}

	c := &Client{
		bot:   bot,
		ready: make(chan struct{}),
		chats: make(map[int64]*tele.Chat),
	}
	close(c.ready)

	zlog.Logger.Info().Str("bot", bot.Me.Username).Msg("telegram session ready")

	return c, nil
}

// Ready is closed once the session has authenticated.
func (c *Client) Ready() <-chan struct{} {
	return c.ready
}

// Channel returns a target for a chat already known to this session.
func (c *Client) Channel(id int64) (transport.Target, bool) {
	c.mu.RLock()
	chat, ok := c.chats[id]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	return &chatTarget{bot: c.bot, chat: chat}, true
}

// FetchChannel resolves a chat id over the network, validates that the
// chat can receive text and caches it for later Channel lookups.
func (c *Client) FetchChannel(ctx context.Context, id int64) (transport.Target, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	chat, err := c.bot.ChatByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chat %d: %w", id, err)
	}

	if !messageable(chat.Type) {
		return nil, fmt.Errorf("chat %d (%s) cannot receive messages", id, chat.Type)
	}

	c.mu.Lock()
	c.chats[id] = chat
	c.mu.Unlock()

	return &chatTarget{bot: c.bot, chat: chat}, nil
}

// Close shuts the session down. A send-only bot holds no long-poll
// connection, so closing just drops the chat cache.
func (c *Client) Close() error {
	c.mu.Lock()
	c.chats = make(map[int64]*tele.Chat)
	c.mu.Unlock()

	zlog.Logger.Info().Msg("telegram session closed")

	return nil
}

// messageable reports whether the bot can post text into a chat of the
// given type.
func messageable(t tele.ChatType) bool {
	switch t {
	case tele.ChatPrivate, tele.ChatGroup, tele.ChatSuperGroup, tele.ChatChannel, tele.ChatChannelPrivate:
		return true
	}
	return false
}

// chatTarget delivers text into one resolved chat.
type chatTarget struct {
	bot  *tele.Bot
	chat *tele.Chat
}

// Send posts one text message to the chat. The bot API call itself does
// not take a context; cancellation is honored before the call, matching
// the engine's rule of never interrupting an in-flight send.
func (t *chatTarget) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := t.bot.Send(t.chat, text); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", t.chat.ID, err)
	}

	return nil
}
