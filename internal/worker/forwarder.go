package worker

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/zlog"

	"github.com/znclog/push-forwarder/internal/model"
	"github.com/znclog/push-forwarder/internal/transport"
)

type pushRepository interface {
	FetchPending(ctx context.Context) ([]model.Notification, error)
	DeleteByID(ctx context.Context, id int64) error
}

// Stats is a snapshot of the engine's delivery counters.
type Stats struct {
	Cycles    uint64 `json:"cycles"`    // completed poll cycles
	Forwarded uint64 `json:"forwarded"` // successful sends
	Deleted   uint64 `json:"deleted"`   // rows removed after delivery
	Skipped   uint64 `json:"skipped"`   // rows left queued for the next cycle
	Truncated uint64 `json:"truncated"` // messages cut to the platform limit
}

// Forwarder drains the push queue into messaging-platform channels.
//
// One goroutine runs the whole loop: fetch all pending rows in id order,
// resolve each recipient to a channel target, send, and delete the row on
// success. A row that cannot be delivered is left in the queue and
// retried on the next cycle, so delivery is at least once. If the
// process dies between a successful send and the delete, the row is sent
// again next cycle; that duplicate window is the accepted cost of never
// losing a notification.
type Forwarder struct {
	repo           pushRepository
	client         transport.Client
	channelMap     map[string]int64
	defaultChannel int64
	interval       time.Duration

	// targets caches resolved delivery targets by channel id. Only the
	// loop goroutine touches it, and channel identities do not change
	// within a run, so it is unlocked and never evicts.
	targets map[int64]transport.Target

	cycles    atomic.Uint64
	forwarded atomic.Uint64
	deleted   atomic.Uint64
	skipped   atomic.Uint64
	truncated atomic.Uint64

	done chan struct{}
}

// NewForwarder creates a forwarding engine.
//
// channelMap routes logical recipients to channel ids; anything not in
// the map goes to defaultChannel. interval is the sleep between poll
// cycles and must be positive (validated by config at startup).
func NewForwarder(repo pushRepository, client transport.Client, channelMap map[string]int64, defaultChannel int64, interval time.Duration) *Forwarder {
	if channelMap == nil {
		channelMap = make(map[string]int64)
	}

	return &Forwarder{
		repo:           repo,
		client:         client,
		channelMap:     channelMap,
		defaultChannel: defaultChannel,
		interval:       interval,
		targets:        make(map[int64]transport.Target),
		done:           make(chan struct{}),
	}
}

// Run executes the poll loop until ctx is cancelled.
//
// It waits for the platform session to become ready before the first
// cycle, then alternates cycle and sleep. Cancellation is observed at
// the next suspension point; an in-progress send+delete pair is never
// interrupted mid-flight. Done is closed when the loop has fully
// stopped.
func (f *Forwarder) Run(ctx context.Context) {
	defer close(f.done)

	select {
	case <-ctx.Done():
		zlog.Logger.Info().Msg("forwarder cancelled before session became ready")
		return
	case <-f.client.Ready():
	}

	zlog.Logger.Info().Dur("interval", f.interval).Msg("forwarder polling started")

	for {
		f.runCycle(ctx)

		select {
		case <-ctx.Done():
			zlog.Logger.Info().Msg("forwarder stopped")
			return
		case <-time.After(f.interval):
		}
	}
}

// Done is closed once Run has returned; shutdown waits on it before
// closing the platform session.
func (f *Forwarder) Done() <-chan struct{} {
	return f.done
}

// Stats returns a snapshot of the delivery counters.
func (f *Forwarder) Stats() Stats {
	return Stats{
		Cycles:    f.cycles.Load(),
		Forwarded: f.forwarded.Load(),
		Deleted:   f.deleted.Load(),
		Skipped:   f.skipped.Load(),
		Truncated: f.truncated.Load(),
	}
}

// runCycle performs one fetch → deliver-all → account pass. Any
// infrastructure failure aborts the cycle, never the loop.
func (f *Forwarder) runCycle(ctx context.Context) {
	log := zlog.Logger.With().Str("cycle", uuid.NewString()).Logger()

	notifications, err := f.repo.FetchPending(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch pending notifications, cycle aborted")
		return
	}

	// Delivery follows queue insertion order even if the store hands the
	// batch back unsorted.
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].ID < notifications[j].ID
	})

	for _, n := range notifications {
		// Stop scheduling new deliveries once cancelled; rows not yet
		// delivered stay queued.
		if ctx.Err() != nil {
			return
		}

		f.forward(ctx, log, n)
	}

	f.cycles.Add(1)
}

// forward delivers a single notification and deletes its row on success.
// Every failure here is per-row: the row stays queued and the cycle
// moves on.
func (f *Forwarder) forward(ctx context.Context, log zerolog.Logger, n model.Notification) {
	channelID := f.resolveChannelID(log, n.Recipient)

	target := f.fetchTarget(ctx, channelID)
	if target == nil {
		f.skipped.Add(1)
		log.Warn().Int64("push_id", n.ID).Int64("channel_id", channelID).Msg("skipping push, channel unavailable")
		return
	}

	text, truncated := n.Format()
	if truncated {
		f.truncated.Add(1)
		log.Warn().Int64("push_id", n.ID).Msg("push message truncated to fit platform limit")
	}

	if err := target.Send(ctx, text); err != nil {
		f.skipped.Add(1)
		log.Error().Err(err).Int64("push_id", n.ID).Int64("channel_id", channelID).Msg("failed to send push, will retry next cycle")
		return
	}

	f.forwarded.Add(1)

	if err := f.repo.DeleteByID(ctx, n.ID); err != nil {
		// The send already happened, so the row will be delivered again
		// next cycle. At-least-once: a duplicate, never a loss.
		log.Warn().Err(err).Int64("push_id", n.ID).Msg("failed to delete delivered push, duplicate expected next cycle")
		return
	}

	f.deleted.Add(1)
}

// resolveChannelID maps a logical recipient to a channel id. Unmapped
// recipients fall back to the default channel; that fallback is logged
// unless the recipient is empty or the reserved "self" sentinel.
func (f *Forwarder) resolveChannelID(log zerolog.Logger, recipient string) int64 {
	if recipient != "" {
		if id, ok := f.channelMap[recipient]; ok {
			return id
		}
		if recipient != model.RecipientSelf {
			log.Warn().Str("recipient", recipient).Int64("channel_id", f.defaultChannel).Msg("recipient not in channel map, using default channel")
		}
	}

	return f.defaultChannel
}

// fetchTarget resolves a channel id to a delivery target, consulting the
// run-scoped cache first, then the session, then the network. A nil
// return means the row should be skipped this cycle.
func (f *Forwarder) fetchTarget(ctx context.Context, channelID int64) transport.Target {
	if target, ok := f.targets[channelID]; ok {
		return target
	}

	target, ok := f.client.Channel(channelID)
	if !ok {
		var err error
		target, err = f.client.FetchChannel(ctx, channelID)
		if err != nil {
			zlog.Logger.Error().Err(err).Int64("channel_id", channelID).Msg("failed to fetch channel")
			return nil
		}
	}

	f.targets[channelID] = target

	return target
}
