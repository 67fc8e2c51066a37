package queue

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/znclog/push-forwarder/internal/api/respond"
	"github.com/znclog/push-forwarder/internal/model"
	"github.com/znclog/push-forwarder/internal/worker"
)

// queueStore exposes the read-only view of the push queue the ops API
// serves.
//
//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/queue/mock.go -package=mocks
type queueStore interface {
	FetchPending(ctx context.Context) ([]model.Notification, error)
}

// engineStats exposes the forwarding engine's delivery counters.
type engineStats interface {
	Stats() worker.Stats
}

// Handler serves the read-only operational endpoints: the pending queue
// as the next cycle will see it, the engine counters, and liveness.
type Handler struct {
	store queueStore
	stats engineStats
}

// NewHandler creates a new ops API handler.
func NewHandler(store queueStore, stats engineStats) *Handler {
	return &Handler{store: store, stats: stats}
}

// GetPending handles HTTP GET requests for the current queue contents.
func (h *Handler) GetPending(c *ginext.Context) {
	notifications, err := h.store.FetchPending(c.Request.Context())
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to fetch pending notifications")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	if notifications == nil {
		notifications = []model.Notification{}
	}

	respond.OK(c.Writer, notifications)
}

// GetStats handles HTTP GET requests for the engine's delivery counters.
func (h *Handler) GetStats(c *ginext.Context) {
	respond.OK(c.Writer, h.stats.Stats())
}

// Health handles HTTP GET liveness checks.
func (h *Handler) Health(c *ginext.Context) {
	respond.OK(c.Writer, "ok")
}
