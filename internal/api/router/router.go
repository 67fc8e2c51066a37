package router

import (
	"github.com/wb-go/wbf/ginext"

	"github.com/znclog/push-forwarder/internal/api/handlers/queue"
)

func New(handler *queue.Handler) *ginext.Engine {
	e := ginext.New()
	e.Use(ginext.Logger())
	e.Use(ginext.Recovery())

	e.GET("/healthz", handler.Health)

	api := e.Group("/api/queue")
	{
		api.GET("/", handler.GetPending)
		api.GET("/stats", handler.GetStats)
	}

	return e
}
