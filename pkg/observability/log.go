package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event as a debug line of a logger. It implements
// LayoutHooks, CacheHooks and HTTPHooks.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to logger. A nil logger means the
// default logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnLayoutStart(_ context.Context, stage string, boxes int) {
	h.logger.Debug("layout started", "stage", stage, "boxes", boxes)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, stage string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout failed", "stage", stage, "took", d, "err", err)
		return
	}
	h.logger.Debug("layout done", "stage", stage, "took", d)
}

func (h *LogHooks) OnSplit(_ context.Context, nodes []int) {
	h.logger.Debug("split nodes on cycles", "nodes", nodes)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "route", route, "status", status, "took", d)
}
