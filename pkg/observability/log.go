package observability

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event as a debug-level log line.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that write to logger. A nil logger uses
// log.Default().
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnConvertStart(_ context.Context, format string, inputBytes int) {
	h.logger.Debug("convert start", "format", format, "bytes", inputBytes)
}

func (h *LogHooks) OnConvertComplete(_ context.Context, format string, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("convert failed", "format", format, "err", err, "elapsed", d.Round(time.Microsecond))
		return
	}
	h.logger.Debug("convert done", "format", format, "nodes", nodes, "edges", edges, "elapsed", d.Round(time.Microsecond))
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("export start", "formats", strings.Join(formats, ","))
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("export done", "formats", strings.Join(formats, ","), "elapsed", d.Round(time.Microsecond), "err", err)
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
	h.logger.Debug("request start", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("request done", "method", method, "route", route, "status", status, "elapsed", d.Round(time.Microsecond))
}

func (h *LogHooks) OnPanic(_ context.Context, method, route string, recovered any) {
	h.logger.Error("panic in handler", "method", method, "route", route, "panic", recovered)
}

var (
	_ ConvertHooks = (*LogHooks)(nil)
	_ CacheHooks   = (*LogHooks)(nil)
	_ HTTPHooks    = (*LogHooks)(nil)
)
