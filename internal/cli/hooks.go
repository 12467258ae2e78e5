package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/parttree/pkg/observability"
)

// logHooks reports pipeline, cache and HTTP events at debug level.
type logHooks struct {
	logger *log.Logger
}

// installLogHooks registers logHooks for all event kinds and returns a
// function that restores the previous hooks.
func installLogHooks(l *log.Logger) func() {
	h := &logHooks{logger: l.WithPrefix("trace")}
	return observability.Install(observability.Hooks{Pipeline: h, Cache: h, HTTP: h})
}

func (h *logHooks) OnFetchStart(_ context.Context, source, part string) {
	h.logger.Debug("fetch start", "source", source, "part", part)
}

func (h *logHooks) OnFetchComplete(_ context.Context, source, part string, nodes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("fetch failed", "source", source, "part", part, "duration", d, "error", err)
		return
	}
	h.logger.Debug("fetch done", "source", source, "part", part, "nodes", nodes, "duration", d)
}

func (h *logHooks) OnBuildStart(_ context.Context, format string, nodes int) {
	h.logger.Debug("build start", "format", format, "nodes", nodes)
}

func (h *logHooks) OnBuildComplete(_ context.Context, format string, d time.Duration, err error) {
	h.logger.Debug("build done", "format", format, "duration", d, "error", err)
}

func (h *logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render done", "formats", formats, "duration", d, "error", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, kind string) {
	h.logger.Debug("cache hit", "kind", kind)
}

func (h *logHooks) OnCacheMiss(_ context.Context, kind string) {
	h.logger.Debug("cache miss", "kind", kind)
}

func (h *logHooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.logger.Debug("cache set", "kind", kind, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "error", err)
}
