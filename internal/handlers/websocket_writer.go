package handlers

import (
	"strings"
	"sync"

	plog "github.com/phuslu/log"
	"github.com/ternarybob/arbor/levels"
	arbormodels "github.com/ternarybob/arbor/models"

	"github.com/ternarybob/neuink/internal/common"
)

// Buffered queue between the logger and the broadcast loop so slow clients
// never block logging
const defaultLogStreamBuffer = 100

var defaultExcludePatterns = []string{
	"WebSocket client connected",
	"WebSocket client disconnected",
	"HTTP request",
	"HTTP response",
	"Publishing event",
}

// WebSocketLogWriter forwards log events to connected WebSocket clients,
// filtered by level and message patterns. It consumes batches from an arbor
// log channel; register the channel on the root logger with SetChannel.
type WebSocketLogWriter struct {
	handler         *WebSocketHandler
	channel         chan []arbormodels.LogEvent
	done            chan struct{}
	closeOnce       sync.Once
	wg              sync.WaitGroup
	minLevel        levels.LogLevel
	excludePatterns []string
}

// NewWebSocketLogWriter creates the log bridge. Call Start to begin
// forwarding and wire GetChannel into the logger.
func NewWebSocketLogWriter(handler *WebSocketHandler, wsConfig *common.WebSocketConfig) *WebSocketLogWriter {
	minLevel := levels.InfoLevel
	excludePatterns := defaultExcludePatterns

	if wsConfig != nil {
		minLevel = parseLogLevel(wsConfig.MinLevel)
		if len(wsConfig.ExcludePatterns) > 0 {
			excludePatterns = wsConfig.ExcludePatterns
		}
	}

	return &WebSocketLogWriter{
		handler:         handler,
		channel:         make(chan []arbormodels.LogEvent, defaultLogStreamBuffer),
		done:            make(chan struct{}),
		minLevel:        minLevel,
		excludePatterns: excludePatterns,
	}
}

// GetChannel returns the channel to register on the logger via SetChannel
func (w *WebSocketLogWriter) GetChannel() chan []arbormodels.LogEvent {
	return w.channel
}

// Start launches the forwarding loop
func (w *WebSocketLogWriter) Start() {
	w.wg.Add(1)
	go w.consume()
}

func (w *WebSocketLogWriter) consume() {
	defer w.wg.Done()

	for {
		select {
		case batch, ok := <-w.channel:
			if !ok {
				return
			}
			for _, event := range batch {
				w.forward(event)
			}
		case <-w.done:
			return
		}
	}
}

// forward broadcasts one log event if it clears the level and pattern filters
func (w *WebSocketLogWriter) forward(event arbormodels.LogEvent) {
	arborLevel := plogToArborLevel(event.Level)
	if arborLevel < w.minLevel {
		return
	}

	for _, pattern := range w.excludePatterns {
		if strings.Contains(event.Message, pattern) {
			return
		}
	}

	w.handler.BroadcastLog(LogEntry{
		Timestamp: event.Timestamp.Format("15:04:05"),
		Level:     levelString(arborLevel),
		Message:   event.Message,
	})
}

// Close stops the forwarding loop and waits for it to drain
func (w *WebSocketLogWriter) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
	})
	w.wg.Wait()
	return nil
}

// plogToArborLevel converts phuslu/log.Level to arbor levels.LogLevel
func plogToArborLevel(level plog.Level) levels.LogLevel {
	switch level {
	case plog.ErrorLevel:
		return levels.ErrorLevel
	case plog.WarnLevel:
		return levels.WarnLevel
	case plog.InfoLevel:
		return levels.InfoLevel
	case plog.DebugLevel:
		return levels.DebugLevel
	default:
		return levels.InfoLevel
	}
}

// parseLogLevel converts a config string to arbor levels.LogLevel
func parseLogLevel(level string) levels.LogLevel {
	switch strings.ToLower(level) {
	case "error":
		return levels.ErrorLevel
	case "warn", "warning":
		return levels.WarnLevel
	case "info":
		return levels.InfoLevel
	case "debug":
		return levels.DebugLevel
	default:
		return levels.InfoLevel
	}
}

// levelString maps arbor log levels to the strings clients display
func levelString(level levels.LogLevel) string {
	switch level {
	case levels.ErrorLevel:
		return "error"
	case levels.WarnLevel:
		return "warn"
	case levels.InfoLevel:
		return "info"
	case levels.DebugLevel:
		return "debug"
	default:
		return "info"
	}
}
