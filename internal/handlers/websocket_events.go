// -----------------------------------------------------------------------
// WebSocket Events - Bridges the event bus onto connected clients
// -----------------------------------------------------------------------

package handlers

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/common"
	"github.com/ternarybob/neuink/internal/interfaces"
	"golang.org/x/time/rate"
)

// wsBridgedEvents lists the domain events forwarded to WebSocket clients
var wsBridgedEvents = []interfaces.EventType{
	interfaces.EventPaperCreated,
	interfaces.EventPaperUpdated,
	interfaces.EventPaperDeleted,
	interfaces.EventContentSaved,
	interfaces.EventChecklistChanged,
	interfaces.EventImportCompleted,
	interfaces.EventTranslationCompleted,
	interfaces.EventBackupCompleted,
}

// EventSubscriber forwards domain events to WebSocket clients, applying the
// configured whitelist and per-event throttling before broadcasting
type EventSubscriber struct {
	handler       *WebSocketHandler
	eventService  interfaces.EventService
	logger        arbor.ILogger
	allowedEvents map[string]bool          // empty = allow all
	throttlers    map[string]*rate.Limiter // per event type, nil entry = unthrottled
}

// NewEventSubscriber creates the subscriber and registers it on the bus
func NewEventSubscriber(handler *WebSocketHandler, eventService interfaces.EventService, logger arbor.ILogger, config *common.WebSocketConfig) *EventSubscriber {
	s := &EventSubscriber{
		handler:      handler,
		eventService: eventService,
		logger:       logger,
	}

	s.allowedEvents = make(map[string]bool)
	if config != nil && len(config.AllowedEvents) > 0 {
		for _, eventType := range config.AllowedEvents {
			s.allowedEvents[eventType] = true
		}
	}

	s.throttlers = make(map[string]*rate.Limiter)
	if config != nil {
		for eventType, intervalStr := range config.ThrottleIntervals {
			duration, err := time.ParseDuration(intervalStr)
			if err != nil {
				logger.Warn().
					Err(err).
					Str("event_type", eventType).
					Str("interval", intervalStr).
					Msg("Failed to parse throttle interval, event left unthrottled")
				continue
			}
			s.throttlers[eventType] = rate.NewLimiter(rate.Every(duration), 1)
			logger.Debug().
				Str("event_type", eventType).
				Str("interval", intervalStr).
				Msg("Throttler initialized for event type")
		}
	}

	if eventService == nil {
		logger.Warn().Msg("EventSubscriber created with nil eventService, subscriptions skipped")
		return s
	}

	s.SubscribeAll()
	return s
}

// SubscribeAll registers the bridge for every forwarded event type
func (s *EventSubscriber) SubscribeAll() {
	if s.eventService == nil {
		return
	}

	for _, eventType := range wsBridgedEvents {
		s.eventService.Subscribe(eventType, s.handleDomainEvent)
	}

	s.logger.Info().
		Int("event_types", len(wsBridgedEvents)).
		Msg("EventSubscriber registered for library change events")
}

// handleDomainEvent forwards one bus event to the clients
func (s *EventSubscriber) handleDomainEvent(ctx context.Context, event interfaces.Event) error {
	eventType := string(event.Type)

	if !s.shouldBroadcastEvent(eventType) {
		return nil
	}

	payload := map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if fields, ok := event.Payload.(map[string]interface{}); ok {
		for k, v := range fields {
			payload[k] = v
		}
	}

	s.handler.Broadcast(eventType, payload)
	return nil
}

// shouldBroadcastEvent applies whitelist filtering and throttling
func (s *EventSubscriber) shouldBroadcastEvent(eventType string) bool {
	if len(s.allowedEvents) > 0 && !s.allowedEvents[eventType] {
		return false
	}

	if throttler, ok := s.throttlers[eventType]; ok && throttler != nil {
		if !throttler.Allow() {
			return false
		}
	}

	return true
}
