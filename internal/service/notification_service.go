package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/resolution-estimator/internal/config"
	"github.com/spec-kit/resolution-estimator/internal/events"
)

// EventQueue accepts events for asynchronous delivery.
type EventQueue interface {
	Enqueue(event events.Event) bool
}

// NotificationService logs service events and forwards them to the webhook queue.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	queue      EventQueue
}

// NewNotificationService creates the service. queue may be nil when no webhook is configured.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, queue EventQueue) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		queue:      queue,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventPredictionServed, n.handlePredictionServed)
	n.dispatcher.Subscribe(events.EventPredictionFailed, n.handlePredictionFailed)
	n.dispatcher.Subscribe(events.EventArtifactsReloaded, n.handleArtifactsReloaded)
}

func (n *NotificationService) handlePredictionServed(ctx context.Context, event events.Event) error {
	n.logger.Debug("PredictionServed", zap.String("request_id", event.RequestID), zap.Any("payload", event.Payload))
	n.forward(event)
	return nil
}

func (n *NotificationService) handlePredictionFailed(ctx context.Context, event events.Event) error {
	n.logger.Debug("PredictionFailed", zap.String("request_id", event.RequestID), zap.Any("payload", event.Payload))
	n.forward(event)
	return nil
}

func (n *NotificationService) handleArtifactsReloaded(ctx context.Context, event events.Event) error {
	n.logger.Info("ArtifactsReloaded", zap.Any("payload", event.Payload))
	n.forward(event)
	return nil
}

func (n *NotificationService) forward(event events.Event) {
	if n.queue == nil {
		return
	}
	if !n.queue.Enqueue(event) {
		n.logger.Warn("notification queue full; dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}
}

// WebhookNotifier posts events as JSON to the configured URL.
type WebhookNotifier struct {
	cfg config.NotificationConfig
}

// NewWebhookNotifier returns nil when no webhook URL is configured.
func NewWebhookNotifier(cfg config.NotificationConfig) *WebhookNotifier {
	if strings.TrimSpace(cfg.WebhookURL) == "" {
		return nil
	}
	return &WebhookNotifier{cfg: cfg}
}

// Deliver sends one event.
func (w *WebhookNotifier) Deliver(ctx context.Context, event events.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	agent := fiber.Post(w.cfg.WebhookURL).
		Timeout(w.cfg.Timeout()).
		JSON(event)
	if err := agent.Parse(); err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("webhook post: %w", errs[0])
	}
	if status >= fiber.StatusBadRequest {
		return fmt.Errorf("webhook post: status %d: %s", status, truncate(string(body), 200))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
