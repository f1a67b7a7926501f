package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/observability"
)

// NotificationService reacts to activity events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventPostCreated, n.handle("PostCreated"))
	n.dispatcher.Subscribe(events.EventCommentAdded, n.handle("CommentAdded"))
	n.dispatcher.Subscribe(events.EventPostLiked, n.handle("PostLiked"))
	n.dispatcher.Subscribe(events.EventPostFavorited, n.handle("PostFavorited"))
}

func (n *NotificationService) handle(name string) events.EventHandler {
	return func(ctx context.Context, event events.Event) error {
		n.metrics.RecordEvent(string(event.Type))
		n.logger.Info(name,
			zap.String("event_id", event.ID),
			zap.Int64("post_id", event.PostID),
			zap.Int64("actor_id", event.ActorID),
			zap.Any("payload", event.Payload))
		n.sendWebhookNotificationStub(ctx, event)
		return nil
	}
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("post_id", event.PostID),
		zap.String("event_type", string(event.Type)))
}

// publish emits an event and logs delivery failures without surfacing them.
func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event publication failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
