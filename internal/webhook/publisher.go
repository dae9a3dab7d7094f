package webhook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/fala_cidadao/internal/events"
	"github.com/sirupsen/logrus"
)

const (
	webhookQueueKey = "falaCidadao:webhook_events"
	webhookSource   = "fala_cidadao"
)

// WebhookEvent - структура для данных вебхука, отправляемого интеграции органа власти
type WebhookEvent struct {
	events.Event
	Source string `json:"source"`
}

// WebhookPublisher - интерфейс для публикации вебхуков
type WebhookPublisher interface {
	Publish(ctx context.Context, event WebhookEvent) error
}

// RedisWebhookPublisher - реализация WebhookPublisher, использующая Redis
type RedisWebhookPublisher struct {
	redisClient *redis.Client
}

// NewRedisWebhookPublisher создает новый RedisWebhookPublisher
func NewRedisWebhookPublisher(client *redis.Client) *RedisWebhookPublisher {
	return &RedisWebhookPublisher{
		redisClient: client,
	}
}

// Publish публикует событие вебхука в очередь Redis
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event WebhookEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	// LPUSH кладёт в левую часть списка, воркер забирает справа
	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}

// NewEventHandler ставит каждое событие шины в очередь вебхуков
func NewEventHandler(publisher WebhookPublisher, logger *logrus.Logger) events.Handler {
	return func(ctx context.Context, e events.Event) {
		// вебхук не должен зависеть от отмены HTTP-запроса
		err := publisher.Publish(context.WithoutCancel(ctx), WebhookEvent{Event: e, Source: webhookSource})
		if err != nil {
			logger.WithFields(logrus.Fields{
				"component": "webhook",
				"kind":      e.Kind,
				"report_id": e.ReportID,
			}).WithError(err).Error("Failed to enqueue webhook event")
		}
	}
}
