package webhook_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shenikar/fala_cidadao/internal/events"
	"github.com/shenikar/fala_cidadao/internal/webhook"
	"github.com/shenikar/fala_cidadao/internal/webhook/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestEventHandler_EnqueuesEvent(t *testing.T) {
	// Подготовка
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockWebhookPublisher(ctrl)
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	e := events.Event{Kind: events.KindStatusChanged, ReportID: "DMD-2025-1218-1234"}

	// Ожидания
	publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, we webhook.WebhookEvent) error {
			assert.Equal(t, e.ReportID, we.ReportID)
			assert.Equal(t, "fala_cidadao", we.Source)
			return nil
		})

	// Действие
	webhook.NewEventHandler(publisher, logger)(context.Background(), e)
}

func TestEventHandler_LogsPublishError(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockWebhookPublisher(ctrl)
	var logs bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&logs)

	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	webhook.NewEventHandler(publisher, logger)(context.Background(), events.Event{Kind: events.KindReportCreated})

	assert.Contains(t, logs.String(), "Failed to enqueue webhook event")
}
