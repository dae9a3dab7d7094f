// Package events - внутрипроцессная шина изменений коллекции обращений.
package events

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/fala_cidadao/internal/models"
	"github.com/sirupsen/logrus"
)

// Kind - тип изменения коллекции
type Kind string

const (
	KindCollectionSeeded   Kind = "collection.seeded"
	KindReportCreated      Kind = "report.created"
	KindReportConfirmed    Kind = "report.confirmed"
	KindEvidenceAttached   Kind = "report.evidence_attached"
	KindStatusChanged      Kind = "report.status_changed"
	KindAuthorityResponded Kind = "report.authority_responded"
)

// Event - уведомление о сохранённом изменении
type Event struct {
	ID            uuid.UUID     `json:"id"`
	Kind          Kind          `json:"kind"`
	ReportID      string        `json:"report_id,omitempty"`
	City          string        `json:"city,omitempty"`
	Category      string        `json:"category,omitempty"`
	Status        models.Status `json:"status,omitempty"`
	Confirmations int           `json:"confirmations,omitempty"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

// New собирает событие по обращению; r может быть nil для событий уровня коллекции
func New(kind Kind, r *models.Report, now time.Time) Event {
	e := Event{
		ID:         uuid.New(),
		Kind:       kind,
		OccurredAt: now.UTC(),
	}
	if r != nil {
		e.ReportID = r.ID
		e.City = r.ReportCity()
		e.Category = r.Category
		e.Status = r.Status
		e.Confirmations = r.Impact.Confirmations
	}
	return e
}

// Handler получает события синхронно, в порядке публикации
type Handler func(ctx context.Context, e Event)

// Broker рассылает события всем подписчикам
type Broker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]Handler
	logger *logrus.Logger
}

func NewBroker(logger *logrus.Logger) *Broker {
	return &Broker{
		subs:   make(map[int]Handler),
		logger: logger,
	}
}

// Subscribe регистрирует обработчик и возвращает функцию отписки
func (b *Broker) Subscribe(h Handler) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = h
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish вызывает подписчиков по порядку подписки; паника одного не мешает остальным
func (b *Broker) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	handlers := make([]Handler, 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		handlers = append(handlers, b.subs[id])
	}
	b.mu.RUnlock()

	log := b.logger.WithFields(logrus.Fields{
		"component": "events",
		"kind":      e.Kind,
		"report_id": e.ReportID,
	})
	log.Debug("Publishing event")

	for _, h := range handlers {
		b.dispatch(ctx, log, h, e)
	}
}

func (b *Broker) dispatch(ctx context.Context, log *logrus.Entry, h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Event subscriber panicked")
		}
	}()
	h(ctx, e)
}
