// Package geocode определяет город по координатам через Nominatim.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/fala_cidadao/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const cacheKeyPrefix = "falaCidadao:geocode:"

// ErrNoCity - ответ не содержит ни одного поля с названием населённого пункта
var ErrNoCity = errors.New("geocoder response has no city")

type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	CacheTTL  time.Duration
}

// Client - клиент обратного геокодирования с кешем в Redis
type Client struct {
	baseURL     string
	userAgent   string
	httpClient  *http.Client
	timeout     time.Duration
	redisClient *redis.Client
	cacheTTL    time.Duration
	group       singleflight.Group
	logger      *logrus.Logger
}

// NewClient создаёт клиента; redisClient может быть nil, тогда кеш не используется
func NewClient(opts Options, redisClient *redis.Client, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		userAgent:   opts.UserAgent,
		httpClient:  &http.Client{Timeout: opts.Timeout},
		timeout:     opts.Timeout,
		redisClient: redisClient,
		cacheTTL:    opts.CacheTTL,
		logger:      logger,
	}
}

type reverseResponse struct {
	Address struct {
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Municipality string `json:"municipality"`
		County       string `json:"county"`
		State        string `json:"state"`
	} `json:"address"`
}

// Reverse возвращает город и штат; одинаковые одновременные запросы объединяются.
// Общий запрос не зависит от отмены контекста первого вызвавшего, каждый вызывающий
// ждёт его не дольше своего контекста
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (models.Place, error) {
	key := cacheKey(lat, lng)

	if place, ok := c.fromCache(ctx, key); ok {
		return place, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := c.sharedContext(ctx)
		defer cancel()

		place, err := c.fetch(fetchCtx, lat, lng)
		if err != nil {
			return models.Place{}, err
		}
		c.toCache(fetchCtx, key, place)
		return place, nil
	})

	select {
	case <-ctx.Done():
		return models.Place{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return models.Place{}, res.Err
		}
		return res.Val.(models.Place), nil
	}
}

// sharedContext сохраняет значения ctx, но не его отмену; срок ограничен таймаутом клиента
func (c *Client) sharedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if c.timeout > 0 {
		return context.WithTimeout(detached, c.timeout)
	}
	return context.WithCancel(detached)
}

func (c *Client) fetch(ctx context.Context, lat, lng float64) (models.Place, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("zoom", "12")
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return models.Place{}, fmt.Errorf("geocode: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Place{}, fmt.Errorf("geocode: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Place{}, fmt.Errorf("geocode: unexpected status code %d", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.Place{}, fmt.Errorf("geocode: failed to decode response: %w", err)
	}

	a := body.Address
	city := firstNonEmpty(a.City, a.Town, a.Village, a.Municipality, a.County)
	if city == "" {
		return models.Place{}, ErrNoCity
	}
	return models.Place{City: city, State: a.State}, nil
}

func (c *Client) fromCache(ctx context.Context, key string) (models.Place, bool) {
	if c.redisClient == nil {
		return models.Place{}, false
	}
	val, err := c.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WithError(err).Warn("Failed to read geocode cache")
		}
		return models.Place{}, false
	}
	var place models.Place
	if err := json.Unmarshal(val, &place); err != nil {
		return models.Place{}, false
	}
	return place, true
}

func (c *Client) toCache(ctx context.Context, key string, place models.Place) {
	if c.redisClient == nil || c.cacheTTL <= 0 {
		return
	}
	val, err := json.Marshal(place)
	if err != nil {
		return
	}
	if err := c.redisClient.Set(ctx, key, val, c.cacheTTL).Err(); err != nil {
		c.logger.WithError(err).Warn("Failed to write geocode cache")
	}
}

// cacheKey округляет координаты до 4 знаков (~11 м)
func cacheKey(lat, lng float64) string {
	return fmt.Sprintf("%s%.4f,%.4f", cacheKeyPrefix, lat, lng)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
