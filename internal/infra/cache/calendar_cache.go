package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/chamados-pro/internal/domain/schedule"
)

// CalendarCache guarda em redis as listagens de eventos do calendário.
// Sem redis ou com TTL zerado repassa direto para a origem.
type CalendarCache struct {
	next  schedule.EventSource
	redis *redis.Client
	ttl   time.Duration
	log   zerolog.Logger
}

func NewCalendarCache(next schedule.EventSource, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *CalendarCache {
	return &CalendarCache{
		next:  next,
		redis: rdb,
		ttl:   ttl,
		log:   log.With().Str("component", "calendar_cache").Logger(),
	}
}

func (c *CalendarCache) ListEvents(ctx context.Context, q schedule.EventQuery) ([]schedule.CalendarEvent, error) {
	key := c.key(ctx, q)

	var events []schedule.CalendarEvent
	if c.readCache(ctx, key, &events) {
		return events, nil
	}

	events, err := c.next.ListEvents(ctx, q)
	if err != nil {
		return nil, err
	}

	c.writeCache(ctx, key, events)
	return events, nil
}

// Invalidate descarta as listagens da empresa (novo chamado, reconexão).
func (c *CalendarCache) Invalidate(ctx context.Context, companyID string) {
	if !c.enabled() {
		return
	}
	if err := c.redis.Incr(ctx, generationKey(companyID)).Err(); err != nil {
		c.log.Warn().Err(err).Str("company_id", companyID).Msg("cache invalidate failed")
	}
}

func (c *CalendarCache) enabled() bool {
	return c.redis != nil && c.ttl > 0
}

func (c *CalendarCache) key(ctx context.Context, q schedule.EventQuery) string {
	gen := int64(0)
	if c.enabled() {
		if v, err := c.redis.Get(ctx, generationKey(q.CompanyID)).Int64(); err == nil {
			gen = v
		}
	}
	return fmt.Sprintf(
		"gcal:events:%s:%d:%s:%d:%d",
		q.CompanyID, gen, q.CalendarID, q.TimeMin.Unix(), q.TimeMax.Unix(),
	)
}

func generationKey(companyID string) string {
	return "gcal:gen:" + companyID
}

func (c *CalendarCache) readCache(ctx context.Context, key string, out any) bool {
	if !c.enabled() {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug().Err(err).Msg("cache read failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *CalendarCache) writeCache(ctx context.Context, key string, val any) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.ttl).Err()
}
