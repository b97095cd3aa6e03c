package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"vertitrack/internal/domain"
	"vertitrack/internal/service/alert"
)

const countsTTL = 5 * time.Minute

type Counter interface {
	CountUnread(ctx context.Context) (int64, error)
	CountByPriority(ctx context.Context, priority domain.Priority) (int64, error)
}

type Service interface {
	Counts(ctx context.Context) (*domain.AlertCounts, error)
}

type service struct {
	alerts Counter
	redis  *redis.Client
}

func NewService(alerts Counter, redis *redis.Client) Service {
	return &service{
		alerts: alerts,
		redis:  redis,
	}
}

func (s *service) Counts(ctx context.Context) (*domain.AlertCounts, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, alert.CountsCacheKey).Result(); err == nil {
			var counts domain.AlertCounts
			if json.Unmarshal([]byte(cached), &counts) == nil {
				return &counts, nil
			}
		}
	}

	unread, err := s.alerts.CountUnread(ctx)
	if err != nil {
		return nil, err
	}

	counts := &domain.AlertCounts{
		Unread:     unread,
		ByPriority: make(map[domain.Priority]int64, len(domain.Priorities)),
	}
	for _, p := range domain.Priorities {
		n, err := s.alerts.CountByPriority(ctx, p)
		if err != nil {
			return nil, err
		}
		counts.ByPriority[p] = n
	}

	if s.redis != nil {
		if countsJSON, err := json.Marshal(counts); err == nil {
			_ = s.redis.Set(ctx, alert.CountsCacheKey, countsJSON, countsTTL).Err()
		}
	}

	return counts, nil
}
