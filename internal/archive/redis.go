package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ayash-Bera/geonews/backend/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// RecentReportsKey holds the newest reports, newest first.
const RecentReportsKey = "news:reports:recent"

// RedisArchive pushes reports onto a capped list.
type RedisArchive struct {
	client *redis.Client
	keep   int64
	ttl    time.Duration
}

func NewRedisArchive(client *redis.Client, keep int, ttl time.Duration) *RedisArchive {
	if keep <= 0 {
		keep = 100
	}
	return &RedisArchive{client: client, keep: int64(keep), ttl: ttl}
}

func (a *RedisArchive) Save(ctx context.Context, report Report) error {
	if err := report.validate(); err != nil {
		return err
	}

	record := report.record()
	record.ID = uuid.NewString()
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = a.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, RecentReportsKey, data)
		pipe.LTrim(ctx, RecentReportsKey, 0, a.keep-1)
		if a.ttl > 0 {
			pipe.Expire(ctx, RecentReportsKey, a.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}
	return nil
}

// Recent returns up to limit stored reports, newest first. A non-empty
// location keeps only reports for that place.
func (a *RedisArchive) Recent(ctx context.Context, location string, limit int) ([]models.NewsReport, error) {
	stop := int64(limit) - 1
	if location != "" {
		stop = -1
	}
	items, err := a.client.LRange(ctx, RecentReportsKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read reports: %w", err)
	}

	out := make([]models.NewsReport, 0, len(items))
	for _, item := range items {
		var row models.NewsReport
		if err := json.Unmarshal([]byte(item), &row); err != nil {
			continue
		}
		if location != "" && row.LocationName != location {
			continue
		}
		out = append(out, row)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (a *RedisArchive) Ping(ctx context.Context) error {
	return a.client.Ping(ctx).Err()
}

func (a *RedisArchive) Driver() string { return DriverRedis }
