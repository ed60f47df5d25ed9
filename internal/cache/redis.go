package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/unclebandit/dinerreach/internal/model"
)

const (
	campaignListKey       = "dinerreach:campaigns:list"
	campaignGenerationKey = "dinerreach:campaigns:gen"
)

// Redis shares the campaign list between server instances.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// DialRedis connects and pings the server.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

func (r *Redis) Get(ctx context.Context) ([]model.Campaign, bool, error) {
	data, err := r.client.Get(ctx, campaignListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get campaigns: %w", err)
	}

	var campaigns []model.Campaign
	if err := json.Unmarshal(data, &campaigns); err != nil {
		return nil, false, fmt.Errorf("decode cached campaigns: %w", err)
	}
	return campaigns, true, nil
}

func (r *Redis) Generation(ctx context.Context) (uint64, error) {
	return generation(ctx, r.client)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func generation(ctx context.Context, c getter) (uint64, error) {
	gen, err := c.Get(ctx, campaignGenerationKey).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get campaign generation: %w", err)
	}
	return gen, nil
}

// Set writes the list only while the generation key still holds gen. The
// WATCH aborts the write if another instance invalidates mid-transaction.
func (r *Redis) Set(ctx context.Context, gen uint64, campaigns []model.Campaign) error {
	data, err := json.Marshal(campaigns)
	if err != nil {
		return fmt.Errorf("encode campaigns: %w", err)
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := generation(ctx, tx)
		if err != nil {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, campaignListKey, data, r.ttl)
			return nil
		})
		return err
	}, campaignGenerationKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis set campaigns: %w", err)
	}
	return nil
}

func (r *Redis) Invalidate(ctx context.Context) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, campaignListKey)
		pipe.Incr(ctx, campaignGenerationKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate campaigns: %w", err)
	}
	return nil
}

var _ CampaignListCache = (*Redis)(nil)
