package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nexticket/internal/models"
)

type Config struct {
	Addr          string
	Password      string
	RoleTTL       time.Duration
	AdvertisedTTL time.Duration
}

// ValkeyClient caches role lookups (one per identity per request path)
// and the small advertised-ticket set served on the landing page.
type ValkeyClient struct {
	client        *redis.Client
	roleTTL       time.Duration
	advertisedTTL time.Duration
}

const advertisedKey = "tickets:advertised"

func roleKey(email string) string {
	return "role:" + email
}

func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	if cfg.RoleTTL == 0 {
		cfg.RoleTTL = 5 * time.Minute
	}
	if cfg.AdvertisedTTL == 0 {
		cfg.AdvertisedTTL = time.Minute
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{
		client:        rdb,
		roleTTL:       cfg.RoleTTL,
		advertisedTTL: cfg.AdvertisedTTL,
	}, nil
}

// GetRole returns the cached role info for an email, nil on a miss.
func (v *ValkeyClient) GetRole(ctx context.Context, email string) (*models.RoleInfo, error) {
	raw, err := v.client.Get(ctx, roleKey(email)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}

	info := &models.RoleInfo{}
	if err := json.Unmarshal([]byte(raw), info); err != nil {
		return nil, fmt.Errorf("invalid role entry in cache: %w", err)
	}

	return info, nil
}

func (v *ValkeyClient) SetRole(ctx context.Context, email string, info *models.RoleInfo) error {
	raw, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return v.client.Set(ctx, roleKey(email), raw, v.roleTTL).Err()
}

func (v *ValkeyClient) InvalidateRole(ctx context.Context, email string) error {
	return v.client.Del(ctx, roleKey(email)).Err()
}

// GetAdvertised returns the cached advertised set, nil on a miss.
func (v *ValkeyClient) GetAdvertised(ctx context.Context) ([]models.Ticket, error) {
	raw, err := v.client.Get(ctx, advertisedKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}

	var tickets []models.Ticket
	if err := json.Unmarshal([]byte(raw), &tickets); err != nil {
		return nil, fmt.Errorf("invalid advertised entry in cache: %w", err)
	}

	return tickets, nil
}

func (v *ValkeyClient) SetAdvertised(ctx context.Context, tickets []models.Ticket) error {
	raw, err := json.Marshal(tickets)
	if err != nil {
		return err
	}
	return v.client.Set(ctx, advertisedKey, raw, v.advertisedTTL).Err()
}

func (v *ValkeyClient) InvalidateAdvertised(ctx context.Context) error {
	return v.client.Del(ctx, advertisedKey).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
