package undo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/jasonalanellis/service-crm-with-wizard-sub001/internal/models"
)

// Cache keeps a copy of hard-deleted appointments for the tenant's undo
// window. This is a cached snapshot, not transactional undo: restoring
// re-inserts the record as a new row.
type Cache struct {
	rdb *redis.Client
}

func NewCache(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

func key(tenantID uint, token string) string {
	return fmt.Sprintf("undo:appointment:%d:%s", tenantID, token)
}

// Stash stores the deleted appointment under a fresh token and returns
// the token the client uses to restore it.
func (c *Cache) Stash(ctx context.Context, ap *models.Appointment, ttl time.Duration) (string, error) {
	raw, err := json.Marshal(ap)
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	if err := c.rdb.Set(ctx, key(ap.TenantID, token), raw, ttl).Err(); err != nil {
		return "", err
	}

	return token, nil
}

// Take fetches and consumes the cached appointment for a token.
// A token can be used once; an expired or unknown token fails.
func (c *Cache) Take(ctx context.Context, tenantID uint, token string) (*models.Appointment, error) {
	k := key(tenantID, token)

	raw, err := c.rdb.Get(ctx, k).Bytes()
	if err != nil {
		return nil, err
	}

	var ap models.Appointment
	if err := json.Unmarshal(raw, &ap); err != nil {
		return nil, err
	}

	c.rdb.Del(ctx, k)

	return &ap, nil
}
