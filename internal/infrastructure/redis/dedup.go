package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduplicator remembers recently seen webhook deliveries so retried
// deliveries from a provider are processed once. The fingerprint is the
// SHA-256 of the gateway identifier plus the raw request body, claimed
// atomically with SET NX and an expiry.
type Deduplicator struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDeduplicator(client *redis.Client, ttl time.Duration) *Deduplicator {
	return &Deduplicator{client: client, ttl: ttl}
}

// Seen claims the delivery fingerprint. It returns true if the same
// delivery was already claimed within the TTL window.
func (d *Deduplicator) Seen(ctx context.Context, gatewayID string, rawBody []byte) (bool, error) {
	key := d.key(gatewayID, rawBody)

	set, err := d.client.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim webhook fingerprint: %w", err)
	}
	return !set, nil
}

func (d *Deduplicator) key(gatewayID string, rawBody []byte) string {
	h := sha256.New()
	h.Write([]byte(gatewayID))
	h.Write([]byte{0})
	h.Write(rawBody)
	return "webhook:seen:" + hex.EncodeToString(h.Sum(nil))
}
