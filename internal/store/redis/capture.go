package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/linkmemo/internal/capture"
)

// DefaultCaptureTTL bounds how long a capture waits for its form.
const DefaultCaptureTTL = 10 * time.Minute

// ErrCaptureNotFound is returned when a capture expired or was already claimed.
var ErrCaptureNotFound = errors.New("pending capture not found")

// Store keeps pending captures in Redis
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a new Redis capture store. A non-positive ttl uses DefaultCaptureTTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultCaptureTTL
	}
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// SavePending stores a capture until it is claimed or expires
func (s *Store) SavePending(ctx context.Context, p capture.Pending) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal capture: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, CaptureKey(p.ID), data, s.ttl)
	pipe.Incr(ctx, KeyCaptureCounter)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save capture: %w", err)
	}
	return nil
}

// ClaimPending returns the capture and deletes it in one step, so a capture
// opens at most one form.
func (s *Store) ClaimPending(ctx context.Context, id string) (capture.Pending, error) {
	data, err := s.client.GetDel(ctx, CaptureKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return capture.Pending{}, fmt.Errorf("%w: %s", ErrCaptureNotFound, id)
		}
		return capture.Pending{}, fmt.Errorf("failed to claim capture: %w", err)
	}

	var p capture.Pending
	if err := json.Unmarshal(data, &p); err != nil {
		return capture.Pending{}, fmt.Errorf("failed to unmarshal capture: %w", err)
	}
	return p, nil
}

// CountPending returns the number of captures waiting to be claimed
func (s *Store) CountPending(ctx context.Context) (int, error) {
	count := 0
	iter := s.client.Scan(ctx, 0, KeyPrefixCapture+"*", 0).Iterator()
	for iter.Next(ctx) {
		if _, err := ExtractCaptureID(iter.Val()); err == nil {
			count++
		}
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to count captures: %w", err)
	}
	return count, nil
}

// Ping checks that Redis answers
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
