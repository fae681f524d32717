package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const keyPrefix = "selection:"

var _ Store = (*RedisStore)(nil)

// Store is the persistence contract for the per-user working selection.
// The session is a small ordered set of spot IDs with last-write-wins
// semantics; only the owning user's requests mutate it.
type Store interface {
	Toggle(ctx context.Context, userID, spotID uuid.UUID) (bool, error)
	ReplaceAll(ctx context.Context, userID uuid.UUID, spotIDs []uuid.UUID) error
	Get(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Contains(ctx context.Context, userID, spotID uuid.UUID) (bool, error)
	Count(ctx context.Context, userID uuid.UUID) (int, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// RedisStore keeps each session as a JSON array under selection:{userID}.
// Writes refresh the session TTL.
type RedisStore struct {
	logger *slog.Logger
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		logger: logger,
		client: client,
		ttl:    ttl,
	}
}

func selectionKey(userID uuid.UUID) string {
	return keyPrefix + userID.String()
}

// toggleID returns ids with spotID removed when present or appended when
// absent, plus the resulting membership.
func toggleID(ids []uuid.UUID, spotID uuid.UUID) ([]uuid.UUID, bool) {
	next := make([]uuid.UUID, 0, len(ids)+1)
	removed := false
	for _, id := range ids {
		if id == spotID {
			removed = true
			continue
		}
		next = append(next, id)
	}
	if !removed {
		next = append(next, spotID)
	}
	return next, !removed
}

// dedupeIDs collapses duplicates keeping first-occurrence order.
func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *RedisStore) Get(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ctx, span := otel.Tracer("SelectionStore").Start(ctx, "Get", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	val, err := s.client.Get(ctx, selectionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		span.SetStatus(codes.Ok, "No selection session")
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to read selection session: %w", err)
	}

	var ids []uuid.UUID
	if err := json.Unmarshal([]byte(val), &ids); err != nil {
		// Corrupt payload: reset the session.
		s.logger.WarnContext(ctx, "Dropping unreadable selection session",
			slog.String("userID", userID.String()), slog.Any("error", err))
		if delErr := s.client.Del(ctx, selectionKey(userID)).Err(); delErr != nil {
			s.logger.WarnContext(ctx, "Failed to drop selection session", slog.Any("error", delErr))
		}
		span.SetStatus(codes.Ok, "Selection session reset")
		return nil, nil
	}

	span.SetAttributes(attribute.Int("selection.count", len(ids)))
	span.SetStatus(codes.Ok, "Selection session read")
	return ids, nil
}

func (s *RedisStore) save(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	payload, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode selection session: %w", err)
	}
	if err := s.client.Set(ctx, selectionKey(userID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write selection session: %w", err)
	}
	return nil
}

func (s *RedisStore) Toggle(ctx context.Context, userID, spotID uuid.UUID) (bool, error) {
	ctx, span := otel.Tracer("SelectionStore").Start(ctx, "Toggle", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("spot.id", spotID.String()),
	))
	defer span.End()

	ids, err := s.Get(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return false, err
	}

	next, selected := toggleID(ids, spotID)
	if err := s.save(ctx, userID, next); err != nil {
		span.RecordError(err)
		return false, err
	}

	span.SetAttributes(
		attribute.Bool("selection.selected", selected),
		attribute.Int("selection.count", len(next)),
	)
	span.SetStatus(codes.Ok, "Selection toggled")
	return selected, nil
}

func (s *RedisStore) ReplaceAll(ctx context.Context, userID uuid.UUID, spotIDs []uuid.UUID) error {
	ctx, span := otel.Tracer("SelectionStore").Start(ctx, "ReplaceAll", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.Int("selection.count", len(spotIDs)),
	))
	defer span.End()

	if err := s.save(ctx, userID, dedupeIDs(spotIDs)); err != nil {
		span.RecordError(err)
		return err
	}

	span.SetStatus(codes.Ok, "Selection replaced")
	return nil
}

func (s *RedisStore) Contains(ctx context.Context, userID, spotID uuid.UUID) (bool, error) {
	ids, err := s.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == spotID {
			return true, nil
		}
	}
	return false, nil
}

func (s *RedisStore) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	ids, err := s.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (s *RedisStore) Clear(ctx context.Context, userID uuid.UUID) error {
	ctx, span := otel.Tracer("SelectionStore").Start(ctx, "Clear", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	if err := s.client.Del(ctx, selectionKey(userID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to clear selection session: %w", err)
	}

	span.SetStatus(codes.Ok, "Selection cleared")
	return nil
}
