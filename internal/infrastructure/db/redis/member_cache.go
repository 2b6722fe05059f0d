package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/memberly/portal/internal/api/metrics"
	"github.com/memberly/portal/internal/core/domain"
	"github.com/memberly/portal/internal/core/ports"
)

const defaultCacheTTL = 5 * time.Minute

// CachedMemberRepository is a read-through cache over a MemberRepository.
// Unique-key lookups (FindByID, FindByUsername) are served from Redis when
// possible; Save and DeleteByID invalidate the affected entries. A Redis
// failure never fails the request; the lookup falls through to the store.
//
// Key format: member:id:<id> / member:username:<username>
type CachedMemberRepository struct {
	inner  ports.MemberRepository
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewCachedMemberRepository(inner ports.MemberRepository, client *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedMemberRepository {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedMemberRepository{inner: inner, client: client, ttl: ttl, log: log}
}

func idKey(id string) string             { return fmt.Sprintf("member:id:%s", id) }
func usernameKey(username string) string { return fmt.Sprintf("member:username:%s", username) }

func (r *CachedMemberRepository) FindByUsername(ctx context.Context, username string) (*domain.Member, error) {
	if m := r.lookup(ctx, usernameKey(username)); m != nil {
		return m, nil
	}

	member, err := r.inner.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	r.store(ctx, member)
	return member, nil
}

func (r *CachedMemberRepository) FindByID(ctx context.Context, id string) (*domain.Member, error) {
	if m := r.lookup(ctx, idKey(id)); m != nil {
		return m, nil
	}

	member, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, member)
	return member, nil
}

func (r *CachedMemberRepository) FindAll(ctx context.Context) ([]domain.Member, error) {
	return r.inner.FindAll(ctx)
}

func (r *CachedMemberRepository) Save(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	saved, err := r.inner.Save(ctx, member)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, saved.ID, saved.Username)
	return saved, nil
}

func (r *CachedMemberRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return r.inner.ExistsByID(ctx, id)
}

func (r *CachedMemberRepository) DeleteByID(ctx context.Context, id string) error {
	// Resolve the username before the delete so both keys can be dropped.
	username := ""
	if m, err := r.inner.FindByID(ctx, id); err == nil {
		username = m.Username
	}

	if err := r.inner.DeleteByID(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id, username)
	return nil
}

func (r *CachedMemberRepository) Count(ctx context.Context) (int64, error) {
	return r.inner.Count(ctx)
}

func (r *CachedMemberRepository) lookup(ctx context.Context, key string) *domain.Member {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn().Err(err).Str("key", key).Msg("member cache read failed")
		}
		metrics.MemberCacheTotal.WithLabelValues("miss").Inc()
		return nil
	}

	var entry cachedMember
	if err := json.Unmarshal(raw, &entry); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("member cache entry corrupt")
		metrics.MemberCacheTotal.WithLabelValues("miss").Inc()
		return nil
	}

	metrics.MemberCacheTotal.WithLabelValues("hit").Inc()
	member := entry.Member
	member.PasswordHash = entry.PasswordHash
	return &member
}

// cachedMember includes the password hash, which the Member JSON tags
// deliberately omit; the cache must round-trip the full record.
type cachedMember struct {
	domain.Member
	PasswordHash string `json:"password_hash"`
}

func (r *CachedMemberRepository) store(ctx context.Context, member *domain.Member) {
	raw, err := json.Marshal(cachedMember{Member: *member, PasswordHash: member.PasswordHash})
	if err != nil {
		return
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, idKey(member.ID), raw, r.ttl)
	pipe.Set(ctx, usernameKey(member.Username), raw, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		r.log.Warn().Err(err).Str("username", member.Username).Msg("member cache write failed")
	}
}

func (r *CachedMemberRepository) invalidate(ctx context.Context, id, username string) {
	keys := []string{idKey(id)}
	if username != "" {
		keys = append(keys, usernameKey(username))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.log.Warn().Err(err).Str("id", id).Msg("member cache invalidation failed")
	}
}
