// Package cache provides Redis read-through caching in front of repositories.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"invoicer/internal/domain/catalogs/company"
	"invoicer/pkg/logger"
)

const companyKey = "invoicer:company"

// absent marks a cached "no record" so misses are cached too.
const absent = "null"

// Options configure the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Connect opens a Redis client and pings it. It returns nil and the ping
// error when Redis is unreachable; callers run without a cache then.
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	if opts.Addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// CompanyRepo decorates a company.Repository with a Redis cache. A nil
// client makes it a pass-through. Cache errors are logged and never fail
// the call.
type CompanyRepo struct {
	next   company.Repository
	client *redis.Client
	ttl    time.Duration
}

// NewCompanyRepo wraps next.
func NewCompanyRepo(next company.Repository, client *redis.Client, ttl time.Duration) *CompanyRepo {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CompanyRepo{next: next, client: client, ttl: ttl}
}

var _ company.Repository = (*CompanyRepo)(nil)

// Get reads through the cache.
func (r *CompanyRepo) Get(ctx context.Context) (*company.Company, error) {
	if r.client == nil {
		return r.next.Get(ctx)
	}

	data, err := r.client.Get(ctx, companyKey).Bytes()
	switch {
	case err == nil:
		if c, ok := decodeCompany(data); ok {
			return c, nil
		}
	case !errors.Is(err, redis.Nil):
		logger.Warn(ctx, "company cache read failed", "error", err)
	}

	c, err := r.next.Get(ctx)
	if err != nil {
		return nil, err
	}
	r.store(ctx, c)
	return c, nil
}

// Save writes through and drops the cached copy.
func (r *CompanyRepo) Save(ctx context.Context, c *company.Company) error {
	if err := r.next.Save(ctx, c); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// Delete removes the record and drops the cached copy.
func (r *CompanyRepo) Delete(ctx context.Context) error {
	if err := r.next.Delete(ctx); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CompanyRepo) store(ctx context.Context, c *company.Company) {
	data := []byte(absent)
	if c != nil {
		encoded, err := json.Marshal(c)
		if err != nil {
			return
		}
		data = encoded
	}
	if err := r.client.Set(ctx, companyKey, data, r.ttl).Err(); err != nil {
		logger.Warn(ctx, "company cache write failed", "error", err)
	}
}

func (r *CompanyRepo) invalidate(ctx context.Context) {
	if r.client == nil {
		return
	}
	if err := r.client.Del(ctx, companyKey).Err(); err != nil {
		logger.Warn(ctx, "company cache invalidation failed", "error", err)
	}
}

// decodeCompany parses a cached value. ok is false for unreadable data.
func decodeCompany(data []byte) (*company.Company, bool) {
	if string(data) == absent {
		return nil, true
	}
	var c company.Company
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, false
	}
	return &c, true
}
