package ops

import (
	"context"
	"flag"
	"sort"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"
	"github.com/luno/weighted/server/db"
)

var redisAddr = flag.String("redis", "redis://127.0.0.1:6379", "Address to connect to the redis server")
var redisUser = flag.String("redis_user", "", "User for authentication to the redis server, requires password")
var redisPassword = flag.String("redis_password", "", "Password for authentication to the redis server")

func NewRedisPool(ctx context.Context) (*redis.Pool, error) {
	if *redisAddr == "" {
		return nil, errors.New("redis not configured")
	}

	log.Info(ctx, "redis database configured", j.KV("address", *redisAddr))

	do := []redis.DialOption{
		redis.DialReadTimeout(5 * time.Second),
		redis.DialWriteTimeout(5 * time.Second),
	}
	if *redisUser != "" || *redisPassword != "" {
		if *redisUser == "" || *redisPassword == "" {
			return nil, errors.New("redis username/password misconfiguration")
		}
		do = append(do,
			redis.DialUsername(*redisUser),
			redis.DialPassword(*redisPassword),
		)
	}

	pool := &redis.Pool{
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialURLContext(ctx, *redisAddr, do...)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
		MaxIdle:     3,
		MaxActive:   10,
		IdleTimeout: time.Minute,
		Wait:        true,
	}

	conn, err := pool.GetContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "dial redis")
	}
	defer conn.Close()
	_, err = redis.DoContext(conn, ctx, "PING")
	if err != nil {
		return nil, errors.Wrap(err, "ping redis")
	}
	return pool, nil
}

type RedisDB struct {
	pool *redis.Pool
	ttl  time.Duration
}

func NewRedisDB(pool *redis.Pool) *RedisDB {
	return &RedisDB{pool: pool, ttl: db.TallyTTL}
}

func (r *RedisDB) IncrementTallies(ctx context.Context, name string, counts map[string]int64) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return errors.Wrap(err, "")
	}
	defer conn.Close()
	return db.IncrementTallies(ctx, conn, name, counts, r.ttl)
}

func (r *RedisDB) GetTallies(ctx context.Context, name string) (map[string]int64, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	defer conn.Close()
	return db.GetTallies(ctx, conn, name)
}

func (r *RedisDB) ListTallied(ctx context.Context) ([]string, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	defer conn.Close()
	names, err := db.ListTallied(ctx, conn)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

var _ TallyDB = (*RedisDB)(nil)
