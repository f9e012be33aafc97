package db

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"
)

const (
	tallyPrefix = "weighted.tally."
	TallyTTL    = 24 * time.Hour
)

func tallyKey(name string) string {
	return tallyPrefix + name
}

func nameFromTallyKey(key string) (string, error) {
	name, ok := strings.CutPrefix(key, tallyPrefix)
	if !ok || name == "" {
		return "", errors.New("invalid tally key", j.KV("key", key))
	}
	return name, nil
}

// IncrementTallies adds counts to the per key sample tallies of the named
// distribution and pushes back its expiry. All counts are applied in a
// single MULTI/EXEC transaction.
func IncrementTallies(ctx context.Context, conn redis.Conn,
	name string, counts map[string]int64, ttl time.Duration,
) error {
	if len(counts) == 0 {
		return nil
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	key := tallyKey(name)
	err := conn.Send("MULTI")
	if err != nil {
		return errors.Wrap(err, "", j.KV("distribution", name))
	}
	for _, k := range keys {
		err = conn.Send("HINCRBY", key, k, counts[k])
		if err != nil {
			return errors.Wrap(err, "", j.KV("distribution", name))
		}
	}
	err = conn.Send("EXPIRE", key, int64(ttl.Seconds()))
	if err != nil {
		return errors.Wrap(err, "", j.KV("distribution", name))
	}

	replies, err := redis.Values(redis.DoContext(conn, ctx, "EXEC"))
	if err != nil {
		return errors.Wrap(err, "", j.KV("distribution", name))
	}
	for _, r := range replies {
		if rerr, ok := r.(redis.Error); ok {
			return errors.Wrap(rerr, "", j.KV("distribution", name))
		}
	}
	return nil
}

func GetTallies(ctx context.Context, conn redis.Conn, name string) (map[string]int64, error) {
	m, err := redis.Int64Map(redis.DoContext(conn, ctx, "HGETALL", tallyKey(name)))
	if err != nil {
		return nil, errors.Wrap(err, "", j.KV("distribution", name))
	}
	return m, nil
}

func scanSomeKeys(ctx context.Context, conn redis.Conn, cursor int64) ([]string, int64, error) {
	resp, err := redis.Values(redis.DoContext(conn, ctx, "SCAN", cursor, "MATCH", tallyPrefix+"*"))
	if err != nil {
		return nil, 0, errors.Wrap(err, "")
	}
	next, err := redis.Int64(resp[0], nil)
	if err != nil {
		return nil, 0, errors.Wrap(err, "")
	}
	keys, err := redis.Strings(resp[1], nil)
	return keys, next, errors.Wrap(err, "")
}

// ListTallied returns the names of every distribution with tallies.
func ListTallied(ctx context.Context, conn redis.Conn) ([]string, error) {
	var (
		ret    []string
		cursor int64
	)
	for {
		keys, next, err := scanSomeKeys(ctx, conn, cursor)
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			name, err := nameFromTallyKey(k)
			if err != nil {
				log.Info(ctx, "skipped tally key", j.KV("key", k), log.WithError(err))
				continue
			}
			ret = append(ret, name)
		}
		if next == 0 {
			return ret, nil
		}
		cursor = next
	}
}
