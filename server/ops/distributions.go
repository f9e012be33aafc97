package ops

import (
	"context"
	"sort"
	"sync"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"
	"github.com/luno/weighted"
	"github.com/luno/weighted/api"
	"github.com/luno/weighted/server/ops/config"
)

const MaxSampleCount = 10_000

var (
	ErrUnknownDistribution = errors.New("unknown distribution", j.C("ERR_0c5d8e27a1f94b36"))
	ErrInvalidCount        = errors.New("invalid sample count", j.C("ERR_b94a17e6d3c2058f"))
)

// Distributions holds named distributions of string keys. A single lock
// serialises every read and write of the distributions.
type Distributions struct {
	tallies TallyDB

	mu    sync.Mutex
	dists map[string]*weighted.Distribution[string]
}

func NewDistributions(tallies TallyDB) *Distributions {
	return &Distributions{
		tallies: tallies,
		dists:   make(map[string]*weighted.Distribution[string]),
	}
}

// Load creates a distribution for every configured entry, replacing any
// existing one with the same name.
func (d *Distributions) Load(ctx context.Context, c config.Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, dc := range c.Distributions {
		opts := []weighted.Option{weighted.WithMetrics(distributionMetrics(dc.Name))}
		if dc.Seed != nil {
			opts = append(opts, weighted.WithSeed(*dc.Seed))
		}
		dist := weighted.New[string](opts...)
		for _, e := range dc.Entries {
			err := dist.Add(e.Key, e.Weight)
			if err != nil {
				return errors.Wrap(err, "load distribution", j.MKV{
					"distribution": dc.Name, "key": e.Key,
				})
			}
		}
		d.dists[dc.Name] = dist
		log.Info(ctx, "loaded distribution", j.MKV{
			"distribution": dc.Name,
			"keys":         dist.Len(),
			"total_weight": dist.TotalWeight(),
		})
	}
	return nil
}

func (d *Distributions) Names() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	ret := make([]string, 0, len(d.dists))
	for name := range d.dists {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

func (d *Distributions) ListTallied(ctx context.Context) ([]string, error) {
	return d.tallies.ListTallied(ctx)
}

// AddWeights applies the updates in order, creating the distribution if
// needed. It stops at the first rejected weight, earlier updates stay
// applied. A new distribution is only registered once it holds a key.
func (d *Distributions) AddWeights(_ context.Context, name string, updates ...api.WeightUpdate) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	dist, ok := d.dists[name]
	if !ok {
		dist = weighted.New[string](weighted.WithMetrics(distributionMetrics(name)))
	}
	for _, u := range updates {
		err := dist.Add(u.Key, u.Weight)
		if err != nil {
			d.register(name, dist)
			return errors.Wrap(err, "add weight", j.MKV{"distribution": name, "key": u.Key})
		}
	}
	d.register(name, dist)
	return nil
}

// register stores dist under name once it holds at least one key.
func (d *Distributions) register(name string, dist *weighted.Distribution[string]) {
	if dist.Len() == 0 {
		return
	}
	d.dists[name] = dist
}

// Sample draws count keys from the named distribution and records them in
// the tally store.
func (d *Distributions) Sample(ctx context.Context, name string, count int) ([]string, error) {
	if count < 1 || count > MaxSampleCount {
		return nil, errors.Wrap(ErrInvalidCount, "", j.KV("count", count))
	}
	keys, err := d.sample(name, count)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, k := range keys {
		counts[k]++
	}
	err = d.tallies.IncrementTallies(ctx, name, counts)
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (d *Distributions) sample(name string, count int) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	dist, ok := d.dists[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownDistribution, "", j.KV("distribution", name))
	}
	ret := make([]string, 0, count)
	for i := 0; i < count; i++ {
		k, err := dist.Sample()
		if err != nil {
			return nil, errors.Wrap(err, "sample", j.KV("distribution", name))
		}
		ret = append(ret, k)
	}
	return ret, nil
}

// Describe returns the named distribution's rows in insertion order along
// with the number of times each key has been sampled.
func (d *Distributions) Describe(ctx context.Context, name string) (api.Distribution, error) {
	ret, err := d.describe(name)
	if err != nil {
		return api.Distribution{}, err
	}
	tallies, err := d.tallies.GetTallies(ctx, name)
	if err != nil {
		return api.Distribution{}, err
	}
	for i := range ret.Entries {
		ret.Entries[i].Sampled = tallies[ret.Entries[i].Key]
	}
	return ret, nil
}

func (d *Distributions) describe(name string) (api.Distribution, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	dist, ok := d.dists[name]
	if !ok {
		return api.Distribution{}, errors.Wrap(ErrUnknownDistribution, "", j.KV("distribution", name))
	}
	ret := api.Distribution{
		Name:        name,
		TotalWeight: dist.TotalWeight(),
		Entries:     make([]api.Entry, 0, dist.Len()),
	}
	for k := range dist.Keys() {
		w, err := dist.Weight(k)
		if err != nil {
			return api.Distribution{}, err
		}
		cw, err := dist.CumulativeWeight(k)
		if err != nil {
			return api.Distribution{}, err
		}
		ret.Entries = append(ret.Entries, api.Entry{
			Key:                   k,
			Weight:                w,
			Probability:           probability(dist, w),
			CumulativeWeight:      cw,
			CumulativeProbability: probability(dist, cw),
		})
	}
	return ret, nil
}

// probability is zero while the distribution has no weight.
func probability(dist *weighted.Distribution[string], w int64) float64 {
	p, err := dist.ExpectedProbability(w)
	if err != nil {
		return 0
	}
	return p
}
