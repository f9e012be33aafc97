package weighted

import (
	"math"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/weighted/random"
)

type entry[K comparable] struct {
	key        K
	cumulative int64
}

// Distribution maps unique keys to non-negative integer weights and draws
// keys at random in proportion to their weight.
//
// Weights are held as a running prefix sum in insertion order, so the last
// entry's cumulative weight is the total. Changing the weight of an existing
// key rewrites the cumulative weights of that key and every key added after
// it.
//
// A Distribution is not safe for concurrent use.
type Distribution[K comparable] struct {
	entries []entry[K]
	index   map[K]int

	// individual weights of the suffix being rewritten, reused across updates
	scratch []int64

	src     Source
	metrics Metrics
}

// New returns an empty distribution. Unless WithSource or WithSeed is given
// it owns a generator seeded from the clock.
func New[K comparable](opts ...Option) *Distribution[K] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.src == nil {
		o.src = random.NewFromTime()
	}
	o.metrics.defaultUnused()
	return &Distribution[K]{
		index:   make(map[K]int),
		src:     o.src,
		metrics: o.metrics,
	}
}

// Add sets the weight of key, appending it when it is not yet present.
// A failed Add leaves the distribution unchanged.
func (d *Distribution[K]) Add(key K, weight int64) error {
	if weight < 0 {
		d.metrics.Rejected.Inc()
		return errors.Wrap(ErrInvalidWeight, "", j.KV("weight", weight))
	}
	idx, ok := d.Find(key)
	if !ok {
		return d.push(key, weight)
	}
	return d.update(idx, weight)
}

func (d *Distribution[K]) push(key K, weight int64) error {
	total := d.TotalWeight()
	if weight > math.MaxInt64-total {
		d.metrics.Rejected.Inc()
		return errors.Wrap(ErrWeightOverflow, "", j.MKV{"weight": weight, "total": total})
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, entry[K]{key: key, cumulative: total + weight})
	d.metrics.Appends.Inc()
	return nil
}

func (d *Distribution[K]) update(idx int, weight int64) error {
	rest := d.TotalWeight() - d.individual(idx)
	if weight > math.MaxInt64-rest {
		d.metrics.Rejected.Inc()
		return errors.Wrap(ErrWeightOverflow, "", j.MKV{"weight": weight, "total": rest})
	}

	d.scratch = d.scratch[:0]
	for i := idx; i < len(d.entries); i++ {
		d.scratch = append(d.scratch, d.individual(i))
	}
	d.scratch[0] = weight

	for n, w := range d.scratch {
		i := idx + n
		if i == 0 {
			d.entries[i].cumulative = w
			continue
		}
		d.entries[i].cumulative = w + d.entries[i-1].cumulative
	}
	d.metrics.Updates.Inc()
	return nil
}

// individual returns the weight contributed by entry i alone.
func (d *Distribution[K]) individual(i int) int64 {
	if i == 0 {
		return d.entries[0].cumulative
	}
	return d.entries[i].cumulative - d.entries[i-1].cumulative
}

// Find returns the insertion index of key.
func (d *Distribution[K]) Find(key K) (int, bool) {
	idx, ok := d.index[key]
	return idx, ok
}

// Weight returns the individual weight of key.
func (d *Distribution[K]) Weight(key K) (int64, error) {
	idx, ok := d.Find(key)
	if !ok {
		return 0, errors.Wrap(ErrKeyNotFound, "", j.KV("key", key))
	}
	return d.individual(idx), nil
}

// CumulativeWeight returns the sum of the weights of key and every key
// added before it.
func (d *Distribution[K]) CumulativeWeight(key K) (int64, error) {
	idx, ok := d.Find(key)
	if !ok {
		return 0, errors.Wrap(ErrKeyNotFound, "", j.KV("key", key))
	}
	return d.entries[idx].cumulative, nil
}

func (d *Distribution[K]) Len() int {
	return len(d.entries)
}

func (d *Distribution[K]) TotalWeight() int64 {
	if len(d.entries) == 0 {
		return 0
	}
	return d.entries[len(d.entries)-1].cumulative
}

// ExpectedProbability returns weight as a fraction of the total weight.
func (d *Distribution[K]) ExpectedProbability(weight int64) (float64, error) {
	total := d.TotalWeight()
	if total == 0 {
		return 0, errors.Wrap(ErrEmptyDistribution, "", j.KV("entries", len(d.entries)))
	}
	return float64(weight) / float64(total), nil
}

// bucket is the half-open range [lo, hi) of draws owned by one entry.
type bucket struct {
	lo, hi int64
}

func (b bucket) contains(v int64) bool {
	return b.lo <= v && v < b.hi
}

func (d *Distribution[K]) buckets() []bucket {
	ret := make([]bucket, len(d.entries))
	var lo int64
	for i, e := range d.entries {
		ret[i] = bucket{lo: lo, hi: e.cumulative}
		lo = e.cumulative
	}
	return ret
}

// Sample draws a key with probability proportional to its weight. Keys with
// zero weight are never drawn.
//
// The draw is uniform in [0, total) and entry i owns the half-open bucket
// [cw[i-1], cw[i]) of its cumulative weights, with cw[-1] = 0.
func (d *Distribution[K]) Sample() (K, error) {
	var zero K
	total := d.TotalWeight()
	if total == 0 {
		return zero, errors.Wrap(ErrEmptyDistribution, "", j.KV("entries", len(d.entries)))
	}

	draw := d.src.Int63n(total)
	for i, b := range d.buckets() {
		if b.contains(draw) {
			d.metrics.Samples.Inc()
			return d.entries[i].key, nil
		}
	}
	return zero, errors.Wrap(ErrInvariantViolation, "", j.MKV{"draw": draw, "total": total})
}

// Seed reseeds the distribution's source if it supports seeding and reports
// whether it did.
func (d *Distribution[K]) Seed(seed uint64) bool {
	s, ok := d.src.(seeder)
	if !ok {
		return false
	}
	s.Seed(seed)
	return true
}
