package weighted

import "github.com/luno/weighted/random"

// Source supplies uniform integers in [0, n). It is called once per Sample.
type Source interface {
	Int63n(n int64) int64
}

type seeder interface {
	Seed(seed uint64)
}

type Counter interface {
	Inc()
}

type noopMetric struct{}

func (noopMetric) Inc() {}

type Metrics struct {
	Appends  Counter
	Updates  Counter
	Samples  Counter
	Rejected Counter
}

func (m *Metrics) defaultUnused() {
	if m.Appends == nil {
		m.Appends = noopMetric{}
	}
	if m.Updates == nil {
		m.Updates = noopMetric{}
	}
	if m.Samples == nil {
		m.Samples = noopMetric{}
	}
	if m.Rejected == nil {
		m.Rejected = noopMetric{}
	}
}

type options struct {
	src     Source
	metrics Metrics
}

type Option func(*options)

// WithSource replaces the distribution's random source. The distribution
// becomes the source's only user; sharing it couples the draws of every
// holder.
func WithSource(src Source) Option {
	return func(o *options) {
		o.src = src
	}
}

// WithSeed gives the distribution its own deterministic generator.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.src = random.New(seed)
	}
}

func WithMetrics(m Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}
