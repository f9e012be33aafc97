// Package picker registers a gRPC balancer that sends each RPC to a ready
// sub-connection drawn at random in proportion to its address weight.
//
// Weights are attached to resolver addresses with SetWeight. Addresses
// without a weight count as weight 1, zero weight addresses receive no
// traffic.
package picker

import (
	"context"
	"sort"
	"sync"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"
	"github.com/luno/weighted"
	"google.golang.org/grpc/balancer"
	"google.golang.org/grpc/balancer/base"
	"google.golang.org/grpc/resolver"
)

const Name = "weighted_random"

var ErrNoWeightedConn = errors.New("no ready conn has weight", j.C("ERR_5a2e8f0c93d71b46"))

type weightKey struct{}

// SetWeight returns a copy of addr carrying weight.
func SetWeight(addr resolver.Address, weight int64) resolver.Address {
	addr.BalancerAttributes = addr.BalancerAttributes.WithValue(weightKey{}, weight)
	return addr
}

func weightOf(addr resolver.Address) int64 {
	w, ok := addr.BalancerAttributes.Value(weightKey{}).(int64)
	if !ok {
		return 1
	}
	return w
}

type pickerBuilder struct {
	opts []weighted.Option
}

func (b pickerBuilder) Build(info base.PickerBuildInfo) balancer.Picker {
	if len(info.ReadySCs) == 0 {
		return base.NewErrPicker(balancer.ErrNoSubConnAvailable)
	}

	type ready struct {
		sc   balancer.SubConn
		addr resolver.Address
	}
	conns := make([]ready, 0, len(info.ReadySCs))
	for sc, sci := range info.ReadySCs {
		conns = append(conns, ready{sc: sc, addr: sci.Address})
	}
	// Map order is random, sort so a seeded picker repeats its picks.
	sort.Slice(conns, func(i, j int) bool {
		return conns[i].addr.Addr < conns[j].addr.Addr
	})

	dist := weighted.New[balancer.SubConn](b.opts...)
	for _, c := range conns {
		err := dist.Add(c.sc, weightOf(c.addr))
		if err != nil {
			log.Error(context.Background(), errors.Wrap(err, "skipped address",
				j.KV("address", c.addr.Addr)))
		}
	}
	return &picker{dist: dist}
}

type picker struct {
	mu   sync.Mutex
	dist *weighted.Distribution[balancer.SubConn]
}

func (p *picker) Pick(balancer.PickInfo) (balancer.PickResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sc, err := p.dist.Sample()
	if errors.Is(err, weighted.ErrEmptyDistribution) {
		return balancer.PickResult{}, ErrNoWeightedConn
	} else if err != nil {
		return balancer.PickResult{}, err
	}
	return balancer.PickResult{SubConn: sc}, nil
}

func newBuilder() balancer.Builder {
	return base.NewBalancerBuilder(Name, pickerBuilder{}, base.Config{HealthCheck: true})
}

func init() {
	balancer.Register(newBuilder())
}
