package client

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/luno/jettison/jtest"
	"github.com/luno/weighted/api"
	"github.com/luno/weighted/server/handlers"
	"github.com/luno/weighted/server/ops"
	"github.com/luno/weighted/server/ops/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type state struct {
	Dists *ops.Distributions
}

func (s state) Distributions() *ops.Distributions {
	return s.Dists
}

func newTestClient(t *testing.T) (*Client, *ops.Distributions) {
	s := state{Dists: ops.NewDistributions(ops.NewMemDB())}

	srv := httptest.NewServer(handlers.CreateRouter(s))
	t.Cleanup(srv.Close)

	c := New(
		WithBaseURL(srv.URL+"/weighted"),
		WithHTTPClient(srv.Client()),
		WithRetries(0, 0),
	)
	return c, s.Dists
}

func TestClientAddsAndSamples(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	err := c.AddWeights(ctx, "letters",
		api.WeightUpdate{Key: "R", Weight: 71},
		api.WeightUpdate{Key: "J", Weight: 43},
		api.WeightUpdate{Key: "X", Weight: 24},
	)
	jtest.RequireNil(t, err)

	jtest.RequireNil(t, c.AddWeights(ctx, "letters", api.WeightUpdate{Key: "J", Weight: 50}))

	keys, err := c.Sample(ctx, "letters", 200)
	jtest.RequireNil(t, err)
	assert.Len(t, keys, 200)
	for _, k := range keys {
		assert.Contains(t, []string{"R", "J", "X"}, k)
	}

	dist, err := c.GetDistribution(ctx, "letters")
	jtest.RequireNil(t, err)
	assert.Equal(t, "letters", dist.Name)
	assert.Equal(t, int64(145), dist.TotalWeight)
	require.Len(t, dist.Entries, 3)

	var sampled int64
	var cum []int64
	for _, e := range dist.Entries {
		sampled += e.Sampled
		cum = append(cum, e.CumulativeWeight)
	}
	assert.Equal(t, int64(200), sampled)
	assert.Equal(t, []int64{71, 121, 145}, cum)
	assert.Equal(t, int64(50), dist.Entries[1].Weight)

	list, err := c.ListDistributions(ctx)
	jtest.RequireNil(t, err)
	assert.Equal(t, api.ListDistributionsResponse{
		Names:   []string{"letters"},
		Tallied: []string{"letters"},
	}, list)
}

func TestClientSeesLoadedConfig(t *testing.T) {
	ctx := context.Background()
	c, dists := newTestClient(t)

	seed := uint64(5)
	err := dists.Load(ctx, config.Config{Distributions: []config.Distribution{
		{Name: "weighted coin", Seed: &seed, Entries: []config.Entry{
			{Key: "heads", Weight: 0},
			{Key: "tails", Weight: 3},
		}},
	}})
	jtest.RequireNil(t, err)

	keys, err := c.Sample(ctx, "weighted coin", 50)
	jtest.RequireNil(t, err)
	for _, k := range keys {
		require.Equal(t, "tails", k)
	}
}

func TestClientErrors(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)
	jtest.RequireNil(t, c.AddWeights(ctx, "zero", api.WeightUpdate{Key: "a", Weight: 0}))

	_, err := c.GetDistribution(ctx, "missing")
	jtest.Require(t, ErrNotFound, err)

	_, err = c.Sample(ctx, "missing", 1)
	jtest.Require(t, ErrNotFound, err)

	err = c.AddWeights(ctx, "letters", api.WeightUpdate{Key: "Q", Weight: -1})
	jtest.Require(t, ErrRejected, err)

	_, err = c.Sample(ctx, "zero", 1)
	jtest.Require(t, ErrRejected, err)

	_, err = c.Sample(ctx, "zero", 0)
	jtest.Require(t, ErrRejected, err)
}
