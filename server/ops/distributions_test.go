package ops

import (
	"context"
	"testing"

	"github.com/luno/jettison/jtest"
	"github.com/luno/weighted"
	"github.com/luno/weighted/api"
	"github.com/luno/weighted/server/ops/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(v uint64) *uint64 {
	return &v
}

func lettersConfig() config.Config {
	return config.Config{Distributions: []config.Distribution{
		{Name: "letters", Seed: seed(1), Entries: []config.Entry{
			{Key: "R", Weight: 71},
			{Key: "J", Weight: 43},
			{Key: "X", Weight: 24},
		}},
		{Name: "coin", Entries: []config.Entry{
			{Key: "heads", Weight: 1},
			{Key: "tails", Weight: 1},
		}},
	}}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	d := NewDistributions(NewMemDB())
	jtest.RequireNil(t, d.Load(ctx, lettersConfig()))

	assert.Equal(t, []string{"coin", "letters"}, d.Names())

	desc, err := d.Describe(ctx, "letters")
	jtest.RequireNil(t, err)
	assert.Equal(t, int64(138), desc.TotalWeight)
	require.Len(t, desc.Entries, 3)
	assert.Equal(t, "J", desc.Entries[1].Key)
	assert.Equal(t, int64(43), desc.Entries[1].Weight)
	assert.Equal(t, int64(114), desc.Entries[1].CumulativeWeight)
	assert.InDelta(t, 0.3116, desc.Entries[1].Probability, 0.0001)
	assert.InDelta(t, 1.0, desc.Entries[2].CumulativeProbability, 1e-9)
}

func TestLoadRejectsNegativeWeight(t *testing.T) {
	ctx := context.Background()
	d := NewDistributions(NewMemDB())
	c := config.Config{Distributions: []config.Distribution{
		{Name: "bad", Entries: []config.Entry{{Key: "a", Weight: -1}}},
	}}

	err := d.Load(ctx, c)
	jtest.Require(t, weighted.ErrInvalidWeight, err)
	assert.Empty(t, d.Names())
}

func TestAddWeights(t *testing.T) {
	ctx := context.Background()
	d := NewDistributions(NewMemDB())
	jtest.RequireNil(t, d.Load(ctx, lettersConfig()))

	err := d.AddWeights(ctx, "letters", api.WeightUpdate{Key: "J", Weight: 50})
	jtest.RequireNil(t, err)

	err = d.AddWeights(ctx, "fresh",
		api.WeightUpdate{Key: "a", Weight: 1},
		api.WeightUpdate{Key: "b", Weight: -1},
		api.WeightUpdate{Key: "c", Weight: 1},
	)
	jtest.Require(t, weighted.ErrInvalidWeight, err)

	desc, err := d.Describe(ctx, "letters")
	jtest.RequireNil(t, err)
	var cum []int64
	for _, e := range desc.Entries {
		cum = append(cum, e.CumulativeWeight)
	}
	assert.Equal(t, []int64{71, 121, 145}, cum)

	fresh, err := d.Describe(ctx, "fresh")
	jtest.RequireNil(t, err)
	require.Len(t, fresh.Entries, 1)
	assert.Equal(t, "a", fresh.Entries[0].Key)
}

func TestAddWeightsRejectedFirstEntry(t *testing.T) {
	ctx := context.Background()
	d := NewDistributions(NewMemDB())

	err := d.AddWeights(ctx, "fresh",
		api.WeightUpdate{Key: "a", Weight: -1},
		api.WeightUpdate{Key: "b", Weight: 1},
	)
	jtest.Require(t, weighted.ErrInvalidWeight, err)

	_, err = d.Describe(ctx, "fresh")
	jtest.Require(t, ErrUnknownDistribution, err)
	assert.NotContains(t, d.Names(), "fresh")

	jtest.RequireNil(t, d.AddWeights(ctx, "empty"))
	assert.NotContains(t, d.Names(), "empty")
}

func TestSampleRecordsTallies(t *testing.T) {
	ctx := context.Background()
	mdb := NewMemDB()
	d := NewDistributions(mdb)
	jtest.RequireNil(t, d.Load(ctx, lettersConfig()))

	keys, err := d.Sample(ctx, "letters", 500)
	jtest.RequireNil(t, err)
	assert.Len(t, keys, 500)

	desc, err := d.Describe(ctx, "letters")
	jtest.RequireNil(t, err)
	var total int64
	for _, e := range desc.Entries {
		assert.Greater(t, e.Sampled, int64(0), e.Key)
		total += e.Sampled
	}
	assert.Equal(t, int64(500), total)

	tallied, err := d.ListTallied(ctx)
	jtest.RequireNil(t, err)
	assert.Equal(t, []string{"letters"}, tallied)
}

func TestSampleErrors(t *testing.T) {
	ctx := context.Background()
	d := NewDistributions(NewMemDB())
	jtest.RequireNil(t, d.Load(ctx, lettersConfig()))
	jtest.RequireNil(t, d.AddWeights(ctx, "zero", api.WeightUpdate{Key: "a"}))

	testCases := []struct {
		name   string
		dist   string
		count  int
		expErr error
	}{
		{name: "unknown", dist: "nope", count: 1, expErr: ErrUnknownDistribution},
		{name: "zero count", dist: "letters", count: 0, expErr: ErrInvalidCount},
		{name: "too many", dist: "letters", count: MaxSampleCount + 1, expErr: ErrInvalidCount},
		{name: "no weight", dist: "zero", count: 1, expErr: weighted.ErrEmptyDistribution},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.Sample(ctx, tc.dist, tc.count)
			jtest.Require(t, tc.expErr, err)
		})
	}

	_, err := d.Describe(ctx, "nope")
	jtest.Require(t, ErrUnknownDistribution, err)
}

func TestSeededSamplesRepeat(t *testing.T) {
	ctx := context.Background()

	a := NewDistributions(NewMemDB())
	jtest.RequireNil(t, a.Load(ctx, lettersConfig()))
	b := NewDistributions(NewMemDB())
	jtest.RequireNil(t, b.Load(ctx, lettersConfig()))

	ka, err := a.Sample(ctx, "letters", 100)
	jtest.RequireNil(t, err)
	kb, err := b.Sample(ctx, "letters", 100)
	jtest.RequireNil(t, err)
	assert.Equal(t, ka, kb)
}
