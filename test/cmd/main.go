package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/log"
	"github.com/luno/weighted"
	"github.com/luno/weighted/api"
	"github.com/luno/weighted/client"
)

var (
	samples   = flag.Int("n", 10_000, "number of samples to draw")
	seed      = flag.Uint64("seed", 0, "seed for the generator, 0 seeds from the clock")
	serverURL = flag.String("server", "", "base URL of a running server, e.g. http://localhost/weighted")
)

var letters = []api.WeightUpdate{
	{Key: "R", Weight: 71},
	{Key: "J", Weight: 43},
	{Key: "X", Weight: 24},
}

func main() {
	flag.Parse()
	if *samples < 1 {
		fmt.Fprintln(os.Stderr, "-n must be positive")
		os.Exit(2)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err := runLocal()
	if err != nil {
		log.Error(ctx, err)
		os.Exit(1)
	}

	if *serverURL == "" {
		return
	}
	err = runRemote(ctx, client.New(client.WithBaseURL(*serverURL)))
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error(ctx, err)
		os.Exit(1)
	}
}

func newDistribution() (*weighted.Distribution[string], error) {
	var opts []weighted.Option
	if *seed != 0 {
		opts = append(opts, weighted.WithSeed(*seed))
	}
	d := weighted.New[string](opts...)
	for _, l := range letters {
		if err := d.Add(l.Key, l.Weight); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func runLocal() error {
	d, err := newDistribution()
	if err != nil {
		return err
	}
	fmt.Println(d)

	err = d.Add("J", 50)
	if err != nil {
		return err
	}
	fmt.Println("after setting J to 50:")
	fmt.Println(d)

	counts := make(map[string]int)
	for i := 0; i < *samples; i++ {
		k, err := d.Sample()
		if err != nil {
			return err
		}
		counts[k]++
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "key\tobserved\texpected")
	for k := range d.Keys() {
		w, err := d.Weight(k)
		if err != nil {
			return err
		}
		p, err := d.ExpectedProbability(w)
		if err != nil {
			return err
		}
		observed := float64(counts[k]) / float64(*samples)
		_, _ = fmt.Fprintf(tw, "%s\t%.4f\t%.4f\n", k, observed, p)
	}
	return tw.Flush()
}

func runRemote(ctx context.Context, c *client.Client) error {
	const name = "letters"
	err := c.AddWeights(ctx, name, letters...)
	if err != nil {
		return err
	}
	n := min(*samples, 10_000)
	_, err = c.Sample(ctx, name, n)
	if err != nil {
		return err
	}
	dist, err := c.GetDistribution(ctx, name)
	if err != nil {
		return err
	}

	fmt.Printf("\nserver distribution %q after %d samples:\n", dist.Name, n)
	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "key\tweight\tprobability\tsampled")
	for _, e := range dist.Entries {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%.4f\t%d\n", e.Key, e.Weight, e.Probability, e.Sampled)
	}
	return tw.Flush()
}
