package weighted

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/luno/jettison/errors"
)

// WriteTable writes one row per key in insertion order: the key, its weight
// and expected probability, then its cumulative weight and cumulative
// probability.
func (d *Distribution[K]) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	_, err := fmt.Fprintln(tw, "key\tweight\tprobability\tcumulative\tcumulative probability")
	if err != nil {
		return errors.Wrap(err, "write header")
	}
	for k := range d.Keys() {
		weight, err := d.Weight(k)
		if err != nil {
			return err
		}
		cumulative, err := d.CumulativeWeight(k)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(tw, "%v:\t%d\t%s\t%d\t%s\n",
			k, weight, d.formatProbability(weight),
			cumulative, d.formatProbability(cumulative),
		)
		if err != nil {
			return errors.Wrap(err, "write row")
		}
	}
	return errors.Wrap(tw.Flush(), "flush table")
}

func (d *Distribution[K]) formatProbability(weight int64) string {
	p, err := d.ExpectedProbability(weight)
	if err != nil {
		return "-"
	}
	return strconv.FormatFloat(p, 'f', 4, 64)
}

func (d *Distribution[K]) String() string {
	var sb strings.Builder
	_ = d.WriteTable(&sb)
	return sb.String()
}
