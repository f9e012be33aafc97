package ops

import "context"

// TallyDB counts how often each key of a distribution has been sampled.
type TallyDB interface {
	IncrementTallies(ctx context.Context, name string, counts map[string]int64) error
	GetTallies(ctx context.Context, name string) (map[string]int64, error)
	ListTallied(ctx context.Context) ([]string, error)
}
