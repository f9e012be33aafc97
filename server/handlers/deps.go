package handlers

import "github.com/luno/weighted/server/ops"

type Deps interface {
	Distributions() *ops.Distributions
}
