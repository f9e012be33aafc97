package weighted

import (
	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
)

var (
	ErrInvalidWeight      = errors.New("weight must be >= 0", j.C("ERR_6f1c0d2b9a4e7385"))
	ErrWeightOverflow     = errors.New("total weight overflows", j.C("ERR_d03a91c57e2b6f48"))
	ErrKeyNotFound        = errors.New("key not found", j.C("ERR_2b8e54f1c6a09d37"))
	ErrEmptyDistribution  = errors.New("distribution has no weight", j.C("ERR_95c7e2a30b4d18f6"))
	ErrOutOfRange         = errors.New("cursor out of range", j.C("ERR_4a0f6b83d25c9e71"))
	ErrInvariantViolation = errors.New("no bucket contains draw", j.C("ERR_c81e3d9f0a57b264"))
)
