package respool

import "errors"

var (
	// ErrInvalidCapacity is returned by New when the capacity is not positive.
	ErrInvalidCapacity = errors.New("respool: invalid capacity")

	// ErrPoolClosed is returned by Acquire once the pool is closed.
	ErrPoolClosed = errors.New("respool: pool is closed")
)
