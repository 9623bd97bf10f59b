package jobs

import "sync/atomic"

// IDAllocator issues strictly increasing job ids starting from 0.
// It is safe for concurrent use.
type IDAllocator struct {
	next atomic.Uint32
}

func (a *IDAllocator) Next() uint32 {
	return a.next.Add(1) - 1
}
