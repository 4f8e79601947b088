package service

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// emailLocks serializes workflow operations per email so the
// increment-then-compare sequence in VerifyOTP cannot race against itself
// and exceed the attempt bound. Stripes trade a little false sharing for a
// bounded number of mutexes.
type emailLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *emailLocks) lock(email string) func() {
	h := fnv.New32a()
	h.Write([]byte(email))
	mu := &l.stripes[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}
