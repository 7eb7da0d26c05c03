package svcreg

import "context"

// resolutionLock is a mutex that can be waited on with a context. The registry holds it for the
// whole of a top-level Get, which makes check-cache, build and store a single step.
type resolutionLock struct {
	held chan struct{}
}

func newResolutionLock() *resolutionLock {
	return &resolutionLock{
		held: make(chan struct{}, 1),
	}
}

// lock blocks until the lock is acquired or ctx is done. On success the returned function
// releases the lock.
func (l *resolutionLock) lock(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case l.held <- struct{}{}:
		return l.unlock, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *resolutionLock) unlock() {
	<-l.held
}
