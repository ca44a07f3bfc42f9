package ctxutil

import "context"

// Next receives from channel unless ctx ends first. ok is false when ctx is
// done or the channel is closed.
func Next[T any](ctx context.Context, channel <-chan T) (out T, ok bool) {
	select {
	case out, ok = <-channel:
		return out, ok
	case <-ctx.Done():
		return out, false
	}
}
