package worker

import "context"

// forward converts broker messages into Deliveries until in closes or ctx
// is done. The returned channel is closed when the goroutine exits.
func forward[T any](ctx context.Context, in <-chan T, conv func(T) Delivery) <-chan Delivery {
	out := make(chan Delivery)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- conv(m):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
