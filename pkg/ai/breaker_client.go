// pkg/ai/breaker_client.go

package ai

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type breakerClient struct {
	next Client
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker fails calls fast once the provider has failed maxFailures
// times in a row, for openFor. It never retries; an open breaker surfaces as
// gobreaker.ErrOpenState.
func WithBreaker(next Client, maxFailures uint32, openFor time.Duration, log *zap.Logger) Client {
	if maxFailures == 0 {
		return next
	}
	if log == nil {
		log = zap.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "model-" + next.Model(),
		MaxRequests: 1,
		Timeout:     openFor,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			// a caller giving up is not the provider's fault
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change", zap.String("name", name), zap.Stringer("from", from), zap.Stringer("to", to))
		},
	})
	return &breakerClient{next: next, cb: cb}
}

func (b *breakerClient) Model() string { return b.next.Model() }

func (b *breakerClient) GenerateJSON(ctx context.Context, p Prompt) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.GenerateJSON(ctx, p)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (b *breakerClient) Available() bool { return b.cb.State() != gobreaker.StateOpen }

// Available reports whether c will currently attempt a call. Clients without
// a breaker are always available.
func Available(c Client) bool {
	if a, ok := c.(interface{ Available() bool }); ok {
		return a.Available()
	}
	return c != nil
}
