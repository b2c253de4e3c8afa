package subscription

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/near-balance-indexer/common/errs"
)

// SubscriptionBufferSize is the buffer size of the subscription channel.
// It is used to prevent blocking the client dispatcher when the client is slow to consume values.
var SubscriptionBufferSize = 8

// Subscription is a subscription to a stream of values from the client dispatcher.
// It has two channels: one for values, and one for errors.
type Subscription[T any] struct {
	// The channel which the subscription sends values.
	channel chan<- T

	// The in channel receives values from client dispatcher.
	in chan T

	// The error channel receives the error from the client dispatcher.
	err      chan error
	quitOnce sync.Once

	// Closing of the subscription is requested by sending on 'quit'. This is handled by
	// the forwarding loop, which closes 'forwardDone' when it has stopped sending to
	// sub.channel. Finally, 'unsubDone' is closed after unsubscribing on the server side.
	quit     chan struct{}
	quitDone chan struct{}

	// complete is closed by the producer when no more values will be sent.
	complete     chan struct{}
	completeOnce sync.Once
}

func NewSubscription[T any](channel chan<- T) *Subscription[T] {
	subscription := &Subscription[T]{
		channel:  channel,
		in:       make(chan T, SubscriptionBufferSize),
		err:      make(chan error, SubscriptionBufferSize),
		quit:     make(chan struct{}),
		quitDone: make(chan struct{}),
		complete: make(chan struct{}),
	}
	go func() {
		subscription.run()
	}()
	return subscription
}

// Unsubscribe stops forwarding and waits until the forwarding loop has exited.
func (s *Subscription[T]) Unsubscribe() {
	s.quitOnce.Do(func() {
		select {
		case s.quit <- struct{}{}:
			<-s.quitDone
		case <-s.quitDone:
		}
	})
}

// Client returns a client subscription for this subscription.
func (s *Subscription[T]) Client() *ClientSubscription[T] {
	return &ClientSubscription[T]{
		subscription: s,
	}
}

// Err returns the error channel of the subscription.
func (s *Subscription[T]) Err() <-chan error {
	return s.err
}

// Done returns the done channel of the subscription
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.quitDone
}

// Send sends a value to the subscription channel. If the subscription is closed, it returns an error.
func (s *Subscription[T]) Send(ctx context.Context, value T) error {
	select {
	case s.in <- value:
	case <-s.quitDone:
		return errors.Wrap(errs.Closed, "subscription is closed")
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	}
	return nil
}

// SendError sends an error to the subscription error channel. If the subscription is closed, it returns an error.
func (s *Subscription[T]) SendError(ctx context.Context, err error) error {
	select {
	case s.err <- err:
	case <-s.quitDone:
		return errors.Wrap(errs.Closed, "subscription is closed")
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	}
	return nil
}

// Complete marks the end of the stream. Values already sent are still
// delivered to the client before the subscription is closed.
func (s *Subscription[T]) Complete() {
	s.completeOnce.Do(func() {
		close(s.complete)
	})
}

// run starts the forwarding loop for the subscription.
func (s *Subscription[T]) run() {
	defer close(s.quitDone)

	for {
		select {
		case <-s.quit:
			return
		case value := <-s.in:
			if !s.forward(value) {
				return
			}
		case <-s.complete:
			for {
				select {
				case value := <-s.in:
					if !s.forward(value) {
						return
					}
				default:
					return
				}
			}
		}
	}
}

func (s *Subscription[T]) forward(value T) bool {
	select {
	case s.channel <- value:
		return true
	case <-s.quit:
		return false
	}
}
