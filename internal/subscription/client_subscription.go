package subscription

// ClientSubscription is a subscription that can be used by the client to unsubscribe from the subscription.
type ClientSubscription[T any] struct {
	subscription *Subscription[T]
}

func (c *ClientSubscription[T]) Unsubscribe() {
	c.subscription.Unsubscribe()
}

// Err returns the error channel of the subscription.
func (c *ClientSubscription[T]) Err() <-chan error {
	return c.subscription.Err()
}

// Done returns the done channel of the subscription
func (c *ClientSubscription[T]) Done() <-chan struct{} {
	return c.subscription.Done()
}
