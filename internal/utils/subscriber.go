package utils

// Subscriber is the person behind an unsubscribe token. Both interest
// signups and community questions carry one.
type Subscriber struct {
	Email        string
	Unsubscribed bool
}
