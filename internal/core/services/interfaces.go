package services

// Notifier delivers a message to a destination. Implementations may be
// asynchronous; delivery failure must never fail the flow that triggered
// the send.
type Notifier interface {
	Send(to, subject, body string) error
	IsEnabled() bool
}
