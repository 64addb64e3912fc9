package query

import (
	"errors"

	"github.com/hay-kot/scout/internal/rpc"
)

// Generic messages used when an error has no better description.
const (
	GenericMessage    = "Something went wrong"
	AuthFailedMessage = "Authentication failed"
)

// Notification is a user facing failure report.
type Notification struct {
	Title   string
	Message string
	Err     error
}

// Notifier delivers notifications out of band from the result set.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// discard drops every notification.
type discard struct{}

func (discard) Notify(Notification) {}

// Message picks the text shown to the user for err.
func Message(err error) string {
	var (
		remote    *rpc.RemoteError
		transport *rpc.TransportError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &remote):
		return remote.Error()
	case errors.Is(err, rpc.ErrEmptyAuth):
		return AuthFailedMessage
	case errors.As(err, &transport):
		return transport.Error()
	default:
		return GenericMessage
	}
}
