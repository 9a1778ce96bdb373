package model

import "context"

// Message is an outgoing email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// MailDispatcher hands messages off for delivery outside the request path.
type MailDispatcher interface {
	Dispatch(ctx context.Context, msg Message)
}
