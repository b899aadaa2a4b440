package comms

import "context"

// Email is an outbound email send request
type Email struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// SMS is an outbound text message send request
type SMS struct {
	From string
	To   string
	Body string
}

// EmailProvider delivers email through an external service
type EmailProvider interface {
	Send(ctx context.Context, apiKey string, msg Email) error
}

// SMSProvider delivers text messages through an external service
type SMSProvider interface {
	Send(ctx context.Context, accountSID, authToken string, msg SMS) error
}
