package ports

import "context"

// MailMessage is a single outbound email.
type MailMessage struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends email through the configured provider. Failures are logged by
// callers and never fail the request that triggered the mail.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// NotificationDispatcher enqueues mail for asynchronous delivery, ordered per
// recipient key.
type NotificationDispatcher interface {
	Enqueue(key string, msg MailMessage)
}

// RevocationStore tracks revoked refresh-token jtis until their natural expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttlSeconds int64) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
