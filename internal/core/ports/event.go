package ports

import "context"

// EventPasswordReset is the outbox event type written by the auth service
// and relayed to the notifications queue.
const EventPasswordReset = "password_reset_requested"

type PasswordResetEvent struct {
	Email string `json:"correo"`
	Name  string `json:"nombre"`
	Token string `json:"token"`
}

type ResetEmailPublisher interface {
	PublishPasswordReset(ctx context.Context, evt PasswordResetEvent) error
}
