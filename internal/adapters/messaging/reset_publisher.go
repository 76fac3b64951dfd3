package messaging

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/unisga/academic-service/internal/core/ports"
)

// PublishPasswordReset enqueues a password reset notification for the
// email worker. Publishes go through the circuit breaker so a broker
// outage fails fast instead of piling up blocked callers.
func (rmq *RabbitMQBroker) PublishPasswordReset(ctx context.Context, evt ports.PasswordResetEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return ctx.Err()
		}
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		err := rmq.ch.PublishWithContext(
			ctx,
			"",            // exchange (default)
			rmq.queueName, // routing key == queue name
			false,         // mandatory
			false,         // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
			},
		)
		return nil, err
	})
	return err
}
