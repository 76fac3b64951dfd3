package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/sony/gobreaker"

	"github.com/unisga/academic-service/internal/config"
	"github.com/unisga/academic-service/internal/core/ports"
)

const (
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
	outboxChannelName            = "outbox_channel"

	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	healthCheckStaleThreshold = 5 * time.Minute

	maxEventsPerBatch = 100
)

// Relay drains the outbox_events table into RabbitMQ. It wakes on
// PostgreSQL NOTIFY signals and sweeps the table periodically so events
// survive missed notifications and relay restarts.
type Relay struct {
	db            *sql.DB
	publisher     ports.ResetEmailPublisher
	listener      *pq.Listener
	dbURL         string
	dbCB          *gobreaker.CircuitBreaker
	lastProcessed time.Time
	isHealthy     bool
}

func NewRelay(db *sql.DB, dbURL string, publisher ports.ResetEmailPublisher) *Relay {
	return &Relay{
		db:            db,
		dbURL:         dbURL,
		publisher:     publisher,
		dbCB:          config.NewCircuitBreaker("Relay-PostgreSQL"),
		lastProcessed: time.Now(),
		isHealthy:     true,
	}
}

// IsHealthy reports process liveness only. An open circuit breaker is a
// degraded-but-recoverable state and must not restart the pod.
func (r *Relay) IsHealthy() bool {
	return r.isHealthy
}

// IsReady reports whether the relay can currently move events.
func (r *Relay) IsReady() bool {
	if r.dbCB.State() == gobreaker.StateOpen {
		return false
	}
	if time.Since(r.lastProcessed) > healthCheckStaleThreshold {
		return false
	}
	return r.isHealthy
}

// Start blocks until the context is cancelled, processing events as
// notifications arrive.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("outbox relay: listener error: %v", err)
		}
	}

	r.listener = pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer r.listener.Close()

	if err := r.listener.Listen(outboxChannelName); err != nil {
		return err
	}

	log.Printf("outbox relay: listening on '%s' for notifications...", outboxChannelName)

	// Drain whatever accumulated while the relay was down.
	if err := r.processUnprocessedEvents(ctx); err != nil {
		log.Printf("outbox relay: error processing startup backlog: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("outbox relay: shutting down...")
			return ctx.Err()

		case notification := <-r.listener.Notify:
			if notification == nil {
				log.Println("outbox relay: received nil notification (reconnecting...)")
				r.isHealthy = false
				continue
			}

			log.Printf("outbox relay: received notification for event ID: %s", notification.Extra)

			if err := r.processEventByID(ctx, notification.Extra); err != nil {
				log.Printf("outbox relay: error processing event %s: %v", notification.Extra, err)
			} else {
				r.lastProcessed = time.Now()
				r.isHealthy = true
			}

		case <-time.After(periodicProcessInterval):
			go r.listener.Ping()

			// Safety net for missed notifications.
			if err := r.processUnprocessedEvents(ctx); err != nil {
				log.Printf("outbox relay: error in periodic processing: %v", err)
			} else {
				r.lastProcessed = time.Now()
			}
		}
	}
}

func (r *Relay) processEventByID(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		var id, eventType string
		var payload []byte
		err = tx.QueryRowContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE id = $1 AND processed_at IS NULL
			FOR UPDATE SKIP LOCKED`, eventID).Scan(&id, &eventType, &payload)

		if err == sql.ErrNoRows {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if err := r.publish(ctx, tx, id, eventType, payload); err != nil {
			return nil, err
		}

		if _, err := tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, id); err != nil {
			return nil, err
		}

		return nil, tx.Commit()
	})
	return err
}

func (r *Relay) processUnprocessedEvents(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE processed_at IS NULL
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED`, maxEventsPerBatch)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		type record struct {
			ID        string
			EventType string
			Payload   []byte
		}

		var records []record
		for rows.Next() {
			var rec record
			if err := rows.Scan(&rec.ID, &rec.EventType, &rec.Payload); err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}

		for _, rec := range records {
			if err := r.publish(ctx, tx, rec.ID, rec.EventType, rec.Payload); err != nil {
				log.Printf("outbox relay: failed to publish event %s: %v", rec.ID, err)
				continue
			}

			if _, err := tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, rec.ID); err != nil {
				return nil, err
			}

			log.Printf("outbox relay: processed event %s", rec.ID)
		}

		return nil, tx.Commit()
	})
	return err
}

// publish routes an event to the broker by type. Undecodable payloads are
// marked processed so bad data cannot wedge the relay in a retry loop.
func (r *Relay) publish(ctx context.Context, tx *sql.Tx, id, eventType string, payload []byte) error {
	if eventType != ports.EventPasswordReset {
		log.Printf("outbox relay: skipping event %s with unknown type %q", id, eventType)
		return nil
	}

	var evt ports.PasswordResetEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		log.Printf("outbox relay: invalid payload for event %s: %v", id, err)
		_, _ = tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, id)
		return nil
	}

	return r.publisher.PublishPasswordReset(ctx, evt)
}
