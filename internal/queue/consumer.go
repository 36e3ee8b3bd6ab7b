package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/willowbend/lodge-admin/internal/repository"
	"github.com/willowbend/lodge-admin/internal/storage"
)

// StartCleanupConsumer connects to RabbitMQ, declares the durable
// cabin.cleanup queue, and starts consuming messages.  Each event is a
// dangling cabin row left behind by a failed compensation; the handler
// retries the row delete and removes any partially stored photo.  The
// function runs a reconnect loop and keeps running across broker
// outages, rejecting messages it cannot process so they are redelivered.
func StartCleanupConsumer(cabins *repository.CabinRepo, blobs storage.Store) error {
	url := brokerURL()

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("cleanup-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, cabins, blobs); err != nil {
			log.Printf("cleanup-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection, cabins *repository.CabinRepo, blobs storage.Store) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		log.Printf("cleanup-consumer: set QoS failed: %v", err)
	}

	_, err = ch.QueueDeclare(cleanupQueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(cleanupQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleCleanup(d.Body, cabins, blobs); err != nil {
			log.Printf("cleanup-consumer: handle message failed: %v", err)
			_ = d.Nack(false, true) // requeue so the delete is retried
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("delivery channel closed")
}

// handleCleanup retries the compensating delete for one event.  A row
// that is already gone counts as success; the photo delete is
// best-effort since the upload that produced the event failed anyway.
func handleCleanup(body []byte, cabins *repository.CabinRepo, blobs storage.Store) error {
	var ev CabinCleanupEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		// Malformed payloads can never succeed; drop them.
		log.Printf("cleanup-consumer: dropping malformed event: %v", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := cabins.DeleteByID(ctx, ev.CabinID); err != nil {
		return fmt.Errorf("delete cabin %d: %w", ev.CabinID, err)
	}
	if ev.ImageKey != "" {
		if err := blobs.Delete(ctx, ev.ImageKey); err != nil {
			log.Printf("cleanup-consumer: delete blob %q: %v", ev.ImageKey, err)
		}
	}
	log.Printf("cleanup-consumer: removed dangling cabin %d (%s)", ev.CabinID, ev.Reason)
	return nil
}
