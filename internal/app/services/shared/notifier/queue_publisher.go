package notifier

import (
	"context"
	"fmt"
	"medichat-service/internal/app/models"
	"medichat-service/internal/pkg/constvars"
	"medichat-service/internal/pkg/exceptions"
	"sync"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// QueuePublisher mirrors notification events onto a durable RabbitMQ
// queue so downstream consumers (paging, SMS bridges) survive restarts
// of this service. Publishes wait for broker confirms.
type QueuePublisher struct {
	ch        *amqp.Channel
	queueName string
	confirms  chan amqp.Confirmation
	log       *zap.Logger
	mu        sync.Mutex
}

func NewQueuePublisher(conn *amqp.Connection, queueName string, log *zap.Logger) (*QueuePublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	return &QueuePublisher{
		ch:        ch,
		queueName: queueName,
		confirms:  ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
		log:       log,
	}, nil
}

func (p *QueuePublisher) Publish(ctx context.Context, event models.NotificationEvent) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}

	if err := p.ch.PublishWithContext(ctx, "", p.queueName, false, false, msg); err != nil {
		return exceptions.ErrQueuePublish(err)
	}

	select {
	case confirmed := <-p.confirms:
		if !confirmed.Ack {
			return exceptions.ErrQueuePublish(fmt.Errorf("message not confirmed"))
		}
	case <-ctx.Done():
		return exceptions.ErrQueuePublish(ctx.Err())
	}

	p.log.Info("QueuePublisher.Publish confirmed",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueueKey, p.queueName),
		zap.String(constvars.LoggingEventTypeKey, string(event.Type)),
		zap.String(constvars.LoggingPackageIDKey, event.PackageID),
	)
	return nil
}
