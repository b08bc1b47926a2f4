package notify

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/matst80/gig-finder/pkg/messaging"
)

type RabbitNotifier struct {
	conn   *amqp.Connection
	prefix string
	origin string
	logger *zap.Logger
}

func NewRabbitNotifier(url, prefix string, logger *zap.Logger) (*RabbitNotifier, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	conn, err := amqp.DialConfig(url, amqp.Config{
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	if err := messaging.DefineTopic(ch, prefix, messaging.CatalogChanged); err != nil {
		conn.Close()
		return nil, err
	}
	return &RabbitNotifier{conn: conn, prefix: prefix, origin: NewOrigin(), logger: logger}, nil
}

func (r *RabbitNotifier) Origin() string {
	return r.origin
}

func (r *RabbitNotifier) Publish(ctx context.Context, change Change) error {
	change.Origin = r.origin
	if change.At.IsZero() {
		change.At = time.Now()
	}
	return messaging.SendChange(ctx, r.conn, r.prefix, messaging.CatalogChanged, change)
}

func (r *RabbitNotifier) Subscribe(ctx context.Context, fn func(Change)) error {
	ch, err := r.conn.Channel()
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		ch.Close()
	}()
	return messaging.ListenToTopic(ch, r.prefix, messaging.CatalogChanged, r.logger, func(d amqp.Delivery) error {
		change, err := decode(d.Body)
		if err != nil {
			return err
		}
		if change.Origin != r.origin {
			fn(change)
		}
		return nil
	})
}

func (r *RabbitNotifier) Close() error {
	return r.conn.Close()
}
